// Package normalize merges possibly-overlapping raw event streams into a
// deduplicated, time-enriched, sorted canonical event table.
package normalize

import (
	"fmt"
	"sort"
	"time"

	"github.com/ademuri/spotify-insights/internal/model"
)

// DefaultSkipThresholdMs separates a play from a preview or skip.
const DefaultSkipThresholdMs = 30000

// Config holds the tunables the normalizer reads.
type Config struct {
	// SkipThresholdMs marks events played for less than this many
	// milliseconds as skips.
	SkipThresholdMs int64

	// PreferAPI resolves duplicate collisions of equal completeness in
	// favor of API-origin records. The default prefers historical
	// exports, which are authoritative for older data.
	PreferAPI bool
}

// DefaultConfig returns the configuration used when no flags override it.
func DefaultConfig() Config {
	return Config{SkipThresholdMs: DefaultSkipThresholdMs}
}

// Result is the canonical table plus diagnostics about what was removed
// along the way. Dropped events are counted, not silently discarded.
type Result struct {
	Events     []model.CanonicalEvent
	Dropped    int
	Duplicates int
}

// Accepted timestamp layouts, most specific first. Layouts without a
// zone are interpreted as UTC.
var timestampLayouts = []struct {
	layout string
	hasTZ  bool
}{
	{time.RFC3339Nano, true},
	{time.RFC3339, true},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02 15:04:05", false},
	{"2006-01-02T15:04Z", true},
	{"2006-01-02T15:04", false},
	{"2006-01-02 15:04", false},
}

// ParseTimestamp normalizes a source timestamp string to UTC. Source
// files may carry sub-second precision, minute-truncated values, or
// values with no zone information.
func ParseTimestamp(s string) (time.Time, error) {
	for _, l := range timestampLayouts {
		t, err := time.Parse(l.layout, s)
		if err != nil {
			continue
		}
		if !l.hasTZ {
			t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
		}
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("malformed timestamp %q", s)
}

// identityKey identifies one real-world listening occurrence across
// sources. Timestamp-only comparison fails on sub-second jitter between
// sources, and content-only comparison conflates legitimate replays, so
// the key combines both.
type identityKey struct {
	unixSecond int64
	trackURI   string
	trackName  string
	artistName string
	msPlayed   int64
}

func keyFor(e model.RawEvent, playedAt time.Time) identityKey {
	k := identityKey{
		unixSecond: playedAt.Round(time.Second).Unix(),
		msPlayed:   e.MsPlayed,
	}
	if e.TrackURI != "" {
		k.trackURI = e.TrackURI
	} else {
		k.trackName = e.TrackName
		k.artistName = e.ArtistName
	}
	return k
}

// completeness counts the populated optional fields of an event. A
// record from a more complete source wins duplicate collisions.
func completeness(e model.RawEvent) int {
	n := 0
	for _, f := range []string{
		e.TrackName, e.ArtistName, e.AlbumName, e.TrackURI,
		e.Platform, e.ConnCountry, e.ReasonStart, e.ReasonEnd,
	} {
		if f != "" {
			n++
		}
	}
	return n
}

// replaces decides a duplicate collision between the already-kept event
// and a new candidate sharing its identity key. It is a pure comparison:
// fields are never merged between the two records. When neither rule
// picks a winner the kept event stays, preserving input order.
func replaces(kept, candidate model.RawEvent, cfg Config) bool {
	kc, cc := completeness(kept), completeness(candidate)
	if cc != kc {
		return cc > kc
	}
	if kept.IsFromAPI() != candidate.IsFromAPI() {
		return candidate.IsFromAPI() == cfg.PreferAPI
	}
	return false
}

func enrich(e model.RawEvent, playedAt time.Time, cfg Config) model.CanonicalEvent {
	return model.CanonicalEvent{
		RawEvent:    e,
		PlayedAtUTC: playedAt,
		Date:        playedAt.Truncate(24 * time.Hour),
		HourOfDay:   playedAt.Hour(),
		DayOfWeek:   playedAt.Weekday(),
		Month:       playedAt.Month(),
		Year:        playedAt.Year(),
		IsSkip:      e.MsPlayed < cfg.SkipThresholdMs,
	}
}

// Normalize deduplicates and enriches raw events from any number of
// origins. Input order is not relied upon except to break otherwise
// unresolvable duplicate ties. An empty input yields an empty result.
func Normalize(raw []model.RawEvent, cfg Config) Result {
	var res Result

	kept := make(map[identityKey]int, len(raw))
	events := make([]model.CanonicalEvent, 0, len(raw))

	for _, e := range raw {
		playedAt, err := ParseTimestamp(e.PlayedAt)
		if err != nil {
			res.Dropped++
			continue
		}

		k := keyFor(e, playedAt)
		if i, ok := kept[k]; ok {
			res.Duplicates++
			if replaces(events[i].RawEvent, e, cfg) {
				events[i] = enrich(e, playedAt, cfg)
			}
			continue
		}
		kept[k] = len(events)
		events = append(events, enrich(e, playedAt, cfg))
	}

	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].PlayedAtUTC.Equal(events[j].PlayedAtUTC) {
			return events[i].PlayedAtUTC.Before(events[j].PlayedAtUTC)
		}
		if events[i].TrackName != events[j].TrackName {
			return events[i].TrackName < events[j].TrackName
		}
		return events[i].TrackURI < events[j].TrackURI
	})

	res.Events = events
	return res
}
