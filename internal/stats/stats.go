// Package stats computes the full statistics result set from the
// canonical event table. It assumes the normalizer's postcondition (a
// valid, sorted, deduplicated table) and never re-derives temporal
// fields. An empty table degenerates to zero/empty results, never an
// error.
package stats

import (
	"sort"
	"time"

	"github.com/ademuri/spotify-insights/internal/model"
)

// Analyze runs every aggregation over the canonical table. now anchors
// the current-streak computation.
func Analyze(events []model.CanonicalEvent, now time.Time) model.Results {
	return model.Results{
		Overall:    Overall(events),
		TopArtists: TopArtists(events),
		TopTracks:  TopTracks(events),
		TopAlbums:  TopAlbums(events),
		Temporal:   Temporal(events),
		Streaks:    Streaks(events, now),
		Advanced:   Advanced(events),
	}
}

// Overall computes the high-level totals. Total play time includes
// skips, since skip time still represents elapsed audio.
func Overall(events []model.CanonicalEvent) model.OverallStats {
	var o model.OverallStats
	if len(events) == 0 {
		return o
	}

	artists := make(map[string]struct{})
	tracks := make(map[[2]string]struct{})
	albums := make(map[[2]string]struct{})
	days := make(map[time.Time]struct{})
	var weekendMs, weekdayMs int64

	for _, e := range events {
		o.TotalMsPlayed += e.MsPlayed
		if e.ArtistName != "" {
			artists[e.ArtistName] = struct{}{}
		}
		if e.TrackName != "" {
			tracks[[2]string{e.TrackName, e.ArtistName}] = struct{}{}
		}
		if e.AlbumName != "" {
			albums[[2]string{e.AlbumName, e.ArtistName}] = struct{}{}
		}
		days[e.Date] = struct{}{}
		if e.DayOfWeek == time.Saturday || e.DayOfWeek == time.Sunday {
			weekendMs += e.MsPlayed
		} else {
			weekdayMs += e.MsPlayed
		}
	}

	o.TotalEvents = len(events)
	o.UniqueArtists = len(artists)
	o.UniqueTracks = len(tracks)
	o.UniqueAlbums = len(albums)
	o.HasData = true
	o.FirstDate = events[0].Date
	o.LastDate = events[len(events)-1].Date
	o.DaysCovered = int(o.LastDate.Sub(o.FirstDate).Hours()/24) + 1
	o.ActiveDays = len(days)
	o.ActiveDaysPct = float64(o.ActiveDays) / float64(o.DaysCovered) * 100
	o.DailyAvgMinutes = float64(o.TotalMsPlayed) / (1000 * 60) / float64(o.DaysCovered)
	if weekdayMs > 0 {
		o.WeekendWeekdayRatio = float64(weekendMs) / float64(weekdayMs)
	}
	return o
}

type entityAcc struct {
	name   string
	artist string
	plays  int64
	ms     int64
	first  time.Time
	last   time.Time
}

func (a *entityAcc) add(e model.CanonicalEvent) {
	a.plays++
	a.ms += e.MsPlayed
	if a.first.IsZero() || e.PlayedAtUTC.Before(a.first) {
		a.first = e.PlayedAtUTC
	}
	if e.PlayedAtUTC.After(a.last) {
		a.last = e.PlayedAtUTC
	}
}

// rank groups non-skip events by a key and orders the groups by summed
// play time descending, play count descending, then name (and artist)
// ascending for determinism. Events where key returns ok=false are
// ignored for this ranking only.
func rank(events []model.CanonicalEvent, key func(model.CanonicalEvent) (name, artist string, ok bool)) []model.RankedEntity {
	groups := make(map[[2]string]*entityAcc)
	for _, e := range events {
		if e.IsSkip {
			continue
		}
		name, artist, ok := key(e)
		if !ok {
			continue
		}
		k := [2]string{name, artist}
		acc := groups[k]
		if acc == nil {
			acc = &entityAcc{name: name, artist: artist}
			groups[k] = acc
		}
		acc.add(e)
	}

	ranked := make([]model.RankedEntity, 0, len(groups))
	for _, acc := range groups {
		ranked = append(ranked, model.RankedEntity{
			Name:          acc.name,
			Artist:        acc.artist,
			PlayCount:     acc.plays,
			TotalMsPlayed: acc.ms,
			FirstPlayed:   acc.first,
			LastPlayed:    acc.last,
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalMsPlayed != ranked[j].TotalMsPlayed {
			return ranked[i].TotalMsPlayed > ranked[j].TotalMsPlayed
		}
		if ranked[i].PlayCount != ranked[j].PlayCount {
			return ranked[i].PlayCount > ranked[j].PlayCount
		}
		if ranked[i].Name != ranked[j].Name {
			return ranked[i].Name < ranked[j].Name
		}
		return ranked[i].Artist < ranked[j].Artist
	})
	return ranked
}

// TopArtists ranks artists over all qualifying plays. Events with no
// artist metadata (podcasts, local files) do not contribute.
func TopArtists(events []model.CanonicalEvent) []model.RankedEntity {
	return rank(events, func(e model.CanonicalEvent) (string, string, bool) {
		return e.ArtistName, "", e.ArtistName != ""
	})
}

// TopTracks ranks (track, artist) pairs. A track with no artist metadata
// still contributes here.
func TopTracks(events []model.CanonicalEvent) []model.RankedEntity {
	return rank(events, func(e model.CanonicalEvent) (string, string, bool) {
		return e.TrackName, e.ArtistName, e.TrackName != ""
	})
}

// TopAlbums ranks (album, artist) pairs.
func TopAlbums(events []model.CanonicalEvent) []model.RankedEntity {
	return rank(events, func(e model.CanonicalEvent) (string, string, bool) {
		return e.AlbumName, e.ArtistName, e.AlbumName != ""
	})
}

// Temporal buckets play time by hour of day, day of week, calendar month
// across years, and year. All events count, skips included: the question
// is when audio was playing, not what the user favored.
func Temporal(events []model.CanonicalEvent) model.TemporalStats {
	t := model.TemporalStats{ByYear: make(map[int]int64)}
	for _, e := range events {
		t.ByHour[e.HourOfDay] += e.MsPlayed
		t.ByWeekday[e.DayOfWeek] += e.MsPlayed
		t.ByMonth[e.Month-1] += e.MsPlayed
		t.ByYear[e.Year] += e.MsPlayed
	}
	return t
}

// Advanced computes the supplemental listening-habit metrics.
func Advanced(events []model.CanonicalEvent) model.AdvancedStats {
	var a model.AdvancedStats
	if len(events) == 0 {
		return a
	}

	dailyMs := make(map[time.Time]int64)
	dailyTracks := make(map[time.Time]map[[2]string]struct{})
	monthlyMs := make(map[string]int64)
	trackPlays := make(map[[2]string]int64)

	for _, e := range events {
		dailyMs[e.Date] += e.MsPlayed
		monthlyMs[e.Date.Format("2006-01")] += e.MsPlayed
		if e.TrackName != "" {
			k := [2]string{e.TrackName, e.ArtistName}
			if !e.IsSkip {
				trackPlays[k]++
			}
			set := dailyTracks[e.Date]
			if set == nil {
				set = make(map[[2]string]struct{})
				dailyTracks[e.Date] = set
			}
			set[k] = struct{}{}
		}
	}

	var totalMs int64
	perDay := make([]int64, 0, len(dailyMs))
	for day, ms := range dailyMs {
		perDay = append(perDay, ms)
		totalMs += ms
		if ms > a.MostActiveDayMs || (ms == a.MostActiveDayMs && (a.MostActiveDay.IsZero() || day.Before(a.MostActiveDay))) {
			a.MostActiveDay = day
			a.MostActiveDayMs = ms
		}
	}
	sort.Slice(perDay, func(i, j int) bool { return perDay[i] < perDay[j] })
	a.AvgDailyMs = totalMs / int64(len(perDay))
	a.MedianDailyMs = perDay[len(perDay)/2]
	if len(perDay)%2 == 0 {
		a.MedianDailyMs = (perDay[len(perDay)/2-1] + perDay[len(perDay)/2]) / 2
	}

	for _, n := range trackPlays {
		if n >= 10 {
			a.HeavilyRepeatedTracks++
		}
	}

	var varietySum int
	for _, set := range dailyTracks {
		varietySum += len(set)
	}
	if len(dailyTracks) > 0 {
		a.AvgDailyTrackVariety = float64(varietySum) / float64(len(dailyTracks))
	}

	for month, ms := range monthlyMs {
		if ms > a.MostActiveMonthMs || (ms == a.MostActiveMonthMs && (a.MostActiveMonth == "" || month < a.MostActiveMonth)) {
			a.MostActiveMonth = month
			a.MostActiveMonthMs = ms
		}
	}
	return a
}
