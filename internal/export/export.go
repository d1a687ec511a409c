// Package export writes the canonical history and the analysis results
// to files, in shapes other tools can ingest. History exports use the
// original Spotify column names so a round-trip back through the loader
// works.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/ademuri/spotify-insights/internal/model"
)

const exportTimeLayout = "2006-01-02T15:04:05Z"

// historyRecord mirrors the original export schema. Optional fields are
// pointers so absent metadata round-trips as null, not "".
type historyRecord struct {
	Ts          string  `json:"ts"`
	TrackURI    *string `json:"spotify_track_uri"`
	MsPlayed    int64   `json:"ms_played"`
	TrackName   *string `json:"master_metadata_track_name"`
	ArtistName  *string `json:"master_metadata_album_artist_name"`
	AlbumName   *string `json:"master_metadata_album_album_name"`
	Platform    *string `json:"platform"`
	ConnCountry *string `json:"conn_country"`
	ReasonStart *string `json:"reason_start"`
	ReasonEnd   *string `json:"reason_end"`
	Shuffle     bool    `json:"shuffle"`
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toRecord(e model.CanonicalEvent) historyRecord {
	return historyRecord{
		Ts:          e.PlayedAtUTC.UTC().Format(exportTimeLayout),
		TrackURI:    nullable(e.TrackURI),
		MsPlayed:    e.MsPlayed,
		TrackName:   nullable(e.TrackName),
		ArtistName:  nullable(e.ArtistName),
		AlbumName:   nullable(e.AlbumName),
		Platform:    nullable(e.Platform),
		ConnCountry: nullable(e.ConnCountry),
		ReasonStart: nullable(e.ReasonStart),
		ReasonEnd:   nullable(e.ReasonEnd),
		Shuffle:     e.Shuffle,
	}
}

// HistoryJSON writes the full canonical history to path.
func HistoryJSON(events []model.CanonicalEvent, path string) error {
	records := make([]historyRecord, len(events))
	for i, e := range events {
		records[i] = toRecord(e)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// HistoryCSV writes the full canonical history to path as CSV.
func HistoryCSV(events []model.CanonicalEvent, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"ts", "spotify_track_uri", "ms_played",
		"master_metadata_track_name", "master_metadata_album_artist_name", "master_metadata_album_album_name",
		"platform", "conn_country", "reason_start", "reason_end", "shuffle",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, e := range events {
		row := []string{
			e.PlayedAtUTC.UTC().Format(exportTimeLayout),
			e.TrackURI,
			strconv.FormatInt(e.MsPlayed, 10),
			e.TrackName, e.ArtistName, e.AlbumName,
			e.Platform, e.ConnCountry, e.ReasonStart, e.ReasonEnd,
			strconv.FormatBool(e.Shuffle),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}

// AnalysisJSON writes the full result bundle to path.
func AnalysisJSON(results model.Results, path string) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling analysis: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Describe summarizes an export for the user.
func Describe(path string, entries int) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("statting %s: %w", path, err)
	}
	return fmt.Sprintf("Exported %d entries to %s (%s)", entries, path, formatSize(info.Size())), nil
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
