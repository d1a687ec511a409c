package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ademuri/spotify-insights/internal/loader"
	"github.com/ademuri/spotify-insights/internal/model"
	"github.com/ademuri/spotify-insights/internal/normalize"
	"github.com/ademuri/spotify-insights/internal/stats"
)

func testEvents(t *testing.T) []model.CanonicalEvent {
	t.Helper()
	raw := []model.RawEvent{
		{
			PlayedAt:   "2024-01-01T10:00:00Z",
			MsPlayed:   60000,
			TrackName:  "Test Track",
			ArtistName: "Test Artist",
			TrackURI:   "spotify:track:abc",
			Origin:     "history.json",
		},
		{
			PlayedAt: "2024-01-02T11:00:00Z",
			MsPlayed: 5000,
			Origin:   "history.json",
		},
	}
	return normalize.Normalize(raw, normalize.DefaultConfig()).Events
}

func TestHistoryJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history_full.json")
	if err := HistoryJSON(testEvents(t), path); err != nil {
		t.Fatalf("HistoryJSON error: %v", err)
	}

	// The export must parse back through the loader.
	loaded, summary, err := loader.LoadFile(path)
	if err != nil {
		t.Fatalf("Re-loading export: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("Round trip lost events: got %d, want 2", len(loaded))
	}
	if loaded[0].TrackName != "Test Track" || loaded[0].TrackURI != "spotify:track:abc" {
		t.Errorf("Round trip mangled event: %+v", loaded[0])
	}
	if loaded[1].TrackName != "" {
		t.Errorf("Absent track name should round-trip as empty, got %q", loaded[1].TrackName)
	}
	if summary.Entries != 2 {
		t.Errorf("summary.Entries = %d", summary.Entries)
	}
}

func TestHistoryJSONNulls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history_full.json")
	if err := HistoryJSON(testEvents(t), path); err != nil {
		t.Fatalf("HistoryJSON error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Reading export: %v", err)
	}
	if !strings.Contains(string(data), `"master_metadata_track_name": null`) {
		t.Errorf("Absent metadata should export as null")
	}
}

func TestHistoryCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history_full.csv")
	if err := HistoryCSV(testEvents(t), path); err != nil {
		t.Fatalf("HistoryCSV error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Opening export: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("Parsing CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Got %d rows, want header plus 2", len(records))
	}
	if records[0][0] != "ts" {
		t.Errorf("Header row = %v", records[0])
	}
	if records[1][0] != "2024-01-01T10:00:00Z" {
		t.Errorf("First data row ts = %q", records[1][0])
	}
}

func TestAnalysisJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.json")
	results := stats.Analyze(testEvents(t), time.Now())
	if err := AnalysisJSON(results, path); err != nil {
		t.Fatalf("AnalysisJSON error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Reading analysis: %v", err)
	}
	for _, key := range []string{`"overall"`, `"top_artists"`, `"temporal"`, `"streaks"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("Analysis export missing %s", key)
		}
	}
}
