// Package loader discovers and parses Spotify extended streaming history
// export files. Each parsed event is tagged with the file it came from,
// which the normalizer uses when resolving duplicates across overlapping
// exports.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ademuri/spotify-insights/internal/model"
	"github.com/ademuri/spotify-insights/internal/normalize"
)

// FileSummary describes one loaded export file.
type FileSummary struct {
	Name     string
	Size     int64
	Entries  int
	Earliest time.Time
	Latest   time.Time
}

// Discover returns the JSON files in dir, sorted by name.
func Discover(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no JSON files found in %s", dir)
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadFile parses a single export file. Events are tagged with the file
// base name as their origin.
func LoadFile(path string) ([]model.RawEvent, FileSummary, error) {
	summary := FileSummary{Name: filepath.Base(path)}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, summary, fmt.Errorf("reading %s: %w", path, err)
	}
	summary.Size = int64(len(data))

	var events []model.RawEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, summary, fmt.Errorf("parsing %s: %w", path, err)
	}

	for i := range events {
		events[i].Origin = summary.Name
		// Summary range only; unparsable timestamps are handled (and
		// counted) by the normalizer, not here.
		if t, err := normalize.ParseTimestamp(events[i].PlayedAt); err == nil {
			if summary.Earliest.IsZero() || t.Before(summary.Earliest) {
				summary.Earliest = t
			}
			if t.After(summary.Latest) {
				summary.Latest = t
			}
		}
	}
	summary.Entries = len(events)
	return events, summary, nil
}

// LoadAll loads every discovered file and returns the combined raw
// events with per-file summaries and running diagnostics.
func LoadAll(paths []string) ([]model.RawEvent, []FileSummary, model.ProcessStats, error) {
	var all []model.RawEvent
	var summaries []FileSummary
	var stats model.ProcessStats

	for _, p := range paths {
		events, summary, err := LoadFile(p)
		if err != nil {
			return nil, nil, stats, err
		}
		all = append(all, events...)
		summaries = append(summaries, summary)
		stats.FilesProcessed++
		stats.TotalEntries += summary.Entries
	}
	return all, summaries, stats, nil
}
