package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/ademuri/spotify-insights/internal/loader"
	"github.com/ademuri/spotify-insights/internal/model"
	"github.com/ademuri/spotify-insights/internal/normalize"
	"github.com/ademuri/spotify-insights/internal/spotify"
)

// loadAndNormalize runs the shared front half of every command: discover
// and load the export files, optionally fill the gap from the Spotify
// API, and normalize the combined raw events into the canonical table.
func loadAndNormalize(dir string, useAPI bool) (normalize.Result, model.ProcessStats, error) {
	paths, err := loader.Discover(dir)
	if err != nil {
		return normalize.Result{}, model.ProcessStats{}, err
	}

	raw, summaries, procStats, err := loader.LoadAll(paths)
	if err != nil {
		return normalize.Result{}, procStats, err
	}
	for _, s := range summaries {
		if s.Earliest.IsZero() {
			fmt.Printf("  %s: %d entries\n", s.Name, s.Entries)
			continue
		}
		fmt.Printf("  %s: %d entries, %s to %s\n", s.Name, s.Entries,
			s.Earliest.Format("2006-01-02"), s.Latest.Format("2006-01-02"))
	}
	fmt.Printf("Loaded %d entries from %d files\n", procStats.TotalEntries, procStats.FilesProcessed)

	cfg := normalizerConfig()
	result := normalize.Normalize(raw, cfg)

	if useAPI {
		fetched, err := fetchGap(result)
		if err != nil {
			// Gap-fill failures degrade to export-only results.
			fmt.Printf("Skipping API gap-fill: %v\n", err)
		} else if len(fetched) > 0 {
			fmt.Printf("Fetched %d plays from the Spotify API\n", len(fetched))
			procStats.APIEntriesAdded = len(fetched)
			raw = append(raw, fetched...)
			result = normalize.Normalize(raw, cfg)
		}
	}

	procStats.DroppedMalformed = result.Dropped
	procStats.DuplicatesRemoved = result.Duplicates
	procStats.FinalEntries = len(result.Events)
	return result, procStats, nil
}

func fetchGap(result normalize.Result) ([]model.RawEvent, error) {
	clientID := viper.GetString("spotify_client_id")
	clientSecret := viper.GetString("spotify_client_secret")
	refreshToken := viper.GetString("spotify_refresh_token")
	if clientID == "" || clientSecret == "" || refreshToken == "" {
		return nil, fmt.Errorf("spotify_client_id, spotify_client_secret, and spotify_refresh_token are not all set")
	}
	if len(result.Events) == 0 {
		return nil, fmt.Errorf("no local events to fill after")
	}

	after := result.Events[len(result.Events)-1].PlayedAtUTC
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client := spotify.New(ctx, clientID, clientSecret, refreshToken)
	return client.RecentlyPlayedAfter(ctx, after)
}

func printProcessSummary(stats model.ProcessStats) {
	fmt.Println()
	fmt.Println("## Processing Summary")
	fmt.Printf("Files processed:    %d\n", stats.FilesProcessed)
	fmt.Printf("Total entries:      %d\n", stats.TotalEntries)
	fmt.Printf("Duplicates removed: %d\n", stats.DuplicatesRemoved)
	if stats.DroppedMalformed > 0 {
		fmt.Printf("Malformed entries:  %d (dropped)\n", stats.DroppedMalformed)
	}
	if stats.APIEntriesAdded > 0 {
		fmt.Printf("API entries added:  %d\n", stats.APIEntriesAdded)
	}
	fmt.Printf("Final entries:      %d\n", stats.FinalEntries)
	fmt.Println()
}
