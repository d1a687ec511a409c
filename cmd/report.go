/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/spotify-insights/internal/model"
	"github.com/ademuri/spotify-insights/internal/normalize"
	"github.com/ademuri/spotify-insights/internal/render"
	"github.com/ademuri/spotify-insights/internal/stats"
	"github.com/ademuri/spotify-insights/internal/store"
)

var (
	reportArtists int
	reportTracks  int
	reportAlbums  int
)

var reportCmd = &cobra.Command{
	Use:   "report [from] [to (optional)]",
	Short: "Reports on archived listening history",
	Long: `Generates the statistics report from the local archive, over the whole
history or a date range. Date strings look like 'yyyy', 'yyyy-mm', or
'yyyy-mm-dd'.`,
	Args: cobra.RangeArgs(0, 2),
	Run: func(cmd *cobra.Command, args []string) {
		err := printReport(os.Stdout, viper.GetString("database"), args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().IntVar(&reportArtists, "artists", 15, "Number of top artists to show")
	reportCmd.Flags().IntVar(&reportTracks, "tracks", 15, "Number of top tracks to show")
	reportCmd.Flags().IntVar(&reportAlbums, "albums", 10, "Number of top albums to show")
}

// archivedResults loads the requested range from the archive and
// re-aggregates it. The normalizer is idempotent over archived data, so
// re-running it here only re-derives the temporal fields.
func archivedResults(dbPath string, args []string) (results model.Results, count int, err error) {
	start, end, err := parseDateRangeFromArgs(args)
	if err != nil {
		return
	}

	exists, err := store.Exists(dbPath)
	if err != nil {
		return
	}
	if !exists {
		err = fmt.Errorf("Archive doesn't exist - run archive first.")
		return
	}

	db, err := store.New(dbPath)
	if err != nil {
		return
	}
	defer db.Close()

	raw, err := db.LoadEvents(start, end)
	if err != nil {
		return
	}

	normalized := normalize.Normalize(raw, normalizerConfig())
	results = stats.Analyze(normalized.Events, time.Now())
	count = len(normalized.Events)
	return
}

func printReport(out io.Writer, dbPath string, args []string) error {
	results, count, err := archivedResults(dbPath, args)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Listening report over %d archived events\n\n", count)
	topN := render.TopN{Artists: reportArtists, Tracks: reportTracks, Albums: reportAlbums}
	fmt.Fprintln(out, render.Report(results, topN))
	return nil
}
