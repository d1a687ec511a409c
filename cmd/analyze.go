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

	"github.com/ademuri/spotify-insights/internal/render"
	"github.com/ademuri/spotify-insights/internal/stats"
)

var (
	analyzeArtists int
	analyzeTracks  int
	analyzeAlbums  int
	analyzeNoAPI   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <directory>",
	Short: "Analyzes a directory of streaming history files",
	Long: `Loads the JSON export files in the directory, removes duplicates,
optionally fills the gap since the newest entry from the Spotify API,
and prints the full statistics report.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := runAnalyze(os.Stdout, args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().IntVar(&analyzeArtists, "artists", 15, "Number of top artists to show")
	analyzeCmd.Flags().IntVar(&analyzeTracks, "tracks", 15, "Number of top tracks to show")
	analyzeCmd.Flags().IntVar(&analyzeAlbums, "albums", 10, "Number of top albums to show")
	analyzeCmd.Flags().BoolVar(&analyzeNoAPI, "no-api", false, "Skip the Spotify API gap-fill")
}

func runAnalyze(out io.Writer, dir string) error {
	result, procStats, err := loadAndNormalize(dir, !analyzeNoAPI)
	if err != nil {
		return err
	}
	printProcessSummary(procStats)

	results := stats.Analyze(result.Events, time.Now())
	topN := render.TopN{Artists: analyzeArtists, Tracks: analyzeTracks, Albums: analyzeAlbums}
	fmt.Fprintln(out, render.Report(results, topN))
	return nil
}
