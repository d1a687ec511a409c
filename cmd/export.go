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
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ademuri/spotify-insights/internal/export"
	"github.com/ademuri/spotify-insights/internal/stats"
)

var (
	exportFormat      string
	exportHistoryPath string
	exportAnalysisOut string
	exportNoAPI       bool
)

var exportCmd = &cobra.Command{
	Use:   "export <directory>",
	Short: "Exports the merged history and analysis to files",
	Long: `Runs the normal pipeline, then writes the full deduplicated history
(JSON or CSV) and the analysis results (JSON).`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := runExport(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "History export format: 'json' or 'csv'")
	exportCmd.Flags().StringVar(&exportHistoryPath, "out", "", "History output path (default history_full.<format>)")
	exportCmd.Flags().StringVar(&exportAnalysisOut, "analysis-out", "analysis.json", "Analysis output path")
	exportCmd.Flags().BoolVar(&exportNoAPI, "no-api", false, "Skip the Spotify API gap-fill")
}

func runExport(dir string) error {
	result, procStats, err := loadAndNormalize(dir, !exportNoAPI)
	if err != nil {
		return err
	}
	printProcessSummary(procStats)

	historyPath := exportHistoryPath
	switch exportFormat {
	case "json":
		if historyPath == "" {
			historyPath = "history_full.json"
		}
		err = export.HistoryJSON(result.Events, historyPath)
	case "csv":
		if historyPath == "" {
			historyPath = "history_full.csv"
		}
		err = export.HistoryCSV(result.Events, historyPath)
	default:
		return fmt.Errorf("unknown export format %q", exportFormat)
	}
	if err != nil {
		return fmt.Errorf("exporting history: %w", err)
	}

	msg, err := export.Describe(historyPath, len(result.Events))
	if err != nil {
		return err
	}
	fmt.Println(msg)

	results := stats.Analyze(result.Events, time.Now())
	if err := export.AnalysisJSON(results, exportAnalysisOut); err != nil {
		return fmt.Errorf("exporting analysis: %w", err)
	}
	fmt.Printf("Exported analysis to %s\n", exportAnalysisOut)
	return nil
}
