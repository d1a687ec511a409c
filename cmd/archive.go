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

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/spotify-insights/internal/store"
)

var archiveNoAPI bool

var archiveCmd = &cobra.Command{
	Use:   "archive <directory>",
	Short: "Stores the merged history in the local archive",
	Long: `Runs the normal pipeline, then writes the canonical events into the
SQLite archive so 'report' and 'email' can run without the export files.
Archiving overlapping exports is safe; existing rows are kept.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := runArchive(viper.GetString("database"), args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(archiveCmd)
	archiveCmd.Flags().BoolVar(&archiveNoAPI, "no-api", false, "Skip the Spotify API gap-fill")
}

func runArchive(dbPath, dir string) error {
	result, procStats, err := loadAndNormalize(dir, !archiveNoAPI)
	if err != nil {
		return err
	}
	printProcessSummary(procStats)

	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer db.Close()

	inserted, err := db.SaveEvents(result.Events)
	if err != nil {
		return fmt.Errorf("archiving events: %w", err)
	}

	total, err := db.CountEvents()
	if err != nil {
		return err
	}
	fmt.Printf("Archived %d new events (%d total) in %s\n", inserted, total, dbPath)
	return nil
}
