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
	"github.com/spf13/pflag"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/ademuri/spotify-insights/internal/normalize"
)

var cfgFile string
var databasePath string
var skipThresholdMs int64
var preferSource string
var spotifyClientID string
var spotifyClientSecret string
var spotifyRefreshToken string
var sendgridApiKey string
var fromAddress string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "spotify-insights",
	Short: "Analyzes a Spotify streaming history export",
	Long: `Deduplicates and enriches Spotify extended streaming history exports,
then computes listening statistics: top artists, tracks, and albums,
temporal patterns, and streaks.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.spotify-insights.yaml)")

	rootCmd.PersistentFlags().StringVarP(
		&databasePath, "database", "d", "./spotify-insights.db", "Path to the SQLite archive")
	viper.BindPFlag("database", rootCmd.PersistentFlags().Lookup("database"))

	rootCmd.PersistentFlags().Int64Var(
		&skipThresholdMs, "skip-threshold", normalize.DefaultSkipThresholdMs,
		"Plays shorter than this many milliseconds count as skips")
	viper.BindPFlag("skip-threshold", rootCmd.PersistentFlags().Lookup("skip-threshold"))

	rootCmd.PersistentFlags().StringVar(
		&preferSource, "prefer-source", "export",
		"Which source wins duplicate ties of equal completeness: 'export' or 'api'")
	viper.BindPFlag("prefer-source", rootCmd.PersistentFlags().Lookup("prefer-source"))

	rootCmd.PersistentFlags().StringVar(&spotifyClientID, "spotify_client_id", "", "Spotify API client ID")
	viper.BindPFlag("spotify_client_id", rootCmd.PersistentFlags().Lookup("spotify_client_id"))

	rootCmd.PersistentFlags().StringVar(&spotifyClientSecret, "spotify_client_secret", "", "Spotify API client secret")
	viper.BindPFlag("spotify_client_secret", rootCmd.PersistentFlags().Lookup("spotify_client_secret"))

	rootCmd.PersistentFlags().StringVar(&spotifyRefreshToken, "spotify_refresh_token", "", "Spotify API refresh token")
	viper.BindPFlag("spotify_refresh_token", rootCmd.PersistentFlags().Lookup("spotify_refresh_token"))

	rootCmd.PersistentFlags().StringVar(&sendgridApiKey, "sendgrid_api_key", "", "SendGrid API key, for emailed reports")
	viper.BindPFlag("sendgrid_api_key", rootCmd.PersistentFlags().Lookup("sendgrid_api_key"))

	rootCmd.PersistentFlags().StringVar(&fromAddress, "from", "", "From email address")
	viper.BindPFlag("from", rootCmd.PersistentFlags().Lookup("from"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".spotify-insights" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".spotify-insights")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.Flags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}

func normalizerConfig() normalize.Config {
	cfg := normalize.Config{
		SkipThresholdMs: viper.GetInt64("skip-threshold"),
	}
	if cfg.SkipThresholdMs <= 0 {
		cfg.SkipThresholdMs = normalize.DefaultSkipThresholdMs
	}
	cfg.PreferAPI = viper.GetString("prefer-source") == "api"
	return cfg
}
