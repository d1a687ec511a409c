// Package model holds the event representations shared by the pipeline
// stages and the typed result records produced by the aggregator.
package model

import "time"

// Origin tag for events fetched from the Spotify API rather than an
// export file.
const APIOrigin = "api"

// RawEvent is one listening occurrence as produced by the loader or the
// API gap-fill, before deduplication or enrichment. JSON field names
// match the Spotify extended streaming history schema.
type RawEvent struct {
	PlayedAt    string `json:"ts"`
	MsPlayed    int64  `json:"ms_played"`
	TrackName   string `json:"master_metadata_track_name"`
	ArtistName  string `json:"master_metadata_album_artist_name"`
	AlbumName   string `json:"master_metadata_album_album_name"`
	TrackURI    string `json:"spotify_track_uri"`
	Platform    string `json:"platform"`
	ConnCountry string `json:"conn_country"`
	ReasonStart string `json:"reason_start"`
	ReasonEnd   string `json:"reason_end"`
	Shuffle     bool   `json:"shuffle"`

	// Origin names the source that produced this record: the export file
	// name, or APIOrigin. Not part of the Spotify schema.
	Origin string `json:"-"`
}

// IsFromAPI reports whether the event came from the live API rather than
// a historical export file.
func (e RawEvent) IsFromAPI() bool {
	return e.Origin == APIOrigin
}

// CanonicalEvent is a deduplicated, UTC-normalized event with temporal
// fields derived once at normalization time.
type CanonicalEvent struct {
	RawEvent

	PlayedAtUTC time.Time
	// Date is the calendar day of the play, at midnight UTC.
	Date      time.Time
	HourOfDay int
	DayOfWeek time.Weekday
	Month     time.Month
	Year      int
	IsSkip    bool
}

// OverallStats are the high-level listening totals.
type OverallStats struct {
	TotalEvents   int   `json:"total_events"`
	TotalMsPlayed int64 `json:"total_ms_played"`
	UniqueTracks  int   `json:"unique_tracks"`
	UniqueArtists int   `json:"unique_artists"`
	UniqueAlbums  int   `json:"unique_albums"`

	// HasData is false for an empty table; the date fields below are
	// meaningless when it is false.
	HasData   bool      `json:"has_data"`
	FirstDate time.Time `json:"first_date"`
	LastDate  time.Time `json:"last_date"`

	DaysCovered         int     `json:"days_covered"`
	ActiveDays          int     `json:"active_days"`
	ActiveDaysPct       float64 `json:"active_days_pct"`
	DailyAvgMinutes     float64 `json:"daily_avg_minutes"`
	WeekendWeekdayRatio float64 `json:"weekend_weekday_ratio"`
}

// RankedEntity is one entry in a top-artists/tracks/albums list. Artist
// is empty for artist rankings.
type RankedEntity struct {
	Name          string    `json:"name"`
	Artist        string    `json:"artist,omitempty"`
	PlayCount     int64     `json:"play_count"`
	TotalMsPlayed int64     `json:"total_ms_played"`
	FirstPlayed   time.Time `json:"first_played"`
	LastPlayed    time.Time `json:"last_played"`
}

// TemporalStats are play-time distributions in milliseconds. Hour and
// weekday buckets are always fully populated; ByMonth aggregates the
// same calendar month across years; ByYear has a key per year seen.
type TemporalStats struct {
	ByHour    [24]int64     `json:"by_hour"`
	ByWeekday [7]int64      `json:"by_weekday"`
	ByMonth   [12]int64     `json:"by_month"`
	ByYear    map[int]int64 `json:"by_year"`
}

// StreakStats describe runs of consecutive days with at least one
// non-skip play.
type StreakStats struct {
	LongestLength int       `json:"longest_length"`
	LongestStart  time.Time `json:"longest_start"`
	LongestEnd    time.Time `json:"longest_end"`
	CurrentLength int       `json:"current_length"`
	// TotalActiveDays counts distinct qualifying days over the whole table.
	TotalActiveDays int `json:"total_active_days"`
}

// AdvancedStats are supplemental listening-habit metrics.
type AdvancedStats struct {
	MostActiveDay         time.Time `json:"most_active_day"`
	MostActiveDayMs       int64     `json:"most_active_day_ms"`
	AvgDailyMs            int64     `json:"avg_daily_ms"`
	MedianDailyMs         int64     `json:"median_daily_ms"`
	HeavilyRepeatedTracks int       `json:"heavily_repeated_tracks"`
	AvgDailyTrackVariety  float64   `json:"avg_daily_track_variety"`
	MostActiveMonth       string    `json:"most_active_month"`
	MostActiveMonthMs     int64     `json:"most_active_month_ms"`
}

// Results bundles everything the aggregator produces for rendering and
// export.
type Results struct {
	Overall    OverallStats   `json:"overall"`
	TopArtists []RankedEntity `json:"top_artists"`
	TopTracks  []RankedEntity `json:"top_tracks"`
	TopAlbums  []RankedEntity `json:"top_albums"`
	Temporal   TemporalStats  `json:"temporal"`
	Streaks    StreakStats    `json:"streaks"`
	Advanced   AdvancedStats  `json:"advanced"`
}

// ProcessStats are diagnostics about the loading and normalization
// phase, reported to the user but not part of the canonical table.
type ProcessStats struct {
	FilesProcessed    int
	TotalEntries      int
	DuplicatesRemoved int
	DroppedMalformed  int
	APIEntriesAdded   int
	FinalEntries      int
}
