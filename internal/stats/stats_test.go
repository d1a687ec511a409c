package stats

import (
	"testing"
	"time"

	"github.com/ademuri/spotify-insights/internal/model"
	"github.com/ademuri/spotify-insights/internal/normalize"
)

// canonical builds a canonical table through the real normalizer so the
// aggregator sees exactly what it would in production.
func canonical(t *testing.T, raw []model.RawEvent) []model.CanonicalEvent {
	t.Helper()
	res := normalize.Normalize(raw, normalize.DefaultConfig())
	if res.Dropped != 0 {
		t.Fatalf("test fixture has %d malformed events", res.Dropped)
	}
	return res.Events
}

func play(ts, track, artist, album string, ms int64) model.RawEvent {
	return model.RawEvent{
		PlayedAt:   ts,
		MsPlayed:   ms,
		TrackName:  track,
		ArtistName: artist,
		AlbumName:  album,
		Origin:     "history.json",
	}
}

func TestAnalyzeEmptyTable(t *testing.T) {
	results := Analyze(nil, time.Now())
	if results.Overall.HasData {
		t.Errorf("Empty table should report no data")
	}
	if results.Overall.TotalEvents != 0 || results.Overall.TotalMsPlayed != 0 {
		t.Errorf("Empty table should have zero totals: %+v", results.Overall)
	}
	if len(results.TopArtists) != 0 || len(results.TopTracks) != 0 || len(results.TopAlbums) != 0 {
		t.Errorf("Empty table should have empty rankings")
	}
	if results.Streaks.LongestLength != 0 || results.Streaks.CurrentLength != 0 {
		t.Errorf("Empty table should have zero streaks: %+v", results.Streaks)
	}
}

func TestOverallConservationOfPlayTime(t *testing.T) {
	events := canonical(t, []model.RawEvent{
		play("2024-01-01T10:00:00Z", "A", "X", "AlbumX", 120000),
		play("2024-01-01T11:00:00Z", "B", "X", "AlbumX", 5000), // skip
		play("2024-01-02T10:00:00Z", "A", "Y", "AlbumY", 180000),
	})
	o := Overall(events)
	if o.TotalMsPlayed != 305000 {
		t.Errorf("TotalMsPlayed = %d, want 305000 (skips included)", o.TotalMsPlayed)
	}
	if o.TotalEvents != 3 {
		t.Errorf("TotalEvents = %d, want 3", o.TotalEvents)
	}
}

func TestOverallDateRangeAndCounts(t *testing.T) {
	events := canonical(t, []model.RawEvent{
		play("2024-01-01T10:00:00Z", "A", "X", "AlbumX", 60000),
		play("2024-01-05T10:00:00Z", "B", "X", "AlbumX", 60000),
		play("2024-01-05T11:00:00Z", "A", "Y", "", 60000),
	})
	o := Overall(events)
	if !o.HasData {
		t.Fatalf("Expected HasData")
	}
	if o.FirstDate.Format("2006-01-02") != "2024-01-01" || o.LastDate.Format("2006-01-02") != "2024-01-05" {
		t.Errorf("Date range = %v to %v", o.FirstDate, o.LastDate)
	}
	if o.DaysCovered != 5 {
		t.Errorf("DaysCovered = %d, want 5", o.DaysCovered)
	}
	if o.ActiveDays != 2 {
		t.Errorf("ActiveDays = %d, want 2", o.ActiveDays)
	}
	if o.UniqueArtists != 2 {
		t.Errorf("UniqueArtists = %d, want 2", o.UniqueArtists)
	}
	// "A" by X and "A" by Y are different tracks.
	if o.UniqueTracks != 3 {
		t.Errorf("UniqueTracks = %d, want 3", o.UniqueTracks)
	}
	if o.UniqueAlbums != 1 {
		t.Errorf("UniqueAlbums = %d, want 1", o.UniqueAlbums)
	}
}

func TestRankingOrdering(t *testing.T) {
	events := canonical(t, []model.RawEvent{
		play("2024-01-01T10:00:00Z", "T1", "Less Played", "", 60000),
		play("2024-01-01T11:00:00Z", "T2", "Most Played", "", 120000),
		play("2024-01-01T12:00:00Z", "T3", "Most Played", "", 120000),
		// Same total ms as Less Played but two plays.
		play("2024-01-02T10:00:00Z", "T4", "More Plays", "", 30000),
		play("2024-01-02T11:00:00Z", "T5", "More Plays", "", 30000),
	})
	ranked := TopArtists(events)
	if len(ranked) != 3 {
		t.Fatalf("Expected 3 artists, got %d", len(ranked))
	}
	want := []string{"Most Played", "More Plays", "Less Played"}
	for i, name := range want {
		if ranked[i].Name != name {
			t.Errorf("ranked[%d] = %q, want %q", i, ranked[i].Name, name)
		}
	}

	for i := 1; i < len(ranked); i++ {
		if ranked[i].TotalMsPlayed > ranked[i-1].TotalMsPlayed {
			t.Errorf("Ranking not ordered by ms at %d", i)
		}
	}
}

func TestRankingNameTieBreak(t *testing.T) {
	events := canonical(t, []model.RawEvent{
		play("2024-01-01T10:00:00Z", "T1", "Zebra", "", 60000),
		play("2024-01-01T11:00:00Z", "T2", "Aardvark", "", 60000),
	})
	ranked := TopArtists(events)
	if ranked[0].Name != "Aardvark" {
		t.Errorf("Equal stats should order by name, got %q first", ranked[0].Name)
	}
}

func TestSkipExcludedFromRankings(t *testing.T) {
	events := canonical(t, []model.RawEvent{
		play("2024-01-01T10:00:00Z", "Kept", "X", "", 60000),
		play("2024-01-01T11:00:00Z", "Skipped", "Y", "", 2000),
	})
	tracks := TopTracks(events)
	if len(tracks) != 1 || tracks[0].Name != "Kept" {
		t.Fatalf("Skips must not appear in rankings: %+v", tracks)
	}
	// The skip still counts toward total play time.
	if o := Overall(events); o.TotalMsPlayed != 62000 {
		t.Errorf("TotalMsPlayed = %d, want 62000", o.TotalMsPlayed)
	}
}

func TestRankingMissingMetadata(t *testing.T) {
	noArtist := play("2024-01-01T10:00:00Z", "Podcast Episode", "", "", 600000)
	events := canonical(t, []model.RawEvent{
		noArtist,
		play("2024-01-01T11:00:00Z", "Song", "Artist", "Album", 60000),
	})

	if artists := TopArtists(events); len(artists) != 1 {
		t.Errorf("Artist ranking should skip events without an artist: %+v", artists)
	}
	if tracks := TopTracks(events); len(tracks) != 2 {
		t.Errorf("Track ranking should still include the artistless track: %+v", tracks)
	}
	if albums := TopAlbums(events); len(albums) != 1 {
		t.Errorf("Album ranking should skip events without an album: %+v", albums)
	}
}

func TestRankingFirstLastPlayed(t *testing.T) {
	events := canonical(t, []model.RawEvent{
		play("2024-01-01T10:00:00Z", "T", "X", "", 60000),
		play("2024-03-01T10:00:00Z", "T", "X", "", 60000),
	})
	tracks := TopTracks(events)
	if tracks[0].PlayCount != 2 {
		t.Fatalf("PlayCount = %d, want 2", tracks[0].PlayCount)
	}
	if tracks[0].FirstPlayed.Format("2006-01-02") != "2024-01-01" {
		t.Errorf("FirstPlayed = %v", tracks[0].FirstPlayed)
	}
	if tracks[0].LastPlayed.Format("2006-01-02") != "2024-03-01" {
		t.Errorf("LastPlayed = %v", tracks[0].LastPlayed)
	}
}

func TestTemporalBuckets(t *testing.T) {
	events := canonical(t, []model.RawEvent{
		play("2024-01-01T10:00:00Z", "A", "X", "", 60000), // Monday, January
		play("2024-01-01T10:30:00Z", "B", "X", "", 60000),
		play("2023-06-10T22:00:00Z", "C", "X", "", 30000), // Saturday, June
		play("2024-01-01T10:45:00Z", "Skip", "X", "", 1000),
	})
	temporal := Temporal(events)

	if temporal.ByHour[10] != 121000 {
		t.Errorf("ByHour[10] = %d, want 121000 (skips included)", temporal.ByHour[10])
	}
	if temporal.ByHour[22] != 30000 {
		t.Errorf("ByHour[22] = %d, want 30000", temporal.ByHour[22])
	}
	if temporal.ByWeekday[time.Monday] != 121000 {
		t.Errorf("ByWeekday[Monday] = %d, want 121000", temporal.ByWeekday[time.Monday])
	}
	if temporal.ByWeekday[time.Saturday] != 30000 {
		t.Errorf("ByWeekday[Saturday] = %d, want 30000", temporal.ByWeekday[time.Saturday])
	}
	if temporal.ByMonth[0] != 121000 || temporal.ByMonth[5] != 30000 {
		t.Errorf("ByMonth = %v", temporal.ByMonth)
	}
	if temporal.ByYear[2024] != 121000 || temporal.ByYear[2023] != 30000 {
		t.Errorf("ByYear = %v", temporal.ByYear)
	}
	// Unseen buckets exist and are zero.
	if temporal.ByHour[3] != 0 || temporal.ByWeekday[time.Friday] != 0 {
		t.Errorf("Unseen buckets should be zero")
	}
}

func TestAdvancedMetrics(t *testing.T) {
	raw := []model.RawEvent{
		play("2024-01-01T10:00:00Z", "A", "X", "", 600000),
		play("2024-01-02T10:00:00Z", "B", "X", "", 60000),
		play("2024-01-02T11:00:00Z", "C", "X", "", 60000),
	}
	a := Advanced(canonical(t, raw))
	if a.MostActiveDay.Format("2006-01-02") != "2024-01-01" {
		t.Errorf("MostActiveDay = %v, want 2024-01-01", a.MostActiveDay)
	}
	if a.MostActiveDayMs != 600000 {
		t.Errorf("MostActiveDayMs = %d, want 600000", a.MostActiveDayMs)
	}
	if a.AvgDailyMs != 360000 {
		t.Errorf("AvgDailyMs = %d, want 360000", a.AvgDailyMs)
	}
	if a.MostActiveMonth != "2024-01" {
		t.Errorf("MostActiveMonth = %q, want 2024-01", a.MostActiveMonth)
	}
	if a.AvgDailyTrackVariety != 1.5 {
		t.Errorf("AvgDailyTrackVariety = %f, want 1.5", a.AvgDailyTrackVariety)
	}
}

func TestAdvancedEmpty(t *testing.T) {
	a := Advanced(nil)
	if a.MostActiveDayMs != 0 || a.HeavilyRepeatedTracks != 0 {
		t.Errorf("Advanced(nil) = %+v, want zero values", a)
	}
}
