// Package render formats the analysis results as text tables for the
// terminal or an email body.
package render

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/ademuri/spotify-insights/internal/model"
)

// TopN limits how many ranked entries each list shows. Zero shows all.
type TopN struct {
	Artists int
	Tracks  int
	Albums  int
}

const dateFormat = "2006-01-02"

func renderTable(header []string, rows [][]string) string {
	out := new(bytes.Buffer)
	table := tablewriter.NewWriter(out)
	table.Header(header)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return fmt.Sprintf("Error rendering table: %v", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Sprintf("Error rendering table: %v", err)
	}
	return out.String()
}

func hours(ms int64) string {
	return fmt.Sprintf("%.1f", float64(ms)/(1000*60*60))
}

func minutes(ms int64) string {
	return fmt.Sprintf("%.1f", float64(ms)/(1000*60))
}

// Report renders the complete analysis as sectioned tables.
func Report(results model.Results, topN TopN) string {
	out := new(bytes.Buffer)

	fmt.Fprintf(out, "## Overall\n%s\n", overall(results.Overall))
	fmt.Fprintf(out, "## Top Artists\n%s\n", ranked(results.TopArtists, topN.Artists, false))
	fmt.Fprintf(out, "## Top Tracks\n%s\n", ranked(results.TopTracks, topN.Tracks, true))
	fmt.Fprintf(out, "## Top Albums\n%s\n", ranked(results.TopAlbums, topN.Albums, true))
	fmt.Fprintf(out, "## Listening Clock\n%s\n", byHour(results.Temporal))
	fmt.Fprintf(out, "## Days and Months\n%s\n", calendar(results.Temporal))
	fmt.Fprintf(out, "## Streaks\n%s\n", streaks(results.Streaks))
	fmt.Fprintf(out, "## Habits\n%s", advanced(results.Advanced))

	return out.String()
}

func overall(o model.OverallStats) string {
	if !o.HasData {
		return "No listening data.\n"
	}
	rows := [][]string{
		{"Date range", fmt.Sprintf("%s to %s", o.FirstDate.Format(dateFormat), o.LastDate.Format(dateFormat))},
		{"Days covered", strconv.Itoa(o.DaysCovered)},
		{"Active days", fmt.Sprintf("%d (%.1f%%)", o.ActiveDays, o.ActiveDaysPct)},
		{"Total plays", strconv.Itoa(o.TotalEvents)},
		{"Total hours", hours(o.TotalMsPlayed)},
		{"Daily average (min)", fmt.Sprintf("%.1f", o.DailyAvgMinutes)},
		{"Unique tracks", strconv.Itoa(o.UniqueTracks)},
		{"Unique artists", strconv.Itoa(o.UniqueArtists)},
		{"Unique albums", strconv.Itoa(o.UniqueAlbums)},
		{"Weekend/weekday ratio", fmt.Sprintf("%.2f", o.WeekendWeekdayRatio)},
	}
	return renderTable([]string{"Metric", "Value"}, rows)
}

func ranked(entities []model.RankedEntity, limit int, withArtist bool) string {
	if limit > 0 && limit < len(entities) {
		entities = entities[:limit]
	}

	header := []string{"#", "Name", "Plays", "Hours", "First", "Last"}
	if withArtist {
		header = []string{"#", "Name", "Artist", "Plays", "Hours", "First", "Last"}
	}

	var rows [][]string
	for i, e := range entities {
		row := []string{
			strconv.Itoa(i + 1),
			e.Name,
		}
		if withArtist {
			row = append(row, e.Artist)
		}
		row = append(row,
			strconv.FormatInt(e.PlayCount, 10),
			hours(e.TotalMsPlayed),
			e.FirstPlayed.Format(dateFormat),
			e.LastPlayed.Format(dateFormat),
		)
		rows = append(rows, row)
	}
	return renderTable(header, rows)
}

func byHour(t model.TemporalStats) string {
	var rows [][]string
	for h, ms := range t.ByHour {
		rows = append(rows, []string{fmt.Sprintf("%02d:00", h), hours(ms)})
	}
	return renderTable([]string{"Hour", "Hours Played"}, rows)
}

func calendar(t model.TemporalStats) string {
	var rows [][]string
	for d, ms := range t.ByWeekday {
		rows = append(rows, []string{time.Weekday(d).String(), hours(ms)})
	}
	for m, ms := range t.ByMonth {
		rows = append(rows, []string{time.Month(m + 1).String(), hours(ms)})
	}

	years := make([]int, 0, len(t.ByYear))
	for y := range t.ByYear {
		years = append(years, y)
	}
	sort.Ints(years)
	for _, y := range years {
		rows = append(rows, []string{strconv.Itoa(y), hours(t.ByYear[y])})
	}
	return renderTable([]string{"Period", "Hours Played"}, rows)
}

func streaks(s model.StreakStats) string {
	longest := strconv.Itoa(s.LongestLength)
	if s.LongestLength > 0 {
		longest = fmt.Sprintf("%d days (%s to %s)",
			s.LongestLength, s.LongestStart.Format(dateFormat), s.LongestEnd.Format(dateFormat))
	}
	rows := [][]string{
		{"Longest streak", longest},
		{"Current streak", fmt.Sprintf("%d days", s.CurrentLength)},
		{"Days with listening", strconv.Itoa(s.TotalActiveDays)},
	}
	return renderTable([]string{"Metric", "Value"}, rows)
}

func advanced(a model.AdvancedStats) string {
	mostActiveDay := "n/a"
	if !a.MostActiveDay.IsZero() {
		mostActiveDay = fmt.Sprintf("%s (%s min)", a.MostActiveDay.Format(dateFormat), minutes(a.MostActiveDayMs))
	}
	mostActiveMonth := "n/a"
	if a.MostActiveMonth != "" {
		mostActiveMonth = fmt.Sprintf("%s (%s h)", a.MostActiveMonth, hours(a.MostActiveMonthMs))
	}
	rows := [][]string{
		{"Most active day", mostActiveDay},
		{"Most active month", mostActiveMonth},
		{"Average daily (min)", minutes(a.AvgDailyMs)},
		{"Median daily (min)", minutes(a.MedianDailyMs)},
		{"Tracks played 10+ times", strconv.Itoa(a.HeavilyRepeatedTracks)},
		{"Average tracks per day", fmt.Sprintf("%.1f", a.AvgDailyTrackVariety)},
	}
	return renderTable([]string{"Metric", "Value"}, rows)
}
