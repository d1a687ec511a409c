package stats

import (
	"sort"
	"time"

	"github.com/ademuri/spotify-insights/internal/model"
)

// Streaks computes the longest and current runs of consecutive
// qualifying days. A qualifying day has at least one non-skip play. Ties
// for the longest streak prefer the most recent run. The current streak
// is zero unless its last day is today or yesterday relative to now.
func Streaks(events []model.CanonicalEvent, now time.Time) model.StreakStats {
	var s model.StreakStats

	daySet := make(map[time.Time]struct{})
	for _, e := range events {
		if !e.IsSkip {
			daySet[e.Date] = struct{}{}
		}
	}
	s.TotalActiveDays = len(daySet)
	if len(daySet) == 0 {
		return s
	}

	days := make([]time.Time, 0, len(daySet))
	for d := range daySet {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	runStart := days[0]
	runLen := 1
	record := func(start time.Time, length int) {
		// >= prefers the most recent of equal-length runs.
		if length >= s.LongestLength {
			s.LongestLength = length
			s.LongestStart = start
			s.LongestEnd = start.AddDate(0, 0, length-1)
		}
	}
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			runLen++
			continue
		}
		record(runStart, runLen)
		runStart = days[i]
		runLen = 1
	}
	record(runStart, runLen)

	// The final run counts as current only while it is unbroken: its
	// last day must be today or yesterday.
	lastDay := days[len(days)-1]
	today := now.UTC().Truncate(24 * time.Hour)
	if !lastDay.Before(today.AddDate(0, 0, -1)) {
		s.CurrentLength = runLen
	}
	return s
}
