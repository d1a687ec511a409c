package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ademuri/spotify-insights/internal/model"
)

// LoadEvents returns archived events with played_at in [start, end),
// oldest first, in their raw shape. A zero bound leaves that side of the
// range open.
func (s *Store) LoadEvents(start, end time.Time) ([]model.RawEvent, error) {
	query := "SELECT played_at, ms_played, track_name, artist_name, album_name, track_uri, platform, conn_country, reason_start, reason_end, shuffle, origin FROM Event"
	var clauses []string
	var args []interface{}
	if !start.IsZero() {
		clauses = append(clauses, "played_at >= ?")
		args = append(args, start.UTC().Format(timeLayout))
	}
	if !end.IsZero() {
		clauses = append(clauses, "played_at < ?")
		args = append(args, end.UTC().Format(timeLayout))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY played_at ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []model.RawEvent
	for rows.Next() {
		var e model.RawEvent
		if err := rows.Scan(
			&e.PlayedAt, &e.MsPlayed,
			&e.TrackName, &e.ArtistName, &e.AlbumName, &e.TrackURI,
			&e.Platform, &e.ConnCountry, &e.ReasonStart, &e.ReasonEnd,
			&e.Shuffle, &e.Origin,
		); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// LatestEvent returns the played_at of the newest archived event, or the
// zero time for an empty archive.
func (s *Store) LatestEvent() (time.Time, error) {
	row := s.db.QueryRow("SELECT played_at FROM Event ORDER BY played_at DESC LIMIT 1")
	var ts string
	err := row.Scan(&ts)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("scanning latest event: %w", err)
	}

	t, err := time.Parse(timeLayout, ts)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing latest event time %q: %w", ts, err)
	}
	return t, nil
}

// CountEvents returns the number of archived events.
func (s *Store) CountEvents() (int64, error) {
	var n int64
	if err := s.db.QueryRow("SELECT COUNT(id) FROM Event").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting events: %w", err)
	}
	return n, nil
}
