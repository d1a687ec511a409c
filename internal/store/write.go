package store

import (
	"fmt"
	"time"

	"github.com/ademuri/spotify-insights/internal/model"
)

// SaveEvents inserts a batch of canonical events transactionally.
// Re-archiving overlapping data is a no-op for rows the archive already
// holds: the Event uniqueness constraint mirrors the normalizer's
// identity key.
func (s *Store) SaveEvents(events []model.CanonicalEvent) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO Event
		(played_at, ms_played, track_name, artist_name, album_name, track_uri,
		 platform, conn_country, reason_start, reason_end, shuffle, origin)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, e := range events {
		res, err := stmt.Exec(
			e.PlayedAtUTC.UTC().Format(timeLayout), e.MsPlayed,
			e.TrackName, e.ArtistName, e.AlbumName, e.TrackURI,
			e.Platform, e.ConnCountry, e.ReasonStart, e.ReasonEnd,
			e.Shuffle, e.Origin,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting event at %s: %w", e.PlayedAtUTC.Format(time.RFC3339), err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("checking insert: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return inserted, nil
}
