// Package spotify fetches recently-played items from the Spotify Web
// API to fill the gap between the newest exported event and now. Rate
// limiting and retry live here; the core pipeline sees only ordinary
// raw events tagged with the API origin.
package spotify

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	spotifyapi "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/ademuri/spotify-insights/internal/model"
)

const pageLimit = 50

type Client struct {
	api     *spotifyapi.Client
	limiter *rate.Limiter
}

// New builds an authenticated client from a previously granted refresh
// token. Obtaining the token is the user's concern (any standard
// authorization-code helper works); this tool only replays it.
func New(ctx context.Context, clientID, clientSecret, refreshToken string) *Client {
	auth := spotifyauth.New(
		spotifyauth.WithClientID(clientID),
		spotifyauth.WithClientSecret(clientSecret),
		spotifyauth.WithScopes(spotifyauth.ScopeUserReadRecentlyPlayed),
	)
	token := &oauth2.Token{
		RefreshToken: refreshToken,
		Expiry:       time.Now().Add(-time.Hour),
	}
	return &Client{
		api:     spotifyapi.New(auth.Client(ctx, token)),
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// RecentlyPlayedAfter pages through the recently-played feed from after
// until it runs out of items. The API reports track duration rather
// than elapsed play time, so fetched events always look like full
// plays; exports remain authoritative where the two overlap.
func (c *Client) RecentlyPlayedAfter(ctx context.Context, after time.Time) ([]model.RawEvent, error) {
	var events []model.RawEvent
	cursor := after

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return events, err
		}

		var items []spotifyapi.RecentlyPlayedItem
		err := retry.Do(
			func() error {
				var err error
				items, err = c.api.PlayerRecentlyPlayedOpt(ctx, &spotifyapi.RecentlyPlayedOptions{
					Limit:        pageLimit,
					AfterEpochMs: cursor.UnixMilli(),
				})
				return err
			},
			retry.RetryIf(func(err error) bool {
				if serr, ok := err.(spotifyapi.Error); ok {
					return serr.Status/100 == 5
				}
				return false
			}),
		)
		if err != nil {
			return events, fmt.Errorf("fetching recently played after %s: %w", cursor.Format(time.RFC3339), err)
		}
		if len(items) == 0 {
			return events, nil
		}

		page, next := eventsAfter(items, cursor)
		events = append(events, page...)
		if !next.After(cursor) {
			return events, nil
		}
		cursor = next
	}
}

// eventsAfter converts the fetched page to raw events strictly newer
// than cursor and returns the advanced cursor. An unadvanced cursor
// means the feed held nothing new and paging should stop.
func eventsAfter(items []spotifyapi.RecentlyPlayedItem, cursor time.Time) ([]model.RawEvent, time.Time) {
	var events []model.RawEvent
	next := cursor
	for _, item := range items {
		playedAt := item.PlayedAt.UTC()
		if !playedAt.After(cursor) {
			continue
		}
		events = append(events, eventFromItem(item, playedAt))
		if playedAt.After(next) {
			next = playedAt
		}
	}
	return events, next
}

func eventFromItem(item spotifyapi.RecentlyPlayedItem, playedAt time.Time) model.RawEvent {
	e := model.RawEvent{
		PlayedAt:  playedAt.Format(time.RFC3339),
		MsPlayed:  int64(item.Track.Duration),
		TrackName: item.Track.Name,
		TrackURI:  string(item.Track.URI),
		Origin:    model.APIOrigin,
	}
	if len(item.Track.Artists) > 0 {
		e.ArtistName = item.Track.Artists[0].Name
	}
	return e
}
