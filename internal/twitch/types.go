// Package twitch provides an HTTP client for the subset of the Twitch Helix
// API used to fetch clips: client-credential tokens, user lookup, clip
// listing and asset download.
package twitch

import (
	"time"

	"github.com/maauso/clip-vault/internal/clip"
)

// User is a resolved Twitch account.
type User struct {
	ID          string `json:"id"`
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
}

// usersResponse represents the response from the users endpoint.
type usersResponse struct {
	Data []User `json:"data"`
}

// clipData represents a single clip in the clips endpoint response.
type clipData struct {
	ID              string    `json:"id"`
	URL             string    `json:"url"`
	BroadcasterID   string    `json:"broadcaster_id"`
	BroadcasterName string    `json:"broadcaster_name"`
	Title           string    `json:"title"`
	ViewCount       int       `json:"view_count"`
	CreatedAt       time.Time `json:"created_at"`
	ThumbnailURL    string    `json:"thumbnail_url"`
	Duration        float64   `json:"duration"`
}

// toClip maps the wire representation to the domain model.
func (d clipData) toClip() clip.Clip {
	return clip.Clip{
		ID:              d.ID,
		Title:           d.Title,
		URL:             d.URL,
		ThumbnailURL:    d.ThumbnailURL,
		BroadcasterName: d.BroadcasterName,
		CreatedAt:       d.CreatedAt,
		Duration:        d.Duration,
		ViewCount:       d.ViewCount,
	}
}

// clipsResponse represents the response from the clips endpoint.
type clipsResponse struct {
	Data []clipData `json:"data"`
}

// errorResponse is the error body returned by both the id and helix hosts.
type errorResponse struct {
	Error   string `json:"error"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}
