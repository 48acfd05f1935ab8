package models

import (
	"github.com/google/uuid"
)

// PrewarmRequest asks the service to produce and cache a thumbnail
// ahead of the first HTTP request for it.
type PrewarmRequest struct {
	PrewarmRequestId uuid.UUID `json:"prewarmRequestId"`

	// Source image URL, fetched exactly like an HTTP thumbnail request.
	URL string `json:"url"`

	// Target width in pixels. Zero means the service default.
	Width int `json:"width"`
}
