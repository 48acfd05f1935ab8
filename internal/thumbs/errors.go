package thumbs

import (
	"errors"
	"fmt"
)

// Validation failures. The transport layer maps each one to its
// user-facing message and a 400 status.
var (
	ErrMissingURL      = errors.New("url parameter is required")
	ErrInvalidWidth    = errors.New("width parameter is not an integer")
	ErrWidthOutOfRange = errors.New("width parameter is out of range")
)

var (
	// ErrNotCached is returned by Store.Get when no entry exists
	// for the requested key.
	ErrNotCached = errors.New("thumbnail not cached")

	// ErrFetchTimeout indicates the origin did not answer within
	// the fetcher's timeout.
	ErrFetchTimeout = errors.New("timeout while fetching source image")

	// ErrDecode indicates the fetched bytes are not a supported
	// raster format.
	ErrDecode = errors.New("undecodable image data")

	// ErrEncode indicates an internal JPEG encoder failure.
	ErrEncode = errors.New("jpeg encoding failed")
)

// StatusError is returned by the fetcher when the origin answered
// with a non-success HTTP status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("origin responded with status %d", e.Code)
}
