package thumbs

import "strconv"

const (
	// DefaultWidth is used when the client omits the width parameter.
	DefaultWidth = 400

	MinWidth = 50
	MaxWidth = 2000
)

// Request is a validated thumbnail request.
type Request struct {
	URL   string
	Width int
}

// ParseRequest validates the raw query values for a thumbnail request.
// Width defaults to 400 when absent and must fall within [50, 2000].
// No I/O happens here; out-of-range requests are rejected before any
// network or disk access.
func ParseRequest(rawURL, rawWidth string) (Request, error) {
	if rawURL == "" {
		return Request{}, ErrMissingURL
	}

	width := DefaultWidth
	if rawWidth != "" {
		parsed, err := strconv.Atoi(rawWidth)
		if err != nil {
			return Request{}, ErrInvalidWidth
		}
		width = parsed
	}

	if width < MinWidth || width > MaxWidth {
		return Request{}, ErrWidthOutOfRange
	}

	return Request{URL: rawURL, Width: width}, nil
}
