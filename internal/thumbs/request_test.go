package thumbs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name     string
		rawURL   string
		rawWidth string
		expected Request
		wantErr  error
	}{
		{
			name:     "url with explicit width",
			rawURL:   "https://example.com/a.png",
			rawWidth: "200",
			expected: Request{URL: "https://example.com/a.png", Width: 200},
		},
		{
			name:     "width defaults to 400",
			rawURL:   "https://example.com/a.png",
			expected: Request{URL: "https://example.com/a.png", Width: 400},
		},
		{
			name:    "missing url",
			wantErr: ErrMissingURL,
		},
		{
			name:     "missing url with valid width",
			rawWidth: "200",
			wantErr:  ErrMissingURL,
		},
		{
			name:     "non integer width",
			rawURL:   "https://example.com/a.png",
			rawWidth: "abc",
			wantErr:  ErrInvalidWidth,
		},
		{
			name:     "fractional width",
			rawURL:   "https://example.com/a.png",
			rawWidth: "200.5",
			wantErr:  ErrInvalidWidth,
		},
		{
			name:     "width below minimum",
			rawURL:   "https://example.com/a.png",
			rawWidth: "49",
			wantErr:  ErrWidthOutOfRange,
		},
		{
			name:     "width above maximum",
			rawURL:   "https://example.com/a.png",
			rawWidth: "2001",
			wantErr:  ErrWidthOutOfRange,
		},
		{
			name:     "width at lower bound",
			rawURL:   "https://example.com/a.png",
			rawWidth: "50",
			expected: Request{URL: "https://example.com/a.png", Width: 50},
		},
		{
			name:     "width at upper bound",
			rawURL:   "https://example.com/a.png",
			rawWidth: "2000",
			expected: Request{URL: "https://example.com/a.png", Width: 2000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseRequest(tt.rawURL, tt.rawWidth)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, req)
		})
	}
}
