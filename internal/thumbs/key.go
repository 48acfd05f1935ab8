package thumbs

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// KeyFunc derives the cache key for a (url, width) pair. Implementations
// must be deterministic across process restarts; the derived key is the
// only link between a request and its cached thumbnail.
type KeyFunc func(url string, width int) string

// DeriveKey is the default KeyFunc: hex encoded SHA-256 over the pair
// joined with a newline, a byte that can never occur inside a URL or a
// decimal width. Keys are always 64 characters long.
func DeriveKey(url string, width int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s\n%d", url, width)))
	return hex.EncodeToString(sum[:])
}
