package ports

import (
	"context"
)

// Cache keys for the mapping convenience store. The values are plain text:
// the offset key holds a text-encoded integer, the letters key a JSON
// serialization of the five column letters.
const (
	CacheKeyDataStartOffset = "lastDataStartOffset"
	CacheKeyColumnLetters   = "lastColumnLettersByField"
)

// MappingCache is the externally-owned key-value store used to remember a
// previously discovered data-start offset and previously chosen column
// letters. Absence and corruption are both treated as "key not present" by
// callers; a cache failure never fails an extraction. Concurrent sessions
// may race on a slot; last writer wins.
type MappingCache interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores a value, overwriting any previous one.
	Set(ctx context.Context, key, value string) error
}
