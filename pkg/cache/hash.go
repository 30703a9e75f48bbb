package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Key generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func Key(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return fmt.Sprintf("%s:%s", prefix, Hash(data))
}

// LayoutKey keys a resolved layout by document hash and layout options.
func LayoutKey(docHash string, opts any) string {
	return Key("layout", docHash, opts)
}

// ArtifactKey keys a rendered artifact by document hash, layout options
// and output format.
func ArtifactKey(docHash string, opts any, format string) string {
	return Key("artifact", docHash, opts, format)
}
