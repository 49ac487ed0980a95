package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// GraphKeyOpts holds the build and output options that change a cached
// graph response.
type GraphKeyOpts struct {
	Sorted   bool   `json:"sorted"`
	MaxNodes int    `json:"max_nodes"`
	Format   string `json:"format"`
}

// GraphKey returns the key of an encoded graph built from root.
func GraphKey(root string, opts GraphKeyOpts) string {
	return hashKey("graph", root, opts)
}

// InspectKey returns the key of the encoded signatures of a module file.
func InspectKey(path string) string {
	return hashKey("inspect", path)
}
