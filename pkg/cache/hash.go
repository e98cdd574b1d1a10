package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey returns prefix:sha256(json(v)). Every field of v takes part, so
// two option sets differing in any field map to different keys.
func hashKey(prefix string, v any) string {
	data, _ := json.Marshal(v)
	sum := sha256.Sum256(data)
	return prefix + ":" + hex.EncodeToString(sum[:])
}

// Hash returns the hex SHA-256 of dataset bytes. Artifact keys use it so a
// changed dataset never hits a stale rendering.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
