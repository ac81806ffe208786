package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON hashes the JSON encoding of v. Map keys are sorted by
// encoding/json, so equal maps hash equally.
func HashJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return Hash(data), nil
}

// hashKey builds "prefix:<sha256 of the JSON-encoded parts>". Parts must be
// JSON-encodable; they are plain strings and option structs.
func hashKey(prefix string, parts ...any) string {
	h, err := HashJSON(parts)
	if err != nil {
		panic("cache: unencodable key part: " + err.Error())
	}
	return prefix + ":" + h
}
