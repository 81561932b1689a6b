package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey derives "namespace:digest" from JSON-encodable parts.
func hashKey(namespace string, parts ...any) string {
	data, err := json.Marshal(parts)
	if err != nil {
		data = fmt.Append(nil, parts...)
	}
	return namespace + ":" + Hash(data)
}
