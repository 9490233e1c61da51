// Package checksum fingerprints file content so runs can report what changed.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// shortLen is the number of hex digits shown in log lines.
const shortLen = 12

// Sum computes the hex SHA-256 of data.
func Sum(data []byte) string {
	hash := sha256.Sum256(data)

	return hex.EncodeToString(hash[:])
}

// Short returns the leading digits of a Sum for log lines.
func Short(sum string) string {
	if len(sum) <= shortLen {
		return sum
	}

	return sum[:shortLen]
}
