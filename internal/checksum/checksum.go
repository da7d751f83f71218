// Package checksum implements the SHA-1 signatures used by the Easy iDeal
// API: the per-request merchant checksum and the checksum handed back on the
// transaction return URL.
package checksum

import (
	"crypto/sha1"
	"crypto/subtle"
	"encoding/hex"
	"sort"
	"strings"
)

// Sign computes the merchant checksum for a request: parameter values
// concatenated in key order, merchant secret appended, SHA-1 hex digest.
func Sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(params[k])
	}
	sb.WriteString(secret)

	sum := sha1.Sum([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// Transaction computes the checksum the provider appends to the return URL:
// SHA-1 over transaction ID + transaction code + status + salt.
func Transaction(transactionID, transactionCode, status, salt string) string {
	sum := sha1.Sum([]byte(transactionID + transactionCode + status + salt))
	return hex.EncodeToString(sum[:])
}

// Verify compares a received checksum against the expected digest without
// leaking the position of the first mismatch. Hex case is ignored.
func Verify(got, want string) bool {
	g := strings.ToLower(got)
	w := strings.ToLower(want)
	if len(g) != len(w) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(g), []byte(w)) == 1
}
