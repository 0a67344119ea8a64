package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"hash"
)

// HashString computes an HMAC-SHA256 signature over the given string
// using the provided hash key and returns the result as a hex-encoded string.
//
// It is used for temporary URL signatures, where data is the
// "METHOD\nEXPIRES\nPATH" triple and hashKey the account temp URL key.
//
// Example usage:
//
//	signature := utils.HashString("GET\n1700000000\n/v1/AUTH_test/c/o", "my-secret-key")
func HashString(data string, hashKey string) string {
	return HashStringWith(sha256.New, data, hashKey)
}

// HashStringWith is HashString with a caller-chosen digest, e.g. sha1.New
// for clusters that only accept HMAC-SHA1 temp URLs.
func HashStringWith(digest func() hash.Hash, data string, hashKey string) string {
	return hex.EncodeToString(hashString(digest, []byte(data), hashKey))
}

// hashString computes an HMAC digest over the given byte slice
// using the provided hash key.
//
// A new HMAC instance is created on each call.
func hashString(digest func() hash.Hash, data []byte, hashKey string) []byte {
	hasher := hmac.New(digest, []byte(hashKey))
	hasher.Write(data)
	return hasher.Sum(nil)
}
