package batch

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// FingerprintLength is the number of hex characters in a fingerprint.
const FingerprintLength = 12

// Fingerprint derives the stable session key for a file: a composite of the
// filename, the byte length and an md5 content digest, hashed with sha256 and
// truncated. Identical bytes plus identical name always produce the same
// fingerprint, which makes re-uploads idempotent.
func Fingerprint(data []byte, filename string) string {
	content := md5.Sum(data)
	composite := fmt.Sprintf("%s_%d_%s", filename, len(data), hex.EncodeToString(content[:]))
	sum := sha256.Sum256([]byte(composite))
	return hex.EncodeToString(sum[:])[:FingerprintLength]
}
