package object

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// HashLen is the length of a full hex-encoded hash.
const HashLen = 2 * sha1.Size

// HashObject computes the SHA-1 of the envelope "type len\0content",
// mirroring Git's object hashing.
func HashObject(objType ObjectType, data []byte) Hash {
	header := fmt.Sprintf("%s %d\x00", objType, len(data))
	h := sha1.New()
	h.Write([]byte(header))
	h.Write(data)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

// HashCommit derives a commit's ID from its identity payload, which leaves
// out the ID and the branch label.
func HashCommit(c *Commit) Hash {
	return HashObject(TypeCommit, commitPayload(c, false))
}

// IsFullHash reports whether s is a well-formed full-length hash.
func IsFullHash(s string) bool {
	if len(s) != HashLen {
		return false
	}
	return isHex(s)
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
