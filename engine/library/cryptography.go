package library

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// Sha256Sum hashes a string or byte slice and returns it hex encoded.
func Sha256Sum(data interface{}) Sha256 {
	var b []byte
	switch d := data.(type) {
	case string:
		b = []byte(d)
	case []byte:
		b = d
	default:
		LogCLI("attempted to hash non-string or non-[]byte", 1)
	}
	h := sha256.New()
	h.Write(b)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Digest hashes each part with a length prefix so that ("ab","c") and ("a","bc") differ.
func Digest(parts ...[]byte) [32]byte {
	h := sha256.New()
	var l [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(l[:], uint64(len(p)))
		h.Write(l[:])
		h.Write(p)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Int64Bytes is the big endian encoding used when timestamps and amounts are fed into a Digest.
func Int64Bytes(n int64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(n))
	return b[:]
}
