package random

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// CharsetUpperAlphaNum is the alphabet of human-readable tracking codes.
const CharsetUpperAlphaNum = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// String returns length characters drawn uniformly from charset using crypto/rand.
func String(length int, charset string) (string, error) {
	return StringFrom(rand.Reader, length, charset)
}

// StringFrom is like String but reads entropy from r.
func StringFrom(r io.Reader, length int, charset string) (string, error) {
	if length <= 0 {
		return "", nil
	}
	if charset == "" {
		return "", fmt.Errorf("empty charset")
	}

	max := big.NewInt(int64(len(charset)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(r, max)
		if err != nil {
			return "", fmt.Errorf("generate random index: %w", err)
		}
		out[i] = charset[n.Int64()]
	}
	return string(out), nil
}

// UpperAlphaNum returns an uppercase alphanumeric code such as a tracking-code suffix.
func UpperAlphaNum(length int) (string, error) {
	return String(length, CharsetUpperAlphaNum)
}
