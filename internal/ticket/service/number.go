package service

import (
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"
)

// A ULID encodes to 26 characters; the last 16 carry the random component.
const (
	ulidLength       = 26
	ulidRandomLength = 16
)

type ULIDNumberGenerator struct{}

func NewNumberGenerator() ULIDNumberGenerator {
	return ULIDNumberGenerator{}
}

// Next returns "<prefix>-<length chars>" drawn from a fresh ULID's random
// part, in upper-case Crockford base32.
func (ULIDNumberGenerator) Next(prefix string, length int) (string, error) {
	if length < 1 || length > ulidRandomLength {
		return "", fmt.Errorf("ticket number length %d out of range", length)
	}
	encoded := ulid.Make().String()
	token := encoded[ulidLength-length:]

	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		return token, nil
	}
	return prefix + "-" + token, nil
}
