// Package codes issues the short join codes handed to players for rooms and
// tournament lobbies.
package codes

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	Length      = 5
	LobbyPrefix = "T-"
	charset     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxAttempts = 32
)

var ErrExhausted = errors.New("could not generate an unused code")

func Generate(length int) (string, error) {
	code := make([]byte, length)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

// Unique generates prefix+code until taken reports the result unused.
func Unique(prefix string, taken func(string) bool) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		c, err := Generate(Length)
		if err != nil {
			return "", err
		}
		if code := prefix + c; !taken(code) {
			return code, nil
		}
	}
	return "", ErrExhausted
}
