package auth

import (
	"crypto/rand"
	"fmt"

	"newsletterapi/internal/domain"
)

const (
	// SubscriptionTokenLength is the number of characters in a generated subscription token.
	SubscriptionTokenLength = 25

	tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// bytes at or above this value are discarded so every alphabet index is equally likely
	tokenRejectAbove = 256 - 256%len(tokenAlphabet)
)

type randomTokenGenerator struct {
	length int
}

// NewRandomTokenGenerator returns a TokenGenerator producing alphanumeric tokens of the given
// length from crypto/rand. Lengths below SubscriptionTokenLength are raised to it.
func NewRandomTokenGenerator(length int) domain.TokenGenerator {
	if length < SubscriptionTokenLength {
		length = SubscriptionTokenLength
	}
	return &randomTokenGenerator{length: length}
}

func (g *randomTokenGenerator) Generate() (string, error) {
	out := make([]byte, 0, g.length)
	buf := make([]byte, g.length+g.length/4)
	for len(out) < g.length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= tokenRejectAbove {
				continue
			}
			out = append(out, tokenAlphabet[int(b)%len(tokenAlphabet)])
			if len(out) == g.length {
				break
			}
		}
	}
	return string(out), nil
}
