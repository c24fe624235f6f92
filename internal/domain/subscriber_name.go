package domain

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

const maxNameGraphemes = 256

const forbiddenNameChars = `/()"<>\{}`

// SubscriberName is a display name that passed ParseSubscriberName.
type SubscriberName struct {
	value string
}

func (n SubscriberName) String() string { return n.value }

// ParseSubscriberName rejects blank names, names longer than 256 grapheme
// clusters and names containing any of / ( ) " < > \ { }.
func ParseSubscriberName(candidate string) (SubscriberName, error) {
	if strings.TrimSpace(candidate) == "" {
		return SubscriberName{}, fmt.Errorf("name is required")
	}
	if uniseg.GraphemeClusterCount(candidate) > maxNameGraphemes {
		return SubscriberName{}, fmt.Errorf("name must be at most %d characters", maxNameGraphemes)
	}
	if strings.ContainsAny(candidate, forbiddenNameChars) {
		return SubscriberName{}, fmt.Errorf("name contains forbidden characters")
	}
	return SubscriberName{value: candidate}, nil
}
