package domain

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxEmailLength = 254

var emailValidate = validator.New()

// SubscriberEmail is an email address that passed ParseSubscriberEmail.
type SubscriberEmail struct {
	value string
}

func (e SubscriberEmail) String() string { return e.value }

// ParseSubscriberEmail validates candidate as a local-part@domain address.
// The value is kept verbatim.
func ParseSubscriberEmail(candidate string) (SubscriberEmail, error) {
	if candidate == "" {
		return SubscriberEmail{}, fmt.Errorf("email is required")
	}
	if len(candidate) > maxEmailLength {
		return SubscriberEmail{}, fmt.Errorf("email must be at most %d characters", maxEmailLength)
	}
	if strings.Count(candidate, "@") != 1 {
		return SubscriberEmail{}, fmt.Errorf("%q is not a valid email address", candidate)
	}
	local, host, _ := strings.Cut(candidate, "@")
	if !validDottedPart(local) || !validDottedPart(host) || !strings.Contains(host, ".") {
		return SubscriberEmail{}, fmt.Errorf("%q is not a valid email address", candidate)
	}
	if err := emailValidate.Var(candidate, "email"); err != nil {
		return SubscriberEmail{}, fmt.Errorf("%q is not a valid email address", candidate)
	}
	return SubscriberEmail{value: candidate}, nil
}

func validDottedPart(s string) bool {
	return s != "" && !strings.HasPrefix(s, ".") && !strings.HasSuffix(s, ".") && !strings.Contains(s, "..")
}
