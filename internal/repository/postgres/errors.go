package postgres

import (
	"errors"

	"github.com/lib/pq"
)

const (
	uniqueViolationCode = "23505"

	subscribersEmailConstraint = "subscribers_email_key"
	subscriptionTokensPKey     = "subscription_tokens_pkey"
	usersEmailConstraint       = "users_email_key"
)

// uniqueViolation reports whether err is a Postgres unique violation and, if so, the
// name of the violated constraint.
func uniqueViolation(err error) (constraint string, ok bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
		return pqErr.Constraint, true
	}
	return "", false
}
