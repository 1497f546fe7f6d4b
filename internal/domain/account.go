package domain

import "time"

type AccountID string

// Account is a snapshot of one directory entry. It is immutable input to
// classification; only the lifecycle executor writes Enabled and Description
// back through the directory port.
type Account struct {
	ID             AccountID
	DisplayName    string
	Email          string
	LastActivityAt time.Time
	ExpiresAt      time.Time
	Description    string
	Enabled        bool
}

// NeverActive reports whether the directory holds no authentication record
// for the account.
func (a Account) NeverActive() bool {
	return a.LastActivityAt.IsZero()
}

// NeverExpires reports whether the account carries no real expiration
// timestamp. Adapters map their backend's "never" sentinels to the zero time.
func (a Account) NeverExpires() bool {
	return a.ExpiresAt.IsZero()
}

// EffectiveLastActivity returns the last authentication time, substituting
// the Unix epoch for never-active accounts so they land past every cutoff.
func (a Account) EffectiveLastActivity() time.Time {
	if a.NeverActive() {
		return time.Unix(0, 0).UTC()
	}
	return a.LastActivityAt
}
