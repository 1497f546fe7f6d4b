package ports

import (
	"context"
	"time"

	"github.com/PhilCANDIDO/IAM-AD/internal/domain"
)

// Filter is the backend-neutral subset of a directory query the reconciler
// needs. Adapters translate it to their native filter syntax.
type Filter struct {
	// EnabledOnly restricts the result to enabled accounts.
	EnabledOnly bool
	// LastActivityBefore, when non-zero, restricts the result to accounts
	// whose last authentication is older than the given time. Accounts with
	// no authentication record always match.
	LastActivityBefore time.Time
	// RealExpirationOnly restricts the result to accounts carrying a real
	// (non-sentinel) expiration timestamp.
	RealExpirationOnly bool
}

type Directory interface {
	Search(ctx context.Context, filter Filter) ([]domain.Account, error)
	GetByID(ctx context.Context, id domain.AccountID) (domain.Account, error)
	SetEnabledAndDescription(ctx context.Context, id domain.AccountID, enabled bool, description string) error
}
