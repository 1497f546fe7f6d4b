package domain

import (
	"fmt"
	"time"
)

// Policy carries the lifecycle parameters for one run. It is validated once
// and never mutated afterwards.
type Policy struct {
	InactivityWindowDays int
	NotificationLeadDays int
	ExpirationLeadDays   int
	ExpirationHandling   bool
}

func (p Policy) Validate() error {
	if p.InactivityWindowDays <= 0 {
		return fmt.Errorf("%w: inactivity window must be positive, got %d", ErrInvalidPolicy, p.InactivityWindowDays)
	}
	if p.NotificationLeadDays < 0 {
		return fmt.Errorf("%w: notification lead must not be negative, got %d", ErrInvalidPolicy, p.NotificationLeadDays)
	}
	if p.NotificationLeadDays > p.InactivityWindowDays {
		return fmt.Errorf("%w: notification lead %d exceeds inactivity window %d", ErrInvalidPolicy, p.NotificationLeadDays, p.InactivityWindowDays)
	}
	if p.ExpirationLeadDays < 0 {
		return fmt.Errorf("%w: expiration lead must not be negative, got %d", ErrInvalidPolicy, p.ExpirationLeadDays)
	}

	return nil
}

// Thresholds are the fixed time boundaries classification evaluates against,
// derived once per run from the policy and "now".
type Thresholds struct {
	Now                     time.Time
	InactivityWindowDays    int
	NotificationLeadDays    int
	DeactivationCutoff      time.Time
	NotificationCutoff      time.Time
	ExpirationWarningCutoff time.Time
}

const day = 24 * time.Hour

// ComputeThresholds derives the run's time boundaries. It fails with
// ErrInvalidPolicy before any account is touched when the parameters are
// contradictory.
func ComputeThresholds(now time.Time, policy Policy) (Thresholds, error) {
	if err := policy.Validate(); err != nil {
		return Thresholds{}, err
	}

	window := time.Duration(policy.InactivityWindowDays) * day
	lead := time.Duration(policy.NotificationLeadDays) * day

	return Thresholds{
		Now:                     now,
		InactivityWindowDays:    policy.InactivityWindowDays,
		NotificationLeadDays:    policy.NotificationLeadDays,
		DeactivationCutoff:      now.Add(-window),
		NotificationCutoff:      now.Add(-window).Add(lead),
		ExpirationWarningCutoff: now.Add(time.Duration(policy.ExpirationLeadDays) * day),
	}, nil
}
