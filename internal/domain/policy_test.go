package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeThresholds(t *testing.T) {
	now := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)

	thresholds, err := ComputeThresholds(now, Policy{
		InactivityWindowDays: 45,
		NotificationLeadDays: 15,
		ExpirationLeadDays:   30,
	})
	require.NoError(t, err)

	assert.Equal(t, now, thresholds.Now)
	assert.Equal(t, now.AddDate(0, 0, -45), thresholds.DeactivationCutoff)
	assert.Equal(t, now.AddDate(0, 0, -30), thresholds.NotificationCutoff)
	assert.Equal(t, now.AddDate(0, 0, 30), thresholds.ExpirationWarningCutoff)
}

func TestComputeThresholdsRejectsContradictoryPolicy(t *testing.T) {
	now := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		policy Policy
	}{
		{name: "zero window", policy: Policy{InactivityWindowDays: 0}},
		{name: "negative window", policy: Policy{InactivityWindowDays: -10}},
		{name: "negative lead", policy: Policy{InactivityWindowDays: 45, NotificationLeadDays: -1}},
		{name: "lead beyond window", policy: Policy{InactivityWindowDays: 30, NotificationLeadDays: 31}},
		{name: "negative expiration lead", policy: Policy{InactivityWindowDays: 45, ExpirationLeadDays: -5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeThresholds(now, tt.policy)
			require.ErrorIs(t, err, ErrInvalidPolicy)
		})
	}
}

func TestComputeThresholdsLeadEqualToWindowIsAllowed(t *testing.T) {
	now := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)

	thresholds, err := ComputeThresholds(now, Policy{InactivityWindowDays: 30, NotificationLeadDays: 30})
	require.NoError(t, err)
	assert.Equal(t, now, thresholds.NotificationCutoff)
}
