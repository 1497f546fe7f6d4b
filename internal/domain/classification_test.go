package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)

func testThresholds(t *testing.T, policy Policy) Thresholds {
	t.Helper()

	thresholds, err := ComputeThresholds(testNow, policy)
	require.NoError(t, err)
	return thresholds
}

func TestClassifyInactivityCutoffs(t *testing.T) {
	thresholds := testThresholds(t, Policy{InactivityWindowDays: 45, NotificationLeadDays: 15})

	tests := []struct {
		name         string
		daysInactive int
		wantCategory Category
		wantAction   Action
	}{
		{name: "well within window", daysInactive: 10, wantCategory: CategoryNone, wantAction: ActionNone},
		{name: "just before notice window", daysInactive: 29, wantCategory: CategoryNone, wantAction: ActionNone},
		{name: "notice window opens", daysInactive: 30, wantCategory: CategoryInactive, wantAction: ActionNotify},
		{name: "one day before cutoff notifies only", daysInactive: 44, wantCategory: CategoryInactive, wantAction: ActionNotify},
		{name: "exactly at cutoff deactivates", daysInactive: 45, wantCategory: CategoryInactive, wantAction: ActionNotifyAndDeactivate},
		{name: "past cutoff", daysInactive: 50, wantCategory: CategoryInactive, wantAction: ActionNotifyAndDeactivate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account := Account{
				ID:             "acct-1",
				Enabled:        true,
				LastActivityAt: testNow.AddDate(0, 0, -tt.daysInactive),
			}

			result := Classify(account, thresholds, false)
			assert.Equal(t, tt.wantCategory, result.Category)
			assert.Equal(t, tt.wantAction, result.Action)
			assert.Equal(t, tt.daysInactive, result.DaysInactive)
			assert.Equal(t, 45-tt.daysInactive, result.DaysUntilDeactivation)
		})
	}
}

func TestClassifyNotificationLeadScenario(t *testing.T) {
	thresholds := testThresholds(t, Policy{InactivityWindowDays: 45, NotificationLeadDays: 15})

	account := Account{ID: "acct-b", Enabled: true, LastActivityAt: testNow.AddDate(0, 0, -40)}
	result := Classify(account, thresholds, false)

	assert.Equal(t, CategoryInactive, result.Category)
	assert.Equal(t, ActionNotify, result.Action)
	assert.Equal(t, 5, result.DaysUntilDeactivation)
}

func TestClassifyNeverActiveAccountIsMaximallyInactive(t *testing.T) {
	thresholds := testThresholds(t, Policy{InactivityWindowDays: 90, NotificationLeadDays: 14})

	result := Classify(Account{ID: "ghost", Enabled: true}, thresholds, false)

	assert.Equal(t, CategoryInactive, result.Category)
	assert.True(t, result.Action.Deactivates())
	assert.Greater(t, result.DaysInactive, 365)
	assert.Negative(t, result.DaysUntilDeactivation)
}

func TestClassifyAlreadyAnnotatedAccountSkipsRepeatNotice(t *testing.T) {
	thresholds := testThresholds(t, Policy{InactivityWindowDays: 45, NotificationLeadDays: 15})

	account := Account{
		ID:             "acct-2",
		Enabled:        true,
		LastActivityAt: testNow.AddDate(0, 0, -60),
		Description:    "finance | Disabled at 2026-07-01 08:00:00",
	}

	result := Classify(account, thresholds, false)
	assert.Equal(t, ActionDeactivate, result.Action)
}

func TestClassifyExpirationPaths(t *testing.T) {
	thresholds := testThresholds(t, Policy{
		InactivityWindowDays: 45,
		NotificationLeadDays: 15,
		ExpirationLeadDays:   30,
		ExpirationHandling:   true,
	})

	tests := []struct {
		name         string
		account      Account
		wantCategory Category
		wantAction   Action
	}{
		{
			name:         "expires within lead window",
			account:      Account{ID: "e1", Enabled: true, LastActivityAt: testNow.AddDate(0, 0, -5), ExpiresAt: testNow.AddDate(0, 0, 10)},
			wantCategory: CategoryExpiringSoon,
			wantAction:   ActionFlag,
		},
		{
			name:         "expires far beyond lead window",
			account:      Account{ID: "e2", Enabled: true, LastActivityAt: testNow.AddDate(0, 0, -5), ExpiresAt: testNow.AddDate(1, 0, 0)},
			wantCategory: CategoryNone,
			wantAction:   ActionNone,
		},
		{
			name:         "expired but still enabled",
			account:      Account{ID: "e3", Enabled: true, LastActivityAt: testNow.AddDate(0, 0, -5), ExpiresAt: testNow.AddDate(0, 0, -5)},
			wantCategory: CategoryExpiredButEnabled,
			wantAction:   ActionFlag,
		},
		{
			name:         "expired and already disabled",
			account:      Account{ID: "e4", Enabled: false, ExpiresAt: testNow.AddDate(0, 0, -5)},
			wantCategory: CategoryNone,
			wantAction:   ActionNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(tt.account, thresholds, true)
			assert.Equal(t, tt.wantCategory, result.Category)
			assert.Equal(t, tt.wantAction, result.Action)
		})
	}
}

func TestClassifyExpiringAccountNeverFallsThroughToInactivity(t *testing.T) {
	thresholds := testThresholds(t, Policy{
		InactivityWindowDays: 45,
		NotificationLeadDays: 15,
		ExpirationLeadDays:   30,
		ExpirationHandling:   true,
	})

	// 100 days inactive would deactivate on the inactivity path, but the real
	// expiration keeps the account on the expiration path only.
	account := Account{ID: "e5", Enabled: true, LastActivityAt: testNow.AddDate(0, 0, -100), ExpiresAt: testNow.AddDate(0, 0, 7)}

	result := Classify(account, thresholds, true)
	assert.Equal(t, CategoryExpiringSoon, result.Category)
	assert.Equal(t, ActionFlag, result.Action)
}

func TestClassifyExpirationIgnoredWhenHandlingDisabled(t *testing.T) {
	thresholds := testThresholds(t, Policy{InactivityWindowDays: 45, NotificationLeadDays: 15})

	account := Account{ID: "e6", Enabled: true, LastActivityAt: testNow.AddDate(0, 0, -50), ExpiresAt: testNow.AddDate(0, 0, 5)}

	result := Classify(account, thresholds, false)
	assert.Equal(t, CategoryInactive, result.Category)
	assert.True(t, result.Action.Deactivates())
}

func TestApplyProtectionOverridesEverything(t *testing.T) {
	thresholds := testThresholds(t, Policy{InactivityWindowDays: 45, NotificationLeadDays: 15})

	account := Account{
		ID:             "vip",
		Enabled:        true,
		LastActivityAt: testNow.AddDate(0, 0, -100),
		Description:    "service account //ACCOUNT_PROTECTED// do not touch",
	}

	result := ApplyProtection(account, Classify(account, thresholds, false))
	assert.Equal(t, CategoryProtected, result.Category)
	assert.Equal(t, ActionNone, result.Action)
}

func TestApplyProtectionMarkerIsCaseSensitive(t *testing.T) {
	account := Account{Description: "//account_protected//"}

	result := ApplyProtection(account, Result{Category: CategoryInactive, Action: ActionNotify})
	assert.Equal(t, CategoryInactive, result.Category)
	assert.Equal(t, ActionNotify, result.Action)
}

func TestApplyProtectionLeavesUnmarkedAccountsAlone(t *testing.T) {
	account := Account{Description: "ordinary user"}
	in := Result{Category: CategoryInactive, Action: ActionNotifyAndDeactivate, DaysInactive: 50}

	assert.Equal(t, in, ApplyProtection(account, in))
}

func TestAnnotateDisabledIsIdempotent(t *testing.T) {
	at := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)

	once := AnnotateDisabled("hr department", at)
	assert.Equal(t, "hr department | Disabled at 2026-08-20 09:30:00", once)

	twice := AnnotateDisabled(once, at.AddDate(0, 0, 3))
	assert.Equal(t, once, twice)
}

func TestAnnotateDisabledEmptyDescription(t *testing.T) {
	at := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "| Disabled at 2026-08-20 09:30:00", AnnotateDisabled("", at))
}

func TestAnnotateDisabledPreservesProtectionMarker(t *testing.T) {
	got := AnnotateDisabled("//ACCOUNT_PROTECTED//", testNow)
	assert.Contains(t, got, ProtectionMarker)
}
