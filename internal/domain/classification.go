package domain

import (
	"strings"
	"time"
)

type Category string

const (
	CategoryNone              Category = ""
	CategoryInactive          Category = "inactive"
	CategoryExpiringSoon      Category = "expiring_soon"
	CategoryExpiredButEnabled Category = "expired_but_enabled"
	CategoryProtected         Category = "protected"
)

func (c Category) Label() string {
	switch c {
	case CategoryNone:
		return "ok"
	case CategoryInactive:
		return "inactive"
	case CategoryExpiringSoon:
		return "expiring soon"
	case CategoryExpiredButEnabled:
		return "expired but enabled"
	case CategoryProtected:
		return "protected"
	default:
		return string(c)
	}
}

type Action string

const (
	ActionNone                Action = "none"
	ActionNotify              Action = "notify"
	ActionDeactivate          Action = "deactivate"
	ActionNotifyAndDeactivate Action = "notify_and_deactivate"
	ActionFlag                Action = "flag"
)

// Notifies reports whether the action includes sending a notice to the
// account holder.
func (a Action) Notifies() bool {
	return a == ActionNotify || a == ActionNotifyAndDeactivate
}

// Deactivates reports whether the action includes disabling the account.
func (a Action) Deactivates() bool {
	return a == ActionDeactivate || a == ActionNotifyAndDeactivate
}

// Result is the classification of one account against one set of thresholds.
type Result struct {
	Category              Category
	Action                Action
	DaysInactive          int
	DaysUntilDeactivation int
}

// Classify maps one account to exactly one lifecycle category and a
// recommended action. Accounts carrying a real expiration are handled by the
// expiration path alone while expiration handling is on; they never fall
// through to the inactivity cutoffs.
func Classify(account Account, thresholds Thresholds, expirationHandling bool) Result {
	daysInactive := wholeDaysBetween(account.EffectiveLastActivity(), thresholds.Now)

	result := Result{
		Category:              CategoryNone,
		Action:                ActionNone,
		DaysInactive:          daysInactive,
		DaysUntilDeactivation: thresholds.InactivityWindowDays - daysInactive,
	}

	if expirationHandling && !account.NeverExpires() {
		switch {
		case account.ExpiresAt.After(thresholds.Now):
			if !account.ExpiresAt.After(thresholds.ExpirationWarningCutoff) {
				result.Category = CategoryExpiringSoon
				result.Action = ActionFlag
			}
		case account.Enabled:
			// An expired yet still enabled entry is an anomaly for a human
			// to resolve; expiration never auto-disables here.
			result.Category = CategoryExpiredButEnabled
			result.Action = ActionFlag
		}
		return result
	}

	switch {
	case daysInactive >= thresholds.InactivityWindowDays:
		result.Category = CategoryInactive
		result.Action = ActionNotifyAndDeactivate
		if HasDisabledAnnotation(account.Description) {
			result.Action = ActionDeactivate
		}
	case daysInactive >= thresholds.InactivityWindowDays-thresholds.NotificationLeadDays:
		result.Category = CategoryInactive
		result.Action = ActionNotify
	}

	return result
}

func wholeDaysBetween(from, to time.Time) int {
	if to.Before(from) {
		return -wholeDaysBetween(to, from)
	}
	return int(to.Sub(from) / day)
}

// ProtectionMarker exempts an account from every lifecycle action when its
// description contains this substring. The match is case-sensitive.
const ProtectionMarker = "//ACCOUNT_PROTECTED//"

// IsProtected reports whether the account carries the protection marker.
func IsProtected(account Account) bool {
	return strings.Contains(account.Description, ProtectionMarker)
}

// ApplyProtection overrides any upstream classification for protected
// accounts. It takes precedence over every other rule.
func ApplyProtection(account Account, result Result) Result {
	if !IsProtected(account) {
		return result
	}

	result.Category = CategoryProtected
	result.Action = ActionNone
	return result
}

const (
	disabledAnnotationPrefix = "| Disabled at "
	annotationTimeLayout     = "2006-01-02 15:04:05"
)

// HasDisabledAnnotation reports whether the description already records a
// deactivation.
func HasDisabledAnnotation(description string) bool {
	return strings.Contains(description, disabledAnnotationPrefix)
}

// AnnotateDisabled appends the deactivation marker to the description. Prior
// annotations are never overwritten and re-annotating is a no-op, so the
// operation is idempotent.
func AnnotateDisabled(description string, at time.Time) string {
	if HasDisabledAnnotation(description) {
		return description
	}

	annotation := disabledAnnotationPrefix + at.Format(annotationTimeLayout)
	if description == "" {
		return annotation
	}
	return description + " " + annotation
}
