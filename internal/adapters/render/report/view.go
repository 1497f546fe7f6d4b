// Package report renders a run summary for the terminal. The mail report is
// templated separately; this view backs the preview command and verbose runs.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/PhilCANDIDO/IAM-AD/internal/application"
	"github.com/PhilCANDIDO/IAM-AD/internal/domain"
)

type RenderOptions struct {
	Title string
}

func Render(summary *application.RunSummary, opts RenderOptions) string {
	return renderView(summary, opts, newStyles())
}

func renderView(summary *application.RunSummary, opts RenderOptions, s styles) string {
	title := opts.Title
	if title == "" {
		title = "Account lifecycle"
	}
	if summary.DryRun {
		title += " (dry-run)"
	}

	lines := []string{
		s.title.Render(title),
		s.header.Render(headerLine(summary)),
	}

	if summary.Processed() == 0 {
		lines = append(lines, s.empty.Render("No accounts matched the lifecycle policy."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, outcome := range summary.Outcomes {
		lines = append(lines, s.section.Render(renderOutcome(outcome, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func headerLine(summary *application.RunSummary) string {
	return fmt.Sprintf("accounts: %d | notified: %d | deactivated: %d | flagged: %d | protected: %d | errors: %d",
		summary.Processed(),
		summary.Notified,
		summary.Deactivated,
		summary.Flagged,
		summary.Counts[domain.CategoryProtected],
		summary.Errors,
	)
}

func renderOutcome(outcome application.Outcome, s styles) string {
	parts := []string{
		s.account.Render(accountTitle(outcome)),
		s.detail.Render(activityLine(outcome)),
		categoryLine(outcome, s),
	}

	if outcome.Failed() {
		parts = append(parts, s.danger.Render("error: "+outcome.Err.Error()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func accountTitle(outcome application.Outcome) string {
	name := outcome.DisplayName
	if name == "" {
		name = string(outcome.AccountID)
	}
	if outcome.Email == "" {
		return fmt.Sprintf("%s (%s)", name, outcome.AccountID)
	}

	return fmt.Sprintf("%s (%s) <%s>", name, outcome.AccountID, outcome.Email)
}

func activityLine(outcome application.Outcome) string {
	if outcome.Result.DaysUntilDeactivation >= 0 {
		return fmt.Sprintf("inactive %d day(s), %d day(s) until deactivation",
			outcome.Result.DaysInactive, outcome.Result.DaysUntilDeactivation)
	}

	return fmt.Sprintf("inactive %d day(s), deactivation overdue by %d day(s)",
		outcome.Result.DaysInactive, -outcome.Result.DaysUntilDeactivation)
}

func categoryLine(outcome application.Outcome, s styles) string {
	label := fmt.Sprintf("%s -> %s", outcome.Result.Category.Label(), actionLabel(outcome))

	switch outcome.Result.Category {
	case domain.CategoryProtected:
		return s.protected.Render(label)
	case domain.CategoryExpiredButEnabled:
		return s.danger.Render(label)
	case domain.CategoryInactive:
		if outcome.Result.Action.Deactivates() {
			return s.danger.Render(label)
		}
		return s.warning.Render(label)
	case domain.CategoryExpiringSoon:
		return s.warning.Render(label)
	default:
		return s.detail.Render(label)
	}
}

func actionLabel(outcome application.Outcome) string {
	var done []string
	if outcome.Notified {
		done = append(done, "notified")
	}
	if outcome.Deactivated {
		done = append(done, "deactivated")
	}
	if len(done) > 0 {
		return strings.Join(done, ", ")
	}

	switch outcome.Result.Action {
	case domain.ActionNone:
		return "no action"
	case domain.ActionFlag:
		return "flag for review"
	case domain.ActionNotify:
		return "notify"
	case domain.ActionDeactivate:
		return "deactivate"
	case domain.ActionNotifyAndDeactivate:
		return "notify and deactivate"
	default:
		return string(outcome.Result.Action)
	}
}
