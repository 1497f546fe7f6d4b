package application

import (
	"fmt"
	"html"
	"os"
	"strconv"
	"strings"

	"github.com/PhilCANDIDO/IAM-AD/internal/domain"
	"github.com/PhilCANDIDO/IAM-AD/internal/ports"
)

const reportTimeLayout = "2006-01-02 15:04:05"

// logoCID is the Content-ID the admin report template references for the
// inline logo image.
const logoCID = "iamad-logo"

func (r *Reconciler) noticeVars(account domain.Account, result domain.Result, thresholds domain.Thresholds) map[string]string {
	lastActivity := "never"
	if !account.NeverActive() {
		lastActivity = account.LastActivityAt.Format(reportTimeLayout)
	}

	// template substitution is verbatim, so directory-sourced text is
	// escaped here
	return map[string]string{
		"DisplayName":          html.EscapeString(account.DisplayName),
		"LastActivity":         lastActivity,
		"DaysInactive":         strconv.Itoa(result.DaysInactive),
		"DaysRemaining":        strconv.Itoa(result.DaysUntilDeactivation),
		"InactivityWindowDays": strconv.Itoa(thresholds.InactivityWindowDays),
		"ReportName":           r.opts.ReportName,
		"Now":                  thresholds.Now.Format(reportTimeLayout),
		"SupportName":          r.opts.Support.Name,
		"SupportEmail":         r.opts.Support.Email,
		"SupportPhone":         r.opts.Support.Phone,
	}
}

func (r *Reconciler) reportVars(summary *RunSummary) map[string]string {
	return map[string]string{
		"ReportName":  r.opts.ReportName,
		"Now":         summary.StartedAt.Format(reportTimeLayout),
		"DryRun":      strconv.FormatBool(summary.DryRun),
		"Processed":   strconv.Itoa(summary.Processed()),
		"Inactive":    strconv.Itoa(summary.Counts[domain.CategoryInactive]),
		"Expiring":    strconv.Itoa(summary.Counts[domain.CategoryExpiringSoon]),
		"Expired":     strconv.Itoa(summary.Counts[domain.CategoryExpiredButEnabled]),
		"Protected":   strconv.Itoa(summary.Counts[domain.CategoryProtected]),
		"Notified":    strconv.Itoa(summary.Notified),
		"Deactivated": strconv.Itoa(summary.Deactivated),
		"Flagged":     strconv.Itoa(summary.Flagged),
		"Errors":      strconv.Itoa(summary.Errors),
		"Rows":        reportRows(summary),
		"LogoCID":     logoCID,
		"SupportName": r.opts.Support.Name,
	}
}

// reportRows pre-renders the per-account table body. The template contract is
// a flat string map, so structured rows are flattened here, with an explicit
// row when nothing matched so the report is never empty.
func reportRows(summary *RunSummary) string {
	if summary.Processed() == 0 {
		return `<tr><td colspan="7">No accounts matched the lifecycle policy.</td></tr>`
	}

	var b strings.Builder
	for _, outcome := range summary.Outcomes {
		status := rowStatus(outcome)

		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%d</td><td>%d</td><td>%s</td><td>%s</td></tr>\n",
			html.EscapeString(string(outcome.AccountID)),
			html.EscapeString(outcome.DisplayName),
			html.EscapeString(outcome.Email),
			outcome.Result.DaysInactive,
			outcome.Result.DaysUntilDeactivation,
			html.EscapeString(outcome.Result.Category.Label()),
			html.EscapeString(status),
		)
	}

	return b.String()
}

func rowStatus(outcome Outcome) string {
	var parts []string
	if outcome.Notified {
		parts = append(parts, "notified")
	}
	if outcome.Deactivated {
		parts = append(parts, "deactivated")
	}
	if outcome.Result.Action == domain.ActionFlag {
		parts = append(parts, "flagged for review")
	}
	if outcome.Failed() {
		parts = append(parts, "ERROR: "+outcome.Err.Error())
	}
	if len(parts) == 0 {
		return "no action"
	}

	return strings.Join(parts, ", ")
}

func (r *Reconciler) logoImage() *ports.InlineImage {
	if r.opts.LogoPath == "" {
		return nil
	}

	if _, err := os.Stat(r.opts.LogoPath); err != nil {
		r.logger.Warn("report logo unavailable, sending report without it", "path", r.opts.LogoPath, "error", err)
		return nil
	}

	return &ports.InlineImage{
		Name: "logo.png",
		Path: r.opts.LogoPath,
		CID:  logoCID,
	}
}
