package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/PhilCANDIDO/IAM-AD/internal/domain"
	"github.com/PhilCANDIDO/IAM-AD/internal/ports"
)

// Template identifiers the reconciler resolves through the template port.
const (
	TemplateUserNotice   = "user-notice"
	TemplateUserDisabled = "user-disabled"
	TemplateAdminReport  = "admin-report"
)

// SupportContact fields are passed through to templates verbatim.
type SupportContact struct {
	Name  string
	Email string
	Phone string
}

// Options are the per-run parameters, loaded once and immutable afterwards.
type Options struct {
	Policy          domain.Policy
	DryRun          bool
	From            string
	AdminRecipients []string
	Support         SupportContact
	ReportName      string
	LogoPath        string
}

// Reconciler runs one sequential classification-and-lifecycle pass over the
// directory: classify, apply protection, execute, aggregate, report.
type Reconciler struct {
	directory ports.Directory
	mailer    ports.Mailer
	templates ports.TemplateRenderer
	clock     ports.Clock
	logger    *slog.Logger
	opts      Options
}

func NewReconciler(directory ports.Directory, mailer ports.Mailer, templates ports.TemplateRenderer, clock ports.Clock, logger *slog.Logger, opts Options) *Reconciler {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Reconciler{
		directory: directory,
		mailer:    mailer,
		templates: templates,
		clock:     clock,
		logger:    logger,
		opts:      opts,
	}
}

// Run executes one full pass. Fatal precondition failures (contradictory
// policy, unresolvable admin template, failed directory query, failed admin
// report) return an error; per-account failures are logged, counted, and
// never interrupt the scan.
func (r *Reconciler) Run(ctx context.Context) (*RunSummary, error) {
	now := r.clock.Now()

	thresholds, err := domain.ComputeThresholds(now, r.opts.Policy)
	if err != nil {
		return nil, err
	}

	// Resolve the admin report template before touching any account so a
	// missing template aborts the run up front.
	if _, err := r.templates.Render(ctx, TemplateAdminReport, map[string]string{}); err != nil {
		return nil, fmt.Errorf("resolve admin report template: %w", err)
	}

	// disabled accounts are already out of the lifecycle
	accounts, err := r.directory.Search(ctx, ports.Filter{EnabledOnly: true})
	if err != nil {
		return nil, fmt.Errorf("query directory: %w", err)
	}

	summary := NewRunSummary(now, r.opts.DryRun)
	for _, account := range accounts {
		result := domain.ApplyProtection(account, domain.Classify(account, thresholds, r.opts.Policy.ExpirationHandling))
		r.logger.Debug("classified account",
			"account", account.ID,
			"category", result.Category.Label(),
			"action", string(result.Action),
			"days_inactive", result.DaysInactive,
			"days_until_deactivation", result.DaysUntilDeactivation,
		)

		summary.Record(r.execute(ctx, account, result, thresholds))
	}

	if err := r.sendAdminReport(ctx, summary); err != nil {
		return summary, err
	}

	return summary, nil
}

// Preview classifies without side effects: no directory mutation, no mail.
// It covers the same query scope as Run, enabled accounts only.
func (r *Reconciler) Preview(ctx context.Context) (*RunSummary, error) {
	now := r.clock.Now()

	thresholds, err := domain.ComputeThresholds(now, r.opts.Policy)
	if err != nil {
		return nil, err
	}

	accounts, err := r.directory.Search(ctx, ports.Filter{EnabledOnly: true})
	if err != nil {
		return nil, fmt.Errorf("query directory: %w", err)
	}

	summary := NewRunSummary(now, true)
	for _, account := range accounts {
		result := domain.ApplyProtection(account, domain.Classify(account, thresholds, r.opts.Policy.ExpirationHandling))
		summary.Record(Outcome{
			AccountID:   account.ID,
			DisplayName: account.DisplayName,
			Email:       account.Email,
			Result:      result,
		})
	}

	return summary, nil
}

// execute applies the recommended action for one account. Deactivation runs
// first: its notice states the account is disabled, so it only goes out once
// that is true (or would be, in dry-run). A failed notice never undoes a
// deactivation, and any failure is contained to this account.
func (r *Reconciler) execute(ctx context.Context, account domain.Account, result domain.Result, thresholds domain.Thresholds) Outcome {
	outcome := Outcome{
		AccountID:   account.ID,
		DisplayName: account.DisplayName,
		Email:       account.Email,
		Result:      result,
	}

	if result.Action.Deactivates() {
		deactivated, err := r.deactivate(ctx, account)
		if err != nil {
			r.logger.Error("deactivation failed", "account", account.ID, "error", err)
			outcome.Err = errors.Join(outcome.Err, err)
		}
		outcome.Deactivated = deactivated
	}

	if result.Action.Notifies() {
		switch {
		case account.Email == "":
			r.logger.Warn("account has no email address, skipping notification", "account", account.ID)
		case result.Action.Deactivates() && !outcome.Deactivated:
			r.logger.Warn("account was not deactivated, skipping notice", "account", account.ID)
		default:
			if err := r.notify(ctx, account, result, thresholds); err != nil {
				r.logger.Error("notification failed", "account", account.ID, "error", err)
				outcome.Err = errors.Join(outcome.Err, err)
			} else {
				outcome.Notified = true
			}
		}
	}

	return outcome
}

func (r *Reconciler) notify(ctx context.Context, account domain.Account, result domain.Result, thresholds domain.Thresholds) error {
	templateID := TemplateUserNotice
	subject := fmt.Sprintf("Your account will be deactivated in %d day(s)", result.DaysUntilDeactivation)
	if result.DaysUntilDeactivation <= 0 {
		templateID = TemplateUserDisabled
		subject = "Your account has been deactivated"
	}

	body, err := r.templates.Render(ctx, templateID, r.noticeVars(account, result, thresholds))
	if err != nil {
		return fmt.Errorf("render notice template %q: %w", templateID, err)
	}

	msg := ports.Message{
		To:       []string{account.Email},
		From:     r.opts.From,
		Subject:  subject,
		HTMLBody: body,
	}

	if r.opts.DryRun {
		r.logger.Info("dry-run: would send notification", "account", account.ID, "to", account.Email, "template", templateID)
		return nil
	}

	if err := r.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send notice to %q: %w", account.Email, err)
	}

	r.logger.Info("notification sent", "account", account.ID, "to", account.Email, "template", templateID)
	return nil
}

// deactivate re-reads the live enabled state immediately before mutating so
// an account disabled out-of-band is not touched twice.
func (r *Reconciler) deactivate(ctx context.Context, account domain.Account) (bool, error) {
	current, err := r.directory.GetByID(ctx, account.ID)
	if err != nil {
		return false, fmt.Errorf("re-read account before deactivation: %w", err)
	}

	if !current.Enabled {
		r.logger.Info("account already disabled, skipping", "account", account.ID)
		return false, nil
	}

	description := domain.AnnotateDisabled(current.Description, r.clock.Now())

	if r.opts.DryRun {
		r.logger.Info("dry-run: would disable account", "account", account.ID)
		return true, nil
	}

	if err := r.directory.SetEnabledAndDescription(ctx, account.ID, false, description); err != nil {
		return false, fmt.Errorf("disable account: %w", err)
	}

	r.logger.Info("account disabled", "account", account.ID)
	return true, nil
}

func (r *Reconciler) sendAdminReport(ctx context.Context, summary *RunSummary) error {
	body, err := r.templates.Render(ctx, TemplateAdminReport, r.reportVars(summary))
	if err != nil {
		return fmt.Errorf("render admin report: %w", err)
	}

	msg := ports.Message{
		To:       r.opts.AdminRecipients,
		From:     r.opts.From,
		Subject:  fmt.Sprintf("%s: %d account(s) processed", r.opts.ReportName, summary.Processed()),
		HTMLBody: body,
	}
	if image := r.logoImage(); image != nil {
		msg.InlineImage = image
	}

	if r.opts.DryRun {
		r.logger.Info("dry-run: would send admin report", "to", r.opts.AdminRecipients, "accounts", summary.Processed())
		return nil
	}

	if err := r.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send admin report: %w", err)
	}

	r.logger.Info("admin report sent", "to", r.opts.AdminRecipients, "accounts", summary.Processed())
	return nil
}
