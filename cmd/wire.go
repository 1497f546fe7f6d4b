package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	ldapdir "github.com/PhilCANDIDO/IAM-AD/internal/adapters/directory/ldap"
	tomldir "github.com/PhilCANDIDO/IAM-AD/internal/adapters/directory/toml"
	smtpmail "github.com/PhilCANDIDO/IAM-AD/internal/adapters/mail/smtp"
	fstemplates "github.com/PhilCANDIDO/IAM-AD/internal/adapters/templates/fs"
	"github.com/PhilCANDIDO/IAM-AD/internal/application"
	"github.com/PhilCANDIDO/IAM-AD/internal/config"
	"github.com/PhilCANDIDO/IAM-AD/internal/ports"
)

// overrides are the CLI flags that take precedence over the config file.
type overrides struct {
	dryRun bool
	debug  bool
}

type app struct {
	cfg        config.Config
	logger     *slog.Logger
	reconciler *application.Reconciler
	closers    []func() error
}

func (a *app) close() {
	for _, closer := range a.closers {
		if err := closer(); err != nil {
			a.logger.Warn("close collaborator", "error", err)
		}
	}
}

func wireApp(configPath string, flags overrides) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if flags.dryRun {
		cfg.DryRun = true
	}
	if flags.debug {
		cfg.Debug = true
	}

	logger := newLogger(cfg.Debug)

	a := &app{cfg: cfg, logger: logger}

	directory, err := a.wireDirectory()
	if err != nil {
		return nil, err
	}

	mailer, err := smtpmail.NewMailer(smtpmail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		SSL:      cfg.SMTP.SSL,
	})
	if err != nil {
		return nil, fmt.Errorf("wire mailer: %w", err)
	}

	a.reconciler = application.NewReconciler(
		directory,
		mailer,
		fstemplates.NewStore(cfg.TemplateDir),
		ports.SystemClock{},
		logger,
		application.Options{
			Policy:          cfg.Policy,
			DryRun:          cfg.DryRun,
			From:            cfg.Mail.From,
			AdminRecipients: cfg.Mail.AdminRecipients,
			Support: application.SupportContact{
				Name:  cfg.Support.Name,
				Email: cfg.Support.Email,
				Phone: cfg.Support.Phone,
			},
			ReportName: cfg.ReportName,
			LogoPath:   cfg.Mail.LogoPath,
		},
	)

	return a, nil
}

func (a *app) wireDirectory() (ports.Directory, error) {
	switch a.cfg.Backend {
	case config.BackendLDAP:
		directory, err := ldapdir.Connect(ldapdir.Config{
			Address:      a.cfg.LDAP.Address,
			BindDN:       a.cfg.LDAP.BindDN,
			BindPassword: a.cfg.LDAP.BindPassword,
			BaseDN:       a.cfg.LDAP.BaseDN,
			StartTLS:     a.cfg.LDAP.StartTLS,
			PageSize:     a.cfg.LDAP.PageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("wire ldap directory: %w", err)
		}
		a.closers = append(a.closers, directory.Close)
		return directory, nil
	case config.BackendTOML:
		directory, err := tomldir.NewRepository(a.cfg.AccountsFile)
		if err != nil {
			return nil, fmt.Errorf("wire toml directory: %w", err)
		}
		return directory, nil
	default:
		return nil, errors.New("unsupported directory backend " + a.cfg.Backend)
	}
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
	}))
}
