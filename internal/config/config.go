package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/PhilCANDIDO/IAM-AD/internal/domain"
)

// ErrMissing marks a fatal precondition failure: a required configuration
// value is absent. The run aborts before any account is processed.
var ErrMissing = errors.New("required configuration value missing")

const (
	BackendLDAP = "ldap"
	BackendTOML = "toml"
)

type LDAP struct {
	Address      string
	BindDN       string
	BindPassword string
	BaseDN       string
	StartTLS     bool
	PageSize     uint32
}

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	SSL      bool
}

type Mail struct {
	From            string
	AdminRecipients []string
	LogoPath        string
}

// Support contact fields are passed through to templates verbatim.
type Support struct {
	Name  string
	Email string
	Phone string
}

type Config struct {
	Backend      string
	LDAP         LDAP
	AccountsFile string

	SMTP    SMTP
	Mail    Mail
	Support Support

	Policy domain.Policy

	TemplateDir string
	ReportName  string

	DryRun bool
	Debug  bool
}

// Load reads the config file (TOML), applies IAMAD_ environment overrides and
// defaults, and validates the result once. Components receive the value and
// never consult ambient state.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("iamad")
		v.AddConfigPath("/etc/iamad")
		v.AddConfigPath("$HOME/.iamad")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("IAMAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		Backend: v.GetString("directory.backend"),
		LDAP: LDAP{
			Address:      v.GetString("directory.ldap.address"),
			BindDN:       v.GetString("directory.ldap.bind_dn"),
			BindPassword: v.GetString("directory.ldap.bind_password"),
			BaseDN:       v.GetString("directory.ldap.base_dn"),
			StartTLS:     v.GetBool("directory.ldap.starttls"),
			PageSize:     v.GetUint32("directory.ldap.page_size"),
		},
		AccountsFile: v.GetString("directory.accounts_file"),
		SMTP: SMTP{
			Host:     v.GetString("smtp.host"),
			Port:     v.GetInt("smtp.port"),
			Username: v.GetString("smtp.username"),
			Password: v.GetString("smtp.password"),
			SSL:      v.GetBool("smtp.ssl"),
		},
		Mail: Mail{
			From:            v.GetString("mail.from"),
			AdminRecipients: v.GetStringSlice("mail.admin_recipients"),
			LogoPath:        v.GetString("mail.logo_path"),
		},
		Support: Support{
			Name:  v.GetString("support.name"),
			Email: v.GetString("support.email"),
			Phone: v.GetString("support.phone"),
		},
		Policy: domain.Policy{
			InactivityWindowDays: v.GetInt("policy.inactivity_window_days"),
			NotificationLeadDays: v.GetInt("policy.notification_lead_days"),
			ExpirationLeadDays:   v.GetInt("policy.expiration_lead_days"),
			ExpirationHandling:   v.GetBool("policy.expiration_handling"),
		},
		TemplateDir: v.GetString("templates.dir"),
		ReportName:  v.GetString("report.name"),
		DryRun:      v.GetBool("dry_run"),
		Debug:       v.GetBool("debug"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("directory.backend", BackendLDAP)
	v.SetDefault("directory.ldap.page_size", 500)
	v.SetDefault("smtp.port", 25)
	v.SetDefault("policy.inactivity_window_days", 45)
	v.SetDefault("policy.notification_lead_days", 15)
	v.SetDefault("policy.expiration_lead_days", 30)
	v.SetDefault("templates.dir", "templates")
	v.SetDefault("report.name", "IAM-AD account lifecycle")
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendLDAP:
		if c.LDAP.Address == "" {
			return fmt.Errorf("%w: directory.ldap.address", ErrMissing)
		}
		if c.LDAP.BaseDN == "" {
			return fmt.Errorf("%w: directory.ldap.base_dn", ErrMissing)
		}
	case BackendTOML:
		if c.AccountsFile == "" {
			return fmt.Errorf("%w: directory.accounts_file", ErrMissing)
		}
	default:
		return fmt.Errorf("unsupported directory backend %q", c.Backend)
	}

	if c.SMTP.Host == "" {
		return fmt.Errorf("%w: smtp.host", ErrMissing)
	}
	if c.Mail.From == "" {
		return fmt.Errorf("%w: mail.from", ErrMissing)
	}
	if len(c.Mail.AdminRecipients) == 0 {
		return fmt.Errorf("%w: mail.admin_recipients", ErrMissing)
	}
	if c.TemplateDir == "" {
		return fmt.Errorf("%w: templates.dir", ErrMissing)
	}

	return c.Policy.Validate()
}
