package toml

import (
	"fmt"
	"time"

	"github.com/PhilCANDIDO/IAM-AD/internal/domain"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version  int             `toml:"version"`
	Accounts []accountSchema `toml:"accounts"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported accounts schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type accountSchema struct {
	ID             string `toml:"id"`
	DisplayName    string `toml:"display_name"`
	Email          string `toml:"email,omitempty"`
	LastActivityAt string `toml:"last_activity_at,omitempty"`
	ExpiresAt      string `toml:"expires_at,omitempty"`
	Description    string `toml:"description,omitempty"`
	Enabled        bool   `toml:"enabled"`
}

func toSchema(account domain.Account) accountSchema {
	return accountSchema{
		ID:             string(account.ID),
		DisplayName:    account.DisplayName,
		Email:          account.Email,
		LastActivityAt: formatTime(account.LastActivityAt),
		ExpiresAt:      formatTime(account.ExpiresAt),
		Description:    account.Description,
		Enabled:        account.Enabled,
	}
}

func fromSchema(account accountSchema) domain.Account {
	return domain.Account{
		ID:             domain.AccountID(account.ID),
		DisplayName:    account.DisplayName,
		Email:          account.Email,
		LastActivityAt: parseTime(account.LastActivityAt),
		ExpiresAt:      parseTime(account.ExpiresAt),
		Description:    account.Description,
		Enabled:        account.Enabled,
	}
}

// Empty and unparseable timestamps map to the zero time, which the domain
// treats as "never" for both activity and expiration.
func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.Format(time.RFC3339)
}
