package ldap

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	ldapv3 "github.com/go-ldap/ldap/v3"

	"github.com/PhilCANDIDO/IAM-AD/internal/domain"
	"github.com/PhilCANDIDO/IAM-AD/internal/ports"
)

const (
	attrAccountName        = "sAMAccountName"
	attrDisplayName        = "displayName"
	attrMail               = "mail"
	attrLastLogon          = "lastLogonTimestamp"
	attrAccountExpires     = "accountExpires"
	attrDescription        = "description"
	attrUserAccountControl = "userAccountControl"

	// ACCOUNTDISABLE bit of userAccountControl.
	uacAccountDisable = 0x2

	baseUserFilter = "(&(objectCategory=person)(objectClass=user))"
)

// Active Directory "never expires" sentinels for accountExpires.
const (
	accountExpiresNever    = 0
	accountExpiresNeverAlt = 0x7FFFFFFFFFFFFFFF
)

// Seconds between the Windows FILETIME epoch (1601-01-01) and the Unix epoch.
const filetimeEpochOffsetSeconds = 11644473600

func buildFilter(filter ports.Filter) string {
	clauses := []string{baseUserFilter}

	if filter.EnabledOnly {
		clauses = append(clauses, fmt.Sprintf("(!(%s:1.2.840.113556.1.4.803:=%d))", attrUserAccountControl, uacAccountDisable))
	}
	if !filter.LastActivityBefore.IsZero() {
		// accounts with no logon record always match
		clauses = append(clauses, fmt.Sprintf("(|(%s<=%d)(!(%s=*)))",
			attrLastLogon, timeToFiletime(filter.LastActivityBefore), attrLastLogon))
	}
	if filter.RealExpirationOnly {
		clauses = append(clauses, fmt.Sprintf("(&(%s=*)(!(%s=%d))(!(%s=%d)))",
			attrAccountExpires, attrAccountExpires, accountExpiresNever, attrAccountExpires, int64(accountExpiresNeverAlt)))
	}

	if len(clauses) == 1 {
		return clauses[0]
	}
	return "(&" + strings.Join(clauses, "") + ")"
}

func accountFromEntry(entry *ldapv3.Entry) domain.Account {
	control := parseUserAccountControl(entry.GetAttributeValue(attrUserAccountControl))

	return domain.Account{
		ID:             domain.AccountID(entry.GetAttributeValue(attrAccountName)),
		DisplayName:    entry.GetAttributeValue(attrDisplayName),
		Email:          entry.GetAttributeValue(attrMail),
		LastActivityAt: filetimeToTime(entry.GetAttributeValue(attrLastLogon)),
		ExpiresAt:      expiresToTime(entry.GetAttributeValue(attrAccountExpires)),
		Description:    entry.GetAttributeValue(attrDescription),
		Enabled:        control&uacAccountDisable == 0,
	}
}

func parseUserAccountControl(raw string) int64 {
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return value
}

func setDisabledBit(control int64, disabled bool) int64 {
	if disabled {
		return control | uacAccountDisable
	}
	return control &^ uacAccountDisable
}

// filetimeToTime converts an AD FILETIME attribute (100ns intervals since
// 1601-01-01 UTC) to a time.Time. Absent or zero values map to the zero time,
// which the domain reads as "never".
func filetimeToTime(raw string) time.Time {
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return time.Time{}
	}

	seconds := value/10_000_000 - filetimeEpochOffsetSeconds
	nanos := (value % 10_000_000) * 100
	return time.Unix(seconds, nanos).UTC()
}

func expiresToTime(raw string) time.Time {
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value == accountExpiresNever || value == accountExpiresNeverAlt {
		return time.Time{}
	}
	return filetimeToTime(raw)
}

func timeToFiletime(value time.Time) int64 {
	return (value.Unix() + filetimeEpochOffsetSeconds) * 10_000_000
}

func serverName(address string) string {
	parsed, err := url.Parse(address)
	if err != nil || parsed.Hostname() == "" {
		return address
	}
	return parsed.Hostname()
}
