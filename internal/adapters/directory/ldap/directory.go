// Package ldap implements the directory port against Active Directory.
package ldap

import (
	"context"
	"crypto/tls"
	"fmt"

	ldapv3 "github.com/go-ldap/ldap/v3"

	"github.com/PhilCANDIDO/IAM-AD/internal/domain"
	"github.com/PhilCANDIDO/IAM-AD/internal/ports"
)

type Config struct {
	Address      string
	BindDN       string
	BindPassword string
	BaseDN       string
	StartTLS     bool
	PageSize     uint32
}

var searchAttributes = []string{
	attrAccountName,
	attrDisplayName,
	attrMail,
	attrLastLogon,
	attrAccountExpires,
	attrDescription,
	attrUserAccountControl,
}

type Directory struct {
	conn     *ldapv3.Conn
	baseDN   string
	pageSize uint32
}

var _ ports.Directory = (*Directory)(nil)

// Connect dials, optionally upgrades to TLS, and binds. A failure here is a
// fatal precondition for the run.
func Connect(cfg Config) (*Directory, error) {
	if cfg.PageSize == 0 {
		cfg.PageSize = 500
	}

	conn, err := ldapv3.DialURL(cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("dial directory %q: %w", cfg.Address, err)
	}

	if cfg.StartTLS {
		if err := conn.StartTLS(&tls.Config{ServerName: serverName(cfg.Address)}); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("start tls: %w", err)
		}
	}

	if cfg.BindDN != "" {
		if err := conn.Bind(cfg.BindDN, cfg.BindPassword); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("bind as %q: %w", cfg.BindDN, err)
		}
	}

	return &Directory{conn: conn, baseDN: cfg.BaseDN, pageSize: cfg.PageSize}, nil
}

func (d *Directory) Close() error {
	return d.conn.Close()
}

func (d *Directory) Search(ctx context.Context, filter ports.Filter) ([]domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	request := ldapv3.NewSearchRequest(
		d.baseDN,
		ldapv3.ScopeWholeSubtree,
		ldapv3.NeverDerefAliases,
		0, 0, false,
		buildFilter(filter),
		searchAttributes,
		nil,
	)

	result, err := d.conn.SearchWithPaging(request, d.pageSize)
	if err != nil {
		return nil, fmt.Errorf("search directory: %w", err)
	}

	accounts := make([]domain.Account, 0, len(result.Entries))
	for _, entry := range result.Entries {
		accounts = append(accounts, accountFromEntry(entry))
	}

	return accounts, nil
}

func (d *Directory) GetByID(ctx context.Context, id domain.AccountID) (domain.Account, error) {
	entry, err := d.findEntry(ctx, id)
	if err != nil {
		return domain.Account{}, err
	}

	return accountFromEntry(entry), nil
}

// SetEnabledAndDescription flips the disable bit in userAccountControl and
// replaces the description in a single modify request.
func (d *Directory) SetEnabledAndDescription(ctx context.Context, id domain.AccountID, enabled bool, description string) error {
	entry, err := d.findEntry(ctx, id)
	if err != nil {
		return err
	}

	control := parseUserAccountControl(entry.GetAttributeValue(attrUserAccountControl))
	control = setDisabledBit(control, !enabled)

	request := ldapv3.NewModifyRequest(entry.DN, nil)
	request.Replace(attrUserAccountControl, []string{fmt.Sprintf("%d", control)})
	if description == "" {
		request.Delete(attrDescription, nil)
	} else {
		request.Replace(attrDescription, []string{description})
	}

	if err := d.conn.Modify(request); err != nil {
		return fmt.Errorf("modify account %q: %w", id, err)
	}

	return nil
}

func (d *Directory) findEntry(ctx context.Context, id domain.AccountID) (*ldapv3.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	request := ldapv3.NewSearchRequest(
		d.baseDN,
		ldapv3.ScopeWholeSubtree,
		ldapv3.NeverDerefAliases,
		2, 0, false,
		fmt.Sprintf("(&%s(%s=%s))", baseUserFilter, attrAccountName, ldapv3.EscapeFilter(string(id))),
		searchAttributes,
		nil,
	)

	result, err := d.conn.Search(request)
	if err != nil {
		return nil, fmt.Errorf("lookup account %q: %w", id, err)
	}

	switch len(result.Entries) {
	case 0:
		return nil, domain.ErrAccountNotFound
	case 1:
		return result.Entries[0], nil
	default:
		return nil, fmt.Errorf("account id %q is ambiguous in the directory", id)
	}
}
