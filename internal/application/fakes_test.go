package application

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/PhilCANDIDO/IAM-AD/internal/domain"
	"github.com/PhilCANDIDO/IAM-AD/internal/ports"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type mutation struct {
	ID          domain.AccountID
	Enabled     bool
	Description string
}

type fakeDirectory struct {
	accounts  []domain.Account
	searchErr error
	getErr    map[domain.AccountID]error
	mutateErr map[domain.AccountID]error
	mutations []mutation

	// disabledOnReread makes GetByID report the account as disabled even
	// though the search snapshot saw it enabled, as if someone else disabled
	// it mid-run.
	disabledOnReread map[domain.AccountID]bool
}

func (d *fakeDirectory) Search(_ context.Context, filter ports.Filter) ([]domain.Account, error) {
	if d.searchErr != nil {
		return nil, d.searchErr
	}

	out := make([]domain.Account, 0, len(d.accounts))
	for _, account := range d.accounts {
		if filter.EnabledOnly && !account.Enabled {
			continue
		}
		if !filter.LastActivityBefore.IsZero() &&
			!account.NeverActive() &&
			!account.LastActivityAt.Before(filter.LastActivityBefore) {
			continue
		}
		if filter.RealExpirationOnly && account.NeverExpires() {
			continue
		}
		out = append(out, account)
	}
	return out, nil
}

func (d *fakeDirectory) GetByID(_ context.Context, id domain.AccountID) (domain.Account, error) {
	if err := d.getErr[id]; err != nil {
		return domain.Account{}, err
	}
	for _, account := range d.accounts {
		if account.ID == id {
			if d.disabledOnReread[id] {
				account.Enabled = false
			}
			return account, nil
		}
	}
	return domain.Account{}, domain.ErrAccountNotFound
}

func (d *fakeDirectory) SetEnabledAndDescription(_ context.Context, id domain.AccountID, enabled bool, description string) error {
	if err := d.mutateErr[id]; err != nil {
		return err
	}
	for i := range d.accounts {
		if d.accounts[i].ID == id {
			d.accounts[i].Enabled = enabled
			d.accounts[i].Description = description
			d.mutations = append(d.mutations, mutation{ID: id, Enabled: enabled, Description: description})
			return nil
		}
	}
	return domain.ErrAccountNotFound
}

type fakeMailer struct {
	sent    []ports.Message
	sendErr map[string]error
}

func (m *fakeMailer) Send(_ context.Context, msg ports.Message) error {
	for _, to := range msg.To {
		if err := m.sendErr[to]; err != nil {
			return err
		}
	}
	m.sent = append(m.sent, msg)
	return nil
}

// fakeTemplates renders "<id>:" followed by the sorted variable pairs, so
// tests can assert on the payload without real markup.
type fakeTemplates struct {
	missing   map[string]bool
	renderErr map[string]error
}

func (t *fakeTemplates) Render(_ context.Context, templateID string, vars map[string]string) (string, error) {
	if t.missing[templateID] {
		return "", fmt.Errorf("%w: %q", domain.ErrTemplateNotFound, templateID)
	}
	if err := t.renderErr[templateID]; err != nil {
		return "", err
	}

	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(templateID + ":")
	for _, key := range keys {
		b.WriteString(" " + key + "=" + vars[key])
	}
	return b.String(), nil
}
