// Package fs resolves mail templates from a directory on disk, one
// "<id>.html" file per template identifier. Substitution is plain text:
// callers pass pre-escaped HTML fragments (the admin report's row table
// arrives as one), so the store must not escape again.
package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/template"

	"github.com/PhilCANDIDO/IAM-AD/internal/domain"
	"github.com/PhilCANDIDO/IAM-AD/internal/ports"
)

type Store struct {
	root string

	mu    sync.RWMutex
	cache map[string]*template.Template
}

var _ ports.TemplateRenderer = (*Store)(nil)

func NewStore(root string) *Store {
	return &Store{
		root:  filepath.Clean(root),
		cache: make(map[string]*template.Template),
	}
}

func (s *Store) Render(ctx context.Context, templateID string, vars map[string]string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmpl, err := s.lookup(templateID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, vars); err != nil {
		return "", fmt.Errorf("execute template %q: %w", templateID, err)
	}

	return b.String(), nil
}

func (s *Store) lookup(templateID string) (*template.Template, error) {
	s.mu.RLock()
	cached, ok := s.cache[templateID]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	path, err := s.pathForID(templateID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", domain.ErrTemplateNotFound, templateID)
		}
		return nil, fmt.Errorf("read template %q: %w", templateID, err)
	}

	tmpl, err := template.New(templateID).Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse template %q: %w", templateID, err)
	}

	s.mu.Lock()
	s.cache[templateID] = tmpl
	s.mu.Unlock()

	return tmpl, nil
}

// pathForID maps an identifier to a file under the store root, rejecting
// identifiers that would escape it.
func (s *Store) pathForID(templateID string) (string, error) {
	if templateID == "" {
		return "", fmt.Errorf("%w: empty template id", domain.ErrTemplateNotFound)
	}
	if strings.ContainsAny(templateID, `/\`) || strings.Contains(templateID, "..") {
		return "", fmt.Errorf("invalid template id %q", templateID)
	}

	return filepath.Join(s.root, templateID+".html"), nil
}
