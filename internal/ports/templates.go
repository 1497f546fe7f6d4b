package ports

import "context"

// TemplateRenderer resolves a template by identifier and renders it with a
// flat variable map. Unresolvable identifiers fail with
// domain.ErrTemplateNotFound.
type TemplateRenderer interface {
	Render(ctx context.Context, templateID string, vars map[string]string) (string, error)
}
