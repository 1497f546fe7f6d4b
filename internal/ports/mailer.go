package ports

import "context"

// InlineImage is embedded into the HTML body via a Content-ID reference.
type InlineImage struct {
	Name string
	Path string
	CID  string
}

type Message struct {
	To          []string
	From        string
	Subject     string
	HTMLBody    string
	InlineImage *InlineImage
}

// Mailer delivers one message synchronously. Dry-run suppression is the
// caller's responsibility, not the transport's.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
