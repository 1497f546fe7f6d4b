// Package smtp delivers reconciler mail over SMTP. Dry-run suppression lives
// in the application layer; this adapter always transmits.
package smtp

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/PhilCANDIDO/IAM-AD/internal/ports"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	SSL      bool
}

type Mailer struct {
	client *gomail.Client
}

var _ ports.Mailer = (*Mailer)(nil)

func NewMailer(cfg Config) (*Mailer, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}
	if cfg.SSL {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &Mailer{client: client}, nil
}

func (m *Mailer) Send(ctx context.Context, msg ports.Message) error {
	message, err := buildMessage(msg)
	if err != nil {
		return err
	}

	if err := m.client.DialAndSendWithContext(ctx, message); err != nil {
		return fmt.Errorf("send mail %q: %w", msg.Subject, err)
	}

	return nil
}

func buildMessage(msg ports.Message) (*gomail.Msg, error) {
	message := gomail.NewMsg()

	if err := message.From(msg.From); err != nil {
		return nil, fmt.Errorf("set sender %q: %w", msg.From, err)
	}
	if err := message.To(msg.To...); err != nil {
		return nil, fmt.Errorf("set recipients %v: %w", msg.To, err)
	}

	message.Subject(msg.Subject)
	message.SetBodyString(gomail.TypeTextHTML, msg.HTMLBody)

	if img := msg.InlineImage; img != nil {
		message.EmbedFile(img.Path,
			gomail.WithFileName(img.Name),
			gomail.WithFileContentID(img.CID),
		)
	}

	return message, nil
}
