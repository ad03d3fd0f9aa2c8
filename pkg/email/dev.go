package email

import (
	"context"
	"log/slog"
)

// DevSender logs messages instead of delivering them. Useful for local
// development and as the default when no Postmark tokens are configured.
type DevSender struct {
	log *slog.Logger
}

// NewDevSender creates a logging sender. A nil logger falls back to the
// process default.
func NewDevSender(log *slog.Logger) *DevSender {
	if log == nil {
		log = slog.Default()
	}
	return &DevSender{log: log}
}

// Send validates the params and logs the message instead of sending it. The
// HTML body is logged at debug level only to keep info logs readable.
func (d *DevSender) Send(ctx context.Context, params SendParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	d.log.InfoContext(ctx, "email captured by dev sender",
		slog.String("send_to", params.SendTo),
		slog.String("subject", params.Subject),
		slog.String("tag", params.Tag),
	)
	d.log.DebugContext(ctx, "email body", slog.String("body_html", params.BodyHTML))
	return nil
}
