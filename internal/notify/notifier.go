package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Notifier delivers operator notifications. Delivery is best effort: the
// sync engine logs a returned error and moves on, it never fails an upsert
// over one.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// NewProductMessage formats the operator message for a first-seen product.
func NewProductMessage(displayName string, listPrice float64, productURL string) string {
	return fmt.Sprintf("*New product*: %s\nPrice: $%.2f\n%s", displayName, listPrice, productURL)
}

// logNotifier writes notifications to the log. Used when no Telegram
// credentials are configured.
type logNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a notifier that only logs messages.
func NewLogNotifier(logger zerolog.Logger) Notifier {
	return &logNotifier{logger: logger.With().Str("notifier", "log").Logger()}
}

func (n *logNotifier) Notify(_ context.Context, message string) error {
	n.logger.Info().Str("message", message).Msg("notification")
	return nil
}
