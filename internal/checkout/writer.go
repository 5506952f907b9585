package checkout

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/andresvelez/golmarket-backend/pkg/db/models"
)

// OrderWriter is one persistence tier for order data. Tiers are tried in
// descending reliability order; the first success wins.
type OrderWriter interface {
	Name() string
	WriteOrder(ctx context.Context, order *models.Order) error
	WriteLine(ctx context.Context, line *models.OrderLine) error
}

// tryInOrder runs attempt against each writer until one succeeds, returning
// that writer's name. When all fail the joined errors come back.
func tryInOrder(writers []OrderWriter, attempt func(OrderWriter) error) (string, error) {
	var errs error
	for _, writer := range writers {
		if err := attempt(writer); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", writer.Name(), err))
			continue
		}
		return writer.Name(), nil
	}
	if errs == nil {
		errs = fmt.Errorf("no writers configured")
	}
	return "", errs
}
