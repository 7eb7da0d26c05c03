package svcreg

import (
	"context"
	"errors"
)

// Warm resolves the given keys up front, in order, so that failures show up at startup instead
// of on first use. With no keys it resolves every registered service in sorted key order.
//
// A failing key does not stop the others: each failure is logged and the failures are returned
// joined together. Services that resolved stay resolved. Warm stops early only when ctx is done.
func (r *Registry) Warm(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		keys = r.Keys()
	}

	var errs []error
	for _, key := range keys {
		if _, err := r.GetContext(ctx, key); err != nil {
			r.logger.Error().
				Err(err).
				Str("service", key).
				Msg("error warming service")
			errs = append(errs, err)
			if ctx.Err() != nil {
				break
			}
		}
	}
	return errors.Join(errs...)
}
