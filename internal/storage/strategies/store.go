// Package strategies persists per-asset alert thresholds.
package strategies

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/martifolio/internal/domain"
)

// ErrNotFound is returned by Load when nothing has been persisted yet.
var ErrNotFound = errors.New("strategies not found")

// Store loads and saves the full strategy payload.
type Store interface {
	Load(ctx context.Context) (domain.Strategies, error)
	Save(ctx context.Context, strategies domain.Strategies) error
}

// EnsureDefaults seeds store with domain.DefaultStrategies when it holds nothing.
// It reports whether the defaults were written.
func EnsureDefaults(ctx context.Context, store Store) (bool, error) {
	_, err := store.Load(ctx)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, err
	}

	if err := store.Save(ctx, domain.DefaultStrategies()); err != nil {
		return false, errors.Wrap(err, "seed default strategies")
	}
	return true, nil
}

// Upsert replaces the strategy of a single asset and keeps the others.
func Upsert(ctx context.Context, store Store, asset string, strategy domain.Strategy) error {
	current, err := store.Load(ctx)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if current == nil {
		current = domain.Strategies{}
	}

	current[strings.ToUpper(strings.TrimSpace(asset))] = strategy
	return store.Save(ctx, current)
}
