package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/bulletform/bulletform-api/internal/constants"
	"github.com/bulletform/bulletform-api/internal/kv"
)

// KVUsageRepository implements UsageRepository on a kv.Store.
type KVUsageRepository struct {
	store  kv.Store
	logger *slog.Logger
}

// NewKVUsageRepository creates a usage repository backed by the given
// store.
func NewKVUsageRepository(store kv.Store, logger *slog.Logger) *KVUsageRepository {
	return &KVUsageRepository{store: store, logger: logger}
}

func (r *KVUsageRepository) GetCount(ctx context.Context, identifier string) (int64, error) {
	val, found, err := r.store.Get(ctx, usageKey(identifier))
	if err != nil {
		return 0, fmt.Errorf("get usage count: %w", err)
	}
	if !found {
		return 0, nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse usage count for %q: %w", identifier, err)
	}
	return n, nil
}

func (r *KVUsageRepository) Increment(ctx context.Context, identifier string, paidUnlimited bool) (int64, error) {
	key := usageKey(identifier)
	n, err := r.store.IncrBy(ctx, key, 1)
	if err != nil {
		return 0, fmt.Errorf("increment usage: %w", err)
	}

	// The TTL is attached exactly once, when the atomic increment created
	// the counter. Later increments within the window leave the deadline
	// untouched.
	if n == 1 && !paidUnlimited {
		if err := r.store.Expire(ctx, key, constants.FreeUsageTTL); err != nil {
			// The count is already recorded; a missing TTL means the
			// counter will not self-reset, which support can clear.
			r.logger.Error("failed to attach usage TTL",
				"identifier", identifier,
				"error", err,
			)
		}
	}
	return n, nil
}

func (r *KVUsageRepository) TrackDailyGeneration(ctx context.Context, date string) error {
	key := statsDailyKey(date)
	n, err := r.store.IncrBy(ctx, key, 1)
	if err != nil {
		return fmt.Errorf("track daily generation: %w", err)
	}
	if n == 1 {
		if err := r.store.Expire(ctx, key, constants.DailyStatsTTL); err != nil {
			return fmt.Errorf("expire daily stats: %w", err)
		}
	}
	return nil
}

func (r *KVUsageRepository) GetDailyGenerations(ctx context.Context, date string) (int64, error) {
	val, found, err := r.store.Get(ctx, statsDailyKey(date))
	if err != nil {
		return 0, fmt.Errorf("get daily generations: %w", err)
	}
	if !found {
		return 0, nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse daily generations for %q: %w", date, err)
	}
	return n, nil
}
