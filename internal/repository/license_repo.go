package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/bulletform/bulletform-api/internal/kv"
	"github.com/bulletform/bulletform-api/internal/models"
)

// KVLicenseRepository implements LicenseRepository on a kv.Store.
// Records are stored as JSON under license:{key}; the email and order
// indexes hold the bare license key.
type KVLicenseRepository struct {
	store  kv.Store
	logger *slog.Logger
}

// NewKVLicenseRepository creates a license repository backed by the
// given store.
func NewKVLicenseRepository(store kv.Store, logger *slog.Logger) *KVLicenseRepository {
	return &KVLicenseRepository{store: store, logger: logger}
}

func (r *KVLicenseRepository) Create(ctx context.Context, record *models.LicenseRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal license record: %w", err)
	}

	// The record write must succeed; entitlement resolves license-key
	// first, so a record without indexes is still entitled.
	if err := r.store.Set(ctx, licenseKey(record.LicenseKey), string(data)); err != nil {
		return fmt.Errorf("write license record: %w", err)
	}

	// Index writes are not rolled back on failure. They are logged and
	// left for manual reconciliation.
	if err := r.store.Set(ctx, emailKey(record.Email), record.LicenseKey); err != nil {
		r.logger.Error("failed to write email index for license",
			"order_id", record.OrderID,
			"error", err,
		)
	}
	if err := r.store.Set(ctx, orderKey(record.OrderID), record.LicenseKey); err != nil {
		r.logger.Error("failed to write order index for license",
			"order_id", record.OrderID,
			"error", err,
		)
	}
	return nil
}

func (r *KVLicenseRepository) Get(ctx context.Context, key string) (*models.LicenseRecord, error) {
	val, found, err := r.store.Get(ctx, licenseKey(key))
	if err != nil {
		return nil, fmt.Errorf("get license: %w", err)
	}
	if !found {
		return nil, nil
	}
	var record models.LicenseRecord
	if err := json.Unmarshal([]byte(val), &record); err != nil {
		return nil, fmt.Errorf("decode license record: %w", err)
	}
	return &record, nil
}

func (r *KVLicenseRepository) IncrementUsage(ctx context.Context, key string) (*models.LicenseRecord, error) {
	record, err := r.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}

	record.GenerationsUsed++
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("marshal license record: %w", err)
	}
	if err := r.store.Set(ctx, licenseKey(key), string(data)); err != nil {
		return nil, fmt.Errorf("write license record: %w", err)
	}
	return record, nil
}

func (r *KVLicenseRepository) GetByEmail(ctx context.Context, email string) (*models.LicenseRecord, error) {
	return r.getByIndex(ctx, emailKey(email))
}

func (r *KVLicenseRepository) GetByOrderID(ctx context.Context, orderID string) (*models.LicenseRecord, error) {
	return r.getByIndex(ctx, orderKey(orderID))
}

// getByIndex resolves a secondary index to its license record. A
// dangling index (key present, record absent) is reported as an error
// because it violates the index invariant.
func (r *KVLicenseRepository) getByIndex(ctx context.Context, indexKey string) (*models.LicenseRecord, error) {
	key, found, err := r.store.Get(ctx, indexKey)
	if err != nil {
		return nil, fmt.Errorf("resolve license index: %w", err)
	}
	if !found {
		return nil, nil
	}
	record, err := r.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("dangling license index %q -> %q", indexKey, key)
	}
	return record, nil
}

func (r *KVLicenseRepository) MarkOrderProcessed(ctx context.Context, orderID string) (bool, error) {
	first, err := r.store.SetNX(ctx, webhookDedupeKey(orderID), "1", 0)
	if err != nil {
		return false, fmt.Errorf("mark order processed: %w", err)
	}
	return first, nil
}

func (r *KVLicenseRepository) ReleaseOrder(ctx context.Context, orderID string) error {
	if err := r.store.Del(ctx, webhookDedupeKey(orderID)); err != nil {
		return fmt.Errorf("release order claim: %w", err)
	}
	return nil
}
