package repository

import (
	"log/slog"

	"github.com/bulletform/bulletform-api/internal/kv"
)

// NewRepositories creates all repository instances on a shared store.
func NewRepositories(store kv.Store, logger *slog.Logger) *Repositories {
	return &Repositories{
		Usage:   NewKVUsageRepository(store, logger),
		License: NewKVLicenseRepository(store, logger),
	}
}
