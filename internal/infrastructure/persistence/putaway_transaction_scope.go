package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/wms/backend/internal/application/putaway"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/receiving"
	"github.com/wms/backend/internal/domain/warehouse"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos putaway.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// LocationRepo returns the location repository scoped to the current transaction.
func (r *gormTransactionalRepositories) LocationRepo() warehouse.LocationRepository {
	return NewGormLocationRepository(r.tx)
}

// RecordRepo returns the inventory record repository scoped to the current transaction.
func (r *gormTransactionalRepositories) RecordRepo() inventory.RecordRepository {
	return NewGormRecordRepository(r.tx)
}

// ShipmentRepo returns the shipment notice repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ShipmentRepo() receiving.ShipmentRepository {
	return NewGormShipmentRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ putaway.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ putaway.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
