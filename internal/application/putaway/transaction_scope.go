package putaway

import (
	"context"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/receiving"
	"github.com/wms/backend/internal/domain/warehouse"
)

// TransactionScope provides transactional access to the repositories a
// putaway touches. When a function is executed within a transaction scope,
// all repository operations are part of the same database transaction and
// are committed or rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories a putaway
// mutates within a transaction. All repositories returned share the same
// underlying database transaction.
//
// A single putaway spans three aggregates: the shipment notice (line
// counters), two inventory records (holding and target) and two locations
// (holding and target occupancy). None of these changes may be observed
// without the others, which is why they only ever happen inside this scope.
type TransactionalRepositories interface {
	// LocationRepo returns the location repository scoped to the current transaction
	LocationRepo() warehouse.LocationRepository
	// RecordRepo returns the inventory record repository scoped to the current transaction
	RecordRepo() inventory.RecordRepository
	// ShipmentRepo returns the shipment notice repository scoped to the current transaction
	ShipmentRepo() receiving.ShipmentRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support is
// not required.
type NoOpTransactionScope struct {
	locationRepo warehouse.LocationRepository
	recordRepo   inventory.RecordRepository
	shipmentRepo receiving.ShipmentRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	locationRepo warehouse.LocationRepository,
	recordRepo inventory.RecordRepository,
	shipmentRepo receiving.ShipmentRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		locationRepo: locationRepo,
		recordRepo:   recordRepo,
		shipmentRepo: shipmentRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// LocationRepo returns the location repository.
func (s *NoOpTransactionScope) LocationRepo() warehouse.LocationRepository {
	return s.locationRepo
}

// RecordRepo returns the inventory record repository.
func (s *NoOpTransactionScope) RecordRepo() inventory.RecordRepository {
	return s.recordRepo
}

// ShipmentRepo returns the shipment notice repository.
func (s *NoOpTransactionScope) ShipmentRepo() receiving.ShipmentRepository {
	return s.shipmentRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
