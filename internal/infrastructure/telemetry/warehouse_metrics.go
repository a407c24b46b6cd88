// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// WarehouseMetrics provides business metrics for the warehouse.
// It tracks putaway activity, receiving throughput, and capacity health.
type WarehouseMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	putawayCompletedTotal *Counter
	putawayQuantityTotal  *Counter
	putawayFailedTotal    *Counter
	shipmentReceivedTotal *Counter

	// Gauge metrics (point-in-time values)
	holdingBacklogQuantity *Gauge
	storageExhaustedCount  *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	capacityProvider CapacityMetricsProvider
}

// CapacityMetricsProvider provides capacity data for periodic metrics
// collection. This interface allows the telemetry layer to query warehouse
// state without depending on the warehouse domain directly.
type CapacityMetricsProvider interface {
	// GetHoldingBacklog returns the quantity still waiting in each holding location for a tenant
	GetHoldingBacklog(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]int64, error)

	// GetExhaustedStorageCount returns the number of active storage locations with no free capacity for a tenant
	GetExhaustedStorageCount(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// WarehouseMetricsConfig holds configuration for warehouse metrics.
type WarehouseMetricsConfig struct {
	Meter            metric.Meter
	Logger           *zap.Logger
	CollectInterval  time.Duration // Default: 5 minutes
	CapacityProvider CapacityMetricsProvider
}

// NewWarehouseMetrics creates a new WarehouseMetrics instance.
func NewWarehouseMetrics(cfg WarehouseMetricsConfig) (*WarehouseMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	wm := &WarehouseMetrics{
		meter:            cfg.Meter,
		logger:           logger,
		stopChan:         make(chan struct{}),
		capacityProvider: cfg.CapacityProvider,
	}

	// Initialize counter metrics
	var err error

	// Putaway metrics
	wm.putawayCompletedTotal, err = NewCounter(
		cfg.Meter,
		"wms_putaway_completed_total",
		"Total number of completed putaway moves",
		"{moves}",
	)
	if err != nil {
		return nil, err
	}

	wm.putawayQuantityTotal, err = NewCounter(
		cfg.Meter,
		"wms_putaway_quantity_total",
		"Total quantity moved from holding into storage",
		"{units}",
	)
	if err != nil {
		return nil, err
	}

	wm.putawayFailedTotal, err = NewCounter(
		cfg.Meter,
		"wms_putaway_failed_total",
		"Total number of rejected putaway attempts",
		"{moves}",
	)
	if err != nil {
		return nil, err
	}

	// Receiving metrics
	wm.shipmentReceivedTotal, err = NewCounter(
		cfg.Meter,
		"wms_shipment_received_total",
		"Total number of shipment notices received into holding",
		"{shipments}",
	)
	if err != nil {
		return nil, err
	}

	// Capacity gauge metrics
	wm.holdingBacklogQuantity, err = NewGauge(
		cfg.Meter,
		"wms_holding_backlog_quantity",
		"Quantity currently waiting in holding locations",
		"{units}",
	)
	if err != nil {
		return nil, err
	}

	wm.storageExhaustedCount, err = NewGauge(
		cfg.Meter,
		"wms_storage_exhausted_count",
		"Number of active storage locations with no free capacity",
		"{locations}",
	)
	if err != nil {
		return nil, err
	}

	return wm, nil
}

// =============================================================================
// Putaway Metrics
// =============================================================================

// PutawayMode distinguishes operator-directed moves from auto-putaway for
// metrics labeling.
type PutawayMode string

const (
	PutawayModeManual PutawayMode = "manual"
	PutawayModeAuto   PutawayMode = "auto"
)

// RecordPutawayCompleted records a completed putaway move.
// This should be called from the application layer after the move commits.
func (wm *WarehouseMetrics) RecordPutawayCompleted(ctx context.Context, tenantID uuid.UUID, mode PutawayMode) {
	wm.putawayCompletedTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrPutawayMode.String(string(mode)),
	)
}

// RecordPutawayQuantity records the quantity moved by a putaway.
func (wm *WarehouseMetrics) RecordPutawayQuantity(ctx context.Context, tenantID uuid.UUID, mode PutawayMode, quantity int64) {
	wm.putawayQuantityTotal.Add(ctx, quantity,
		AttrTenantID.String(tenantID.String()),
		AttrPutawayMode.String(string(mode)),
	)
}

// RecordPutaway is a convenience method that records both move count and quantity.
func (wm *WarehouseMetrics) RecordPutaway(ctx context.Context, tenantID uuid.UUID, mode PutawayMode, quantity int64) {
	wm.RecordPutawayCompleted(ctx, tenantID, mode)
	wm.RecordPutawayQuantity(ctx, tenantID, mode, quantity)
}

// RecordPutawayFailed records a rejected putaway attempt with its failure reason.
// Reason should be a stable error code such as CAPACITY_EXCEEDED or OVER_PUTAWAY.
func (wm *WarehouseMetrics) RecordPutawayFailed(ctx context.Context, tenantID uuid.UUID, mode PutawayMode, reason string) {
	wm.putawayFailedTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrPutawayMode.String(string(mode)),
		AttrFailureReason.String(reason),
	)
}

// =============================================================================
// Receiving Metrics
// =============================================================================

// RecordShipmentReceived records a shipment notice received into holding.
func (wm *WarehouseMetrics) RecordShipmentReceived(ctx context.Context, tenantID uuid.UUID) {
	wm.shipmentReceivedTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
	)
}

// =============================================================================
// Capacity Metrics
// =============================================================================

// RecordHoldingBacklog records the quantity waiting in a holding location.
// This is a gauge metric that should be updated periodically.
func (wm *WarehouseMetrics) RecordHoldingBacklog(ctx context.Context, tenantID, locationID uuid.UUID, quantity int64) {
	wm.holdingBacklogQuantity.Record(ctx, quantity,
		AttrTenantID.String(tenantID.String()),
		AttrLocationID.String(locationID.String()),
	)
}

// RecordExhaustedStorageCount records the number of storage locations with no
// free capacity. This is a gauge metric that should be updated periodically.
func (wm *WarehouseMetrics) RecordExhaustedStorageCount(ctx context.Context, tenantID uuid.UUID, count int64) {
	wm.storageExhaustedCount.Record(ctx, count,
		AttrTenantID.String(tenantID.String()),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// TenantProvider provides tenant IDs for periodic metrics collection.
type TenantProvider interface {
	GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects capacity metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (wm *WarehouseMetrics) StartPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	wm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go wm.runPeriodicCollection(ctx, tenantProvider, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (wm *WarehouseMetrics) runPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	wm.collectCapacityMetrics(ctx, tenantProvider)

	for {
		select {
		case <-wm.stopChan:
			wm.logger.Info("Stopping periodic warehouse metrics collection")
			return
		case <-ctx.Done():
			wm.logger.Info("Context cancelled, stopping periodic warehouse metrics collection")
			return
		case <-ticker.C:
			wm.collectCapacityMetrics(ctx, tenantProvider)
		}
	}
}

// collectCapacityMetrics collects capacity gauge metrics for all tenants.
func (wm *WarehouseMetrics) collectCapacityMetrics(ctx context.Context, tenantProvider TenantProvider) {
	if wm.capacityProvider == nil {
		wm.logger.Debug("No capacity provider configured, skipping capacity metrics collection")
		return
	}

	tenantIDs, err := tenantProvider.GetActiveTenantIDs(ctx)
	if err != nil {
		wm.logger.Error("Failed to get tenant IDs for metrics collection", zap.Error(err))
		return
	}

	for _, tenantID := range tenantIDs {
		wm.collectTenantCapacityMetrics(ctx, tenantID)
	}
}

// collectTenantCapacityMetrics collects capacity metrics for a single tenant.
func (wm *WarehouseMetrics) collectTenantCapacityMetrics(ctx context.Context, tenantID uuid.UUID) {
	// Collect holding backlog by location
	backlogByLocation, err := wm.capacityProvider.GetHoldingBacklog(ctx, tenantID)
	if err != nil {
		wm.logger.Warn("Failed to get holding backlog for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		for locationID, quantity := range backlogByLocation {
			wm.RecordHoldingBacklog(ctx, tenantID, locationID, quantity)
		}
	}

	// Collect exhausted storage count
	exhaustedCount, err := wm.capacityProvider.GetExhaustedStorageCount(ctx, tenantID)
	if err != nil {
		wm.logger.Warn("Failed to get exhausted storage count for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		wm.RecordExhaustedStorageCount(ctx, tenantID, exhaustedCount)
	}
}

// Stop stops the periodic collection.
func (wm *WarehouseMetrics) Stop() {
	wm.stopOnce.Do(func() {
		close(wm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewWarehouseMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

// =============================================================================
// Attribute Key Constants
// =============================================================================

// Warehouse metrics attribute keys not already defined in metrics.go
var (
	// Additional warehouse attributes can be added here
	AttrShipmentStatus = attribute.Key("shipment_status")
)
