package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/receiving"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/warehouse"
)

// Handler writes an audit trail of warehouse movements to the structured
// log. It subscribes to every stock and capacity event; delivery is
// fire-and-forget and failures never reach the operation that emitted the
// event.
type Handler struct {
	logger *zap.Logger
}

// NewHandler creates a new audit Handler
func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *Handler) EventTypes() []string {
	return []string{
		warehouse.EventTypeCapacityReserved,
		warehouse.EventTypeCapacityReleased,
		inventory.EventTypeStockAdded,
		inventory.EventTypeStockRemoved,
		receiving.EventTypeShipmentReceived,
		receiving.EventTypeLinePutAway,
		receiving.EventTypeShipmentCompleted,
	}
}

// Handle writes one audit entry per event
func (h *Handler) Handle(ctx context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_id", event.EventID().String()),
		zap.String("tenant_id", event.TenantID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	}

	switch e := event.(type) {
	case *warehouse.CapacityReservedEvent:
		fields = append(fields,
			zap.String("location_code", e.Code),
			zap.Int64("quantity", e.Quantity),
			zap.Int64("current_capacity", e.CurrentCapacity),
			zap.Int64("max_capacity", e.MaxCapacity))
	case *warehouse.CapacityReleasedEvent:
		fields = append(fields,
			zap.String("location_code", e.Code),
			zap.Int64("quantity", e.Quantity),
			zap.Int64("current_capacity", e.CurrentCapacity))
		if e.Anomaly {
			// Release exceeded the recorded occupancy and was floored at
			// zero; the books disagreed with the request.
			fields = append(fields, zap.Bool("anomaly", true))
			h.logger.Warn("capacity release anomaly", fields...)
			return nil
		}
	case *inventory.StockAddedEvent:
		fields = append(fields,
			zap.String("item_id", e.ItemID.String()),
			zap.String("location_id", e.LocationID.String()),
			zap.Int64("quantity", e.Quantity),
			zap.Int64("new_balance", e.NewBalance))
	case *inventory.StockRemovedEvent:
		fields = append(fields,
			zap.String("item_id", e.ItemID.String()),
			zap.String("location_id", e.LocationID.String()),
			zap.Int64("quantity", e.Quantity),
			zap.Int64("new_balance", e.NewBalance),
			zap.Bool("record_deleted", e.Deleted))
	case *receiving.ShipmentReceivedEvent:
		fields = append(fields,
			zap.String("number", e.Number),
			zap.Int("line_count", e.LineCount))
	case *receiving.LinePutAwayEvent:
		fields = append(fields,
			zap.String("line_id", e.LineID.String()),
			zap.Int64("quantity", e.Quantity),
			zap.Int64("remaining", e.Remaining),
			zap.Bool("line_completed", e.Completed))
	case *receiving.ShipmentCompletedEvent:
		fields = append(fields, zap.String("number", e.Number))
	}

	h.logger.Info(event.EventType(), fields...)
	return nil
}

// Ensure Handler implements shared.EventHandler
var _ shared.EventHandler = (*Handler)(nil)
