package putaway

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/receiving"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/warehouse"
	"github.com/wms/backend/internal/infrastructure/telemetry"
)

// Service coordinates putaway operations: moving received quantity from a
// shipment's holding location into storage locations, with all inventory,
// capacity and line-counter changes committed as one unit.
type Service struct {
	shipmentRepo   receiving.ShipmentRepository
	locationRepo   warehouse.LocationRepository
	recordRepo     inventory.RecordRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	driftCheck     bool
	autoMaxLines   int
}

// ServiceOption is a functional option for Service configuration
type ServiceOption func(*Service)

// WithDriftCheck enables the post-putaway occupancy drift check
func WithDriftCheck(enabled bool) ServiceOption {
	return func(s *Service) {
		s.driftCheck = enabled
	}
}

// WithAutoMaxLines caps the number of lines one auto-putaway call processes.
// Zero means unlimited.
func WithAutoMaxLines(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.autoMaxLines = n
		}
	}
}

// NewService creates a new putaway Service
func NewService(
	shipmentRepo receiving.ShipmentRepository,
	locationRepo warehouse.LocationRepository,
	recordRepo inventory.RecordRepository,
	txScope TransactionScope,
	logger *zap.Logger,
	opts ...ServiceOption,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		shipmentRepo: shipmentRepo,
		locationRepo: locationRepo,
		recordRepo:   recordRepo,
		txScope:      txScope,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Putaway moves quantity from the holding location of a shipment line into a
// storage location. Pre-checks run outside the transaction and are advisory;
// every check is re-run inside the transaction scope against rows re-read
// under row locks, so concurrent calls cannot over-fill a bounded location.
// Precondition failures persist nothing.
func (s *Service) Putaway(ctx context.Context, tenantID uuid.UUID, req PutawayRequest) (*PutawayResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "putaway", "putaway")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrLineID, req.ShipmentLineID.String(),
		telemetry.SpanAttrLocationID, req.TargetLocationID.String(),
		telemetry.SpanAttrQuantity, req.Quantity,
		telemetry.SpanAttrPutawayMode, "manual",
	)

	response, err := s.putawayLine(ctx, tenantID, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetOK(span)
	return response, nil
}

func (s *Service) putawayLine(ctx context.Context, tenantID uuid.UUID, req PutawayRequest) (*PutawayResponse, error) {
	notice, err := s.shipmentRepo.FindByLineID(ctx, tenantID, req.ShipmentLineID)
	if err != nil {
		return nil, err
	}
	line := notice.FindLine(req.ShipmentLineID)
	if line == nil {
		return nil, shared.ErrNotFound
	}

	if req.Quantity <= 0 {
		return nil, shared.ErrInvalidQuantity
	}
	if req.Quantity > line.Remaining() {
		return nil, shared.ErrOverPutaway
	}

	target, err := s.locationRepo.FindByIDForTenant(ctx, tenantID, req.TargetLocationID)
	if err != nil {
		return nil, err
	}
	// An inactive target is indistinguishable from an absent one.
	if !target.IsActive() {
		return nil, shared.ErrNotFound
	}
	if !target.IsStorage() {
		return nil, shared.ErrWrongLocationCategory
	}
	if !target.CanAccommodate(req.Quantity) {
		return nil, shared.ErrCapacityExceeded
	}

	if !notice.HasHoldingLocation() {
		return nil, shared.ErrHoldingLocationMissing
	}
	holdingRecord, err := s.recordRepo.FindByItemAndLocation(ctx, tenantID, line.ItemID, notice.HoldingLocationID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInsufficientQuantity
		}
		return nil, err
	}
	if !holdingRecord.HasQuantity(req.Quantity) {
		return nil, shared.ErrInsufficientQuantity
	}

	var (
		response      *PutawayResponse
		pendingEvents []shared.DomainEvent
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		result, events, txErr := s.executePutaway(ctx, repos, tenantID, req)
		if txErr != nil {
			return txErr
		}
		response = result
		pendingEvents = events
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Publish audit events only after the transaction has committed.
	s.publishEvents(ctx, pendingEvents)

	return response, nil
}

// executePutaway runs the authoritative putaway inside an open transaction.
// Every row it mutates is re-read under the transaction, so the advisory
// pre-checks are repeated here against fresh state.
func (s *Service) executePutaway(
	ctx context.Context,
	repos TransactionalRepositories,
	tenantID uuid.UUID,
	req PutawayRequest,
) (*PutawayResponse, []shared.DomainEvent, error) {
	notice, err := repos.ShipmentRepo().FindByLineIDForUpdate(ctx, tenantID, req.ShipmentLineID)
	if err != nil {
		return nil, nil, err
	}
	line := notice.FindLine(req.ShipmentLineID)
	if line == nil {
		return nil, nil, shared.ErrNotFound
	}
	if !notice.HasHoldingLocation() {
		return nil, nil, shared.ErrHoldingLocationMissing
	}

	target, err := repos.LocationRepo().FindByIDForUpdate(ctx, tenantID, req.TargetLocationID)
	if err != nil {
		return nil, nil, err
	}
	if !target.IsActive() {
		return nil, nil, shared.ErrNotFound
	}
	if !target.IsStorage() {
		return nil, nil, shared.ErrWrongLocationCategory
	}

	holding, err := repos.LocationRepo().FindByIDForUpdate(ctx, tenantID, notice.HoldingLocationID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, shared.ErrHoldingLocationMissing
		}
		return nil, nil, err
	}

	holdingRecord, err := repos.RecordRepo().FindByItemAndLocationForUpdate(ctx, tenantID, line.ItemID, notice.HoldingLocationID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, shared.ErrInsufficientQuantity
		}
		return nil, nil, err
	}

	// Holding rows are transient staging state: drop them once drained.
	if err := holdingRecord.RemoveStock(req.Quantity, inventory.DeleteWhenEmpty); err != nil {
		return nil, nil, err
	}

	targetRecord, err := repos.RecordRepo().GetOrCreate(ctx, tenantID, line.ItemID, req.TargetLocationID)
	if err != nil {
		return nil, nil, err
	}
	if err := targetRecord.AddStock(req.Quantity, line.CostPrice, notice.Number, ""); err != nil {
		return nil, nil, err
	}

	anomaly, err := holding.ReleaseCapacity(req.Quantity)
	if err != nil {
		return nil, nil, err
	}
	if anomaly {
		s.logger.Warn("Capacity release exceeded holding occupancy, floored at zero",
			zap.String("tenant_id", tenantID.String()),
			zap.String("location_id", holding.ID.String()),
			zap.Int64("quantity", req.Quantity))
	}
	if err := target.ReserveCapacity(req.Quantity); err != nil {
		return nil, nil, err
	}

	updatedLine, err := notice.ApplyPutaway(req.ShipmentLineID, req.Quantity)
	if err != nil {
		return nil, nil, err
	}

	if err := repos.RecordRepo().Save(ctx, holdingRecord); err != nil {
		return nil, nil, err
	}
	if err := repos.RecordRepo().Save(ctx, targetRecord); err != nil {
		return nil, nil, err
	}
	if err := repos.LocationRepo().SaveWithLock(ctx, holding); err != nil {
		return nil, nil, err
	}
	if err := repos.LocationRepo().SaveWithLock(ctx, target); err != nil {
		return nil, nil, err
	}
	if err := repos.ShipmentRepo().Save(ctx, notice); err != nil {
		return nil, nil, err
	}

	if s.driftCheck {
		s.checkCapacityDrift(ctx, repos, tenantID, target)
	}

	events := collectEvents(notice, holding, target, holdingRecord, targetRecord)

	return &PutawayResponse{
		ShipmentID:        notice.ID,
		ShipmentLineID:    updatedLine.ID,
		ItemID:            updatedLine.ItemID,
		TargetLocationID:  target.ID,
		Quantity:          req.Quantity,
		PutAwayQuantity:   updatedLine.PutAwayQuantity,
		Remaining:         updatedLine.Remaining(),
		Completed:         updatedLine.IsCompleted(),
		ShipmentCompleted: notice.IsCompleted(),
	}, events, nil
}

// AutoPutaway places every open line of a received shipment using a
// first-fit walk over the active storage locations. Lines that cannot be
// placed are reported, never aborting the batch.
func (s *Service) AutoPutaway(ctx context.Context, tenantID, shipmentID uuid.UUID) (*AutoPutawayResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "putaway", "auto_putaway")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrShipmentID, shipmentID.String(),
		telemetry.SpanAttrPutawayMode, "auto",
	)

	notice, err := s.shipmentRepo.FindByIDForTenant(ctx, tenantID, shipmentID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	response := &AutoPutawayResponse{
		ShipmentID: shipmentID,
		Placements: make([]PutawayResponse, 0),
		Errors:     make([]LineError, 0),
	}

	openLines := notice.OpenLines()
	if s.autoMaxLines > 0 && len(openLines) > s.autoMaxLines {
		s.logger.Info("Auto-putaway line cap reached, remaining lines deferred",
			zap.String("shipment_id", shipmentID.String()),
			zap.Int("open_lines", len(openLines)),
			zap.Int("max_lines", s.autoMaxLines))
		openLines = openLines[:s.autoMaxLines]
	}

	for _, line := range openLines {
		remaining := line.Remaining()

		// Re-query per line: each placement changes the occupancy the next
		// line's fit depends on.
		candidates, err := s.locationRepo.FindActiveStorage(ctx, tenantID)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}

		target := firstFit(candidates, remaining)
		if target == nil {
			response.Errors = append(response.Errors, LineError{
				ShipmentLineID: line.ID,
				ItemID:         line.ItemID,
				Code:           shared.CodeNoCapacityAvailable,
				Message:        shared.ErrNoCapacityAvailable.Message,
			})
			continue
		}

		placement, err := s.putawayLine(ctx, tenantID, PutawayRequest{
			ShipmentLineID:   line.ID,
			TargetLocationID: target.ID,
			Quantity:         remaining,
		})
		if err != nil {
			response.Errors = append(response.Errors, toLineError(line, err))
			continue
		}

		response.Placements = append(response.Placements, *placement)
		response.ProcessedCount++
	}

	response.Success = response.ProcessedCount > 0
	telemetry.SetOK(span)

	return response, nil
}

// firstFit returns the first candidate that can hold qty, or nil
func firstFit(candidates []warehouse.Location, qty int64) *warehouse.Location {
	for i := range candidates {
		if candidates[i].CanAccommodate(qty) {
			return &candidates[i]
		}
	}
	return nil
}

func toLineError(line receiving.ShipmentLine, err error) LineError {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return LineError{
			ShipmentLineID: line.ID,
			ItemID:         line.ItemID,
			Code:           domainErr.Code,
			Message:        domainErr.Message,
		}
	}
	return LineError{
		ShipmentLineID: line.ID,
		ItemID:         line.ItemID,
		Code:           shared.CodeInternal,
		Message:        shared.ErrInternal.Message,
	}
}

// checkCapacityDrift recomputes the target location's occupancy from the
// inventory rows inside the same transaction and logs a warning on drift.
// Drift is observable, never corrected silently.
func (s *Service) checkCapacityDrift(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, target *warehouse.Location) {
	sum, err := repos.RecordRepo().SumQuantityByLocation(ctx, tenantID, target.ID)
	if err != nil {
		return
	}
	if sum != target.CurrentCapacity {
		s.logger.Warn("Location occupancy drifted from inventory records",
			zap.String("tenant_id", tenantID.String()),
			zap.String("location_id", target.ID.String()),
			zap.Int64("current_capacity", target.CurrentCapacity),
			zap.Int64("inventory_sum", sum))
	}
}

type eventSource interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

func collectEvents(sources ...eventSource) []shared.DomainEvent {
	var events []shared.DomainEvent
	for _, source := range sources {
		events = append(events, source.GetDomainEvents()...)
		source.ClearDomainEvents()
	}
	return events
}

// publishEvents publishes domain events fire-and-forget. Failures are logged
// by the event bus, not propagated to the caller.
func (s *Service) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
