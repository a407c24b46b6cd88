package receiving

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/application/putaway"
	"github.com/wms/backend/internal/domain/receiving"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/warehouse"
)

// Service handles shipment notice business operations: announcing inbound
// stock, receiving it into the holding location and exposing the open lines
// that still wait for putaway.
type Service struct {
	shipmentRepo   receiving.ShipmentRepository
	locationRepo   warehouse.LocationRepository
	txScope        putaway.TransactionScope
	eventPublisher shared.EventPublisher
}

// NewService creates a new receiving Service
func NewService(
	shipmentRepo receiving.ShipmentRepository,
	locationRepo warehouse.LocationRepository,
	txScope putaway.TransactionScope,
) *Service {
	return &Service{
		shipmentRepo: shipmentRepo,
		locationRepo: locationRepo,
		txScope:      txScope,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new pending shipment notice with its lines
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req CreateShipmentRequest) (*ShipmentResponse, error) {
	exists, err := s.shipmentRepo.ExistsByNumber(ctx, tenantID, req.Number)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrAlreadyExists
	}

	holding, err := s.locationRepo.FindByIDForTenant(ctx, tenantID, req.HoldingLocationID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrHoldingLocationMissing
		}
		return nil, err
	}
	if !holding.IsHolding() {
		return nil, shared.ErrWrongLocationCategory
	}

	notice, err := receiving.NewShipmentNotice(tenantID, req.Number, req.SupplierRef, req.HoldingLocationID)
	if err != nil {
		return nil, err
	}
	notice.Notes = req.Notes

	for _, line := range req.Lines {
		if _, err := notice.AddLine(line.ItemID, line.ShippedQuantity, line.CostPrice); err != nil {
			return nil, err
		}
	}

	if err := s.shipmentRepo.Save(ctx, notice); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, notice)

	response := ToShipmentResponse(notice)
	return &response, nil
}

// GetByID retrieves a shipment notice by ID
func (s *Service) GetByID(ctx context.Context, tenantID, shipmentID uuid.UUID) (*ShipmentResponse, error) {
	notice, err := s.shipmentRepo.FindByIDForTenant(ctx, tenantID, shipmentID)
	if err != nil {
		return nil, err
	}
	response := ToShipmentResponse(notice)
	return &response, nil
}

// GetByNumber retrieves a shipment notice by its number
func (s *Service) GetByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*ShipmentResponse, error) {
	notice, err := s.shipmentRepo.FindByNumber(ctx, tenantID, number)
	if err != nil {
		return nil, err
	}
	response := ToShipmentResponse(notice)
	return &response, nil
}

// List retrieves shipment notices with filtering and pagination
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, filter ShipmentListFilter) ([]ShipmentResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	notices, err := s.shipmentRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.shipmentRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ShipmentResponse, 0, len(notices))
	for i := range notices {
		responses = append(responses, ToShipmentResponse(&notices[i]))
	}
	return responses, total, nil
}

// Receive marks a shipment notice as received: the notice transitions to
// RECEIVED, every line's quantity is added to the holding location's
// inventory and the holding occupancy grows accordingly, all in one
// transaction.
func (s *Service) Receive(ctx context.Context, tenantID, shipmentID uuid.UUID) (*ShipmentResponse, error) {
	var (
		response      *ShipmentResponse
		pendingEvents []shared.DomainEvent
	)
	err := s.txScope.Execute(ctx, func(repos putaway.TransactionalRepositories) error {
		// Lock the notice row before validating its state so two concurrent
		// Receive calls cannot both observe PENDING and apply the stock twice.
		notice, err := repos.ShipmentRepo().FindByIDForUpdate(ctx, tenantID, shipmentID)
		if err != nil {
			return err
		}

		holding, err := repos.LocationRepo().FindByIDForUpdate(ctx, tenantID, notice.HoldingLocationID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.ErrHoldingLocationMissing
			}
			return err
		}

		if err := notice.MarkReceived(); err != nil {
			return err
		}

		var total int64
		for i := range notice.Lines {
			line := &notice.Lines[i]
			record, err := repos.RecordRepo().GetOrCreate(ctx, tenantID, line.ItemID, holding.ID)
			if err != nil {
				return err
			}
			if err := record.AddStock(line.ShippedQuantity, line.CostPrice, notice.Number, ""); err != nil {
				return err
			}
			if err := repos.RecordRepo().Save(ctx, record); err != nil {
				return err
			}
			pendingEvents = append(pendingEvents, record.GetDomainEvents()...)
			record.ClearDomainEvents()
			total += line.ShippedQuantity
		}

		if err := holding.ReserveCapacity(total); err != nil {
			return err
		}
		if err := repos.LocationRepo().SaveWithLock(ctx, holding); err != nil {
			return err
		}
		if err := repos.ShipmentRepo().Save(ctx, notice); err != nil {
			return err
		}

		pendingEvents = append(pendingEvents, holding.GetDomainEvents()...)
		holding.ClearDomainEvents()
		pendingEvents = append(pendingEvents, notice.GetDomainEvents()...)
		notice.ClearDomainEvents()

		result := ToShipmentResponse(notice)
		response = &result
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, pendingEvents)

	return response, nil
}

// ListOpenLines returns the lines of a shipment that still have remaining
// quantity waiting at the holding location
func (s *Service) ListOpenLines(ctx context.Context, tenantID, shipmentID uuid.UUID) ([]ShipmentLineResponse, error) {
	notice, err := s.shipmentRepo.FindByIDForTenant(ctx, tenantID, shipmentID)
	if err != nil {
		return nil, err
	}

	open := notice.OpenLines()
	responses := make([]ShipmentLineResponse, 0, len(open))
	for i := range open {
		responses = append(responses, ToShipmentLineResponse(&open[i]))
	}
	return responses, nil
}

func (s *Service) publishDomainEvents(ctx context.Context, notice *receiving.ShipmentNotice) {
	if s.eventPublisher == nil {
		return
	}
	events := notice.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	notice.ClearDomainEvents()
}

func (s *Service) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
