package warehouse

import (
	"context"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/warehouse"
)

// LocationService handles location management operations
type LocationService struct {
	locationRepo   warehouse.LocationRepository
	eventPublisher shared.EventPublisher
}

// NewLocationService creates a new LocationService
func NewLocationService(locationRepo warehouse.LocationRepository) *LocationService {
	return &LocationService{
		locationRepo: locationRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *LocationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new location
func (s *LocationService) Create(ctx context.Context, tenantID uuid.UUID, req CreateLocationRequest) (*LocationResponse, error) {
	exists, err := s.locationRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrAlreadyExists
	}

	category := warehouse.LocationCategory(req.Category)
	maxCapacity := req.MaxCapacity
	if category == warehouse.LocationCategoryHolding {
		// Holding locations stage arbitrary inbound volume
		maxCapacity = 0
	}

	location, err := warehouse.NewLocation(tenantID, req.Code, req.Name, category, maxCapacity)
	if err != nil {
		return nil, err
	}
	if req.Notes != "" {
		location.SetNotes(req.Notes)
	}
	location.SortOrder = req.SortOrder

	if err := s.locationRepo.Save(ctx, location); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, location)

	response := ToLocationResponse(location)
	return &response, nil
}

// GetByID retrieves a location by ID
func (s *LocationService) GetByID(ctx context.Context, tenantID, locationID uuid.UUID) (*LocationResponse, error) {
	location, err := s.locationRepo.FindByIDForTenant(ctx, tenantID, locationID)
	if err != nil {
		return nil, err
	}
	response := ToLocationResponse(location)
	return &response, nil
}

// GetByCode retrieves a location by its code
func (s *LocationService) GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (*LocationResponse, error) {
	location, err := s.locationRepo.FindByCode(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}
	response := ToLocationResponse(location)
	return &response, nil
}

// List retrieves locations with filtering and pagination
func (s *LocationService) List(ctx context.Context, tenantID uuid.UUID, filter LocationListFilter) ([]LocationResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "sort_order"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	locations, err := s.locationRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.locationRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]LocationResponse, 0, len(locations))
	for i := range locations {
		responses = append(responses, ToLocationResponse(&locations[i]))
	}
	return responses, total, nil
}

// ListStorageCandidates returns the active storage locations in candidate
// order, the set the bulk planner walks
func (s *LocationService) ListStorageCandidates(ctx context.Context, tenantID uuid.UUID) ([]LocationResponse, error) {
	locations, err := s.locationRepo.FindActiveStorage(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	responses := make([]LocationResponse, 0, len(locations))
	for i := range locations {
		responses = append(responses, ToLocationResponse(&locations[i]))
	}
	return responses, nil
}

// Update changes a location's settings
func (s *LocationService) Update(ctx context.Context, tenantID, locationID uuid.UUID, req UpdateLocationRequest) (*LocationResponse, error) {
	location, err := s.locationRepo.FindByIDForTenant(ctx, tenantID, locationID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		location.Name = *req.Name
	}
	if req.MaxCapacity != nil {
		if err := location.SetMaxCapacity(*req.MaxCapacity); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		location.SetNotes(*req.Notes)
	}
	if req.SortOrder != nil {
		location.SortOrder = *req.SortOrder
	}

	if err := s.locationRepo.SaveWithLock(ctx, location); err != nil {
		return nil, err
	}

	response := ToLocationResponse(location)
	return &response, nil
}

// Enable activates a location
func (s *LocationService) Enable(ctx context.Context, tenantID, locationID uuid.UUID) (*LocationResponse, error) {
	return s.transition(ctx, tenantID, locationID, (*warehouse.Location).Enable)
}

// Disable deactivates an empty location
func (s *LocationService) Disable(ctx context.Context, tenantID, locationID uuid.UUID) (*LocationResponse, error) {
	return s.transition(ctx, tenantID, locationID, (*warehouse.Location).Disable)
}

func (s *LocationService) transition(ctx context.Context, tenantID, locationID uuid.UUID, fn func(*warehouse.Location) error) (*LocationResponse, error) {
	location, err := s.locationRepo.FindByIDForTenant(ctx, tenantID, locationID)
	if err != nil {
		return nil, err
	}
	if err := fn(location); err != nil {
		return nil, err
	}
	if err := s.locationRepo.SaveWithLock(ctx, location); err != nil {
		return nil, err
	}
	response := ToLocationResponse(location)
	return &response, nil
}

// Delete removes an empty, inactive location
func (s *LocationService) Delete(ctx context.Context, tenantID, locationID uuid.UUID) error {
	location, err := s.locationRepo.FindByIDForTenant(ctx, tenantID, locationID)
	if err != nil {
		return err
	}
	if location.CurrentCapacity > 0 {
		return shared.NewDomainError("LOCATION_OCCUPIED", "Cannot delete a location that still holds stock")
	}
	return s.locationRepo.DeleteForTenant(ctx, tenantID, locationID)
}

func (s *LocationService) publishDomainEvents(ctx context.Context, location *warehouse.Location) {
	if s.eventPublisher == nil {
		return
	}
	events := location.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	location.ClearDomainEvents()
}
