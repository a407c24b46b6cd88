package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
)

// QueryService exposes read access to inventory records. All stock movement
// goes through the putaway and receiving services; this service never mutates.
type QueryService struct {
	recordRepo inventory.RecordRepository
}

// NewQueryService creates a new QueryService
func NewQueryService(recordRepo inventory.RecordRepository) *QueryService {
	return &QueryService{recordRepo: recordRepo}
}

// GetByID retrieves a single record
func (s *QueryService) GetByID(ctx context.Context, tenantID, recordID uuid.UUID) (*RecordResponse, error) {
	record, err := s.recordRepo.FindByIDForTenant(ctx, tenantID, recordID)
	if err != nil {
		return nil, err
	}
	response := ToRecordResponse(record)
	return &response, nil
}

// GetByItemAndLocation retrieves the record for an item-location pair
func (s *QueryService) GetByItemAndLocation(ctx context.Context, tenantID, itemID, locationID uuid.UUID) (*RecordResponse, error) {
	record, err := s.recordRepo.FindByItemAndLocation(ctx, tenantID, itemID, locationID)
	if err != nil {
		return nil, err
	}
	response := ToRecordResponse(record)
	return &response, nil
}

// List retrieves records with filtering and pagination
func (s *QueryService) List(ctx context.Context, tenantID uuid.UUID, filter RecordListFilter) ([]RecordResponse, int64, error) {
	domainFilter := s.toDomainFilter(filter)

	records, err := s.recordRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.recordRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToRecordResponses(records), total, nil
}

// SummarizeLocation lists a location's records together with the summed
// on-hand quantity, which by the capacity invariant equals the location's
// occupancy.
func (s *QueryService) SummarizeLocation(ctx context.Context, tenantID, locationID uuid.UUID, filter RecordListFilter) (*LocationStockSummary, error) {
	records, err := s.recordRepo.FindByLocation(ctx, tenantID, locationID, s.toDomainFilter(filter))
	if err != nil {
		return nil, err
	}

	total, err := s.recordRepo.SumQuantityByLocation(ctx, tenantID, locationID)
	if err != nil {
		return nil, err
	}

	return &LocationStockSummary{
		LocationID:    locationID,
		TotalQuantity: total,
		RecordCount:   len(records),
		Records:       ToRecordResponses(records),
	}, nil
}

// SummarizeItem lists everywhere an item is stored and its total quantity
func (s *QueryService) SummarizeItem(ctx context.Context, tenantID, itemID uuid.UUID, filter RecordListFilter) (*ItemStockSummary, error) {
	records, err := s.recordRepo.FindByItem(ctx, tenantID, itemID, s.toDomainFilter(filter))
	if err != nil {
		return nil, err
	}

	var total int64
	for i := range records {
		total += records[i].Quantity
	}

	return &ItemStockSummary{
		ItemID:        itemID,
		TotalQuantity: total,
		LocationCount: len(records),
		Records:       ToRecordResponses(records),
	}, nil
}

func (s *QueryService) toDomainFilter(filter RecordListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "updated_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.HasStock {
		domainFilter.Filters["has_stock"] = true
	}
	return domainFilter
}
