package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
)

type mockRecordRepository struct {
	mock.Mock
}

func (m *mockRecordRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.InventoryRecord, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryRecord), args.Error(1)
}

func (m *mockRecordRepository) FindByItemAndLocation(ctx context.Context, tenantID, itemID, locationID uuid.UUID) (*inventory.InventoryRecord, error) {
	args := m.Called(ctx, tenantID, itemID, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryRecord), args.Error(1)
}

func (m *mockRecordRepository) FindByItemAndLocationForUpdate(ctx context.Context, tenantID, itemID, locationID uuid.UUID) (*inventory.InventoryRecord, error) {
	args := m.Called(ctx, tenantID, itemID, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryRecord), args.Error(1)
}

func (m *mockRecordRepository) FindByLocation(ctx context.Context, tenantID, locationID uuid.UUID, filter shared.Filter) ([]inventory.InventoryRecord, error) {
	args := m.Called(ctx, tenantID, locationID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.InventoryRecord), args.Error(1)
}

func (m *mockRecordRepository) FindByItem(ctx context.Context, tenantID, itemID uuid.UUID, filter shared.Filter) ([]inventory.InventoryRecord, error) {
	args := m.Called(ctx, tenantID, itemID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.InventoryRecord), args.Error(1)
}

func (m *mockRecordRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.InventoryRecord, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.InventoryRecord), args.Error(1)
}

func (m *mockRecordRepository) GetOrCreate(ctx context.Context, tenantID, itemID, locationID uuid.UUID) (*inventory.InventoryRecord, error) {
	args := m.Called(ctx, tenantID, itemID, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryRecord), args.Error(1)
}

func (m *mockRecordRepository) Save(ctx context.Context, record *inventory.InventoryRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockRecordRepository) SaveWithLock(ctx context.Context, record *inventory.InventoryRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockRecordRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRecordRepository) SumQuantityByLocation(ctx context.Context, tenantID, locationID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, locationID)
	return args.Get(0).(int64), args.Error(1)
}

var _ inventory.RecordRepository = (*mockRecordRepository)(nil)

func newRecordWithStock(t *testing.T, tenantID uuid.UUID, qty int64) *inventory.InventoryRecord {
	t.Helper()
	record, err := inventory.NewInventoryRecord(tenantID, uuid.New(), uuid.New())
	require.NoError(t, err)
	if qty > 0 {
		require.NoError(t, record.AddStock(qty, record.CostPrice, "ASN-1", ""))
	}
	return record
}

func TestQueryService_GetByID(t *testing.T) {
	t.Run("returns record", func(t *testing.T) {
		repo := new(mockRecordRepository)
		service := NewQueryService(repo)
		tenantID := uuid.New()
		record := newRecordWithStock(t, tenantID, 40)

		repo.On("FindByIDForTenant", mock.Anything, tenantID, record.ID).Return(record, nil)

		resp, err := service.GetByID(context.Background(), tenantID, record.ID)

		require.NoError(t, err)
		assert.Equal(t, record.ID, resp.ID)
		assert.Equal(t, int64(40), resp.Quantity)
		assert.Equal(t, string(inventory.RecordStatusAvailable), resp.Status)
	})

	t.Run("propagates not found", func(t *testing.T) {
		repo := new(mockRecordRepository)
		service := NewQueryService(repo)
		tenantID := uuid.New()

		repo.On("FindByIDForTenant", mock.Anything, tenantID, mock.Anything).Return(nil, shared.ErrNotFound)

		_, err := service.GetByID(context.Background(), tenantID, uuid.New())

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestQueryService_List(t *testing.T) {
	t.Run("applies filter defaults", func(t *testing.T) {
		repo := new(mockRecordRepository)
		service := NewQueryService(repo)
		tenantID := uuid.New()
		record := newRecordWithStock(t, tenantID, 10)

		var captured shared.Filter
		repo.On("FindAllForTenant", mock.Anything, tenantID, mock.Anything).
			Run(func(args mock.Arguments) {
				captured = args.Get(2).(shared.Filter)
			}).
			Return([]inventory.InventoryRecord{*record}, nil)
		repo.On("CountForTenant", mock.Anything, tenantID, mock.Anything).Return(int64(1), nil)

		responses, total, err := service.List(context.Background(), tenantID, RecordListFilter{})

		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, responses, 1)
		assert.Equal(t, 1, captured.Page)
		assert.Equal(t, 20, captured.PageSize)
		assert.Equal(t, "updated_at", captured.OrderBy)
	})

	t.Run("passes status and stock filters through", func(t *testing.T) {
		repo := new(mockRecordRepository)
		service := NewQueryService(repo)
		tenantID := uuid.New()

		var captured shared.Filter
		repo.On("FindAllForTenant", mock.Anything, tenantID, mock.Anything).
			Run(func(args mock.Arguments) {
				captured = args.Get(2).(shared.Filter)
			}).
			Return([]inventory.InventoryRecord{}, nil)
		repo.On("CountForTenant", mock.Anything, tenantID, mock.Anything).Return(int64(0), nil)

		_, _, err := service.List(context.Background(), tenantID, RecordListFilter{
			Status:   string(inventory.RecordStatusAvailable),
			HasStock: true,
		})

		require.NoError(t, err)
		assert.Equal(t, string(inventory.RecordStatusAvailable), captured.Filters["status"])
		assert.Equal(t, true, captured.Filters["has_stock"])
	})
}

func TestQueryService_SummarizeLocation(t *testing.T) {
	repo := new(mockRecordRepository)
	service := NewQueryService(repo)
	tenantID := uuid.New()
	locationID := uuid.New()

	recordA := newRecordWithStock(t, tenantID, 30)
	recordB := newRecordWithStock(t, tenantID, 25)

	repo.On("FindByLocation", mock.Anything, tenantID, locationID, mock.Anything).
		Return([]inventory.InventoryRecord{*recordA, *recordB}, nil)
	repo.On("SumQuantityByLocation", mock.Anything, tenantID, locationID).Return(int64(55), nil)

	summary, err := service.SummarizeLocation(context.Background(), tenantID, locationID, RecordListFilter{})

	require.NoError(t, err)
	assert.Equal(t, int64(55), summary.TotalQuantity)
	assert.Equal(t, 2, summary.RecordCount)
	assert.Len(t, summary.Records, 2)
}

func TestQueryService_SummarizeItem(t *testing.T) {
	repo := new(mockRecordRepository)
	service := NewQueryService(repo)
	tenantID := uuid.New()
	itemID := uuid.New()

	recordA := newRecordWithStock(t, tenantID, 12)
	recordB := newRecordWithStock(t, tenantID, 8)

	repo.On("FindByItem", mock.Anything, tenantID, itemID, mock.Anything).
		Return([]inventory.InventoryRecord{*recordA, *recordB}, nil)

	summary, err := service.SummarizeItem(context.Background(), tenantID, itemID, RecordListFilter{})

	require.NoError(t, err)
	assert.Equal(t, int64(20), summary.TotalQuantity)
	assert.Equal(t, 2, summary.LocationCount)
}
