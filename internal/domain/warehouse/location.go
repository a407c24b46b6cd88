package warehouse

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// LocationCategory represents the role of a location within the warehouse
type LocationCategory string

const (
	// LocationCategoryStorage is a permanent storage location, the only valid putaway target
	LocationCategoryStorage LocationCategory = "storage"
	// LocationCategoryHolding is a transient staging area where received stock waits for putaway
	LocationCategoryHolding LocationCategory = "holding"
)

// IsValid checks if the category is a valid LocationCategory
func (c LocationCategory) IsValid() bool {
	return c == LocationCategoryStorage || c == LocationCategoryHolding
}

// LocationStatus represents the status of a location
type LocationStatus string

const (
	LocationStatusActive   LocationStatus = "active"
	LocationStatusInactive LocationStatus = "inactive"
)

// Location represents a single storage or holding location in the warehouse.
// It is the aggregate root for capacity accounting: CurrentCapacity is the
// authoritative running total of occupied units, kept consistent with the
// inventory records stored at the location by every mutation path.
type Location struct {
	shared.TenantAggregateRoot
	Code            string           `gorm:"type:varchar(50);not null;uniqueIndex:idx_location_tenant_code,priority:2"`
	Name            string           `gorm:"type:varchar(200);not null"`
	Category        LocationCategory `gorm:"type:varchar(20);not null;index"`
	Status          LocationStatus   `gorm:"type:varchar(20);not null;default:'active'"`
	MaxCapacity     int64            `gorm:"not null;default:0"` // 0 means unbounded
	CurrentCapacity int64            `gorm:"not null;default:0"`
	Notes           string           `gorm:"type:text"`
	SortOrder       int              `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Location) TableName() string {
	return "locations"
}

// NewLocation creates a new location with required fields
func NewLocation(tenantID uuid.UUID, code, name string, category LocationCategory, maxCapacity int64) (*Location, error) {
	if err := validateLocationCode(code); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Location name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Location name cannot exceed 200 characters")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Invalid location category")
	}
	if maxCapacity < 0 {
		return nil, shared.NewDomainError("INVALID_CAPACITY", "Maximum capacity cannot be negative")
	}

	location := &Location{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		Category:            category,
		Status:              LocationStatusActive,
		MaxCapacity:         maxCapacity,
		CurrentCapacity:     0,
	}

	location.AddDomainEvent(NewLocationCreatedEvent(location))

	return location, nil
}

// NewStorageLocation creates a new storage location
func NewStorageLocation(tenantID uuid.UUID, code, name string, maxCapacity int64) (*Location, error) {
	return NewLocation(tenantID, code, name, LocationCategoryStorage, maxCapacity)
}

// NewHoldingLocation creates a new holding location (staging area, always unbounded)
func NewHoldingLocation(tenantID uuid.UUID, code, name string) (*Location, error) {
	return NewLocation(tenantID, code, name, LocationCategoryHolding, 0)
}

// IsBounded returns true if the location has a capacity limit configured
func (l *Location) IsBounded() bool {
	return l.MaxCapacity > 0
}

// AvailableCapacity returns the remaining capacity in units.
// For unbounded locations the second return value is false and the count is meaningless.
func (l *Location) AvailableCapacity() (int64, bool) {
	if !l.IsBounded() {
		return 0, false
	}
	available := l.MaxCapacity - l.CurrentCapacity
	if available < 0 {
		available = 0
	}
	return available, true
}

// CanAccommodate returns true if the location can take qty additional units
func (l *Location) CanAccommodate(qty int64) bool {
	if qty <= 0 {
		return false
	}
	available, bounded := l.AvailableCapacity()
	if !bounded {
		return true
	}
	return qty <= available
}

// ReserveCapacity admits qty units into the location, enforcing the capacity
// limit for bounded locations. On success CurrentCapacity grows by qty.
func (l *Location) ReserveCapacity(qty int64) error {
	if qty <= 0 {
		return shared.ErrInvalidQuantity
	}
	if !l.CanAccommodate(qty) {
		return shared.ErrCapacityExceeded
	}

	l.CurrentCapacity += qty
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewCapacityReservedEvent(l, qty))

	return nil
}

// ReleaseCapacity removes qty units from the location, flooring the result at
// zero. A floored release indicates a prior bookkeeping inconsistency; the
// returned flag lets the caller log the anomaly without failing the operation.
func (l *Location) ReleaseCapacity(qty int64) (anomaly bool, err error) {
	if qty <= 0 {
		return false, shared.ErrInvalidQuantity
	}

	remaining := l.CurrentCapacity - qty
	if remaining < 0 {
		anomaly = true
		remaining = 0
	}
	l.CurrentCapacity = remaining
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewCapacityReleasedEvent(l, qty, anomaly))

	return anomaly, nil
}

// SetMaxCapacity changes the capacity limit. Shrinking below the current
// occupancy is rejected so the bounded invariant never breaks retroactively.
func (l *Location) SetMaxCapacity(maxCapacity int64) error {
	if maxCapacity < 0 {
		return shared.NewDomainError("INVALID_CAPACITY", "Maximum capacity cannot be negative")
	}
	if maxCapacity > 0 && maxCapacity < l.CurrentCapacity {
		return shared.NewDomainError("INVALID_CAPACITY", "Maximum capacity cannot be below current occupancy")
	}

	l.MaxCapacity = maxCapacity
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// SetNotes sets the location's notes
func (l *Location) SetNotes(notes string) {
	l.Notes = notes
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// Enable makes the location active
func (l *Location) Enable() error {
	if l.Status == LocationStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Location is already active")
	}

	l.Status = LocationStatusActive
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// Disable makes the location inactive. Occupied locations cannot be disabled.
func (l *Location) Disable() error {
	if l.Status == LocationStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Location is already inactive")
	}
	if l.CurrentCapacity > 0 {
		return shared.NewDomainError("LOCATION_OCCUPIED", "Cannot disable a location that still holds stock")
	}

	l.Status = LocationStatusInactive
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// IsActive returns true if the location is active
func (l *Location) IsActive() bool {
	return l.Status == LocationStatusActive
}

// IsStorage returns true if the location is a storage location
func (l *Location) IsStorage() bool {
	return l.Category == LocationCategoryStorage
}

// IsHolding returns true if the location is a holding location
func (l *Location) IsHolding() bool {
	return l.Category == LocationCategoryHolding
}

func validateLocationCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Location code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Location code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Location code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}
