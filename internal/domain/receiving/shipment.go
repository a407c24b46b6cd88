package receiving

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// ShipmentStatus represents the status of an inbound shipment notice
type ShipmentStatus string

const (
	// ShipmentStatusPending means the notice is announced but not yet arrived
	ShipmentStatusPending ShipmentStatus = "PENDING"
	// ShipmentStatusReceived means stock has arrived at the holding location
	ShipmentStatusReceived ShipmentStatus = "RECEIVED"
	// ShipmentStatusCompleted means every line has been fully put away
	ShipmentStatusCompleted ShipmentStatus = "COMPLETED"
)

// IsValid checks if the status is a valid ShipmentStatus
func (s ShipmentStatus) IsValid() bool {
	switch s {
	case ShipmentStatusPending, ShipmentStatusReceived, ShipmentStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s ShipmentStatus) CanTransitionTo(target ShipmentStatus) bool {
	switch s {
	case ShipmentStatusPending:
		return target == ShipmentStatusReceived
	case ShipmentStatusReceived:
		return target == ShipmentStatusCompleted
	case ShipmentStatusCompleted:
		return false // terminal
	}
	return false
}

// ShipmentLine is one item-quantity entry within an inbound shipment notice.
// ShippedQuantity is fixed at receipt; PutAwayQuantity only ever grows, and
// never past ShippedQuantity.
type ShipmentLine struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	ShipmentID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID          uuid.UUID       `gorm:"type:uuid;not null"`
	ShippedQuantity int64           `gorm:"not null"`
	PutAwayQuantity int64           `gorm:"not null;default:0"`
	CostPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ShipmentLine) TableName() string {
	return "shipment_lines"
}

// NewShipmentLine creates a new shipment line
func NewShipmentLine(shipmentID, itemID uuid.UUID, shippedQuantity int64, costPrice decimal.Decimal) (*ShipmentLine, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if shippedQuantity <= 0 {
		return nil, shared.ErrInvalidQuantity
	}
	if costPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Cost price cannot be negative")
	}

	now := time.Now()
	return &ShipmentLine{
		ID:              uuid.New(),
		ShipmentID:      shipmentID,
		ItemID:          itemID,
		ShippedQuantity: shippedQuantity,
		PutAwayQuantity: 0,
		CostPrice:       costPrice,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Remaining returns the quantity still waiting at the holding location
func (l *ShipmentLine) Remaining() int64 {
	return l.ShippedQuantity - l.PutAwayQuantity
}

// IsCompleted returns true once the line has been fully put away
func (l *ShipmentLine) IsCompleted() bool {
	return l.Remaining() == 0
}

// ApplyPutaway advances the put-away counter. It has a side effect and must
// be invoked exactly once per committed putaway operation.
func (l *ShipmentLine) ApplyPutaway(qty int64) error {
	if qty <= 0 {
		return shared.ErrInvalidQuantity
	}
	if qty > l.Remaining() {
		return shared.ErrOverPutaway
	}

	l.PutAwayQuantity += qty
	l.UpdatedAt = time.Now()

	return nil
}

// ShipmentNotice is the aggregate root for an inbound shipment: a numbered
// notice, a holding location where arriving stock is staged, and its lines.
type ShipmentNotice struct {
	shared.TenantAggregateRoot
	Number            string         `gorm:"type:varchar(50);not null;uniqueIndex:idx_shipment_tenant_number,priority:2"`
	SupplierRef       string         `gorm:"type:varchar(100)"`
	HoldingLocationID uuid.UUID      `gorm:"type:uuid"` // uuid.Nil when not configured
	Status            ShipmentStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	ReceivedAt        *time.Time
	Notes             string         `gorm:"type:text"`
	Lines             []ShipmentLine `gorm:"foreignKey:ShipmentID;references:ID"`
}

// TableName returns the table name for GORM
func (ShipmentNotice) TableName() string {
	return "shipment_notices"
}

// NewShipmentNotice creates a new pending shipment notice
func NewShipmentNotice(tenantID uuid.UUID, number, supplierRef string, holdingLocationID uuid.UUID) (*ShipmentNotice, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Shipment number cannot be empty")
	}
	if len(number) > 50 {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Shipment number cannot exceed 50 characters")
	}

	notice := &ShipmentNotice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		SupplierRef:         supplierRef,
		HoldingLocationID:   holdingLocationID,
		Status:              ShipmentStatusPending,
		Lines:               make([]ShipmentLine, 0),
	}

	notice.AddDomainEvent(NewShipmentCreatedEvent(notice))

	return notice, nil
}

// AddLine appends a line to a pending notice
func (s *ShipmentNotice) AddLine(itemID uuid.UUID, shippedQuantity int64, costPrice decimal.Decimal) (*ShipmentLine, error) {
	if s.Status != ShipmentStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Lines can only be added to a pending shipment")
	}

	line, err := NewShipmentLine(s.ID, itemID, shippedQuantity, costPrice)
	if err != nil {
		return nil, err
	}

	s.Lines = append(s.Lines, *line)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return line, nil
}

// HasHoldingLocation returns true if a staging location is configured
func (s *ShipmentNotice) HasHoldingLocation() bool {
	return s.HoldingLocationID != uuid.Nil
}

// MarkReceived transitions the notice to RECEIVED once stock has arrived at
// the holding location
func (s *ShipmentNotice) MarkReceived() error {
	if !s.Status.CanTransitionTo(ShipmentStatusReceived) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot receive a shipment in status %s", s.Status))
	}
	if len(s.Lines) == 0 {
		return shared.NewDomainError("INVALID_STATE", "Cannot receive a shipment with no lines")
	}
	if !s.HasHoldingLocation() {
		return shared.ErrHoldingLocationMissing
	}

	now := time.Now()
	s.Status = ShipmentStatusReceived
	s.ReceivedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()

	s.AddDomainEvent(NewShipmentReceivedEvent(s))

	return nil
}

// FindLine returns the line with the given ID, or nil
func (s *ShipmentNotice) FindLine(lineID uuid.UUID) *ShipmentLine {
	for i := range s.Lines {
		if s.Lines[i].ID == lineID {
			return &s.Lines[i]
		}
	}
	return nil
}

// OpenLines returns the lines with remaining quantity, in input order
func (s *ShipmentNotice) OpenLines() []ShipmentLine {
	open := make([]ShipmentLine, 0)
	for _, line := range s.Lines {
		if line.Remaining() > 0 {
			open = append(open, line)
		}
	}
	return open
}

// ApplyPutaway advances the put-away counter of one line and completes the
// notice when every line reaches zero remaining.
func (s *ShipmentNotice) ApplyPutaway(lineID uuid.UUID, qty int64) (*ShipmentLine, error) {
	if s.Status != ShipmentStatusReceived {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot put away from a shipment in status %s", s.Status))
	}

	line := s.FindLine(lineID)
	if line == nil {
		return nil, shared.ErrNotFound
	}

	if err := line.ApplyPutaway(qty); err != nil {
		return nil, err
	}

	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewLinePutAwayEvent(s, line, qty))

	if s.allLinesCompleted() {
		s.Status = ShipmentStatusCompleted
		s.AddDomainEvent(NewShipmentCompletedEvent(s))
	}

	return line, nil
}

// IsCompleted returns true once every line has been fully put away
func (s *ShipmentNotice) IsCompleted() bool {
	return s.Status == ShipmentStatusCompleted
}

func (s *ShipmentNotice) allLinesCompleted() bool {
	for i := range s.Lines {
		if !s.Lines[i].IsCompleted() {
			return false
		}
	}
	return true
}
