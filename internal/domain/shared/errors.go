package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes for the putaway protocol
const (
	CodeNotFound               = "NOT_FOUND"
	CodeInvalidQuantity        = "INVALID_QUANTITY"
	CodeOverPutaway            = "OVER_PUTAWAY"
	CodeWrongLocationCategory  = "WRONG_LOCATION_CATEGORY"
	CodeCapacityExceeded       = "CAPACITY_EXCEEDED"
	CodeInsufficientQuantity   = "INSUFFICIENT_QUANTITY"
	CodeHoldingLocationMissing = "HOLDING_LOCATION_MISSING"
	CodeNoCapacityAvailable    = "NO_CAPACITY_AVAILABLE"
	CodeInternal               = "INTERNAL"
)

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")

	ErrInvalidQuantity        = NewDomainError(CodeInvalidQuantity, "Quantity must be positive")
	ErrOverPutaway            = NewDomainError(CodeOverPutaway, "Quantity exceeds remaining quantity on the shipment line")
	ErrWrongLocationCategory  = NewDomainError(CodeWrongLocationCategory, "Target must be a storage location")
	ErrCapacityExceeded       = NewDomainError(CodeCapacityExceeded, "Location cannot accommodate the requested quantity")
	ErrInsufficientQuantity   = NewDomainError(CodeInsufficientQuantity, "Insufficient quantity at the holding location")
	ErrHoldingLocationMissing = NewDomainError(CodeHoldingLocationMissing, "Shipment has no holding location configured")
	ErrNoCapacityAvailable    = NewDomainError(CodeNoCapacityAvailable, "No storage location has sufficient capacity")
	ErrInternal               = NewDomainError(CodeInternal, "Internal error, please retry")
)
