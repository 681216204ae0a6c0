package floor

import "errors"

// Lookup failures.
var (
	ErrTableNotFound     = errors.New("table not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrMenuItemNotFound  = errors.New("menu item not found")
	ErrOrderItemNotFound = errors.New("order item not found")
	ErrPrinterNotFound   = errors.New("printer not found")
)

// Operations rejected by the current state.
var (
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrTableOccupied       = errors.New("table is occupied")
	ErrOrderClosed         = errors.New("order is delivered or canceled")
	ErrNoPayableOrder      = errors.New("no unpaid active order for table")
	ErrVersionConflict     = errors.New("order was modified by another device")
	ErrMenuItemUnavailable = errors.New("menu item is unavailable")
	ErrDuplicateTable      = errors.New("table already exists")
)

// Input validation failures.
var (
	ErrPeopleCountRequired = errors.New("people count is required")
	ErrInvalidPeopleCount  = errors.New("people count must be >= 0")
	ErrInvalidQuantity     = errors.New("quantity must be > 0")
	ErrInvalidPrice        = errors.New("price must be >= 0")
	ErrInvalidCategory     = errors.New("invalid menu category")
	ErrInvalidStatus       = errors.New("invalid order status")
	ErrInvalidDisplay      = errors.New("invalid display")
	ErrInvalidCapacity     = errors.New("capacity must be >= 0")
	ErrInvalidTableID      = errors.New("table id must be > 0")
	ErrNameRequired        = errors.New("name is required")
)

// IsNotFound reports whether err refers to an unknown id.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTableNotFound) ||
		errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrMenuItemNotFound) ||
		errors.Is(err, ErrOrderItemNotFound) ||
		errors.Is(err, ErrPrinterNotFound)
}

// IsInvalidState reports whether err was caused by the current floor state
// rather than by the request itself.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrTableOccupied) ||
		errors.Is(err, ErrOrderClosed) ||
		errors.Is(err, ErrNoPayableOrder) ||
		errors.Is(err, ErrVersionConflict) ||
		errors.Is(err, ErrMenuItemUnavailable) ||
		errors.Is(err, ErrDuplicateTable)
}

// IsValidation reports whether err is a malformed input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrPeopleCountRequired) ||
		errors.Is(err, ErrInvalidPeopleCount) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidPrice) ||
		errors.Is(err, ErrInvalidCategory) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidDisplay) ||
		errors.Is(err, ErrInvalidCapacity) ||
		errors.Is(err, ErrInvalidTableID) ||
		errors.Is(err, ErrNameRequired)
}
