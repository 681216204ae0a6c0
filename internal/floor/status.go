package floor

import (
	"fmt"

	"github.com/kiwari-pos/floor/internal/enum"
)

// allowedTransitions defines valid explicit status changes.
// Key is current status, value is the set of statuses it can move to.
// Delivered and canceled are terminal.
var allowedTransitions = map[enum.OrderStatus][]enum.OrderStatus{
	enum.OrderStatusPending:   {enum.OrderStatusPreparing, enum.OrderStatusCanceled},
	enum.OrderStatusPreparing: {enum.OrderStatusReady, enum.OrderStatusCanceled},
	enum.OrderStatusReady:     {enum.OrderStatusDelivered, enum.OrderStatusCanceled},
}

// validateStatusTransition checks if the transition from current to next is allowed.
func validateStatusTransition(current, next enum.OrderStatus) error {
	if !next.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, next)
	}
	allowed, ok := allowedTransitions[current]
	if !ok {
		return fmt.Errorf("%w: cannot transition from %s", ErrInvalidTransition, current)
	}
	for _, s := range allowed {
		if s == next {
			return nil
		}
	}
	return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidTransition, current, next)
}

// CanTransition reports whether an explicit status change is allowed.
func CanTransition(current, next enum.OrderStatus) bool {
	return validateStatusTransition(current, next) == nil
}

// promote applies the auto-promotion rule after an item completion toggle.
// All lines done moves the order to ready unless it is already there or past
// it. Otherwise a pending order moves to preparing. Nothing is ever demoted,
// so uncompleting a line leaves a preparing order where it is.
func promote(o *Order) bool {
	before := o.Status
	switch {
	case o.allCompleted() && o.Status.Rank() < enum.OrderStatusReady.Rank():
		o.Status = enum.OrderStatusReady
	case o.Status == enum.OrderStatusPending:
		o.Status = enum.OrderStatusPreparing
	}
	return o.Status != before
}
