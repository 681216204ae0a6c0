package enum

// ── Group A: State machines ──

// OrderStatus is the workflow position of an order on the floor.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCanceled  OrderStatus = "canceled"
)

// OrderStatuses lists every order status in workflow order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusDelivered,
	OrderStatusCanceled,
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady,
		OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

// Terminal reports whether no further workflow transition is possible.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCanceled
}

// Rank orders the forward workflow. Canceled ranks above everything so
// auto-promotion never touches it.
func (s OrderStatus) Rank() int {
	switch s {
	case OrderStatusPending:
		return 0
	case OrderStatusPreparing:
		return 1
	case OrderStatusReady:
		return 2
	case OrderStatusDelivered:
		return 3
	case OrderStatusCanceled:
		return 4
	}
	return -1
}

// ── Group B: Catalog labels ──

// MenuCategory groups menu items on the menu and routes lines to displays.
type MenuCategory string

const (
	CategoryAppetizers MenuCategory = "appetizers"
	CategoryMainDishes MenuCategory = "main_dishes"
	CategoryDesserts   MenuCategory = "desserts"
	CategoryDrinks     MenuCategory = "drinks"
	CategorySides      MenuCategory = "sides"
)

// MenuCategories lists the categories in menu display order.
var MenuCategories = []MenuCategory{
	CategoryAppetizers,
	CategoryMainDishes,
	CategorySides,
	CategoryDesserts,
	CategoryDrinks,
}

func (c MenuCategory) Valid() bool {
	switch c {
	case CategoryAppetizers, CategoryMainDishes, CategoryDesserts,
		CategoryDrinks, CategorySides:
		return true
	}
	return false
}

// Display returns the screen that prepares items of this category.
func (c MenuCategory) Display() Display {
	if c == CategoryDrinks {
		return DisplayDrinks
	}
	return DisplayKitchen
}

// ── Group C: Screens and staff ──

// Display is a consumer screen subscribed to ledger events.
type Display string

const (
	DisplayKitchen Display = "kitchen"
	DisplayDrinks  Display = "drinks"
	DisplayFloor   Display = "floor"
)

func (d Display) Valid() bool {
	switch d {
	case DisplayKitchen, DisplayDrinks, DisplayFloor:
		return true
	}
	return false
}

const (
	RoleManager = "MANAGER"
	RoleWaiter  = "WAITER"
	RoleKitchen = "KITCHEN"
	RoleBar     = "BAR"
)

// ── Group D: Event types pushed to displays ──

const (
	EventOrderCreated    = "order.created"
	EventOrderUpdated    = "order.updated"
	EventOrderStatus     = "order.status_changed"
	EventItemCompletion  = "order.item_completion"
	EventOrderDelayed    = "order.delayed"
	EventItemCanceled    = "order.item_canceled"
	EventOrderPaid       = "order.paid"
	EventTableUpdated    = "table.updated"
	EventTableReset      = "table.reset"
	EventMenuChanged     = "menu.changed"
	EventSettingsChanged = "settings.changed"
)
