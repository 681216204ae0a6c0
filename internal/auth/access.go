package auth

import "github.com/kiwari-pos/floor/internal/enum"

// watchable lists the displays each staff role may work on.
// Managers can use every screen.
var watchable = map[string][]enum.Display{
	enum.RoleWaiter:  {enum.DisplayFloor},
	enum.RoleKitchen: {enum.DisplayKitchen, enum.DisplayFloor},
	enum.RoleBar:     {enum.DisplayDrinks, enum.DisplayFloor},
}

// CanWatch reports whether role may subscribe to or acknowledge display.
func CanWatch(role string, display enum.Display) bool {
	if role == enum.RoleManager {
		return true
	}
	for _, d := range watchable[role] {
		if d == display {
			return true
		}
	}
	return false
}
