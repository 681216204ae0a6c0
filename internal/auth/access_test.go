package auth_test

import (
	"testing"

	"github.com/kiwari-pos/floor/internal/auth"
	"github.com/kiwari-pos/floor/internal/enum"
)

func TestCanWatch(t *testing.T) {
	tests := []struct {
		role    string
		display enum.Display
		want    bool
	}{
		{enum.RoleManager, enum.DisplayKitchen, true},
		{enum.RoleWaiter, enum.DisplayFloor, true},
		{enum.RoleWaiter, enum.DisplayKitchen, false},
		{enum.RoleKitchen, enum.DisplayKitchen, true},
		{enum.RoleKitchen, enum.DisplayDrinks, false},
		{enum.RoleBar, enum.DisplayDrinks, true},
		{"GUEST", enum.DisplayFloor, false},
	}
	for _, tt := range tests {
		if got := auth.CanWatch(tt.role, tt.display); got != tt.want {
			t.Errorf("CanWatch(%s, %s): got %v, want %v", tt.role, tt.display, got, tt.want)
		}
	}
}
