package floor

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/kiwari-pos/floor/internal/enum"
	"github.com/shopspring/decimal"
)

func TestAddMenuItem(t *testing.T) {
	f := newTestFloor(t)
	ctx := context.Background()

	m, err := f.AddMenuItem(ctx, MenuItem{
		Name:      "  Gelato ",
		Price:     decimal.RequireFromString("4.50"),
		Category:  enum.CategoryDesserts,
		Available: true,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if m.ID == uuid.Nil {
		t.Error("id not assigned")
	}
	if m.Name != "Gelato" {
		t.Errorf("name: got %q, want trimmed Gelato", m.Name)
	}
	if _, err := f.MenuItem(m.ID); err != nil {
		t.Errorf("lookup: %v", err)
	}

	tests := []struct {
		name string
		item MenuItem
		want error
	}{
		{"blank name", MenuItem{Name: " ", Category: enum.CategoryDrinks}, ErrNameRequired},
		{"negative price", MenuItem{Name: "Tea", Price: decimal.NewFromInt(-1), Category: enum.CategoryDrinks}, ErrInvalidPrice},
		{"bad category", MenuItem{Name: "Tea", Category: "beverages"}, ErrInvalidCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.AddMenuItem(ctx, tt.item); !errors.Is(err, tt.want) {
				t.Errorf("error: got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUpdateMenuItem_KeepsOrderSnapshots(t *testing.T) {
	f := newTestFloor(t)
	o := f.mustOrder(t, 1, 2, f.line("Pasta", 2))

	pasta := f.items["Pasta"]
	pasta.Price = decimal.RequireFromString("12.00")
	updated, err := f.UpdateMenuItem(context.Background(), pasta)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Price.Equal(decimal.NewFromInt(12)) {
		t.Errorf("catalog price: got %s, want 12", updated.Price)
	}

	got := f.mustGetOrder(t, o.ID)
	if !got.Items[0].Price.Equal(decimal.NewFromInt(10)) {
		t.Errorf("order line price: got %s, want snapshot 10", got.Items[0].Price)
	}
	if !got.TotalAmount.Equal(decimal.NewFromInt(20)) {
		t.Errorf("total_amount: got %s, want 20", got.TotalAmount)
	}

	if _, err := f.UpdateMenuItem(context.Background(), MenuItem{ID: uuid.New(), Name: "x", Category: enum.CategorySides}); !errors.Is(err, ErrMenuItemNotFound) {
		t.Errorf("unknown item: got %v, want ErrMenuItemNotFound", err)
	}
}

func TestDeleteMenuItem(t *testing.T) {
	f := newTestFloor(t)
	ctx := context.Background()
	id := f.items["Salad"].ID

	if err := f.DeleteMenuItem(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.MenuItem(id); !errors.Is(err, ErrMenuItemNotFound) {
		t.Errorf("lookup after delete: got %v, want ErrMenuItemNotFound", err)
	}
	if err := f.DeleteMenuItem(ctx, id); !errors.Is(err, ErrMenuItemNotFound) {
		t.Errorf("second delete: got %v, want ErrMenuItemNotFound", err)
	}
	if _, err := f.CreateOrUpdateOrder(ctx, CreateOrder{TableID: 1, PeopleCount: 1, Items: []ItemInput{{MenuItemID: id, Quantity: 1}}}); !errors.Is(err, ErrMenuItemNotFound) {
		t.Errorf("ordering deleted item: got %v, want ErrMenuItemNotFound", err)
	}
}

func TestMenuItems_FilterByCategory(t *testing.T) {
	f := newTestFloor(t)

	if n := len(f.MenuItems(nil)); n != 4 {
		t.Errorf("all items: got %d, want 4", n)
	}
	drinks := enum.CategoryDrinks
	got := f.MenuItems(&drinks)
	if len(got) != 1 || got[0].Name != "Cola" {
		t.Errorf("drinks: got %+v", got)
	}
	desserts := enum.CategoryDesserts
	if got := f.MenuItems(&desserts); len(got) != 0 {
		t.Errorf("desserts: got %d, want 0", len(got))
	}
}

func TestDemoMenu(t *testing.T) {
	menu := DemoMenu(uuid.New)
	seen := make(map[enum.MenuCategory]bool)
	for _, m := range menu {
		if err := validateMenuItem(&m); err != nil {
			t.Errorf("%s: %v", m.Name, err)
		}
		seen[m.Category] = true
	}
	for _, c := range enum.MenuCategories {
		if !seen[c] {
			t.Errorf("demo menu has no %s", c)
		}
	}
}
