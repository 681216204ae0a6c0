package floor

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/kiwari-pos/floor/internal/enum"
	"github.com/shopspring/decimal"
)

type demoItem struct {
	name        string
	description string
	price       string
	category    enum.MenuCategory
}

var demoMenu = []demoItem{
	{"Bruschetta", "Grilled bread, tomato, basil", "6.50", enum.CategoryAppetizers},
	{"Calamari", "Fried squid with lemon aioli", "8.90", enum.CategoryAppetizers},
	{"Soup of the Day", "Ask your waiter", "5.50", enum.CategoryAppetizers},
	{"Ribeye Steak", "300g, pepper sauce", "24.00", enum.CategoryMainDishes},
	{"Grilled Salmon", "Lemon butter, seasonal greens", "19.50", enum.CategoryMainDishes},
	{"Mushroom Risotto", "Arborio, parmesan, truffle oil", "15.00", enum.CategoryMainDishes},
	{"Chicken Burger", "Brioche bun, slaw", "13.50", enum.CategoryMainDishes},
	{"French Fries", "", "3.50", enum.CategorySides},
	{"Side Salad", "Mixed leaves, vinaigrette", "4.00", enum.CategorySides},
	{"Tiramisu", "", "6.00", enum.CategoryDesserts},
	{"Cheesecake", "Berry compote", "6.50", enum.CategoryDesserts},
	{"Espresso", "", "2.20", enum.CategoryDrinks},
	{"Lemonade", "House made", "3.50", enum.CategoryDrinks},
	{"House Red", "Glass, 150ml", "6.00", enum.CategoryDrinks},
	{"Sparkling Water", "500ml", "2.80", enum.CategoryDrinks},
}

// DemoMenu returns the mock catalog the server starts with.
func DemoMenu(newID func() uuid.UUID) []MenuItem {
	items := make([]MenuItem, len(demoMenu))
	for i, d := range demoMenu {
		items[i] = MenuItem{
			ID:          newID(),
			Name:        d.name,
			Description: d.description,
			Price:       decimal.RequireFromString(d.price),
			Category:    d.category,
			Available:   true,
		}
	}
	return items
}

// DemoTables returns n free tables numbered from 1. Capacities cycle through
// twos, fours and sixes.
func DemoTables(n int) []Table {
	capacities := []int{2, 4, 4, 6}
	tables := make([]Table, n)
	for i := range tables {
		tables[i] = Table{
			ID:       i + 1,
			Name:     fmt.Sprintf("Table %d", i+1),
			Capacity: capacities[i%len(capacities)],
		}
	}
	return tables
}
