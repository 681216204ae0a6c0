package floor

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/kiwari-pos/floor/internal/enum"
)

type AddMenuItem struct {
	Item MenuItem
}

// UpdateMenuItem replaces a catalog entry. Existing order lines keep their
// snapshot.
type UpdateMenuItem struct {
	Item MenuItem
}

type DeleteMenuItem struct {
	ID uuid.UUID
}

func validateMenuItem(m *MenuItem) error {
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return ErrNameRequired
	}
	if m.Price.IsNegative() {
		return ErrInvalidPrice
	}
	if !m.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, m.Category)
	}
	return nil
}

func menuEvent(m *MenuItem) Event {
	snap := *m
	return Event{
		Type:     enum.EventMenuChanged,
		Displays: []enum.Display{enum.DisplayFloor},
		MenuItem: &snap,
	}
}

func (c AddMenuItem) apply(s *State) (Result, []Event, error) {
	m := c.Item
	if err := validateMenuItem(&m); err != nil {
		return Result{}, nil, err
	}
	if m.ID == uuid.Nil {
		m.ID = s.newID()
	}
	s.menu = append(s.menu, m)
	return Result{MenuItem: &m}, []Event{menuEvent(&m)}, nil
}

func (c UpdateMenuItem) apply(s *State) (Result, []Event, error) {
	m := c.Item
	i, err := s.menuIndex(m.ID)
	if err != nil {
		return Result{}, nil, err
	}
	if err := validateMenuItem(&m); err != nil {
		return Result{}, nil, err
	}
	s.menu[i] = m
	return Result{MenuItem: &m}, []Event{menuEvent(&m)}, nil
}

func (c DeleteMenuItem) apply(s *State) (Result, []Event, error) {
	i, err := s.menuIndex(c.ID)
	if err != nil {
		return Result{}, nil, err
	}
	removed := s.menu[i]
	s.menu = append(s.menu[:i], s.menu[i+1:]...)
	return Result{MenuItem: &removed}, []Event{menuEvent(&removed)}, nil
}

func (s *State) AddMenuItem(ctx context.Context, m MenuItem) (MenuItem, error) {
	res, err := s.Dispatch(ctx, AddMenuItem{Item: m})
	if err != nil {
		return MenuItem{}, err
	}
	return *res.MenuItem, nil
}

func (s *State) UpdateMenuItem(ctx context.Context, m MenuItem) (MenuItem, error) {
	res, err := s.Dispatch(ctx, UpdateMenuItem{Item: m})
	if err != nil {
		return MenuItem{}, err
	}
	return *res.MenuItem, nil
}

func (s *State) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	_, err := s.Dispatch(ctx, DeleteMenuItem{ID: id})
	return err
}

func (s *State) MenuItem(id uuid.UUID) (MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, err := s.menuIndex(id)
	if err != nil {
		return MenuItem{}, err
	}
	return s.menu[i], nil
}

// MenuItems lists the catalog, optionally for a single category.
func (s *State) MenuItems(category *enum.MenuCategory) []MenuItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]MenuItem, 0, len(s.menu))
	for _, m := range s.menu {
		if category != nil && m.Category != *category {
			continue
		}
		out = append(out, m)
	}
	return out
}
