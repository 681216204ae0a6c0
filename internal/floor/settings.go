package floor

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/kiwari-pos/floor/internal/enum"
	"github.com/shopspring/decimal"
)

type SetSeatCharge struct {
	Amount decimal.Decimal
}

type SetEmergency struct {
	Flags EmergencyFlags
}

type AddPrinter struct {
	Printer Printer
}

type RemovePrinter struct {
	ID uuid.UUID
}

func settingsEvent(st *Settings) Event {
	snap := st.clone()
	return Event{
		Type:     enum.EventSettingsChanged,
		Displays: []enum.Display{enum.DisplayFloor, enum.DisplayKitchen, enum.DisplayDrinks},
		Settings: &snap,
	}
}

func settingsResult(st *Settings) Result {
	snap := st.clone()
	return Result{Settings: &snap}
}

func (c SetSeatCharge) apply(s *State) (Result, []Event, error) {
	if c.Amount.IsNegative() {
		return Result{}, nil, ErrInvalidPrice
	}
	s.settings.SeatCharge = c.Amount
	return settingsResult(&s.settings), []Event{settingsEvent(&s.settings)}, nil
}

func (c SetEmergency) apply(s *State) (Result, []Event, error) {
	s.settings.Emergency = c.Flags
	return settingsResult(&s.settings), []Event{settingsEvent(&s.settings)}, nil
}

func (c AddPrinter) apply(s *State) (Result, []Event, error) {
	p := c.Printer
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return Result{}, nil, ErrNameRequired
	}
	if !p.Display.Valid() {
		return Result{}, nil, fmt.Errorf("%w: %q", ErrInvalidDisplay, p.Display)
	}
	if p.ID == uuid.Nil {
		p.ID = s.newID()
	}
	s.settings.Printers = append(s.settings.Printers, p)
	return settingsResult(&s.settings), []Event{settingsEvent(&s.settings)}, nil
}

func (c RemovePrinter) apply(s *State) (Result, []Event, error) {
	for i, p := range s.settings.Printers {
		if p.ID == c.ID {
			s.settings.Printers = append(s.settings.Printers[:i], s.settings.Printers[i+1:]...)
			return settingsResult(&s.settings), []Event{settingsEvent(&s.settings)}, nil
		}
	}
	return Result{}, nil, fmt.Errorf("printer %s: %w", c.ID, ErrPrinterNotFound)
}

func (s *State) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.clone()
}

func (s *State) SetSeatCharge(ctx context.Context, amount decimal.Decimal) (Settings, error) {
	return s.dispatchSettings(ctx, SetSeatCharge{Amount: amount})
}

func (s *State) SetEmergency(ctx context.Context, flags EmergencyFlags) (Settings, error) {
	return s.dispatchSettings(ctx, SetEmergency{Flags: flags})
}

func (s *State) AddPrinter(ctx context.Context, p Printer) (Settings, error) {
	return s.dispatchSettings(ctx, AddPrinter{Printer: p})
}

func (s *State) RemovePrinter(ctx context.Context, id uuid.UUID) (Settings, error) {
	return s.dispatchSettings(ctx, RemovePrinter{ID: id})
}

func (s *State) dispatchSettings(ctx context.Context, cmd Command) (Settings, error) {
	res, err := s.Dispatch(ctx, cmd)
	if err != nil {
		return Settings{}, err
	}
	return *res.Settings, nil
}
