package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/kiwari-pos/floor/internal/enum"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrStaffNotFound      = errors.New("staff member not found")
	ErrMalformedEntry     = errors.New("malformed roster entry")
)

// staffNamespace scopes the name-derived staff ids so they survive restarts.
var staffNamespace = uuid.MustParse("3b9d2c5e-8f0a-4e61-9c1d-7a4b2e6f0d18")

// Staff is one person allowed to sign in on a floor device.
type Staff struct {
	ID      uuid.UUID
	Name    string
	Role    string
	PINHash string
}

// Roster is the in-memory list of staff. Entries are written as
// "name:ROLE:bcrypt-hash"; cmd/seed prints them.
type Roster struct {
	byName map[string]Staff
	byID   map[uuid.UUID]Staff
}

// StaffID derives the stable id for a staff name.
func StaffID(name string) uuid.UUID {
	return uuid.NewSHA1(staffNamespace, []byte(strings.ToLower(strings.TrimSpace(name))))
}

// HashPIN returns the bcrypt hash stored in a roster entry.
func HashPIN(pin string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash pin: %w", err)
	}
	return string(h), nil
}

// FormatEntry renders a roster entry for STAFF_ROSTER.
func FormatEntry(name, role, pinHash string) string {
	return name + ":" + role + ":" + pinHash
}

func validRole(role string) bool {
	switch role {
	case enum.RoleManager, enum.RoleWaiter, enum.RoleKitchen, enum.RoleBar:
		return true
	}
	return false
}

// ParseRoster builds a roster from "name:ROLE:hash" entries.
func ParseRoster(entries []string) (*Roster, error) {
	r := &Roster{
		byName: make(map[string]Staff, len(entries)),
		byID:   make(map[uuid.UUID]Staff, len(entries)),
	}
	for i, e := range entries {
		parts := strings.SplitN(e, ":", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("entry %d: %w", i, ErrMalformedEntry)
		}
		name := strings.TrimSpace(parts[0])
		role := strings.ToUpper(strings.TrimSpace(parts[1]))
		if name == "" || parts[2] == "" {
			return nil, fmt.Errorf("entry %d: %w", i, ErrMalformedEntry)
		}
		if !validRole(role) {
			return nil, fmt.Errorf("entry %d: unknown role %q: %w", i, role, ErrMalformedEntry)
		}
		if err := r.add(Staff{ID: StaffID(name), Name: name, Role: role, PINHash: parts[2]}); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return r, nil
}

func (r *Roster) add(s Staff) error {
	key := strings.ToLower(s.Name)
	if _, dup := r.byName[key]; dup {
		return fmt.Errorf("duplicate staff name %q: %w", s.Name, ErrMalformedEntry)
	}
	r.byName[key] = s
	r.byID[s.ID] = s
	return nil
}

// Len returns the number of staff on the roster.
func (r *Roster) Len() int { return len(r.byName) }

// Authenticate checks a name and PIN. Unknown names and wrong PINs both
// return ErrInvalidCredentials.
func (r *Roster) Authenticate(name, pin string) (Staff, error) {
	s, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Staff{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.PINHash), []byte(pin)); err != nil {
		return Staff{}, ErrInvalidCredentials
	}
	return s, nil
}

// ByID looks up a staff member for token refresh.
func (r *Roster) ByID(id uuid.UUID) (Staff, error) {
	s, ok := r.byID[id]
	if !ok {
		return Staff{}, ErrStaffNotFound
	}
	return s, nil
}

// DemoRoster builds one staff member per role sharing pin. Used when no
// roster is configured outside production.
func DemoRoster(pin string) (*Roster, error) {
	hash, err := HashPIN(pin)
	if err != nil {
		return nil, err
	}
	return ParseRoster([]string{
		FormatEntry("manager", enum.RoleManager, hash),
		FormatEntry("waiter", enum.RoleWaiter, hash),
		FormatEntry("kitchen", enum.RoleKitchen, hash),
		FormatEntry("bar", enum.RoleBar, hash),
	})
}
