// Package profile contains the Profile value shared by every cache and lookup source.
package profile

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxNameLength is the longest display name the caches can store.
const MaxNameLength = 32

var (
	ErrInvalidProfile = errors.New("invalid profile")
	ErrInvalidUUID    = errors.New("invalid UUID format")
)

// Profile pairs a player's unique ID with the most recently observed display name.
// Two profiles are the same entity when their IDs match, see Equal.
type Profile struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// New validates and returns a Profile.
func New(id uuid.UUID, name string) (Profile, error) {
	if id == uuid.Nil {
		return Profile{}, fmt.Errorf("%w: id is required", ErrInvalidProfile)
	}
	if name == "" {
		return Profile{}, fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return Profile{}, fmt.Errorf("%w: name %q is longer than %d characters", ErrInvalidProfile, name, MaxNameLength)
	}
	return Profile{ID: id, Name: name}, nil
}

// MustNew is New for static values; it panics on invalid input.
func MustNew(id uuid.UUID, name string) Profile {
	p, err := New(id, name)
	if err != nil {
		panic(err)
	}
	return p
}

// WithName returns a copy of p carrying name.
func (p Profile) WithName(name string) Profile {
	return Profile{ID: p.ID, Name: name}
}

// WithID returns a copy of p carrying id.
func (p Profile) WithID(id uuid.UUID) Profile {
	return Profile{ID: id, Name: p.Name}
}

// Equal reports whether p and o identify the same player. Names are ignored.
func (p Profile) Equal(o Profile) bool {
	return p.ID == o.ID
}

func (p Profile) String() string {
	return fmt.Sprintf("Profile{id=%s, name=%q}", p.ID, p.Name)
}

// NameKey returns the key used to match names. Player names are unique regardless of case,
// so every case-insensitive lookup goes through this function.
func NameKey(name string) string {
	return strings.ToLower(name)
}

// IDs returns the IDs of profiles in order.
func IDs(profiles []Profile) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.ID)
	}
	return ids
}
