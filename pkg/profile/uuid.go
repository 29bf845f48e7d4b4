package profile

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const dashlessLength = 32

// StripDashes returns id without separators. The input must be a UUID with or without dashes.
func StripDashes(id string) (string, error) {
	dashless := strings.ReplaceAll(id, "-", "")
	if !isHex(dashless) {
		return "", fmt.Errorf("%w: %q", ErrInvalidUUID, id)
	}
	return dashless, nil
}

// AddDashes returns id in the canonical 8-4-4-4-12 form. The input may already contain dashes.
func AddDashes(id string) (string, error) {
	dashless, err := StripDashes(id)
	if err != nil {
		return "", err
	}
	return strings.ToLower(dashless[0:8] + "-" + dashless[8:12] + "-" + dashless[12:16] + "-" + dashless[16:20] + "-" + dashless[20:32]), nil
}

// ParseID parses a dashed or dashless UUID as exchanged with the remote service.
func ParseID(id string) (uuid.UUID, error) {
	dashed, err := AddDashes(id)
	if err != nil {
		return uuid.Nil, err
	}
	parsed, err := uuid.Parse(dashed)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrInvalidUUID, err)
	}
	return parsed, nil
}

// Dashless formats id the way the remote service expects it in URLs.
func Dashless(id uuid.UUID) string {
	return strings.ReplaceAll(id.String(), "-", "")
}

func isHex(s string) bool {
	if len(s) != dashlessLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
