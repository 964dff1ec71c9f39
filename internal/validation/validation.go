package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/GuissellB/Tarea-2-orquestador/internal/task"
)

// Location bounds, in runes. The provider accepts "City" or "City,CountryCode".
const (
	minLocationLen = 2
	maxLocationLen = 100
)

// ValidateLocation trims the input, enforces length bounds, and restricts it to
// letters (Unicode), digits, space, comma, and hyphen. Runs before any stage so
// a bad location fails the flow without an outbound call. Returns the trimmed
// string or an error wrapping the validation kind.
func ValidateLocation(input string) (string, error) {
	s := strings.TrimSpace(input)
	r := []rune(s)
	n := len(r)
	if n == 0 {
		return "", fmt.Errorf("%w: location is required", task.ErrValidation)
	}
	if n < minLocationLen {
		return "", fmt.Errorf("%w: location %q too short", task.ErrValidation, s)
	}
	if n > maxLocationLen {
		return "", fmt.Errorf("%w: location too long (%d runes)", task.ErrValidation, n)
	}
	for _, c := range r {
		if !isAllowedLocationRune(c) {
			return "", fmt.Errorf("%w: location %q contains invalid characters", task.ErrValidation, s)
		}
	}
	return s, nil
}

func isAllowedLocationRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsNumber(r) {
		return true
	}
	switch r {
	case ' ', ',', '-':
		return true
	}
	return false
}
