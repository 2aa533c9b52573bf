package types

import (
	"fmt"
	"strings"
)

// AadhaarLength is the digit count of a valid Aadhaar number.
const AadhaarLength = 12

// NormalizeAadhaar strips spaces and hyphens and validates the result is
// exactly twelve digits. Storage and lookups always use the normalized form.
func NormalizeAadhaar(raw string) (string, error) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-':
			// grouping characters people type from the printed card
		default:
			return "", fmt.Errorf("aadhaar contains non-digit character %q", r)
		}
	}
	digits := b.String()
	if len(digits) != AadhaarLength {
		return "", fmt.Errorf("aadhaar must be %d digits, got %d", AadhaarLength, len(digits))
	}
	return digits, nil
}

// FormatAadhaar renders a normalized Aadhaar in the card's "XXXX XXXX XXXX"
// grouping for display. Invalid input is returned unchanged.
func FormatAadhaar(normalized string) string {
	if len(normalized) != AadhaarLength {
		return normalized
	}
	return normalized[0:4] + " " + normalized[4:8] + " " + normalized[8:12]
}
