package enums

import "fmt"

// TokenStatus is the lifecycle state of a queue token.
type TokenStatus string

const (
	TokenStatusActive    TokenStatus = "ACTIVE"
	TokenStatusFinished  TokenStatus = "FINISHED"
	TokenStatusCancelled TokenStatus = "CANCELLED"
)

var validTokenStatuses = []TokenStatus{
	TokenStatusActive,
	TokenStatusFinished,
	TokenStatusCancelled,
}

// String implements fmt.Stringer.
func (s TokenStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known TokenStatus.
func (s TokenStatus) IsValid() bool {
	for _, candidate := range validTokenStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is permitted.
func (s TokenStatus) IsTerminal() bool {
	return s == TokenStatusFinished || s == TokenStatusCancelled
}

// ParseTokenStatus converts raw input into a TokenStatus.
func ParseTokenStatus(value string) (TokenStatus, error) {
	for _, candidate := range validTokenStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid token status %q", value)
}
