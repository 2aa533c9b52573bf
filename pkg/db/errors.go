package db

import "strings"

// Constraint names shared between the Postgres migrations and the sqlite
// schemas used in tests. Error matching is textual because the same code path
// must recognize violations from both drivers.
const (
	ConstraintSlotCapacity       = "slot_selection_capacity"
	ConstraintOneActivePerPerson = "tokens_one_active_per_applicant"
	ConstraintUniqueAadhaar      = "applicants_aadhaar_number"
	ConstraintUniqueLLNumber     = "applicants_ll_application_number"
	ConstraintTokenNoPerSlot     = "tokens_slot_token_no"
)

// IsUniqueViolation reports whether the error is a unique-constraint failure.
// When constraintName is provided the helper also requires the constraint (or
// indexed column) text to appear in the message.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	unique := strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
	if !unique {
		return false
	}
	if constraintName == "" {
		return true
	}
	return strings.Contains(msg, constraintName) ||
		strings.Contains(msg, columnHint(constraintName))
}

// IsCapacityViolation reports whether the error came from the slot-capacity
// trigger. The trigger raises with the constraint name in its message on both
// Postgres and the sqlite test schema.
func IsCapacityViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), ConstraintSlotCapacity)
}

// columnHint maps a Postgres constraint name onto the column text sqlite
// reports for the equivalent unique index.
func columnHint(constraintName string) string {
	switch constraintName {
	case ConstraintUniqueAadhaar:
		return "applicants.aadhaar_number"
	case ConstraintUniqueLLNumber:
		return "applicants.ll_application_number"
	case ConstraintOneActivePerPerson:
		return "tokens.applicant_id"
	case ConstraintTokenNoPerSlot:
		return "tokens.slot_ts, tokens.token_no"
	default:
		return constraintName
	}
}
