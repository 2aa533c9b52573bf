package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/queuedesk/queuedesk-backend/pkg/migrate"
)

func TestSlotSelectionMigrationContainsCapacityTrigger(t *testing.T) {
	content := readMigration(t, "*_create_slot_selections.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS slot_selections",
		"CREATE UNIQUE INDEX IF NOT EXISTS slot_selections_applicant_id",
		"slot_selection_capacity",
		"applicant_id <> NEW.applicant_id",
		">= 5",
		"DROP TABLE IF EXISTS slot_selections",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestTokensMigrationContainsActiveUniqueness(t *testing.T) {
	content := readMigration(t, "*_create_tokens.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS tokens",
		"CHECK (status IN ('ACTIVE', 'FINISHED', 'CANCELLED'))",
		"CREATE UNIQUE INDEX IF NOT EXISTS tokens_one_active_per_applicant",
		"WHERE status = 'ACTIVE'",
		"CREATE UNIQUE INDEX IF NOT EXISTS tokens_slot_token_no",
		"DROP TABLE IF EXISTS tokens",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q found", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
