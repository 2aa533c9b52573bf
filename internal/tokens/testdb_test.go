package tokens

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTokensTestDB(t *testing.T, withActiveIndex bool) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS applicants (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  full_name TEXT NOT NULL,
  aadhaar_number TEXT NOT NULL,
  ll_application_number TEXT NOT NULL,
  phone TEXT,
  password_hash TEXT NOT NULL,
  is_admin INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS applicants_aadhaar_number ON applicants (aadhaar_number);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS applicants_ll_application_number ON applicants (ll_application_number);`,
		`CREATE TABLE IF NOT EXISTS applicant_disabilities (
  applicant_id INTEGER NOT NULL,
  disability TEXT NOT NULL,
  PRIMARY KEY (applicant_id, disability)
);`,
		`CREATE TABLE IF NOT EXISTS applicant_vehicle_classes (
  applicant_id INTEGER NOT NULL,
  vehicle_class TEXT NOT NULL,
  PRIMARY KEY (applicant_id, vehicle_class)
);`,
		`CREATE TABLE IF NOT EXISTS slot_selections (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  applicant_id INTEGER NOT NULL,
  slot_ts DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS slot_selections_applicant_id ON slot_selections (applicant_id);`,
		`CREATE TABLE IF NOT EXISTS tokens (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  applicant_id INTEGER NOT NULL,
  token_no TEXT NOT NULL,
  status TEXT NOT NULL,
  slot_ts DATETIME NOT NULL,
  is_priority INTEGER NOT NULL DEFAULT 0,
  otp_code TEXT NOT NULL,
  finish_requested_at DATETIME,
  otp_verified_at DATETIME,
  cancelled_at DATETIME,
  created_at DATETIME
);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS tokens_slot_token_no ON tokens (slot_ts, token_no);`,
	}
	if withActiveIndex {
		statements = append(statements,
			`CREATE UNIQUE INDEX IF NOT EXISTS tokens_one_active_per_applicant ON tokens (applicant_id) WHERE status = 'ACTIVE';`)
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
