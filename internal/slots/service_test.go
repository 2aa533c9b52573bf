package slots

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/queuedesk/queuedesk-backend/pkg/db/models"
	pkgerrors "github.com/queuedesk/queuedesk-backend/pkg/errors"
)

func setupSlotsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS slot_selections (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  applicant_id INTEGER NOT NULL,
  slot_ts DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS slot_selections_applicant_id ON slot_selections (applicant_id);`,
		`CREATE INDEX IF NOT EXISTS slot_selections_slot_ts ON slot_selections (slot_ts);`,
		`CREATE TRIGGER IF NOT EXISTS slot_selection_capacity_insert
BEFORE INSERT ON slot_selections
WHEN (SELECT COUNT(*) FROM slot_selections WHERE slot_ts = NEW.slot_ts AND applicant_id <> NEW.applicant_id) >= 5
BEGIN
  SELECT RAISE(ABORT, 'slot_selection_capacity');
END;`,
		`CREATE TRIGGER IF NOT EXISTS slot_selection_capacity_update
BEFORE UPDATE OF slot_ts ON slot_selections
WHEN (SELECT COUNT(*) FROM slot_selections WHERE slot_ts = NEW.slot_ts AND applicant_id <> NEW.applicant_id) >= 5
BEGIN
  SELECT RAISE(ABORT, 'slot_selection_capacity');
END;`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type stubApplicantFinder struct {
	known map[int64]bool
}

func (s stubApplicantFinder) FindByID(ctx context.Context, id int64) (*models.Applicant, error) {
	if !s.known[id] {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.Applicant{ID: id, FullName: "Known"}, nil
}

type stubTokenChecker struct {
	active map[int64]bool
}

func (s stubTokenChecker) HasActiveToken(ctx context.Context, applicantID int64) (bool, error) {
	return s.active[applicantID], nil
}

func newTestService(t *testing.T, known []int64, active map[int64]bool) (Service, *Repository) {
	t.Helper()
	db := setupSlotsTestDB(t)
	repo := NewRepository(db)

	knownSet := map[int64]bool{}
	for _, id := range known {
		knownSet[id] = true
	}
	if active == nil {
		active = map[int64]bool{}
	}

	svc, err := NewService(ServiceParams{
		Repo:          repo,
		ApplicantRepo: stubApplicantFinder{known: knownSet},
		TokenChecker:  stubTokenChecker{active: active},
	})
	require.NoError(t, err)
	return svc, repo
}

func slotAt(hour int) time.Time {
	return time.Date(2026, 8, 31, hour, 0, 0, 0, time.UTC)
}

func TestSelectSlotStoresSelection(t *testing.T) {
	svc, repo := newTestService(t, []int64{1}, nil)

	dto, err := svc.SelectSlot(context.Background(), 1, slotAt(10))
	require.NoError(t, err)
	require.Equal(t, int64(1), dto.ApplicantID)
	require.True(t, dto.SlotTS.Equal(slotAt(10)))

	stored, err := repo.FindByApplicant(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, stored.SlotTS.Equal(slotAt(10)))
}

func TestSelectSlotReplacesPriorSelection(t *testing.T) {
	svc, repo := newTestService(t, []int64{1}, nil)
	ctx := context.Background()

	_, err := svc.SelectSlot(ctx, 1, slotAt(10))
	require.NoError(t, err)
	_, err = svc.SelectSlot(ctx, 1, slotAt(11))
	require.NoError(t, err)

	stored, err := repo.FindByApplicant(ctx, 1)
	require.NoError(t, err)
	require.True(t, stored.SlotTS.Equal(slotAt(11)), "newer selection must replace the old one")

	var count int64
	require.NoError(t, repo.db.Model(&models.SlotSelection{}).Where("applicant_id = ?", 1).Count(&count).Error)
	require.Equal(t, int64(1), count, "exactly one selection row per applicant")
}

func TestSelectSlotUnknownApplicant(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)

	_, err := svc.SelectSlot(context.Background(), 99, slotAt(10))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestSelectSlotBlockedByActiveToken(t *testing.T) {
	svc, _ := newTestService(t, []int64{1}, map[int64]bool{1: true})

	_, err := svc.SelectSlot(context.Background(), 1, slotAt(10))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestSelectSlotFullSlotRejected(t *testing.T) {
	ids := []int64{1, 2, 3, 4, 5, 6}
	svc, _ := newTestService(t, ids, nil)
	ctx := context.Background()

	for _, id := range ids[:Capacity] {
		_, err := svc.SelectSlot(ctx, id, slotAt(10))
		require.NoError(t, err)
	}

	_, err := svc.SelectSlot(ctx, 6, slotAt(10))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeSlotFull, typed.Code())
}

func TestSelectSlotRepickOwnSlotAtCapacity(t *testing.T) {
	ids := []int64{1, 2, 3, 4, 5}
	svc, repo := newTestService(t, ids, nil)
	ctx := context.Background()

	for _, id := range ids {
		_, err := svc.SelectSlot(ctx, id, slotAt(10))
		require.NoError(t, err)
	}

	// An occupant re-submitting the same full slot is a no-op replace, not
	// a new seat claim.
	dto, err := svc.SelectSlot(ctx, 5, slotAt(10))
	require.NoError(t, err)
	require.True(t, dto.SlotTS.Equal(slotAt(10)))

	var count int64
	require.NoError(t, repo.db.Model(&models.SlotSelection{}).Where("slot_ts = ?", slotAt(10)).Count(&count).Error)
	require.Equal(t, int64(Capacity), count)
}

func TestSelectSlotMoveIntoFullSlotRejected(t *testing.T) {
	ids := []int64{1, 2, 3, 4, 5, 6}
	svc, _ := newTestService(t, ids, nil)
	ctx := context.Background()

	for _, id := range ids[:Capacity] {
		_, err := svc.SelectSlot(ctx, id, slotAt(10))
		require.NoError(t, err)
	}
	_, err := svc.SelectSlot(ctx, 6, slotAt(11))
	require.NoError(t, err)

	_, err = svc.SelectSlot(ctx, 6, slotAt(10))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeSlotFull, typed.Code())
}

func TestAvailabilityReportsRemaining(t *testing.T) {
	ids := []int64{1, 2, 3}
	svc, _ := newTestService(t, ids, nil)
	ctx := context.Background()

	for _, id := range ids[:2] {
		_, err := svc.SelectSlot(ctx, id, slotAt(10))
		require.NoError(t, err)
	}
	_, err := svc.SelectSlot(ctx, 3, slotAt(11))
	require.NoError(t, err)

	items, err := svc.Availability(ctx, slotAt(0), slotAt(23))
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.True(t, items[0].SlotTS.Equal(slotAt(10)))
	require.Equal(t, 2, items[0].Booked)
	require.Equal(t, Capacity-2, items[0].Remaining)
	require.True(t, items[1].SlotTS.Equal(slotAt(11)))
	require.Equal(t, 1, items[1].Booked)
}

func TestAvailabilityRejectsInvertedWindow(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)

	_, err := svc.Availability(context.Background(), slotAt(12), slotAt(10))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
