package applicants

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/queuedesk/queuedesk-backend/pkg/db/models"
)

func TestTagsForApplicantsBatchesBothKinds(t *testing.T) {
	db := setupApplicantsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	first := &models.Applicant{FullName: "A", AadhaarNumber: "111122223333", LLApplicationNumber: "LL-1", PasswordHash: "x"}
	second := &models.Applicant{FullName: "B", AadhaarNumber: "444455556666", LLApplicationNumber: "LL-2", PasswordHash: "x"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	require.NoError(t, repo.AddVehicleClasses(ctx, first.ID, []string{"LMV", "MCWG"}))
	require.NoError(t, repo.AddVehicleClasses(ctx, second.ID, []string{"HMV"}))
	require.NoError(t, repo.AddDisabilities(ctx, second.ID, []string{"mobility"}))

	classes, disabilities, err := repo.TagsForApplicants(ctx, []int64{first.ID, second.ID})
	require.NoError(t, err)
	require.Equal(t, []string{"LMV", "MCWG"}, classes[first.ID])
	require.Equal(t, []string{"HMV"}, classes[second.ID])
	require.Empty(t, disabilities[first.ID])
	require.Equal(t, []string{"mobility"}, disabilities[second.ID])
}

func TestAddVehicleClassesIgnoresDuplicates(t *testing.T) {
	db := setupApplicantsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	applicant := &models.Applicant{FullName: "A", AadhaarNumber: "111122223333", LLApplicationNumber: "LL-1", PasswordHash: "x"}
	require.NoError(t, repo.Create(ctx, applicant))

	require.NoError(t, repo.AddVehicleClasses(ctx, applicant.ID, []string{"LMV"}))
	require.NoError(t, repo.AddVehicleClasses(ctx, applicant.ID, []string{"LMV", "MCWG"}))

	classes, err := repo.ListVehicleClasses(ctx, applicant.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"LMV", "MCWG"}, classes)
}

func TestHasDisabilityFalseWithoutTags(t *testing.T) {
	db := setupApplicantsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	applicant := &models.Applicant{FullName: "A", AadhaarNumber: "111122223333", LLApplicationNumber: "LL-1", PasswordHash: "x"}
	require.NoError(t, repo.Create(ctx, applicant))

	has, err := repo.HasDisability(ctx, applicant.ID)
	require.NoError(t, err)
	require.False(t, has)
}
