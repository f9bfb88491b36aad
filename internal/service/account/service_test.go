package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinio/clinio-api/internal/model"
	"github.com/clinio/clinio-api/internal/repository/memory"
	"github.com/clinio/clinio-api/pkg/crypto"
	apperrors "github.com/clinio/clinio-api/pkg/errors"
)

func TestRegisterPatient(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store)
	ctx := context.Background()

	id, err := svc.Register(ctx, &model.RegisterRequest{
		Name:     "Pat Jones",
		Email:    "pat@example.com",
		Password: "s3cret-pass",
		Role:     model.RolePatient,
	})
	require.NoError(t, err)

	account, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.RolePatient, account.Role)
	assert.NotEqual(t, "s3cret-pass", account.PasswordHash)

	ok, err := crypto.VerifyPassword(account.PasswordHash, "s3cret-pass")
	require.NoError(t, err)
	assert.True(t, ok)

	// No doctor profile for a patient.
	_, err = store.GetDoctorProfile(ctx, id)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestRegisterDoctorCreatesProfile(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store)
	ctx := context.Background()

	id, err := svc.Register(ctx, &model.RegisterRequest{
		Name:      "Dr Smith",
		Email:     "doc@example.com",
		Password:  "s3cret-pass",
		Role:      model.RoleDoctor,
		Specialty: "Dermatology",
		Details:   "Clinic hours 9-5",
	})
	require.NoError(t, err)

	profile, err := store.GetDoctorProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Dermatology", profile.Specialty)
	assert.Equal(t, "Clinic hours 9-5", profile.Details)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store)
	ctx := context.Background()

	req := &model.RegisterRequest{
		Name:     "Pat Jones",
		Email:    "pat@example.com",
		Password: "s3cret-pass",
		Role:     model.RolePatient,
	}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestRegisterInvalidRole(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:     "Nobody",
		Email:    "nobody@example.com",
		Password: "s3cret-pass",
		Role:     "superuser",
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}
