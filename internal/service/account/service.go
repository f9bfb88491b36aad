package account

import (
	"context"

	"github.com/clinio/clinio-api/internal/model"
	"github.com/clinio/clinio-api/internal/repository"
	"github.com/clinio/clinio-api/pkg/crypto"
	apperrors "github.com/clinio/clinio-api/pkg/errors"
)

type Service struct {
	repo repository.AccountRepository
}

func NewService(repo repository.AccountRepository) *Service {
	return &Service{repo: repo}
}

// Register hashes the password and creates the account (plus the doctor
// profile for doctor registrations) in one store transaction.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (int64, error) {
	if !req.Role.Valid() {
		return 0, apperrors.Validation("invalid role", nil)
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return 0, apperrors.Internal(err)
	}

	account := &model.Account{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	}

	var profile *model.DoctorProfile
	if req.Role == model.RoleDoctor {
		profile = &model.DoctorProfile{
			Specialty: req.Specialty,
			Details:   req.Details,
		}
	}

	return s.repo.Create(ctx, account, profile)
}
