package auth

import (
	"context"

	"github.com/clinio/clinio-api/internal/model"
	"github.com/clinio/clinio-api/internal/repository"
	pkgauth "github.com/clinio/clinio-api/pkg/auth"
	"github.com/clinio/clinio-api/pkg/crypto"
	apperrors "github.com/clinio/clinio-api/pkg/errors"
)

type Service struct {
	accountRepo repository.AccountRepository
	jwtSvc      *pkgauth.JWTService
}

func NewService(accountRepo repository.AccountRepository, jwtSvc *pkgauth.JWTService) *Service {
	return &Service{
		accountRepo: accountRepo,
		jwtSvc:      jwtSvc,
	}
}

// Login verifies credentials and mints a bearer token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	account, err := s.accountRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("invalid credentials", nil)
		}
		return nil, err
	}

	ok, err := crypto.VerifyPassword(account.PasswordHash, req.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if !ok {
		return nil, apperrors.Unauthorized("invalid credentials", nil)
	}

	token, err := s.jwtSvc.Issue(account.ID, account.Role)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.TokenResponse{AccessToken: token}, nil
}
