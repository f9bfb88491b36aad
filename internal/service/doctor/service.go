package doctor

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/clinio/clinio-api/internal/model"
	"github.com/clinio/clinio-api/internal/repository"
)

const (
	profileCacheTTL     = 5 * time.Minute
	profileCacheCleanup = 10 * time.Minute
)

// Service is the doctor directory. Profiles are read-mostly (specialty and
// details never change in scope) so lookups go through a small TTL cache.
type Service struct {
	repo  repository.AccountRepository
	cache *gocache.Cache
}

func NewService(repo repository.AccountRepository) *Service {
	return &Service{
		repo:  repo,
		cache: gocache.New(profileCacheTTL, profileCacheCleanup),
	}
}

func (s *Service) ListIDs(ctx context.Context) ([]int64, error) {
	return s.repo.ListIDsByRole(ctx, model.RoleDoctor)
}

func (s *Service) Profile(ctx context.Context, doctorID int64) (*model.DoctorInfo, error) {
	key := fmt.Sprintf("doctor:%d", doctorID)
	if cached, ok := s.cache.Get(key); ok {
		info := cached.(model.DoctorInfo)
		return &info, nil
	}

	account, err := s.repo.Get(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	profile, err := s.repo.GetDoctorProfile(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	info := model.DoctorInfo{
		ID:        account.ID,
		Name:      account.Name,
		Specialty: profile.Specialty,
		Details:   profile.Details,
	}
	s.cache.Set(key, info, gocache.DefaultExpiration)
	return &info, nil
}
