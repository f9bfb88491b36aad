// Package scheduling implements the booking admissibility rule and the
// per-doctor daily statistics views. The admission rule itself lives on
// model.DoctorDailyStats so the stores can re-apply it inside their
// transactions.
package scheduling

import (
	"context"
	"time"

	"github.com/clinio/clinio-api/internal/model"
	"github.com/clinio/clinio-api/internal/repository"
)

type Service struct {
	repo repository.AppointmentRepository
}

func NewService(repo repository.AppointmentRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) DailyStats(ctx context.Context, doctorID int64, day string) (model.DoctorDailyStats, error) {
	return s.repo.DoctorDayStats(ctx, doctorID, day)
}

// IsBookable is the fast-path admission check. The store re-checks under its
// own isolation guarantee at commit time.
func (s *Service) IsBookable(ctx context.Context, doctorID int64, startTime time.Time, durationMinutes int) (bool, error) {
	if durationMinutes < model.MinDurationMinutes || durationMinutes > model.MaxDurationMinutes {
		return false, nil
	}
	stats, err := s.repo.DoctorDayStats(ctx, doctorID, model.DayOf(startTime))
	if err != nil {
		return false, err
	}
	return stats.Admits(durationMinutes), nil
}

// AvailableDoctors lists doctors strictly under both daily limits. A doctor
// sitting exactly on a limit is not available.
func (s *Service) AvailableDoctors(ctx context.Context, day string) ([]model.DoctorDailyStats, error) {
	all, err := s.repo.AllDoctorDayStats(ctx, day)
	if err != nil {
		return nil, err
	}
	out := []model.DoctorDailyStats{}
	for _, stats := range all {
		if stats.HasCapacity() {
			out = append(out, stats)
		}
	}
	return out, nil
}

// BusiestDoctors lists the doctors tied for the day's maximum appointment
// count. Empty when nobody has an appointment that day.
func (s *Service) BusiestDoctors(ctx context.Context, day string) ([]model.DoctorDailyStats, error) {
	all, err := s.repo.AllDoctorDayStats(ctx, day)
	if err != nil {
		return nil, err
	}

	max := 0
	for _, stats := range all {
		if stats.AppointmentCount > max {
			max = stats.AppointmentCount
		}
	}

	out := []model.DoctorDailyStats{}
	if max == 0 {
		return out, nil
	}
	for _, stats := range all {
		if stats.AppointmentCount == max {
			out = append(out, stats)
		}
	}
	return out, nil
}

// DoctorsOverHours lists doctors at or above the threshold of booked minutes
// for the day. A non-positive threshold falls back to the default.
func (s *Service) DoctorsOverHours(ctx context.Context, day string, thresholdMinutes int) ([]model.DoctorDailyStats, error) {
	if thresholdMinutes <= 0 {
		thresholdMinutes = model.OverworkThresholdMinutes
	}
	all, err := s.repo.AllDoctorDayStats(ctx, day)
	if err != nil {
		return nil, err
	}
	out := []model.DoctorDailyStats{}
	for _, stats := range all {
		if stats.BookedMinutes >= thresholdMinutes {
			out = append(out, stats)
		}
	}
	return out, nil
}
