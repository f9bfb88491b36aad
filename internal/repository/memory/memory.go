// Package memory holds an in-memory store implementing the repository
// interfaces with the same transactional semantics as the postgres store:
// email uniqueness and the booking admission re-check both run under one
// lock. Used by tests and local development.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/clinio/clinio-api/internal/model"
	apperrors "github.com/clinio/clinio-api/pkg/errors"
)

type Store struct {
	mu           sync.Mutex
	accounts     map[int64]*model.Account
	profiles     map[int64]*model.DoctorProfile
	appointments map[int64]*model.Appointment
	byEmail      map[string]int64
	nextAccount  int64
	nextAppt     int64
}

func NewStore() *Store {
	return &Store{
		accounts:     make(map[int64]*model.Account),
		profiles:     make(map[int64]*model.DoctorProfile),
		appointments: make(map[int64]*model.Appointment),
		byEmail:      make(map[string]int64),
		nextAccount:  1,
		nextAppt:     1,
	}
}

func (s *Store) Create(ctx context.Context, account *model.Account, profile *model.DoctorProfile) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[account.Email]; exists {
		return 0, apperrors.Conflict("email already registered", nil)
	}

	id := s.nextAccount
	s.nextAccount++

	stored := *account
	stored.ID = id
	stored.CreatedAt = time.Now()
	s.accounts[id] = &stored
	s.byEmail[stored.Email] = id

	if stored.Role == model.RoleDoctor {
		p := model.DoctorProfile{AccountID: id}
		if profile != nil {
			p.Specialty, p.Details = profile.Specialty, profile.Details
		}
		s.profiles[id] = &p
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, id int64) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, apperrors.NotFound("account", nil)
	}
	copied := *account
	return &copied, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, apperrors.NotFound("account", nil)
	}
	copied := *s.accounts[id]
	return &copied, nil
}

func (s *Store) ListIDsByRole(ctx context.Context, role model.Role) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := []int64{}
	for id, account := range s.accounts {
		if account.Role == role {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *Store) GetDoctorProfile(ctx context.Context, doctorID int64) (*model.DoctorProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[doctorID]
	if !ok {
		return nil, apperrors.NotFound("doctor profile", nil)
	}
	copied := *profile
	return &copied, nil
}

func (s *Store) CreateWithAdmission(ctx context.Context, apt *model.Appointment) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doctor, ok := s.accounts[apt.DoctorID]
	if !ok {
		return 0, apperrors.NotFound("doctor", nil)
	}
	if doctor.Role != model.RoleDoctor {
		return 0, apperrors.Validation("account is not a doctor", nil)
	}
	patient, ok := s.accounts[apt.PatientID]
	if !ok {
		return 0, apperrors.NotFound("patient", nil)
	}
	if patient.Role != model.RolePatient {
		return 0, apperrors.Validation("account is not a patient", nil)
	}

	stats := s.dayStatsLocked(apt.DoctorID, model.DayOf(apt.StartTime))
	if !stats.Admits(apt.DurationMinutes) {
		return 0, apperrors.SlotUnavailable()
	}

	id := s.nextAppt
	s.nextAppt++

	now := time.Now()
	stored := *apt
	stored.ID = id
	stored.Status = model.AppointmentStatusBooked
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.appointments[id] = &stored
	return id, nil
}

func (s *Store) GetAppointment(ctx context.Context, id int64) (*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	apt, ok := s.appointments[id]
	if !ok {
		return nil, apperrors.NotFound("appointment", nil)
	}
	copied := *apt
	return &copied, nil
}

func (s *Store) SetStatus(ctx context.Context, id int64, status model.AppointmentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	apt, ok := s.appointments[id]
	if !ok {
		return apperrors.NotFound("appointment", nil)
	}
	if apt.Status != model.AppointmentStatusBooked {
		return apperrors.Conflict("invalid status transition", nil)
	}
	apt.Status = status
	apt.UpdatedAt = time.Now()
	return nil
}

func (s *Store) ListDoctorDay(ctx context.Context, doctorID int64, day string) ([]*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []*model.Appointment{}
	for _, apt := range s.appointments {
		if apt.DoctorID == doctorID && model.DayOf(apt.StartTime) == day {
			copied := *apt
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (s *Store) ListPatient(ctx context.Context, patientID int64) ([]*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []*model.Appointment{}
	for _, apt := range s.appointments {
		if apt.PatientID == patientID {
			copied := *apt
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (s *Store) DoctorDayStats(ctx context.Context, doctorID int64, day string) (model.DoctorDailyStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dayStatsLocked(doctorID, day), nil
}

func (s *Store) AllDoctorDayStats(ctx context.Context, day string) ([]model.DoctorDailyStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.DoctorDailyStats{}
	for id, account := range s.accounts {
		if account.Role == model.RoleDoctor {
			out = append(out, s.dayStatsLocked(id, day))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DoctorID < out[j].DoctorID })
	return out, nil
}

func (s *Store) dayStatsLocked(doctorID int64, day string) model.DoctorDailyStats {
	stats := model.DoctorDailyStats{DoctorID: doctorID}
	for _, apt := range s.appointments {
		if apt.DoctorID != doctorID || apt.Status == model.AppointmentStatusCancelled {
			continue
		}
		if model.DayOf(apt.StartTime) != day {
			continue
		}
		stats.AppointmentCount++
		stats.BookedMinutes += apt.DurationMinutes
	}
	return stats
}
