package repository

import (
	"context"

	"github.com/clinio/clinio-api/internal/model"
)

type AccountRepository interface {
	// Create inserts the account row and, for doctors, the profile row in a
	// single transaction. Duplicate email fails with a conflict error.
	Create(ctx context.Context, account *model.Account, profile *model.DoctorProfile) (int64, error)
	Get(ctx context.Context, id int64) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	ListIDsByRole(ctx context.Context, role model.Role) ([]int64, error)
	GetDoctorProfile(ctx context.Context, doctorID int64) (*model.DoctorProfile, error)
}

type AppointmentRepository interface {
	// CreateWithAdmission re-checks the daily quota and the participants'
	// roles under the store's isolation guarantee before inserting, so two
	// racing bookings cannot together violate the quota.
	CreateWithAdmission(ctx context.Context, apt *model.Appointment) (int64, error)
	GetAppointment(ctx context.Context, id int64) (*model.Appointment, error)
	// SetStatus transitions Booked to the given terminal status atomically.
	// An appointment already in a terminal state fails with a conflict error.
	SetStatus(ctx context.Context, id int64, status model.AppointmentStatus) error
	ListDoctorDay(ctx context.Context, doctorID int64, day string) ([]*model.Appointment, error)
	ListPatient(ctx context.Context, patientID int64) ([]*model.Appointment, error)
	DoctorDayStats(ctx context.Context, doctorID int64, day string) (model.DoctorDailyStats, error)
	// AllDoctorDayStats returns one row per doctor account, zero-valued for
	// doctors without appointments that day.
	AllDoctorDayStats(ctx context.Context, day string) ([]model.DoctorDailyStats, error)
}
