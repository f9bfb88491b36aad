package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/clinio/clinio-api/internal/model"
	apperrors "github.com/clinio/clinio-api/pkg/errors"
)

// CreateWithAdmission serializes bookings per doctor by locking the doctor's
// account row, then re-applies the admission rule against the day's stats
// before inserting. The second of two racing writers sees the first one's
// insert and fails deterministically.
func (r *appointmentRepository) CreateWithAdmission(ctx context.Context, apt *model.Appointment) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.txTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return 0, storeErr(err)
	}
	defer tx.Rollback()

	var doctorRole model.Role
	err = tx.QueryRowxContext(ctx, `
		SELECT role FROM accounts WHERE id = $1 FOR UPDATE
	`, apt.DoctorID).Scan(&doctorRole)
	if err != nil {
		return 0, notFoundOr(err, "doctor")
	}
	if doctorRole != model.RoleDoctor {
		return 0, apperrors.Validation("account is not a doctor", nil)
	}

	var patientRole model.Role
	err = tx.QueryRowxContext(ctx, `
		SELECT role FROM accounts WHERE id = $1
	`, apt.PatientID).Scan(&patientRole)
	if err != nil {
		return 0, notFoundOr(err, "patient")
	}
	if patientRole != model.RolePatient {
		return 0, apperrors.Validation("account is not a patient", nil)
	}

	day := model.DayOf(apt.StartTime)

	var stats model.DoctorDailyStats
	err = tx.QueryRowxContext(ctx, `
		SELECT count(*), COALESCE(sum(duration_minutes), 0)
		FROM appointments
		WHERE doctor_id = $1 AND start_day = $2 AND status <> $3
	`, apt.DoctorID, day, model.AppointmentStatusCancelled).
		Scan(&stats.AppointmentCount, &stats.BookedMinutes)
	if err != nil {
		return 0, storeErr(err)
	}

	if !stats.Admits(apt.DurationMinutes) {
		return 0, apperrors.SlotUnavailable()
	}

	var id int64
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO appointments (doctor_id, patient_id, start_time, start_day, duration_minutes, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, apt.DoctorID, apt.PatientID, apt.StartTime, day, apt.DurationMinutes, model.AppointmentStatusBooked).Scan(&id)
	if err != nil {
		return 0, storeErr(err)
	}

	if err := tx.Commit(); err != nil {
		return 0, storeErr(err)
	}
	return id, nil
}

func (r *appointmentRepository) GetAppointment(ctx context.Context, id int64) (*model.Appointment, error) {
	var apt model.Appointment
	err := r.db.GetContext(ctx, &apt, `
		SELECT id, doctor_id, patient_id, start_time, duration_minutes, status, created_at, updated_at
		FROM appointments
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, notFoundOr(err, "appointment")
	}
	return &apt, nil
}

// SetStatus performs the Booked -> terminal transition in one statement, so
// concurrent transitions cannot both succeed.
func (r *appointmentRepository) SetStatus(ctx context.Context, id int64, status model.AppointmentStatus) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE appointments
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`, status, time.Now(), id, model.AppointmentStatusBooked)
	if err != nil {
		return storeErr(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return storeErr(err)
	}
	if rows == 0 {
		var current model.AppointmentStatus
		err := r.db.QueryRowxContext(ctx, `SELECT status FROM appointments WHERE id = $1`, id).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("appointment", err)
		}
		if err != nil {
			return storeErr(err)
		}
		return apperrors.Conflict("invalid status transition", nil)
	}
	return nil
}

func (r *appointmentRepository) ListDoctorDay(ctx context.Context, doctorID int64, day string) ([]*model.Appointment, error) {
	appointments := []*model.Appointment{}
	err := r.db.SelectContext(ctx, &appointments, `
		SELECT id, doctor_id, patient_id, start_time, duration_minutes, status, created_at, updated_at
		FROM appointments
		WHERE doctor_id = $1 AND start_day = $2
		ORDER BY start_time ASC
	`, doctorID, day)
	if err != nil {
		return nil, storeErr(err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListPatient(ctx context.Context, patientID int64) ([]*model.Appointment, error) {
	appointments := []*model.Appointment{}
	err := r.db.SelectContext(ctx, &appointments, `
		SELECT id, doctor_id, patient_id, start_time, duration_minutes, status, created_at, updated_at
		FROM appointments
		WHERE patient_id = $1
		ORDER BY start_time ASC
	`, patientID)
	if err != nil {
		return nil, storeErr(err)
	}
	return appointments, nil
}

func (r *appointmentRepository) DoctorDayStats(ctx context.Context, doctorID int64, day string) (model.DoctorDailyStats, error) {
	stats := model.DoctorDailyStats{DoctorID: doctorID}
	err := r.db.QueryRowxContext(ctx, `
		SELECT count(*), COALESCE(sum(duration_minutes), 0)
		FROM appointments
		WHERE doctor_id = $1 AND start_day = $2 AND status <> $3
	`, doctorID, day, model.AppointmentStatusCancelled).
		Scan(&stats.AppointmentCount, &stats.BookedMinutes)
	if err != nil {
		return model.DoctorDailyStats{}, storeErr(err)
	}
	return stats, nil
}

func (r *appointmentRepository) AllDoctorDayStats(ctx context.Context, day string) ([]model.DoctorDailyStats, error) {
	stats := []model.DoctorDailyStats{}
	err := r.db.SelectContext(ctx, &stats, `
		SELECT a.id AS doctor_id,
		       count(ap.id) AS appointment_count,
		       COALESCE(sum(ap.duration_minutes), 0) AS booked_minutes
		FROM accounts a
		LEFT JOIN appointments ap
		  ON ap.doctor_id = a.id
		 AND ap.start_day = $1
		 AND ap.status <> $2
		WHERE a.role = $3
		GROUP BY a.id
		ORDER BY a.id
	`, day, model.AppointmentStatusCancelled, model.RoleDoctor)
	if err != nil {
		return nil, storeErr(err)
	}
	return stats, nil
}
