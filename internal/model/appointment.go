package model

import "time"

type AppointmentStatus string

const (
	AppointmentStatusBooked    AppointmentStatus = "booked"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusDone      AppointmentStatus = "done"
)

// Terminal reports whether no further status transition is permitted.
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentStatusCancelled || s == AppointmentStatusDone
}

// Booking quota per doctor and calendar day.
const (
	MinDurationMinutes       = 15
	MaxDurationMinutes       = 120
	MaxDailyAppointments     = 12
	MaxDailyMinutes          = 480
	OverworkThresholdMinutes = 360
)

type Appointment struct {
	ID              int64             `db:"id" json:"id"`
	DoctorID        int64             `db:"doctor_id" json:"doctor_id"`
	PatientID       int64             `db:"patient_id" json:"patient_id"`
	StartTime       time.Time         `db:"start_time" json:"start_time"`
	DurationMinutes int               `db:"duration_minutes" json:"duration_minutes"`
	Status          AppointmentStatus `db:"status" json:"status"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`
}

// AppointmentView is the role-filtered slot view. PatientID is nil when the
// caller is not allowed to see patient identity.
type AppointmentView struct {
	ID              int64             `json:"id"`
	DoctorID        int64             `json:"doctor_id"`
	PatientID       *int64            `json:"patient_id,omitempty"`
	StartTime       time.Time         `json:"start_time"`
	DurationMinutes int               `json:"duration_minutes"`
	Status          AppointmentStatus `json:"status"`
}

// DoctorDailyStats aggregates non-cancelled appointments for one doctor and
// one calendar day. Derived, never stored.
type DoctorDailyStats struct {
	DoctorID         int64 `db:"doctor_id" json:"doctor_id"`
	AppointmentCount int   `db:"appointment_count" json:"appointment_count"`
	BookedMinutes    int   `db:"booked_minutes" json:"booked_minutes"`
}

// Admits is the booking admission rule: adding an appointment of the given
// duration must not push the day over MaxDailyAppointments or MaxDailyMinutes.
// Duration bounds are checked first, regardless of quota state.
func (s DoctorDailyStats) Admits(durationMinutes int) bool {
	if durationMinutes < MinDurationMinutes || durationMinutes > MaxDurationMinutes {
		return false
	}
	if s.AppointmentCount+1 > MaxDailyAppointments {
		return false
	}
	if s.BookedMinutes+durationMinutes > MaxDailyMinutes {
		return false
	}
	return true
}

// HasCapacity is the strict availability filter: a doctor sitting exactly at
// either limit is not listed as available, even though an in-flight booking
// that lands exactly on the limit is still admitted.
func (s DoctorDailyStats) HasCapacity() bool {
	return s.AppointmentCount < MaxDailyAppointments && s.BookedMinutes < MaxDailyMinutes
}

// DayOf buckets a timestamp into its calendar day in the timestamp's own
// offset, formatted YYYY-MM-DD.
func DayOf(t time.Time) string {
	return t.Format("2006-01-02")
}

// ParseDay parses a YYYY-MM-DD day string.
func ParseDay(day string) (time.Time, error) {
	return time.Parse("2006-01-02", day)
}

type BookAppointmentRequest struct {
	StartTime       time.Time `json:"start_time" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"required,min=15,max=120"`
}

type BookAppointmentResponse struct {
	AppointmentID int64 `json:"appointment_id"`
}
