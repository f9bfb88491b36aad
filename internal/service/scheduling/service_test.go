package scheduling

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinio/clinio-api/internal/model"
	"github.com/clinio/clinio-api/internal/repository/memory"
)

func seedDoctor(t *testing.T, store *memory.Store, email string) int64 {
	t.Helper()
	id, err := store.Create(context.Background(), &model.Account{
		Name: "Dr " + email, Email: email, PasswordHash: "x", Role: model.RoleDoctor,
	}, nil)
	require.NoError(t, err)
	return id
}

func seedPatient(t *testing.T, store *memory.Store, email string) int64 {
	t.Helper()
	id, err := store.Create(context.Background(), &model.Account{
		Name: "Pat " + email, Email: email, PasswordHash: "x", Role: model.RolePatient,
	}, nil)
	require.NoError(t, err)
	return id
}

func book(t *testing.T, store *memory.Store, doctorID, patientID int64, start time.Time, minutes int) int64 {
	t.Helper()
	id, err := store.CreateWithAdmission(context.Background(), &model.Appointment{
		DoctorID:        doctorID,
		PatientID:       patientID,
		StartTime:       start,
		DurationMinutes: minutes,
	})
	require.NoError(t, err)
	return id
}

func TestIsBookable(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store)
	ctx := context.Background()

	doctorID := seedDoctor(t, store, "doc@example.com")
	patientID := seedPatient(t, store, "pat@example.com")
	day := time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)

	ok, err := svc.IsBookable(ctx, doctorID, day, 60)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsBookable(ctx, doctorID, day, 10)
	require.NoError(t, err)
	assert.False(t, ok)

	for i := 0; i < 8; i++ {
		book(t, store, doctorID, patientID, day.Add(time.Duration(i)*time.Hour), 60)
	}

	ok, err = svc.IsBookable(ctx, doctorID, day.Add(9*time.Hour), 15)
	require.NoError(t, err)
	assert.False(t, ok)

	// Quota is per day.
	ok, err = svc.IsBookable(ctx, doctorID, day.AddDate(0, 0, 1), 60)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAvailableDoctorsStrictLimits(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store)
	ctx := context.Background()

	freeID := seedDoctor(t, store, "free@example.com")
	fullID := seedDoctor(t, store, "full@example.com")
	patientID := seedPatient(t, store, "pat@example.com")
	day := time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)

	// Fill one doctor to exactly 480 minutes.
	for i := 0; i < 8; i++ {
		book(t, store, fullID, patientID, day.Add(time.Duration(i)*time.Hour), 60)
	}
	book(t, store, freeID, patientID, day, 30)

	available, err := svc.AvailableDoctors(ctx, "2026-05-04")
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, freeID, available[0].DoctorID)

	// Both are free on another day.
	available, err = svc.AvailableDoctors(ctx, "2026-05-05")
	require.NoError(t, err)
	assert.Len(t, available, 2)
}

func TestAvailableDoctorsCountLimit(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store)
	ctx := context.Background()

	doctorID := seedDoctor(t, store, "doc@example.com")
	patientID := seedPatient(t, store, "pat@example.com")
	day := time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)

	// Twelve short appointments hit the count cap well under the minutes cap.
	for i := 0; i < 12; i++ {
		book(t, store, doctorID, patientID, day.Add(time.Duration(i)*20*time.Minute), 15)
	}

	available, err := svc.AvailableDoctors(ctx, "2026-05-04")
	require.NoError(t, err)
	assert.Empty(t, available)
}

func TestBusiestDoctors(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store)
	ctx := context.Background()

	patientID := seedPatient(t, store, "pat@example.com")
	day := time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)

	doctors := make([]int64, 3)
	for i := range doctors {
		doctors[i] = seedDoctor(t, store, fmt.Sprintf("doc%d@example.com", i))
	}

	// Two doctors tied at three appointments, one behind at one.
	for i := 0; i < 3; i++ {
		book(t, store, doctors[0], patientID, day.Add(time.Duration(i)*time.Hour), 30)
		book(t, store, doctors[1], patientID, day.Add(time.Duration(i)*time.Hour), 30)
	}
	book(t, store, doctors[2], patientID, day, 30)

	busiest, err := svc.BusiestDoctors(ctx, "2026-05-04")
	require.NoError(t, err)
	require.Len(t, busiest, 2)
	for _, stats := range busiest {
		assert.Equal(t, 3, stats.AppointmentCount)
		assert.NotEqual(t, doctors[2], stats.DoctorID)
	}
}

func TestBusiestDoctorsEmptyDay(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store)

	seedDoctor(t, store, "doc@example.com")

	busiest, err := svc.BusiestDoctors(context.Background(), "2026-05-04")
	require.NoError(t, err)
	assert.Empty(t, busiest)
}

func TestDoctorsOverHours(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store)
	ctx := context.Background()

	patientID := seedPatient(t, store, "pat@example.com")
	day := time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)

	overID := seedDoctor(t, store, "over@example.com")
	underID := seedDoctor(t, store, "under@example.com")

	// 360 booked minutes sits exactly on the six-hour threshold.
	for i := 0; i < 6; i++ {
		book(t, store, overID, patientID, day.Add(time.Duration(i)*time.Hour), 60)
	}
	book(t, store, underID, patientID, day, 120)

	over, err := svc.DoctorsOverHours(ctx, "2026-05-04", 0)
	require.NoError(t, err)
	require.Len(t, over, 1)
	assert.Equal(t, overID, over[0].DoctorID)
	assert.Equal(t, 360, over[0].BookedMinutes)

	// Explicit threshold overrides the default.
	over, err = svc.DoctorsOverHours(ctx, "2026-05-04", 120)
	require.NoError(t, err)
	assert.Len(t, over, 2)
}

func TestCancelledBookingsDoNotCountTowardStats(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store)
	ctx := context.Background()

	doctorID := seedDoctor(t, store, "doc@example.com")
	patientID := seedPatient(t, store, "pat@example.com")
	day := time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)

	id := book(t, store, doctorID, patientID, day, 120)
	doneID := book(t, store, doctorID, patientID, day.Add(2*time.Hour), 60)

	require.NoError(t, store.SetStatus(ctx, id, model.AppointmentStatusCancelled))
	require.NoError(t, store.SetStatus(ctx, doneID, model.AppointmentStatusDone))

	stats, err := svc.DailyStats(ctx, doctorID, "2026-05-04")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.AppointmentCount)
	assert.Equal(t, 60, stats.BookedMinutes)
}
