package appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinio/clinio-api/internal/model"
	"github.com/clinio/clinio-api/internal/repository/memory"
	"github.com/clinio/clinio-api/pkg/auth"
	apperrors "github.com/clinio/clinio-api/pkg/errors"
)

type capturingBroker struct {
	mu     sync.Mutex
	topics []string
}

func (b *capturingBroker) Publish(ctx context.Context, topic string, payload interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.topics = append(b.topics, topic)
	return nil
}

func (b *capturingBroker) Close() error { return nil }

type fixture struct {
	store     *memory.Store
	svc       *Service
	broker    *capturingBroker
	doctorID  int64
	patientID int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	broker := &capturingBroker{}
	svc := NewService(store, store, broker, nil)

	doctorID, err := store.Create(context.Background(), &model.Account{
		Name: "Dr Smith", Email: "doc@example.com", PasswordHash: "x", Role: model.RoleDoctor,
	}, nil)
	require.NoError(t, err)
	patientID, err := store.Create(context.Background(), &model.Account{
		Name: "Pat Jones", Email: "pat@example.com", PasswordHash: "x", Role: model.RolePatient,
	}, nil)
	require.NoError(t, err)

	return &fixture{store: store, svc: svc, broker: broker, doctorID: doctorID, patientID: patientID}
}

func adminClaims() *auth.Claims {
	return &auth.Claims{SubjectID: 100, Role: model.RoleAdmin}
}

func doctorClaims(id int64) *auth.Claims {
	return &auth.Claims{SubjectID: id, Role: model.RoleDoctor}
}

func patientClaims(id int64) *auth.Claims {
	return &auth.Claims{SubjectID: id, Role: model.RolePatient}
}

func TestBookPublishesEvent(t *testing.T) {
	f := newFixture(t)
	start := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

	id, err := f.svc.Book(context.Background(), f.doctorID, f.patientID, start, 30)
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	apt, err := f.store.GetAppointment(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusBooked, apt.Status)
	assert.Equal(t, []string{TopicBooked}, f.broker.topics)
}

func TestBookRejectsBadDuration(t *testing.T) {
	f := newFixture(t)
	start := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

	_, err := f.svc.Book(context.Background(), f.doctorID, f.patientID, start, 10)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	_, err = f.svc.Book(context.Background(), f.doctorID, f.patientID, start, 121)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	assert.Empty(t, f.broker.topics)
}

func TestBookRejectsFullDay(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		_, err := f.svc.Book(context.Background(), f.doctorID, f.patientID, day.Add(time.Duration(i)*2*time.Hour), 120)
		require.NoError(t, err)
	}

	_, err := f.svc.Book(context.Background(), f.doctorID, f.patientID, day.Add(9*time.Hour), 15)
	assert.True(t, apperrors.Is(err, apperrors.ErrSlotUnavailable))
}

func TestCancelOwnershipRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

	id, err := f.svc.Book(ctx, f.doctorID, f.patientID, start, 30)
	require.NoError(t, err)

	// The patient cannot cancel, nor can an unrelated doctor.
	err = f.svc.Cancel(ctx, patientClaims(f.patientID), id)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
	err = f.svc.Cancel(ctx, doctorClaims(f.doctorID+50), id)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	// The owning doctor can.
	require.NoError(t, f.svc.Cancel(ctx, doctorClaims(f.doctorID), id))

	apt, err := f.store.GetAppointment(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, apt.Status)
}

func TestTransitionsAreMonotone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

	id, err := f.svc.Book(ctx, f.doctorID, f.patientID, start, 30)
	require.NoError(t, err)

	require.NoError(t, f.svc.Cancel(ctx, adminClaims(), id))

	err = f.svc.Cancel(ctx, adminClaims(), id)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	err = f.svc.Complete(ctx, adminClaims(), id)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestCompleteByAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

	id, err := f.svc.Book(ctx, f.doctorID, f.patientID, start, 30)
	require.NoError(t, err)
	require.NoError(t, f.svc.Complete(ctx, adminClaims(), id))

	apt, err := f.store.GetAppointment(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusDone, apt.Status)
	assert.Equal(t, []string{TopicBooked, TopicDone}, f.broker.topics)
}

func TestTransitionMissingAppointment(t *testing.T) {
	f := newFixture(t)
	err := f.svc.Cancel(context.Background(), adminClaims(), 999)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestGetOwnerScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

	id, err := f.svc.Book(ctx, f.doctorID, f.patientID, start, 30)
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, adminClaims(), id)
	assert.NoError(t, err)
	_, err = f.svc.Get(ctx, doctorClaims(f.doctorID), id)
	assert.NoError(t, err)
	_, err = f.svc.Get(ctx, patientClaims(f.patientID), id)
	assert.NoError(t, err)

	_, err = f.svc.Get(ctx, patientClaims(f.patientID+50), id)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	_, err = f.svc.Get(ctx, adminClaims(), 999)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestListDoctorDayRedactsPatientIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

	_, err := f.svc.Book(ctx, f.doctorID, f.patientID, start, 30)
	require.NoError(t, err)

	day := model.DayOf(start)

	// Doctors and admins see patient identity.
	views, err := f.svc.ListDoctorDay(ctx, doctorClaims(f.doctorID), f.doctorID, day)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.NotNil(t, views[0].PatientID)
	assert.Equal(t, f.patientID, *views[0].PatientID)

	// Patients see the slot, never who holds it.
	views, err = f.svc.ListDoctorDay(ctx, patientClaims(f.patientID), f.doctorID, day)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].PatientID)
	assert.Equal(t, 30, views[0].DurationMinutes)
}

func TestPatientHistoryAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

	id, err := f.svc.Book(ctx, f.doctorID, f.patientID, start, 30)
	require.NoError(t, err)
	require.NoError(t, f.svc.Cancel(ctx, adminClaims(), id))
	_, err = f.svc.Book(ctx, f.doctorID, f.patientID, start.Add(time.Hour), 45)
	require.NoError(t, err)

	// History spans every status.
	history, err := f.svc.PatientHistory(ctx, patientClaims(f.patientID), f.patientID)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	history, err = f.svc.PatientHistory(ctx, doctorClaims(f.doctorID), f.patientID)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	_, err = f.svc.PatientHistory(ctx, patientClaims(f.patientID+50), f.patientID)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}
