package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clinio/clinio-api/internal/email"
	"github.com/clinio/clinio-api/internal/model"
	"github.com/clinio/clinio-api/internal/repository"
	"github.com/clinio/clinio-api/pkg/auth"
	"github.com/clinio/clinio-api/pkg/authz"
	apperrors "github.com/clinio/clinio-api/pkg/errors"
	"github.com/clinio/clinio-api/pkg/messaging"
)

const (
	TopicBooked    = "appointment.booked"
	TopicCancelled = "appointment.cancelled"
	TopicDone      = "appointment.done"
)

type Event struct {
	AppointmentID int64                   `json:"appointment_id"`
	DoctorID      int64                   `json:"doctor_id"`
	PatientID     int64                   `json:"patient_id"`
	Status        model.AppointmentStatus `json:"status"`
	At            time.Time               `json:"at"`
}

type Service struct {
	repo        repository.AppointmentRepository
	accountRepo repository.AccountRepository
	broker      messaging.Publisher
	mailer      email.Service
}

// NewService wires the lifecycle manager. broker may be nil and mailer may be
// the noop implementation; both are best-effort collaborators.
func NewService(repo repository.AppointmentRepository, accountRepo repository.AccountRepository,
	broker messaging.Publisher, mailer email.Service) *Service {
	if mailer == nil {
		mailer = email.NewNoop()
	}
	return &Service{
		repo:        repo,
		accountRepo: accountRepo,
		broker:      broker,
		mailer:      mailer,
	}
}

// Book admits and creates an appointment. Duration bounds are rejected before
// touching the store; the quota is pre-checked as a fast path and re-checked
// inside the store transaction, which is the source of truth.
func (s *Service) Book(ctx context.Context, doctorID, patientID int64, startTime time.Time, durationMinutes int) (int64, error) {
	if durationMinutes < model.MinDurationMinutes || durationMinutes > model.MaxDurationMinutes {
		return 0, apperrors.Validation(
			fmt.Sprintf("duration must be between %d and %d minutes", model.MinDurationMinutes, model.MaxDurationMinutes), nil)
	}

	stats, err := s.repo.DoctorDayStats(ctx, doctorID, model.DayOf(startTime))
	if err != nil {
		return 0, err
	}
	if !stats.Admits(durationMinutes) {
		return 0, apperrors.SlotUnavailable()
	}

	apt := &model.Appointment{
		DoctorID:        doctorID,
		PatientID:       patientID,
		StartTime:       startTime,
		DurationMinutes: durationMinutes,
		Status:          model.AppointmentStatusBooked,
	}

	id, err := s.repo.CreateWithAdmission(ctx, apt)
	if err != nil {
		return 0, err
	}
	apt.ID = id

	s.notify(ctx, TopicBooked, apt)
	return id, nil
}

// Cancel transitions Booked -> Cancelled. Admin always; a doctor only for
// their own appointments.
func (s *Service) Cancel(ctx context.Context, claims *auth.Claims, id int64) error {
	return s.transition(ctx, claims, id, model.AppointmentStatusCancelled, TopicCancelled)
}

// Complete transitions Booked -> Done, under the same ownership rule as Cancel.
func (s *Service) Complete(ctx context.Context, claims *auth.Claims, id int64) error {
	return s.transition(ctx, claims, id, model.AppointmentStatusDone, TopicDone)
}

func (s *Service) transition(ctx context.Context, claims *auth.Claims, id int64, status model.AppointmentStatus, topic string) error {
	apt, err := s.repo.GetAppointment(ctx, id)
	if err != nil {
		return err
	}

	if !authz.CanTransitionAppointment(claims, apt) {
		return apperrors.Forbidden("not allowed to modify this appointment")
	}

	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return err
	}

	apt.Status = status
	s.notify(ctx, topic, apt)
	return nil
}

// Get returns the appointment detail, owner-scoped: admin always, doctor or
// patient only their own.
func (s *Service) Get(ctx context.Context, claims *auth.Claims, id int64) (*model.Appointment, error) {
	apt, err := s.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanViewAppointment(claims, apt) {
		return nil, apperrors.Forbidden("not allowed to view this appointment")
	}
	return apt, nil
}

// ListDoctorDay returns a doctor's booked slots for a day. Patient identity
// is redacted unless the caller is a doctor or admin.
func (s *Service) ListDoctorDay(ctx context.Context, claims *auth.Claims, doctorID int64, day string) ([]model.AppointmentView, error) {
	appointments, err := s.repo.ListDoctorDay(ctx, doctorID, day)
	if err != nil {
		return nil, err
	}

	showPatient := authz.CanSeePatientIdentity(claims)
	views := make([]model.AppointmentView, 0, len(appointments))
	for _, apt := range appointments {
		view := model.AppointmentView{
			ID:              apt.ID,
			DoctorID:        apt.DoctorID,
			StartTime:       apt.StartTime,
			DurationMinutes: apt.DurationMinutes,
			Status:          apt.Status,
		}
		if showPatient {
			patientID := apt.PatientID
			view.PatientID = &patientID
		}
		views = append(views, view)
	}
	return views, nil
}

// PatientHistory returns all of a patient's appointments, any status, any
// time. The patient themself or any non-patient role.
func (s *Service) PatientHistory(ctx context.Context, claims *auth.Claims, patientID int64) ([]*model.Appointment, error) {
	if !authz.CanViewPatientHistory(claims, patientID) {
		return nil, apperrors.Forbidden("not allowed to view this patient's history")
	}
	return s.repo.ListPatient(ctx, patientID)
}

// notify publishes the lifecycle event and emails the patient. Best effort:
// failures are logged, never surfaced to the caller.
func (s *Service) notify(ctx context.Context, topic string, apt *model.Appointment) {
	if s.broker != nil {
		event := Event{
			AppointmentID: apt.ID,
			DoctorID:      apt.DoctorID,
			PatientID:     apt.PatientID,
			Status:        apt.Status,
			At:            time.Now(),
		}
		if err := s.broker.Publish(ctx, topic, event); err != nil {
			log.Error().Err(err).Str("topic", topic).Int64("appointment_id", apt.ID).
				Msg("failed to publish appointment event")
		}
	}

	patient, err := s.accountRepo.Get(ctx, apt.PatientID)
	if err != nil {
		log.Error().Err(err).Int64("patient_id", apt.PatientID).
			Msg("failed to load patient for notification")
		return
	}

	switch topic {
	case TopicBooked:
		err = s.mailer.SendBookingConfirmation(ctx, patient.Email, patient.Name, apt)
	case TopicCancelled:
		err = s.mailer.SendCancellation(ctx, patient.Email, patient.Name, apt)
	default:
		return
	}
	if err != nil {
		log.Error().Err(err).Int64("appointment_id", apt.ID).Msg("failed to send notification email")
	}
}
