package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicore/emr-system/internal/metrics"
	"github.com/clinicore/emr-system/internal/core/domain"
	"github.com/clinicore/emr-system/internal/core/ports"
)

// AppointmentService implements booking with the provider-slot conflict rule.
//
// The conflict check and the subsequent write are two separate operations, not
// one transaction: two requests racing for the same slot can both pass the
// check. The window is narrow and accepted; the scheduling invariant is
// re-checked on every update.
type AppointmentService struct {
	appointments ports.AppointmentRepository
	patients     ports.PatientRepository
	users        ports.UserRepository
	notifier     ports.NotificationDispatcher
	log          zerolog.Logger
	now          func() time.Time
}

func NewAppointmentService(
	appointments ports.AppointmentRepository,
	patients ports.PatientRepository,
	users ports.UserRepository,
	notifier ports.NotificationDispatcher,
	log zerolog.Logger,
) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		patients:     patients,
		users:        users,
		notifier:     notifier,
		log:          log,
		now:          time.Now,
	}
}

// Create books an appointment after validating referenced entities and the
// conflict rule, then queues a confirmation mail. Mail delivery is not part of
// the request's success.
func (s *AppointmentService) Create(ctx context.Context, input ports.CreateAppointmentInput) (*domain.Appointment, error) {
	patient, err := s.patients.FindByID(ctx, input.PatientID)
	if err != nil {
		return nil, err
	}
	provider, err := s.users.FindByID(ctx, input.ProviderID)
	if err != nil {
		return nil, err
	}

	if err := s.checkConflict(ctx, input.ProviderID, input.Date, input.StartTime, ""); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	appt := &domain.Appointment{
		PatientID:       input.PatientID,
		ProviderID:      input.ProviderID,
		Date:            input.Date,
		StartTime:       input.StartTime,
		EndTime:         input.EndTime,
		DurationMinutes: input.DurationMinutes,
		Status:          domain.AppointmentScheduled,
		Reason:          input.Reason,
		Department:      input.Department,
		CreatedBy:       input.CreatedBy,
		UpdatedBy:       input.CreatedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if appt.DurationMinutes == 0 {
		appt.DurationMinutes = slotDuration(input.StartTime, input.EndTime)
	}

	created, err := s.appointments.Create(ctx, appt)
	if err != nil {
		return nil, err
	}

	metrics.AppointmentsCreatedTotal.Inc()
	s.log.Info().
		Str("appointment_id", created.ID).
		Str("provider_id", created.ProviderID).
		Str("date", created.Date).
		Str("start_time", created.StartTime).
		Msg("appointment booked")

	s.queueConfirmation(patient, provider, created)
	return created, nil
}

func (s *AppointmentService) Get(ctx context.Context, id string) (*domain.Appointment, error) {
	return s.appointments.FindByID(ctx, id)
}

// Update applies changes and re-runs the conflict rule when the slot moves,
// excluding the appointment itself from the conflict query.
func (s *AppointmentService) Update(ctx context.Context, id string, input ports.UpdateAppointmentInput) (*domain.Appointment, error) {
	appt, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Date != "" {
		appt.Date = input.Date
	}
	if input.StartTime != "" {
		appt.StartTime = input.StartTime
	}
	if input.EndTime != "" {
		appt.EndTime = input.EndTime
	}
	if input.Status != "" {
		if !input.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, input.Status)
		}
		appt.Status = input.Status
	}
	if input.Reason != "" {
		appt.Reason = input.Reason
	}
	if input.Notes != "" {
		appt.Notes = input.Notes
	}

	if appt.Status.Blocking() {
		if err := s.checkConflict(ctx, appt.ProviderID, appt.Date, appt.StartTime, appt.ID); err != nil {
			return nil, err
		}
	}

	appt.DurationMinutes = slotDuration(appt.StartTime, appt.EndTime)
	appt.UpdatedBy = input.UpdatedBy
	appt.UpdatedAt = s.now().UTC()

	if err := s.appointments.Update(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// Cancel marks the appointment cancelled, freeing the provider's slot.
func (s *AppointmentService) Cancel(ctx context.Context, id, cancelledBy string) error {
	appt, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	appt.Status = domain.AppointmentCancelled
	appt.UpdatedBy = cancelledBy
	appt.UpdatedAt = s.now().UTC()

	if err := s.appointments.Update(ctx, appt); err != nil {
		return err
	}
	s.log.Info().Str("appointment_id", id).Str("cancelled_by", cancelledBy).Msg("appointment cancelled")
	return nil
}

func (s *AppointmentService) List(ctx context.Context, filter ports.ListAppointmentsFilter) ([]*domain.Appointment, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.appointments.List(ctx, filter)
}

// Today lists appointments on the current calendar day, optionally scoped to
// one provider.
func (s *AppointmentService) Today(ctx context.Context, providerID string) ([]*domain.Appointment, error) {
	items, _, err := s.appointments.List(ctx, ports.ListAppointmentsFilter{
		ProviderID: providerID,
		Date:       s.now().Format("2006-01-02"),
		Page:       1,
		Limit:      100,
	})
	return items, err
}

// checkConflict rejects a slot already held by a blocking appointment for the
// same provider, date, and start time.
func (s *AppointmentService) checkConflict(ctx context.Context, providerID, date, startTime, excludeID string) error {
	n, err := s.appointments.CountConflicts(ctx, providerID, date, startTime, excludeID)
	if err != nil {
		return fmt.Errorf("conflict check: %w", err)
	}
	if n > 0 {
		metrics.AppointmentConflictsTotal.Inc()
		return domain.ErrAppointmentConflict
	}
	return nil
}

func (s *AppointmentService) queueConfirmation(patient *domain.Patient, provider *domain.User, appt *domain.Appointment) {
	if s.notifier == nil || patient.Email == "" {
		return
	}
	s.notifier.Enqueue(patient.ID, ports.MailMessage{
		To:      patient.Email,
		Subject: "Appointment confirmation",
		Body: fmt.Sprintf(
			"Dear %s %s,\n\nYour appointment with %s is confirmed for %s at %s.\n",
			patient.FirstName, patient.LastName, provider.FullName(), appt.Date, appt.StartTime,
		),
	})
}

// slotDuration computes the minutes between two HH:MM times; 0 when either is
// malformed or the range is inverted.
func slotDuration(start, end string) int {
	st, err1 := time.Parse("15:04", start)
	et, err2 := time.Parse("15:04", end)
	if err1 != nil || err2 != nil || !et.After(st) {
		return 0
	}
	return int(et.Sub(st).Minutes())
}
