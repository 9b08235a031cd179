package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/clinicore/emr-system/internal/core/domain"
	"github.com/clinicore/emr-system/internal/core/ports"
)

type stubAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[string]*domain.Appointment
	nextID       int
}

func newStubAppointmentRepo() *stubAppointmentRepo {
	return &stubAppointmentRepo{appointments: make(map[string]*domain.Appointment)}
}

func cloneAppointment(a *domain.Appointment) *domain.Appointment {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAppointmentRepo) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	copy := cloneAppointment(a)
	copy.ID = fmt.Sprintf("appt_%d", r.nextID)
	r.appointments[copy.ID] = cloneAppointment(copy)
	return copy, nil
}

func (r *stubAppointmentRepo) FindByID(_ context.Context, id string) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.appointments[id]; ok {
		return cloneAppointment(a), nil
	}
	return nil, domain.ErrAppointmentNotFound
}

func (r *stubAppointmentRepo) Update(_ context.Context, a *domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appointments[a.ID]; !ok {
		return domain.ErrAppointmentNotFound
	}
	r.appointments[a.ID] = cloneAppointment(a)
	return nil
}

func (r *stubAppointmentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appointments[id]; !ok {
		return domain.ErrAppointmentNotFound
	}
	delete(r.appointments, id)
	return nil
}

func (r *stubAppointmentRepo) List(_ context.Context, filter ports.ListAppointmentsFilter) ([]*domain.Appointment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Appointment, 0)
	for _, a := range r.appointments {
		if filter.ProviderID != "" && a.ProviderID != filter.ProviderID {
			continue
		}
		if filter.Date != "" && a.Date != filter.Date {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		out = append(out, cloneAppointment(a))
	}
	return out, int64(len(out)), nil
}

func (r *stubAppointmentRepo) CountConflicts(_ context.Context, providerID, date, startTime, excludeID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, a := range r.appointments {
		if a.ID == excludeID {
			continue
		}
		if a.ProviderID == providerID && a.Date == date && a.StartTime == startTime && a.Status.Blocking() {
			n++
		}
	}
	return n, nil
}

// recordingDispatcher captures enqueued mail for assertions.
type recordingDispatcher struct {
	mu   sync.Mutex
	sent []ports.MailMessage
}

func (d *recordingDispatcher) Enqueue(_ string, msg ports.MailMessage) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, msg)
}

func newTestAppointmentService(t *testing.T) (*AppointmentService, *stubAppointmentRepo, *recordingDispatcher) {
	t.Helper()
	appts := newStubAppointmentRepo()
	patients := newStubPatientRepo()
	users := newStubUserRepo()
	dispatcher := &recordingDispatcher{}

	if _, err := patients.Create(context.Background(), &domain.Patient{
		ID: "pat_1", FirstName: "Ana", LastName: "Gomez", Email: "ana@example.test", IsActive: true,
	}); err != nil {
		t.Fatalf("seed patient: %v", err)
	}
	if _, err := users.Create(context.Background(), &domain.User{
		FirstName: "Bob", LastName: "Lee", Email: "bob@clinic.test", EmployeeID: "EMP-1",
		Role: domain.RoleDoctor, IsActive: true,
	}); err != nil {
		t.Fatalf("seed provider: %v", err)
	}

	svc := NewAppointmentService(appts, patients, users, dispatcher, zerolog.Nop())
	return svc, appts, dispatcher
}

func seededIDs(t *testing.T, svc *AppointmentService) (patientID, providerID string) {
	t.Helper()
	// Stub repos assign deterministic ids.
	return "patient_1", "id_bob@clinic.test"
}

func TestAppointmentService_Create_ConflictRejected(t *testing.T) {
	svc, _, _ := newTestAppointmentService(t)
	patientID, providerID := seededIDs(t, svc)

	input := ports.CreateAppointmentInput{
		PatientID:  patientID,
		ProviderID: providerID,
		Date:       "2030-05-01",
		StartTime:  "09:00",
		EndTime:    "09:30",
		CreatedBy:  "recep-1",
	}
	first, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if first.Status != domain.AppointmentScheduled {
		t.Fatalf("status = %q, want scheduled", first.Status)
	}
	if first.DurationMinutes != 30 {
		t.Fatalf("duration = %d, want 30", first.DurationMinutes)
	}

	// Same provider, date, and start time: rejected.
	if _, err := svc.Create(context.Background(), input); err != domain.ErrAppointmentConflict {
		t.Fatalf("expected ErrAppointmentConflict, got %v", err)
	}
}

func TestAppointmentService_Create_CancelledSlotIsFree(t *testing.T) {
	svc, _, _ := newTestAppointmentService(t)
	patientID, providerID := seededIDs(t, svc)

	input := ports.CreateAppointmentInput{
		PatientID:  patientID,
		ProviderID: providerID,
		Date:       "2030-05-01",
		StartTime:  "09:00",
		EndTime:    "09:30",
		CreatedBy:  "recep-1",
	}
	first, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if err := svc.Cancel(context.Background(), first.ID, "recep-1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// The cancelled appointment no longer blocks the slot.
	if _, err := svc.Create(context.Background(), input); err != nil {
		t.Fatalf("rebooking freed slot: %v", err)
	}
}

func TestAppointmentService_Update_ExcludesSelfFromConflict(t *testing.T) {
	svc, _, _ := newTestAppointmentService(t)
	patientID, providerID := seededIDs(t, svc)

	appt, err := svc.Create(context.Background(), ports.CreateAppointmentInput{
		PatientID:  patientID,
		ProviderID: providerID,
		Date:       "2030-05-01",
		StartTime:  "09:00",
		EndTime:    "09:30",
		CreatedBy:  "recep-1",
	})
	if err != nil {
		t.Fatalf("booking: %v", err)
	}

	// Confirming without moving the slot must not conflict with itself.
	updated, err := svc.Update(context.Background(), appt.ID, ports.UpdateAppointmentInput{
		Status:    domain.AppointmentConfirmed,
		UpdatedBy: "recep-1",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != domain.AppointmentConfirmed {
		t.Fatalf("status = %q, want confirmed", updated.Status)
	}
}

func TestAppointmentService_Update_MoveIntoTakenSlot(t *testing.T) {
	svc, _, _ := newTestAppointmentService(t)
	patientID, providerID := seededIDs(t, svc)

	if _, err := svc.Create(context.Background(), ports.CreateAppointmentInput{
		PatientID: patientID, ProviderID: providerID,
		Date: "2030-05-01", StartTime: "09:00", EndTime: "09:30", CreatedBy: "recep-1",
	}); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	second, err := svc.Create(context.Background(), ports.CreateAppointmentInput{
		PatientID: patientID, ProviderID: providerID,
		Date: "2030-05-01", StartTime: "10:00", EndTime: "10:30", CreatedBy: "recep-1",
	})
	if err != nil {
		t.Fatalf("second booking: %v", err)
	}

	if _, err := svc.Update(context.Background(), second.ID, ports.UpdateAppointmentInput{
		StartTime: "09:00", EndTime: "09:30", UpdatedBy: "recep-1",
	}); err != domain.ErrAppointmentConflict {
		t.Fatalf("expected ErrAppointmentConflict, got %v", err)
	}
}

func TestAppointmentService_Create_QueuesConfirmationMail(t *testing.T) {
	svc, _, dispatcher := newTestAppointmentService(t)
	patientID, providerID := seededIDs(t, svc)

	if _, err := svc.Create(context.Background(), ports.CreateAppointmentInput{
		PatientID: patientID, ProviderID: providerID,
		Date: "2030-05-01", StartTime: "09:00", EndTime: "09:30", CreatedBy: "recep-1",
	}); err != nil {
		t.Fatalf("booking: %v", err)
	}

	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	if len(dispatcher.sent) != 1 {
		t.Fatalf("queued mails = %d, want 1", len(dispatcher.sent))
	}
	if dispatcher.sent[0].To != "ana@example.test" {
		t.Fatalf("mail to = %q, want patient email", dispatcher.sent[0].To)
	}
}

func TestAppointmentService_Create_UnknownReferences(t *testing.T) {
	svc, _, _ := newTestAppointmentService(t)
	_, providerID := seededIDs(t, svc)

	if _, err := svc.Create(context.Background(), ports.CreateAppointmentInput{
		PatientID: "missing", ProviderID: providerID,
		Date: "2030-05-01", StartTime: "09:00", EndTime: "09:30",
	}); err != domain.ErrPatientNotFound {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
	if _, err := svc.Create(context.Background(), ports.CreateAppointmentInput{
		PatientID: "patient_1", ProviderID: "missing",
		Date: "2030-05-01", StartTime: "09:00", EndTime: "09:30",
	}); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
