package appointment

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medbook/medbook/internal/platform/apperr"
	"github.com/medbook/medbook/internal/platform/auth"
)

type mockRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*Appointment
	sessions     map[uuid.UUID]*SessionRecord // keyed by appointment id
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		appointments: make(map[uuid.UUID]*Appointment),
		sessions:     make(map[uuid.UUID]*SessionRecord),
	}
}

func (m *mockRepo) Create(ctx context.Context, a *Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	cp := *a
	m.appointments[a.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appointments[id]
	if !ok {
		return nil, apperr.NotFound("appointment not found")
	}
	cp := *a
	return &cp, nil
}

func (m *mockRepo) List(ctx context.Context, q ListQuery) ([]*Appointment, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []*Appointment
	for _, a := range m.appointments {
		switch q.Role {
		case auth.RolePatient:
			if a.PatientID != q.UserID {
				continue
			}
		case auth.RoleDoctor:
			if a.DoctorID != q.UserID {
				continue
			}
		}
		if q.UpcomingOnly {
			if a.Status != StatusScheduled || a.ScheduledTime.Before(q.Now) {
				continue
			}
		} else if q.Status != "" && a.Status != q.Status {
			continue
		}
		cp := *a
		items = append(items, &cp)
	}
	sort.Slice(items, func(i, j int) bool {
		if q.UpcomingOnly {
			return items[i].ScheduledTime.Before(items[j].ScheduledTime)
		}
		return items[i].ScheduledTime.After(items[j].ScheduledTime)
	})
	return items, len(items), nil
}

func (m *mockRepo) Cancel(ctx context.Context, id uuid.UUID, reason *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appointments[id]
	if !ok {
		return apperr.NotFound("appointment not found")
	}
	if a.Status != StatusScheduled {
		return apperr.Conflict("appointment is already " + a.Status)
	}
	a.Status = StatusCancelled
	a.CancelledReason = reason
	return nil
}

func (m *mockRepo) CreateSession(ctx context.Context, rec *SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appointments[rec.AppointmentID]
	if !ok {
		return apperr.NotFound("appointment not found")
	}
	if a.Status != StatusScheduled {
		return apperr.Conflict("appointment is not scheduled")
	}
	if _, exists := m.sessions[rec.AppointmentID]; exists {
		return apperr.Conflict("a session record already exists for this appointment")
	}
	a.Status = StatusCompleted
	rec.ID = uuid.New()
	rec.CreatedAt = time.Now()
	cp := *rec
	m.sessions[rec.AppointmentID] = &cp
	return nil
}

func (m *mockRepo) GetSessionByAppointment(ctx context.Context, appointmentID uuid.UUID) (*SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.sessions[appointmentID]
	if !ok {
		return nil, apperr.NotFound("no session record for this appointment")
	}
	cp := *rec
	return &cp, nil
}

type mockDirectory struct {
	approved map[uuid.UUID]bool
}

func (m *mockDirectory) ApprovedDoctor(ctx context.Context, userID uuid.UUID) error {
	approved, ok := m.approved[userID]
	if !ok {
		return apperr.NotFound("doctor not found")
	}
	if !approved {
		return apperr.Authorization("doctor is not accepting appointments")
	}
	return nil
}

func newTestService() (*Service, *mockRepo, *mockDirectory) {
	repo := newMockRepo()
	dir := &mockDirectory{approved: make(map[uuid.UUID]bool)}
	return NewService(repo, dir), repo, dir
}

func patientIdent() auth.Identity {
	return auth.Identity{UserID: uuid.New(), Role: auth.RolePatient}
}

func book(t *testing.T, svc *Service, dir *mockDirectory, patient auth.Identity, when time.Time) *Appointment {
	t.Helper()
	doctorID := uuid.New()
	dir.approved[doctorID] = true
	a, err := svc.Create(context.Background(), patient, CreateInput{
		DoctorID:      doctorID,
		ScheduledTime: when,
		Reason:        "annual checkup",
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	return a
}

func TestCreate(t *testing.T) {
	svc, _, dir := newTestService()
	patient := patientIdent()
	a := book(t, svc, dir, patient, time.Now().Add(48*time.Hour))

	if a.Status != StatusScheduled {
		t.Errorf("expected status scheduled, got %q", a.Status)
	}
	if a.DurationMin != DefaultDurationMin {
		t.Errorf("expected default duration %d, got %d", DefaultDurationMin, a.DurationMin)
	}
	if a.PatientID != patient.UserID {
		t.Error("expected the caller to be the patient")
	}
}

func TestCreate_Validation(t *testing.T) {
	svc, _, dir := newTestService()
	doctorID := uuid.New()
	dir.approved[doctorID] = true
	future := time.Now().Add(24 * time.Hour)

	cases := []struct {
		name string
		in   CreateInput
	}{
		{"missing doctor", CreateInput{ScheduledTime: future, Reason: "checkup"}},
		{"missing time", CreateInput{DoctorID: doctorID, Reason: "checkup"}},
		{"past time", CreateInput{DoctorID: doctorID, ScheduledTime: time.Now().Add(-time.Hour), Reason: "checkup"}},
		{"negative duration", CreateInput{DoctorID: doctorID, ScheduledTime: future, DurationMin: -15, Reason: "checkup"}},
		{"blank reason", CreateInput{DoctorID: doctorID, ScheduledTime: future, Reason: "   "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), patientIdent(), tc.in)
			if !apperr.IsKind(err, apperr.KindValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreate_OnlyPatients(t *testing.T) {
	svc, _, dir := newTestService()
	doctorID := uuid.New()
	dir.approved[doctorID] = true

	_, err := svc.Create(context.Background(),
		auth.Identity{UserID: uuid.New(), Role: auth.RoleDoctor},
		CreateInput{DoctorID: doctorID, ScheduledTime: time.Now().Add(time.Hour), Reason: "checkup"})
	if !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Fatalf("expected authorization error, got %v", err)
	}
}

func TestCreate_DoctorGate(t *testing.T) {
	svc, _, dir := newTestService()
	pending := uuid.New()
	dir.approved[pending] = false
	in := CreateInput{ScheduledTime: time.Now().Add(time.Hour), Reason: "checkup"}

	in.DoctorID = pending
	_, err := svc.Create(context.Background(), patientIdent(), in)
	if !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Errorf("unverified doctor: expected authorization error, got %v", err)
	}

	in.DoctorID = uuid.New()
	_, err = svc.Create(context.Background(), patientIdent(), in)
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("unknown doctor: expected not found, got %v", err)
	}
}

func TestCreate_DoctorRejectionKeepsBookings(t *testing.T) {
	svc, _, dir := newTestService()
	patient := patientIdent()
	a := book(t, svc, dir, patient, time.Now().Add(time.Hour))

	// Withdrawing approval blocks new bookings but leaves the existing
	// appointment scheduled and visible.
	dir.approved[a.DoctorID] = false

	_, err := svc.Create(context.Background(), patient, CreateInput{
		DoctorID:      a.DoctorID,
		ScheduledTime: time.Now().Add(2 * time.Hour),
		Reason:        "follow up",
	})
	if !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Errorf("rebooking rejected doctor: expected authorization error, got %v", err)
	}

	got, err := svc.Get(context.Background(), patient, a.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Status != StatusScheduled {
		t.Errorf("status = %q, want %q after the doctor is rejected", got.Status, StatusScheduled)
	}

	upcoming, _, err := svc.ListUpcoming(context.Background(), patient, 10, 0)
	if err != nil {
		t.Fatalf("ListUpcoming() error: %v", err)
	}
	if len(upcoming) != 1 || upcoming[0].ID != a.ID {
		t.Errorf("upcoming = %d entries, want the existing booking", len(upcoming))
	}
}

func TestListUpcoming_ScopedAndOrdered(t *testing.T) {
	svc, repo, dir := newTestService()
	patient := patientIdent()
	later := book(t, svc, dir, patient, time.Now().Add(72*time.Hour))
	sooner := book(t, svc, dir, patient, time.Now().Add(24*time.Hour))
	book(t, svc, dir, patientIdent(), time.Now().Add(24*time.Hour))

	cancelled := book(t, svc, dir, patient, time.Now().Add(96*time.Hour))
	if err := repo.Cancel(context.Background(), cancelled.ID, nil); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	items, total, err := svc.ListUpcoming(context.Background(), patient, 20, 0)
	if err != nil {
		t.Fatalf("ListUpcoming() error: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 upcoming appointments, got %d", total)
	}
	if items[0].ID != sooner.ID || items[1].ID != later.ID {
		t.Error("expected soonest-first ordering")
	}
}

func TestList_StatusFilter(t *testing.T) {
	svc, repo, dir := newTestService()
	patient := patientIdent()
	book(t, svc, dir, patient, time.Now().Add(24*time.Hour))
	cancelled := book(t, svc, dir, patient, time.Now().Add(48*time.Hour))
	if err := repo.Cancel(context.Background(), cancelled.ID, nil); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	items, _, err := svc.List(context.Background(), patient, StatusCancelled, 20, 0)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(items) != 1 || items[0].ID != cancelled.ID {
		t.Error("expected only the cancelled appointment")
	}

	if _, _, err := svc.List(context.Background(), patient, "pending", 20, 0); !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("expected validation error for unknown status, got %v", err)
	}
}

func TestGet_Authorization(t *testing.T) {
	svc, _, dir := newTestService()
	patient := patientIdent()
	a := book(t, svc, dir, patient, time.Now().Add(24*time.Hour))

	if _, err := svc.Get(context.Background(), patient, a.ID); err != nil {
		t.Errorf("patient: unexpected error: %v", err)
	}
	doctor := auth.Identity{UserID: a.DoctorID, Role: auth.RoleDoctor}
	if _, err := svc.Get(context.Background(), doctor, a.ID); err != nil {
		t.Errorf("doctor: unexpected error: %v", err)
	}
	admin := auth.Identity{UserID: uuid.New(), Role: auth.RoleAdmin}
	if _, err := svc.Get(context.Background(), admin, a.ID); err != nil {
		t.Errorf("admin: unexpected error: %v", err)
	}

	stranger := patientIdent()
	if _, err := svc.Get(context.Background(), stranger, a.ID); !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Errorf("stranger: expected authorization error, got %v", err)
	}
}

func TestCancel(t *testing.T) {
	svc, _, dir := newTestService()
	patient := patientIdent()
	a := book(t, svc, dir, patient, time.Now().Add(24*time.Hour))

	out, err := svc.Cancel(context.Background(), patient, a.ID, "feeling better")
	if err != nil {
		t.Fatalf("Cancel() error: %v", err)
	}
	if out.Status != StatusCancelled {
		t.Errorf("expected status cancelled, got %q", out.Status)
	}
	if out.CancelledReason == nil || *out.CancelledReason != "feeling better" {
		t.Error("expected the cancellation reason to be stored")
	}
}

func TestCancel_NotIdempotent(t *testing.T) {
	svc, _, dir := newTestService()
	patient := patientIdent()
	a := book(t, svc, dir, patient, time.Now().Add(24*time.Hour))

	if _, err := svc.Cancel(context.Background(), patient, a.ID, ""); err != nil {
		t.Fatalf("first cancel failed: %v", err)
	}
	_, err := svc.Cancel(context.Background(), patient, a.ID, "")
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict on second cancel, got %v", err)
	}
}

func TestCancel_StrangerRejected(t *testing.T) {
	svc, _, dir := newTestService()
	a := book(t, svc, dir, patientIdent(), time.Now().Add(24*time.Hour))

	_, err := svc.Cancel(context.Background(), patientIdent(), a.ID, "")
	if !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Fatalf("expected authorization error, got %v", err)
	}
}

func TestCreateSession(t *testing.T) {
	svc, repo, dir := newTestService()
	a := book(t, svc, dir, patientIdent(), time.Now().Add(24*time.Hour))
	doctor := auth.Identity{UserID: a.DoctorID, Role: auth.RoleDoctor}
	diagnosis := "seasonal allergies"

	rec, err := svc.CreateSession(context.Background(), doctor, a.ID, SessionInput{Diagnosis: &diagnosis})
	if err != nil {
		t.Fatalf("CreateSession() error: %v", err)
	}
	if rec.StartTime.IsZero() {
		t.Error("expected start_time to be set by the server")
	}
	got, err := repo.GetByID(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Errorf("expected appointment completed, got %q", got.Status)
	}
}

func TestCreateSession_OnlyAssignedDoctor(t *testing.T) {
	svc, _, dir := newTestService()
	patient := patientIdent()
	a := book(t, svc, dir, patient, time.Now().Add(24*time.Hour))

	callers := []auth.Identity{
		patient,
		{UserID: uuid.New(), Role: auth.RoleDoctor},
		{UserID: uuid.New(), Role: auth.RoleAdmin},
	}
	for _, ident := range callers {
		_, err := svc.CreateSession(context.Background(), ident, a.ID, SessionInput{})
		if !apperr.IsKind(err, apperr.KindAuthorization) {
			t.Errorf("role %s: expected authorization error, got %v", ident.Role, err)
		}
	}
}

func TestCreateSession_EndTimeBeforeScheduled(t *testing.T) {
	svc, _, dir := newTestService()
	a := book(t, svc, dir, patientIdent(), time.Now().Add(24*time.Hour))
	doctor := auth.Identity{UserID: a.DoctorID, Role: auth.RoleDoctor}
	early := a.ScheduledTime.Add(-time.Hour)

	_, err := svc.CreateSession(context.Background(), doctor, a.ID, SessionInput{EndTime: &early})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateSession_WriteOnce(t *testing.T) {
	svc, _, dir := newTestService()
	a := book(t, svc, dir, patientIdent(), time.Now().Add(24*time.Hour))
	doctor := auth.Identity{UserID: a.DoctorID, Role: auth.RoleDoctor}

	if _, err := svc.CreateSession(context.Background(), doctor, a.ID, SessionInput{}); err != nil {
		t.Fatalf("first CreateSession failed: %v", err)
	}
	_, err := svc.CreateSession(context.Background(), doctor, a.ID, SessionInput{})
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict on second write, got %v", err)
	}
}

func TestCreateSession_ConcurrentSingleWinner(t *testing.T) {
	svc, _, dir := newTestService()
	a := book(t, svc, dir, patientIdent(), time.Now().Add(24*time.Hour))
	doctor := auth.Identity{UserID: a.DoctorID, Role: auth.RoleDoctor}

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateSession(context.Background(), doctor, a.ID, SessionInput{})
		}(i)
	}
	wg.Wait()

	var won, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case apperr.IsKind(err, apperr.KindConflict):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if won != 1 {
		t.Errorf("expected exactly one winner, got %d", won)
	}
	if conflicts != workers-1 {
		t.Errorf("expected %d conflicts, got %d", workers-1, conflicts)
	}
}

func TestGetSession(t *testing.T) {
	svc, _, dir := newTestService()
	patient := patientIdent()
	a := book(t, svc, dir, patient, time.Now().Add(24*time.Hour))
	doctor := auth.Identity{UserID: a.DoctorID, Role: auth.RoleDoctor}

	if _, err := svc.GetSession(context.Background(), patient, a.ID); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("expected not found before the record is filed, got %v", err)
	}

	if _, err := svc.CreateSession(context.Background(), doctor, a.ID, SessionInput{}); err != nil {
		t.Fatalf("CreateSession() error: %v", err)
	}
	if _, err := svc.GetSession(context.Background(), patient, a.ID); err != nil {
		t.Errorf("patient: unexpected error: %v", err)
	}
	if _, err := svc.GetSession(context.Background(), patientIdent(), a.ID); !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Error("expected authorization error for a stranger")
	}
}

func TestCanTransition(t *testing.T) {
	if !CanTransition(StatusScheduled, StatusCancelled) {
		t.Error("scheduled should cancel")
	}
	if CanTransition(StatusCompleted, StatusCancelled) {
		t.Error("completed is terminal")
	}
	if CanTransition(StatusCancelled, StatusScheduled) {
		t.Error("cancelled is terminal")
	}
}
