package integration

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/medbook/medbook/internal/domain/appointment"
	"github.com/medbook/medbook/internal/domain/identity"
	"github.com/medbook/medbook/internal/domain/profile"
	"github.com/medbook/medbook/internal/domain/telehealth"
	"github.com/medbook/medbook/internal/platform/apperr"
	"github.com/medbook/medbook/internal/platform/auth"
	"github.com/medbook/medbook/internal/platform/db"
)

// services wires the real Postgres repositories into the service layer the
// same way the server entrypoint does.
type services struct {
	identity     *identity.Service
	profiles     *profile.Service
	appointments *appointment.Service
	telehealth   *telehealth.Service
}

var (
	migrateOnce sync.Once
	migrateErr  error
)

func runMigrations(t *testing.T, ctx context.Context) {
	t.Helper()
	migrateOnce.Do(func() {
		_, migrateErr = db.NewMigrator(globalDB.Pool, globalDB.MigrationsDir).Up(ctx)
	})
	if migrateErr != nil {
		t.Fatalf("run migrations: %v", migrateErr)
	}
}

func newServices(t *testing.T) (*services, func()) {
	t.Helper()
	pool := globalDB.Pool

	issuer := auth.NewTokenIssuer("integration-test-secret", 15*time.Minute, 24*time.Hour)
	revocations := auth.NewTokenRevocationStore()
	inTx := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return db.InTx(ctx, pool, fn)
	}

	profileSvc := profile.NewService(profile.NewPatientRepoPG(pool), profile.NewDoctorRepoPG(pool))
	identitySvc := identity.NewService(identity.NewRepoPG(pool), profileSvc, issuer, revocations, inTx, bcrypt.MinCost)

	appointmentRepo := appointment.NewRepoPG(pool)
	appointmentSvc := appointment.NewService(appointmentRepo, profileSvc)

	telehealthSvc := telehealth.NewService(
		telehealth.NewRepoPG(pool),
		appointmentRepo,
		telehealth.NewLocalProvider("http://localhost:3000"),
	)

	return &services{
		identity:     identitySvc,
		profiles:     profileSvc,
		appointments: appointmentSvc,
		telehealth:   telehealthSvc,
	}, revocations.Close
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@example.com", prefix, strings.ReplaceAll(uuid.New().String()[:8], "-", ""))
}

func registerPatient(t *testing.T, ctx context.Context, svcs *services) *identity.User {
	t.Helper()
	u, err := svcs.identity.RegisterPatient(ctx, identity.RegisterInput{
		Email:     uniqueEmail("patient"),
		Password:  "patient-pass-1",
		FirstName: "Priya",
		LastName:  "Nair",
	})
	if err != nil {
		t.Fatalf("register patient: %v", err)
	}
	return u
}

func registerApprovedDoctor(t *testing.T, ctx context.Context, svcs *services) *identity.User {
	t.Helper()
	u, err := svcs.identity.RegisterDoctor(ctx, identity.RegisterDoctorInput{
		RegisterInput: identity.RegisterInput{
			Email:     uniqueEmail("doctor"),
			Password:  "doctor-pass-1",
			FirstName: "Arun",
			LastName:  "Menon",
		},
		LicenseNumber:  "LIC-" + uuid.New().String()[:8],
		Specialization: "cardiology",
	})
	if err != nil {
		t.Fatalf("register doctor: %v", err)
	}
	if err := svcs.profiles.SetVerification(ctx, u.ID, profile.VerificationApproved); err != nil {
		t.Fatalf("approve doctor: %v", err)
	}
	return u
}

func bookAppointment(t *testing.T, ctx context.Context, svcs *services, patient, doctor *identity.User) *appointment.Appointment {
	t.Helper()
	a, err := svcs.appointments.Create(ctx, auth.Identity{UserID: patient.ID, Role: auth.RolePatient}, appointment.CreateInput{
		DoctorID:      doctor.ID,
		ScheduledTime: time.Now().Add(48 * time.Hour).Truncate(time.Second).UTC(),
		Reason:        "chest pain follow up",
	})
	if err != nil {
		t.Fatalf("book appointment: %v", err)
	}
	return a
}

// TestBookingFlow walks the whole happy path against a real database:
// registration, approval, login, booking, consultation, and the video room.
func TestBookingFlow(t *testing.T) {
	ctx := context.Background()
	runMigrations(t, ctx)

	svcs, cleanup := newServices(t)
	defer cleanup()

	patient := registerPatient(t, ctx, svcs)
	doctor := registerApprovedDoctor(t, ctx, svcs)

	// The patient can log in with the registered credentials.
	pair, err := svcs.identity.Login(ctx, patient.Email, "patient-pass-1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if pair.Access == "" || pair.Refresh == "" {
		t.Fatal("login returned empty tokens")
	}

	// The approved doctor shows up in the directory.
	doctors, total, err := svcs.profiles.ListDoctors(ctx, profile.DoctorQuery{Specialization: "cardiology", Limit: 50})
	if err != nil {
		t.Fatalf("list doctors: %v", err)
	}
	if total < 1 {
		t.Fatal("approved doctor missing from directory")
	}
	found := false
	for _, d := range doctors {
		if d.UserID == doctor.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("doctor %s not in directory listing", doctor.ID)
	}

	a := bookAppointment(t, ctx, svcs, patient, doctor)
	if a.Status != appointment.StatusScheduled {
		t.Fatalf("new appointment status = %q, want %q", a.Status, appointment.StatusScheduled)
	}
	if a.DurationMin != appointment.DefaultDurationMin {
		t.Fatalf("duration = %d, want default %d", a.DurationMin, appointment.DefaultDurationMin)
	}

	patientIdent := auth.Identity{UserID: patient.ID, Role: auth.RolePatient}
	doctorIdent := auth.Identity{UserID: doctor.ID, Role: auth.RoleDoctor}

	// Both parties see it in their upcoming lists.
	upcoming, _, err := svcs.appointments.ListUpcoming(ctx, patientIdent, 10, 0)
	if err != nil {
		t.Fatalf("patient upcoming: %v", err)
	}
	if len(upcoming) != 1 || upcoming[0].ID != a.ID {
		t.Fatalf("patient upcoming = %d entries, want the booked appointment", len(upcoming))
	}
	upcoming, _, err = svcs.appointments.ListUpcoming(ctx, doctorIdent, 10, 0)
	if err != nil {
		t.Fatalf("doctor upcoming: %v", err)
	}
	if len(upcoming) != 1 || upcoming[0].ID != a.ID {
		t.Fatalf("doctor upcoming = %d entries, want the booked appointment", len(upcoming))
	}

	// Either party can open the video room; the second call reuses it.
	room, created, err := svcs.telehealth.CreateRoom(ctx, patientIdent, a.ID)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if !created {
		t.Fatal("first room call should create")
	}
	again, created, err := svcs.telehealth.CreateRoom(ctx, doctorIdent, a.ID)
	if err != nil {
		t.Fatalf("reuse room: %v", err)
	}
	if created || again.RoomName != room.RoomName {
		t.Fatalf("second room call created=%v name=%q, want reuse of %q", created, again.RoomName, room.RoomName)
	}
	if _, err := svcs.telehealth.GetRoom(ctx, patientIdent, room.RoomName); err != nil {
		t.Fatalf("get room: %v", err)
	}

	// The doctor files the consultation record, which completes the appointment.
	rec, err := svcs.appointments.CreateSession(ctx, doctorIdent, a.ID, appointment.SessionInput{
		Diagnosis: ptrStr("stable angina"),
		Treatment: ptrStr("beta blockers, review in 4 weeks"),
		EndTime:   ptrTime(a.ScheduledTime.Add(25 * time.Minute)),
	})
	if err != nil {
		t.Fatalf("file session: %v", err)
	}
	if rec.AppointmentID != a.ID {
		t.Fatalf("session appointment = %s, want %s", rec.AppointmentID, a.ID)
	}

	got, err := svcs.appointments.Get(ctx, patientIdent, a.ID)
	if err != nil {
		t.Fatalf("get appointment: %v", err)
	}
	if got.Status != appointment.StatusCompleted {
		t.Fatalf("status after session = %q, want %q", got.Status, appointment.StatusCompleted)
	}

	// Completed appointments cannot be cancelled.
	if _, err := svcs.appointments.Cancel(ctx, patientIdent, a.ID, "changed my mind"); !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("cancel completed = %v, want conflict", err)
	}

	// The patient can read the record back, and a second filing is rejected.
	if _, err := svcs.appointments.GetSession(ctx, patientIdent, a.ID); err != nil {
		t.Fatalf("patient reads session: %v", err)
	}
	if _, err := svcs.appointments.CreateSession(ctx, doctorIdent, a.ID, appointment.SessionInput{}); !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("second session filing = %v, want conflict", err)
	}
}

func TestCancelFlow(t *testing.T) {
	ctx := context.Background()
	runMigrations(t, ctx)

	svcs, cleanup := newServices(t)
	defer cleanup()

	patient := registerPatient(t, ctx, svcs)
	doctor := registerApprovedDoctor(t, ctx, svcs)
	a := bookAppointment(t, ctx, svcs, patient, doctor)

	patientIdent := auth.Identity{UserID: patient.ID, Role: auth.RolePatient}

	cancelled, err := svcs.appointments.Cancel(ctx, patientIdent, a.ID, "conflict with work")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != appointment.StatusCancelled {
		t.Fatalf("status = %q, want %q", cancelled.Status, appointment.StatusCancelled)
	}
	if cancelled.CancelledReason == nil || *cancelled.CancelledReason != "conflict with work" {
		t.Fatal("cancelled reason not persisted")
	}

	// Cancelling twice is a conflict, not a no-op.
	if _, err := svcs.appointments.Cancel(ctx, patientIdent, a.ID, "again"); !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("second cancel = %v, want conflict", err)
	}

	// A stranger cannot cancel someone else's appointment.
	other := registerPatient(t, ctx, svcs)
	b := bookAppointment(t, ctx, svcs, patient, doctor)
	strangerIdent := auth.Identity{UserID: other.ID, Role: auth.RolePatient}
	if _, err := svcs.appointments.Cancel(ctx, strangerIdent, b.ID, "not mine"); !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Fatalf("stranger cancel = %v, want authorization error", err)
	}
}

// TestSessionRace fires concurrent session filings at one appointment and
// asserts the database constraint lets exactly one through.
func TestSessionRace(t *testing.T) {
	ctx := context.Background()
	runMigrations(t, ctx)

	svcs, cleanup := newServices(t)
	defer cleanup()

	patient := registerPatient(t, ctx, svcs)
	doctor := registerApprovedDoctor(t, ctx, svcs)
	a := bookAppointment(t, ctx, svcs, patient, doctor)
	doctorIdent := auth.Identity{UserID: doctor.ID, Role: auth.RoleDoctor}

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svcs.appointments.CreateSession(ctx, doctorIdent, a.ID, appointment.SessionInput{
				Notes: ptrStr(fmt.Sprintf("attempt %d", i)),
			})
		}(i)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case apperr.IsKind(err, apperr.KindConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflicts != workers-1 {
		t.Fatalf("winners = %d, conflicts = %d, want 1 and %d", ok, conflicts, workers-1)
	}
}

func TestRegistrationConstraints(t *testing.T) {
	ctx := context.Background()
	runMigrations(t, ctx)

	svcs, cleanup := newServices(t)
	defer cleanup()

	email := uniqueEmail("dup")
	in := identity.RegisterInput{
		Email:     email,
		Password:  "long-enough-1",
		FirstName: "First",
		LastName:  "User",
	}
	if _, err := svcs.identity.RegisterPatient(ctx, in); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := svcs.identity.RegisterPatient(ctx, in); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("duplicate email = %v, want validation error", err)
	}

	// A duplicate license number is also rejected, and the failed
	// registration leaves no orphaned user row behind.
	license := "LIC-" + uuid.New().String()[:8]
	doc := identity.RegisterDoctorInput{
		RegisterInput: identity.RegisterInput{
			Email:     uniqueEmail("doc-a"),
			Password:  "long-enough-1",
			FirstName: "Doc",
			LastName:  "A",
		},
		LicenseNumber:  license,
		Specialization: "dermatology",
	}
	if _, err := svcs.identity.RegisterDoctor(ctx, doc); err != nil {
		t.Fatalf("first doctor: %v", err)
	}

	dupEmail := uniqueEmail("doc-b")
	doc.Email = dupEmail
	if _, err := svcs.identity.RegisterDoctor(ctx, doc); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("duplicate license = %v, want validation error", err)
	}
	var count int
	if err := globalDB.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM users WHERE email = $1", dupEmail).Scan(&count); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 0 {
		t.Fatal("failed doctor registration left an orphaned user row")
	}
}

// TestDoctorRejectionKeepsAppointments rejects a doctor after a booking and
// checks the doctor vanishes from the directory while the existing
// appointment stays scheduled and cancellable.
func TestDoctorRejectionKeepsAppointments(t *testing.T) {
	ctx := context.Background()
	runMigrations(t, ctx)

	svcs, cleanup := newServices(t)
	defer cleanup()

	patient := registerPatient(t, ctx, svcs)
	doctor := registerApprovedDoctor(t, ctx, svcs)
	a := bookAppointment(t, ctx, svcs, patient, doctor)

	if err := svcs.profiles.SetVerification(ctx, doctor.ID, profile.VerificationRejected); err != nil {
		t.Fatalf("reject doctor: %v", err)
	}

	// Gone from the directory.
	doctors, _, err := svcs.profiles.ListDoctors(ctx, profile.DoctorQuery{Limit: 100})
	if err != nil {
		t.Fatalf("list doctors: %v", err)
	}
	for _, d := range doctors {
		if d.UserID == doctor.ID {
			t.Fatal("rejected doctor still listed in the directory")
		}
	}
	if _, err := svcs.profiles.GetDoctor(ctx, doctor.ID); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("get rejected doctor = %v, want not_found", err)
	}

	// The existing appointment is untouched and stays actionable.
	patientIdent := auth.Identity{UserID: patient.ID, Role: auth.RolePatient}
	got, err := svcs.appointments.Get(ctx, patientIdent, a.ID)
	if err != nil {
		t.Fatalf("get appointment: %v", err)
	}
	if got.Status != appointment.StatusScheduled {
		t.Fatalf("status after rejection = %q, want %q", got.Status, appointment.StatusScheduled)
	}
	if _, err := svcs.appointments.Cancel(ctx, patientIdent, a.ID, "doctor no longer available"); err != nil {
		t.Fatalf("cancel after rejection: %v", err)
	}

	// New bookings with the rejected doctor are refused.
	_, err = svcs.appointments.Create(ctx, patientIdent, appointment.CreateInput{
		DoctorID:      doctor.ID,
		ScheduledTime: time.Now().Add(24 * time.Hour),
		Reason:        "follow up",
	})
	if !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Fatalf("booking rejected doctor = %v, want authorization error", err)
	}
}

func TestUnverifiedDoctorNotBookable(t *testing.T) {
	ctx := context.Background()
	runMigrations(t, ctx)

	svcs, cleanup := newServices(t)
	defer cleanup()

	patient := registerPatient(t, ctx, svcs)
	doctor, err := svcs.identity.RegisterDoctor(ctx, identity.RegisterDoctorInput{
		RegisterInput: identity.RegisterInput{
			Email:     uniqueEmail("pending"),
			Password:  "doctor-pass-1",
			FirstName: "Pending",
			LastName:  "Doctor",
		},
		LicenseNumber:  "LIC-" + uuid.New().String()[:8],
		Specialization: "neurology",
	})
	if err != nil {
		t.Fatalf("register doctor: %v", err)
	}

	_, err = svcs.appointments.Create(ctx, auth.Identity{UserID: patient.ID, Role: auth.RolePatient}, appointment.CreateInput{
		DoctorID:      doctor.ID,
		ScheduledTime: time.Now().Add(24 * time.Hour),
		Reason:        "checkup",
	})
	if !apperr.IsKind(err, apperr.KindAuthorization) {
		t.Fatalf("booking unverified doctor = %v, want authorization error", err)
	}
}
