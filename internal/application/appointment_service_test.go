package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/studio-scheduler/internal/appointment"
	"github.com/example/studio-scheduler/internal/validation"
)

func tattooInput() appointment.Input {
	return appointment.Input{
		Date:      "2026-08-24",
		Title:     "Sleeve session",
		StartTime: "10:00",
		EndTime:   "13:00",
		ClientName: "Mira",
		Contact: &appointment.ContactInput{
			ContactType:  string(appointment.ContactInstagram),
			ContactValue: "@mira.ink",
		},
		DesignDescription: "Japanese dragon, upper arm",
		Placement:         "upper arm",
		Size:              "20cm",
	}
}

func blockerInput() appointment.Input {
	return appointment.Input{
		Date:       "2026-08-24",
		Title:      "Studio maintenance",
		StartTime:  "15:00",
		EndTime:    "16:00",
		ClientName: "internal",
	}
}

func TestAppointmentService_Create(t *testing.T) {
	t.Parallel()

	t.Run("persists a validated appointment with identity fields", func(t *testing.T) {
		t.Parallel()

		now := time.Now().UTC()
		repo := newAppointmentRepositoryStub()
		svc := NewAppointmentService(repo, func() string { return "appt-1" }, func() time.Time { return now }, nil)

		appt, err := svc.Create(context.Background(), CreateAppointmentParams{
			Principal: Principal{UserID: "user-1"},
			Kind:      appointment.TypeNewTattoo,
			Input:     tattooInput(),
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		core := appt.Common()
		if core.ID != "appt-1" {
			t.Fatalf("expected generated id, got %q", core.ID)
		}
		if core.UserID != "user-1" {
			t.Fatalf("expected ownership to follow the principal, got %q", core.UserID)
		}
		if !core.CreatedAt.Equal(now) || !core.UpdatedAt.Equal(now) {
			t.Fatalf("expected timestamps to be set, got %+v", core)
		}
		if appt.Kind() != appointment.TypeNewTattoo {
			t.Fatalf("unexpected kind %s", appt.Kind())
		}
	})

	t.Run("rejects invalid input before touching the repository", func(t *testing.T) {
		t.Parallel()

		repo := newAppointmentRepositoryStub()
		svc := NewAppointmentService(repo, nil, nil, nil)

		input := tattooInput()
		input.DesignDescription = "tiny"

		_, err := svc.Create(context.Background(), CreateAppointmentParams{
			Principal: Principal{UserID: "user-1"},
			Kind:      appointment.TypeNewTattoo,
			Input:     input,
		})

		var vErr *validation.Error
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if len(repo.appointments) != 0 {
			t.Fatal("expected no writes on validation failure")
		}
	})

	t.Run("ignores a caller supplied owner", func(t *testing.T) {
		t.Parallel()

		repo := newAppointmentRepositoryStub()
		svc := NewAppointmentService(repo, func() string { return "appt-1" }, nil, nil)

		input := tattooInput()
		input.UserID = "someone-else"

		appt, err := svc.Create(context.Background(), CreateAppointmentParams{
			Principal: Principal{UserID: "user-1"},
			Kind:      appointment.TypeNewTattoo,
			Input:     input,
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if appt.Common().UserID != "user-1" {
			t.Fatalf("expected principal ownership, got %q", appt.Common().UserID)
		}
	})
}

func TestAppointmentService_Get(t *testing.T) {
	t.Parallel()

	t.Run("hides appointments owned by other accounts", func(t *testing.T) {
		t.Parallel()

		repo := newAppointmentRepositoryStub()
		repo.seed(appointment.Blocker{Core: appointment.Core{ID: "appt-1", UserID: "other"}})

		svc := NewAppointmentService(repo, nil, nil, nil)

		_, err := svc.Get(context.Background(), Principal{UserID: "user-1"}, "appt-1")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("returns owned appointments", func(t *testing.T) {
		t.Parallel()

		repo := newAppointmentRepositoryStub()
		repo.seed(appointment.Blocker{Core: appointment.Core{ID: "appt-1", UserID: "user-1"}})

		svc := NewAppointmentService(repo, nil, nil, nil)

		appt, err := svc.Get(context.Background(), Principal{UserID: "user-1"}, "appt-1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if appt.Common().ID != "appt-1" {
			t.Fatalf("unexpected appointment %+v", appt)
		}
	})
}

func TestAppointmentService_List(t *testing.T) {
	t.Parallel()

	t.Run("narrows to the requested range", func(t *testing.T) {
		t.Parallel()

		repo := newAppointmentRepositoryStub()
		repo.seed(appointment.Blocker{Core: appointment.Core{ID: "in", UserID: "user-1", Date: "2026-08-24"}})
		repo.seed(appointment.Blocker{Core: appointment.Core{ID: "out", UserID: "user-1", Date: "2026-09-10"}})

		svc := NewAppointmentService(repo, nil, nil, nil)

		appointments, err := svc.List(context.Background(), ListAppointmentsParams{
			Principal: Principal{UserID: "user-1"},
			From:      "2026-08-24",
			To:        "2026-08-31",
		})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(appointments) != 1 || appointments[0].Common().ID != "in" {
			t.Fatalf("unexpected listing %+v", appointments)
		}
	})

	t.Run("narrows to the requested kind", func(t *testing.T) {
		t.Parallel()

		repo := newAppointmentRepositoryStub()
		repo.seed(appointment.Blocker{Core: appointment.Core{ID: "blocker", UserID: "user-1", Date: "2026-08-24"}})
		repo.seed(appointment.Consultation{Core: appointment.Core{ID: "consult", UserID: "user-1", Date: "2026-08-24"}})

		svc := NewAppointmentService(repo, nil, nil, nil)

		appointments, err := svc.List(context.Background(), ListAppointmentsParams{
			Principal: Principal{UserID: "user-1"},
			Kind:      appointment.TypeConsultation,
		})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(appointments) != 1 || appointments[0].Common().ID != "consult" {
			t.Fatalf("unexpected listing %+v", appointments)
		}
	})

	t.Run("rejects malformed range bounds", func(t *testing.T) {
		t.Parallel()

		svc := NewAppointmentService(newAppointmentRepositoryStub(), nil, nil, nil)

		_, err := svc.List(context.Background(), ListAppointmentsParams{
			Principal: Principal{UserID: "user-1"},
			From:      "24.08.2026",
		})

		var vErr *validation.Error
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("rejects an unknown kind filter", func(t *testing.T) {
		t.Parallel()

		svc := NewAppointmentService(newAppointmentRepositoryStub(), nil, nil, nil)

		_, err := svc.List(context.Background(), ListAppointmentsParams{
			Principal: Principal{UserID: "user-1"},
			Kind:      appointment.Type("Walkin"),
		})

		var vErr *validation.Error
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestAppointmentService_Update(t *testing.T) {
	t.Parallel()

	t.Run("updates in place when the kind is unchanged", func(t *testing.T) {
		t.Parallel()

		created := time.Now().UTC().Add(-time.Hour)
		now := time.Now().UTC()

		repo := newAppointmentRepositoryStub()
		repo.seed(appointment.Blocker{Core: appointment.Core{
			ID: "appt-1", UserID: "user-1", Date: "2026-08-24",
			Title: "Studio maintenance", StartTime: "15:00", EndTime: "16:00",
			CreatedAt: created, UpdatedAt: created,
		}})

		svc := NewAppointmentService(repo, nil, func() time.Time { return now }, nil)

		input := blockerInput()
		input.EndTime = "17:00"

		appt, err := svc.Update(context.Background(), UpdateAppointmentParams{
			Principal:     Principal{UserID: "user-1"},
			AppointmentID: "appt-1",
			Kind:          appointment.TypeBlocker,
			Input:         input,
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		core := appt.Common()
		if core.EndTime != "17:00" {
			t.Fatalf("expected updated end time, got %s", core.EndTime)
		}
		if !core.CreatedAt.Equal(created) {
			t.Fatalf("expected creation timestamp to be preserved, got %s", core.CreatedAt)
		}
		if !core.UpdatedAt.Equal(now) {
			t.Fatalf("expected update timestamp to advance, got %s", core.UpdatedAt)
		}
		if repo.replaceCalls != 0 || repo.updateCalls != 1 {
			t.Fatalf("expected an in-place update, got %d updates and %d replaces", repo.updateCalls, repo.replaceCalls)
		}
	})

	t.Run("replaces the entry when the kind changes, keeping the identifier", func(t *testing.T) {
		t.Parallel()

		created := time.Now().UTC().Add(-time.Hour)
		now := time.Now().UTC()

		repo := newAppointmentRepositoryStub()
		repo.seed(appointment.Blocker{Core: appointment.Core{
			ID: "appt-1", UserID: "user-1", Date: "2026-08-24",
			Title: "Studio maintenance", StartTime: "15:00", EndTime: "16:00",
			CreatedAt: created, UpdatedAt: created,
		}})

		svc := NewAppointmentService(repo, nil, func() time.Time { return now }, nil)

		appt, err := svc.Update(context.Background(), UpdateAppointmentParams{
			Principal:     Principal{UserID: "user-1"},
			AppointmentID: "appt-1",
			Kind:          appointment.TypeNewTattoo,
			Input:         tattooInput(),
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		if appt.Kind() != appointment.TypeNewTattoo {
			t.Fatalf("expected kind change, got %s", appt.Kind())
		}
		core := appt.Common()
		if core.ID != "appt-1" {
			t.Fatalf("expected identifier to survive the kind change, got %q", core.ID)
		}
		if !core.CreatedAt.Equal(created) {
			t.Fatalf("expected creation timestamp to survive, got %s", core.CreatedAt)
		}
		if repo.replaceCalls != 1 {
			t.Fatalf("expected a replace, got %d", repo.replaceCalls)
		}
	})

	t.Run("hides appointments owned by other accounts", func(t *testing.T) {
		t.Parallel()

		repo := newAppointmentRepositoryStub()
		repo.seed(appointment.Blocker{Core: appointment.Core{ID: "appt-1", UserID: "other"}})

		svc := NewAppointmentService(repo, nil, nil, nil)

		_, err := svc.Update(context.Background(), UpdateAppointmentParams{
			Principal:     Principal{UserID: "user-1"},
			AppointmentID: "appt-1",
			Kind:          appointment.TypeBlocker,
			Input:         blockerInput(),
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestAppointmentService_Delete(t *testing.T) {
	t.Parallel()

	t.Run("removes owned appointments", func(t *testing.T) {
		t.Parallel()

		repo := newAppointmentRepositoryStub()
		repo.seed(appointment.Blocker{Core: appointment.Core{ID: "appt-1", UserID: "user-1"}})

		svc := NewAppointmentService(repo, nil, nil, nil)

		if err := svc.Delete(context.Background(), Principal{UserID: "user-1"}, "appt-1"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if len(repo.appointments) != 0 {
			t.Fatal("expected appointment to be removed")
		}
	})

	t.Run("hides appointments owned by other accounts", func(t *testing.T) {
		t.Parallel()

		repo := newAppointmentRepositoryStub()
		repo.seed(appointment.Blocker{Core: appointment.Core{ID: "appt-1", UserID: "other"}})

		svc := NewAppointmentService(repo, nil, nil, nil)

		if err := svc.Delete(context.Background(), Principal{UserID: "user-1"}, "appt-1"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

// appointmentRepositoryStub provides an in-memory AppointmentRepository for tests.
type appointmentRepositoryStub struct {
	appointments map[string]appointment.Appointment

	createErr error
	getErr    error
	updateErr error
	deleteErr error

	updateCalls  int
	replaceCalls int
}

func newAppointmentRepositoryStub() *appointmentRepositoryStub {
	return &appointmentRepositoryStub{appointments: make(map[string]appointment.Appointment)}
}

func (r *appointmentRepositoryStub) seed(appt appointment.Appointment) {
	r.appointments[appt.Common().ID] = appt
}

func (r *appointmentRepositoryStub) CreateAppointment(ctx context.Context, appt appointment.Appointment) (appointment.Appointment, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.appointments[appt.Common().ID] = appt
	return appt, nil
}

func (r *appointmentRepositoryStub) GetAppointment(ctx context.Context, id string) (appointment.Appointment, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	appt, ok := r.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return appt, nil
}

func (r *appointmentRepositoryStub) UpdateAppointment(ctx context.Context, appt appointment.Appointment) (appointment.Appointment, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	r.updateCalls++
	if _, ok := r.appointments[appt.Common().ID]; !ok {
		return nil, ErrNotFound
	}
	r.appointments[appt.Common().ID] = appt
	return appt, nil
}

func (r *appointmentRepositoryStub) ReplaceAppointment(ctx context.Context, appt appointment.Appointment) (appointment.Appointment, error) {
	r.replaceCalls++
	if _, ok := r.appointments[appt.Common().ID]; !ok {
		return nil, ErrNotFound
	}
	r.appointments[appt.Common().ID] = appt
	return appt, nil
}

func (r *appointmentRepositoryStub) DeleteAppointment(ctx context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.appointments[id]; !ok {
		return ErrNotFound
	}
	delete(r.appointments, id)
	return nil
}

func (r *appointmentRepositoryStub) ListAppointments(ctx context.Context, userID, from, to string) ([]appointment.Appointment, error) {
	out := make([]appointment.Appointment, 0, len(r.appointments))
	for _, appt := range r.appointments {
		core := appt.Common()
		if core.UserID != userID {
			continue
		}
		if from != "" && core.Date < from {
			continue
		}
		if to != "" && core.Date >= to {
			continue
		}
		out = append(out, appt)
	}
	return out, nil
}
