package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/studio-scheduler/internal/validation"
)

func TestUserService_Register(t *testing.T) {
	t.Parallel()

	t.Run("persists a normalized account with a hashed password", func(t *testing.T) {
		t.Parallel()

		now := time.Now().UTC()
		repo := newUserRepositoryStub()
		svc := NewUserService(repo, func(password string) (string, error) {
			return "hashed:" + password, nil
		}, func() string { return "user-1" }, func() time.Time { return now }, nil)

		user, err := svc.Register(context.Background(), RegisterUserParams{
			Email:       " Artist@Example.COM ",
			DisplayName: "  Nadia  ",
			Password:    "correct horse",
		})
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}

		if user.Email != "artist@example.com" {
			t.Fatalf("expected normalized email, got %q", user.Email)
		}
		if user.DisplayName != "Nadia" {
			t.Fatalf("expected trimmed display name, got %q", user.DisplayName)
		}
		if repo.passwordHashes["user-1"] != "hashed:correct horse" {
			t.Fatalf("unexpected stored hash %q", repo.passwordHashes["user-1"])
		}
	})

	t.Run("rejects invalid input with field errors", func(t *testing.T) {
		t.Parallel()

		svc := NewUserService(newUserRepositoryStub(), nil, nil, nil, nil)

		_, err := svc.Register(context.Background(), RegisterUserParams{
			Email:       "not-an-email",
			DisplayName: "",
			Password:    "short",
		})

		var vErr *validation.Error
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		for _, field := range []string{"email", "displayName", "password"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Fatalf("expected field error for %s, got %v", field, vErr.FieldErrors)
			}
		}
	})

	t.Run("surfaces duplicate emails", func(t *testing.T) {
		t.Parallel()

		repo := newUserRepositoryStub()
		repo.createErr = ErrAlreadyExists
		svc := NewUserService(repo, func(string) (string, error) { return "h", nil }, func() string { return "id" }, time.Now, nil)

		_, err := svc.Register(context.Background(), RegisterUserParams{
			Email:       "artist@example.com",
			DisplayName: "Nadia",
			Password:    "correct horse",
		})
		if !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})
}

func TestUserService_Profile(t *testing.T) {
	t.Parallel()

	t.Run("returns the acting user's account", func(t *testing.T) {
		t.Parallel()

		repo := newUserRepositoryStub()
		repo.users["user-1"] = User{ID: "user-1", Email: "artist@example.com", DisplayName: "Nadia"}
		svc := NewUserService(repo, nil, nil, nil, nil)

		user, err := svc.GetProfile(context.Background(), Principal{UserID: "user-1"})
		if err != nil {
			t.Fatalf("GetProfile failed: %v", err)
		}
		if user.DisplayName != "Nadia" {
			t.Fatalf("unexpected profile %+v", user)
		}
	})

	t.Run("rejects anonymous principals", func(t *testing.T) {
		t.Parallel()

		svc := NewUserService(newUserRepositoryStub(), nil, nil, nil, nil)
		if _, err := svc.GetProfile(context.Background(), Principal{}); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("updates email and display name", func(t *testing.T) {
		t.Parallel()

		now := time.Now().UTC()
		repo := newUserRepositoryStub()
		repo.users["user-1"] = User{ID: "user-1", Email: "old@example.com", DisplayName: "Old"}
		svc := NewUserService(repo, nil, nil, func() time.Time { return now }, nil)

		user, err := svc.UpdateProfile(context.Background(), UpdateProfileParams{
			Principal:   Principal{UserID: "user-1"},
			Email:       "New@Example.com",
			DisplayName: "New Name",
		})
		if err != nil {
			t.Fatalf("UpdateProfile failed: %v", err)
		}
		if user.Email != "new@example.com" || user.DisplayName != "New Name" {
			t.Fatalf("unexpected update result %+v", user)
		}
		if !user.UpdatedAt.Equal(now) {
			t.Fatalf("expected UpdatedAt to advance, got %s", user.UpdatedAt)
		}
	})

	t.Run("deletes the acting user's account", func(t *testing.T) {
		t.Parallel()

		repo := newUserRepositoryStub()
		repo.users["user-1"] = User{ID: "user-1"}
		svc := NewUserService(repo, nil, nil, nil, nil)

		if err := svc.DeleteAccount(context.Background(), Principal{UserID: "user-1"}); err != nil {
			t.Fatalf("DeleteAccount failed: %v", err)
		}
		if _, ok := repo.users["user-1"]; ok {
			t.Fatal("expected account to be removed")
		}
	})
}

// userRepositoryStub provides an in-memory implementation of UserRepository for tests.
type userRepositoryStub struct {
	users          map[string]User
	passwordHashes map[string]string

	createErr error
	getErr    error
	updateErr error
	deleteErr error
}

func newUserRepositoryStub() *userRepositoryStub {
	return &userRepositoryStub{
		users:          make(map[string]User),
		passwordHashes: make(map[string]string),
	}
}

func (r *userRepositoryStub) CreateUser(ctx context.Context, user User, passwordHash string) (User, error) {
	if r.createErr != nil {
		return User{}, r.createErr
	}
	r.users[user.ID] = user
	r.passwordHashes[user.ID] = passwordHash
	return user, nil
}

func (r *userRepositoryStub) GetUser(ctx context.Context, id string) (User, error) {
	if r.getErr != nil {
		return User{}, r.getErr
	}
	user, ok := r.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (r *userRepositoryStub) UpdateUser(ctx context.Context, user User) (User, error) {
	if r.updateErr != nil {
		return User{}, r.updateErr
	}
	if _, ok := r.users[user.ID]; !ok {
		return User{}, ErrNotFound
	}
	r.users[user.ID] = user
	return user, nil
}

func (r *userRepositoryStub) DeleteUser(ctx context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.users, id)
	delete(r.passwordHashes, id)
	return nil
}
