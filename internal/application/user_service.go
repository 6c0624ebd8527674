package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/example/studio-scheduler/internal/validation"
)

const minPasswordLength = 8

// UserRepository captures the persistence operations needed by the user service.
type UserRepository interface {
	CreateUser(ctx context.Context, user User, passwordHash string) (User, error)
	GetUser(ctx context.Context, id string) (User, error)
	UpdateUser(ctx context.Context, user User) (User, error)
	DeleteUser(ctx context.Context, id string) error
}

// PasswordHasher derives a storable hash from a plaintext password.
type PasswordHasher func(password string) (string, error)

// UserService orchestrates validation and persistence for practitioner accounts.
// Registration is open; every account manages only its own data.
type UserService struct {
	users       UserRepository
	hashService PasswordHasher
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewUserService wires dependencies for the user service.
func NewUserService(users UserRepository, hash PasswordHasher, idGenerator func() string, now func() time.Time, logger *slog.Logger) *UserService {
	if hash == nil {
		hash = func(password string) (string, error) {
			return CreatePasswordHash(password, DefaultArgon2idParams)
		}
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &UserService{
		users:       users,
		hashService: hash,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *UserService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "UserService", operation, attrs...)
}

// Register validates input, hashes the password, and persists a new account.
func (s *UserService) Register(ctx context.Context, params RegisterUserParams) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("UserService is nil")
	}
	if s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}

	logger := s.loggerWith(ctx, "Register")

	email := strings.ToLower(strings.TrimSpace(params.Email))
	displayName := strings.TrimSpace(params.DisplayName)

	vErr := &validation.Error{}
	if email == "" {
		vErr.Add("email", "email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		vErr.Add("email", "email is invalid")
	}
	if displayName == "" {
		vErr.Add("displayName", "display name is required")
	}
	if len(params.Password) < minPasswordLength {
		vErr.Add("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if vErr.HasErrors() {
		logger.ErrorContext(ctx, "registration rejected", "error_kind", ErrorKind(vErr))
		return User{}, vErr
	}

	passwordHash, err := s.hashService(params.Password)
	if err != nil {
		logger.ErrorContext(ctx, "password hashing failed", "error", err)
		return User{}, err
	}

	now := s.now()
	user := User{
		ID:          s.idGenerator(),
		Email:       email,
		DisplayName: displayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	persisted, err := s.users.CreateUser(ctx, user, passwordHash)
	if err != nil {
		logger.ErrorContext(ctx, "registration failed", "error", err, "error_kind", ErrorKind(err))
		return User{}, err
	}

	logger.With("user_id", persisted.ID).InfoContext(ctx, "user registered")
	return persisted, nil
}

// GetProfile returns the acting user's account.
func (s *UserService) GetProfile(ctx context.Context, principal Principal) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("UserService is nil")
	}
	if s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}
	if principal.UserID == "" {
		return User{}, ErrUnauthorized
	}

	user, err := s.users.GetUser(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

// UpdateProfile updates the acting user's email and display name.
func (s *UserService) UpdateProfile(ctx context.Context, params UpdateProfileParams) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("UserService is nil")
	}
	if s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}
	if params.Principal.UserID == "" {
		return User{}, ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "UpdateProfile", "user_id", params.Principal.UserID)

	existing, err := s.users.GetUser(ctx, params.Principal.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}

	email := strings.ToLower(strings.TrimSpace(params.Email))
	displayName := strings.TrimSpace(params.DisplayName)

	vErr := &validation.Error{}
	if email == "" {
		vErr.Add("email", "email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		vErr.Add("email", "email is invalid")
	}
	if displayName == "" {
		vErr.Add("displayName", "display name is required")
	}
	if vErr.HasErrors() {
		return User{}, vErr
	}

	updated := existing
	updated.Email = email
	updated.DisplayName = displayName
	updated.UpdatedAt = s.now()

	persisted, err := s.users.UpdateUser(ctx, updated)
	if err != nil {
		logger.ErrorContext(ctx, "profile update failed", "error", err, "error_kind", ErrorKind(err))
		return User{}, err
	}

	logger.InfoContext(ctx, "profile updated")
	return persisted, nil
}

// DeleteAccount removes the acting user's account and everything it owns.
func (s *UserService) DeleteAccount(ctx context.Context, principal Principal) error {
	if s == nil {
		return fmt.Errorf("UserService is nil")
	}
	if s.users == nil {
		return fmt.Errorf("user repository not configured")
	}
	if principal.UserID == "" {
		return ErrUnauthorized
	}

	if err := s.users.DeleteUser(ctx, principal.UserID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
