package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/example/studio-scheduler/internal/application"
	"github.com/example/studio-scheduler/internal/appointment"
	"github.com/example/studio-scheduler/internal/availability"
	"github.com/example/studio-scheduler/internal/config"
	httptransport "github.com/example/studio-scheduler/internal/http"
	"github.com/example/studio-scheduler/internal/persistence"
	"github.com/example/studio-scheduler/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	pool, err := sqlite.NewConnectionPool(sqlite.DefaultConfig(cfg.SQLiteDSN))
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := sqlite.Migrate(context.Background(), pool); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	tokenGenerator := func() string { return randomHex(32) }
	now := time.Now

	userRepo := sqlite.NewUserRepository(pool)
	sessionRepo := sqlite.NewSessionRepository(pool)
	availabilityRepo := sqlite.NewAvailabilityRepository(pool)
	appointmentRepo := sqlite.NewAppointmentRepository(pool)

	users := newUserRepositoryAdapter(userRepo)
	credentials := newCredentialStoreAdapter(userRepo)
	sessions := newSessionRepositoryAdapter(sessionRepo)
	patterns := newAvailabilityRepositoryAdapter(availabilityRepo)
	appointments := newAppointmentRepositoryAdapter(appointmentRepo)

	userService := application.NewUserService(users, nil, idGenerator, now, logger)
	authService := application.NewAuthServiceWithLogger(credentials, sessions, nil, tokenGenerator, now, cfg.SessionTTL, logger)
	availabilityService := application.NewAvailabilityService(patterns, cfg.DefaultTimezone, now, logger)
	appointmentService := application.NewAppointmentService(appointments, idGenerator, now, logger)
	calendarService := application.NewCalendarService(availabilityService, appointmentService, now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:              httptransport.NewAuthHandler(authService, logger),
		Users:             httptransport.NewUserHandler(userService, logger),
		Availability:      httptransport.NewAvailabilityHandler(availabilityService, logger),
		Appointments:      httptransport.NewAppointmentHandler(appointmentService, logger),
		Calendar:          httptransport.NewCalendarHandler(calendarService, logger),
		SessionMiddleware: httptransport.RequireSession(authService, logger),
		Middleware:        []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})

	sweeper := cron.New()
	sweeper.Schedule(cron.Every(cfg.SessionSweepInterval), cron.FuncJob(func() {
		if err := sessions.DeleteExpiredSessions(context.Background(), time.Now().UTC()); err != nil {
			logger.Error("failed to sweep expired sessions", "error", err)
			return
		}
		logger.Info("expired sessions swept")
	}))
	sweeper.Start()
	defer sweeper.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("studio API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func randomHex(bytes int) string {
	if bytes <= 0 {
		bytes = 16
	}
	buf := make([]byte, bytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}

// mapPersistenceError translates storage sentinels into the application
// package's error vocabulary so the services can branch with errors.Is.
func mapPersistenceError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNotFound):
		return application.ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return application.ErrAlreadyExists
	default:
		return err
	}
}

type userRepositoryAdapter struct {
	repo persistence.UserRepository
}

func newUserRepositoryAdapter(repo persistence.UserRepository) *userRepositoryAdapter {
	return &userRepositoryAdapter{repo: repo}
}

func (a *userRepositoryAdapter) CreateUser(ctx context.Context, user application.User, passwordHash string) (application.User, error) {
	if err := a.repo.CreateUser(ctx, toPersistenceUser(user, passwordHash, false)); err != nil {
		return application.User{}, mapPersistenceError(err)
	}
	stored, err := a.repo.GetUser(ctx, user.ID)
	if err != nil {
		return application.User{}, mapPersistenceError(err)
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, mapPersistenceError(err)
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) UpdateUser(ctx context.Context, user application.User) (application.User, error) {
	current, err := a.repo.GetUser(ctx, user.ID)
	if err != nil {
		return application.User{}, mapPersistenceError(err)
	}
	if err := a.repo.UpdateUser(ctx, toPersistenceUser(user, current.PasswordHash, current.Disabled)); err != nil {
		return application.User{}, mapPersistenceError(err)
	}
	stored, err := a.repo.GetUser(ctx, user.ID)
	if err != nil {
		return application.User{}, mapPersistenceError(err)
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) DeleteUser(ctx context.Context, id string) error {
	return mapPersistenceError(a.repo.DeleteUser(ctx, id))
}

type credentialStoreAdapter struct {
	repo persistence.UserRepository
}

func newCredentialStoreAdapter(repo persistence.UserRepository) *credentialStoreAdapter {
	return &credentialStoreAdapter{repo: repo}
}

func (a *credentialStoreAdapter) GetUserCredentialsByEmail(ctx context.Context, email string) (application.UserCredentials, error) {
	stored, err := a.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return application.UserCredentials{}, mapPersistenceError(err)
	}
	return application.UserCredentials{
		User:         toApplicationUser(stored),
		PasswordHash: stored.PasswordHash,
		Disabled:     stored.Disabled,
	}, nil
}

func (a *credentialStoreAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, mapPersistenceError(err)
	}
	return toApplicationUser(stored), nil
}

type sessionRepositoryAdapter struct {
	repo persistence.SessionRepository
}

func newSessionRepositoryAdapter(repo persistence.SessionRepository) *sessionRepositoryAdapter {
	return &sessionRepositoryAdapter{repo: repo}
}

func (a *sessionRepositoryAdapter) CreateSession(ctx context.Context, session application.Session) (application.Session, error) {
	stored, err := a.repo.CreateSession(ctx, toPersistenceSession(session))
	if err != nil {
		return application.Session{}, mapPersistenceError(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) GetSession(ctx context.Context, token string) (application.Session, error) {
	stored, err := a.repo.GetSession(ctx, token)
	if err != nil {
		return application.Session{}, mapPersistenceError(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) UpdateSession(ctx context.Context, session application.Session) (application.Session, error) {
	stored, err := a.repo.UpdateSession(ctx, toPersistenceSession(session))
	if err != nil {
		return application.Session{}, mapPersistenceError(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (application.Session, error) {
	stored, err := a.repo.RevokeSession(ctx, token, revokedAt)
	if err != nil {
		return application.Session{}, mapPersistenceError(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	return mapPersistenceError(a.repo.DeleteExpiredSessions(ctx, reference))
}

type availabilityRepositoryAdapter struct {
	repo persistence.AvailabilityRepository
}

func newAvailabilityRepositoryAdapter(repo persistence.AvailabilityRepository) *availabilityRepositoryAdapter {
	return &availabilityRepositoryAdapter{repo: repo}
}

func (a *availabilityRepositoryAdapter) GetAvailability(ctx context.Context, userID string) (availability.Week, error) {
	pattern, err := a.repo.GetPattern(ctx, userID)
	if err != nil {
		return availability.Week{}, mapPersistenceError(err)
	}
	return toAvailabilityWeek(pattern), nil
}

func (a *availabilityRepositoryAdapter) PutAvailability(ctx context.Context, userID string, week availability.Week) (availability.Week, error) {
	now := time.Now().UTC()
	stored, err := a.repo.PutPattern(ctx, persistence.AvailabilityPattern{
		UserID:    userID,
		Timezone:  week.Timezone,
		Days:      toPersistenceDays(week.Days),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return availability.Week{}, mapPersistenceError(err)
	}
	return toAvailabilityWeek(stored), nil
}

func (a *availabilityRepositoryAdapter) DeleteAvailability(ctx context.Context, userID string) error {
	return mapPersistenceError(a.repo.DeletePattern(ctx, userID))
}

type appointmentRepositoryAdapter struct {
	repo persistence.AppointmentRepository
}

func newAppointmentRepositoryAdapter(repo persistence.AppointmentRepository) *appointmentRepositoryAdapter {
	return &appointmentRepositoryAdapter{repo: repo}
}

func (a *appointmentRepositoryAdapter) CreateAppointment(ctx context.Context, appt appointment.Appointment) (appointment.Appointment, error) {
	stored, err := a.repo.CreateAppointment(ctx, toAppointmentRecord(appt))
	if err != nil {
		return nil, mapPersistenceError(err)
	}
	return toAppointment(stored)
}

func (a *appointmentRepositoryAdapter) GetAppointment(ctx context.Context, id string) (appointment.Appointment, error) {
	stored, err := a.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, mapPersistenceError(err)
	}
	return toAppointment(stored)
}

func (a *appointmentRepositoryAdapter) UpdateAppointment(ctx context.Context, appt appointment.Appointment) (appointment.Appointment, error) {
	stored, err := a.repo.UpdateAppointment(ctx, toAppointmentRecord(appt))
	if err != nil {
		return nil, mapPersistenceError(err)
	}
	return toAppointment(stored)
}

func (a *appointmentRepositoryAdapter) ReplaceAppointment(ctx context.Context, appt appointment.Appointment) (appointment.Appointment, error) {
	stored, err := a.repo.ReplaceAppointment(ctx, toAppointmentRecord(appt))
	if err != nil {
		return nil, mapPersistenceError(err)
	}
	return toAppointment(stored)
}

func (a *appointmentRepositoryAdapter) DeleteAppointment(ctx context.Context, id string) error {
	return mapPersistenceError(a.repo.DeleteAppointment(ctx, id))
}

func (a *appointmentRepositoryAdapter) ListAppointments(ctx context.Context, userID, from, to string) ([]appointment.Appointment, error) {
	records, err := a.repo.ListAppointments(ctx, persistence.AppointmentFilter{UserID: userID, From: from, To: to})
	if err != nil {
		return nil, mapPersistenceError(err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	appts := make([]appointment.Appointment, 0, len(records))
	for _, record := range records {
		appt, err := toAppointment(record)
		if err != nil {
			return nil, err
		}
		appts = append(appts, appt)
	}
	return appts, nil
}

func toApplicationUser(model persistence.User) application.User {
	return application.User{
		ID:          model.ID,
		Email:       model.Email,
		DisplayName: model.DisplayName,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func toPersistenceUser(user application.User, passwordHash string, disabled bool) persistence.User {
	return persistence.User{
		ID:           user.ID,
		Email:        user.Email,
		DisplayName:  user.DisplayName,
		PasswordHash: passwordHash,
		Disabled:     disabled,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

func toApplicationSession(model persistence.Session) application.Session {
	return application.Session{
		ID:        model.ID,
		UserID:    model.UserID,
		Token:     model.Token,
		ExpiresAt: model.ExpiresAt,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
		RevokedAt: cloneTime(model.RevokedAt),
	}
}

func toPersistenceSession(session application.Session) persistence.Session {
	return persistence.Session{
		ID:        session.ID,
		UserID:    session.UserID,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
		RevokedAt: cloneTime(session.RevokedAt),
	}
}

func toAvailabilityWeek(pattern persistence.AvailabilityPattern) availability.Week {
	days := make([]availability.Day, 0, len(pattern.Days))
	for _, day := range pattern.Days {
		days = append(days, availability.Day{
			DayOfWeek: availability.Weekday(day.DayOfWeek),
			Workday:   day.Workday,
			StartTime: day.StartTime,
			EndTime:   day.EndTime,
		})
	}
	return availability.Week{Timezone: pattern.Timezone, Days: days}
}

func toPersistenceDays(days []availability.Day) []persistence.AvailabilityDay {
	stored := make([]persistence.AvailabilityDay, 0, len(days))
	for _, day := range days {
		stored = append(stored, persistence.AvailabilityDay{
			DayOfWeek: string(day.DayOfWeek),
			Workday:   day.Workday,
			StartTime: day.StartTime,
			EndTime:   day.EndTime,
		})
	}
	return stored
}

func toAppointmentRecord(appt appointment.Appointment) persistence.Appointment {
	core := appt.Common()
	record := persistence.Appointment{
		ID:        core.ID,
		UserID:    core.UserID,
		Kind:      string(appt.Kind()),
		Date:      core.Date,
		Title:     core.Title,
		StartTime: core.StartTime,
		EndTime:   core.EndTime,
		CreatedAt: core.CreatedAt,
		UpdatedAt: core.UpdatedAt,
	}
	switch v := appt.(type) {
	case appointment.NewTattoo:
		record.ClientName = v.ClientName
		record.ContactType = cloneString(string(v.Contact.Type))
		record.ContactValue = cloneString(v.Contact.Value)
		record.DesignDescription = cloneString(v.DesignDescription)
		record.Placement = cloneString(v.Placement)
		record.Size = cloneString(v.Size)
		record.Color = v.Color
	case appointment.TouchUp:
		record.ClientName = v.ClientName
		record.ContactType = cloneString(string(v.Contact.Type))
		record.ContactValue = cloneString(v.Contact.Value)
	case appointment.Consultation:
		record.ClientName = v.ClientName
		record.ContactType = cloneString(string(v.Contact.Type))
		record.ContactValue = cloneString(v.Contact.Value)
	case appointment.Blocker:
		record.ClientName = v.ClientName
	}
	return record
}

func toAppointment(record persistence.Appointment) (appointment.Appointment, error) {
	core := appointment.Core{
		ID:        record.ID,
		UserID:    record.UserID,
		Date:      record.Date,
		Title:     record.Title,
		StartTime: record.StartTime,
		EndTime:   record.EndTime,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
	switch appointment.Type(record.Kind) {
	case appointment.TypeNewTattoo:
		return appointment.NewTattoo{
			Core:              core,
			ClientName:        record.ClientName,
			Contact:           toContact(record),
			DesignDescription: derefString(record.DesignDescription),
			Placement:         derefString(record.Placement),
			Size:              derefString(record.Size),
			Color:             record.Color,
		}, nil
	case appointment.TypeTouchUp:
		return appointment.TouchUp{Core: core, ClientName: record.ClientName, Contact: toContact(record)}, nil
	case appointment.TypeConsultation:
		return appointment.Consultation{Core: core, ClientName: record.ClientName, Contact: toContact(record)}, nil
	case appointment.TypeBlocker:
		return appointment.Blocker{Core: core, ClientName: record.ClientName}, nil
	}
	return nil, fmt.Errorf("unknown appointment kind %q for appointment %s", record.Kind, record.ID)
}

func toContact(record persistence.Appointment) appointment.Contact {
	if record.ContactType == nil {
		return appointment.Contact{}
	}
	return appointment.Contact{
		Type:  appointment.ContactType(*record.ContactType),
		Value: derefString(record.ContactValue),
	}
}

func cloneString(value string) *string {
	if value == "" {
		return nil
	}
	clone := value
	return &clone
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
