package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/example/deskbooker/internal/persistence"
)

const maxNameLength = 64

// UserService manages registration and user administration.
type UserService struct {
	users  persistence.UserRepository
	logger *slog.Logger
}

// NewUserService wires dependencies for the user service.
func NewUserService(users persistence.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{users: users, logger: defaultLogger(logger)}
}

func (s *UserService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "UserService", operation, attrs...)
}

// Register creates the actor's user row if absent. It reports whether a row
// was created; existing rows keep their name and flags.
func (s *UserService) Register(ctx context.Context, id int64, name string) (created bool, err error) {
	logger := s.loggerWith(ctx, "Register", "user_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to register user", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "registration processed", "created", created)
	}()

	name, vErr := validateName("name", name)
	if vErr != nil {
		return false, vErr
	}

	created, err = s.users.EnsureUser(ctx, persistence.User{ID: id, Name: name})
	if err != nil {
		return false, mapRepoError(err, ErrAlreadyExists)
	}
	return created, nil
}

// AddUser creates a user row for another actor.
func (s *UserService) AddUser(ctx context.Context, id int64, name string) (err error) {
	logger := s.loggerWith(ctx, "AddUser", "user_id", id)
	defer func() { logOutcome(ctx, logger, err, "user added") }()

	vErr := &ValidationError{}
	if id <= 0 {
		vErr.add("id", "user id must be a positive number")
	}
	name, nameErr := validateName("name", name)
	vErr.merge(nameErr)
	if vErr.HasErrors() {
		return vErr
	}

	if err = s.users.CreateUser(ctx, persistence.User{ID: id, Name: name}); err != nil {
		return mapRepoError(err, ErrAlreadyExists)
	}
	return nil
}

// RemoveUser deletes a user row. Users holding bookings cannot be removed.
func (s *UserService) RemoveUser(ctx context.Context, id int64) (err error) {
	logger := s.loggerWith(ctx, "RemoveUser", "user_id", id)
	defer func() { logOutcome(ctx, logger, err, "user removed") }()

	if err = s.users.DeleteUser(ctx, id); err != nil {
		return mapRepoError(err, ErrAlreadyExists)
	}
	return nil
}

// DelistUser revokes user-level access while keeping the row.
func (s *UserService) DelistUser(ctx context.Context, id int64) (err error) {
	logger := s.loggerWith(ctx, "DelistUser", "user_id", id)
	defer func() { logOutcome(ctx, logger, err, "user delisted") }()

	if err = s.users.SetDelisted(ctx, id, true); err != nil {
		return mapRepoError(err, ErrAlreadyExists)
	}
	return nil
}

// RelistUser restores user-level access of a delisted user.
func (s *UserService) RelistUser(ctx context.Context, id int64) (err error) {
	logger := s.loggerWith(ctx, "RelistUser", "user_id", id)
	defer func() { logOutcome(ctx, logger, err, "user relisted") }()

	if err = s.users.SetDelisted(ctx, id, false); err != nil {
		return mapRepoError(err, ErrAlreadyExists)
	}
	return nil
}

// SetAdmin grants or revokes the admin flag.
func (s *UserService) SetAdmin(ctx context.Context, id int64, admin bool) (err error) {
	logger := s.loggerWith(ctx, "SetAdmin", "user_id", id, "admin", admin)
	defer func() { logOutcome(ctx, logger, err, "admin flag updated") }()

	if err = s.users.SetAdmin(ctx, id, admin); err != nil {
		return mapRepoError(err, ErrAlreadyExists)
	}
	return nil
}

// ListUsers returns every user.
func (s *UserService) ListUsers(ctx context.Context) ([]persistence.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", mapRepoError(err, ErrAlreadyExists))
	}
	return users, nil
}

func validateName(field, value string) (string, *ValidationError) {
	trimmed := strings.TrimSpace(value)
	switch {
	case trimmed == "":
		return "", invalid(field, field+" is required")
	case len([]rune(trimmed)) > maxNameLength:
		return "", invalid(field, fmt.Sprintf("%s must be at most %d characters", field, maxNameLength))
	}
	return trimmed, nil
}
