// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package auth handles accounts: registration, login and user administration.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"codeberg.org/oliverandrich/timetracker/internal/config"
	"codeberg.org/oliverandrich/timetracker/internal/i18n"
	"codeberg.org/oliverandrich/timetracker/internal/models"
	"codeberg.org/oliverandrich/timetracker/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists          = errors.New("username already taken")
	ErrEmailExists         = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserNotFound        = errors.New("user not found")
	ErrRegistrationClosed  = errors.New("registration is closed")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrInvalidUsername     = errors.New("username is required")
	ErrSelfModification    = errors.New("cannot modify own account")
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// dummyHash keeps failed lookups as slow as failed password checks.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), bcrypt.DefaultCost)

type Service struct {
	repo   *repository.Repository
	policy PasswordPolicy
}

func NewService(repo *repository.Repository, cfg *config.AuthConfig) *Service {
	return &Service{
		repo:   repo,
		policy: PasswordPolicy{MinLength: cfg.MinPasswordLength},
	}
}

// Policy returns the password policy new passwords are checked against.
func (s *Service) Policy() PasswordPolicy {
	return s.policy
}

// NewUserParams holds the fields of a new account.
type NewUserParams struct {
	Username string
	Email    string
	Password string
	IsAdmin  bool
}

// SetupRequired reports whether no account exists yet.
func (s *Service) SetupRequired(ctx context.Context) (bool, error) {
	count, err := s.repo.CountUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count users: %w", err)
	}
	return count == 0, nil
}

// Register creates the first account, which is always an administrator.
// Once an account exists registration is closed.
func (s *Service) Register(ctx context.Context, params NewUserParams) (*models.User, error) {
	open, err := s.SetupRequired(ctx)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, ErrRegistrationClosed
	}

	params.IsAdmin = true
	user, err := s.create(ctx, params)
	if err != nil {
		return nil, err
	}

	slog.Info("register_success", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// CreateUser adds an account on behalf of an administrator.
func (s *Service) CreateUser(ctx context.Context, params NewUserParams) (*models.User, error) {
	user, err := s.create(ctx, params)
	if err != nil {
		return nil, err
	}

	slog.Info("user_created", "user_id", user.ID, "username", user.Username, "is_admin", user.IsAdmin)
	return user, nil
}

func (s *Service) create(ctx context.Context, params NewUserParams) (*models.User, error) {
	username := strings.TrimSpace(params.Username)
	if username == "" {
		return nil, ErrInvalidUsername
	}
	email := strings.TrimSpace(params.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if err := s.policy.Check(params.Password, username, email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, username, email, string(hash), params.IsAdmin)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, s.takenError(ctx, username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// takenError tells which unique column a rejected insert collided on.
func (s *Service) takenError(ctx context.Context, username string) error {
	taken, err := s.repo.UserExists(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return ErrUserExists
	}
	return ErrEmailExists
}

// Login authenticates a user by username and password.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			slog.Warn("login_failed", "username", username, "reason", "user_not_found")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Warn("login_failed", "username", username, "reason", "invalid_password")
		return nil, ErrInvalidCredentials
	}

	slog.Info("login_success", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// GetUser loads an account by ID.
func (s *Service) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, userErr(err, "failed to get user")
	}
	return user, nil
}

// ListUsers returns every account in creation order.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ToggleAdmin flips the admin flag of another account.
func (s *Service) ToggleAdmin(ctx context.Context, actorID, userID int64) (*models.User, error) {
	if actorID == userID {
		return nil, ErrSelfModification
	}
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.IsAdmin = !user.IsAdmin
	if err := s.repo.SetUserAdmin(ctx, userID, user.IsAdmin); err != nil {
		return nil, userErr(err, "failed to update user")
	}

	slog.Info("admin_toggled", "actor_id", actorID, "user_id", userID, "is_admin", user.IsAdmin)
	return user, nil
}

// DeleteUser removes another account together with all of its data.
func (s *Service) DeleteUser(ctx context.Context, actorID, userID int64) error {
	if actorID == userID {
		return ErrSelfModification
	}
	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		return userErr(err, "failed to delete user")
	}

	slog.Info("user_deleted", "actor_id", actorID, "user_id", userID)
	return nil
}

// Promote grants admin rights to the named account.
func (s *Service) Promote(ctx context.Context, username string) (*models.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, userErr(err, "failed to get user")
	}
	if user.IsAdmin {
		return user, nil
	}
	if err := s.repo.SetUserAdmin(ctx, user.ID, true); err != nil {
		return nil, userErr(err, "failed to update user")
	}
	user.IsAdmin = true

	slog.Info("user_promoted", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// SetLanguage stores the preferred language of an account.
func (s *Service) SetLanguage(ctx context.Context, userID int64, lang string) error {
	if !i18n.Supported(lang) {
		return ErrUnsupportedLanguage
	}
	if err := s.repo.SetUserLanguage(ctx, userID, lang); err != nil {
		return userErr(err, "failed to set language")
	}
	slog.Info("language_set", "user_id", userID, "language", lang)
	return nil
}

func userErr(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}
