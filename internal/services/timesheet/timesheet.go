// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package timesheet holds every write a user makes to their own time data.
package timesheet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"codeberg.org/oliverandrich/timetracker/internal/models"
	"codeberg.org/oliverandrich/timetracker/internal/repository"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("access denied")
	ErrInvalidHours     = errors.New("hours must be between 0 and 24")
	ErrInvalidRange     = errors.New("end date before start date")
	ErrInvalidLeaveType = errors.New("unknown leave type")
	ErrInvalidTarget    = errors.New("target percentage must be between 0 and 100")
	ErrInvalidMonth     = errors.New("month must be between 1 and 12")
	ErrProjectExists    = errors.New("project already exists")
	ErrEmptyName        = errors.New("project name is required")
)

// MaxHoursPerDay bounds a single entry.
const MaxHoursPerDay = 24

// Notifier is told which user's data changed.
type Notifier interface {
	EntriesChanged(userID int64)
}

type Service struct {
	repo     *repository.Repository
	notifier Notifier
}

func NewService(repo *repository.Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

func (s *Service) changed(userID int64) {
	if s.notifier != nil {
		s.notifier.EntriesChanged(userID)
	}
}

// LogTimeParams describes one cell of the month sheet: either a project's
// hours or the day's rest time.
type LogTimeParams struct {
	ProjectID       int64
	Date            models.Date
	Hours           float64
	Description     string
	IsRestTime      bool
	TravelAllowance bool
}

// LogTime stores hours for a project or the rest time of a day.
//
// Rest time follows its own policy: positive hours are stored; zero hours
// keep the entry only when it carries a travel allowance and delete it
// otherwise.
func (s *Service) LogTime(ctx context.Context, userID int64, p LogTimeParams) error {
	if p.Hours < 0 || p.Hours > MaxHoursPerDay {
		return ErrInvalidHours
	}

	if p.IsRestTime {
		if err := s.logRestTime(ctx, userID, p); err != nil {
			return err
		}
		s.changed(userID)
		return nil
	}

	if _, err := s.ownedProject(ctx, userID, p.ProjectID); err != nil {
		return err
	}
	err := s.repo.UpsertProjectEntry(ctx, userID, p.ProjectID, p.Date, p.Hours, strings.TrimSpace(p.Description))
	if err != nil {
		return fmt.Errorf("failed to store time entry: %w", err)
	}

	slog.Info("time_logged", "user_id", userID, "project_id", p.ProjectID, "date", p.Date.String(), "hours", p.Hours)
	s.changed(userID)
	return nil
}

func (s *Service) logRestTime(ctx context.Context, userID int64, p LogTimeParams) error {
	switch {
	case p.Hours > 0:
		if err := s.repo.UpsertRestEntry(ctx, userID, p.Date, p.Hours, p.TravelAllowance); err != nil {
			return fmt.Errorf("failed to store rest time: %w", err)
		}
	case p.TravelAllowance:
		if err := s.repo.UpsertRestEntry(ctx, userID, p.Date, 0, true); err != nil {
			return fmt.Errorf("failed to store rest time: %w", err)
		}
	default:
		if err := s.repo.DeleteRestEntry(ctx, userID, p.Date); err != nil {
			return fmt.Errorf("failed to delete rest time: %w", err)
		}
		slog.Info("rest_time_cleared", "user_id", userID, "date", p.Date.String())
		return nil
	}

	slog.Info("rest_time_logged", "user_id", userID, "date", p.Date.String(),
		"hours", p.Hours, "travel_allowance", p.TravelAllowance)
	return nil
}

// AddLeaveParams describes a leave period.
type AddLeaveParams struct {
	LeaveType   models.LeaveType
	StartDate   models.Date
	EndDate     models.Date
	Description string
}

// AddLeave records a leave period. Overlapping periods are allowed; the
// month view attributes a day to the earliest created one.
func (s *Service) AddLeave(ctx context.Context, userID int64, p AddLeaveParams) (*models.LeaveEntry, error) {
	if !p.LeaveType.Valid() {
		return nil, ErrInvalidLeaveType
	}
	if p.EndDate.Before(p.StartDate.Time) {
		return nil, ErrInvalidRange
	}

	leave, err := s.repo.CreateLeave(ctx, userID, p.LeaveType, p.StartDate, p.EndDate, strings.TrimSpace(p.Description))
	if err != nil {
		return nil, fmt.Errorf("failed to create leave: %w", err)
	}

	slog.Info("leave_added", "user_id", userID, "leave_id", leave.ID, "type", string(p.LeaveType),
		"start", p.StartDate.String(), "end", p.EndDate.String())
	s.changed(userID)
	return leave, nil
}

// DeleteLeave removes a leave period owned by the user.
func (s *Service) DeleteLeave(ctx context.Context, userID, leaveID int64) error {
	leave, err := s.repo.GetLeave(ctx, leaveID)
	if err != nil {
		return notFound(err, "failed to get leave")
	}
	if leave.UserID != userID {
		slog.Warn("access_denied", "user_id", userID, "leave_id", leaveID)
		return ErrForbidden
	}

	if err := s.repo.DeleteLeave(ctx, leaveID); err != nil {
		return notFound(err, "failed to delete leave")
	}

	slog.Info("leave_deleted", "user_id", userID, "leave_id", leaveID)
	s.changed(userID)
	return nil
}

// ListLeave returns the user's leave, latest start first.
func (s *Service) ListLeave(ctx context.Context, userID int64) ([]models.LeaveEntry, error) {
	leaves, err := s.repo.ListLeave(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave: %w", err)
	}
	return leaves, nil
}

// SetTargetParams describes a project's target share for a month.
type SetTargetParams struct {
	ProjectID  int64
	Year       int
	Month      int
	Percentage float64
}

// SetTarget creates or replaces the target of a project for a month.
func (s *Service) SetTarget(ctx context.Context, userID int64, p SetTargetParams) (*models.ProjectTarget, error) {
	if p.Month < 1 || p.Month > 12 {
		return nil, ErrInvalidMonth
	}
	if p.Percentage < 0 || p.Percentage > 100 {
		return nil, ErrInvalidTarget
	}
	if _, err := s.ownedProject(ctx, userID, p.ProjectID); err != nil {
		return nil, err
	}

	target, err := s.repo.UpsertTarget(ctx, userID, p.ProjectID, p.Year, p.Month, p.Percentage)
	if err != nil {
		return nil, fmt.Errorf("failed to store target: %w", err)
	}

	slog.Info("target_set", "user_id", userID, "project_id", p.ProjectID,
		"year", p.Year, "month", p.Month, "percentage", p.Percentage)
	s.changed(userID)
	return target, nil
}

// DeleteTarget removes a target owned by the user and returns it.
func (s *Service) DeleteTarget(ctx context.Context, userID, targetID int64) (*models.ProjectTarget, error) {
	target, err := s.repo.GetTarget(ctx, targetID)
	if err != nil {
		return nil, notFound(err, "failed to get target")
	}
	if target.UserID != userID {
		slog.Warn("access_denied", "user_id", userID, "target_id", targetID)
		return nil, ErrForbidden
	}

	if err := s.repo.DeleteTarget(ctx, targetID); err != nil {
		return nil, notFound(err, "failed to delete target")
	}

	slog.Info("target_deleted", "user_id", userID, "target_id", targetID)
	s.changed(userID)
	return target, nil
}

// Targets returns the user's targets for one month.
func (s *Service) Targets(ctx context.Context, userID int64, year, month int) ([]models.ProjectTarget, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}
	targets, err := s.repo.ListTargets(ctx, userID, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list targets: %w", err)
	}
	return targets, nil
}

// CreateProject adds a project. Names are unique per user.
func (s *Service) CreateProject(ctx context.Context, userID int64, name, description string) (*models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	project, err := s.repo.CreateProject(ctx, userID, name, strings.TrimSpace(description))
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrProjectExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	slog.Info("project_created", "user_id", userID, "project_id", project.ID, "name", name)
	s.changed(userID)
	return project, nil
}

// ToggleProject flips the active flag of a project and returns the result.
func (s *Service) ToggleProject(ctx context.Context, userID, projectID int64) (*models.Project, error) {
	project, err := s.ownedProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	project.Active = !project.Active
	if err := s.repo.SetProjectActive(ctx, userID, projectID, project.Active); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	slog.Info("project_toggled", "user_id", userID, "project_id", projectID, "active", project.Active)
	s.changed(userID)
	return project, nil
}

// ListProjects returns all projects of the user.
func (s *Service) ListProjects(ctx context.Context, userID int64) ([]models.Project, error) {
	projects, err := s.repo.ListProjects(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// ownedProject loads a project and checks that userID owns it. Projects of
// other users are reported as forbidden, missing ones as not found.
func (s *Service) ownedProject(ctx context.Context, userID, projectID int64) (*models.Project, error) {
	project, err := s.repo.GetProject(ctx, userID, projectID)
	if err == nil {
		return project, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	if _, err := s.repo.ProjectOwner(ctx, projectID); err != nil {
		return nil, notFound(err, "failed to get project")
	}
	slog.Warn("access_denied", "user_id", userID, "project_id", projectID)
	return nil, ErrForbidden
}

func notFound(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}
