package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tahcohcat/studyquest/internal/database"
	"github.com/tahcohcat/studyquest/internal/models"
	"github.com/tahcohcat/studyquest/internal/progression"
)

type GoalService struct {
	core
}

func NewGoalService(db *database.DB, opts Options) *GoalService {
	return &GoalService{core: newCore(db, opts)}
}

const goalColumns = `id, user_id, goal_type, category, title, description, current_value, target_value,
	deadline, status, sub_goals, metadata, completed_at, created_at, updated_at`

// List returns the user's goals, optionally filtered by type.
func (s *GoalService) List(ctx context.Context, userID string, goalType models.GoalType) ([]models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE user_id = ?`
	args := []interface{}{userID}
	if goalType != "" {
		query += ` AND goal_type = ?`
		args = append(args, goalType)
	}
	query += ` ORDER BY created_at DESC`

	var goals []models.Goal
	if err := s.db.SelectContext(ctx, &goals, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get goals: %w", err)
	}
	return goals, nil
}

// Active returns up to limit active goals, newest first.
func (s *GoalService) Active(ctx context.Context, userID string, limit int) ([]models.Goal, error) {
	var goals []models.Goal
	err := s.db.SelectContext(ctx, &goals, `
		SELECT `+goalColumns+` FROM goals
		WHERE user_id = ? AND status = ?
		ORDER BY created_at DESC LIMIT ?`, userID, models.GoalActive, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get active goals: %w", err)
	}
	return goals, nil
}

func (s *GoalService) CreateSmartGoal(ctx context.Context, userID string, req *models.SmartGoalRequest) (*models.Goal, error) {
	now := s.now()
	target := req.TargetValue
	if target <= 0 {
		target = progression.DefaultGoalTarget
	}
	g := &models.Goal{
		ID:          newID(),
		UserID:      userID,
		GoalType:    models.GoalSmart,
		Category:    req.Category,
		Title:       strings.TrimSpace(req.Title),
		TargetValue: &target,
		Status:      models.GoalActive,
		SubGoals:    models.StringList(req.SubGoals),
		Metadata:    models.JSONMap{"achievability_score": progression.AchievabilityScore(*req)},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Description != "" {
		d := req.Description
		g.Description = &d
	}
	if req.Deadline != "" {
		d, err := models.ParseDate(req.Deadline)
		if err != nil {
			return nil, err
		}
		g.Deadline = &d
	}
	return g, s.insert(ctx, g)
}

func (s *GoalService) CreateMission(ctx context.Context, userID string, req *models.MissionRequest) (*models.Goal, error) {
	now := s.now()
	g := &models.Goal{
		ID:        newID(),
		UserID:    userID,
		GoalType:  models.GoalWeeklyMission,
		Category:  "weekly",
		Title:     strings.TrimSpace(req.Title),
		Status:    models.GoalActive,
		Metadata:  models.JSONMap{"column": models.ColumnTodo},
		CreatedAt: now,
		UpdatedAt: now,
	}
	return g, s.insert(ctx, g)
}

// CreateHabitStack stores an ordered chain of habits as one goal.
func (s *GoalService) CreateHabitStack(ctx context.Context, userID string, req *models.HabitStackRequest) (*models.Goal, error) {
	now := s.now()
	habits := make([]string, 0, len(req.Habits))
	for _, h := range req.Habits {
		if h = strings.TrimSpace(h); h != "" {
			habits = append(habits, h)
		}
	}
	if len(habits) == 0 {
		return nil, fmt.Errorf("habit stack needs at least one habit")
	}
	g := &models.Goal{
		ID:        newID(),
		UserID:    userID,
		GoalType:  models.GoalHabitStack,
		Category:  "habit",
		Title:     strings.Join(habits, " → "),
		Status:    models.GoalActive,
		SubGoals:  models.StringList(habits),
		Metadata:  models.JSONMap{"streak": 0, "strength": 0},
		CreatedAt: now,
		UpdatedAt: now,
	}
	return g, s.insert(ctx, g)
}

func (s *GoalService) insert(ctx context.Context, g *models.Goal) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO goals (`+goalColumns+`)
		VALUES (:id, :user_id, :goal_type, :category, :title, :description, :current_value, :target_value,
			:deadline, :status, :sub_goals, :metadata, :completed_at, :created_at, :updated_at)`, g)
	if err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}
	return nil
}

func (s *GoalService) UpdateProgress(ctx context.Context, userID, goalID string, value int) (*models.Goal, error) {
	return s.mutate(ctx, "update_goal_progress", userID, goalID, func(g models.Goal, now time.Time) (models.Goal, []models.Notification, error) {
		return progression.SetGoalProgress(g, value, now)
	})
}

func (s *GoalService) MoveMission(ctx context.Context, userID, goalID, column string) (*models.Goal, error) {
	return s.mutate(ctx, "move_mission", userID, goalID, func(g models.Goal, now time.Time) (models.Goal, []models.Notification, error) {
		return progression.MoveMission(g, column, now)
	})
}

// CheckIn records today's habit check-in. counted is false when the habit
// was already checked in today.
func (s *GoalService) CheckIn(ctx context.Context, userID, goalID string) (goal *models.Goal, counted bool, err error) {
	goal, err = s.mutate(ctx, "habit_check_in", userID, goalID, func(g models.Goal, now time.Time) (models.Goal, []models.Notification, error) {
		var err error
		g, counted, err = progression.CheckInHabit(g, models.DateOf(now), now)
		return g, nil, err
	})
	return goal, counted, err
}

// Transition applies pause, resume or fail.
func (s *GoalService) Transition(ctx context.Context, userID, goalID string, ev progression.GoalEvent) (*models.Goal, error) {
	return s.mutate(ctx, "goal_"+string(ev), userID, goalID, func(g models.Goal, now time.Time) (models.Goal, []models.Notification, error) {
		g, err := progression.ApplyGoalEvent(g, ev, now)
		return g, nil, err
	})
}

type goalStep func(g models.Goal, now time.Time) (models.Goal, []models.Notification, error)

// mutate loads the goal, applies step and writes the result back in one
// transaction.
func (s *GoalService) mutate(ctx context.Context, action, userID, goalID string, step goalStep) (*models.Goal, error) {
	now := s.now()
	var (
		updated models.Goal
		notes   []models.Notification
	)
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		var g models.Goal
		if err := tx.GetContext(ctx, &g, `SELECT `+goalColumns+` FROM goals WHERE id = ? AND user_id = ?`, goalID, userID); err != nil {
			return notFound(err, "goal")
		}

		var err error
		updated, notes, err = step(g, now)
		if err != nil {
			return err
		}

		if _, err := tx.NamedExecContext(ctx, `
			UPDATE goals SET current_value = :current_value, status = :status, metadata = :metadata,
				completed_at = :completed_at, updated_at = :updated_at
			WHERE id = :id`, updated); err != nil {
			return fmt.Errorf("failed to update goal: %w", err)
		}
		return recordActivitiesTx(ctx, tx, notes, now)
	})
	if err != nil {
		logFailure(err, action)
		return nil, err
	}
	s.publish(notes)
	return &updated, nil
}
