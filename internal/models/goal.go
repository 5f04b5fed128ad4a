package models

import "time"

type GoalType string

const (
	GoalSmart         GoalType = "smart_goal"
	GoalWeeklyMission GoalType = "weekly_mission"
	GoalHabitStack    GoalType = "habit_stack"
)

type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalFailed    GoalStatus = "failed"
	GoalPaused    GoalStatus = "paused"
)

// Kanban columns for weekly missions, kept in Goal.Metadata["column"].
const (
	ColumnTodo       = "todo"
	ColumnInProgress = "inprogress"
	ColumnCompleted  = "completed"
)

type Goal struct {
	ID           string     `json:"id" db:"id"`
	UserID       string     `json:"user_id" db:"user_id"`
	GoalType     GoalType   `json:"goal_type" db:"goal_type"`
	Category     string     `json:"category" db:"category"`
	Title        string     `json:"title" db:"title"`
	Description  *string    `json:"description" db:"description"`
	CurrentValue int        `json:"current_value" db:"current_value"`
	TargetValue  *int       `json:"target_value" db:"target_value"`
	Deadline     *Date      `json:"deadline" db:"deadline"`
	Status       GoalStatus `json:"status" db:"status"`
	SubGoals     StringList `json:"sub_goals" db:"sub_goals"`
	Metadata     JSONMap    `json:"metadata" db:"metadata"`
	CompletedAt  *time.Time `json:"completed_at" db:"completed_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

type SmartGoalRequest struct {
	Category    string   `json:"category" validate:"required"`
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description"`
	TargetValue int      `json:"target_value" validate:"gte=0"`
	Deadline    string   `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
	SubGoals    []string `json:"sub_goals"`
}

type MissionRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}

type HabitStackRequest struct {
	Habits []string `json:"habits" validate:"required,min=1,dive,required"`
}

type ProgressRequest struct {
	Value int `json:"value" validate:"gte=0"`
}

type ColumnRequest struct {
	Column string `json:"column" validate:"required,oneof=todo inprogress completed"`
}
