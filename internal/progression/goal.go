package progression

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/tahcohcat/studyquest/internal/models"
)

const (
	DefaultGoalTarget    = 100
	habitStrengthPerDay  = 5
	maxHabitStrength     = 100
	achievabilityBase    = 50
	achievabilityPerPart = 10
)

// AchievabilityScore rates how well specified a SMART goal draft is.
func AchievabilityScore(req models.SmartGoalRequest) int {
	score := achievabilityBase
	if req.Category != "" {
		score += achievabilityPerPart
	}
	if utf8.RuneCountInString(req.Title) > 10 {
		score += achievabilityPerPart
	}
	if utf8.RuneCountInString(req.Description) > 20 {
		score += achievabilityPerPart
	}
	if req.TargetValue > 0 {
		score += achievabilityPerPart
	}
	if req.Deadline != "" {
		score += achievabilityPerPart
	}
	if score > 100 {
		score = 100
	}
	return score
}

// ApplyGoalEvent runs one state-machine step and stamps completion time.
func ApplyGoalEvent(g models.Goal, ev GoalEvent, now time.Time) (models.Goal, error) {
	next, err := NextGoalStatus(g.GoalType, g.Status, ev)
	if err != nil {
		return g, err
	}
	g.Status = next
	switch next {
	case models.GoalCompleted:
		t := now
		g.CompletedAt = &t
	case models.GoalActive:
		g.CompletedAt = nil
	}
	g.UpdatedAt = now
	return g, nil
}

// SetGoalProgress records a new current value, completing the goal once it
// reaches its target.
func SetGoalProgress(g models.Goal, value int, now time.Time) (models.Goal, []models.Notification, error) {
	if g.Status != models.GoalActive {
		return g, nil, fmt.Errorf("%w: goal is %s", ErrInvalidTransition, g.Status)
	}
	if value < 0 {
		value = 0
	}
	g.CurrentValue = value
	g.UpdatedAt = now

	target := DefaultGoalTarget
	if g.TargetValue != nil {
		target = *g.TargetValue
	}
	if value < target {
		return g, nil, nil
	}

	g, err := ApplyGoalEvent(g, GoalComplete, now)
	if err != nil {
		return g, nil, err
	}
	return g, []models.Notification{goalCompleted(g)}, nil
}

// MoveMission moves a weekly mission card to column. Entering "completed"
// completes the goal; leaving it reopens the goal.
func MoveMission(g models.Goal, column string, now time.Time) (models.Goal, []models.Notification, error) {
	if g.GoalType != models.GoalWeeklyMission {
		return g, nil, fmt.Errorf("%w: %s is not a weekly mission", ErrInvalidTransition, g.GoalType)
	}
	switch column {
	case models.ColumnTodo, models.ColumnInProgress, models.ColumnCompleted:
	default:
		return g, nil, fmt.Errorf("unknown mission column %q", column)
	}

	var (
		notes []models.Notification
		err   error
	)
	switch {
	case column == models.ColumnCompleted && g.Status != models.GoalCompleted:
		g, err = ApplyGoalEvent(g, GoalComplete, now)
		notes = append(notes, goalCompleted(g))
	case column != models.ColumnCompleted && g.Status == models.GoalCompleted:
		g, err = ApplyGoalEvent(g, GoalReopen, now)
	}
	if err != nil {
		return g, nil, err
	}

	meta := models.JSONMap{}
	for k, v := range g.Metadata {
		meta[k] = v
	}
	meta["column"] = column
	g.Metadata = meta
	g.UpdatedAt = now
	return g, notes, nil
}

// CheckInHabit records today's check-in on a habit stack. A second check-in
// on the same day changes nothing and reports counted=false.
func CheckInHabit(g models.Goal, today models.Date, now time.Time) (models.Goal, bool, error) {
	if g.GoalType != models.GoalHabitStack {
		return g, false, fmt.Errorf("%w: %s is not a habit stack", ErrInvalidTransition, g.GoalType)
	}
	if g.Status != models.GoalActive {
		return g, false, fmt.Errorf("%w: habit stack is %s", ErrInvalidTransition, g.Status)
	}

	var last *models.Date
	// A malformed stored check-in counts as no previous check-in.
	if d, err := models.ParseDate(g.Metadata.String("last_check_in")); err == nil {
		last = &d
	}
	if gapFrom(last, today) == gapSameDay {
		return g, false, nil
	}

	strength := g.Metadata.Int("strength") + habitStrengthPerDay
	if strength > maxHabitStrength {
		strength = maxHabitStrength
	}

	meta := models.JSONMap{}
	for k, v := range g.Metadata {
		meta[k] = v
	}
	meta["streak"] = NextStreak(last, g.Metadata.Int("streak"), today)
	meta["strength"] = strength
	meta["last_check_in"] = today.String()
	g.Metadata = meta
	g.UpdatedAt = now
	return g, true, nil
}

func goalCompleted(g models.Goal) models.Notification {
	return models.Notification{
		Kind:    models.NotifyGoalCompleted,
		UserID:  g.UserID,
		Title:   "Goal completed! 🎯",
		Message: g.Title,
		Icon:    "🎯",
		Data:    map[string]interface{}{"goal_id": g.ID, "goal_type": g.GoalType},
	}
}
