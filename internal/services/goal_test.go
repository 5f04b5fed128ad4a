package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahcohcat/studyquest/internal/models"
	"github.com/tahcohcat/studyquest/internal/progression"
)

func TestSmartGoal_ProgressCompletes(t *testing.T) {
	env := newTestEnv(t)
	goals := NewGoalService(env.db, env.opts)
	ctx := context.Background()

	g, err := goals.CreateSmartGoal(ctx, env.userID, &models.SmartGoalRequest{
		Category:    "math",
		Title:       "Finish the algebra workbook",
		TargetValue: 20,
		Deadline:    "2026-12-01",
		SubGoals:    []string{"chapter 1", "chapter 2"},
	})
	require.NoError(t, err)
	assert.Equal(t, 90, g.Metadata.Int("achievability_score"))

	g, err = goals.UpdateProgress(ctx, env.userID, g.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, models.GoalActive, g.Status)

	g, err = goals.UpdateProgress(ctx, env.userID, g.ID, 20)
	require.NoError(t, err)
	assert.Equal(t, models.GoalCompleted, g.Status)
	assert.Contains(t, env.notes.kinds(), models.NotifyGoalCompleted)

	list, err := goals.List(ctx, env.userID, models.GoalSmart)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.GoalCompleted, list[0].Status)
	assert.Equal(t, models.StringList{"chapter 1", "chapter 2"}, list[0].SubGoals)
	require.NotNil(t, list[0].Deadline)
	assert.Equal(t, models.Date("2026-12-01"), *list[0].Deadline)
}

func TestSmartGoal_DefaultTarget(t *testing.T) {
	env := newTestEnv(t)
	g, err := NewGoalService(env.db, env.opts).CreateSmartGoal(context.Background(), env.userID,
		&models.SmartGoalRequest{Category: "reading", Title: "Read more"})
	require.NoError(t, err)
	require.NotNil(t, g.TargetValue)
	assert.Equal(t, 100, *g.TargetValue)
}

func TestMission_KanbanMoves(t *testing.T) {
	env := newTestEnv(t)
	goals := NewGoalService(env.db, env.opts)
	ctx := context.Background()

	g, err := goals.CreateMission(ctx, env.userID, &models.MissionRequest{Title: "Practice speaking"})
	require.NoError(t, err)
	assert.Equal(t, models.ColumnTodo, g.Metadata.String("column"))

	g, err = goals.MoveMission(ctx, env.userID, g.ID, models.ColumnCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.GoalCompleted, g.Status)

	g, err = goals.MoveMission(ctx, env.userID, g.ID, models.ColumnInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.GoalActive, g.Status)
	assert.Equal(t, models.ColumnInProgress, g.Metadata.String("column"))
}

func TestHabitStack_CheckInOncePerDay(t *testing.T) {
	env := newTestEnv(t)
	goals := NewGoalService(env.db, env.opts)
	ctx := context.Background()

	g, err := goals.CreateHabitStack(ctx, env.userID, &models.HabitStackRequest{Habits: []string{"wake up", " drink water ", "review notes"}})
	require.NoError(t, err)
	assert.Equal(t, "wake up → drink water → review notes", g.Title)

	g, counted, err := goals.CheckIn(ctx, env.userID, g.ID)
	require.NoError(t, err)
	assert.True(t, counted)
	assert.Equal(t, 1, g.Metadata.Int("streak"))

	g, counted, err = goals.CheckIn(ctx, env.userID, g.ID)
	require.NoError(t, err)
	assert.False(t, counted)
	assert.Equal(t, 1, g.Metadata.Int("streak"))
	assert.Equal(t, 5, g.Metadata.Int("strength"))

	env.clock.AdvanceDays(1)
	g, counted, err = goals.CheckIn(ctx, env.userID, g.ID)
	require.NoError(t, err)
	assert.True(t, counted)
	assert.Equal(t, 2, g.Metadata.Int("streak"))
	assert.Equal(t, 10, g.Metadata.Int("strength"))
}

func TestGoalTransitions(t *testing.T) {
	env := newTestEnv(t)
	goals := NewGoalService(env.db, env.opts)
	ctx := context.Background()

	g, err := goals.CreateSmartGoal(ctx, env.userID, &models.SmartGoalRequest{Category: "science", Title: "Lab report"})
	require.NoError(t, err)

	g, err = goals.Transition(ctx, env.userID, g.ID, progression.GoalPause)
	require.NoError(t, err)
	assert.Equal(t, models.GoalPaused, g.Status)

	_, err = goals.UpdateProgress(ctx, env.userID, g.ID, 5)
	assert.ErrorIs(t, err, progression.ErrInvalidTransition)

	g, err = goals.Transition(ctx, env.userID, g.ID, progression.GoalFail)
	require.NoError(t, err)
	assert.Equal(t, models.GoalFailed, g.Status)

	_, err = goals.Transition(ctx, env.userID, g.ID, progression.GoalResume)
	assert.ErrorIs(t, err, progression.ErrInvalidTransition)

	_, err = goals.Transition(ctx, "someone-else", g.ID, progression.GoalResume)
	assert.ErrorIs(t, err, ErrNotFound)
}
