package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahcohcat/studyquest/internal/models"
)

func TestNextGoalStatus(t *testing.T) {
	tests := []struct {
		typ     models.GoalType
		from    models.GoalStatus
		ev      GoalEvent
		want    models.GoalStatus
		wantErr bool
	}{
		{models.GoalSmart, models.GoalActive, GoalComplete, models.GoalCompleted, false},
		{models.GoalSmart, models.GoalActive, GoalPause, models.GoalPaused, false},
		{models.GoalSmart, models.GoalPaused, GoalResume, models.GoalActive, false},
		{models.GoalSmart, models.GoalPaused, GoalFail, models.GoalFailed, false},
		{models.GoalWeeklyMission, models.GoalCompleted, GoalReopen, models.GoalActive, false},
		{models.GoalSmart, models.GoalCompleted, GoalReopen, models.GoalCompleted, true},
		{models.GoalHabitStack, models.GoalFailed, GoalResume, models.GoalFailed, true},
		{models.GoalSmart, models.GoalPaused, GoalComplete, models.GoalPaused, true},
		{models.GoalSmart, models.GoalCompleted, GoalComplete, models.GoalCompleted, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ)+"/"+string(tt.from)+"/"+string(tt.ev), func(t *testing.T) {
			got, err := NextGoalStatus(tt.typ, tt.from, tt.ev)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextQuestStatus_Terminal(t *testing.T) {
	_, err := NextQuestStatus(models.QuestCompleted, QuestTargetReached)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = NextQuestStatus(models.QuestExpired, QuestTargetReached)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAchievabilityScore(t *testing.T) {
	assert.Equal(t, 50, AchievabilityScore(models.SmartGoalRequest{}))
	assert.Equal(t, 100, AchievabilityScore(models.SmartGoalRequest{
		Category:    "study",
		Title:       "Finish the algebra workbook",
		Description: "Two exercises every evening before dinner",
		TargetValue: 40,
		Deadline:    "2026-12-01",
	}))
	// Rune count, not byte count.
	assert.Equal(t, 50, AchievabilityScore(models.SmartGoalRequest{Title: "อ่านทุกวัน"}))
	assert.Equal(t, 60, AchievabilityScore(models.SmartGoalRequest{Title: "อ่านหนังสือทุกวัน"}))
}

func TestSetGoalProgress(t *testing.T) {
	target := 10
	g := models.Goal{ID: "g", UserID: "u1", GoalType: models.GoalSmart, Status: models.GoalActive, TargetValue: &target}

	g, notes, err := SetGoalProgress(g, 4, now)
	require.NoError(t, err)
	assert.Equal(t, 4, g.CurrentValue)
	assert.Equal(t, models.GoalActive, g.Status)
	assert.Empty(t, notes)

	g, notes, err = SetGoalProgress(g, 12, now)
	require.NoError(t, err)
	assert.Equal(t, models.GoalCompleted, g.Status)
	require.NotNil(t, g.CompletedAt)
	require.Len(t, notes, 1)

	_, _, err = SetGoalProgress(g, 13, now)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestMoveMission(t *testing.T) {
	g := models.Goal{ID: "m", GoalType: models.GoalWeeklyMission, Status: models.GoalActive, Metadata: models.JSONMap{"column": "todo"}}

	g, notes, err := MoveMission(g, models.ColumnInProgress, now)
	require.NoError(t, err)
	assert.Equal(t, "inprogress", g.Metadata.String("column"))
	assert.Equal(t, models.GoalActive, g.Status)
	assert.Empty(t, notes)

	g, notes, err = MoveMission(g, models.ColumnCompleted, now)
	require.NoError(t, err)
	assert.Equal(t, models.GoalCompleted, g.Status)
	assert.Len(t, notes, 1)

	g, _, err = MoveMission(g, models.ColumnTodo, now)
	require.NoError(t, err)
	assert.Equal(t, models.GoalActive, g.Status)
	assert.Nil(t, g.CompletedAt)

	_, _, err = MoveMission(g, "archived", now)
	assert.Error(t, err)

	_, _, err = MoveMission(models.Goal{GoalType: models.GoalSmart, Status: models.GoalActive}, models.ColumnTodo, now)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCheckInHabit(t *testing.T) {
	g := models.Goal{ID: "h", GoalType: models.GoalHabitStack, Status: models.GoalActive,
		Metadata: models.JSONMap{"streak": float64(0), "strength": float64(0)}}

	g, counted, err := CheckInHabit(g, today.AddDays(-1), now)
	require.NoError(t, err)
	assert.True(t, counted)
	assert.Equal(t, 1, g.Metadata.Int("streak"))
	assert.Equal(t, 5, g.Metadata.Int("strength"))

	g, counted, err = CheckInHabit(g, today, now)
	require.NoError(t, err)
	assert.True(t, counted)
	assert.Equal(t, 2, g.Metadata.Int("streak"))
	assert.Equal(t, 10, g.Metadata.Int("strength"))

	same, counted, err := CheckInHabit(g, today, now)
	require.NoError(t, err)
	assert.False(t, counted)
	assert.Equal(t, g.Metadata, same.Metadata)

	g.Metadata["strength"] = float64(98)
	g, _, err = CheckInHabit(g, today.AddDays(3), now)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Metadata.Int("streak"))
	assert.Equal(t, 100, g.Metadata.Int("strength"))
}

func TestCheckInHabit_MalformedLastCheckIn(t *testing.T) {
	g := models.Goal{ID: "h", GoalType: models.GoalHabitStack, Status: models.GoalActive,
		Metadata: models.JSONMap{"streak": float64(4), "strength": float64(20), "last_check_in": "yesterday"}}

	g, counted, err := CheckInHabit(g, today, now)
	require.NoError(t, err)
	assert.True(t, counted)
	assert.Equal(t, 1, g.Metadata.Int("streak"))
	assert.Equal(t, today.String(), g.Metadata.String("last_check_in"))
}
