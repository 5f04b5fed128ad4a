package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahcohcat/studyquest/internal/models"
)

func datePtr(d models.Date) *models.Date { return &d }

const today = models.Date("2026-10-18")

func TestNextStreak(t *testing.T) {
	tests := []struct {
		name   string
		last   *models.Date
		streak int
		want   int
	}{
		{"never active", nil, 0, 1},
		{"same day", datePtr(today), 4, 4},
		{"yesterday", datePtr(today.AddDays(-1)), 4, 5},
		{"two days ago", datePtr(today.AddDays(-2)), 4, 1},
		{"long gap", datePtr(today.AddDays(-40)), 12, 1},
		{"future date", datePtr(today.AddDays(1)), 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextStreak(tt.last, tt.streak, today))
		})
	}
}

func TestRecordActivity_YesterdayExtendsStreak(t *testing.T) {
	e := NewEngine(nil)
	p := models.Profile{ID: "u1", Streak: 2, TotalDays: 5, LastActivityDate: datePtr(today.AddDays(-1))}

	res := e.RecordActivity(p, today)

	assert.True(t, res.Counted)
	assert.Equal(t, 3, res.Profile.Streak)
	assert.Equal(t, 6, res.Profile.TotalDays)
	require.NotNil(t, res.Profile.LastActivityDate)
	assert.Equal(t, today, *res.Profile.LastActivityDate)
	require.Len(t, res.Notifications, 1)
	assert.Equal(t, models.NotifyStreak, res.Notifications[0].Kind)
}

func TestRecordActivity_SameDayIsIdempotent(t *testing.T) {
	e := NewEngine(nil)
	p := models.Profile{ID: "u1", Streak: 2, TotalDays: 5, LastActivityDate: datePtr(today.AddDays(-1))}

	first := e.RecordActivity(p, today)
	second := e.RecordActivity(first.Profile, today)

	assert.False(t, second.Counted)
	assert.Equal(t, first.Profile, second.Profile)
	assert.Empty(t, second.Notifications)
}

func TestRecordActivity_GapOrNeverResetsToOne(t *testing.T) {
	e := NewEngine(nil)
	for _, last := range []*models.Date{nil, datePtr(today.AddDays(-2)), datePtr(today.AddDays(-30))} {
		p := models.Profile{ID: "u1", Streak: 9, TotalDays: 20, LastActivityDate: last}
		res := e.RecordActivity(p, today)
		assert.Equal(t, 1, res.Profile.Streak)
		assert.Equal(t, 21, res.Profile.TotalDays)
		assert.Empty(t, res.Notifications, "a fresh streak of one is not announced")
	}
}
