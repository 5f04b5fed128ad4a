package progression

import (
	"fmt"

	"github.com/tahcohcat/studyquest/internal/models"
)

type dayGap int

const (
	gapSameDay dayGap = iota
	gapNextDay
	gapBroken
)

func gapFrom(last *models.Date, today models.Date) dayGap {
	if last == nil || *last == "" {
		return gapBroken
	}
	switch today.DaysSince(*last) {
	case 0:
		return gapSameDay
	case 1:
		return gapNextDay
	}
	return gapBroken
}

// NextStreak applies the consecutive-day rule: unchanged on the same day,
// +1 the day after, otherwise a fresh streak of 1.
func NextStreak(last *models.Date, streak int, today models.Date) int {
	switch gapFrom(last, today) {
	case gapSameDay:
		return streak
	case gapNextDay:
		return streak + 1
	}
	return 1
}

type ActivityResult struct {
	Profile models.Profile
	// Counted is false when the user already had activity today.
	Counted       bool
	Notifications []models.Notification
}

// RecordActivity advances the learning streak for a qualifying activity
// (a new post) on day today.
func (e *Engine) RecordActivity(p models.Profile, today models.Date) ActivityResult {
	if gapFrom(p.LastActivityDate, today) == gapSameDay {
		return ActivityResult{Profile: p}
	}

	prev := p.Streak
	p.Streak = NextStreak(p.LastActivityDate, p.Streak, today)
	p.TotalDays++
	day := today
	p.LastActivityDate = &day

	res := ActivityResult{Profile: p, Counted: true}
	if p.Streak > 1 {
		res.Notifications = append(res.Notifications, models.Notification{
			Kind:    models.NotifyStreak,
			UserID:  p.ID,
			Title:   fmt.Sprintf("🔥 %d day streak!", p.Streak),
			Message: "Keep learning every day to grow your streak.",
			Icon:    "🔥",
			Data:    map[string]interface{}{"streak": p.Streak, "previous": prev},
		})
	}
	return res
}
