package progression

import (
	"fmt"
	"time"

	"github.com/tahcohcat/studyquest/internal/models"
)

type QuestOutcome struct {
	UserQuest models.UserQuest
	Profile   models.Profile
	// Created is true when UserQuest is a new row to insert.
	Created bool
	// Completed is true only on the step that reached the target.
	Completed     bool
	XPAwarded     int
	Notifications []models.Notification
}

// CompleteQuest records one unit of progress on quest for the profile's
// owner. uq is today's user-quest row, or nil if there is none yet.
func (e *Engine) CompleteQuest(q models.Quest, uq *models.UserQuest, p models.Profile, today models.Date, now time.Time) (QuestOutcome, error) {
	target := q.TargetValue
	if target < 1 {
		target = 1
	}

	out := QuestOutcome{Profile: p}
	if uq == nil {
		out.Created = true
		out.UserQuest = models.UserQuest{
			UserID:       p.ID,
			QuestID:      q.ID,
			AssignedDate: today,
			Progress:     0,
			Status:       models.QuestActive,
			CreatedAt:    now,
		}
	} else {
		switch uq.Status {
		case models.QuestCompleted:
			return out, ErrQuestAlreadyCompleted
		case models.QuestExpired:
			return out, fmt.Errorf("%w: quest expired", ErrInvalidTransition)
		}
		out.UserQuest = *uq
	}

	row := &out.UserQuest
	row.Progress++
	if row.Progress > target {
		row.Progress = target
	}
	if row.Progress < target {
		return out, nil
	}

	status, err := NextQuestStatus(row.Status, QuestTargetReached)
	if err != nil {
		return out, err
	}
	row.Status = status
	completedAt := now
	row.CompletedAt = &completedAt
	out.Completed = true

	prof := out.Profile
	if gapFrom(prof.LastQuestDate, today) != gapSameDay {
		prof.QuestStreak = NextStreak(prof.LastQuestDate, prof.QuestStreak, today)
		day := today
		prof.LastQuestDate = &day
	}

	prof, levelNotes := e.AwardXP(prof, q.XPReward)
	out.Profile = prof
	out.XPAwarded = q.XPReward

	out.Notifications = append(out.Notifications, models.Notification{
		Kind:    models.NotifyQuestCompleted,
		UserID:  p.ID,
		Title:   "Quest complete! 🎉",
		Message: fmt.Sprintf("%s: +%d XP", q.Title, q.XPReward),
		Icon:    "✅",
		Data: map[string]interface{}{
			"quest_id":     q.ID,
			"xp_reward":    q.XPReward,
			"quest_streak": prof.QuestStreak,
		},
	})
	out.Notifications = append(out.Notifications, levelNotes...)
	return out, nil
}

// QuestStatusOn reports the effective status of a user quest on day today:
// an active quest assigned on an earlier day has expired.
func QuestStatusOn(uq models.UserQuest, today models.Date) models.QuestStatus {
	if uq.Status == models.QuestActive && uq.AssignedDate != "" && uq.AssignedDate < today {
		if s, err := NextQuestStatus(uq.Status, QuestDayPassed); err == nil {
			return s
		}
	}
	return uq.Status
}
