package progression

import (
	"fmt"

	"github.com/tahcohcat/studyquest/internal/models"
)

type QuestEvent string

const (
	QuestTargetReached QuestEvent = "target_reached"
	QuestDayPassed     QuestEvent = "day_passed"
)

// NextQuestStatus is the user-quest state machine. completed and expired are
// terminal.
func NextQuestStatus(s models.QuestStatus, ev QuestEvent) (models.QuestStatus, error) {
	if s == models.QuestActive {
		switch ev {
		case QuestTargetReached:
			return models.QuestCompleted, nil
		case QuestDayPassed:
			return models.QuestExpired, nil
		}
	}
	return s, fmt.Errorf("%w: quest %s on %s", ErrInvalidTransition, s, ev)
}

type GoalEvent string

const (
	GoalComplete GoalEvent = "complete"
	GoalPause    GoalEvent = "pause"
	GoalResume   GoalEvent = "resume"
	GoalFail     GoalEvent = "fail"
	GoalReopen   GoalEvent = "reopen"
)

// NextGoalStatus is the goal state machine. Only weekly missions may be
// reopened, since their kanban cards can be dragged back out of "completed".
func NextGoalStatus(t models.GoalType, s models.GoalStatus, ev GoalEvent) (models.GoalStatus, error) {
	switch {
	case ev == GoalComplete && s == models.GoalActive:
		return models.GoalCompleted, nil
	case ev == GoalPause && s == models.GoalActive:
		return models.GoalPaused, nil
	case ev == GoalResume && s == models.GoalPaused:
		return models.GoalActive, nil
	case ev == GoalFail && (s == models.GoalActive || s == models.GoalPaused):
		return models.GoalFailed, nil
	case ev == GoalReopen && s == models.GoalCompleted && t == models.GoalWeeklyMission:
		return models.GoalActive, nil
	}
	return s, fmt.Errorf("%w: %s goal %s on %s", ErrInvalidTransition, t, s, ev)
}
