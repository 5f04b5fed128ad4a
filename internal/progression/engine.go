// Package progression holds the bookkeeping rules behind streaks, XP, levels,
// quests, achievements, goals and mystery boxes.
//
// Everything here is pure: callers pass in the current rows and get back the
// rows to write plus the notifications to publish. Storage lives in
// internal/services.
package progression

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/tahcohcat/studyquest/internal/models"
)

var (
	ErrBoxAlreadyOpened      = errors.New("mystery box already opened")
	ErrQuestAlreadyCompleted = errors.New("quest already completed")
	ErrInvalidTransition     = errors.New("invalid status transition")
)

// LevelFunc maps cumulative XP to a level (>= 1). It must be monotonic.
type LevelFunc func(xp int) int

// ThresholdLevels builds a LevelFunc from cumulative XP thresholds:
// thresholds[i] is the XP needed to reach level i+1.
func ThresholdLevels(thresholds []int) LevelFunc {
	t := append([]int(nil), thresholds...)
	sort.Ints(t)
	return func(xp int) int {
		level := sort.SearchInts(t, xp+1)
		if level < 1 {
			return 1
		}
		return level
	}
}

type Engine struct {
	levels LevelFunc
}

func NewEngine(levels LevelFunc) *Engine {
	if levels == nil {
		levels = ThresholdLevels([]int{0, 100, 250, 500, 1000, 2000, 3500, 5500, 8000, 11000})
	}
	return &Engine{levels: levels}
}

// Level reports the level for an XP total.
func (e *Engine) Level(xp int) int {
	if l := e.levels(xp); l > 1 {
		return l
	}
	return 1
}

// AwardXP credits amount to the profile and re-derives its level. The stored
// level never goes down, even if the level table changed since it was written.
func (e *Engine) AwardXP(p models.Profile, amount int) (models.Profile, []models.Notification) {
	if amount <= 0 {
		return p, nil
	}
	p.XP += amount
	if p.Level < 1 {
		p.Level = 1
	}

	var notes []models.Notification
	if next := e.Level(p.XP); next > p.Level {
		p.Level = next
		notes = append(notes, models.Notification{
			Kind:    models.NotifyLevelUp,
			UserID:  p.ID,
			Title:   "Level up!",
			Message: fmt.Sprintf("You reached level %d with %s XP", next, humanize.Comma(int64(p.XP))),
			Icon:    "⬆️",
			Data:    map[string]interface{}{"level": next, "xp": p.XP},
		})
	}
	return p, notes
}
