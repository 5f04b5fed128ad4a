package models

import "time"

type QuestDifficulty string

const (
	DifficultyEasy   QuestDifficulty = "easy"
	DifficultyMedium QuestDifficulty = "medium"
	DifficultyHard   QuestDifficulty = "hard"
)

type QuestStatus string

const (
	QuestActive    QuestStatus = "active"
	QuestCompleted QuestStatus = "completed"
	QuestExpired   QuestStatus = "expired"
)

// Quest is a row of daily_quests.
type Quest struct {
	ID          string          `json:"id" db:"id"`
	Title       string          `json:"title" db:"title"`
	Description string          `json:"description" db:"description"`
	Difficulty  QuestDifficulty `json:"difficulty" db:"difficulty"`
	QuestType   string          `json:"quest_type" db:"quest_type"`
	TargetValue int             `json:"target_value" db:"target_value"`
	XPReward    int             `json:"xp_reward" db:"xp_reward"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

type UserQuest struct {
	ID           string      `json:"id" db:"id"`
	UserID       string      `json:"user_id" db:"user_id"`
	QuestID      string      `json:"quest_id" db:"quest_id"`
	AssignedDate Date        `json:"assigned_date" db:"assigned_date"`
	Progress     int         `json:"progress" db:"progress"`
	Status       QuestStatus `json:"status" db:"status"`
	CompletedAt  *time.Time  `json:"completed_at" db:"completed_at"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
}

// QuestView pairs a quest with the caller's progress on it, if any.
type QuestView struct {
	Quest     Quest      `json:"quest"`
	UserQuest *UserQuest `json:"user_quest"`
}
