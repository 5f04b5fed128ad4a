package models

import (
	"time"
)

type BadgeTier string

const (
	TierBronze   BadgeTier = "bronze"
	TierSilver   BadgeTier = "silver"
	TierGold     BadgeTier = "gold"
	TierPlatinum BadgeTier = "platinum"
	TierDiamond  BadgeTier = "diamond"
)

// Achievement categories. Motivation achievements use
// CategoryMotivation + "_" + dimension, e.g. "motivation_planning".
const (
	CategoryPosts      = "posts"
	CategoryStreak     = "streak"
	CategoryMotivation = "motivation"
)

type Achievement struct {
	ID               string     `json:"id" db:"id"`
	Category         string     `json:"category" db:"category"`
	MilestoneValue   int        `json:"milestone_value" db:"milestone_value"`
	Title            string     `json:"title" db:"title"`
	Description      string     `json:"description" db:"description"`
	Icon             string     `json:"icon" db:"icon"`
	Tier             *BadgeTier `json:"tier" db:"tier"`
	RarityPercentage *float64   `json:"rarity_percentage" db:"rarity_percentage"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
}

type UserAchievement struct {
	ID            string    `json:"id" db:"id"`
	UserID        string    `json:"user_id" db:"user_id"`
	AchievementID string    `json:"achievement_id" db:"achievement_id"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

type UserAchievementView struct {
	Achievement
	Unlocked   bool       `json:"unlocked" db:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at" db:"unlocked_at"`
}

type Activity struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Type      string    `json:"type" db:"type"` // achievement_unlocked, level_up, quest_completed, box_opened, ...
	Title     string    `json:"title" db:"title"`
	Details   string    `json:"details" db:"details"`
	Icon      string    `json:"icon" db:"icon"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
