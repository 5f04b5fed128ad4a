package models

type NotificationKind string

const (
	NotifyAchievementUnlocked NotificationKind = "achievement_unlocked"
	NotifyLevelUp             NotificationKind = "level_up"
	NotifyStreak              NotificationKind = "streak"
	NotifyQuestCompleted      NotificationKind = "quest_completed"
	NotifyBoxOpened           NotificationKind = "box_opened"
	NotifyGoalCompleted       NotificationKind = "goal_completed"
	NotifyNewPost             NotificationKind = "new_post"
)

// Notification is a side effect produced by a progression step. An empty
// UserID means it is broadcast to every connected client.
type Notification struct {
	Kind    NotificationKind       `json:"kind"`
	UserID  string                 `json:"user_id,omitempty"`
	Title   string                 `json:"title"`
	Message string                 `json:"message"`
	Icon    string                 `json:"icon,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
}
