package database

import "fmt"

// Calendar dates are TEXT, not DATE: the sqlite drivers turn DATE columns
// into time.Time, and models.Date wants the YYYY-MM-DD string back.
var tables = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		last_login_at DATETIME
	);`,

	`CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		avatar_url TEXT,
		class_level TEXT,
		xp INTEGER NOT NULL DEFAULT 0 CHECK (xp >= 0),
		level INTEGER NOT NULL DEFAULT 1 CHECK (level >= 1),
		streak INTEGER NOT NULL DEFAULT 0 CHECK (streak >= 0),
		quest_streak INTEGER NOT NULL DEFAULT 0 CHECK (quest_streak >= 0),
		total_days INTEGER NOT NULL DEFAULT 0 CHECK (total_days >= 0),
		last_activity_date TEXT,
		last_quest_date TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (id) REFERENCES users(id) ON DELETE CASCADE
	);`,

	`CREATE TABLE IF NOT EXISTS achievements (
		id TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		milestone_value INTEGER NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		icon TEXT NOT NULL DEFAULT '',
		tier TEXT CHECK (tier IN ('bronze', 'silver', 'gold', 'platinum', 'diamond')),
		rarity_percentage REAL,
		created_at DATETIME NOT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS user_achievements (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		achievement_id TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		UNIQUE (user_id, achievement_id),
		FOREIGN KEY (user_id) REFERENCES profiles(id) ON DELETE CASCADE,
		FOREIGN KEY (achievement_id) REFERENCES achievements(id) ON DELETE CASCADE
	);`,

	`CREATE TABLE IF NOT EXISTS daily_quests (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		difficulty TEXT NOT NULL CHECK (difficulty IN ('easy', 'medium', 'hard')),
		quest_type TEXT NOT NULL,
		target_value INTEGER NOT NULL CHECK (target_value >= 1),
		xp_reward INTEGER NOT NULL CHECK (xp_reward >= 0),
		created_at DATETIME NOT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS user_quests (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		quest_id TEXT NOT NULL,
		assigned_date TEXT NOT NULL,
		progress INTEGER NOT NULL DEFAULT 0 CHECK (progress >= 0),
		status TEXT NOT NULL CHECK (status IN ('active', 'completed', 'expired')),
		completed_at DATETIME,
		created_at DATETIME NOT NULL,
		UNIQUE (user_id, quest_id, assigned_date),
		FOREIGN KEY (user_id) REFERENCES profiles(id) ON DELETE CASCADE,
		FOREIGN KEY (quest_id) REFERENCES daily_quests(id) ON DELETE CASCADE
	);`,

	`CREATE TABLE IF NOT EXISTS goals (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		goal_type TEXT NOT NULL CHECK (goal_type IN ('smart_goal', 'weekly_mission', 'habit_stack')),
		category TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL,
		description TEXT,
		current_value INTEGER NOT NULL DEFAULT 0,
		target_value INTEGER,
		deadline TEXT,
		status TEXT NOT NULL CHECK (status IN ('active', 'completed', 'failed', 'paused')),
		sub_goals TEXT NOT NULL DEFAULT '[]',
		metadata TEXT,
		completed_at DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES profiles(id) ON DELETE CASCADE
	);`,

	`CREATE TABLE IF NOT EXISTS mystery_boxes (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		rarity TEXT NOT NULL CHECK (rarity IN ('common', 'rare', 'epic', 'legendary')),
		is_opened BOOLEAN NOT NULL DEFAULT 0,
		reward_type TEXT CHECK (reward_type IN ('xp', 'badge', 'cosmetic', 'privilege')),
		reward_data TEXT,
		opened_at DATETIME,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES profiles(id) ON DELETE CASCADE
	);`,

	`CREATE TABLE IF NOT EXISTS user_inventory (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		item_type TEXT NOT NULL,
		item_id TEXT NOT NULL,
		item_data TEXT,
		is_equipped BOOLEAN NOT NULL DEFAULT 0,
		acquired_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES profiles(id) ON DELETE CASCADE
	);`,

	`CREATE TABLE IF NOT EXISTS posts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		content TEXT NOT NULL,
		image_url TEXT,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES profiles(id) ON DELETE CASCADE
	);`,

	`CREATE TABLE IF NOT EXISTS motivation_scores (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		risk INTEGER NOT NULL CHECK (risk BETWEEN 1 AND 10),
		diligence INTEGER NOT NULL CHECK (diligence BETWEEN 1 AND 10),
		responsibility INTEGER NOT NULL CHECK (responsibility BETWEEN 1 AND 10),
		collaboration INTEGER NOT NULL CHECK (collaboration BETWEEN 1 AND 10),
		perseverance INTEGER NOT NULL CHECK (perseverance BETWEEN 1 AND 10),
		planning INTEGER NOT NULL CHECK (planning BETWEEN 1 AND 10),
		created_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES profiles(id) ON DELETE CASCADE
	);`,

	`CREATE TABLE IF NOT EXISTS emotion_logs (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		emotion TEXT NOT NULL,
		energy_level INTEGER CHECK (energy_level BETWEEN 1 AND 5),
		activity TEXT,
		notes TEXT,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES profiles(id) ON DELETE CASCADE
	);`,

	`CREATE TABLE IF NOT EXISTS activities (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		details TEXT NOT NULL DEFAULT '',
		icon TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES profiles(id) ON DELETE CASCADE
	);`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_user_achievements_user ON user_achievements(user_id);`,
	`CREATE INDEX IF NOT EXISTS idx_user_quests_user_date ON user_quests(user_id, assigned_date);`,
	`CREATE INDEX IF NOT EXISTS idx_goals_user ON goals(user_id, status);`,
	`CREATE INDEX IF NOT EXISTS idx_mystery_boxes_user ON mystery_boxes(user_id);`,
	`CREATE INDEX IF NOT EXISTS idx_inventory_user ON user_inventory(user_id);`,
	`CREATE INDEX IF NOT EXISTS idx_posts_created ON posts(created_at);`,
	`CREATE INDEX IF NOT EXISTS idx_posts_user ON posts(user_id);`,
	`CREATE INDEX IF NOT EXISTS idx_motivation_user ON motivation_scores(user_id, created_at);`,
	`CREATE INDEX IF NOT EXISTS idx_emotions_user ON emotion_logs(user_id, created_at);`,
	`CREATE INDEX IF NOT EXISTS idx_activities_user ON activities(user_id, created_at);`,
}

// Migrate creates every table and index that does not exist yet.
func (db *DB) Migrate() error {
	for _, query := range tables {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	for _, index := range indexes {
		if _, err := db.Exec(index); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
