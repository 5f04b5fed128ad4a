package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tahcohcat/studyquest/internal/models"
)

func tier(t models.BadgeTier) *models.BadgeTier { return &t }

func rarity(p float64) *float64 { return &p }

// DefaultAchievements is the badge catalogue. IDs are stable so seeding is
// idempotent.
var DefaultAchievements = []models.Achievement{
	{ID: "posts-1", Category: models.CategoryPosts, MilestoneValue: 1, Title: "First Share", Description: "Share your first learning post", Icon: "✍️", Tier: tier(models.TierBronze), RarityPercentage: rarity(85)},
	{ID: "posts-10", Category: models.CategoryPosts, MilestoneValue: 10, Title: "Storyteller", Description: "Share 10 learning posts", Icon: "📚", Tier: tier(models.TierSilver), RarityPercentage: rarity(40)},
	{ID: "posts-20", Category: models.CategoryPosts, MilestoneValue: 20, Title: "Knowledge Sharer", Description: "Share 20 learning posts", Icon: "🎓", Tier: tier(models.TierGold), RarityPercentage: rarity(18)},
	{ID: "posts-50", Category: models.CategoryPosts, MilestoneValue: 50, Title: "Class Mentor", Description: "Share 50 learning posts", Icon: "🌟", Tier: tier(models.TierPlatinum), RarityPercentage: rarity(4)},

	{ID: "streak-3", Category: models.CategoryStreak, MilestoneValue: 3, Title: "Warming Up", Description: "Learn 3 days in a row", Icon: "🔥", Tier: tier(models.TierBronze), RarityPercentage: rarity(60)},
	{ID: "streak-7", Category: models.CategoryStreak, MilestoneValue: 7, Title: "One Week Strong", Description: "Learn 7 days in a row", Icon: "⚡", Tier: tier(models.TierSilver), RarityPercentage: rarity(30)},
	{ID: "streak-14", Category: models.CategoryStreak, MilestoneValue: 14, Title: "Unstoppable", Description: "Learn 14 days in a row", Icon: "💪", Tier: tier(models.TierGold), RarityPercentage: rarity(12)},
	{ID: "streak-30", Category: models.CategoryStreak, MilestoneValue: 30, Title: "Habit Master", Description: "Learn 30 days in a row", Icon: "👑", Tier: tier(models.TierDiamond), RarityPercentage: rarity(2)},

	{ID: "motivation-risk-8", Category: "motivation_risk", MilestoneValue: 8, Title: "Bold Explorer", Description: "Rate yourself 8+ on risk-taking", Icon: "🧭", Tier: tier(models.TierSilver)},
	{ID: "motivation-diligence-8", Category: "motivation_diligence", MilestoneValue: 8, Title: "Hard Worker", Description: "Rate yourself 8+ on diligence", Icon: "🐝", Tier: tier(models.TierSilver)},
	{ID: "motivation-responsibility-8", Category: "motivation_responsibility", MilestoneValue: 8, Title: "Dependable", Description: "Rate yourself 8+ on responsibility", Icon: "🛡️", Tier: tier(models.TierSilver)},
	{ID: "motivation-collaboration-8", Category: "motivation_collaboration", MilestoneValue: 8, Title: "Team Player", Description: "Rate yourself 8+ on collaboration", Icon: "🤝", Tier: tier(models.TierSilver)},
	{ID: "motivation-perseverance-8", Category: "motivation_perseverance", MilestoneValue: 8, Title: "Never Give Up", Description: "Rate yourself 8+ on perseverance", Icon: "🏔️", Tier: tier(models.TierSilver)},
	{ID: "motivation-planning-8", Category: "motivation_planning", MilestoneValue: 8, Title: "Strategist", Description: "Rate yourself 8+ on planning", Icon: "🗺️", Tier: tier(models.TierSilver)},
	{ID: "motivation-perseverance-10", Category: "motivation_perseverance", MilestoneValue: 10, Title: "Iron Will", Description: "Rate yourself 10 on perseverance", Icon: "🦾", Tier: tier(models.TierGold)},
	{ID: "motivation-planning-10", Category: "motivation_planning", MilestoneValue: 10, Title: "Grand Planner", Description: "Rate yourself 10 on planning", Icon: "📐", Tier: tier(models.TierGold)},
}

var DefaultQuests = []models.Quest{
	{ID: "quest-share-post", Title: "Share what you learned", Description: "Post one thing you learned today", Difficulty: models.DifficultyEasy, QuestType: "post", TargetValue: 1, XPReward: 20},
	{ID: "quest-motivation", Title: "Motivation check-in", Description: "Rate yourself on the six motivation dimensions", Difficulty: models.DifficultyEasy, QuestType: "motivation", TargetValue: 1, XPReward: 15},
	{ID: "quest-pomodoro", Title: "Three focus sessions", Description: "Finish three 25-minute study sessions", Difficulty: models.DifficultyMedium, QuestType: "focus", TargetValue: 3, XPReward: 50},
	{ID: "quest-review", Title: "Review five flashcards", Description: "Go through five flashcards from an earlier lesson", Difficulty: models.DifficultyMedium, QuestType: "review", TargetValue: 5, XPReward: 60},
	{ID: "quest-teach", Title: "Teach a friend", Description: "Explain a topic to a classmate until they get it", Difficulty: models.DifficultyHard, QuestType: "social", TargetValue: 1, XPReward: 100},
}

// Seed inserts the reference data that is missing. Existing rows are left
// alone.
func (db *DB) Seed(ctx context.Context) error {
	now := time.Now().UTC()
	return db.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, a := range DefaultAchievements {
			a.CreatedAt = now
			_, err := tx.NamedExecContext(ctx, `
				INSERT INTO achievements (id, category, milestone_value, title, description, icon, tier, rarity_percentage, created_at)
				VALUES (:id, :category, :milestone_value, :title, :description, :icon, :tier, :rarity_percentage, :created_at)
				ON CONFLICT(id) DO NOTHING`, a)
			if err != nil {
				return fmt.Errorf("failed to seed achievement %s: %w", a.ID, err)
			}
		}
		for _, q := range DefaultQuests {
			q.CreatedAt = now
			_, err := tx.NamedExecContext(ctx, `
				INSERT INTO daily_quests (id, title, description, difficulty, quest_type, target_value, xp_reward, created_at)
				VALUES (:id, :title, :description, :difficulty, :quest_type, :target_value, :xp_reward, :created_at)
				ON CONFLICT(id) DO NOTHING`, q)
			if err != nil {
				return fmt.Errorf("failed to seed quest %s: %w", q.ID, err)
			}
		}
		return nil
	})
}
