package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tahcohcat/studyquest/internal/database"
	"github.com/tahcohcat/studyquest/internal/metrics"
	"github.com/tahcohcat/studyquest/internal/models"
	"github.com/tahcohcat/studyquest/internal/progression"
)

type AchievementService struct {
	core
}

func NewAchievementService(db *database.DB, opts Options) *AchievementService {
	return &AchievementService{core: newCore(db, opts)}
}

// Evaluate unlocks every achievement in category whose milestone is reached
// by currentValue and returns the ones unlocked by this call.
func (s *AchievementService) Evaluate(ctx context.Context, userID, category string, currentValue int) ([]models.Achievement, error) {
	var (
		unlocked []models.Achievement
		notes    []models.Notification
	)
	now := s.now()
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		unlocked, notes, err = evaluateTx(ctx, tx, userID, category, currentValue, now)
		if err != nil {
			return err
		}
		return recordActivitiesTx(ctx, tx, notes, now)
	})
	if err != nil {
		logFailure(err, "evaluate_achievements")
		return nil, err
	}
	s.publish(notes)
	return unlocked, nil
}

// evaluateTx inserts the eligible achievements. A row that already exists is
// not an error and produces no notification.
func evaluateTx(ctx context.Context, tx *sqlx.Tx, userID, category string, value int, now time.Time) ([]models.Achievement, []models.Notification, error) {
	var candidates []models.Achievement
	err := tx.SelectContext(ctx, &candidates, `
		SELECT id, category, milestone_value, title, description, icon, tier, rarity_percentage, created_at
		FROM achievements WHERE milestone_value <= ?`, value)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load achievements: %w", err)
	}

	var owned []string
	if err := tx.SelectContext(ctx, &owned, `SELECT achievement_id FROM user_achievements WHERE user_id = ?`, userID); err != nil {
		return nil, nil, fmt.Errorf("failed to load user achievements: %w", err)
	}
	have := make(map[string]bool, len(owned))
	for _, id := range owned {
		have[id] = true
	}

	var (
		unlocked []models.Achievement
		notes    []models.Notification
	)
	for _, a := range progression.EligibleAchievements(candidates, category, value, have) {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO user_achievements (id, user_id, achievement_id, created_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(user_id, achievement_id) DO NOTHING`,
			newID(), userID, a.ID, now)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to unlock achievement %s: %w", a.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			continue
		}
		metrics.AchievementsUnlocked.WithLabelValues(a.Category).Inc()
		unlocked = append(unlocked, a)
		notes = append(notes, progression.UnlockNotification(userID, a))
	}
	return unlocked, notes, nil
}

// List returns the whole catalogue with the user's unlock state, unlocked
// first.
func (s *AchievementService) List(ctx context.Context, userID string) ([]models.UserAchievementView, error) {
	query := `
		SELECT
			a.id, a.category, a.milestone_value, a.title, a.description, a.icon, a.tier,
			a.rarity_percentage, a.created_at,
			ua.id IS NOT NULL AS unlocked,
			ua.created_at AS unlocked_at
		FROM achievements a
		LEFT JOIN user_achievements ua ON a.id = ua.achievement_id AND ua.user_id = ?
		ORDER BY unlocked DESC, a.category, a.milestone_value
	`

	var achievements []models.UserAchievementView
	if err := s.db.SelectContext(ctx, &achievements, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get user achievements: %w", err)
	}
	return achievements, nil
}

// Recent returns the user's most recently unlocked achievements.
func (s *AchievementService) Recent(ctx context.Context, userID string, limit int) ([]models.Achievement, error) {
	if limit <= 0 {
		limit = 3
	}
	var out []models.Achievement
	err := s.db.SelectContext(ctx, &out, `
		SELECT a.id, a.category, a.milestone_value, a.title, a.description, a.icon, a.tier,
			a.rarity_percentage, a.created_at
		FROM user_achievements ua
		JOIN achievements a ON a.id = ua.achievement_id
		WHERE ua.user_id = ?
		ORDER BY ua.created_at DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent achievements: %w", err)
	}
	return out, nil
}

// Activities returns the user's activity feed, newest first.
func (s *AchievementService) Activities(ctx context.Context, userID string, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, user_id, type, title, details, icon, created_at
		FROM activities
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`

	var activities []models.Activity
	if err := s.db.SelectContext(ctx, &activities, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to get activities: %w", err)
	}
	return activities, nil
}
