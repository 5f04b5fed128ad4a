package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/schollz/closestmatch"

	"github.com/tahcohcat/studyquest/internal/database"
	"github.com/tahcohcat/studyquest/internal/models"
)

// Emotions are the canonical emotion names logs are normalised to.
var Emotions = []string{
	"happy", "excited", "motivated", "proud", "calm", "curious",
	"tired", "bored", "confused", "stressed", "anxious", "frustrated", "sad",
}

const statsWindow = 30

type MotivationService struct {
	core
	emotions *closestmatch.ClosestMatch
}

func NewMotivationService(db *database.DB, opts Options) *MotivationService {
	return &MotivationService{
		core:     newCore(db, opts),
		emotions: closestmatch.New(Emotions, []int{2, 3}),
	}
}

const scoreColumns = `id, user_id, risk, diligence, responsibility, collaboration, perseverance, planning, created_at`

// Submit stores a self-assessment and evaluates the motivation achievements
// of each dimension with that dimension's score.
func (s *MotivationService) Submit(ctx context.Context, userID string, req *models.MotivationRequest) (*models.MotivationScore, []models.Achievement, error) {
	now := s.now()
	score := &models.MotivationScore{
		ID:             newID(),
		UserID:         userID,
		Risk:           req.Risk,
		Diligence:      req.Diligence,
		Responsibility: req.Responsibility,
		Collaboration:  req.Collaboration,
		Perseverance:   req.Perseverance,
		Planning:       req.Planning,
		CreatedAt:      now,
	}

	var (
		unlocked []models.Achievement
		notes    []models.Notification
	)
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO motivation_scores (`+scoreColumns+`)
			VALUES (:id, :user_id, :risk, :diligence, :responsibility, :collaboration, :perseverance, :planning, :created_at)`,
			score); err != nil {
			return fmt.Errorf("failed to save motivation score: %w", err)
		}

		dims := score.Dimensions()
		for _, dim := range models.MotivationDimensions {
			got, gotNotes, err := evaluateTx(ctx, tx, userID, models.CategoryMotivation+"_"+dim, dims[dim], now)
			if err != nil {
				return err
			}
			unlocked = append(unlocked, got...)
			notes = append(notes, gotNotes...)
		}
		return recordActivitiesTx(ctx, tx, notes, now)
	})
	if err != nil {
		logFailure(err, "submit_motivation")
		return nil, nil, err
	}
	s.publish(notes)
	return score, unlocked, nil
}

// NeedsCheckIn reports whether the user has not rated themselves today.
func (s *MotivationService) NeedsCheckIn(ctx context.Context, userID string) (bool, error) {
	var last time.Time
	err := s.db.GetContext(ctx, &last, `
		SELECT created_at FROM motivation_scores
		WHERE user_id = ? ORDER BY created_at DESC LIMIT 1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get latest motivation score: %w", err)
	}
	return models.DateOf(last.In(s.loc)) != s.today(), nil
}

// Recent returns the latest n scores, newest first.
func (s *MotivationService) Recent(ctx context.Context, userID string, n int) ([]models.MotivationScore, error) {
	var scores []models.MotivationScore
	err := s.db.SelectContext(ctx, &scores, `
		SELECT `+scoreColumns+` FROM motivation_scores
		WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`, userID, n)
	if err != nil {
		return nil, fmt.Errorf("failed to get motivation scores: %w", err)
	}
	return scores, nil
}

// Stats returns the last 30 scores oldest first with per-dimension averages.
func (s *MotivationService) Stats(ctx context.Context, userID string) (*models.MotivationStats, error) {
	scores, err := s.Recent(ctx, userID, statsWindow)
	if err != nil {
		return nil, err
	}

	stats := &models.MotivationStats{Averages: Averages(scores)}
	if len(scores) > 0 {
		latest := scores[0]
		stats.Latest = &latest
	}
	for i, j := 0, len(scores)-1; i < j; i, j = i+1, j-1 {
		scores[i], scores[j] = scores[j], scores[i]
	}
	stats.Scores = scores
	return stats, nil
}

// Averages returns the mean of each dimension rounded to one decimal. An
// empty input yields zeros.
func Averages(scores []models.MotivationScore) map[string]float64 {
	out := make(map[string]float64, len(models.MotivationDimensions))
	for _, dim := range models.MotivationDimensions {
		out[dim] = 0
	}
	if len(scores) == 0 {
		return out
	}
	for _, sc := range scores {
		for dim, v := range sc.Dimensions() {
			out[dim] += float64(v)
		}
	}
	for dim, sum := range out {
		out[dim] = math.Round(sum/float64(len(scores))*10) / 10
	}
	return out
}

// NormalizeEmotion maps free text onto the closest canonical emotion, or
// returns the trimmed lower-case input when nothing is close.
func (s *MotivationService) NormalizeEmotion(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	for _, e := range Emotions {
		if e == text {
			return e
		}
	}
	if match := s.emotions.Closest(text); match != "" {
		return match
	}
	return text
}

func (s *MotivationService) LogEmotion(ctx context.Context, userID string, req *models.EmotionRequest) (*models.EmotionLog, error) {
	log := &models.EmotionLog{
		ID:        newID(),
		UserID:    userID,
		Emotion:   s.NormalizeEmotion(req.Emotion),
		CreatedAt: s.now(),
	}
	if req.EnergyLevel > 0 {
		e := req.EnergyLevel
		log.EnergyLevel = &e
	}
	if req.Activity != "" {
		a := req.Activity
		log.Activity = &a
	}
	if req.Notes != "" {
		n := req.Notes
		log.Notes = &n
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO emotion_logs (id, user_id, emotion, energy_level, activity, notes, created_at)
		VALUES (:id, :user_id, :emotion, :energy_level, :activity, :notes, :created_at)`, log)
	if err != nil {
		return nil, fmt.Errorf("failed to log emotion: %w", err)
	}
	return log, nil
}

// RecentEmotions returns the latest n emotion logs, newest first.
func (s *MotivationService) RecentEmotions(ctx context.Context, userID string, n int) ([]models.EmotionLog, error) {
	var logs []models.EmotionLog
	err := s.db.SelectContext(ctx, &logs, `
		SELECT id, user_id, emotion, energy_level, activity, notes, created_at
		FROM emotion_logs WHERE user_id = ?
		ORDER BY created_at DESC LIMIT ?`, userID, n)
	if err != nil {
		return nil, fmt.Errorf("failed to get emotion logs: %w", err)
	}
	return logs, nil
}
