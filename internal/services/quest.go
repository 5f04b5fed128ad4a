package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tahcohcat/studyquest/internal/database"
	"github.com/tahcohcat/studyquest/internal/metrics"
	"github.com/tahcohcat/studyquest/internal/models"
	"github.com/tahcohcat/studyquest/internal/progression"
)

type QuestService struct {
	core
}

func NewQuestService(db *database.DB, opts Options) *QuestService {
	return &QuestService{core: newCore(db, opts)}
}

const userQuestColumns = `id, user_id, quest_id, assigned_date, progress, status, completed_at, created_at`

// List returns every daily quest with the user's progress for today. Active
// rows left over from earlier days are moved to expired first.
func (s *QuestService) List(ctx context.Context, userID string) ([]models.QuestView, error) {
	today := s.today()
	var views []models.QuestView

	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := expireStaleTx(ctx, tx, userID, today); err != nil {
			return err
		}

		var quests []models.Quest
		if err := tx.SelectContext(ctx, &quests, `
			SELECT id, title, description, difficulty, quest_type, target_value, xp_reward, created_at
			FROM daily_quests
			ORDER BY CASE difficulty WHEN 'easy' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END, xp_reward`); err != nil {
			return fmt.Errorf("failed to get quests: %w", err)
		}

		var rows []models.UserQuest
		if err := tx.SelectContext(ctx, &rows, `
			SELECT `+userQuestColumns+` FROM user_quests
			WHERE user_id = ? AND assigned_date = ?`, userID, today); err != nil {
			return fmt.Errorf("failed to get user quests: %w", err)
		}
		byQuest := make(map[string]models.UserQuest, len(rows))
		for _, uq := range rows {
			byQuest[uq.QuestID] = uq
		}

		views = make([]models.QuestView, 0, len(quests))
		for _, q := range quests {
			v := models.QuestView{Quest: q}
			if uq, ok := byQuest[q.ID]; ok {
				uq := uq
				v.UserQuest = &uq
			}
			views = append(views, v)
		}
		return nil
	})
	if err != nil {
		logFailure(err, "list_quests")
		return nil, err
	}
	return views, nil
}

func expireStaleTx(ctx context.Context, tx *sqlx.Tx, userID string, today models.Date) error {
	var stale []models.UserQuest
	if err := tx.SelectContext(ctx, &stale, `
		SELECT `+userQuestColumns+` FROM user_quests
		WHERE user_id = ? AND status = ? AND assigned_date < ?`,
		userID, models.QuestActive, today); err != nil {
		return fmt.Errorf("failed to get stale quests: %w", err)
	}
	for _, uq := range stale {
		status := progression.QuestStatusOn(uq, today)
		if status == uq.Status {
			continue
		}
		if _, err := tx.ExecContext(ctx, `UPDATE user_quests SET status = ? WHERE id = ? AND status = ?`,
			status, uq.ID, uq.Status); err != nil {
			return fmt.Errorf("failed to expire quest: %w", err)
		}
	}
	return nil
}

// Complete records one step of progress on today's instance of questID. The
// progress row, the XP credit and the quest streak commit together.
func (s *QuestService) Complete(ctx context.Context, userID, questID string) (*progression.QuestOutcome, error) {
	now := s.now()
	today := models.DateOf(now)
	var (
		out   progression.QuestOutcome
		quest models.Quest
	)

	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &quest, `
			SELECT id, title, description, difficulty, quest_type, target_value, xp_reward, created_at
			FROM daily_quests WHERE id = ?`, questID); err != nil {
			return notFound(err, "quest")
		}

		var current *models.UserQuest
		var uq models.UserQuest
		err := tx.GetContext(ctx, &uq, `
			SELECT `+userQuestColumns+` FROM user_quests
			WHERE user_id = ? AND quest_id = ? AND assigned_date = ?`, userID, questID, today)
		switch {
		case err == nil:
			current = &uq
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("failed to get user quest: %w", err)
		}

		p, err := getProfileTx(ctx, tx, userID)
		if err != nil {
			return err
		}

		out, err = s.engine.CompleteQuest(quest, current, p, today, now)
		if err != nil {
			return err
		}

		row := out.UserQuest
		if out.Created {
			row.ID = newID()
			if _, err := tx.NamedExecContext(ctx, `
				INSERT INTO user_quests (`+userQuestColumns+`)
				VALUES (:id, :user_id, :quest_id, :assigned_date, :progress, :status, :completed_at, :created_at)`, row); err != nil {
				return fmt.Errorf("failed to create user quest: %w", err)
			}
		} else {
			res, err := tx.ExecContext(ctx, `
				UPDATE user_quests SET progress = ?, status = ?, completed_at = ?
				WHERE id = ? AND status = ?`,
				row.Progress, row.Status, row.CompletedAt, row.ID, models.QuestActive)
			if err != nil {
				return fmt.Errorf("failed to update user quest: %w", err)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return progression.ErrQuestAlreadyCompleted
			}
		}
		out.UserQuest = row

		if !out.Completed {
			return nil
		}
		if err := saveProgressTx(ctx, tx, out.Profile, now); err != nil {
			return err
		}
		return recordActivitiesTx(ctx, tx, out.Notifications, now)
	})
	if err != nil {
		logFailure(err, "complete_quest")
		return nil, err
	}

	if out.Completed {
		metrics.QuestsCompleted.WithLabelValues(string(quest.Difficulty)).Inc()
		metrics.XPAwarded.WithLabelValues("quest").Add(float64(out.XPAwarded))
	}
	s.publish(out.Notifications)
	return &out, nil
}
