package services

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tahcohcat/studyquest/internal/database"
	"github.com/tahcohcat/studyquest/internal/logger"
	"github.com/tahcohcat/studyquest/internal/metrics"
	"github.com/tahcohcat/studyquest/internal/models"
	"github.com/tahcohcat/studyquest/internal/progression"
)

type MysteryBoxService struct {
	core
}

func NewMysteryBoxService(db *database.DB, opts Options) *MysteryBoxService {
	return &MysteryBoxService{core: newCore(db, opts)}
}

const boxColumns = `id, user_id, rarity, is_opened, reward_type, reward_data, opened_at, created_at`

// Grant gives the user an unopened box.
func (s *MysteryBoxService) Grant(ctx context.Context, userID string, rarity models.BoxRarity) (*models.MysteryBox, error) {
	if !rarity.Valid() {
		return nil, fmt.Errorf("unknown box rarity %q", rarity)
	}
	box := &models.MysteryBox{
		ID:        newID(),
		UserID:    userID,
		Rarity:    rarity,
		CreatedAt: s.now(),
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO mystery_boxes (`+boxColumns+`)
		VALUES (:id, :user_id, :rarity, :is_opened, :reward_type, :reward_data, :opened_at, :created_at)`, box)
	if err != nil {
		return nil, fmt.Errorf("failed to grant mystery box: %w", err)
	}
	logger.New().With("user_id", userID).With("rarity", rarity).Info("Mystery box granted")
	return box, nil
}

// List returns the user's boxes, unopened first.
func (s *MysteryBoxService) List(ctx context.Context, userID string) ([]models.MysteryBox, error) {
	var boxes []models.MysteryBox
	err := s.db.SelectContext(ctx, &boxes, `
		SELECT `+boxColumns+` FROM mystery_boxes
		WHERE user_id = ?
		ORDER BY is_opened, created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get mystery boxes: %w", err)
	}
	return boxes, nil
}

// Open rolls and persists the reward of an unopened box. The box row, the
// XP credit and any inventory item commit together; a box that another
// request opened first is rejected with progression.ErrBoxAlreadyOpened.
func (s *MysteryBoxService) Open(ctx context.Context, userID, boxID string) (*progression.BoxOutcome, error) {
	now := s.now()
	var out progression.BoxOutcome

	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		var box models.MysteryBox
		if err := tx.GetContext(ctx, &box, `
			SELECT `+boxColumns+` FROM mystery_boxes WHERE id = ? AND user_id = ?`, boxID, userID); err != nil {
			return notFound(err, "mystery box")
		}

		p, err := getProfileTx(ctx, tx, userID)
		if err != nil {
			return err
		}

		out, err = s.engine.OpenBox(box, p, s.roller.Roll(), now)
		if err != nil {
			return err
		}

		res, err := tx.NamedExecContext(ctx, `
			UPDATE mystery_boxes
			SET is_opened = 1, reward_type = :reward_type, reward_data = :reward_data, opened_at = :opened_at
			WHERE id = :id AND is_opened = 0`, out.Box)
		if err != nil {
			return fmt.Errorf("failed to open mystery box: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return progression.ErrBoxAlreadyOpened
		}

		if out.XPAwarded > 0 {
			if err := saveProgressTx(ctx, tx, out.Profile, now); err != nil {
				return err
			}
		}

		if out.Inventory != nil {
			out.Inventory.ID = newID()
			if _, err := tx.NamedExecContext(ctx, `
				INSERT INTO user_inventory (id, user_id, item_type, item_id, item_data, is_equipped, acquired_at)
				VALUES (:id, :user_id, :item_type, :item_id, :item_data, :is_equipped, :acquired_at)`, out.Inventory); err != nil {
				return fmt.Errorf("failed to add inventory item: %w", err)
			}
		}

		return recordActivitiesTx(ctx, tx, out.Notifications, now)
	})
	if err != nil {
		logFailure(err, "open_mystery_box")
		return nil, err
	}

	metrics.BoxesOpened.WithLabelValues(string(out.Box.Rarity), string(*out.Box.RewardType)).Inc()
	if out.XPAwarded > 0 {
		metrics.XPAwarded.WithLabelValues("mystery_box").Add(float64(out.XPAwarded))
	}
	s.publish(out.Notifications)
	return &out, nil
}

// Inventory returns the items the user has collected.
func (s *MysteryBoxService) Inventory(ctx context.Context, userID string) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := s.db.SelectContext(ctx, &items, `
		SELECT id, user_id, item_type, item_id, item_data, is_equipped, acquired_at
		FROM user_inventory WHERE user_id = ?
		ORDER BY acquired_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	return items, nil
}
