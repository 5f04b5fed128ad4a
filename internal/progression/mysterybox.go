package progression

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tahcohcat/studyquest/internal/models"
)

// Roller draws the reward roll, a value in [0, 100).
type Roller interface {
	Roll() float64
}

type RollerFunc func() float64

func (f RollerFunc) Roll() float64 { return f() }

// FixedRoller always returns r.
func FixedRoller(r float64) Roller {
	return RollerFunc(func() float64 { return r })
}

// NewRandomRoller rolls uniformly with src. A nil src uses the global
// generator.
func NewRandomRoller(src rand.Source) Roller {
	if src == nil {
		return RollerFunc(func() float64 { return rand.Float64() * 100 })
	}
	r := rand.New(src)
	return RollerFunc(func() float64 { return r.Float64() * 100 })
}

const PrivilegeDurationHours = 24

var xpByRarity = map[models.BoxRarity]int{
	models.RarityCommon:    75,
	models.RarityRare:      200,
	models.RarityEpic:      500,
	models.RarityLegendary: 1000,
}

func XPForRarity(r models.BoxRarity) int {
	if xp, ok := xpByRarity[r]; ok {
		return xp
	}
	return xpByRarity[models.RarityCommon]
}

// RollReward maps a roll in [0, 100) to a reward: 60% XP, 15% badge,
// 15% cosmetic, 10% privilege.
func RollReward(rarity models.BoxRarity, r float64) (models.RewardType, models.JSONMap) {
	switch {
	case r < 60:
		return models.RewardXP, models.JSONMap{"amount": XPForRarity(rarity)}
	case r < 75:
		return models.RewardBadge, models.JSONMap{"name": "Mystery Badge", "description": "Unlocked from Mystery Box"}
	case r < 90:
		return models.RewardCosmetic, models.JSONMap{"type": "avatar_frame", "name": "Cosmic Frame"}
	default:
		return models.RewardPrivilege, models.JSONMap{"type": "2x_xp_boost", "duration_hours": PrivilegeDurationHours}
	}
}

type BoxOutcome struct {
	Box     models.MysteryBox
	Profile models.Profile
	// Inventory is set for cosmetic and privilege rewards.
	Inventory     *models.InventoryItem
	XPAwarded     int
	Notifications []models.Notification
}

// OpenBox assigns the reward for roll r. The box's reward is fixed from here
// on: opening it again fails with ErrBoxAlreadyOpened.
func (e *Engine) OpenBox(box models.MysteryBox, p models.Profile, r float64, now time.Time) (BoxOutcome, error) {
	if box.IsOpened {
		return BoxOutcome{Box: box, Profile: p}, ErrBoxAlreadyOpened
	}
	if !box.Rarity.Valid() {
		return BoxOutcome{Box: box, Profile: p}, fmt.Errorf("unknown box rarity %q", box.Rarity)
	}

	rewardType, data := RollReward(box.Rarity, r)
	openedAt := now
	box.IsOpened = true
	box.RewardType = &rewardType
	box.RewardData = data
	box.OpenedAt = &openedAt

	out := BoxOutcome{Box: box, Profile: p}
	msg := "You received a reward"

	switch rewardType {
	case models.RewardXP:
		amount := data.Int("amount")
		var levelNotes []models.Notification
		out.Profile, levelNotes = e.AwardXP(p, amount)
		out.XPAwarded = amount
		out.Notifications = append(out.Notifications, levelNotes...)
		msg = fmt.Sprintf("You received %s XP", humanize.Comma(int64(amount)))
	case models.RewardCosmetic:
		out.Inventory = &models.InventoryItem{
			UserID:     p.ID,
			ItemType:   string(models.RewardCosmetic),
			ItemID:     data.String("type"),
			ItemData:   data,
			AcquiredAt: now,
		}
		msg = fmt.Sprintf("You received %s", data.String("name"))
	case models.RewardPrivilege:
		out.Inventory = &models.InventoryItem{
			UserID:   p.ID,
			ItemType: string(models.RewardPrivilege),
			ItemID:   data.String("type"),
			ItemData: models.JSONMap{
				"type":           data.String("type"),
				"duration_hours": PrivilegeDurationHours,
				"expires_at":     now.Add(PrivilegeDurationHours * time.Hour).Format(time.RFC3339),
			},
			AcquiredAt: now,
		}
		msg = "You received a 2x XP boost for 24 hours"
	case models.RewardBadge:
		msg = fmt.Sprintf("You received the %s", data.String("name"))
	}

	out.Notifications = append([]models.Notification{{
		Kind:    models.NotifyBoxOpened,
		UserID:  p.ID,
		Title:   "Congratulations! 🎉",
		Message: msg,
		Icon:    "🎁",
		Data: map[string]interface{}{
			"box_id":      box.ID,
			"rarity":      box.Rarity,
			"reward_type": rewardType,
			"reward_data": data,
		},
	}}, out.Notifications...)
	return out, nil
}
