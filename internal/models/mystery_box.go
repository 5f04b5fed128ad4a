package models

import "time"

type BoxRarity string

const (
	RarityCommon    BoxRarity = "common"
	RarityRare      BoxRarity = "rare"
	RarityEpic      BoxRarity = "epic"
	RarityLegendary BoxRarity = "legendary"
)

func (r BoxRarity) Valid() bool {
	switch r {
	case RarityCommon, RarityRare, RarityEpic, RarityLegendary:
		return true
	}
	return false
}

type RewardType string

const (
	RewardXP        RewardType = "xp"
	RewardBadge     RewardType = "badge"
	RewardCosmetic  RewardType = "cosmetic"
	RewardPrivilege RewardType = "privilege"
)

type MysteryBox struct {
	ID         string      `json:"id" db:"id"`
	UserID     string      `json:"user_id" db:"user_id"`
	Rarity     BoxRarity   `json:"rarity" db:"rarity"`
	IsOpened   bool        `json:"is_opened" db:"is_opened"`
	RewardType *RewardType `json:"reward_type" db:"reward_type"`
	RewardData JSONMap     `json:"reward_data" db:"reward_data"`
	OpenedAt   *time.Time  `json:"opened_at" db:"opened_at"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
}

type InventoryItem struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	ItemType   string    `json:"item_type" db:"item_type"`
	ItemID     string    `json:"item_id" db:"item_id"`
	ItemData   JSONMap   `json:"item_data" db:"item_data"`
	IsEquipped bool      `json:"is_equipped" db:"is_equipped"`
	AcquiredAt time.Time `json:"acquired_at" db:"acquired_at"`
}
