package progression

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahcohcat/studyquest/internal/models"
)

func TestRollReward_Buckets(t *testing.T) {
	tests := []struct {
		r    float64
		want models.RewardType
	}{
		{0, models.RewardXP},
		{59.999, models.RewardXP},
		{60, models.RewardBadge},
		{74.9, models.RewardBadge},
		{75, models.RewardCosmetic},
		{89.9, models.RewardCosmetic},
		{90, models.RewardPrivilege},
		{99.999, models.RewardPrivilege},
	}
	for _, tt := range tests {
		got, _ := RollReward(models.RarityCommon, tt.r)
		assert.Equal(t, tt.want, got, "r=%v", tt.r)
	}
}

func TestRollReward_XPByRarity(t *testing.T) {
	for rarity, want := range map[models.BoxRarity]int{
		models.RarityCommon:    75,
		models.RarityRare:      200,
		models.RarityEpic:      500,
		models.RarityLegendary: 1000,
	} {
		_, data := RollReward(rarity, 10)
		assert.Equal(t, want, data.Int("amount"), string(rarity))
	}
}

func TestRollReward_PrivilegePayload(t *testing.T) {
	typ, data := RollReward(models.RarityEpic, 95)
	assert.Equal(t, models.RewardPrivilege, typ)
	assert.Equal(t, "2x_xp_boost", data.String("type"))
	assert.Equal(t, 24, data.Int("duration_hours"))
}

func TestOpenBox_LegendaryForcedRoll(t *testing.T) {
	e := NewEngine(nil)
	box := models.MysteryBox{ID: "b1", UserID: "u1", Rarity: models.RarityLegendary}
	p := models.Profile{ID: "u1", XP: 0, Level: 1}

	out, err := e.OpenBox(box, p, FixedRoller(10).Roll(), now)
	require.NoError(t, err)

	assert.True(t, out.Box.IsOpened)
	require.NotNil(t, out.Box.RewardType)
	assert.Equal(t, models.RewardXP, *out.Box.RewardType)
	assert.Equal(t, 1000, out.Box.RewardData.Int("amount"))
	require.NotNil(t, out.Box.OpenedAt)
	assert.Equal(t, 1000, out.Profile.XP)
	assert.Equal(t, 1000, out.XPAwarded)
	assert.Nil(t, out.Inventory)
	assert.Equal(t, models.NotifyBoxOpened, out.Notifications[0].Kind)
}

func TestOpenBox_AlreadyOpenedKeepsReward(t *testing.T) {
	e := NewEngine(nil)
	box := models.MysteryBox{ID: "b1", UserID: "u1", Rarity: models.RarityRare}
	p := models.Profile{ID: "u1"}

	first, err := e.OpenBox(box, p, 70, now)
	require.NoError(t, err)

	again, err := e.OpenBox(first.Box, first.Profile, 5, now)
	assert.ErrorIs(t, err, ErrBoxAlreadyOpened)
	assert.Equal(t, first.Box.RewardData, again.Box.RewardData)
	assert.Equal(t, *first.Box.RewardType, *again.Box.RewardType)
	assert.Equal(t, first.Profile.XP, again.Profile.XP)
}

func TestOpenBox_InventoryRewards(t *testing.T) {
	e := NewEngine(nil)
	box := models.MysteryBox{ID: "b1", UserID: "u1", Rarity: models.RarityCommon}
	p := models.Profile{ID: "u1"}

	cos, err := e.OpenBox(box, p, 80, now)
	require.NoError(t, err)
	require.NotNil(t, cos.Inventory)
	assert.Equal(t, "cosmetic", cos.Inventory.ItemType)
	assert.Equal(t, "avatar_frame", cos.Inventory.ItemID)

	priv, err := e.OpenBox(box, p, 95, now)
	require.NoError(t, err)
	require.NotNil(t, priv.Inventory)
	assert.Equal(t, "privilege", priv.Inventory.ItemType)
	assert.Equal(t, "2026-10-19T09:30:00Z", priv.Inventory.ItemData.String("expires_at"))

	badge, err := e.OpenBox(box, p, 65, now)
	require.NoError(t, err)
	assert.Nil(t, badge.Inventory)
	assert.Equal(t, 0, badge.Profile.XP)
}

func TestOpenBox_UnknownRarity(t *testing.T) {
	e := NewEngine(nil)
	_, err := e.OpenBox(models.MysteryBox{Rarity: "mythic"}, models.Profile{}, 1, now)
	assert.Error(t, err)
}

func TestRollDistribution(t *testing.T) {
	roller := NewRandomRoller(rand.NewPCG(42, 1337))
	const trials = 200000
	counts := map[models.RewardType]int{}
	for i := 0; i < trials; i++ {
		r := roller.Roll()
		require.True(t, r >= 0 && r < 100)
		typ, _ := RollReward(models.RarityCommon, r)
		counts[typ]++
	}

	want := map[models.RewardType]float64{
		models.RewardXP:        0.60,
		models.RewardBadge:     0.15,
		models.RewardCosmetic:  0.15,
		models.RewardPrivilege: 0.10,
	}
	for typ, p := range want {
		got := float64(counts[typ]) / trials
		assert.InDelta(t, p, got, 0.01, string(typ))
	}
}
