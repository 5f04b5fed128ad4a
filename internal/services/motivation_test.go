package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahcohcat/studyquest/internal/models"
)

func TestMotivationSubmit_UnlocksDimensionBadges(t *testing.T) {
	env := newTestEnv(t)
	motivation := NewMotivationService(env.db, env.opts)
	ctx := context.Background()

	needs, err := motivation.NeedsCheckIn(ctx, env.userID)
	require.NoError(t, err)
	assert.True(t, needs)

	_, unlocked, err := motivation.Submit(ctx, env.userID, &models.MotivationRequest{
		Risk: 3, Diligence: 5, Responsibility: 5, Collaboration: 9, Perseverance: 10, Planning: 7,
	})
	require.NoError(t, err)

	var ids []string
	for _, a := range unlocked {
		ids = append(ids, a.ID)
	}
	assert.ElementsMatch(t, []string{"motivation-collaboration-8", "motivation-perseverance-8", "motivation-perseverance-10"}, ids)

	needs, err = motivation.NeedsCheckIn(ctx, env.userID)
	require.NoError(t, err)
	assert.False(t, needs)

	env.clock.AdvanceDays(1)
	needs, err = motivation.NeedsCheckIn(ctx, env.userID)
	require.NoError(t, err)
	assert.True(t, needs)
}

func TestMotivationStats(t *testing.T) {
	env := newTestEnv(t)
	motivation := NewMotivationService(env.db, env.opts)
	ctx := context.Background()

	for _, v := range []int{4, 6, 9} {
		_, _, err := motivation.Submit(ctx, env.userID, &models.MotivationRequest{
			Risk: v, Diligence: v, Responsibility: v, Collaboration: v, Perseverance: v, Planning: 1,
		})
		require.NoError(t, err)
	}

	stats, err := motivation.Stats(ctx, env.userID)
	require.NoError(t, err)
	require.Len(t, stats.Scores, 3)
	assert.Equal(t, 4, stats.Scores[0].Risk, "oldest first")
	require.NotNil(t, stats.Latest)
	assert.Equal(t, 9, stats.Latest.Risk)
	assert.Equal(t, 6.3, stats.Averages["risk"])
	assert.Equal(t, 1.0, stats.Averages["planning"])
}

func TestAverages_Empty(t *testing.T) {
	avg := Averages(nil)
	assert.Len(t, avg, len(models.MotivationDimensions))
	assert.Zero(t, avg["planning"])
}

func TestLogEmotion_Normalises(t *testing.T) {
	env := newTestEnv(t)
	motivation := NewMotivationService(env.db, env.opts)
	ctx := context.Background()

	log, err := motivation.LogEmotion(ctx, env.userID, &models.EmotionRequest{Emotion: "  Happy ", EnergyLevel: 4})
	require.NoError(t, err)
	assert.Equal(t, "happy", log.Emotion)

	log, err = motivation.LogEmotion(ctx, env.userID, &models.EmotionRequest{Emotion: "stresed", Activity: "exam prep"})
	require.NoError(t, err)
	assert.Equal(t, "stressed", log.Emotion)

	logs, err := motivation.RecentEmotions(ctx, env.userID, 7)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "stressed", logs[0].Emotion)
	require.NotNil(t, logs[1].EnergyLevel)
	assert.Equal(t, 4, *logs[1].EnergyLevel)
}
