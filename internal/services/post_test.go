package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahcohcat/studyquest/internal/models"
)

func TestCreatePost_StreakAndFirstAchievement(t *testing.T) {
	env := newTestEnv(t)
	posts := NewPostService(env.db, env.opts)
	ctx := context.Background()

	res, err := posts.Create(ctx, env.userID, &models.CreatePostRequest{Content: "Learned about photosynthesis"})
	require.NoError(t, err)

	assert.True(t, res.StreakCounted)
	assert.Equal(t, 1, res.Profile.Streak)
	assert.Equal(t, 1, res.Profile.TotalDays)
	require.Len(t, res.Unlocked, 1)
	assert.Equal(t, "posts-1", res.Unlocked[0].ID)
	assert.Equal(t, "Student", res.Post.AuthorName)

	p := env.profile(t)
	require.NotNil(t, p.LastActivityDate)
	assert.Equal(t, models.Date("2026-10-18"), *p.LastActivityDate)
	assert.Contains(t, env.notes.kinds(), models.NotifyNewPost)
	assert.Contains(t, env.notes.kinds(), models.NotifyAchievementUnlocked)
}

func TestCreatePost_SameDayDoesNotRecount(t *testing.T) {
	env := newTestEnv(t)
	posts := NewPostService(env.db, env.opts)
	ctx := context.Background()

	_, err := posts.Create(ctx, env.userID, &models.CreatePostRequest{Content: "one"})
	require.NoError(t, err)
	res, err := posts.Create(ctx, env.userID, &models.CreatePostRequest{Content: "two"})
	require.NoError(t, err)

	assert.False(t, res.StreakCounted)
	assert.Equal(t, 1, res.Profile.Streak)
	assert.Equal(t, 1, env.profile(t).TotalDays)
}

func TestCreatePost_StreakAcrossDays(t *testing.T) {
	env := newTestEnv(t)
	posts := NewPostService(env.db, env.opts)
	ctx := context.Background()

	var res *PostResult
	var err error
	for day := 0; day < 3; day++ {
		res, err = posts.Create(ctx, env.userID, &models.CreatePostRequest{Content: fmt.Sprintf("day %d", day)})
		require.NoError(t, err)
		env.clock.AdvanceDays(1)
	}
	assert.Equal(t, 3, res.Profile.Streak)
	require.Len(t, res.Unlocked, 1)
	assert.Equal(t, "streak-3", res.Unlocked[0].ID)

	env.clock.AdvanceDays(2)
	res, err = posts.Create(ctx, env.userID, &models.CreatePostRequest{Content: "back after a break"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Profile.Streak)
	assert.Equal(t, 4, res.Profile.TotalDays)
}

func TestCreatePost_TenthPostUnlocksMilestone(t *testing.T) {
	env := newTestEnv(t)
	posts := NewPostService(env.db, env.opts)
	ctx := context.Background()

	for i := 0; i < 9; i++ {
		_, err := posts.Create(ctx, env.userID, &models.CreatePostRequest{Content: fmt.Sprintf("post %d", i)})
		require.NoError(t, err)
	}
	res, err := posts.Create(ctx, env.userID, &models.CreatePostRequest{Content: "post 10"})
	require.NoError(t, err)
	require.Len(t, res.Unlocked, 1)
	assert.Equal(t, "posts-10", res.Unlocked[0].ID)

	var n int
	require.NoError(t, env.db.Get(&n, `SELECT COUNT(*) FROM user_achievements WHERE user_id = ? AND achievement_id LIKE 'posts-%'`, env.userID))
	assert.Equal(t, 2, n)
}

func TestCreatePost_UnknownUserWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	posts := NewPostService(env.db, env.opts)

	_, err := posts.Create(context.Background(), "ghost", &models.CreatePostRequest{Content: "hi"})
	assert.ErrorIs(t, err, ErrNotFound)

	var n int
	require.NoError(t, env.db.Get(&n, `SELECT COUNT(*) FROM posts`))
	assert.Zero(t, n)
}

func TestFeed_NewestFirst(t *testing.T) {
	env := newTestEnv(t)
	posts := NewPostService(env.db, env.opts)
	ctx := context.Background()

	for _, c := range []string{"first", "second", "third"} {
		_, err := posts.Create(ctx, env.userID, &models.CreatePostRequest{Content: c})
		require.NoError(t, err)
	}

	feed, err := posts.Feed(ctx, 2)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "third", feed[0].Content)
	assert.Equal(t, "second", feed[1].Content)
	assert.Equal(t, "Student", feed[0].AuthorName)
}

func TestCreatePost_ConcurrentUsersOnFile(t *testing.T) {
	env := newFileTestEnv(t)
	posts := NewPostService(env.db, env.opts)
	ctx := context.Background()

	users := make([]string, 6)
	for i := range users {
		users[i] = env.register(t, fmt.Sprintf("student%d@example.com", i))
	}

	var wg sync.WaitGroup
	for _, id := range users {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			res, err := posts.Create(ctx, id, &models.CreatePostRequest{Content: "Finished chapter 3"})
			if assert.NoError(t, err) {
				assert.Equal(t, 1, res.Profile.Streak)
			}
		}(id)
	}
	wg.Wait()

	var n int
	require.NoError(t, env.db.Get(&n, `SELECT COUNT(*) FROM posts`))
	assert.Equal(t, len(users), n)
}
