package services

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tahcohcat/studyquest/internal/database"
	"github.com/tahcohcat/studyquest/internal/metrics"
	"github.com/tahcohcat/studyquest/internal/models"
)

type PostService struct {
	core
}

func NewPostService(db *database.DB, opts Options) *PostService {
	return &PostService{core: newCore(db, opts)}
}

type PostResult struct {
	Post     models.FeedPost      `json:"post"`
	Profile  models.Profile       `json:"profile"`
	Unlocked []models.Achievement `json:"unlocked"`
	// StreakCounted is false for a second post on the same day.
	StreakCounted bool `json:"streak_counted"`
}

// Create stores a post, applies the daily streak rule and evaluates the
// posts and streak achievements, all in one transaction.
func (s *PostService) Create(ctx context.Context, userID string, req *models.CreatePostRequest) (*PostResult, error) {
	now := s.now()
	today := models.DateOf(now)

	post := models.Post{
		ID:        newID(),
		UserID:    userID,
		Content:   req.Content,
		CreatedAt: now,
	}
	if req.ImageURL != "" {
		img := req.ImageURL
		post.ImageURL = &img
	}

	var (
		result PostResult
		notes  []models.Notification
	)
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		p, err := getProfileTx(ctx, tx, userID)
		if err != nil {
			return err
		}

		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO posts (id, user_id, content, image_url, created_at)
			VALUES (:id, :user_id, :content, :image_url, :created_at)`, post); err != nil {
			return fmt.Errorf("failed to create post: %w", err)
		}

		activity := s.engine.RecordActivity(p, today)
		if activity.Counted {
			if err := saveProgressTx(ctx, tx, activity.Profile, now); err != nil {
				return err
			}
		}
		notes = append(notes, activity.Notifications...)

		var count int
		if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM posts WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("failed to count posts: %w", err)
		}

		for _, check := range []struct {
			category string
			value    int
		}{
			{models.CategoryPosts, count},
			{models.CategoryStreak, activity.Profile.Streak},
		} {
			unlocked, unlockNotes, err := evaluateTx(ctx, tx, userID, check.category, check.value, now)
			if err != nil {
				return err
			}
			result.Unlocked = append(result.Unlocked, unlocked...)
			notes = append(notes, unlockNotes...)
		}

		if err := recordActivitiesTx(ctx, tx, notes, now); err != nil {
			return err
		}

		result.Profile = activity.Profile
		result.StreakCounted = activity.Counted
		result.Post = models.FeedPost{Post: post, AuthorName: p.Name, AuthorAvatarURL: p.AvatarURL}
		return nil
	})
	if err != nil {
		logFailure(err, "create_post")
		return nil, err
	}

	metrics.PostsCreated.Inc()
	s.publish(notes)
	s.notifier.Publish(models.Notification{
		Kind:    models.NotifyNewPost,
		Title:   result.Post.AuthorName,
		Message: result.Post.Content,
		Icon:    "📝",
		Data:    map[string]interface{}{"post": result.Post},
	})
	return &result, nil
}

// Feed returns the latest posts from everyone, newest first.
func (s *PostService) Feed(ctx context.Context, limit int) ([]models.FeedPost, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var posts []models.FeedPost
	err := s.db.SelectContext(ctx, &posts, `
		SELECT p.id, p.user_id, p.content, p.image_url, p.created_at,
			pr.name AS author_name, pr.avatar_url AS author_avatar_url
		FROM posts p
		JOIN profiles pr ON pr.id = p.user_id
		ORDER BY p.created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get feed: %w", err)
	}
	return posts, nil
}
