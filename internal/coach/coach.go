// Package coach relays morning briefings and chat turns to the configured
// language model and turns upstream failures into user-facing messages.
package coach

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tahcohcat/studyquest/internal/llm"
	"github.com/tahcohcat/studyquest/internal/logger"
	"github.com/tahcohcat/studyquest/internal/metrics"
	"github.com/tahcohcat/studyquest/internal/models"
)

const (
	ActionBriefing = "morning_briefing"
	ActionChat     = "chat"

	briefingScores   = 7
	briefingEmotions = 7
	briefingGoals    = 5
)

// Error is a coach failure already translated for the user. Status is the
// HTTP status the caller should answer with.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

type Profiles interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
}

type Motivation interface {
	Recent(ctx context.Context, userID string, n int) ([]models.MotivationScore, error)
	RecentEmotions(ctx context.Context, userID string, n int) ([]models.EmotionLog, error)
}

type Goals interface {
	Active(ctx context.Context, userID string, limit int) ([]models.Goal, error)
}

type Options struct {
	Locale            Locale
	RequestsPerMinute int
	// BriefingTTL is how long a generated briefing is reused. Zero disables caching.
	BriefingTTL time.Duration
	Cache       Cache
	Clock       func() time.Time
	Location    *time.Location
}

type Coach struct {
	model      llm.LLM
	profiles   Profiles
	motivation Motivation
	goals      Goals

	phrases phrases
	limiter *limiter
	cache   Cache
	ttl     time.Duration
	clock   func() time.Time
	loc     *time.Location
	logger  *logger.Log
}

func New(model llm.LLM, profiles Profiles, motivation Motivation, goals Goals, opts Options) *Coach {
	c := &Coach{
		model:      model,
		profiles:   profiles,
		motivation: motivation,
		goals:      goals,
		phrases:    phrasesFor(opts.Locale),
		limiter:    newLimiter(opts.RequestsPerMinute),
		cache:      opts.Cache,
		ttl:        opts.BriefingTTL,
		clock:      opts.Clock,
		loc:        opts.Location,
		logger:     logger.New().With("component", "coach"),
	}
	if c.cache == nil || c.ttl <= 0 {
		c.cache = NopCache{}
	}
	if c.clock == nil {
		c.clock = time.Now
	}
	if c.loc == nil {
		c.loc = time.Local
	}
	return c
}

// Snapshot gathers the data the morning briefing is written from.
func (c *Coach) Snapshot(ctx context.Context, userID string) (Snapshot, error) {
	var (
		snap Snapshot
		err  error
	)
	if snap.Profile, err = c.profiles.GetProfile(ctx, userID); err != nil {
		return snap, err
	}
	if snap.Scores, err = c.motivation.Recent(ctx, userID, briefingScores); err != nil {
		return snap, err
	}
	if snap.Emotions, err = c.motivation.RecentEmotions(ctx, userID, briefingEmotions); err != nil {
		return snap, err
	}
	if snap.Goals, err = c.goals.Active(ctx, userID, briefingGoals); err != nil {
		return snap, err
	}
	return snap, nil
}

// Briefing returns today's morning briefing for the user, from the cache
// when one was already generated today.
func (c *Coach) Briefing(ctx context.Context, userID string) (string, error) {
	key := briefingKey(userID, models.DateOf(c.clock().In(c.loc)).String())
	if text, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.WithError(err).Warn("Briefing cache lookup failed")
	} else if ok {
		metrics.CoachRequests.WithLabelValues(ActionBriefing, "cached").Inc()
		return text, nil
	}

	if !c.limiter.Allow(userID) {
		return "", c.fail(ActionBriefing, &llm.StatusError{StatusCode: http.StatusTooManyRequests, Message: "local rate limit"})
	}

	snap, err := c.Snapshot(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load briefing data: %w", err)
	}

	text, err := c.call(ctx, ActionBriefing, briefingMessages(c.phrases, snap))
	if err != nil {
		return "", err
	}

	if err := c.cache.Set(ctx, key, text, c.ttl); err != nil {
		c.logger.WithError(err).Warn("Failed to cache briefing")
	}
	return text, nil
}

// Chat answers one chat turn. An empty message is sent as a greeting.
func (c *Coach) Chat(ctx context.Context, userID string, history []llm.Message, message string) (string, error) {
	if !c.limiter.Allow(userID) {
		return "", c.fail(ActionChat, &llm.StatusError{StatusCode: http.StatusTooManyRequests, Message: "local rate limit"})
	}
	return c.call(ctx, ActionChat, chatMessages(c.phrases, history, message))
}

func (c *Coach) call(ctx context.Context, action string, msgs []llm.Message) (string, error) {
	start := time.Now()
	text, err := c.model.Chat(ctx, msgs)
	metrics.CoachLatency.WithLabelValues(action).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", c.fail(action, err)
	}
	metrics.CoachRequests.WithLabelValues(action, "ok").Inc()
	return text, nil
}

func (c *Coach) fail(action string, err error) *Error {
	log := c.logger.With("action", action).WithError(err)

	switch llm.StatusCode(err) {
	case http.StatusTooManyRequests:
		log.Warn("Coach rate limited")
		metrics.CoachRequests.WithLabelValues(action, "rate_limited").Inc()
		return &Error{Status: http.StatusTooManyRequests, Message: c.phrases.tooManyRequests, Err: err}
	case http.StatusPaymentRequired:
		log.Error("Coach upstream requires payment")
		metrics.CoachRequests.WithLabelValues(action, "payment_required").Inc()
		return &Error{Status: http.StatusPaymentRequired, Message: c.phrases.unavailable, Err: err}
	}

	log.Error("Coach request failed")
	metrics.CoachRequests.WithLabelValues(action, "error").Inc()
	return &Error{Status: http.StatusBadGateway, Message: c.phrases.failed, Err: err}
}
