package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tahcohcat/studyquest/internal/database"
	"github.com/tahcohcat/studyquest/internal/logger"
	"github.com/tahcohcat/studyquest/internal/metrics"
	"github.com/tahcohcat/studyquest/internal/models"
	"github.com/tahcohcat/studyquest/internal/progression"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Notifier receives notifications after the transaction that produced them
// has committed.
type Notifier interface {
	Publish(n models.Notification)
}

type NopNotifier struct{}

func (NopNotifier) Publish(models.Notification) {}

// Options carries the dependencies shared by every service. Zero values get
// defaults.
type Options struct {
	Engine   *progression.Engine
	Notifier Notifier
	Roller   progression.Roller
	Clock    func() time.Time
	// Location decides which calendar day "today" is.
	Location *time.Location
}

type core struct {
	db       *database.DB
	engine   *progression.Engine
	notifier Notifier
	roller   progression.Roller
	clock    func() time.Time
	loc      *time.Location
}

func newCore(db *database.DB, opts Options) core {
	c := core{
		db:       db,
		engine:   opts.Engine,
		notifier: opts.Notifier,
		roller:   opts.Roller,
		clock:    opts.Clock,
		loc:      opts.Location,
	}
	if c.engine == nil {
		c.engine = progression.NewEngine(nil)
	}
	if c.notifier == nil {
		c.notifier = NopNotifier{}
	}
	if c.roller == nil {
		c.roller = progression.NewRandomRoller(nil)
	}
	if c.clock == nil {
		c.clock = time.Now
	}
	if c.loc == nil {
		c.loc = time.Local
	}
	return c
}

func (c core) now() time.Time { return c.clock().In(c.loc) }

func (c core) today() models.Date { return models.DateOf(c.now()) }

func (c core) publish(notes []models.Notification) {
	for _, n := range notes {
		if n.Kind == models.NotifyLevelUp {
			metrics.LevelUps.Inc()
		}
		c.notifier.Publish(n)
	}
}

func newID() string { return uuid.NewString() }

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

const profileColumns = `id, name, email, avatar_url, class_level, xp, level, streak, quest_streak,
	total_days, last_activity_date, last_quest_date, created_at, updated_at`

func getProfileTx(ctx context.Context, tx *sqlx.Tx, userID string) (models.Profile, error) {
	var p models.Profile
	err := tx.GetContext(ctx, &p, `SELECT `+profileColumns+` FROM profiles WHERE id = ?`, userID)
	if err != nil {
		return p, notFound(err, "profile")
	}
	return p, nil
}

// saveProgressTx writes the progression counters of p.
func saveProgressTx(ctx context.Context, tx *sqlx.Tx, p models.Profile, now time.Time) error {
	p.UpdatedAt = now
	_, err := tx.NamedExecContext(ctx, `
		UPDATE profiles SET
			xp = :xp, level = :level, streak = :streak, quest_streak = :quest_streak,
			total_days = :total_days, last_activity_date = :last_activity_date,
			last_quest_date = :last_quest_date, updated_at = :updated_at
		WHERE id = :id`, p)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// recordActivitiesTx keeps one activity row per user-targeted notification.
func recordActivitiesTx(ctx context.Context, tx *sqlx.Tx, notes []models.Notification, now time.Time) error {
	for _, n := range notes {
		if n.UserID == "" {
			continue
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO activities (id, user_id, type, title, details, icon, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			newID(), n.UserID, string(n.Kind), n.Title, n.Message, n.Icon, now)
		if err != nil {
			return fmt.Errorf("failed to record activity: %w", err)
		}
	}
	return nil
}

func logFailure(err error, action string) {
	if err == nil {
		return
	}
	var known bool
	for _, target := range []error{ErrNotFound, ErrEmailTaken, ErrInvalidCredentials,
		progression.ErrBoxAlreadyOpened, progression.ErrQuestAlreadyCompleted, progression.ErrInvalidTransition} {
		if errors.Is(err, target) {
			known = true
			break
		}
	}
	if known {
		logger.New().WithError(err).With("action", action).Debug("Action rejected")
		return
	}
	logger.New().WithError(err).With("action", action).Error("Action failed")
}
