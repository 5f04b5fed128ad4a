package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tahcohcat/studyquest/internal/database"
	"github.com/tahcohcat/studyquest/internal/models"
	"github.com/tahcohcat/studyquest/internal/progression"
)

// testClock starts at a fixed instant and ticks one second per reading so
// rows get distinct, ordered timestamps.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func (c *testClock) AdvanceDays(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.AddDate(0, 0, n)
}

type recorder struct {
	mu    sync.Mutex
	notes []models.Notification
}

func (r *recorder) Publish(n models.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recorder) kinds() []models.NotificationKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.NotificationKind, 0, len(r.notes))
	for _, n := range r.notes {
		out = append(out, n.Kind)
	}
	return out
}

type testEnv struct {
	db     *database.DB
	clock  *testClock
	notes  *recorder
	opts   Options
	users  *UserService
	userID string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvAt(t, database.MemoryPath)
}

// newFileTestEnv backs the services with a database file, so concurrent
// calls run on separate connections the way they do in production.
func newFileTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvAt(t, filepath.Join(t.TempDir(), "studyquest.db"))
}

func newTestEnvAt(t *testing.T, path string) *testEnv {
	t.Helper()
	db, err := database.NewDB(database.DriverCGO, path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Seed(context.Background()))

	env := &testEnv{
		db:    db,
		clock: &testClock{now: time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)},
		notes: &recorder{},
	}
	env.opts = Options{
		Engine:   progression.NewEngine(progression.ThresholdLevels([]int{0, 100, 250, 500, 1000})),
		Notifier: env.notes,
		Roller:   progression.FixedRoller(10),
		Clock:    env.clock.Now,
		Location: time.UTC,
	}
	env.users = NewUserService(db, env.opts)
	env.userID = env.register(t, "student@example.com")
	return env
}

func (e *testEnv) register(t *testing.T, email string) string {
	t.Helper()
	u, _, err := e.users.CreateUser(context.Background(), &models.CreateUserRequest{
		Email: email, Password: "secret123", Name: "Student",
	})
	require.NoError(t, err)
	return u.ID
}

func (e *testEnv) profile(t *testing.T) *models.Profile {
	t.Helper()
	p, err := e.users.GetProfile(context.Background(), e.userID)
	require.NoError(t, err)
	return p
}
