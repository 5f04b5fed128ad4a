package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/tahcohcat/studyquest/internal/database"
	"github.com/tahcohcat/studyquest/internal/logger"
	"github.com/tahcohcat/studyquest/internal/models"
)

type UserService struct {
	core
}

func NewUserService(db *database.DB, opts Options) *UserService {
	return &UserService{core: newCore(db, opts)}
}

// CreateUser creates the account and its profile in one transaction.
func (s *UserService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, *models.Profile, error) {
	now := s.now()
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user := &models.User{
		ID:        newID(),
		Email:     email,
		CreatedAt: now,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile := &models.Profile{
		ID:        user.ID,
		Name:      strings.TrimSpace(req.Name),
		Email:     email,
		Level:     1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.ClassLevel != "" {
		cl := req.ClassLevel
		profile.ClassLevel = &cl
	}

	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		var count int
		if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM users WHERE email = ?`, email); err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}

		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO users (id, email, password_hash, created_at)
			VALUES (:id, :email, :password_hash, :created_at)`, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO profiles (`+profileColumns+`)
			VALUES (:id, :name, :email, :avatar_url, :class_level, :xp, :level, :streak, :quest_streak,
				:total_days, :last_activity_date, :last_quest_date, :created_at, :updated_at)`, profile); err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		return nil
	})
	if err != nil {
		logFailure(err, "create_user")
		return nil, nil, err
	}

	logger.New().With("user_id", user.ID).Info("User registered")
	return user, profile, nil
}

// AuthenticateUser validates login credentials and returns the user
func (s *UserService) AuthenticateUser(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, `
		SELECT id, email, password_hash, created_at, last_login_at
		FROM users WHERE email = ?`, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	if _, err := s.db.ExecContext(ctx, `UPDATE users SET last_login_at = ? WHERE id = ?`, now, user.ID); err != nil {
		// Non-fatal
		logger.New().WithError(err).With("user_id", user.ID).Warn("Failed to update last login")
	} else {
		user.LastLoginAt = &now
	}

	return &user, nil
}

// GetUserByID retrieves a user by their ID
func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, `SELECT id, email, created_at, last_login_at FROM users WHERE id = ?`, id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	var p models.Profile
	err := s.db.GetContext(ctx, &p, `SELECT `+profileColumns+` FROM profiles WHERE id = ?`, userID)
	if err != nil {
		return nil, notFound(err, "profile")
	}
	return &p, nil
}

// UpdateProfile changes the user-editable profile fields only. Progression
// counters are never written from here.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *models.ProfileUpdateRequest) (*models.Profile, error) {
	var avatar, class *string
	if req.AvatarURL != "" {
		avatar = &req.AvatarURL
	}
	if req.ClassLevel != "" {
		class = &req.ClassLevel
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE profiles SET name = ?, avatar_url = ?, class_level = ?, updated_at = ?
		WHERE id = ?`, strings.TrimSpace(req.Name), avatar, class, s.now(), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("profile: %w", ErrNotFound)
	}
	return s.GetProfile(ctx, userID)
}
