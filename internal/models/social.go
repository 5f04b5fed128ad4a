package models

import "time"

type Post struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	ImageURL  *string   `json:"image_url" db:"image_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// FeedPost is a post joined with its author's public profile fields.
type FeedPost struct {
	Post
	AuthorName      string  `json:"author_name" db:"author_name"`
	AuthorAvatarURL *string `json:"author_avatar_url" db:"author_avatar_url"`
}

type CreatePostRequest struct {
	Content  string `json:"content" validate:"required,notblank,max=5000"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
}

// Motivation dimensions, in display order.
var MotivationDimensions = []string{
	"risk", "diligence", "responsibility", "collaboration", "perseverance", "planning",
}

type MotivationScore struct {
	ID             string    `json:"id" db:"id"`
	UserID         string    `json:"user_id" db:"user_id"`
	Risk           int       `json:"risk" db:"risk"`
	Diligence      int       `json:"diligence" db:"diligence"`
	Responsibility int       `json:"responsibility" db:"responsibility"`
	Collaboration  int       `json:"collaboration" db:"collaboration"`
	Perseverance   int       `json:"perseverance" db:"perseverance"`
	Planning       int       `json:"planning" db:"planning"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Dimensions returns the scores keyed by dimension name.
func (m MotivationScore) Dimensions() map[string]int {
	return map[string]int{
		"risk":           m.Risk,
		"diligence":      m.Diligence,
		"responsibility": m.Responsibility,
		"collaboration":  m.Collaboration,
		"perseverance":   m.Perseverance,
		"planning":       m.Planning,
	}
}

type MotivationRequest struct {
	Risk           int `json:"risk" validate:"min=1,max=10"`
	Diligence      int `json:"diligence" validate:"min=1,max=10"`
	Responsibility int `json:"responsibility" validate:"min=1,max=10"`
	Collaboration  int `json:"collaboration" validate:"min=1,max=10"`
	Perseverance   int `json:"perseverance" validate:"min=1,max=10"`
	Planning       int `json:"planning" validate:"min=1,max=10"`
}

type EmotionLog struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Emotion     string    `json:"emotion" db:"emotion"`
	EnergyLevel *int      `json:"energy_level" db:"energy_level"`
	Activity    *string   `json:"activity" db:"activity"`
	Notes       *string   `json:"notes" db:"notes"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type EmotionRequest struct {
	Emotion     string `json:"emotion" validate:"required"`
	EnergyLevel int    `json:"energy_level" validate:"omitempty,min=1,max=5"`
	Activity    string `json:"activity"`
	Notes       string `json:"notes"`
}

// MotivationStats backs the statistics page.
type MotivationStats struct {
	Scores   []MotivationScore  `json:"scores"` // oldest first
	Latest   *MotivationScore   `json:"latest"`
	Averages map[string]float64 `json:"averages"`
}

type Dashboard struct {
	Profile                *Profile      `json:"profile"`
	RecentAchievements     []Achievement `json:"recent_achievements"`
	RecentPosts            []FeedPost    `json:"recent_posts"`
	NeedsMotivationCheckIn bool          `json:"needs_motivation_checkin"`
}
