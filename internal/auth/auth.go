package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/sessions"

	"github.com/tahcohcat/studyquest/config"
	"github.com/tahcohcat/studyquest/internal/logger"
)

const (
	sessionName = "studyquest-session"
	userIDKey   = "user_id"
)

var ErrUnauthenticated = errors.New("not authenticated")

// Claims defines JWT claims used in the application.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Manager authenticates requests with either the session cookie or an
// "Authorization: Bearer" token.
type Manager struct {
	store     *sessions.CookieStore
	jwtSecret []byte
	ttl       time.Duration
}

func NewManager(cfg config.AuthConfig) *Manager {
	ttl := time.Duration(cfg.TokenTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store, jwtSecret: []byte(cfg.JWTSecret), ttl: ttl}
}

// IssueToken signs a bearer token for the user.
func (m *Manager) IssueToken(userID, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.jwtSecret)
}

// ParseToken validates a JWT and returns its claims.
func (m *Manager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// StartSession stores the user ID in the session cookie.
func (m *Manager) StartSession(w http.ResponseWriter, r *http.Request, userID string) error {
	session, _ := m.store.Get(r, sessionName)
	session.Values[userIDKey] = userID
	return session.Save(r, w)
}

func (m *Manager) EndSession(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.store.Get(r, sessionName)
	delete(session.Values, userIDKey)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// Authenticate resolves the caller's user ID. A bearer token takes
// precedence over the session cookie.
func (m *Manager) Authenticate(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return "", ErrUnauthenticated
		}
		claims, err := m.ParseToken(strings.TrimSpace(token))
		if err != nil {
			return "", ErrUnauthenticated
		}
		return claims.UserID, nil
	}

	session, err := m.store.Get(r, sessionName)
	if err != nil {
		return "", ErrUnauthenticated
	}
	if id, ok := session.Values[userIDKey].(string); ok && id != "" {
		return id, nil
	}
	return "", ErrUnauthenticated
}

// Middleware rejects unauthenticated requests with 401 and puts the user ID
// in the request context.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := m.Authenticate(r)
		if err != nil {
			logger.New().With("path", r.URL.Path).Debug("Unauthenticated request")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"authentication required"}`))
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

type ctxKey struct{}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserID returns the authenticated user ID set by Middleware.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}
