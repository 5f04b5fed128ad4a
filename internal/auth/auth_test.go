package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahcohcat/studyquest/config"
)

func newManager() *Manager {
	return NewManager(config.AuthConfig{SessionSecret: "session-secret-for-tests", JWTSecret: "jwt-secret", TokenTTLHours: 1})
}

func whoami(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserID(r.Context())
		require.True(t, ok)
		w.Write([]byte(id))
	})
}

func TestTokenRoundTrip(t *testing.T) {
	m := newManager()
	token, err := m.IssueToken("u1", "a@b.c")
	require.NoError(t, err)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "a@b.c", claims.Email)
}

func TestParseToken_Rejects(t *testing.T) {
	m := newManager()

	other := NewManager(config.AuthConfig{JWTSecret: "another-secret", SessionSecret: "x"})
	forged, err := other.IssueToken("u1", "a@b.c")
	require.NoError(t, err)
	_, err = m.ParseToken(forged)
	assert.Error(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	s, err := expired.SignedString([]byte("jwt-secret"))
	require.NoError(t, err)
	_, err = m.ParseToken(s)
	assert.Error(t, err)
}

func TestMiddleware_Bearer(t *testing.T) {
	m := newManager()
	token, err := m.IssueToken("u42", "x@y.z")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	m.Middleware(whoami(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u42", rec.Body.String())
}

func TestMiddleware_SessionCookie(t *testing.T) {
	m := newManager()

	login := httptest.NewRecorder()
	require.NoError(t, m.StartSession(login, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil), "u7"))
	cookies := login.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	m.Middleware(whoami(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u7", rec.Body.String())
}

func TestMiddleware_Unauthenticated(t *testing.T) {
	m := newManager()
	for _, header := range []string{"", "Bearer garbage", "Basic dXNlcjpwYXNz"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		m.Middleware(whoami(t)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
		assert.JSONEq(t, `{"error":"authentication required"}`, rec.Body.String())
	}
}
