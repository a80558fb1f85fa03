package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yamdb-api/internal/app"
	"yamdb-api/internal/model"
	"yamdb-api/internal/permission"
	"yamdb-api/internal/pkg/jwtutil"
)

const secret = "middleware-secret"

type stubLoader map[uint]*model.User

func (s stubLoader) Authenticate(_ context.Context, id uint) (*model.User, error) {
	if id == 500 {
		return nil, errors.New("db down")
	}
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, app.ErrUnauthenticated
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/", handlers...)
	return r
}

func serve(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func bearer(t *testing.T, id uint, role model.Role) string {
	t.Helper()
	token, err := jwtutil.GenerateToken(secret, time.Hour, id, "u", string(role))
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuthJWTAndRequire(t *testing.T) {
	users := stubLoader{
		1: {ID: 1, Username: "admin", Role: model.RoleAdmin},
		2: {ID: 2, Username: "bob", Role: model.RoleUser},
		3: {ID: 3, Username: "root", Role: model.RoleUser, IsSuperuser: true},
	}
	r := newEngine(AuthJWT(secret, users), Require(permission.IsAdmin))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer abc", http.StatusUnauthorized},
		{"deleted account", bearer(t, 9, model.RoleAdmin), http.StatusUnauthorized},
		{"lookup failure", bearer(t, 500, model.RoleAdmin), http.StatusInternalServerError},
		{"plain user", bearer(t, 2, model.RoleUser), http.StatusForbidden},
		// The stored role wins over the role claim in the token.
		{"stale admin claim", bearer(t, 2, model.RoleAdmin), http.StatusForbidden},
		{"admin", bearer(t, 1, model.RoleAdmin), http.StatusOK},
		{"superuser", bearer(t, 3, model.RoleUser), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, serve(r, tt.header).Code)
		})
	}
}

func TestRequireWithoutAuth(t *testing.T) {
	r := newEngine(Require(permission.IsAdmin))
	rec := serve(r, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"detail":"Authentication credentials were not provided."}`, rec.Body.String())
}

func TestRateLimit(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 2, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := newEngine(RateLimit(limiter))

	assert.Equal(t, http.StatusOK, serve(r, "").Code)
	assert.Equal(t, http.StatusOK, serve(r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, "").Code)

	assert.True(t, limiter.GetLimiter("198.51.100.7").Allow(), "other clients keep their own bucket")
}
