package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"yamdb-api/internal/app"
	"yamdb-api/internal/model"
	"yamdb-api/internal/pkg/jwtutil"
	"yamdb-api/internal/transport/http/response"
)

const (
	ContextUserIDKey   = "user_id"
	ContextUsernameKey = "username"
	ContextRoleKey     = "role"
	ContextUserKey     = "current_user"
)

// UserLoader resolves the account behind a validated token.
type UserLoader interface {
	Authenticate(ctx context.Context, userID uint) (*model.User, error)
}

// AuthJWT requires a valid bearer token and stores the caller's account in
// the context. The account is reloaded on every request so role changes and
// deletions take effect before the token expires.
func AuthJWT(secret string, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}

		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			response.Abort(c, http.StatusUnauthorized, "Invalid authorization scheme.")
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		claims, err := jwtutil.ParseToken(secret, token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "Given token not valid for any token type.")
			return
		}

		user, err := users.Authenticate(c.Request.Context(), claims.UserID)
		if errors.Is(err, app.ErrUnauthenticated) {
			response.Abort(c, http.StatusUnauthorized, "User not found.")
			return
		}
		if err != nil {
			_ = c.Error(err)
			response.Abort(c, http.StatusInternalServerError, "internal server error")
			return
		}

		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextUsernameKey, user.Username)
		c.Set(ContextRoleKey, string(user.Role))
		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the account stored by AuthJWT, or nil.
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}

// Require lets the request through when allowed accepts the caller. It must
// run after AuthJWT.
func Require(allowed func(*model.User) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CurrentUser(c)
		if caller == nil {
			response.Abort(c, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}
		if !allowed(caller) {
			response.Abort(c, http.StatusForbidden, "You do not have permission to perform this action.")
			return
		}
		c.Next()
	}
}
