package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/culturalhub/culturalhub/utils"
)

const (
	// SessionCookieName carries the signed session token.
	SessionCookieName = "chub_session"

	// ContextUserIDKey is the key used to store the authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextProfileIDKey stores the authenticated user's profile ID.
	ContextProfileIDKey = "profile_id"
	// ContextUsernameKey stores the username inside Gin context.
	ContextUsernameKey = "username"
	// ContextTokenKey stores the raw session token for logout revocation.
	ContextTokenKey = "session_token"
)

// sessionToken extracts the raw token from the cookie, falling back to a
// Bearer Authorization header.
func sessionToken(ctx *gin.Context) string {
	if tok, err := ctx.Cookie(SessionCookieName); err == nil && tok != "" {
		return tok
	}
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// SessionLoader resolves the session token into context identity keys when a
// valid one is present. It never rejects the request; pair with LoginRequired
// for protected routes.
func SessionLoader() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := sessionToken(ctx)
		if token == "" || utils.IsTokenBlacklisted(token) {
			ctx.Next()
			return
		}
		claims, err := utils.ParseToken(token)
		if err != nil {
			ctx.Next()
			return
		}
		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextProfileIDKey, claims.ProfileID)
		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Set(ContextTokenKey, token)
		ctx.Next()
	}
}

// LoginRequired redirects unauthenticated requests to the login page.
func LoginRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !IsAuthenticated(ctx) {
			ctx.Redirect(http.StatusFound, "/login/")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// IsAuthenticated reports whether the request carries a valid session.
func IsAuthenticated(ctx *gin.Context) bool {
	_, ok := ctx.Get(ContextUserIDKey)
	return ok
}

// CurrentUserID returns the authenticated user's ID.
func CurrentUserID(ctx *gin.Context) (uint, bool) {
	v, ok := ctx.Get(ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// CurrentProfileID returns the authenticated user's profile ID.
func CurrentProfileID(ctx *gin.Context) (uint, bool) {
	v, ok := ctx.Get(ContextProfileIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
