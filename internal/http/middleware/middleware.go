package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dealshare/dealshare/internal/auth"
	"github.com/gin-gonic/gin"
)

const userContextKey = "authenticatedUser"

// Middleware holds the request middleware dependencies.
type Middleware struct {
	verifier *auth.Verifier
}

// New initializes the middleware with the given token verifier.
func New(verifier *auth.Verifier) *Middleware {
	return &Middleware{verifier: verifier}
}

// Recovery is a middleware that recovers from panics and returns a 500 Internal Server Error
// instead of crashing the server.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("Panic recovered",
					slog.Any("error", err),
					slog.String("path", c.Request.URL.Path),
					slog.String("method", c.Request.Method),
				)
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal Server Error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// RequireAuth rejects requests without a valid bearer token and attaches
// the verified identity to the request context.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := m.userFromRequest(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// OptionalAuth attaches the identity when a valid token is present and
// lets the request through either way.
func (m *Middleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := m.userFromRequest(c); ok {
			c.Set(userContextKey, user)
		}
		c.Next()
	}
}

func (m *Middleware) userFromRequest(c *gin.Context) (auth.AuthenticatedUser, bool) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return auth.AuthenticatedUser{}, false
	}

	user, err := m.verifier.Verify(token)
	if err != nil {
		slog.Info("Rejected bearer token", slog.Any("err", err))
		return auth.AuthenticatedUser{}, false
	}
	return user, true
}

// CurrentUser returns the identity attached by RequireAuth/OptionalAuth.
func CurrentUser(c *gin.Context) (auth.AuthenticatedUser, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return auth.AuthenticatedUser{}, false
	}
	user, ok := value.(auth.AuthenticatedUser)
	return user, ok
}
