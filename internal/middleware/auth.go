package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/tatami/academy-backend/internal/model"
	"github.com/tatami/academy-backend/internal/response"
	"github.com/tatami/academy-backend/internal/service"
)

const (
	// ContextKeyIdentity is the Gin context key for the verified caller.
	ContextKeyIdentity = "identity"
	// ContextKeyAccess is the Gin context key for the resolved effective access.
	ContextKeyAccess = "access"
)

var errTokenMissing = errors.New("authorization header or token query required")

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	ValidateToken(tokenStr string) (*service.Claims, error)
}

// AccessResolver derives the effective access of an identity.
type AccessResolver interface {
	Resolve(ctx context.Context, id model.Identity) model.EffectiveAccess
}

// RequireIdentity validates the provider JWT from the Authorization header,
// or from ?token= for WebSocket upgrades, and stores the caller identity.
func RequireIdentity(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := extractToken(c)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		claims, err := verifier.ValidateToken(tokenStr)
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Debug().Err(err).Msg("token rejected")
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		c.Set(ContextKeyIdentity, claims.Identity())
		c.Next()
	}
}

// ResolveAccess runs the access resolver for the caller and stores the
// result. It never rejects: a caller without tenancy gets fail-closed access.
func ResolveAccess(resolver AccessResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := GetIdentity(c)
		if !ok {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		c.Set(ContextKeyAccess, resolver.Resolve(c.Request.Context(), id))
		c.Next()
	}
}

// GetIdentity retrieves the verified caller from the Gin context.
func GetIdentity(c *gin.Context) (model.Identity, bool) {
	val, exists := c.Get(ContextKeyIdentity)
	if !exists {
		return model.Identity{}, false
	}
	id, ok := val.(model.Identity)
	return id, ok
}

// GetAccess retrieves the effective access from the Gin context. Missing
// access is reported as fail-closed.
func GetAccess(c *gin.Context) model.EffectiveAccess {
	val, exists := c.Get(ContextKeyAccess)
	if !exists {
		return model.EffectiveAccess{}
	}
	eff, ok := val.(model.EffectiveAccess)
	if !ok {
		return model.EffectiveAccess{}
	}
	return eff
}

func extractToken(c *gin.Context) (string, error) {
	tokenStr := ""

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			tokenStr = strings.TrimSpace(parts[1])
		}
	}

	// Browsers cannot set headers on WebSocket upgrades.
	if tokenStr == "" {
		tokenStr = c.Query("token")
	}

	if tokenStr == "" {
		return "", errTokenMissing
	}
	return tokenStr, nil
}
