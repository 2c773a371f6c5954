package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"retailing/internal/apierror"
	"retailing/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	ClaimsKey = "claims"
	CallerKey = "caller"
)

// CallerResolver loads the identity behind a token; service.IdentityService
// satisfies it.
type CallerResolver interface {
	Resolve(ctx context.Context, userID uint) (*service.Caller, error)
}

// JWTAuth validates the Bearer access token and resolves the caller from the
// database on every request, so supplier membership is never stale.
func JWTAuth(secret string, resolver CallerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("authentication required"))
			return
		}

		claims, err := service.ParseToken(secret, strings.TrimPrefix(header, "Bearer "), service.TokenAccess)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("invalid or expired token"))
			return
		}

		caller, err := resolver.Resolve(c.Request.Context(), claims.UserID)
		if err != nil {
			if !errors.Is(err, service.ErrNotFound) {
				log.Error().Err(err).Str("request_id", c.GetString(RequestIDKey)).Msg("caller resolution failed")
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("unknown user"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(CallerKey, caller)
		c.Next()
	}
}

// RequireTradingParty admits active, non-administrator users who work for a
// supplier.
func RequireTradingParty() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.CheckCaller(GetCaller(c)); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.WithCode("unauthorized", err.Error()))
			return
		}
		c.Next()
	}
}

// RequireSuperuser admits active administrators only.
func RequireSuperuser() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := GetCaller(c)
		if !caller.IsActive || !caller.IsSuperuser {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.WithCode("unauthorized", "administrators only"))
			return
		}
		c.Next()
	}
}

// GetCaller returns the resolved caller, or a zero Caller on public routes.
func GetCaller(c *gin.Context) service.Caller {
	if v, ok := c.Get(CallerKey); ok {
		if caller, ok := v.(*service.Caller); ok && caller != nil {
			return *caller
		}
	}
	return service.Caller{}
}
