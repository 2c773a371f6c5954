package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"retailing/internal/middleware"
	"retailing/internal/model"
	"retailing/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-test-secret"

type stubResolver map[uint]*service.Caller

func (s stubResolver) Resolve(_ context.Context, userID uint) (*service.Caller, error) {
	if c, ok := s[userID]; ok {
		return c, nil
	}
	return nil, service.ErrNotFound
}

func sign(t *testing.T, userID uint, tokenType string, ttl time.Duration) string {
	t.Helper()
	claims := service.TokenClaims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return raw
}

func newEngine(resolver middleware.CallerResolver, guards ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append([]gin.HandlerFunc{middleware.JWTAuth(secret, resolver)}, guards...)
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": middleware.GetCaller(c).UserID})
	})
	r.GET("/me", chain...)
	return r
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func supplierID(id uint) *uint { return &id }

var callers = stubResolver{
	1: {UserID: 1, IsActive: true, SupplierID: supplierID(10), SupplierType: model.SupplierDistributor},
	2: {UserID: 2, IsActive: true, IsSuperuser: true},
	3: {UserID: 3, IsActive: true},
	4: {UserID: 4, IsActive: false, SupplierID: supplierID(10)},
}

func TestJWTAuth(t *testing.T) {
	r := newEngine(callers)

	rec := get(r, sign(t, 1, service.TokenAccess, time.Hour))
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]uint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, uint(1), body["user_id"])

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, sign(t, 1, service.TokenRefresh, time.Hour)).Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, sign(t, 1, service.TokenAccess, -time.Minute)).Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, sign(t, 99, service.TokenAccess, time.Hour)).Code)
}

func TestRequireTradingParty(t *testing.T) {
	r := newEngine(callers, middleware.RequireTradingParty())

	assert.Equal(t, http.StatusOK, get(r, sign(t, 1, service.TokenAccess, time.Hour)).Code)
	for _, id := range []uint{2, 3, 4} {
		rec := get(r, sign(t, id, service.TokenAccess, time.Hour))
		assert.Equal(t, http.StatusForbidden, rec.Code, "user %d", id)
		assert.Contains(t, rec.Body.String(), `"code":"unauthorized"`)
	}
}

func TestRequireSuperuser(t *testing.T) {
	r := newEngine(callers, middleware.RequireSuperuser())

	assert.Equal(t, http.StatusOK, get(r, sign(t, 2, service.TokenAccess, time.Hour)).Code)
	assert.Equal(t, http.StatusForbidden, get(r, sign(t, 1, service.TokenAccess, time.Hour)).Code)
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(middleware.RequestIDKey)) })

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	r.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Body.String())
	assert.Equal(t, "req-42", rec.Header().Get(middleware.RequestIDHeader))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, rec.Body.String(), 36)
}
