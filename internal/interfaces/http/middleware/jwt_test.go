package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agency/backend/internal/infrastructure/auth"
	"github.com/agency/backend/internal/infrastructure/config"
	"github.com/agency/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-key-at-least-32-chars"

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{Secret: testJWTSecret})
}

func signToken(t *testing.T, role auth.Role, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-42",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: role,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

func newJWTRouter(mw ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(mw...)
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": GetJWTUserID(c), "role": GetJWTRole(c)})
	})
	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/swagger/index.html", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.NotEmpty(t, resp.Error.RequestID)
	return resp.Error.Code
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	router := newJWTRouter(JWTAuthMiddleware(newTestJWTService()))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+signToken(t, auth.RoleDesigner, time.Minute))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "user-42", body["user"])
	assert.Equal(t, "designer", body["role"])
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	router := newJWTRouter(JWTAuthMiddleware(newTestJWTService()))

	tests := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{"missing header", "", http.StatusUnauthorized, dto.ErrCodeTokenInvalid},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, dto.ErrCodeTokenInvalid},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, dto.ErrCodeTokenInvalid},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized, dto.ErrCodeTokenInvalid},
		{"expired", BearerPrefix + signToken(t, auth.RoleStaff, -time.Hour), http.StatusUnauthorized, dto.ErrCodeTokenExpired},
		{"unknown role", BearerPrefix + signToken(t, auth.Role("intern"), time.Minute), http.StatusForbidden, dto.ErrCodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, errorCode(t, rec))
		})
	}
}

func TestJWTAuthMiddleware_DefaultSkipPaths(t *testing.T) {
	router := newJWTRouter(JWTAuthMiddleware(newTestJWTService()))

	for _, path := range []string{"/health", "/swagger/index.html"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestJWTAuthMiddleware_CustomSkipPaths(t *testing.T) {
	cfg := JWTMiddlewareConfig{
		Validator: newTestJWTService(),
		SkipPaths: []string{"/test"},
	}
	router := newJWTRouter(JWTAuthMiddlewareWithConfig(cfg))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoles(t *testing.T) {
	svc := newTestJWTService()
	router := newJWTRouter(JWTAuthMiddleware(svc), RequireRoles(auth.RoleAccountant, auth.RoleManager))

	tests := []struct {
		role   auth.Role
		status int
	}{
		{auth.RoleAccountant, http.StatusOK},
		{auth.RoleManager, http.StatusOK},
		{auth.RoleAdmin, http.StatusOK},
		{auth.RoleDesigner, http.StatusForbidden},
		{auth.RoleStaff, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set(AuthHeaderKey, BearerPrefix+signToken(t, tt.role, time.Minute))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestRequireRoles_WithoutClaims(t *testing.T) {
	router := newJWTRouter(RequireRoles(auth.RoleStaff))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrCodeUnauthorized, errorCode(t, rec))
}

func TestJWTAccessors_Empty(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetJWTClaims(c))
	assert.Empty(t, GetJWTUserID(c))
	assert.Empty(t, string(GetJWTRole(c)))
}
