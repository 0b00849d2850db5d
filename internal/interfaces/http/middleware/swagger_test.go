package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agency/backend/internal/infrastructure/auth"
	"github.com/agency/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// apiJWT mirrors the server wiring: the docs are not on the skip list, so
// RequireAuth really checks the token
func apiJWT() gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{
		Validator: newTestJWTService(),
		SkipPaths: []string{"/api/v1/system/info"},
	})
}

func newSwaggerRouter(cfg SwaggerConfig, jwtMiddleware gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/swagger/*any", SwaggerProtection(cfg, jwtMiddleware), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": GetJWTRole(c)})
	})
	return router
}

func getDocs(router *gin.Engine, remoteAddr, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	if token != "" {
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSwaggerProtection_DisabledHidesDocs(t *testing.T) {
	router := newSwaggerRouter(SwaggerConfig{Enabled: false, RequireAuth: true}, apiJWT())

	// the docs stay hidden even for a valid admin
	rec := getDocs(router, "", signToken(t, auth.RoleAdmin, time.Minute))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, dto.ErrCodeNotFound, errorCode(t, rec))
}

func TestSwaggerProtection_Access(t *testing.T) {
	tests := []struct {
		name       string
		cfg        SwaggerConfig
		remoteAddr string
		token      func(t *testing.T) string
		status     int
		code       string
	}{
		{
			name:   "open in development",
			cfg:    SwaggerConfig{Enabled: true},
			status: http.StatusOK,
		},
		{
			name:       "office network allowed",
			cfg:        SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.20.0.0/16"}},
			remoteAddr: "10.20.3.4:51000",
			status:     http.StatusOK,
		},
		{
			name:       "outside the office network",
			cfg:        SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.20.0.0/16", "203.0.113.7"}},
			remoteAddr: "198.51.100.9:51000",
			status:     http.StatusForbidden,
			code:       dto.ErrCodeForbidden,
		},
		{
			name:   "auth required without token",
			cfg:    SwaggerConfig{Enabled: true, RequireAuth: true},
			status: http.StatusUnauthorized,
			code:   dto.ErrCodeTokenInvalid,
		},
		{
			name: "auth required with expired token",
			cfg:  SwaggerConfig{Enabled: true, RequireAuth: true},
			token: func(t *testing.T) string {
				return signToken(t, auth.RoleManager, -time.Hour)
			},
			status: http.StatusUnauthorized,
			code:   dto.ErrCodeTokenExpired,
		},
		{
			name: "auth required with designer token",
			cfg:  SwaggerConfig{Enabled: true, RequireAuth: true},
			token: func(t *testing.T) string {
				return signToken(t, auth.RoleDesigner, time.Minute)
			},
			status: http.StatusOK,
		},
		{
			name:       "allow-list is checked before the token",
			cfg:        SwaggerConfig{Enabled: true, RequireAuth: true, AllowedIPs: []string{"203.0.113.7"}},
			remoteAddr: "198.51.100.9:51000",
			token: func(t *testing.T) string {
				return signToken(t, auth.RoleAdmin, time.Minute)
			},
			status: http.StatusForbidden,
			code:   dto.ErrCodeForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var token string
			if tt.token != nil {
				token = tt.token(t)
			}
			rec := getDocs(newSwaggerRouter(tt.cfg, apiJWT()), tt.remoteAddr, token)

			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.code != "" {
				assert.Equal(t, tt.code, errorCode(t, rec))
			}
		})
	}
}

func TestSwaggerProtection_AuthPassesClaimsThrough(t *testing.T) {
	router := newSwaggerRouter(SwaggerConfig{Enabled: true, RequireAuth: true}, apiJWT())

	rec := getDocs(router, "", signToken(t, auth.RoleAccountant, time.Minute))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "accountant", body["role"])
}

func TestSwaggerProtection_AuthWithoutMiddlewareStaysOpen(t *testing.T) {
	// no jwt.secret configured, so the server has no middleware to pass
	router := newSwaggerRouter(SwaggerConfig{Enabled: true, RequireAuth: true}, nil)

	rec := getDocs(router, "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestParseAllowList(t *testing.T) {
	list := parseAllowList([]string{"203.0.113.7", "10.20.0.0/16", "::1", "office", "10.0.0.0/33"})
	require.Len(t, list.ips, 2)
	require.Len(t, list.nets, 1)

	tests := []struct {
		ip   string
		want bool
	}{
		{"203.0.113.7", true},
		{"203.0.113.8", false},
		{"10.20.255.1", true},
		{"10.21.0.1", false},
		{"::1", true},
	}
	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			assert.Equal(t, tt.want, list.contains(net.ParseIP(tt.ip)))
		})
	}
	assert.False(t, list.contains(nil))
}
