package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var owner = Actor{UserID: "u1", OrganizationID: "org1", StaffID: "s1", Role: RoleOwner}

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	token, err := m.GenerateAccessToken(owner)
	require.NoError(t, err)

	claims, err := m.ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, owner, claims.Actor())
}

func TestJWTRejects(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewJWTManager("other", time.Hour).GenerateAccessToken(owner)
		require.NoError(t, err)
		_, err = m.ParseAndValidate(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := NewJWTManager("secret", -time.Minute).GenerateAccessToken(owner)
		require.NoError(t, err)
		_, err = m.ParseAndValidate(token)
		assert.Error(t, err)
	})

	t.Run("missing organization", func(t *testing.T) {
		token, err := m.GenerateAccessToken(Actor{UserID: "u1", Role: RoleOwner})
		require.NoError(t, err)
		_, err = m.ParseAndValidate(token)
		assert.Error(t, err)
	})

	t.Run("unknown role", func(t *testing.T) {
		token, err := m.GenerateAccessToken(Actor{UserID: "u1", OrganizationID: "org1", Role: "root"})
		require.NoError(t, err)
		_, err = m.ParseAndValidate(token)
		assert.Error(t, err)
	})

	t.Run("none algorithm", func(t *testing.T) {
		claims := &Claims{UserID: "u1", OrganizationID: "org1", Role: RoleOwner}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = m.ParseAndValidate(token)
		assert.Error(t, err)
	})
}

func TestActorPermissions(t *testing.T) {
	member := Actor{UserID: "u2", OrganizationID: "org1", StaffID: "s2", Role: RoleMember}
	admin := Actor{UserID: "u3", OrganizationID: "org1", StaffID: "s3", Role: RoleAdmin}

	assert.True(t, owner.IsManager())
	assert.True(t, admin.IsManager())
	assert.False(t, member.IsManager())

	assert.True(t, member.CanActOnStaff("s2"))
	assert.False(t, member.CanActOnStaff("s1"))
	assert.False(t, Actor{Role: RoleMember}.CanActOnStaff(""))
	assert.True(t, admin.CanActOnStaff("s2"))
}

func newAuthRouter(m *JWTManager, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthRequired(m)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		a, _ := GetActor(c)
		c.String(http.StatusOK, string(a.Role))
	})
	r.GET("/", handlers...)
	return r
}

func TestAuthRequired(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	token, err := m.GenerateAccessToken(owner)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "valid", header: "Bearer " + token, want: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + token, want: http.StatusOK},
		{name: "missing", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + token, want: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer abc", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			newAuthRouter(m).ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRoleMiddlewares(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	tests := []struct {
		name       string
		role       Role
		middleware gin.HandlerFunc
		want       int
	}{
		{name: "manager route owner", role: RoleOwner, middleware: RequireManager(), want: http.StatusOK},
		{name: "manager route admin", role: RoleAdmin, middleware: RequireManager(), want: http.StatusOK},
		{name: "manager route member", role: RoleMember, middleware: RequireManager(), want: http.StatusForbidden},
		{name: "owner route owner", role: RoleOwner, middleware: RequireOwner(), want: http.StatusOK},
		{name: "owner route admin", role: RoleAdmin, middleware: RequireOwner(), want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := m.GenerateAccessToken(Actor{UserID: "u", OrganizationID: "org1", StaffID: "s", Role: tt.role})
			require.NoError(t, err)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			newAuthRouter(m, tt.middleware).ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
