package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuthRequired is a Gin middleware that validates JWT from Authorization: Bearer <token>
func AuthRequired(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing Authorization header",
				"code":  "unauthorized",
			})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid Authorization header format",
				"code":  "unauthorized",
			})
			return
		}

		claims, err := jwtManager.ParseAndValidate(parts[1])
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Debug().Err(err).Msg("rejected bearer token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
				"code":  "unauthorized",
			})
			return
		}

		SetActor(c, claims.Actor())

		c.Next()
	}
}

// RequireManager lets only organization owners and admins through.
// It must run after AuthRequired.
func RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok || !actor.IsManager() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "only organization owners and admins can do this",
				"code":  "forbidden",
			})
			return
		}
		c.Next()
	}
}

// RequireOwner lets only organization owners through.
// It must run after AuthRequired.
func RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok || actor.Role != RoleOwner {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "only the organization owner can do this",
				"code":  "forbidden",
			})
			return
		}
		c.Next()
	}
}
