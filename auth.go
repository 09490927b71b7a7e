package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Roles carried in the session token. Viewer is read-only; admin gates all
// mutations. There is no account table: admin is a single shared password.
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

var adminPassHash []byte // set in main from resolveAdminHash

// LoginRole validates a login attempt and returns the granted role.
// Viewer needs no credential; admin requires the configured password.
func LoginRole(role, password string) (string, error) {
	switch role {
	case RoleViewer:
		return RoleViewer, nil
	case RoleAdmin:
		if err := bcrypt.CompareHashAndPassword(adminPassHash, []byte(password)); err != nil {
			return "", fmt.Errorf("password salah")
		}
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role %q", role)
	}
}

// issueToken signs a session token carrying the role. Sessions are
// client-held; logout is the client discarding its token.
func issueToken(role string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": role,
		"exp":  time.Now().Add(12 * time.Hour).Unix(),
	})
	return token.SignedString(jwtSecret)
}

func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		role, _ := claims["role"].(string)
		if role == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		c.Set("role", role)
		c.Next()
	}
}

// adminOnly rejects viewer sessions on mutating routes.
func adminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		if role != RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin only"})
			c.Abort()
			return
		}
		c.Next()
	}
}
