package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"branhox/internal/config"
)

// Session roles carried in the token.
const (
	RoleAdmin = "admin"
	RoleAgent = "agent"
)

// Context keys set by AuthMiddleware.
const (
	BusinessIDKey    = "businessID"
	EmailKey         = "email"
	RoleKey          = "role"
	AgentIDKey       = "agentID"
	AgentNameKey     = "agentName"
	ProviderTokenKey = "providerToken"
)

// getJWTKey returns the JWT key from configuration
func getJWTKey() []byte {
	return []byte(config.Get().JWTSecret)
}

// JWTClaims represents the claims in the JWT. Agent sessions are issued from
// an admin session of the same business and carry the agent's identity.
type JWTClaims struct {
	BusinessID    string `json:"business_id"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	AgentID       string `json:"agent_id,omitempty"`
	AgentName     string `json:"agent_name,omitempty"`
	ProviderToken string `json:"provider_token,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken signs claims with the configured secret and expiry.
func GenerateToken(claims JWTClaims) (string, error) {
	now := time.Now()
	subject := claims.BusinessID
	if claims.AgentID != "" {
		subject = claims.AgentID
	}
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(config.Get().JWTExpirationDur)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    "branhox-api",
		Subject:   subject,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	return token.SignedString(getJWTKey())
}

// ParseToken validates a signed token and returns its claims.
func ParseToken(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getJWTKey(), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.BusinessID == "" || (claims.Role != RoleAdmin && claims.Role != RoleAgent) {
		return nil, fmt.Errorf("token is missing tenant or role")
	}
	return claims, nil
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		gin.H{"error": gin.H{"code": "UNAUTHORIZED", "message": message}})
}

// AuthMiddleware verifies the JWT token and sets the tenant and session in the context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		claims, err := ParseToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(BusinessIDKey, claims.BusinessID)
		c.Set(EmailKey, claims.Email)
		c.Set(RoleKey, claims.Role)
		c.Set(AgentIDKey, claims.AgentID)
		c.Set(AgentNameKey, claims.AgentName)
		c.Set(ProviderTokenKey, claims.ProviderToken)
		c.Next()
	}
}
