package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"lendly/backend/internal/models"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated caller as asserted by the identity
// provider's token. UserID is the provider's stable subject.
type Identity struct {
	UserID    string
	Name      string
	Email     string
	AvatarURL string
}

const identityKey = "identity"

// AuthMiddleware validates the Bearer token and stashes the caller's
// identity in the request context. Unauthenticated requests get 401 and
// reach no chat or lending operation.
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
			return
		}

		identity, err := h.parseIdentity(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
			return
		}

		// Refresh the local identity snapshot on every authenticated
		// request. Best-effort: a failed upsert must not block the request.
		if err := h.Storage.SaveUser(&models.User{
			ID:        identity.UserID,
			Name:      identity.Name,
			Email:     identity.Email,
			AvatarURL: identity.AvatarURL,
		}); err != nil {
			log.Printf("WARNING: Failed to refresh user snapshot for %s: %v", identity.UserID, err)
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// bearerToken pulls the token from the Authorization header, or from the
// token query parameter for WebSocket upgrades where headers are awkward
// from the browser.
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[len("Bearer "):]
	}
	return c.Query("token")
}

func (h *Handler) parseIdentity(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return h.JWTSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, errors.New("token has no subject")
	}

	name, _ := claims["name"].(string)
	if name == "" {
		name = "User"
	}
	email, _ := claims["email"].(string)
	avatar, _ := claims["picture"].(string)

	return &Identity{
		UserID:    sub,
		Name:      name,
		Email:     email,
		AvatarURL: avatar,
	}, nil
}

// CurrentIdentity returns the identity set by AuthMiddleware.
func CurrentIdentity(c *gin.Context) *Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*Identity)
	return identity
}
