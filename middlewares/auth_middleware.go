package middlewares

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"lunch-backend/config"
	"lunch-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Messages shown to users bounced off a guard. Kept in Spanish, matching the
// rest of the user-facing copy.
const (
	MsgLoginRequired  = "Para continuar debe identificarse."
	MsgChefRequired   = "Usted debe ser chef para acceder a esta página"
	MsgClientRequired = "Usted debe ser cliente para acceder a esta página"
)

func userFromBearer(authHeader string) (*models.User, error) {
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, errors.New("missing bearer token")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	secret := []byte(os.Getenv("JWT_SECRET"))
	if len(secret) == 0 {
		return nil, errors.New("server misconfigured: JWT_SECRET not set")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	id, ok := claims["user_id"].(float64) // JWT numbers decode as float64
	if !ok {
		return nil, errors.New("user_id claim missing")
	}

	var user models.User
	if err := config.DB.First(&user, uint(id)).Error; err != nil {
		return nil, errors.New("user not found")
	}
	if !user.Active {
		return nil, errors.New("user disabled")
	}
	return &user, nil
}

// AuthMiddleware resolves the bearer token to an active user and stores
// userID / username / isChef in the context for the handlers behind it.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := userFromBearer(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": MsgLoginRequired})
			return
		}

		c.Set("userID", user.ID)
		c.Set("username", user.Username)
		c.Set("isChef", user.IsChef)
		c.Next()
	}
}

// OptionalAuth populates the user context when a valid token is present but
// never rejects the request. The menu detail page is public yet shows extra
// state to logged-in clients.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, err := userFromBearer(c.GetHeader("Authorization")); err == nil {
			c.Set("userID", user.ID)
			c.Set("username", user.Username)
			c.Set("isChef", user.IsChef)
		}
		c.Next()
	}
}

// ChefRequired runs after AuthMiddleware and rejects non-chef users.
func ChefRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool("isChef") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": MsgChefRequired})
			return
		}
		c.Next()
	}
}

// ClientRequired runs after AuthMiddleware and rejects chef users; chefs do
// not order from their own menus.
func ClientRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetBool("isChef") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": MsgClientRequired})
			return
		}
		c.Next()
	}
}
