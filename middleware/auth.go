package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/local-fix/api-go/utils"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

// AuthCookieName is the httpOnly cookie the login endpoint sets.
const AuthCookieName = "authToken"

// extractToken reads the JWT from the auth cookie, falling back to an
// Authorization bearer header. Every protected route goes through this
// one path so identity is extracted the same way everywhere.
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AuthCookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	bearerToken := strings.Split(authHeader, " ")
	if len(bearerToken) != 2 || !strings.EqualFold(bearerToken[0], "Bearer") {
		return ""
	}

	return bearerToken[1]
}

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authentication required"})
			c.Abort()
			return
		}

		claims := jwt.MapClaims{}
		parsedToken, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !parsedToken.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid token"})
			c.Abort()
			return
		}

		userID, ok := claims["user_id"].(float64)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid token claims"})
			c.Abort()
			return
		}

		role, ok := claims["role"].(string)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid token claims"})
			c.Abort()
			return
		}

		userClaims := &utils.UserClaims{
			UserID: uint(userID),
			Role:   role,
		}

		c.Set(string(utils.UserContextKey), userClaims)

		c.Next()
	}
}

// RequireRole gates a route group to one or more roles. Runs after
// AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := utils.GetUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authentication required"})
			c.Abort()
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Insufficient permissions"})
		c.Abort()
	}
}
