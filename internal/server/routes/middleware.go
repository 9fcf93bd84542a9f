package routes

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sitepay/internal/models"
)

type Middleware struct {
	server ServerInterface
}

func NewMiddleware(server ServerInterface) *Middleware {
	return &Middleware{server: server}
}

func (m *Middleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userIDRaw := session.Get("user_id")

		if userIDRaw == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		userIDStr, ok := userIDRaw.(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Invalid session data"})
			return
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Invalid session data"})
			return
		}

		db := m.server.GetDB()
		user, err := db.Users.Get(userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found or database error"})
			return
		}

		c.Set("user", user) // Store user object in context
		c.Next()
	}
}

// onTeam reports whether userID is assigned to the given manager.
func onTeam(server ServerInterface, adminID, userID uuid.UUID) (bool, error) {
	memberIDs, err := server.GetDB().Assignments.TeamMemberIDs(adminID)
	if err != nil {
		return false, err
	}
	for _, id := range memberIDs {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

// ManagerMiddleware restricts a route to manager accounts. Must run after
// AuthMiddleware.
func (m *Middleware) ManagerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userRaw, exists := c.Get("user")
		if !exists {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "User not found in context"})
			return
		}

		user := userRaw.(*models.User)
		if !user.IsManager() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Manager access required"})
			return
		}

		c.Next()
	}
}
