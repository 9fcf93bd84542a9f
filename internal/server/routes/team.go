package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sitepay/internal/models"
)

type TeamRoutes struct {
	server ServerInterface
}

func NewTeamRoutes(server ServerInterface) *TeamRoutes {
	return &TeamRoutes{server: server}
}

func (tr *TeamRoutes) RegisterRoutes(r *gin.Engine) {
	middleware := NewMiddleware(tr.server)

	r.GET("/team", middleware.AuthMiddleware(), middleware.ManagerMiddleware(), tr.listTeamHandler)
	r.GET("/team/activity", middleware.AuthMiddleware(), middleware.ManagerMiddleware(), tr.teamActivityHandler)
	r.POST("/team/:id/deactivate", middleware.AuthMiddleware(), middleware.ManagerMiddleware(), tr.deactivateMemberHandler)
	r.POST("/team/:id/activate", middleware.AuthMiddleware(), middleware.ManagerMiddleware(), tr.activateMemberHandler)
}

func (tr *TeamRoutes) listTeamHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	db := tr.server.GetDB()
	assignments, err := db.Assignments.ListByAdmin(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch team"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"team": assignments})
}

// teamActivityHandler aggregates upload and headcount figures for the
// manager's dashboard.
func (tr *TeamRoutes) teamActivityHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	activity, err := tr.server.GetSQL().TeamActivity(c.Request.Context(), user.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch team activity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity": activity})
}

func (tr *TeamRoutes) deactivateMemberHandler(c *gin.Context) {
	tr.setMemberStatus(c, models.AssignmentInactive)
}

func (tr *TeamRoutes) activateMemberHandler(c *gin.Context) {
	tr.setMemberStatus(c, models.AssignmentActive)
}

func (tr *TeamRoutes) setMemberStatus(c *gin.Context, status models.AssignmentStatus) {
	user := c.MustGet("user").(*models.User)

	assignmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment ID"})
		return
	}

	db := tr.server.GetDB()
	if err := db.Assignments.SetStatus(assignmentID, user.ID, status); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Team member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update team member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": status})
}
