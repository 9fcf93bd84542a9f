package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sitepay/internal/models"
)

type InvitationRoutes struct {
	server ServerInterface
}

func NewInvitationRoutes(server ServerInterface) *InvitationRoutes {
	return &InvitationRoutes{server: server}
}

func (ir *InvitationRoutes) RegisterRoutes(r *gin.Engine) {
	middleware := NewMiddleware(ir.server)

	r.POST("/invitations", middleware.AuthMiddleware(), middleware.ManagerMiddleware(), ir.createInvitationHandler)
	r.GET("/invitations", middleware.AuthMiddleware(), middleware.ManagerMiddleware(), ir.listInvitationsHandler)
	r.POST("/invitations/:id/revoke", middleware.AuthMiddleware(), middleware.ManagerMiddleware(), ir.revokeInvitationHandler)
}

func (ir *InvitationRoutes) createInvitationHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	var req struct {
		Role          models.UserRole `json:"role" binding:"required"`
		Email         *string         `json:"email"`
		ProjectName   *string         `json:"project_name"`
		ExpiresInDays int             `json:"expires_in_days"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.ExpiresInDays == 0 {
		req.ExpiresInDays = 7
	}

	db := ir.server.GetDB()
	invitation, err := db.Invitations.Create(user.ID, req.Role, req.Email, req.ProjectName, req.ExpiresInDays)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invitation"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"invitation": invitation,
		"invite_url": invitation.InviteURL(ir.server.GetConfig().FrontendURL),
	})
}

func (ir *InvitationRoutes) listInvitationsHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	db := ir.server.GetDB()
	invitations, err := db.Invitations.ListByAdmin(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invitations"})
		return
	}

	baseURL := ir.server.GetConfig().FrontendURL
	out := make([]gin.H, 0, len(invitations))
	for i := range invitations {
		inv := &invitations[i]
		out = append(out, gin.H{
			"id":           inv.ID,
			"code":         inv.Code,
			"role":         inv.Role,
			"email":        inv.Email,
			"project_name": inv.ProjectName,
			"status":       inv.EffectiveStatus(),
			"expires_at":   inv.ExpiresAt,
			"used_by":      inv.UsedBy,
			"used_at":      inv.UsedAt,
			"created_at":   inv.CreatedAt,
			"invite_url":   inv.InviteURL(baseURL),
		})
	}

	c.JSON(http.StatusOK, gin.H{"invitations": out})
}

func (ir *InvitationRoutes) revokeInvitationHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	invitationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invitation ID"})
		return
	}

	db := ir.server.GetDB()
	if err := db.Invitations.Revoke(invitationID, user.ID); err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Invitation not found"})
		case errors.Is(err, models.ErrInvalidState):
			c.JSON(http.StatusConflict, gin.H{"error": "Only pending invitations can be revoked"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke invitation"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invitation revoked"})
}
