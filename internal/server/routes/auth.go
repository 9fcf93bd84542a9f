package routes

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/markbates/goth/gothic"
	"go.uber.org/zap"

	"sitepay/internal/config"
	"sitepay/internal/database"
	"sitepay/internal/models"
	"sitepay/internal/storage"
)

type AuthRoutes struct {
	server ServerInterface
}

type ServerInterface interface {
	GetDB() *models.DB
	GetSQL() database.Service
	GetStorage() *storage.S3Service
	GetConfig() *config.Config
	GetLogger() *zap.Logger
}

func NewAuthRoutes(server ServerInterface) *AuthRoutes {
	return &AuthRoutes{server: server}
}

func (ar *AuthRoutes) RegisterRoutes(r *gin.Engine) {
	middleware := NewMiddleware(ar.server)

	// OAuth routes
	r.GET("/auth/:provider", ar.authHandler)
	r.GET("/auth/:provider/callback", ar.authCallbackHandler)
	r.POST("/signup", ar.signupHandler)
	r.GET("/logout", ar.logoutHandler)
	r.GET("/user", middleware.AuthMiddleware(), ar.userHandler)
}

func (ar *AuthRoutes) authHandler(c *gin.Context) {
	provider := c.Param("provider")

	req := c.Request.Clone(c.Request.Context())
	req.URL.Path = "/auth/" + provider

	q := req.URL.Query()
	q.Add("provider", provider)
	req.URL.RawQuery = q.Encode()

	gothic.BeginAuthHandler(c.Writer, req)
}

func (ar *AuthRoutes) authCallbackHandler(c *gin.Context) {
	provider := c.Param("provider")

	req := c.Request.Clone(c.Request.Context())
	req.URL.Path = "/auth/" + provider + "/callback"

	q := req.URL.Query()
	q.Add("provider", provider)
	req.URL.RawQuery = q.Encode()

	gothUser, err := gothic.CompleteUserAuth(c.Writer, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := ar.server.GetDB()

	// OAuth sign-in is the manager entry point. Workers and suppliers join
	// through invitation codes instead.
	user, created, err := db.Users.GetOrCreate(gothUser.Provider, gothUser.UserID, models.User{
		Email:     gothUser.Email,
		Name:      gothUser.Name,
		Role:      models.RoleManager,
		AvatarURL: gothUser.AvatarURL,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save user"})
		return
	}
	if created {
		ar.server.GetLogger().Info("new manager signed up",
			zap.String("user_id", user.ID.String()),
			zap.String("provider", gothUser.Provider))
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID.String())
	session.Set("email", user.Email)
	session.Save()

	c.Redirect(http.StatusTemporaryRedirect, ar.server.GetConfig().FrontendURL+"/dashboard")
}

// signupHandler creates a worker or supplier account from an invitation code.
func (ar *AuthRoutes) signupHandler(c *gin.Context) {
	var req struct {
		Code  string `json:"code" binding:"required"`
		Name  string `json:"name" binding:"required"`
		Email string `json:"email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := ar.server.GetDB()
	user, assignment, err := db.SignupWithInvitation(req.Code, req.Name, req.Email)
	if err != nil {
		// A bad code never reveals whether it was wrong, consumed, or
		// expired. Anything else a caller could use to enumerate codes.
		switch {
		case errors.Is(err, models.ErrNotFound),
			errors.Is(err, models.ErrExpired),
			errors.Is(err, models.ErrAlreadyUsed):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired invitation code"})
		case errors.Is(err, models.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			ar.server.GetLogger().Error("signup failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		}
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID.String())
	session.Set("email", user.Email)
	session.Save()

	c.JSON(http.StatusCreated, gin.H{
		"user_id":      user.ID,
		"role":         user.Role,
		"project_name": assignment.ProjectName,
	})
}

func (ar *AuthRoutes) logoutHandler(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (ar *AuthRoutes) userHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	c.JSON(http.StatusOK, gin.H{
		"user_id":       user.ID,
		"email":         user.Email,
		"name":          user.Name,
		"role":          user.Role,
		"avatar_url":    user.AvatarURL,
		"authenticated": true,
	})
}
