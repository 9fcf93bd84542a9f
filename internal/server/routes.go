package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"sitepay/internal/auth"
	"sitepay/internal/server/routes"
)

func (s *Server) RegisterRoutes() http.Handler {
	// Initialize Goth providers
	auth.InitGothProviders(s.cfg)

	r := gin.Default()

	// Set up sessions
	store := cookie.NewStore([]byte(s.cfg.SessionSecret))
	r.Use(sessions.Sessions("sitepay-session", store))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{s.cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.GET("/", s.rootHandler)
	r.GET("/health", s.healthHandler)

	routes.NewAuthRoutes(s).RegisterRoutes(r)
	routes.NewInvitationRoutes(s).RegisterRoutes(r)
	routes.NewTeamRoutes(s).RegisterRoutes(r)
	routes.NewPaymentRoutes(s).RegisterRoutes(r)
	routes.NewUploadRoutes(s).RegisterRoutes(r)
	routes.NewWalletRoutes(s).RegisterRoutes(r)
	routes.NewCurrencyRoutes(s).RegisterRoutes(r)

	return r
}

func (s *Server) rootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "sitepay api"})
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.sql.Health())
}
