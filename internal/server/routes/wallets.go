package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sitepay/internal/models"
)

type WalletRoutes struct {
	server ServerInterface
}

func NewWalletRoutes(server ServerInterface) *WalletRoutes {
	return &WalletRoutes{server: server}
}

func (wr *WalletRoutes) RegisterRoutes(r *gin.Engine) {
	middleware := NewMiddleware(wr.server)

	r.POST("/wallets", middleware.AuthMiddleware(), wr.addWalletHandler)
	r.GET("/wallets", middleware.AuthMiddleware(), wr.listWalletsHandler)
	r.POST("/wallets/:id/primary", middleware.AuthMiddleware(), wr.setPrimaryHandler)
}

func (wr *WalletRoutes) addWalletHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	var req struct {
		Address string            `json:"address" binding:"required"`
		Type    models.WalletType `json:"type" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := wr.server.GetDB()
	wallet, err := db.Wallets.Add(user.ID, req.Address, req.Type)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add wallet"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"wallet": wallet})
}

func (wr *WalletRoutes) listWalletsHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	db := wr.server.GetDB()
	wallets, err := db.Wallets.ListByUser(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wallets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"wallets": wallets})
}

func (wr *WalletRoutes) setPrimaryHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	walletID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wallet ID"})
		return
	}

	db := wr.server.GetDB()
	if err := db.Wallets.SetPrimary(walletID, user.ID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wallet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Primary wallet updated"})
}
