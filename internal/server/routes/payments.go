package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sitepay/internal/currency"
	"sitepay/internal/models"
)

type PaymentRoutes struct {
	server ServerInterface
}

func NewPaymentRoutes(server ServerInterface) *PaymentRoutes {
	return &PaymentRoutes{server: server}
}

func (pr *PaymentRoutes) RegisterRoutes(r *gin.Engine) {
	middleware := NewMiddleware(pr.server)

	r.POST("/payments", middleware.AuthMiddleware(), middleware.ManagerMiddleware(), pr.createPaymentHandler)
	r.GET("/payments", middleware.AuthMiddleware(), pr.listPaymentsHandler)
	r.GET("/payments/summary", middleware.AuthMiddleware(), middleware.ManagerMiddleware(), pr.paymentSummaryHandler)
	r.POST("/payments/:id/approve", middleware.AuthMiddleware(), middleware.ManagerMiddleware(), pr.approvePaymentHandler)
	r.POST("/payments/:id/reject", middleware.AuthMiddleware(), middleware.ManagerMiddleware(), pr.rejectPaymentHandler)
}

func (pr *PaymentRoutes) createPaymentHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	var req struct {
		RecipientID uuid.UUID `json:"recipient_id" binding:"required"`
		Amount      float64   `json:"amount" binding:"required"`
		Description string    `json:"description" binding:"required"`
		Date        string    `json:"date" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	db := pr.server.GetDB()
	member, err := onTeam(pr.server, user.ID, req.RecipientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify team membership"})
		return
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "Recipient is not on your team"})
		return
	}

	payment, err := db.Payments.Create(req.RecipientID, req.Amount, req.Description, date)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"payment": payment})
}

// listPaymentsHandler scopes results by role: managers see their team's
// records, everyone else sees their own.
func (pr *PaymentRoutes) listPaymentsHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	db := pr.server.GetDB()

	var (
		payments []models.PaymentRecord
		err      error
	)
	if user.IsManager() {
		payments, err = db.Payments.ListForTeam(user.ID)
	} else {
		payments, err = db.Payments.ListByRecipient(user.ID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

func (pr *PaymentRoutes) paymentSummaryHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	summary, err := pr.server.GetSQL().PaymentSummary(c.Request.Context(), user.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment summary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pending_count":    summary.PendingCount,
		"paid_count":       summary.PaidCount,
		"pending_total":    currency.FromNgn(summary.PendingTotal),
		"settled_total":    currency.FromNgn(summary.SettledTotal),
		"this_month_spent": currency.FromNgn(summary.ThisMonthSpent),
	})
}

func (pr *PaymentRoutes) approvePaymentHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	paymentID, ok := pr.teamPaymentID(c, user)
	if !ok {
		return
	}

	db := pr.server.GetDB()
	payment, err := db.Payments.Approve(paymentID, user.ID)
	if err != nil {
		pr.writePaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

func (pr *PaymentRoutes) rejectPaymentHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	paymentID, ok := pr.teamPaymentID(c, user)
	if !ok {
		return
	}

	db := pr.server.GetDB()
	payment, err := db.Payments.Reject(paymentID, user.ID)
	if err != nil {
		pr.writePaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

// teamPaymentID parses the path ID and checks the record belongs to one of
// the manager's team members. Writes the error response itself.
func (pr *PaymentRoutes) teamPaymentID(c *gin.Context, user *models.User) (uuid.UUID, bool) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return uuid.Nil, false
	}

	db := pr.server.GetDB()
	payment, err := db.Payments.Get(paymentID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return uuid.Nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment"})
		return uuid.Nil, false
	}

	member, err := onTeam(pr.server, user.ID, payment.RecipientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify team membership"})
		return uuid.Nil, false
	}
	if !member {
		// Records outside the manager's team look exactly like missing ones.
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return uuid.Nil, false
	}

	return paymentID, true
}

func (pr *PaymentRoutes) writePaymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
	case errors.Is(err, models.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": "Payment is not pending"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment"})
	}
}
