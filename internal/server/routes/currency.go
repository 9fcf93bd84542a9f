package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sitepay/internal/currency"
)

type CurrencyRoutes struct {
	server ServerInterface
}

func NewCurrencyRoutes(server ServerInterface) *CurrencyRoutes {
	return &CurrencyRoutes{server: server}
}

func (cr *CurrencyRoutes) RegisterRoutes(r *gin.Engine) {
	r.GET("/currency/convert", cr.convertHandler)
}

// convertHandler converts between NGN and USD at the fixed project rate.
func (cr *CurrencyRoutes) convertHandler(c *gin.Context) {
	amount, err := strconv.ParseFloat(c.Query("amount"), 64)
	if err != nil || amount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
		return
	}

	var pair currency.Pair
	switch c.Query("from") {
	case "NGN", "ngn", "":
		pair = currency.FromNgn(amount)
	case "USD", "usd":
		pair = currency.FromUsd(amount)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Currency must be NGN or USD"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ngn":  pair.NGN,
		"usd":  pair.USD,
		"rate": currency.USDToNGNRate,
	})
}
