package handlers

import (
	"net/http"

	"kasir-amanah/internal/models"
	"kasir-amanah/internal/services"

	"github.com/gin-gonic/gin"
)

// TransactionHandler exposes the checkout path and the sales ledger.
type TransactionHandler struct {
	transactions *services.TransactionService
}

// NewTransactionHandler wires the handler to its service.
func NewTransactionHandler(transactions *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

// Checkout commits a sale for the logged-in cashier and returns the
// receipt. Guests are read-only and cannot sell.
func (h *TransactionHandler) Checkout(c *gin.Context) {
	if c.GetString("role") == models.RoleGuest {
		c.JSON(http.StatusForbidden, gin.H{"error": "Guest sessions are read-only"})
		return
	}

	var cart services.Cart
	if err := c.ShouldBindJSON(&cart); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	cashier := services.Cashier{
		ID:   c.GetString("userID"),
		Name: c.GetString("userName"),
	}

	transaction, err := h.transactions.Add(cart, cashier)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}

// GetTransactions lists the ledger, newest first.
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	transactions, err := h.transactions.GetAll()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transactions)
}
