package handlers

import (
	"errors"
	"net/http"

	"kasir-amanah/internal/services"
	"kasir-amanah/internal/store"

	"github.com/gin-gonic/gin"
)

// respondError maps the domain error taxonomy to HTTP statuses.
// Validation, duplicate and stock errors are inline form errors for the
// UI; storage failures mean the whole application is unusable.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrInsufficientPayment),
		errors.Is(err, services.ErrInvalidBackupFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrDuplicateCredential),
		errors.Is(err, store.ErrDuplicateKey):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrLastAdminProtected):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
