package handlers

import (
	"net/http"

	"kasir-amanah/internal/models"
	"kasir-amanah/internal/services"

	"github.com/gin-gonic/gin"
)

// ProductHandler exposes the product ledger to the UI.
type ProductHandler struct {
	products *services.ProductService
}

// NewProductHandler wires the handler to its service.
func NewProductHandler(products *services.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// GetProducts lists every product.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	products, err := h.products.GetAll()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct returns one product by ID.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.products.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

// AddProduct creates a new product.
func (h *ProductHandler) AddProduct(c *gin.Context) {
	var input services.NewProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	product, err := h.products.Add(input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct replaces a product. The ID comes from the URL, not the
// body, so a record can never be renamed onto another key.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	product.ID = c.Param("id")

	existing, err := h.products.GetByID(product.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	product.CreatedAt = existing.CreatedAt

	updated, err := h.products.Update(product)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteProduct removes a product.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.products.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// ImportProducts bulk-loads products, best effort. The response reports
// how many records were inserted and which ones were skipped.
func (h *ProductHandler) ImportProducts(c *gin.Context) {
	var products []models.Product
	if err := c.ShouldBindJSON(&products); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	result, err := h.products.ImportBulk(products)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
