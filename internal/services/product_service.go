package services

import (
	"fmt"
	"strings"
	"time"

	"kasir-amanah/internal/models"
	"kasir-amanah/internal/store"
	"kasir-amanah/internal/utils"
)

// ProductService owns CRUD and validation for the products collection.
type ProductService struct {
	store *store.Store
}

// NewProductService creates a product service backed by the given store.
func NewProductService(s *store.Store) *ProductService {
	return &ProductService{store: s}
}

// NewProductInput is the caller-supplied part of a new product.
type NewProductInput struct {
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	PriceBuy  float64 `json:"priceBuy"`
	PriceSell float64 `json:"priceSell"`
	Stock     int     `json:"stock"`
	Unit      string  `json:"unit"`
}

func validateProduct(name string, priceBuy, priceSell float64, stock int) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: product name must not be empty", ErrValidation)
	}
	if priceSell < 0 {
		return fmt.Errorf("%w: sell price must not be negative", ErrValidation)
	}
	if priceBuy < 0 {
		return fmt.Errorf("%w: buy price must not be negative", ErrValidation)
	}
	if stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", ErrValidation)
	}
	return nil
}

// GetAll returns every product. Order is unspecified.
func (s *ProductService) GetAll() ([]models.Product, error) {
	return store.GetAll[models.Product](s.store)
}

// GetByID returns the product, or nil when it does not exist.
func (s *ProductService) GetByID(id string) (*models.Product, error) {
	return store.GetByID[models.Product](s.store, id)
}

// Add validates and stores a new product.
func (s *ProductService) Add(input NewProductInput) (*models.Product, error) {
	if err := validateProduct(input.Name, input.PriceBuy, input.PriceSell, input.Stock); err != nil {
		return nil, err
	}

	now := time.Now()
	product := models.Product{
		ID:        utils.NewProductID(),
		Name:      strings.TrimSpace(input.Name),
		Category:  input.Category,
		PriceBuy:  input.PriceBuy,
		PriceSell: input.PriceSell,
		Stock:     input.Stock,
		Unit:      input.Unit,
		CreatedAt: now,
		UpdatedAt: &now,
	}

	if err := store.Insert(s.store, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Update re-validates the product, refreshes updatedAt and replaces the
// stored record.
func (s *ProductService) Update(product models.Product) (*models.Product, error) {
	if err := validateProduct(product.Name, product.PriceBuy, product.PriceSell, product.Stock); err != nil {
		return nil, err
	}

	now := time.Now()
	product.UpdatedAt = &now
	if err := store.Upsert(s.store, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Delete removes a product by ID.
func (s *ProductService) Delete(id string) error {
	return store.DeleteByID[models.Product](s.store, id)
}

// ImportResult reports the outcome of a best-effort bulk import.
type ImportResult struct {
	Inserted int      `json:"inserted"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// ImportBulk inserts each product, assigning missing IDs and creation
// timestamps. One bad record does not stop the batch: failures are
// collected into the result and the rest continue. Used for seeding and
// demo data.
func (s *ProductService) ImportBulk(products []models.Product) (*ImportResult, error) {
	result := &ImportResult{}
	for i := range products {
		p := products[i]
		if p.ID == "" {
			p.ID = utils.NewProductID()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = time.Now()
		}
		if err := validateProduct(p.Name, p.PriceBuy, p.PriceSell, p.Stock); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", p.ID, err))
			continue
		}
		if err := store.Insert(s.store, &p); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", p.ID, err))
			continue
		}
		result.Inserted++
	}
	return result, nil
}
