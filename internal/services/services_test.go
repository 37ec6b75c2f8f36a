package services

import (
	"path/filepath"
	"testing"
	"time"

	"kasir-amanah/internal/models"
	"kasir-amanah/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err := s.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedProduct(t *testing.T, s *store.Store, id string, stock int, priceSell, priceBuy float64) models.Product {
	t.Helper()
	p := models.Product{
		ID:        id,
		Name:      "Product " + id,
		PriceBuy:  priceBuy,
		PriceSell: priceSell,
		Stock:     stock,
		CreatedAt: time.Now(),
	}
	if err := store.Insert(s, &p); err != nil {
		t.Fatalf("seed product %s: %v", id, err)
	}
	return p
}
