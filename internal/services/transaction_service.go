package services

import (
	"fmt"
	"sort"
	"time"

	"kasir-amanah/internal/models"
	"kasir-amanah/internal/store"
	"kasir-amanah/internal/utils"
)

// TransactionService is the checkout write path - the one operation in
// the system that must touch multiple records atomically.
type TransactionService struct {
	store *store.Store
}

// NewTransactionService creates a transaction recorder backed by the
// given store.
func NewTransactionService(s *store.Store) *TransactionService {
	return &TransactionService{store: s}
}

// CartItem is one line of a sale as submitted by the cashier. Price and
// cost are the amounts agreed at the counter and are snapshotted into
// the receipt.
type CartItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	CostPrice float64 `json:"costPrice"`
}

// Cart is a sale waiting to be committed.
type Cart struct {
	Items         []CartItem `json:"items"`
	TotalAmount   float64    `json:"totalAmount"`
	TotalCost     float64    `json:"totalCost"`
	PaymentMethod string     `json:"paymentMethod"`
	AmountPaid    float64    `json:"amountPaid"`
	Discount      float64    `json:"discount"`
	Notes         string     `json:"notes"`
	ShiftID       string     `json:"shiftId"`
}

// Cashier identifies who is processing the sale.
type Cashier struct {
	ID   string
	Name string
}

// GetAll returns the full ledger, newest first.
func (s *TransactionService) GetAll() ([]models.Transaction, error) {
	transactions, err := store.GetAll[models.Transaction](s.store)
	if err != nil {
		return nil, err
	}
	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].CreatedAt.After(transactions[j].CreatedAt)
	})
	return transactions, nil
}

// Add commits a sale: validate every cart line against live stock,
// decrement each product, then write the transaction record. The whole
// operation runs inside one store transaction - either all stock
// decrements and the receipt land together, or nothing is written.
func (s *TransactionService) Add(cart Cart, cashier Cashier) (*models.Transaction, error) {
	if len(cart.Items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrValidation)
	}
	for _, item := range cart.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
		}
	}

	switch cart.PaymentMethod {
	case models.PaymentCash:
		if cart.AmountPaid < cart.TotalAmount {
			return nil, fmt.Errorf("%w: cash tendered is below the total", ErrInsufficientPayment)
		}
	case models.PaymentCard, models.PaymentQRIS:
	default:
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, cart.PaymentMethod)
	}

	// Lines for the same product are checked against their combined
	// quantity, so a split cart cannot slip past the stock check.
	needed := make(map[string]int)
	for _, item := range cart.Items {
		needed[item.ProductID] += item.Quantity
	}

	now := time.Now()
	record := models.Transaction{
		ID:            utils.NewTransactionID(now),
		TotalAmount:   cart.TotalAmount,
		TotalCost:     cart.TotalCost,
		PaymentMethod: cart.PaymentMethod,
		AmountPaid:    cart.AmountPaid,
		Change:        cart.AmountPaid - cart.TotalAmount,
		Discount:      cart.Discount,
		Notes:         cart.Notes,
		CreatedAt:     now,
		CashierID:     cashier.ID,
		CashierName:   cashier.Name,
		ShiftID:       cart.ShiftID,
	}

	err := s.store.RunInTransaction(func(tx *store.Tx) error {
		// Validate the whole cart against a fresh read before any write.
		loaded := make(map[string]*models.Product, len(needed))
		for _, item := range cart.Items {
			if _, ok := loaded[item.ProductID]; ok {
				continue
			}
			product, err := store.GetByID[models.Product](tx, item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: %s", ErrProductNotFound, item.ProductID)
			}
			if product.Stock < needed[item.ProductID] {
				return fmt.Errorf("%w: %s has %d left, %d requested",
					ErrInsufficientStock, product.Name, product.Stock, needed[item.ProductID])
			}
			loaded[item.ProductID] = product
		}

		// All lines pass: snapshot each line and apply the decrements.
		updated := now
		for _, item := range cart.Items {
			product := loaded[item.ProductID]
			record.Items = append(record.Items, models.TransactionItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    item.Quantity,
				Price:       item.Price,
				CostPrice:   item.CostPrice,
			})
			product.Stock -= item.Quantity
			product.UpdatedAt = &updated
		}
		// One write per product, after every line has been applied.
		written := make(map[string]bool, len(loaded))
		for _, item := range cart.Items {
			if written[item.ProductID] {
				continue
			}
			if err := store.Upsert(tx, loaded[item.ProductID]); err != nil {
				return err
			}
			written[item.ProductID] = true
		}

		// The receipt lands last, once every stock write succeeded.
		return store.Insert(tx, &record)
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}
