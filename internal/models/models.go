package models

import (
	"encoding/json"
	"time"
)

// Roles a staff member can hold. Guests are synthetic read-only
// sessions and are never written to the users collection.
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
	RoleGuest   = "guest"
)

// GuestUserID identifies the synthetic guest session.
const GuestUserID = "GUEST_SESSION"

// EmergencyUserID identifies a session opened through the emergency
// recovery code instead of normal credentials.
const EmergencyUserID = "EMERGENCY_SESSION"

// Accepted payment methods.
const (
	PaymentCash = "cash"
	PaymentCard = "card"
	PaymentQRIS = "qris"
)

// Well-known setting keys.
const (
	SettingAdminCodeHash = "admin_code_hash"
	SettingLastBackupAt  = "last_backup_at"
)

// Audit log entry types.
const (
	LogTypeAdminAccess = "admin_access"
	LogTypeSystem      = "system"
)

// Product - a sellable item. Stock must never go negative after a
// committed write; the services enforce this before touching the store.
type Product struct {
	ID        string     `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"index" json:"name"`
	Category  string     `json:"category,omitempty"`
	PriceBuy  float64    `json:"priceBuy"`
	PriceSell float64    `json:"priceSell"`
	Stock     int        `json:"stock"`
	Unit      string     `json:"unit,omitempty"` // pcs, kg, liter
	CreatedAt time.Time  `gorm:"autoCreateTime:false" json:"createdAt"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updatedAt,omitempty"`
}

// User - a staff member. Credentials depend on the role: cashiers carry
// a 4-digit PIN, admins an email plus salted password hash. A plaintext
// password is never stored.
type User struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"` // 'admin' or 'cashier'
	CreatedAt time.Time `gorm:"autoCreateTime:false" json:"createdAt"`

	PIN string `gorm:"column:pin" json:"pin,omitempty"`

	Email        *string `gorm:"uniqueIndex" json:"email,omitempty"`
	PasswordHash string  `json:"passwordHash,omitempty"`
	Salt         string  `json:"salt,omitempty"`
}

// TransactionItem is a snapshot of the product at sale time, so later
// product edits never alter historical receipts.
type TransactionItem struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	CostPrice   float64 `json:"costPrice"`
}

// Transaction - one completed sale. The ledger is append-only: records
// are never updated or deleted outside a full restore or reset.
type Transaction struct {
	ID            string            `gorm:"primaryKey" json:"id"` // receipt number
	Items         []TransactionItem `gorm:"serializer:json" json:"items"`
	TotalAmount   float64           `json:"totalAmount"`
	TotalCost     float64           `json:"totalCost"`
	PaymentMethod string            `json:"paymentMethod"` // 'cash', 'card', 'qris'
	AmountPaid    float64           `json:"amountPaid"`
	Change        float64           `json:"change"`
	Discount      float64           `json:"discount,omitempty"`
	Notes         string            `json:"notes,omitempty"`
	CreatedAt     time.Time         `gorm:"index;autoCreateTime:false" json:"createdAt"`
	CashierID     string            `json:"cashierId"`
	CashierName   string            `json:"cashierName"`
	ShiftID       string            `json:"shiftId,omitempty"`
}

// Setting - one named configuration value. The value is kept as raw
// JSON so arbitrary shapes round-trip through backups untouched.
type Setting struct {
	Key   string          `gorm:"primaryKey" json:"key"`
	Value json.RawMessage `json:"value"`
}

// Report - a persisted summary snapshot over a period of the
// transaction ledger.
type Report struct {
	ID               string    `gorm:"primaryKey" json:"id"`
	Period           string    `json:"period"`
	StartDate        time.Time `json:"startDate"`
	EndDate          time.Time `json:"endDate"`
	Revenue          float64   `json:"revenue"`
	Profit           float64   `json:"profit"`
	TransactionCount int       `json:"transactionCount"`
	ItemsSoldCount   int       `json:"itemsSoldCount"`
	CreatedAt        time.Time `gorm:"autoCreateTime:false" json:"createdAt"`
}

// LogEntry - an append-only audit record written by privileged
// operations (backups, resets, emergency access).
type LogEntry struct {
	ID        string          `gorm:"primaryKey" json:"id"`
	Timestamp time.Time       `gorm:"index" json:"timestamp"`
	Type      string          `json:"type"` // 'admin_access', 'system'
	Action    string          `json:"action"`
	Details   json.RawMessage `json:"details,omitempty"`
}
