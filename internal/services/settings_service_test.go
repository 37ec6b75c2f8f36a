package services

import (
	"encoding/json"
	"errors"
	"testing"

	"kasir-amanah/internal/models"
)

func newSettingsService(t *testing.T) *SettingsService {
	t.Helper()
	s := newTestStore(t)
	return NewSettingsService(s, NewLogService(s))
}

func TestSettingsGetSetRoundTrip(t *testing.T) {
	svc := newSettingsService(t)

	type shopProfile struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	}
	in := shopProfile{Name: "Warung Amanah", Address: "Jl. Merdeka 1"}
	if err := svc.Set("shop_profile", in); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var out shopProfile
	found, err := svc.Get("shop_profile", &out)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found || out != in {
		t.Errorf("Get() = (%v, %+v), want (true, %+v)", found, out, in)
	}

	// Set on an existing key replaces the value.
	in.Address = "Jl. Merdeka 2"
	if err := svc.Set("shop_profile", in); err != nil {
		t.Fatalf("Set() replace error = %v", err)
	}
	found, _ = svc.Get("shop_profile", &out)
	if !found || out.Address != "Jl. Merdeka 2" {
		t.Errorf("Get() after replace = %+v", out)
	}
}

func TestSettingsGetMissingKey(t *testing.T) {
	svc := newSettingsService(t)

	var out string
	found, err := svc.Get("no_such_key", &out)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Get() found = true for a missing key")
	}
}

func TestBackupRestoreRoundTrip(t *testing.T) {
	s := newTestStore(t)
	logs := NewLogService(s)
	svc := NewSettingsService(s, logs)
	products := NewProductService(s)
	transactions := NewTransactionService(s)

	seedProduct(t, s, "P-1", 10, 2000, 1500)
	if _, err := transactions.Add(Cart{
		Items:         []CartItem{{ProductID: "P-1", Quantity: 2, Price: 2000}},
		TotalAmount:   4000,
		PaymentMethod: models.PaymentCard,
	}, Cashier{ID: "U-1", Name: "Ana"}); err != nil {
		t.Fatalf("seed transaction: %v", err)
	}
	if err := svc.Set("theme", "dark"); err != nil {
		t.Fatalf("seed setting: %v", err)
	}

	raw, err := svc.Backup()
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("backup is not a JSON object: %v", err)
	}
	for _, section := range []string{"products", "transactions", "settings", "backupDate"} {
		if _, ok := doc[section]; !ok {
			t.Errorf("backup missing %q section", section)
		}
	}

	// Wipe everything, then restore from the snapshot.
	if err := svc.ResetAll(); err != nil {
		t.Fatalf("ResetAll() error = %v", err)
	}
	if got, _ := products.GetAll(); len(got) != 0 {
		t.Fatalf("products survived reset: %d", len(got))
	}

	if err := svc.Restore(raw); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	restored, err := products.GetByID("P-1")
	if err != nil || restored == nil {
		t.Fatalf("product not restored: %v, %v", restored, err)
	}
	if restored.Stock != 8 {
		t.Errorf("restored stock = %d, want 8", restored.Stock)
	}
	ledger, _ := transactions.GetAll()
	if len(ledger) != 1 {
		t.Errorf("restored ledger size = %d, want 1", len(ledger))
	}
	var theme string
	if found, _ := svc.Get("theme", &theme); !found || theme != "dark" {
		t.Errorf("restored setting = (%v, %q), want (true, dark)", found, theme)
	}
}

func TestRestoreRejectsInvalidDocuments(t *testing.T) {
	s := newTestStore(t)
	svc := NewSettingsService(s, NewLogService(s))
	seedProduct(t, s, "P-1", 5, 2000, 1500)

	cases := []struct {
		name string
		raw  string
	}{
		{"not json", "not json at all"},
		{"empty object", "{}"},
		{"missing settings", `{"products": [], "transactions": []}`},
		{"json array", `[1, 2, 3]`},
	}
	for _, tc := range cases {
		if err := svc.Restore([]byte(tc.raw)); !errors.Is(err, ErrInvalidBackupFormat) {
			t.Errorf("Restore(%s) error = %v, want ErrInvalidBackupFormat", tc.name, err)
		}
	}

	// A rejected document must leave the data untouched.
	product, _ := NewProductService(s).GetByID("P-1")
	if product == nil || product.Stock != 5 {
		t.Errorf("product mutated by rejected restore: %+v", product)
	}
}

func TestRestoreLeavesAbsentCollectionsAlone(t *testing.T) {
	s := newTestStore(t)
	svc := NewSettingsService(s, NewLogService(s))
	staff := NewStaffService(s)

	if _, err := staff.Add(NewStaffInput{Name: "Ana", Role: models.RoleCashier, PIN: "1234"}); err != nil {
		t.Fatalf("seed staff: %v", err)
	}

	// Document carries the required sections but no users section.
	doc := `{"products": [], "transactions": [], "settings": []}`
	if err := svc.Restore([]byte(doc)); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	all, _ := staff.GetAll()
	if len(all) != 1 {
		t.Errorf("staff directory size after restore = %d, want 1", len(all))
	}
}

func TestBackupRecordsLastBackupTime(t *testing.T) {
	svc := newSettingsService(t)

	if _, err := svc.Backup(); err != nil {
		t.Fatalf("Backup() error = %v", err)
	}

	var stamp string
	found, err := svc.Get(models.SettingLastBackupAt, &stamp)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found || stamp == "" {
		t.Errorf("last backup stamp = (%v, %q), want a recorded timestamp", found, stamp)
	}
}

func TestResetAllAuditsTheReset(t *testing.T) {
	s := newTestStore(t)
	logs := NewLogService(s)
	svc := NewSettingsService(s, logs)
	seedProduct(t, s, "P-1", 5, 2000, 1500)

	if err := svc.ResetAll(); err != nil {
		t.Fatalf("ResetAll() error = %v", err)
	}

	entries, err := logs.GetAll()
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Action != "factory_reset" {
		t.Errorf("audit trail after reset = %+v, want one factory_reset entry", entries)
	}
}
