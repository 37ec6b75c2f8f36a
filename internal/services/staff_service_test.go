package services

import (
	"errors"
	"strings"
	"testing"

	"kasir-amanah/internal/models"
)

func TestStaffAddCashier(t *testing.T) {
	svc := NewStaffService(newTestStore(t))

	user, err := svc.Add(NewStaffInput{Name: "Ana", Role: models.RoleCashier, PIN: "1234"})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if user.PIN != "1234" || user.Email != nil || user.PasswordHash != "" {
		t.Errorf("cashier got wrong credential scheme: %+v", user)
	}
}

func TestStaffPinFormat(t *testing.T) {
	svc := NewStaffService(newTestStore(t))

	for _, pin := range []string{"", "12", "12345", "12a4", "    "} {
		if _, err := svc.Add(NewStaffInput{Name: "Ana", Role: models.RoleCashier, PIN: pin}); !errors.Is(err, ErrValidation) {
			t.Errorf("Add(pin=%q) error = %v, want ErrValidation", pin, err)
		}
	}
}

func TestStaffPinUniqueness(t *testing.T) {
	svc := NewStaffService(newTestStore(t))

	if _, err := svc.Add(NewStaffInput{Name: "A", Role: models.RoleCashier, PIN: "1234"}); err != nil {
		t.Fatalf("first Add() error = %v", err)
	}
	if _, err := svc.Add(NewStaffInput{Name: "B", Role: models.RoleCashier, PIN: "1234"}); !errors.Is(err, ErrDuplicateCredential) {
		t.Fatalf("second Add() error = %v, want ErrDuplicateCredential", err)
	}

	all, _ := svc.GetAll()
	if len(all) != 1 {
		t.Errorf("directory size = %d, want 1 (unchanged by rejected add)", len(all))
	}
}

func TestStaffAddAdminNeverStoresPlaintext(t *testing.T) {
	svc := NewStaffService(newTestStore(t))

	password := "s3cret-password"
	user, err := svc.Add(NewStaffInput{Name: "Owner", Role: models.RoleAdmin, Email: "Owner@Example.com", Password: password})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if user.Email == nil || *user.Email != "owner@example.com" {
		t.Errorf("email = %v, want lowercased owner@example.com", user.Email)
	}
	if user.Salt == "" || user.PasswordHash == "" {
		t.Errorf("admin credential not populated: %+v", user)
	}
	if strings.Contains(user.PasswordHash, password) {
		t.Error("password hash contains the plaintext password")
	}

	// The stored record must not contain it either.
	all, _ := svc.GetAll()
	for _, u := range all {
		if u.PasswordHash == password || strings.Contains(u.PasswordHash, password) {
			t.Error("plaintext password persisted in directory")
		}
	}
}

func TestStaffAdminEmailUniqueCaseInsensitive(t *testing.T) {
	svc := NewStaffService(newTestStore(t))

	if _, err := svc.Add(NewStaffInput{Name: "A", Role: models.RoleAdmin, Email: "owner@example.com", Password: "pw1"}); err != nil {
		t.Fatalf("first Add() error = %v", err)
	}
	if _, err := svc.Add(NewStaffInput{Name: "B", Role: models.RoleAdmin, Email: "OWNER@EXAMPLE.COM", Password: "pw2"}); !errors.Is(err, ErrDuplicateCredential) {
		t.Fatalf("second Add() error = %v, want ErrDuplicateCredential", err)
	}
}

func TestStaffAddRejectsUnknownRole(t *testing.T) {
	svc := NewStaffService(newTestStore(t))

	// Guests are synthetic sessions, never directory entries.
	if _, err := svc.Add(NewStaffInput{Name: "G", Role: models.RoleGuest}); !errors.Is(err, ErrValidation) {
		t.Errorf("Add(guest) error = %v, want ErrValidation", err)
	}
	if _, err := svc.Add(NewStaffInput{Name: "X", Role: "manager", PIN: "1234"}); !errors.Is(err, ErrValidation) {
		t.Errorf("Add(manager) error = %v, want ErrValidation", err)
	}
}

func TestLoginWithPin(t *testing.T) {
	svc := NewStaffService(newTestStore(t))

	added, err := svc.Add(NewStaffInput{Name: "Ana", Role: models.RoleCashier, PIN: "4321"})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	user, err := svc.LoginWithPin("4321")
	if err != nil {
		t.Fatalf("LoginWithPin() error = %v", err)
	}
	if user == nil || user.ID != added.ID {
		t.Errorf("LoginWithPin() = %+v, want %s", user, added.ID)
	}

	// A wrong or malformed PIN is "no match", never an error.
	for _, pin := range []string{"0000", "999", "abcd"} {
		user, err := svc.LoginWithPin(pin)
		if err != nil {
			t.Errorf("LoginWithPin(%q) error = %v, want nil", pin, err)
		}
		if user != nil {
			t.Errorf("LoginWithPin(%q) = %+v, want nil", pin, user)
		}
	}
}

func TestVerifyAdminCredentials(t *testing.T) {
	svc := NewStaffService(newTestStore(t))

	added, err := svc.Add(NewStaffInput{Name: "Owner", Role: models.RoleAdmin, Email: "owner@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	user, err := svc.VerifyAdminCredentials("Owner@Example.COM", "correct-horse")
	if err != nil {
		t.Fatalf("VerifyAdminCredentials() error = %v", err)
	}
	if user == nil || user.ID != added.ID {
		t.Errorf("VerifyAdminCredentials() = %+v, want %s", user, added.ID)
	}

	wrong, err := svc.VerifyAdminCredentials("owner@example.com", "wrong-password")
	if err != nil {
		t.Fatalf("VerifyAdminCredentials(wrong) error = %v", err)
	}
	if wrong != nil {
		t.Errorf("VerifyAdminCredentials(wrong) = %+v, want nil", wrong)
	}

	unknown, err := svc.VerifyAdminCredentials("nobody@example.com", "whatever")
	if err != nil {
		t.Fatalf("VerifyAdminCredentials(unknown) error = %v", err)
	}
	if unknown != nil {
		t.Errorf("VerifyAdminCredentials(unknown) = %+v, want nil", unknown)
	}
}

func TestDeleteLastAdminProtected(t *testing.T) {
	svc := NewStaffService(newTestStore(t))

	admin, err := svc.Add(NewStaffInput{Name: "Owner", Role: models.RoleAdmin, Email: "owner@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	cashier, err := svc.Add(NewStaffInput{Name: "Ana", Role: models.RoleCashier, PIN: "1234"})
	if err != nil {
		t.Fatalf("Add(cashier) error = %v", err)
	}

	if err := svc.Delete(admin.ID); !errors.Is(err, ErrLastAdminProtected) {
		t.Fatalf("Delete(last admin) error = %v, want ErrLastAdminProtected", err)
	}
	if err := svc.Delete(cashier.ID); err != nil {
		t.Fatalf("Delete(cashier) error = %v", err)
	}

	// With a second admin present the first becomes deletable.
	second, err := svc.Add(NewStaffInput{Name: "Backup", Role: models.RoleAdmin, Email: "backup@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Add(second admin) error = %v", err)
	}
	if err := svc.Delete(admin.ID); err != nil {
		t.Fatalf("Delete(first admin) error = %v", err)
	}
	if err := svc.Delete(second.ID); !errors.Is(err, ErrLastAdminProtected) {
		t.Errorf("Delete(remaining admin) error = %v, want ErrLastAdminProtected", err)
	}
}

func TestEmergencyCode(t *testing.T) {
	svc := NewStaffService(newTestStore(t))

	// No hash seeded yet: every code is rejected.
	ok, err := svc.VerifyEmergencyCode("letmein")
	if err != nil {
		t.Fatalf("VerifyEmergencyCode() error = %v", err)
	}
	if ok {
		t.Error("VerifyEmergencyCode() = true with no hash stored")
	}

	if err := svc.SeedEmergencyCode("letmein"); err != nil {
		t.Fatalf("SeedEmergencyCode() error = %v", err)
	}

	ok, err = svc.VerifyEmergencyCode("  letmein  ")
	if err != nil {
		t.Fatalf("VerifyEmergencyCode() error = %v", err)
	}
	if !ok {
		t.Error("VerifyEmergencyCode(correct) = false, want true")
	}

	ok, _ = svc.VerifyEmergencyCode("wrong")
	if ok {
		t.Error("VerifyEmergencyCode(wrong) = true, want false")
	}

	// Seeding again must not overwrite the existing hash.
	if err := svc.SeedEmergencyCode("other"); err != nil {
		t.Fatalf("second SeedEmergencyCode() error = %v", err)
	}
	if ok, _ := svc.VerifyEmergencyCode("other"); ok {
		t.Error("second seed overwrote the stored hash")
	}
}

func TestHasAdmin(t *testing.T) {
	svc := NewStaffService(newTestStore(t))

	has, err := svc.HasAdmin()
	if err != nil {
		t.Fatalf("HasAdmin() error = %v", err)
	}
	if has {
		t.Error("HasAdmin() = true on empty directory")
	}

	if _, err := svc.Add(NewStaffInput{Name: "Owner", Role: models.RoleAdmin, Email: "owner@example.com", Password: "pw"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	has, _ = svc.HasAdmin()
	if !has {
		t.Error("HasAdmin() = false after adding an admin")
	}
}
