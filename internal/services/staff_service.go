package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"kasir-amanah/internal/models"
	"kasir-amanah/internal/store"
	"kasir-amanah/internal/utils"
)

var pinPattern = regexp.MustCompile(`^\d{4}$`)

// StaffService owns the staff directory: CRUD over users plus the
// offline login lookups.
type StaffService struct {
	store *store.Store
}

// NewStaffService creates a staff service backed by the given store.
func NewStaffService(s *store.Store) *StaffService {
	return &StaffService{store: s}
}

// NewStaffInput is the caller-supplied data for a new staff member.
// Role decides which credential fields are required.
type NewStaffInput struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	PIN      string `json:"pin"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GetAll returns every staff member.
func (s *StaffService) GetAll() ([]models.User, error) {
	return store.GetAll[models.User](s.store)
}

// Add validates credentials and stores a new staff member. Admins need
// a unique email plus a password (stored salted and hashed, never in
// plaintext); cashiers need a unique 4-digit PIN.
func (s *StaffService) Add(input NewStaffInput) (*models.User, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: staff name must not be empty", ErrValidation)
	}

	user := models.User{
		ID:        utils.NewUserID(),
		Name:      strings.TrimSpace(input.Name),
		Role:      input.Role,
		CreatedAt: time.Now(),
	}

	switch input.Role {
	case models.RoleAdmin:
		if input.Email == "" || input.Password == "" {
			return nil, fmt.Errorf("%w: email and password are required for admins", ErrValidation)
		}
		email := strings.ToLower(strings.TrimSpace(input.Email))
		existing, err := store.GetByField[models.User](s.store, "email", email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: email %s is already registered", ErrDuplicateCredential, email)
		}
		salt, err := utils.GenerateSalt()
		if err != nil {
			return nil, err
		}
		user.Email = &email
		user.Salt = salt
		user.PasswordHash = utils.PasswordHash(email, input.Password, salt)

	case models.RoleCashier:
		if !pinPattern.MatchString(input.PIN) {
			return nil, fmt.Errorf("%w: PIN must be exactly 4 digits", ErrValidation)
		}
		all, err := s.GetAll()
		if err != nil {
			return nil, err
		}
		for _, u := range all {
			if u.PIN == input.PIN {
				return nil, fmt.Errorf("%w: PIN is already in use by another staff member", ErrDuplicateCredential)
			}
		}
		user.PIN = input.PIN

	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, input.Role)
	}

	if err := store.Insert(s.store, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes a staff member. Deleting the last remaining admin is
// rejected so the directory can never lock everyone out.
func (s *StaffService) Delete(id string) error {
	user, err := store.GetByID[models.User](s.store, id)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	if user.Role == models.RoleAdmin {
		all, err := s.GetAll()
		if err != nil {
			return err
		}
		admins := 0
		for _, u := range all {
			if u.Role == models.RoleAdmin {
				admins++
			}
		}
		if admins <= 1 {
			return ErrLastAdminProtected
		}
	}

	return store.DeleteByID[models.User](s.store, id)
}

// HasAdmin reports whether at least one admin exists. Used to decide
// whether first-run registration is still open.
func (s *StaffService) HasAdmin() (bool, error) {
	all, err := s.GetAll()
	if err != nil {
		return false, err
	}
	for _, u := range all {
		if u.Role == models.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

// LoginWithPin returns the cashier whose PIN matches, or nil when no
// cashier matches. A wrong PIN is an expected outcome, not an error.
func (s *StaffService) LoginWithPin(pin string) (*models.User, error) {
	if !pinPattern.MatchString(pin) {
		return nil, nil
	}
	all, err := s.GetAll()
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Role == models.RoleCashier && all[i].PIN == pin {
			return &all[i], nil
		}
	}
	return nil, nil
}

// VerifyAdminCredentials looks the admin up by email, recomputes the
// salted hash and compares in constant time. Returns the user on match,
// nil otherwise.
func (s *StaffService) VerifyAdminCredentials(email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, nil
	}
	lowered := strings.ToLower(strings.TrimSpace(email))
	admin, err := store.GetByField[models.User](s.store, "email", lowered)
	if err != nil {
		return nil, err
	}
	if admin == nil || admin.Role != models.RoleAdmin || admin.Salt == "" || admin.PasswordHash == "" {
		return nil, nil
	}

	hash := utils.PasswordHash(lowered, password, admin.Salt)
	if !utils.SecureCompare(hash, admin.PasswordHash) {
		return nil, nil
	}
	return admin, nil
}

// VerifyEmergencyCode checks the out-of-band recovery code against the
// stored admin_code_hash setting.
func (s *StaffService) VerifyEmergencyCode(code string) (bool, error) {
	setting, err := store.GetByID[models.Setting](s.store, models.SettingAdminCodeHash)
	if err != nil {
		return false, err
	}
	if setting == nil {
		return false, nil
	}

	var storedHash string
	if err := json.Unmarshal(setting.Value, &storedHash); err != nil {
		return false, nil
	}
	return utils.SecureCompare(utils.Sha256Hex(strings.TrimSpace(code)), storedHash), nil
}

// SeedEmergencyCode stores the recovery code hash on first run. An
// existing hash is never overwritten.
func (s *StaffService) SeedEmergencyCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return nil
	}
	existing, err := store.GetByID[models.Setting](s.store, models.SettingAdminCodeHash)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	value, err := json.Marshal(utils.Sha256Hex(strings.TrimSpace(code)))
	if err != nil {
		return err
	}
	return store.Upsert(s.store, &models.Setting{Key: models.SettingAdminCodeHash, Value: value})
}
