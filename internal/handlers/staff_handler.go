package handlers

import (
	"net/http"

	"kasir-amanah/internal/auth"
	"kasir-amanah/internal/models"
	"kasir-amanah/internal/services"

	"github.com/gin-gonic/gin"
)

// StaffHandler exposes staff management and every login path: cashier
// PIN, admin email+password, the emergency recovery code and the
// read-only guest session.
type StaffHandler struct {
	staff  *services.StaffService
	logs   *services.LogService
	tokens *auth.TokenManager
}

// NewStaffHandler wires the handler to its services.
func NewStaffHandler(staff *services.StaffService, logs *services.LogService, tokens *auth.TokenManager) *StaffHandler {
	return &StaffHandler{staff: staff, logs: logs, tokens: tokens}
}

type pinLoginRequest struct {
	PIN string `json:"pin" binding:"required"`
}

type adminLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type emergencyLoginRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h *StaffHandler) session(c *gin.Context, userID, name, role string) {
	token, err := h.tokens.GenerateToken(userID, name, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"userId": userID,
		"name":   name,
		"role":   role,
	})
}

// LoginPIN opens a cashier session. A wrong PIN is a 401, never a 500.
func (h *StaffHandler) LoginPIN(c *gin.Context) {
	var input pinLoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, err := h.staff.LoginWithPin(input.PIN)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid PIN"})
		return
	}

	h.session(c, user.ID, user.Name, user.Role)
}

// LoginAdmin opens an admin session from email + password.
func (h *StaffHandler) LoginAdmin(c *gin.Context) {
	var input adminLoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, err := h.staff.VerifyAdminCredentials(input.Email, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	_ = h.logs.Append(models.LogTypeAdminAccess, "admin_login", map[string]any{"userId": user.ID})
	h.session(c, user.ID, user.Name, user.Role)
}

// LoginEmergency opens a recovery session from the out-of-band code.
// Every attempt, successful or not, lands in the audit trail.
func (h *StaffHandler) LoginEmergency(c *gin.Context) {
	var input emergencyLoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	ok, err := h.staff.VerifyEmergencyCode(input.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	_ = h.logs.Append(models.LogTypeAdminAccess, "emergency_access_attempt", map[string]any{"granted": ok})
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid emergency code"})
		return
	}

	h.session(c, models.EmergencyUserID, "Emergency Admin", models.RoleAdmin)
}

// LoginGuest opens a read-only demo session. Guests are synthetic and
// never stored in the staff directory.
func (h *StaffHandler) LoginGuest(c *gin.Context) {
	h.session(c, models.GuestUserID, "Guest", models.RoleGuest)
}

// Register creates the first admin account. The route is only open
// while the directory has no admin yet; after that, staff management
// goes through the admin-only API.
func (h *StaffHandler) Register(c *gin.Context) {
	hasAdmin, err := h.staff.HasAdmin()
	if err != nil {
		respondError(c, err)
		return
	}
	if hasAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Registration is closed"})
		return
	}

	var input services.NewStaffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	input.Role = models.RoleAdmin

	user, err := h.staff.Add(input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// GetStaff lists the whole directory.
func (h *StaffHandler) GetStaff(c *gin.Context) {
	users, err := h.staff.GetAll()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// AddStaff creates a staff member (admin or cashier).
func (h *StaffHandler) AddStaff(c *gin.Context) {
	var input services.NewStaffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, err := h.staff.Add(input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// DeleteStaff removes a staff member; the last admin is protected.
func (h *StaffHandler) DeleteStaff(c *gin.Context) {
	if err := h.staff.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Staff member deleted"})
}
