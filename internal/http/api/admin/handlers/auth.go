package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/recoveryfit/corpreport/internal/config"
	"github.com/recoveryfit/corpreport/internal/models"
	"github.com/recoveryfit/corpreport/internal/security"
	"gorm.io/gorm"
)

// AuthHandler issues admin JWTs after password (and optional TOTP)
// verification.
type AuthHandler struct {
	db     *gorm.DB         // Database handle for admin lookups.
	jwtCfg config.JWTConfig // Token signing settings.
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(db *gorm.DB, jwtCfg config.JWTConfig) *AuthHandler {
	return &AuthHandler{db: db, jwtCfg: jwtCfg}
}

// loginRequest captures the password login payload.
type loginRequest struct {
	Username string `json:"username"` // Admin login name.
	Password string `json:"password"` // Plaintext password.
}

// Login verifies credentials. Admins with confirmed TOTP get an
// mfa_required response instead of a token and must call the TOTP login.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	admin, ok := h.verifyPassword(c, body.Username, body.Password)
	if !ok {
		return
	}

	if admin.TOTPConfirmed {
		c.JSON(http.StatusOK, gin.H{"mfa_required": true})
		return
	}

	h.issueToken(c, admin)
}

// loginTOTPRequest captures the TOTP login payload.
type loginTOTPRequest struct {
	Username string `json:"username"` // Admin login name.
	Password string `json:"password"` // Plaintext password.
	Code     string `json:"code"`     // Current TOTP code.
}

// LoginTOTP verifies credentials plus a TOTP code and issues a token.
func (h *AuthHandler) LoginTOTP(c *gin.Context) {
	var body loginTOTPRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	admin, ok := h.verifyPassword(c, body.Username, body.Password)
	if !ok {
		return
	}
	if !admin.TOTPConfirmed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "totp not enabled"})
		return
	}
	if !security.ValidateTOTP(admin.TOTPSecret, strings.TrimSpace(body.Code)) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid code"})
		return
	}

	h.issueToken(c, admin)
}

// verifyPassword loads the admin and checks the password. On failure it
// writes the response and returns ok=false.
func (h *AuthHandler) verifyPassword(c *gin.Context, username, password string) (*models.Admin, bool) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return nil, false
	}

	var admin models.Admin
	if errFind := h.db.WithContext(c.Request.Context()).Where("username = ?", username).First(&admin).Error; errFind != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return nil, false
	}
	if !admin.Active {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin disabled"})
		return nil, false
	}
	if !security.VerifyPassword(admin.Password, password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return nil, false
	}
	return &admin, true
}

func (h *AuthHandler) issueToken(c *gin.Context, admin *models.Admin) {
	token, errToken := security.IssueAdminToken(h.jwtCfg.Secret, admin.ID, admin.Username, h.jwtCfg.Expiry)
	if errToken != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "issue token failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":          token,
		"admin_id":       admin.ID,
		"username":       admin.Username,
		"is_super_admin": admin.IsSuperAdmin,
	})
}
