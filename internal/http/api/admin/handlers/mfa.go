package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/recoveryfit/corpreport/internal/models"
	"github.com/recoveryfit/corpreport/internal/security"
	"gorm.io/gorm"
)

// MFAHandler manages TOTP enrollment for the authenticated admin.
type MFAHandler struct {
	db *gorm.DB // Database handle for admin rows.
}

// NewMFAHandler constructs an MFA handler.
func NewMFAHandler(db *gorm.DB) *MFAHandler {
	return &MFAHandler{db: db}
}

// Status reports whether TOTP is enabled for the current admin.
func (h *MFAHandler) Status(c *gin.Context) {
	admin, ok := h.currentAdmin(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"totp_enabled": admin.TOTPConfirmed,
		"totp_pending": admin.TOTPSecret != "" && !admin.TOTPConfirmed,
	})
}

// PrepareTOTP generates a fresh secret and stores it unconfirmed. The
// admin must confirm with a valid code before login enforces TOTP.
func (h *MFAHandler) PrepareTOTP(c *gin.Context) {
	admin, ok := h.currentAdmin(c)
	if !ok {
		return
	}
	if admin.TOTPConfirmed {
		c.JSON(http.StatusConflict, gin.H{"error": "totp already enabled"})
		return
	}

	secret, url, errGenerate := security.GenerateTOTPSecret(admin.Username)
	if errGenerate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "generate secret failed"})
		return
	}

	updates := map[string]any{"totp_secret": secret, "totp_confirmed": false}
	if errSave := h.db.WithContext(c.Request.Context()).Model(admin).Updates(updates).Error; errSave != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store secret failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"secret": secret, "otpauth_url": url})
}

// confirmTOTPRequest captures the enrollment confirmation payload.
type confirmTOTPRequest struct {
	Code string `json:"code"` // Current TOTP code.
}

// ConfirmTOTP validates a code against the pending secret and turns
// enforcement on.
func (h *MFAHandler) ConfirmTOTP(c *gin.Context) {
	admin, ok := h.currentAdmin(c)
	if !ok {
		return
	}
	if admin.TOTPSecret == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no pending secret"})
		return
	}
	if admin.TOTPConfirmed {
		c.JSON(http.StatusConflict, gin.H{"error": "totp already enabled"})
		return
	}

	var body confirmTOTPRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if !security.ValidateTOTP(admin.TOTPSecret, strings.TrimSpace(body.Code)) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid code"})
		return
	}

	if errSave := h.db.WithContext(c.Request.Context()).Model(admin).Update("totp_confirmed", true).Error; errSave != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "enable totp failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DisableTOTP clears the secret and turns enforcement off.
func (h *MFAHandler) DisableTOTP(c *gin.Context) {
	admin, ok := h.currentAdmin(c)
	if !ok {
		return
	}

	updates := map[string]any{"totp_secret": "", "totp_confirmed": false}
	if errSave := h.db.WithContext(c.Request.Context()).Model(admin).Updates(updates).Error; errSave != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "disable totp failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// currentAdmin loads the admin row for the authenticated request. On
// failure it writes the response and returns ok=false.
func (h *MFAHandler) currentAdmin(c *gin.Context) (*models.Admin, bool) {
	adminID := c.GetUint64("adminID")
	if adminID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return nil, false
	}

	var admin models.Admin
	if errFind := h.db.WithContext(c.Request.Context()).First(&admin, adminID).Error; errFind != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "admin not found"})
		return nil, false
	}
	return &admin, true
}
