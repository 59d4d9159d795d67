package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/recoveryfit/corpreport/internal/http/api/admin/permissions"
	"github.com/recoveryfit/corpreport/internal/models"
	"github.com/recoveryfit/corpreport/internal/security"
	"gorm.io/gorm"
)

// AdminHandler manages administrator accounts.
type AdminHandler struct {
	db *gorm.DB // Database handle for admin rows.
}

// NewAdminHandler constructs an admin handler.
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// createAdminRequest captures the payload for creating an administrator.
type createAdminRequest struct {
	Username     string   `json:"username"`       // Unique login name.
	Password     string   `json:"password"`       // Plaintext password.
	Permissions  []string `json:"permissions"`    // Granted permission keys.
	IsSuperAdmin bool     `json:"is_super_admin"` // Bypasses permission checks.
}

// Create validates and inserts an administrator.
func (h *AdminHandler) Create(c *gin.Context) {
	var body createAdminRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	username := strings.TrimSpace(body.Username)
	if username == "" || body.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}
	if errValidate := permissions.ValidatePermissions(body.Permissions); errValidate != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errValidate.Error()})
		return
	}

	var existing models.Admin
	if errFind := h.db.WithContext(c.Request.Context()).Where("username = ?", username).First(&existing).Error; errFind == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
		return
	}

	hashed, errHash := security.HashPassword(body.Password)
	if errHash != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "hash password failed"})
		return
	}
	permsJSON, errMarshal := permissions.MarshalPermissions(body.Permissions)
	if errMarshal != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "encode permissions failed"})
		return
	}

	admin := models.Admin{
		Username:     username,
		Password:     hashed,
		Permissions:  permsJSON,
		IsSuperAdmin: body.IsSuperAdmin,
		Active:       true,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&admin).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create admin failed"})
		return
	}
	c.JSON(http.StatusCreated, h.formatAdmin(&admin))
}

// List returns all administrators sorted by username.
func (h *AdminHandler) List(c *gin.Context) {
	var rows []models.Admin
	if errFind := h.db.WithContext(c.Request.Context()).Order("username ASC").Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list admins failed"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		out = append(out, h.formatAdmin(&rows[i]))
	}
	c.JSON(http.StatusOK, gin.H{"admins": out})
}

// Get returns an administrator by ID.
func (h *AdminHandler) Get(c *gin.Context) {
	admin, ok := h.findByParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.formatAdmin(admin))
}

// updateAdminRequest captures the payload for updating an administrator.
type updateAdminRequest struct {
	Permissions  *[]string `json:"permissions"`    // New permission keys, nil keeps current.
	IsSuperAdmin *bool     `json:"is_super_admin"` // New super-admin flag, nil keeps current.
}

// Update changes permission grants and the super-admin flag.
func (h *AdminHandler) Update(c *gin.Context) {
	admin, ok := h.findByParam(c)
	if !ok {
		return
	}

	var body updateAdminRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updates := map[string]any{}
	if body.Permissions != nil {
		if errValidate := permissions.ValidatePermissions(*body.Permissions); errValidate != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errValidate.Error()})
			return
		}
		permsJSON, errMarshal := permissions.MarshalPermissions(*body.Permissions)
		if errMarshal != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "encode permissions failed"})
			return
		}
		updates["permissions"] = permsJSON
	}
	if body.IsSuperAdmin != nil {
		updates["is_super_admin"] = *body.IsSuperAdmin
	}
	if len(updates) == 0 {
		c.JSON(http.StatusOK, h.formatAdmin(admin))
		return
	}

	if errSave := h.db.WithContext(c.Request.Context()).Model(admin).Updates(updates).Error; errSave != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update admin failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Delete removes an administrator. Admins cannot delete themselves.
func (h *AdminHandler) Delete(c *gin.Context) {
	admin, ok := h.findByParam(c)
	if !ok {
		return
	}
	if admin.ID == c.GetUint64("adminID") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete yourself"})
		return
	}

	if errDelete := h.db.WithContext(c.Request.Context()).Delete(admin).Error; errDelete != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete admin failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Disable blocks an administrator from signing in.
func (h *AdminHandler) Disable(c *gin.Context) {
	h.setActive(c, false)
}

// Enable restores an administrator's sign-in.
func (h *AdminHandler) Enable(c *gin.Context) {
	h.setActive(c, true)
}

func (h *AdminHandler) setActive(c *gin.Context, active bool) {
	admin, ok := h.findByParam(c)
	if !ok {
		return
	}
	if !active && admin.ID == c.GetUint64("adminID") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot disable yourself"})
		return
	}

	if errSave := h.db.WithContext(c.Request.Context()).Model(admin).Update("active", active).Error; errSave != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update admin failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// changePasswordRequest captures the payload for a password change.
type changePasswordRequest struct {
	Password string `json:"password"` // New plaintext password.
}

// ChangePassword replaces an administrator's password.
func (h *AdminHandler) ChangePassword(c *gin.Context) {
	admin, ok := h.findByParam(c)
	if !ok {
		return
	}

	var body changePasswordRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password is required"})
		return
	}

	hashed, errHash := security.HashPassword(body.Password)
	if errHash != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "hash password failed"})
		return
	}
	if errSave := h.db.WithContext(c.Request.Context()).Model(admin).Update("password", hashed).Error; errSave != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update password failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// findByParam loads the admin named by the :id route param. On failure
// it writes the response and returns ok=false.
func (h *AdminHandler) findByParam(c *gin.Context) (*models.Admin, bool) {
	id, errParse := strconv.ParseUint(c.Param("id"), 10, 64)
	if errParse != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return nil, false
	}

	var admin models.Admin
	if errFind := h.db.WithContext(c.Request.Context()).First(&admin, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return nil, false
	}
	return &admin, true
}

// formatAdmin formats an admin row into response JSON. Password and
// TOTP fields never leave the server.
func (h *AdminHandler) formatAdmin(a *models.Admin) gin.H {
	return gin.H{
		"id":             a.ID,
		"username":       a.Username,
		"permissions":    permissions.ParsePermissions(a.Permissions),
		"is_super_admin": a.IsSuperAdmin,
		"totp_enabled":   a.TOTPConfirmed,
		"active":         a.Active,
		"created_at":     a.CreatedAt,
	}
}
