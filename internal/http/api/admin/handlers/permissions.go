package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/recoveryfit/corpreport/internal/http/api/admin/permissions"
)

// PermissionHandler exposes the permission definition catalog.
type PermissionHandler struct{}

// NewPermissionHandler constructs a permission handler.
func NewPermissionHandler() *PermissionHandler {
	return &PermissionHandler{}
}

// List returns all permission definitions.
func (h *PermissionHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"permissions": permissions.Definitions()})
}
