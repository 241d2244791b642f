package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/qs3c/archive_bot_server/internal/pkg/response"
	"github.com/qs3c/archive_bot_server/internal/service"
)

const defaultBundleListLimit = 50

type BundleHandler struct {
	bundleService *service.BundleService
}

func NewBundleHandler(bundleService *service.BundleService) *BundleHandler {
	return &BundleHandler{bundleService: bundleService}
}

// List returns recent bundles, optionally filtered by a search query.
// GET /api/v1/bundles?q=...
func (h *BundleHandler) List(c *gin.Context) {
	if query := c.Query("q"); query != "" {
		bundles, err := h.bundleService.Search(query)
		if err != nil {
			response.ServerError(c, "")
			return
		}
		response.Success(c, bundles)
		return
	}

	limit := defaultBundleListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.ParamError(c, "invalid limit")
			return
		}
		limit = parsed
	}

	bundles, err := h.bundleService.List(limit)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, bundles)
}

// Toggle enables or disables a bundle.
// POST /api/v1/bundles/:id/toggle
func (h *BundleHandler) Toggle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid bundle id")
		return
	}

	active, err := h.bundleService.ToggleStatus(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "bundle not found")
			return
		}
		response.ServerError(c, "")
		return
	}
	response.Success(c, gin.H{"is_active": active})
}
