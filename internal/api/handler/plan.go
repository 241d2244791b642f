package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/qs3c/archive_bot_server/internal/pkg/response"
	"github.com/qs3c/archive_bot_server/internal/service"
)

type PlanHandler struct {
	planService *service.PlanService
}

func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

type createPlanRequest struct {
	PlanID       string `json:"plan_id" binding:"required"`
	PlanName     string `json:"plan_name" binding:"required"`
	DurationDays int    `json:"duration_days" binding:"required,min=1"`
	Tier         string `json:"tier" binding:"required,oneof=premium plus"`
	Price        int    `json:"price" binding:"min=0"`
}

// List returns every plan including disabled ones.
// GET /api/v1/plans
func (h *PlanHandler) List(c *gin.Context) {
	plans, err := h.planService.All()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, plans)
}

// Create adds a new plan.
// POST /api/v1/plans
func (h *PlanHandler) Create(c *gin.Context) {
	var req createPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	plan, err := h.planService.Create(req.PlanID, req.PlanName, req.DurationDays, req.Tier, req.Price)
	if err != nil {
		if errors.Is(err, service.ErrPlanIDTaken) {
			response.Conflict(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}
	response.Success(c, plan)
}

// Toggle flips a plan's availability.
// POST /api/v1/plans/:id/toggle
func (h *PlanHandler) Toggle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid plan id")
		return
	}

	active, err := h.planService.ToggleStatus(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "plan not found")
			return
		}
		response.ServerError(c, "")
		return
	}
	response.Success(c, gin.H{"is_active": active})
}
