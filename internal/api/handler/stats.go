package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/archive_bot_server/internal/pkg/response"
	"github.com/qs3c/archive_bot_server/internal/service"
)

type StatsHandler struct {
	statsService *service.StatsService
}

func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Weekly returns the last-7-days snapshot.
// GET /api/v1/stats/weekly
func (h *StatsHandler) Weekly(c *gin.Context) {
	stats, err := h.statsService.Weekly()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, stats)
}

// Monthly returns the last-30-days snapshot.
// GET /api/v1/stats/monthly
func (h *StatsHandler) Monthly(c *gin.Context) {
	stats, err := h.statsService.Monthly()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, stats)
}

// Total returns all-time statistics.
// GET /api/v1/stats/total
func (h *StatsHandler) Total(c *gin.Context) {
	stats, err := h.statsService.Total()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, stats)
}
