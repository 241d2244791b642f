package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/archive_bot_server/internal/model"
	"github.com/qs3c/archive_bot_server/internal/pkg/response"
	"github.com/qs3c/archive_bot_server/internal/repository"
	"github.com/qs3c/archive_bot_server/internal/service"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Pending lists payments awaiting review, oldest first.
// GET /api/v1/payments/pending
func (h *PaymentHandler) Pending(c *gin.Context) {
	payments, err := h.paymentService.Pending()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, payments)
}

// Approve marks a payment approved and activates the plan.
// POST /api/v1/payments/:id/approve
func (h *PaymentHandler) Approve(c *gin.Context) {
	h.process(c, h.paymentService.Approve)
}

// Reject marks a payment rejected.
// POST /api/v1/payments/:id/reject
func (h *PaymentHandler) Reject(c *gin.Context) {
	h.process(c, h.paymentService.Reject)
}

func (h *PaymentHandler) process(c *gin.Context, transition func(int64, string) (*model.PaymentQueue, error)) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid payment id")
		return
	}

	payment, err := transition(id, "panel")
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			response.NotFound(c, "payment not found")
		case errors.Is(err, repository.ErrPaymentNotPending):
			response.Conflict(c, "payment already processed")
		default:
			response.ServerError(c, "")
		}
		return
	}
	response.Success(c, payment)
}
