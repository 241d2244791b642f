package handler

import (
	"fmt"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/archive_bot_server/internal/model"
	"github.com/qs3c/archive_bot_server/internal/pkg/response"
	"github.com/qs3c/archive_bot_server/internal/repository"
	"github.com/qs3c/archive_bot_server/internal/service"
	"github.com/qs3c/archive_bot_server/internal/testutil"
)

func setupPaymentHandler(t *testing.T) (*PaymentHandler, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewPlanRepository(db)
	access := service.NewAccessService(db, userRepo, planRepo, repository.NewHistoryRepository(db))
	paymentService := service.NewPaymentService(
		testutil.NewFakeMessenger(), repository.NewPaymentRepository(db), planRepo, userRepo, access)
	handler := NewPaymentHandler(paymentService)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}
	return handler, db, cleanup
}

func paymentRouter(handler *PaymentHandler) *gin.Engine {
	router := gin.New()
	router.GET("/payments/pending", handler.Pending)
	router.POST("/payments/:id/approve", handler.Approve)
	router.POST("/payments/:id/reject", handler.Reject)
	return router
}

func submitTestPayment(t *testing.T, db *gorm.DB) *model.PaymentQueue {
	t.Helper()

	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)

	payment := &model.PaymentQueue{
		UserID:           user.TgUserID,
		PlanID:           plan.PlanID,
		ScreenshotFileID: "file_abc",
		Status:           model.PaymentPending,
	}
	require.NoError(t, db.Create(payment).Error)
	return payment
}

func TestPaymentHandler_Pending(t *testing.T) {
	handler, db, cleanup := setupPaymentHandler(t)
	defer cleanup()

	submitTestPayment(t, db)
	router := paymentRouter(handler)

	w := performRequest(router, "GET", "/payments/pending", nil)

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	list, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, list, 1)
}

func TestPaymentHandler_Approve(t *testing.T) {
	handler, db, cleanup := setupPaymentHandler(t)
	defer cleanup()

	payment := submitTestPayment(t, db)
	router := paymentRouter(handler)

	w := performRequest(router, "POST", fmt.Sprintf("/payments/%d/approve", payment.ID), nil)

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	var reloaded model.PaymentQueue
	require.NoError(t, db.First(&reloaded, payment.ID).Error)
	assert.Equal(t, model.PaymentApproved, reloaded.Status)
	assert.Equal(t, "panel", reloaded.ProcessedBy)
}

func TestPaymentHandler_Approve_AlreadyProcessed(t *testing.T) {
	handler, db, cleanup := setupPaymentHandler(t)
	defer cleanup()

	payment := submitTestPayment(t, db)
	router := paymentRouter(handler)

	w := performRequest(router, "POST", fmt.Sprintf("/payments/%d/reject", payment.ID), nil)
	assert.Equal(t, response.CodeSuccess, parseResponse(t, w).Code)

	w = performRequest(router, "POST", fmt.Sprintf("/payments/%d/approve", payment.ID), nil)
	assert.Equal(t, response.CodeConflict, parseResponse(t, w).Code)
}

func TestPaymentHandler_Approve_NotFound(t *testing.T) {
	handler, _, cleanup := setupPaymentHandler(t)
	defer cleanup()

	router := paymentRouter(handler)

	w := performRequest(router, "POST", "/payments/9999/approve", nil)
	assert.Equal(t, response.CodeResourceNotFound, parseResponse(t, w).Code)
}

func TestPaymentHandler_Approve_BadID(t *testing.T) {
	handler, _, cleanup := setupPaymentHandler(t)
	defer cleanup()

	router := paymentRouter(handler)

	w := performRequest(router, "POST", "/payments/abc/approve", nil)
	assert.Equal(t, response.CodeParamError, parseResponse(t, w).Code)
}
