package api

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/archive_bot_server/config"
	"github.com/qs3c/archive_bot_server/internal/api/handler"
	"github.com/qs3c/archive_bot_server/internal/api/middleware"
)

type Router struct {
	authHandler    *handler.AuthHandler
	statsHandler   *handler.StatsHandler
	planHandler    *handler.PlanHandler
	paymentHandler *handler.PaymentHandler
	bundleHandler  *handler.BundleHandler
	cfg            *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	statsHandler *handler.StatsHandler,
	planHandler *handler.PlanHandler,
	paymentHandler *handler.PaymentHandler,
	bundleHandler *handler.BundleHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:    authHandler,
		statsHandler:   statsHandler,
		planHandler:    planHandler,
		paymentHandler: paymentHandler,
		bundleHandler:  bundleHandler,
		cfg:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", r.authHandler.Login)
		}

		panel := api.Group("")
		panel.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			stats := panel.Group("/stats")
			{
				stats.GET("/weekly", r.statsHandler.Weekly)
				stats.GET("/monthly", r.statsHandler.Monthly)
				stats.GET("/total", r.statsHandler.Total)
			}

			plans := panel.Group("/plans")
			{
				plans.GET("", r.planHandler.List)
				plans.POST("", r.planHandler.Create)
				plans.POST("/:id/toggle", r.planHandler.Toggle)
			}

			payments := panel.Group("/payments")
			{
				payments.GET("/pending", r.paymentHandler.Pending)
				payments.POST("/:id/approve", r.paymentHandler.Approve)
				payments.POST("/:id/reject", r.paymentHandler.Reject)
			}

			bundles := panel.Group("/bundles")
			{
				bundles.GET("", r.bundleHandler.List)
				bundles.POST("/:id/toggle", r.bundleHandler.Toggle)
			}
		}
	}

	return engine
}
