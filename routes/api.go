package routes

import (
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/arjunkapoor/chatbot-lead-service/environments"
	"github.com/arjunkapoor/chatbot-lead-service/handlers"
	"github.com/arjunkapoor/chatbot-lead-service/internal/middlewares"
)

// RegisterRoutes registers all API routes with middleware. Chat routes are
// public (the widget is embedded on the marketing site); the lead and
// reconciler groups are API-key protected.
func RegisterRoutes(
	e *echo.Echo,
	healthHandler *handlers.HealthHandler,
	chatHandler *handlers.ChatHandler,
	leadHandler *handlers.LeadHandler,
	reconcilerHandler *handlers.ReconcilerHandler,
	cfg *environments.Config,
) {
	e.GET("/health", healthHandler.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/api/v1")

	chat := v1.Group("/chat")
	chat.POST("/sessions", chatHandler.OpenSession)
	chat.GET("/sessions/:id/messages", chatHandler.GetMessages)
	chat.POST("/sessions/:id/messages", chatHandler.PostMessage)
	chat.DELETE("/sessions/:id", chatHandler.CloseSession)

	leads := v1.Group("/leads", middlewares.APIKeyAuth(cfg.Auth.LeadsAPIKey))
	leads.GET("/fallback", leadHandler.GetFallbackLeads)
	leads.GET("/fallback/stats", leadHandler.GetFallbackStats)
	leads.GET("/cached", leadHandler.GetCachedLeads)

	reconciler := v1.Group("/reconciler", middlewares.APIKeyAuth(cfg.Auth.ReconcilerAPIKey))
	reconciler.POST("/start", reconcilerHandler.StartReconciler)
	reconciler.POST("/stop", reconcilerHandler.StopReconciler)
	reconciler.GET("/status", reconcilerHandler.GetReconcilerStatus)
}
