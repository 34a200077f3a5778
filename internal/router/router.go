package router

import (
	"net/http"

	"mailbot/internal/handler"
	"mailbot/internal/middleware"

	"github.com/labstack/echo/v4"
)

func SetupRoutes(
	e *echo.Echo,
	authHandler *handler.AuthHandler,
	emailHandler *handler.EmailHandler,
) {
	// Public routes
	e.GET("/auth/:provider", authHandler.BeginAuthHandler)
	e.GET("/auth/:provider/callback", authHandler.CallbackHandler)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	// Summarization works on caller-supplied messages and needs no token
	e.POST("/api/emails/summarize", emailHandler.SummarizeEmails)

	// Token-bearing API routes
	protected := e.Group("/api")
	protected.Use(middleware.RequireToken())

	protected.GET("/emails/fetch", emailHandler.FetchEmails)
	protected.POST("/notifications", emailHandler.SendNotification)
	protected.GET("/digest", emailHandler.GetDigest)
	protected.POST("/preferences", emailHandler.UpdatePreferences)
}
