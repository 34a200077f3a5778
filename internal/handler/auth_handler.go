package handler

import (
	"net/http"

	"mailbot/internal/config"
	"mailbot/internal/logger"
	"mailbot/internal/model"
	"mailbot/internal/service"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
)

type AuthHandler struct {
	authService service.AuthService
	config      *config.Config
	logger      *logger.Logger
}

func NewAuthHandler(authService service.AuthService, config *config.Config, logger *logger.Logger) *AuthHandler {
	// Set up goth with Google provider
	store := sessions.NewCookieStore([]byte(config.SessionSecret))
	store.MaxAge(86400)
	store.Options.HttpOnly = true
	gothic.Store = store

	goth.UseProviders(
		google.New(
			config.GoogleClientID,
			config.GoogleClientSecret,
			config.BaseURL+"/auth/google/callback",
			"https://www.googleapis.com/auth/gmail.readonly",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		),
	)

	return &AuthHandler{
		authService: authService,
		config:      config,
		logger:      logger,
	}
}

// BeginAuthHandler initiates the OAuth flow
func (h *AuthHandler) BeginAuthHandler(c echo.Context) error {
	// Manually handle the provider parameter for Goth
	provider := c.Param("provider")
	if provider != "google" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid provider",
		})
	}

	// Set provider in the request URL so Goth can recognize it
	req := c.Request()
	q := req.URL.Query()
	q.Set("provider", "google")
	req.URL.RawQuery = q.Encode()

	gothic.BeginAuthHandler(c.Response(), req)
	return nil
}

// CallbackHandler completes the OAuth exchange, stores the signed user
// record and hands the tokens back to the caller.
func (h *AuthHandler) CallbackHandler(c echo.Context) error {
	// Set provider in the request URL so Goth can recognize it
	req := c.Request()
	q := req.URL.Query()
	q.Set("provider", "google")
	req.URL.RawQuery = q.Encode()

	googleUser, err := gothic.CompleteUserAuth(c.Response(), req)
	if err != nil {
		h.logger.Error("Failed to complete user auth:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Authentication failed",
		})
	}

	info := &model.UserInfo{
		ID:    googleUser.UserID,
		Email: googleUser.Email,
		Name:  googleUser.Name,
	}

	record, err := h.authService.StoreAuthenticatedUser(
		c.Request().Context(),
		info,
		googleUser.AccessToken,
		googleUser.RefreshToken,
		googleUser.ExpiresAt,
	)
	if err != nil {
		h.logger.Error("Failed to store authenticated user:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to store user",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user_info": map[string]string{
			"id":    record.UserID,
			"email": record.Email,
			"name":  record.Name,
		},
		"credentials": map[string]interface{}{
			"access_token":  record.AccessToken,
			"refresh_token": record.RefreshToken,
			"token_expiry":  record.TokenExpiry,
		},
	})
}
