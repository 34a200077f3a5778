package handler

import (
	"net/http"

	"mailbot/internal/ai"
	"mailbot/internal/logger"
	"mailbot/internal/middleware"
	"mailbot/internal/model"
	"mailbot/internal/service"

	"github.com/labstack/echo/v4"
)

type EmailHandler struct {
	emailService  service.EmailService
	digestService service.DigestService
	logger        *logger.Logger
}

func NewEmailHandler(emailService service.EmailService, digestService service.DigestService, logger *logger.Logger) *EmailHandler {
	return &EmailHandler{
		emailService:  emailService,
		digestService: digestService,
		logger:        logger,
	}
}

func accessToken(c echo.Context) string {
	token, _ := c.Get(middleware.AccessTokenKey).(string)
	return token
}

// FetchEmails returns the caller's latest inbox messages.
func (h *EmailHandler) FetchEmails(c echo.Context) error {
	messages, err := h.emailService.FetchEmails(c.Request().Context(), accessToken(c))
	if err != nil {
		h.logger.Error("Failed to fetch emails:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to fetch emails: " + err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"emails": messages,
	})
}

// SummarizeEmails categorizes and summarizes the messages in the request
// body. Generation failures degrade to fallback output rather than errors.
func (h *EmailHandler) SummarizeEmails(c echo.Context) error {
	var messages []*model.Message
	if err := c.Bind(&messages); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	result := h.emailService.Summarize(c.Request().Context(), messages)
	return c.JSON(http.StatusOK, result)
}

type notificationRequest struct {
	Emails []*model.Message `json:"emails"`
}

// SendNotification summarizes the supplied messages and emails the summary
// to the given address.
func (h *EmailHandler) SendNotification(c echo.Context) error {
	emailAddress := c.QueryParam("email_address")
	if emailAddress == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Missing email_address",
		})
	}

	var req notificationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	receipt, err := h.emailService.SendNotification(c.Request().Context(), emailAddress, req.Emails)
	if err != nil {
		h.logger.Error("Failed to send notification:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to send notification: " + err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":           "Notification sent successfully",
		"provider_response": receipt,
	})
}

// GetDigest builds a daily digest on demand. The digest text is returned
// as structured JSON when it parses, wrapped raw otherwise.
func (h *EmailHandler) GetDigest(c echo.Context) error {
	rawDigest, err := h.digestService.BuildDigest(c.Request().Context(), accessToken(c))
	if err != nil {
		h.logger.Error("Failed to build digest:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to build digest: " + err.Error(),
		})
	}

	var payload model.DigestPayload
	if err := ai.DecodeLoose(rawDigest, &payload); err != nil {
		return c.JSON(http.StatusOK, map[string]string{
			"digest": rawDigest,
		})
	}
	return c.JSON(http.StatusOK, payload)
}

// UpdatePreferences merges the supplied preference keys into the stored
// record of the user owning the access token.
func (h *EmailHandler) UpdatePreferences(c echo.Context) error {
	var updates map[string]interface{}
	if err := c.Bind(&updates); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	prefs, err := h.digestService.UpdatePreferences(c.Request().Context(), accessToken(c), updates)
	if err != nil {
		h.logger.Error("Failed to update preferences:", err)
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "success",
		"preferences": prefs,
	})
}
