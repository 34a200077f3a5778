package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"mailbot/internal/logger"
	"mailbot/internal/middleware"
	"mailbot/internal/model"
)

type stubEmailService struct {
	fetchResult  []*model.Message
	fetchErr     error
	notifyErr    error
	notifiedTo   string
	notifiedMsgs []*model.Message
}

func (s *stubEmailService) FetchEmails(ctx context.Context, accessToken string) ([]*model.Message, error) {
	return s.fetchResult, s.fetchErr
}

func (s *stubEmailService) Summarize(ctx context.Context, messages []*model.Message) *model.SummaryResult {
	return &model.SummaryResult{TotalEmails: len(messages), SummaryText: "stub summary"}
}

func (s *stubEmailService) SendNotification(ctx context.Context, emailAddress string, messages []*model.Message) (string, error) {
	s.notifiedTo = emailAddress
	s.notifiedMsgs = messages
	return "receipt-1", s.notifyErr
}

type stubDigestService struct {
	digest    string
	digestErr error
	prefs     *model.Preferences
	prefsErr  error
}

func (s *stubDigestService) BuildDigest(ctx context.Context, accessToken string) (string, error) {
	return s.digest, s.digestErr
}

func (s *stubDigestService) RunForUser(ctx context.Context, user *model.UserRecord) error {
	return nil
}

func (s *stubDigestService) UpdatePreferences(ctx context.Context, accessToken string, updates map[string]interface{}) (*model.Preferences, error) {
	return s.prefs, s.prefsErr
}

func newHandlerContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.AccessTokenKey, "test-token")
	return c, rec
}

func TestFetchEmailsHandler(t *testing.T) {
	emailService := &stubEmailService{fetchResult: []*model.Message{{ID: "m1", Subject: "Hi"}}}
	h := NewEmailHandler(emailService, &stubDigestService{}, logger.New())

	c, rec := newHandlerContext(http.MethodGet, "/api/emails/fetch?token=test-token", "")
	assert.NoError(t, h.FetchEmails(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Emails []*model.Message `json:"emails"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Emails, 1)
	assert.Equal(t, "m1", resp.Emails[0].ID)
}

func TestFetchEmailsHandlerError(t *testing.T) {
	emailService := &stubEmailService{fetchErr: errors.New("invalid credentials")}
	h := NewEmailHandler(emailService, &stubDigestService{}, logger.New())

	c, rec := newHandlerContext(http.MethodGet, "/api/emails/fetch?token=test-token", "")
	assert.NoError(t, h.FetchEmails(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSummarizeEmailsHandler(t *testing.T) {
	h := NewEmailHandler(&stubEmailService{}, &stubDigestService{}, logger.New())

	body := `[{"id": "m1", "from": "a@b.com", "subject": "Hi"}]`
	c, rec := newHandlerContext(http.MethodPost, "/api/emails/summarize", body)
	assert.NoError(t, h.SummarizeEmails(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var result model.SummaryResult
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1, result.TotalEmails)
	assert.Equal(t, "stub summary", result.SummaryText)
}

func TestSendNotificationHandler(t *testing.T) {
	emailService := &stubEmailService{}
	h := NewEmailHandler(emailService, &stubDigestService{}, logger.New())

	body := `{"emails": [{"id": "m1", "subject": "Hi"}]}`
	c, rec := newHandlerContext(http.MethodPost, "/api/notifications?token=test-token&email_address=dest@example.com", body)
	assert.NoError(t, h.SendNotification(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dest@example.com", emailService.notifiedTo)
	assert.Len(t, emailService.notifiedMsgs, 1)
	assert.Contains(t, rec.Body.String(), "Notification sent successfully")
	assert.Contains(t, rec.Body.String(), "receipt-1")
}

func TestSendNotificationHandlerRequiresAddress(t *testing.T) {
	h := NewEmailHandler(&stubEmailService{}, &stubDigestService{}, logger.New())

	c, rec := newHandlerContext(http.MethodPost, "/api/notifications?token=test-token", `{"emails": []}`)
	assert.NoError(t, h.SendNotification(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetDigestHandlerStructured(t *testing.T) {
	digest := `{"daily_digest": {"overview": {"description": "Calm day.", "total_emails_processed": "3", "main_topics": []}, "important_updates_and_announcements": {"updates": [], "announcements": [], "notes": ""}, "action_items_and_follow_ups": {"key_action_items": [], "follow_ups": [], "deadlines": ""}, "key_discussions_and_decisions": {"discussions": [], "decisions": [], "notes": ""}, "additional_notes": ""}}`
	h := NewEmailHandler(&stubEmailService{}, &stubDigestService{digest: digest}, logger.New())

	c, rec := newHandlerContext(http.MethodGet, "/api/digest?token=test-token", "")
	assert.NoError(t, h.GetDigest(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var payload model.DigestPayload
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "3", payload.DailyDigest.Overview.TotalEmailsProcessed)
}

func TestGetDigestHandlerRawFallback(t *testing.T) {
	h := NewEmailHandler(&stubEmailService{}, &stubDigestService{digest: "not json at all"}, logger.New())

	c, rec := newHandlerContext(http.MethodGet, "/api/digest?token=test-token", "")
	assert.NoError(t, h.GetDigest(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not json at all", resp["digest"])
}

func TestUpdatePreferencesHandler(t *testing.T) {
	prefs := &model.Preferences{DigestTime: "07:00", Timezone: "UTC", DigestEnabled: true}
	h := NewEmailHandler(&stubEmailService{}, &stubDigestService{prefs: prefs}, logger.New())

	c, rec := newHandlerContext(http.MethodPost, "/api/preferences?token=test-token", `{"digest_time": "07:00"}`)
	assert.NoError(t, h.UpdatePreferences(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"success"`)
	assert.Contains(t, rec.Body.String(), `"07:00"`)
}

func TestUpdatePreferencesHandlerError(t *testing.T) {
	h := NewEmailHandler(&stubEmailService{}, &stubDigestService{prefsErr: errors.New("digest_time must be HH:MM")}, logger.New())

	c, rec := newHandlerContext(http.MethodPost, "/api/preferences?token=test-token", `{"digest_time": "late"}`)
	assert.NoError(t, h.UpdatePreferences(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
