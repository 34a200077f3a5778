package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"mailbot/internal/logger"
	"mailbot/internal/model"
	"mailbot/internal/service"
)

const (
	maxRetries     = 3
	requestTimeout = 30 * time.Second
)

// Backoff base, shortened by tests.
var retryBaseDelay = time.Second

type mailFetcher struct {
	logger *logger.Logger
}

// NewFetcher returns a MailClient that builds a Gmail service per call with
// the caller's access token.
func NewFetcher(logger *logger.Logger) service.MailClient {
	return &mailFetcher{logger: logger}
}

type tokenTransport struct {
	token string
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+t.token)
	return http.DefaultTransport.RoundTrip(req)
}

func newHTTPClient(accessToken string) *http.Client {
	return &http.Client{
		Transport: &tokenTransport{token: accessToken},
		Timeout:   requestTimeout,
	}
}

func (f *mailFetcher) FetchInbox(ctx context.Context, accessToken string, maxResults int64, since *time.Time) ([]*model.Message, error) {
	svc, err := gmail.NewService(ctx, option.WithHTTPClient(newHTTPClient(accessToken)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	call := svc.Users.Messages.List("me").MaxResults(maxResults).LabelIds("INBOX")
	if since != nil {
		// Gmail's after: operator works at date granularity; cutoff is UTC.
		call = call.Q("after:" + since.UTC().Format("2006/01/02"))
	}

	var list *gmail.ListMessagesResponse
	err = f.withRetry(ctx, func() error {
		var listErr error
		list, listErr = call.Context(ctx).Do()
		return listErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list inbox messages: %w", err)
	}

	var messages []*model.Message
	for _, ref := range list.Messages {
		var msg *gmail.Message
		err = f.withRetry(ctx, func() error {
			var getErr error
			msg, getErr = svc.Users.Messages.Get("me", ref.Id).Format("full").Context(ctx).Do()
			return getErr
		})
		if err != nil {
			f.logger.Error("Failed to get message", ref.Id, ":", err)
			continue
		}

		message := &model.Message{
			ID:      ref.Id,
			Snippet: msg.Snippet,
		}
		if msg.Payload != nil {
			for _, header := range msg.Payload.Headers {
				switch header.Name {
				case "From":
					message.From = header.Value
				case "Subject":
					message.Subject = header.Value
				case "Date":
					message.Date = header.Value
				}
			}
			message.Body = f.extractBody(msg.Payload)
		}
		messages = append(messages, message)
	}

	f.logger.Info("Fetched", len(messages), "messages from Gmail")
	return messages, nil
}

// withRetry retries rate-limit and server errors with exponential backoff.
func (f *mailFetcher) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay << (attempt - 1)
			f.logger.Warn("Retrying Gmail call after", delay.String(), ":", err)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		err = fn()
		if err == nil || !retryable(err) {
			return err
		}
	}
	return err
}

func retryable(err error) bool {
	apiErr, ok := err.(*googleapi.Error)
	if !ok {
		return false
	}
	return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
}

// extractBody returns the first decodable text part, preferring text/plain.
func (f *mailFetcher) extractBody(payload *gmail.MessagePart) string {
	if len(payload.Parts) > 0 {
		for _, part := range payload.Parts {
			if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
				if decoded := f.decodePart(part.Body.Data); decoded != "" {
					return decoded
				}
			}
		}
		for _, part := range payload.Parts {
			if part.MimeType == "text/html" && part.Body != nil && part.Body.Data != "" {
				if decoded := f.decodePart(part.Body.Data); decoded != "" {
					return decoded
				}
			}
		}
		for _, part := range payload.Parts {
			if len(part.Parts) > 0 {
				if nested := f.extractBody(part); nested != "" {
					return nested
				}
			}
		}
	}

	if payload.Body != nil && payload.Body.Data != "" {
		return f.decodePart(payload.Body.Data)
	}
	return ""
}

func (f *mailFetcher) decodePart(data string) string {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		f.logger.Error("Failed to decode message body:", err)
		return ""
	}
	return string(decoded)
}

// FetchUserInfo resolves an access token to the Google account identity.
func FetchUserInfo(ctx context.Context, accessToken string) (*model.UserInfo, error) {
	svc, err := oauth2api.NewService(ctx, option.WithHTTPClient(newHTTPClient(accessToken)))
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo service: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	return &model.UserInfo{
		ID:    info.Id,
		Email: info.Email,
		Name:  info.Name,
	}, nil
}
