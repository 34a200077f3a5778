package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mailbot/internal/config"
	"mailbot/internal/logger"
	"mailbot/internal/model"
	"mailbot/internal/service"
)

const (
	systemPrompt = "You are an AI assistant that helps categorize and summarize emails. Always respond with valid JSON when asked for structured data."

	maxTokens   = 1000
	temperature = 0.7
	callTimeout = 30 * time.Second
	maxAttempts = 3
)

// Backoff base, shortened by tests.
var retryBaseDelay = time.Second

type aiClient struct {
	apiKey     string
	baseURL    string
	model      string
	siteURL    string
	siteName   string
	batchSize  int
	httpClient *http.Client
	logger     *logger.Logger
}

func NewAIClient(cfg *config.Config, logger *logger.Logger) service.AIClient {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 5
	}

	return &aiClient{
		apiKey:     cfg.OpenRouterKey,
		baseURL:    cfg.AIBaseURL,
		model:      cfg.AIModel,
		siteURL:    cfg.SiteURL,
		siteName:   cfg.SiteName,
		batchSize:  batchSize,
		httpClient: &http.Client{Timeout: callTimeout},
		logger:     logger,
	}
}

// Chat-completions request/response structures
type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []choice `json:"choices"`
}

type choice struct {
	Index        int     `json:"index"`
	Message      message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// callModel invokes the model and never fails: on any transport or
// provider error it returns a sentinel string that downstream JSON
// parsing rejects, which routes the caller onto its fallback path.
func (a *aiClient) callModel(ctx context.Context, prompt string) string {
	resp, err := a.makeRequest(ctx, chatCompletionRequest{
		Model: a.model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err == nil && len(resp.Choices) == 0 {
		err = errors.New("no choices returned from model")
	}
	if err != nil {
		a.logger.Error("Model call failed:", err)
		return fmt.Sprintf("Error processing request: %v. Using fallback categorization.", err)
	}
	return resp.Choices[0].Message.Content
}

func modelCallFailed(response string) bool {
	return strings.Contains(response, "Error processing request")
}

// makeRequest makes an HTTP request to the chat-completions API, retrying
// rate-limit and server errors with exponential backoff.
func (a *aiClient) makeRequest(ctx context.Context, request chatCompletionRequest) (*chatCompletionResponse, error) {
	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay << (attempt - 1)
			a.logger.Warn("Retrying model call after", delay.String(), ":", lastErr)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		resp, retry, err := a.doRequest(ctx, jsonData)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !retry {
			return nil, err
		}
	}
	return nil, lastErr
}

func (a *aiClient) doRequest(ctx context.Context, jsonData []byte) (*chatCompletionResponse, bool, error) {
	url := a.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("HTTP-Referer", a.siteURL)
	req.Header.Set("X-Title", a.siteName)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError
		return nil, retry, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, false, fmt.Errorf("failed to decode response: %w", err)
	}
	return &chatResp, false, nil
}

type classifiedEntry struct {
	ID         string `json:"id"`
	Category   string `json:"category"`
	Summary    string `json:"summary"`
	Importance string `json:"importance"`
}

type batchClassification struct {
	Emails []classifiedEntry `json:"emails"`
}

func emptyCategories() map[string][]*model.CategorizedMessage {
	categories := make(map[string][]*model.CategorizedMessage, len(model.Categories))
	for _, name := range model.Categories {
		categories[name] = []*model.CategorizedMessage{}
	}
	return categories
}

func findMessage(batch []*model.Message, id string) *model.Message {
	for _, msg := range batch {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

// Summarize classifies messages in fixed-size batches and builds an
// overall summary. It always returns a complete result: a failed batch
// contributes nothing rather than aborting the run.
func (a *aiClient) Summarize(ctx context.Context, messages []*model.Message) *model.SummaryResult {
	result := &model.SummaryResult{
		TotalEmails:     len(messages),
		Categories:      emptyCategories(),
		ImportantEmails: []*model.CategorizedMessage{},
		ProcessedAt:     time.Now(),
	}

	if len(messages) == 0 {
		result.SummaryText = "No new emails to summarize."
		return result
	}

	var summaries []string
	for start := 0; start < len(messages); start += a.batchSize {
		end := start + a.batchSize
		if end > len(messages) {
			end = len(messages)
		}
		batch := messages[start:end]

		response := a.callModel(ctx, classifyPrompt(batch))

		var classified batchClassification
		if err := DecodeLoose(response, &classified); err != nil {
			a.logger.Warn("Failed to parse classification response, skipping batch:", err)
			continue
		}

		for _, entry := range classified.Emails {
			category := strings.ToLower(strings.TrimSpace(entry.Category))
			if !model.KnownCategory(category) {
				continue
			}
			original := findMessage(batch, entry.ID)
			if original == nil {
				continue
			}
			result.Categories[category] = append(result.Categories[category], &model.CategorizedMessage{
				Message:    *original,
				AISummary:  entry.Summary,
				Importance: entry.Importance,
			})
			summaries = append(summaries, entry.Summary)
		}
	}

	result.ImportantEmails = result.Categories[model.CategoryImportant]
	result.SummaryText = a.callModel(ctx, overallSummaryPrompt(summaries))
	result.ProcessedAt = time.Now()
	return result
}

// GenerateNotificationSummary returns the friendly notification JSON. When
// the model path is unavailable the fallback still lists every message as
// "subject (From: sender)" so the user sees something.
func (a *aiClient) GenerateNotificationSummary(ctx context.Context, messages []*model.Message) string {
	if len(messages) == 0 {
		return "No new emails to summarize."
	}

	summary := a.Summarize(ctx, messages)
	response := a.callModel(ctx, notificationPrompt(summary.SummaryText))
	if !modelCallFailed(response) {
		if extracted, err := ExtractJSON(response); err == nil {
			return extracted
		}
		a.logger.Warn("Notification summary response was not valid JSON, using fallback")
	}
	return fallbackNotificationSummary(messages)
}

func fallbackNotificationSummary(messages []*model.Message) string {
	emailList := make([]string, 0, len(messages))
	for _, msg := range messages {
		subject := msg.Subject
		if subject == "" {
			subject = "No Subject"
		}
		from := msg.From
		if from == "" {
			from = "Unknown Sender"
		}
		emailList = append(emailList, fmt.Sprintf("%s (From: %s)", subject, from))
	}

	basic := model.NotificationSummary{
		EmailSummary: model.EmailSummary{
			Greeting:        "Hey there!",
			Overview:        "Here's a quick summary of your emails:",
			AttentionNeeded: []string{},
			ActionItems:     []string{},
			EmailList:       emailList,
			Closing:         "Let me know if you need anything else!",
		},
	}
	data, _ := json.Marshal(basic)
	return string(data)
}

// GenerateDailyDigest returns the digest JSON text, degrading to an
// empty-skeleton payload when the model path is unavailable.
func (a *aiClient) GenerateDailyDigest(ctx context.Context, messages []*model.Message) string {
	summary := a.Summarize(ctx, messages)
	response := a.callModel(ctx, digestPrompt(summary.SummaryText))
	if !modelCallFailed(response) {
		if extracted, err := ExtractJSON(response); err == nil {
			return extracted
		}
		a.logger.Warn("Daily digest response was not valid JSON, using fallback")
	}
	return fallbackDigest()
}

func fallbackDigest() string {
	empty := model.DigestPayload{
		DailyDigest: model.DailyDigest{
			Overview: model.DigestOverview{
				Description:          "Sorry, I encountered an error while generating your daily digest.",
				TotalEmailsProcessed: "0",
				MainTopics:           []string{},
			},
			Updates: model.DigestUpdates{
				Updates:       []string{},
				Announcements: []string{},
				Notes:         "Unable to process updates at this time.",
			},
			Actions: model.DigestActions{
				KeyActionItems: []string{},
				FollowUps:      []string{},
				Deadlines:      "None",
			},
			Discussions: model.DigestDiscussions{
				Discussions: []string{},
				Decisions:   []string{},
				Notes:       "Unable to process discussions at this time.",
			},
			AdditionalNotes: "Please try again later.",
		},
	}
	data, _ := json.Marshal(empty)
	return string(data)
}
