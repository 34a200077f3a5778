package model

import "time"

// SummaryResult is the output of one summarization run. Categories always
// contains every known category key, empty or not.
type SummaryResult struct {
	TotalEmails     int                              `json:"total_emails"`
	Categories      map[string][]*CategorizedMessage `json:"categories"`
	ImportantEmails []*CategorizedMessage            `json:"important_emails"`
	SummaryText     string                           `json:"summary_text"`
	ProcessedAt     time.Time                        `json:"processed_at"`
}

type EmailSummary struct {
	Greeting        string   `json:"greeting"`
	Overview        string   `json:"overview"`
	AttentionNeeded []string `json:"attention_needed"`
	ActionItems     []string `json:"action_items"`
	EmailList       []string `json:"email_list"`
	Closing         string   `json:"closing"`
}

// NotificationSummary is the friendly per-notification shape the model is
// asked to produce.
type NotificationSummary struct {
	EmailSummary EmailSummary `json:"email_summary"`
}

type DigestOverview struct {
	Description          string   `json:"description"`
	TotalEmailsProcessed string   `json:"total_emails_processed"`
	MainTopics           []string `json:"main_topics"`
}

type DigestUpdates struct {
	Updates       []string `json:"updates"`
	Announcements []string `json:"announcements"`
	Notes         string   `json:"notes"`
}

type DigestActions struct {
	KeyActionItems []string `json:"key_action_items"`
	FollowUps      []string `json:"follow_ups"`
	Deadlines      string   `json:"deadlines"`
}

type DigestDiscussions struct {
	Discussions []string `json:"discussions"`
	Decisions   []string `json:"decisions"`
	Notes       string   `json:"notes"`
}

type DailyDigest struct {
	Overview        DigestOverview    `json:"overview"`
	Updates         DigestUpdates     `json:"important_updates_and_announcements"`
	Actions         DigestActions     `json:"action_items_and_follow_ups"`
	Discussions     DigestDiscussions `json:"key_discussions_and_decisions"`
	AdditionalNotes string            `json:"additional_notes"`
}

// DigestPayload is the canonical digest shape the notifier renders.
type DigestPayload struct {
	DailyDigest DailyDigest `json:"daily_digest"`
}
