package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mailbot/internal/model"
)

func TestRenderNotificationHTMLStructured(t *testing.T) {
	raw := `{"email_summary": {
		"greeting": "Hey there!",
		"overview": "Two new emails today.",
		"attention_needed": ["Reply to finance"],
		"action_items": ["Book the meeting room"],
		"email_list": ["Quarterly review (From: boss@corp.com)"],
		"closing": "Have a great day!"
	}}`

	html := RenderNotificationHTML(raw)
	assert.Contains(t, html, "Hey there!")
	assert.Contains(t, html, "Two new emails today.")
	assert.Contains(t, html, "Reply to finance")
	assert.Contains(t, html, "Book the meeting room")
	assert.Contains(t, html, "Quarterly review (From: boss@corp.com)")
	assert.Contains(t, html, "Have a great day!")
}

func TestRenderNotificationHTMLRawFallback(t *testing.T) {
	raw := "No new emails to summarize."

	html := RenderNotificationHTML(raw)
	assert.Contains(t, html, "No new emails to summarize.")
	assert.Contains(t, html, "📧 New Email Summary")
}

func TestRenderNotificationHTMLEscapesContent(t *testing.T) {
	html := RenderNotificationHTML(`<script>alert(1)</script>`)
	assert.NotContains(t, html, "<script>")
}

func TestRenderDigestHTMLStructured(t *testing.T) {
	raw := `{"daily_digest": {
		"overview": {"description": "A busy day.", "total_emails_processed": "7", "main_topics": ["launch"]},
		"important_updates_and_announcements": {"updates": ["CI is green again"], "announcements": [], "notes": ""},
		"action_items_and_follow_ups": {"key_action_items": ["Send the report"], "follow_ups": [], "deadlines": "Friday"},
		"key_discussions_and_decisions": {"discussions": [], "decisions": ["Ship on Monday"], "notes": ""},
		"additional_notes": "Quiet afternoon expected."
	}}`

	html := RenderDigestHTML(raw)
	assert.Contains(t, html, "A busy day.")
	assert.Contains(t, html, "Emails processed: 7")
	assert.Contains(t, html, "launch")
	assert.Contains(t, html, "CI is green again")
	assert.Contains(t, html, "Send the report")
	assert.Contains(t, html, "Deadlines: Friday")
	assert.Contains(t, html, "Ship on Monday")
	assert.Contains(t, html, "Quiet afternoon expected.")
}

func TestRenderDigestHTMLRawFallback(t *testing.T) {
	html := RenderDigestHTML("model produced nothing useful")
	assert.Contains(t, html, "model produced nothing useful")
	assert.Contains(t, html, "📊 Daily Email Digest")
}

func TestRenderImportantHTML(t *testing.T) {
	important := []*model.CategorizedMessage{
		{Message: model.Message{ID: "m1", Subject: "Contract expiring"}, AISummary: "Renew before Friday"},
		{Message: model.Message{ID: "m2", Subject: "Server alert"}},
	}

	html := RenderImportantHTML(important)
	assert.Contains(t, html, "Contract expiring")
	assert.Contains(t, html, "Renew before Friday")
	assert.Contains(t, html, "Server alert")
}
