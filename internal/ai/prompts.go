package ai

import (
	"fmt"
	"strings"

	"mailbot/internal/model"
)

// Long bodies are truncated before they reach the prompt to stay inside
// upstream token limits.
const maxBodyChars = 500

func formatBatch(messages []*model.Message) string {
	var b strings.Builder
	for _, msg := range messages {
		subject := msg.Subject
		if subject == "" {
			subject = "No Subject"
		}
		from := msg.From
		if from == "" {
			from = "Unknown"
		}
		date := msg.Date
		if date == "" {
			date = "Unknown"
		}
		body := msg.Body
		if body == "" {
			body = msg.Snippet
		}
		if len(body) > maxBodyChars {
			body = body[:maxBodyChars] + "..."
		}
		fmt.Fprintf(&b, "ID: %s\nSubject: %s\nFrom: %s\nDate: %s\nBody: %s\n---\n",
			msg.ID, subject, from, date, body)
	}
	return b.String()
}

func classifyPrompt(messages []*model.Message) string {
	return fmt.Sprintf(`Analyze the following emails and provide a JSON response with this exact structure:
{
    "emails": [
        {
            "id": "email_id",
            "category": "category_name",
            "summary": "brief_summary",
            "importance": "why_important_if_applicable"
        }
    ]
}

Categorize each email into one of these categories: %s.
Provide a brief summary of each email.
For important emails, explain why they are important.

Emails to analyze:
%s

Respond ONLY with the JSON structure, no additional text.`,
		strings.Join(model.Categories, ", "), formatBatch(messages))
}

func overallSummaryPrompt(summaries []string) string {
	return fmt.Sprintf(`Based on these email summaries:
%s

Provide a concise overall summary of the email batch, highlighting:
1. Main topics discussed
2. Any urgent or important matters
3. Key action items if any

Keep the summary under 200 words.`, strings.Join(summaries, "\n"))
}

func notificationPrompt(summaryText string) string {
	return fmt.Sprintf(`Based on this email analysis: %s
Create a friendly email summary in the following JSON structure. Return ONLY the JSON, no other text:

{
    "email_summary": {
        "greeting": "A casual, friendly greeting",
        "overview": "A brief, conversational overview of the emails",
        "attention_needed": ["List of items needing immediate attention"],
        "action_items": ["List of things to do"],
        "email_list": ["List of email subjects with their importance"],
        "closing": "A friendly closing note offering help if needed"
    }
}

Make it feel personal and helpful, like a personal assistant talking to their boss.
Keep the tone friendly but professional.
Include ALL email subjects in the email_list.
Highlight urgent or important matters in attention_needed.
List specific actions needed in action_items.

IMPORTANT: Return ONLY the JSON object, no additional text, no code blocks, no explanations.`, summaryText)
}

func digestPrompt(summaryText string) string {
	return fmt.Sprintf(`Based on this email analysis: %s
Create a comprehensive daily digest in the following JSON structure. Return ONLY the JSON, no markdown or code blocks:

{
    "daily_digest": {
        "overview": {
            "description": "A friendly summary of today's emails",
            "total_emails_processed": "Number of emails processed",
            "main_topics": ["List of main topics discussed"]
        },
        "important_updates_and_announcements": {
            "updates": ["List of important updates"],
            "announcements": ["List of announcements"],
            "notes": "Any additional notes about updates"
        },
        "action_items_and_follow_ups": {
            "key_action_items": ["List of things that need to be done"],
            "follow_ups": ["List of items needing follow-up"],
            "deadlines": "Any important deadlines"
        },
        "key_discussions_and_decisions": {
            "discussions": ["List of important discussions"],
            "decisions": ["List of decisions made"],
            "notes": "Additional context about discussions"
        },
        "additional_notes": "Any other important information"
    }
}

IMPORTANT: Return ONLY the JSON object, no markdown, no code blocks, no additional text.
Make it friendly and conversational while maintaining professionalism.`, summaryText)
}
