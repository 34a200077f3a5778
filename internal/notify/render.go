package notify

import (
	"bytes"
	"html/template"

	"mailbot/internal/ai"
	"mailbot/internal/model"
)

var notificationTmpl = template.Must(template.New("notification").Parse(`<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; line-height: 1.6;">
    <h2 style="color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 10px;">📧 New Email Summary</h2>
    <div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
        <p style="color: #34495e; font-size: 18px; margin-top: 0;">{{.Greeting}}</p>
        <p style="color: #34495e;">{{.Overview}}</p>
        {{if .AttentionNeeded}}
        <div style="margin: 15px 0;">
            <h3 style="color: #e74c3c; margin: 0 0 10px 0;">⚠️ Needs Your Attention</h3>
            <ul style="margin: 0; padding-left: 20px; color: #34495e;">
                {{range .AttentionNeeded}}<li style="margin-bottom: 5px;">{{.}}</li>{{end}}
            </ul>
        </div>
        {{end}}
        {{if .ActionItems}}
        <div style="margin: 15px 0;">
            <h3 style="color: #27ae60; margin: 0 0 10px 0;">✅ Action Items</h3>
            <ul style="margin: 0; padding-left: 20px; color: #34495e;">
                {{range .ActionItems}}<li style="margin-bottom: 5px;">{{.}}</li>{{end}}
            </ul>
        </div>
        {{end}}
        <div style="margin-top: 20px; border-top: 1px solid #eee; padding-top: 20px;">
            <h3 style="color: #2c3e50; margin: 0 0 15px 0;">📥 Your Emails</h3>
            <div style="color: #34495e;">
                {{range .EmailList}}<p style="margin: 0 0 15px 0;"><strong>{{.}}</strong></p>{{end}}
            </div>
        </div>
        {{if .Closing}}<p style="color: #7f8c8d; margin-top: 20px; font-style: italic;">{{.Closing}}</p>{{end}}
    </div>
    <div style="margin-top: 20px; padding-top: 20px; border-top: 1px solid #eee; color: #7f8c8d; font-size: 12px;">
        <p>Powered by mailbot</p>
    </div>
</body>
</html>`))

var rawTmpl = template.Must(template.New("raw").Parse(`<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; line-height: 1.6;">
    <h2 style="color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 10px;">{{.Title}}</h2>
    <div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
        <div style="white-space: pre-line; color: #34495e;">{{.Content}}</div>
    </div>
    <div style="margin-top: 20px; padding-top: 20px; border-top: 1px solid #eee; color: #7f8c8d; font-size: 12px;">
        <p>Powered by mailbot</p>
    </div>
</body>
</html>`))

var digestTmpl = template.Must(template.New("digest").Parse(`<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; line-height: 1.6;">
    <h1 style="color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 10px;">📊 Daily Email Digest</h1>
    <div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; margin: 20px 0;">
        <p style="color: #34495e;">{{.Overview.Description}}</p>
        <p style="color: #7f8c8d;">Emails processed: {{.Overview.TotalEmailsProcessed}}</p>
        {{if .Overview.MainTopics}}
        <h3 style="color: #2c3e50;">Main Topics</h3>
        <ul style="color: #34495e;">{{range .Overview.MainTopics}}<li>{{.}}</li>{{end}}</ul>
        {{end}}
        {{if or .Updates.Updates .Updates.Announcements}}
        <h3 style="color: #2c3e50;">📢 Updates &amp; Announcements</h3>
        <ul style="color: #34495e;">
            {{range .Updates.Updates}}<li>{{.}}</li>{{end}}
            {{range .Updates.Announcements}}<li>{{.}}</li>{{end}}
        </ul>
        {{end}}
        {{if or .Actions.KeyActionItems .Actions.FollowUps}}
        <h3 style="color: #27ae60;">✅ Action Items &amp; Follow-ups</h3>
        <ul style="color: #34495e;">
            {{range .Actions.KeyActionItems}}<li>{{.}}</li>{{end}}
            {{range .Actions.FollowUps}}<li>{{.}}</li>{{end}}
        </ul>
        {{if .Actions.Deadlines}}<p style="color: #e74c3c;">Deadlines: {{.Actions.Deadlines}}</p>{{end}}
        {{end}}
        {{if or .Discussions.Discussions .Discussions.Decisions}}
        <h3 style="color: #2c3e50;">💬 Discussions &amp; Decisions</h3>
        <ul style="color: #34495e;">
            {{range .Discussions.Discussions}}<li>{{.}}</li>{{end}}
            {{range .Discussions.Decisions}}<li>{{.}}</li>{{end}}
        </ul>
        {{end}}
        {{if .AdditionalNotes}}<p style="color: #7f8c8d; font-style: italic;">{{.AdditionalNotes}}</p>{{end}}
    </div>
    <p style="color: #7f8c8d; font-size: 12px;">Powered by mailbot</p>
</body>
</html>`))

var importantTmpl = template.Must(template.New("important").Parse(`<html>
<body>
    <h2>⚠️ Important Emails</h2>
    <p>The following emails require your attention:</p>
    <div style="white-space: pre-line;">
        {{range .}}<p>• {{.Subject}}{{if .AISummary}}: {{.AISummary}}{{end}}</p>{{end}}
    </div>
</body>
</html>`))

// RenderNotificationHTML renders the structured notification summary, or
// the raw text when the summary cannot be decoded.
func RenderNotificationHTML(rawSummary string) string {
	var summary model.NotificationSummary
	if err := ai.DecodeLoose(rawSummary, &summary); err != nil {
		return renderRaw("📧 New Email Summary", rawSummary)
	}

	var buf bytes.Buffer
	if err := notificationTmpl.Execute(&buf, summary.EmailSummary); err != nil {
		return renderRaw("📧 New Email Summary", rawSummary)
	}
	return buf.String()
}

// RenderDigestHTML renders the structured daily digest, or the raw text
// when the digest cannot be decoded.
func RenderDigestHTML(rawDigest string) string {
	var payload model.DigestPayload
	if err := ai.DecodeLoose(rawDigest, &payload); err != nil {
		return renderRaw("📊 Daily Email Digest", rawDigest)
	}

	var buf bytes.Buffer
	if err := digestTmpl.Execute(&buf, payload.DailyDigest); err != nil {
		return renderRaw("📊 Daily Email Digest", rawDigest)
	}
	return buf.String()
}

// RenderImportantHTML lists important emails for the attention alert.
func RenderImportantHTML(important []*model.CategorizedMessage) string {
	var buf bytes.Buffer
	if err := importantTmpl.Execute(&buf, important); err != nil {
		return renderRaw("⚠️ Important Emails Require Attention", "")
	}
	return buf.String()
}

func renderRaw(title, content string) string {
	var buf bytes.Buffer
	data := struct {
		Title   string
		Content string
	}{Title: title, Content: content}
	// Template execution over plain strings cannot fail here.
	_ = rawTmpl.Execute(&buf, data)
	return buf.String()
}
