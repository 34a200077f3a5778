package notify

import (
	"context"

	"mailbot/internal/model"
	"mailbot/internal/service"
)

// sender is the transport half of a notifier: one raw HTML email out.
type sender interface {
	Send(ctx context.Context, to, subject, html string) (string, error)
}

// notifier layers the rendering operations over a transport.
type notifier struct {
	sender
}

func (n *notifier) SendNotificationSummary(ctx context.Context, to, rawSummary string) (string, error) {
	return n.Send(ctx, to, "📧 New Email Summary", RenderNotificationHTML(rawSummary))
}

func (n *notifier) SendDailyDigest(ctx context.Context, to, rawDigest string) (string, error) {
	return n.Send(ctx, to, "📊 Your Daily Email Digest", RenderDigestHTML(rawDigest))
}

func (n *notifier) SendImportantNotification(ctx context.Context, to string, important []*model.CategorizedMessage) (string, error) {
	return n.Send(ctx, to, "⚠️ Important Emails Require Attention", RenderImportantHTML(important))
}

var _ service.Notifier = (*notifier)(nil)
