package notify

import (
	"fmt"
	"os"

	"github.com/automuse/studio/model"
	Logger "github.com/automuse/studio/utils/log"
	"github.com/slack-go/slack"
)

// ContactNotifier posts new CRM leads to a Slack channel via incoming
// webhook. A nil receiver or an unset webhook URL disables notifications,
// failures are logged and never propagate, a broken webhook must not lose
// the lead.
type ContactNotifier struct {
	webhookURL string
}

func NewContactNotifierFromEnv() *ContactNotifier {
	return &ContactNotifier{webhookURL: os.Getenv("SLACK_WEBHOOK_URL")}
}

func (n *ContactNotifier) NotifyNewContact(contact *model.Contact) {
	if n == nil || n.webhookURL == "" {
		return
	}

	company := ""
	if contact.Company != nil {
		company = fmt.Sprintf(" (%s)", *contact.Company)
	}
	msg := &slack.WebhookMessage{
		Text: fmt.Sprintf("New contact: %s%s <%s>\n%s",
			contact.Name, company, contact.Email, contact.Message),
	}
	if err := slack.PostWebhook(n.webhookURL, msg); err != nil {
		Logger.Log.Error("fail to post contact notification: ", err)
	}
}
