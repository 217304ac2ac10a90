package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/K0NGR3SS/amazonip/internal/models"
)

type SlackNotifier struct {
	WebhookURL string
	Channel    string
	HTTPClient *http.Client
}

type slackMessage struct {
	Channel     string            `json:"channel,omitempty"`
	Username    string            `json:"username"`
	IconEmoji   string            `json:"icon_emoji"`
	Text        string            `json:"text"`
	Attachments []slackAttachment `json:"attachments"`
}

type slackAttachment struct {
	Color  string       `json:"color"`
	Title  string       `json:"title"`
	Text   string       `json:"text,omitempty"`
	Fields []slackField `json:"fields"`
	Footer string       `json:"footer"`
}

type slackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

func NewSlackNotifier(webhookURL, channel string) *SlackNotifier {
	return &SlackNotifier{
		WebhookURL: webhookURL,
		Channel:    channel,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SendOutcome reports a run that touched the security group.
func (s *SlackNotifier) SendOutcome(ctx context.Context, o models.Outcome) error {
	previous := o.Previous
	if !o.HadPrevious {
		previous = "(none)"
	}

	color := "good"
	text := fmt.Sprintf(":lock: *amazonip* moved SSH access for `%s` to `%s`", o.SecurityGroup, o.Current)
	if o.Status == models.StatusFailed {
		color = "danger"
		text = fmt.Sprintf(":rotating_light: *amazonip* failed to authorize `%s` in `%s`", o.Current, o.SecurityGroup)
	}

	fields := []slackField{
		{Title: "Region", Value: o.Region, Short: true},
		{Title: "Security Group", Value: o.SecurityGroup, Short: true},
		{Title: "Previous", Value: previous, Short: true},
		{Title: "Current", Value: o.Current, Short: true},
	}
	if o.RevokeError != "" {
		fields = append(fields, slackField{Title: "Revoke", Value: o.RevokeError})
	}

	msg := slackMessage{
		Channel:   s.Channel,
		Username:  "amazonip",
		IconEmoji: ":shield:",
		Text:      text,
		Attachments: []slackAttachment{{
			Color:  color,
			Title:  string(o.Status),
			Fields: fields,
			Footer: "amazonip",
		}},
	}

	return s.sendMessage(ctx, msg)
}

func (s *SlackNotifier) sendMessage(ctx context.Context, msg slackMessage) error {
	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.WebhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to build slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := s.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send slack message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack returned non-200 status: %d", resp.StatusCode)
	}

	return nil
}
