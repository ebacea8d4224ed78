package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Message is the body posted to the email relay.
type Message struct {
	To        []string `json:"to"`
	Subject   string   `json:"subject"`
	Text      string   `json:"text"`
	InviteURL string   `json:"invite_url,omitempty"`
	Reference string   `json:"reference"`
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// WebhookMailer posts messages as JSON to an HTTP relay.
type WebhookMailer struct {
	url    string
	client *http.Client
}

func NewWebhookMailer(url string) *WebhookMailer {
	return &WebhookMailer{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (m *WebhookMailer) Send(ctx context.Context, msg Message) error {
	if m.url == "" {
		return nil
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("email webhook returned %d", resp.StatusCode)
	}
	return nil
}

func BookedMessage(p ViewingBookedPayload, inviteURL string) Message {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		loc = time.UTC
	}
	start := p.StartAt.In(loc)

	to := make([]string, 0, 2)
	if p.VisitorEmail != "" {
		to = append(to, p.VisitorEmail)
	}
	if p.BrokerEmail != "" {
		to = append(to, p.BrokerEmail)
	}

	return Message{
		To:      to,
		Subject: fmt.Sprintf("Viewing booked: %s", p.PropertyTitle),
		Text: fmt.Sprintf(
			"%s, your viewing of %s (%s) is booked for %s at %s with %s. Reference %s.",
			p.VisitorName,
			p.PropertyTitle,
			p.PropertyAddress,
			start.Format("Mon 02 Jan 2006"),
			start.Format("15:04"),
			p.BrokerName,
			p.Reference,
		),
		InviteURL: inviteURL,
		Reference: p.Reference,
	}
}
