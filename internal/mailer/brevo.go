package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Brevo sends transactional mail through the Brevo (Sendinblue) REST API.
type Brevo struct {
	APIKey      string
	FromName    string
	FromAddress string
	BaseURL     string
	HTTP        *http.Client
}

// NewBrevo creates a Brevo client. The API call timeout is fixed at 10s.
func NewBrevo(apiKey, fromName, fromAddress string) *Brevo {
	return &Brevo{
		APIKey:      apiKey,
		FromName:    fromName,
		FromAddress: fromAddress,
		BaseURL:     "https://api.brevo.com/v3",
		HTTP:        &http.Client{Timeout: 10 * time.Second},
	}
}

type brevoParty struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoEmail struct {
	Sender      brevoParty   `json:"sender"`
	To          []brevoParty `json:"to"`
	Subject     string       `json:"subject"`
	HTMLContent string       `json:"htmlContent,omitempty"`
	TextContent string       `json:"textContent,omitempty"`
}

// Send posts the message to the transactional email endpoint.
func (b *Brevo) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("brevo: recipient required")
	}

	payload := brevoEmail{
		Sender:      brevoParty{Name: b.FromName, Email: b.FromAddress},
		To:          []brevoParty{{Name: msg.ToName, Email: msg.To}},
		Subject:     msg.Subject,
		HTMLContent: msg.HTML,
		TextContent: msg.Text,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("brevo: encode request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.BaseURL+"/smtp/email", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("brevo: create request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", b.APIKey)

	resp, err := b.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("brevo: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("brevo: send failed (%d): %s", resp.StatusCode, string(respBody))
	}
	return nil
}
