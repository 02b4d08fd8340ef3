package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/example/shopmate/pkg/config"
)

const defaultBrevoBaseURL = "https://api.brevo.com"

type Mail struct {
	SenderName  string
	SenderEmail string
	ToName      string
	ToEmail     string
	Subject     string
	HTML        string
}

type MailSender interface {
	SendMail(ctx context.Context, mail *Mail) error
}

// BrevoClient talks to the Brevo (Sendinblue) transactional-email API.
type BrevoClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewBrevoClient(cfg *config.MailConfig) *BrevoClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBrevoBaseURL
	}
	return &BrevoClient{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type brevoParty struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type brevoRequest struct {
	Sender      brevoParty   `json:"sender"`
	To          []brevoParty `json:"to"`
	Subject     string       `json:"subject"`
	HTMLContent string       `json:"htmlContent"`
}

func (c *BrevoClient) SendMail(ctx context.Context, mail *Mail) error {
	body, err := json.Marshal(brevoRequest{
		Sender:      brevoParty{Name: mail.SenderName, Email: mail.SenderEmail},
		To:          []brevoParty{{Name: mail.ToName, Email: mail.ToEmail}},
		Subject:     mail.Subject,
		HTMLContent: mail.HTML,
	})
	if err != nil {
		return fmt.Errorf("encode mail: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v3/smtp/email", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail provider returned %d: %s", resp.StatusCode, detail)
	}
	return nil
}
