package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/reservations-api/internal/config"
)

// Client sends templated messages through the WhatsApp Cloud API (Graph API).
// Template names must be pre-approved in the Meta business account; free-form
// text cannot be sent to numbers outside the 24h customer-service window.
type Client struct {
	httpClient           *http.Client
	baseURL              string
	token                string
	phoneNumberID        string
	codeTemplate         string
	confirmationTemplate string
}

func NewClient(cfg *config.Config) (*Client, error) {
	if cfg.WhatsAppToken == "" || cfg.WhatsAppPhoneNumberID == "" {
		return nil, errors.New("WHATSAPP_TOKEN and WHATSAPP_PHONE_NUMBER_ID are required")
	}
	return &Client{
		httpClient:           &http.Client{Timeout: 10 * time.Second},
		baseURL:              cfg.WhatsAppBaseURL,
		token:                cfg.WhatsAppToken,
		phoneNumberID:        cfg.WhatsAppPhoneNumberID,
		codeTemplate:         cfg.CodeTemplate,
		confirmationTemplate: cfg.ConfirmationTemplate,
	}, nil
}

type templateMessage struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Template         template `json:"template"`
}

type template struct {
	Name       string      `json:"name"`
	Language   language    `json:"language"`
	Components []component `json:"components"`
}

type language struct {
	Code string `json:"code"`
}

type component struct {
	Type       string      `json:"type"`
	Parameters []parameter `json:"parameters"`
}

type parameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// SendCode delivers a one-time verification code.
func (c *Client) SendCode(ctx context.Context, to, code string) error {
	return c.sendTemplate(ctx, to, c.codeTemplate, code)
}

// SendConfirmation delivers a reservation confirmation with the guest name
// and a human-readable reservation time.
func (c *Client) SendConfirmation(ctx context.Context, to, name string, reservationTime time.Time) error {
	return c.sendTemplate(ctx, to, c.confirmationTemplate,
		name,
		reservationTime.Format("Monday, January 2, 2006 at 3:04 PM"),
	)
}

func (c *Client) sendTemplate(ctx context.Context, to, templateName string, params ...string) error {
	parameters := make([]parameter, len(params))
	for i, p := range params {
		parameters[i] = parameter{Type: "text", Text: p}
	}
	msg := templateMessage{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "template",
		Template: template{
			Name:     templateName,
			Language: language{Code: "en_US"},
			Components: []component{
				{Type: "body", Parameters: parameters},
			},
		},
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal template message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("whatsapp api returned %d: %s", resp.StatusCode, body)
	}
	return nil
}
