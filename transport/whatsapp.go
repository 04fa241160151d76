package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const DefaultWhatsAppBaseURL = "https://graph.facebook.com/v20.0"

// WhatsAppClient sends messages through the WhatsApp Cloud API
type WhatsAppClient struct {
	httpClient *http.Client
	baseURL    string
	phoneID    string
	token      string
	logger     *zap.Logger
}

// NewWhatsAppClient creates a Cloud API client for the given phone number id
func NewWhatsAppClient(baseURL, phoneID, token string, logger *zap.Logger) *WhatsAppClient {
	if baseURL == "" {
		baseURL = DefaultWhatsAppBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WhatsAppClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		phoneID:    phoneID,
		token:      token,
		logger:     logger,
	}
}

type outboundMessage struct {
	MessagingProduct string       `json:"messaging_product"`
	RecipientType    string       `json:"recipient_type,omitempty"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             *textBody    `json:"text,omitempty"`
	Image            *imageBody   `json:"image,omitempty"`
	Interactive      *interactive `json:"interactive,omitempty"`
}

type textBody struct {
	Body       string `json:"body"`
	PreviewURL bool   `json:"preview_url,omitempty"`
}

type imageBody struct {
	Link    string `json:"link"`
	Caption string `json:"caption,omitempty"`
}

type interactive struct {
	Type   string            `json:"type"`
	Body   textBody          `json:"body"`
	Action interactiveAction `json:"action"`
}

type interactiveAction struct {
	Name     string        `json:"name,omitempty"`
	Button   string        `json:"button,omitempty"`
	Buttons  []replyButton `json:"buttons,omitempty"`
	Sections []Section     `json:"sections,omitempty"`
}

type replyButton struct {
	Type  string `json:"type"`
	Reply Button `json:"reply"`
}

func (c *WhatsAppClient) SendText(ctx context.Context, to, text string) error {
	return c.send(ctx, outboundMessage{
		To:   to,
		Type: "text",
		Text: &textBody{Body: text, PreviewURL: true},
	})
}

func (c *WhatsAppClient) SendButtons(ctx context.Context, to, body string, buttons []Button) error {
	buttons = ClampButtons(buttons)
	if len(buttons) == 0 {
		return c.SendText(ctx, to, body)
	}
	replies := make([]replyButton, len(buttons))
	for i, b := range buttons {
		replies[i] = replyButton{Type: "reply", Reply: b}
	}
	err := c.send(ctx, outboundMessage{
		To:   to,
		Type: "interactive",
		Interactive: &interactive{
			Type:   "button",
			Body:   textBody{Body: body},
			Action: interactiveAction{Buttons: replies},
		},
	})
	if err != nil {
		c.logger.Warn("button message failed, sending text", zap.String("to", to), zap.Error(err))
		return c.SendText(ctx, to, ButtonsAsText(body, buttons))
	}
	return nil
}

// SendList sends an interactive list, falling back to numbered text if the
// API rejects it
func (c *WhatsAppClient) SendList(ctx context.Context, to, body, buttonLabel string, sections []Section) error {
	sections = ClampSections(sections)
	if len(sections) == 0 {
		return c.SendText(ctx, to, body)
	}
	err := c.send(ctx, outboundMessage{
		To:   to,
		Type: "interactive",
		Interactive: &interactive{
			Type: "list",
			Body: textBody{Body: body},
			Action: interactiveAction{
				Button:   Truncate(buttonLabel, MaxButtonTitleLen),
				Sections: sections,
			},
		},
	})
	if err != nil {
		c.logger.Warn("list message failed, sending text", zap.String("to", to), zap.Error(err))
		return c.SendText(ctx, to, ListAsText(body, sections))
	}
	return nil
}

func (c *WhatsAppClient) SendImage(ctx context.Context, to, imageURL, caption string) error {
	return c.send(ctx, outboundMessage{
		To:    to,
		Type:  "image",
		Image: &imageBody{Link: imageURL, Caption: caption},
	})
}

func (c *WhatsAppClient) RequestLocation(ctx context.Context, to, body string) error {
	return c.send(ctx, outboundMessage{
		To:   to,
		Type: "interactive",
		Interactive: &interactive{
			Type:   "location_request_message",
			Body:   textBody{Body: body},
			Action: interactiveAction{Name: "send_location"},
		},
	})
}

func (c *WhatsAppClient) send(ctx context.Context, msg outboundMessage) error {
	msg.MessagingProduct = "whatsapp"
	msg.RecipientType = "individual"

	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create message request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call messaging api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("messaging api returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
