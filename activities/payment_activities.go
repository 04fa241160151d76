package activities

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
)

// PaymentClient talks to the payment-link service
type PaymentClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewPaymentClient creates a client for the payment-link service at baseURL
func NewPaymentClient(baseURL string) *PaymentClient {
	return &PaymentClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

// CreateLink asks the payment service for a UPI link
func (c *PaymentClient) CreateLink(ctx context.Context, linkReq models.PaymentLinkRequest) (models.PaymentLinkResponse, error) {
	jsonData, err := json.Marshal(linkReq)
	if err != nil {
		return models.PaymentLinkResponse{}, fmt.Errorf("failed to marshal payment link request: %w", err)
	}

	url := fmt.Sprintf("%s/payment-links", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return models.PaymentLinkResponse{}, fmt.Errorf("failed to create payment link request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.PaymentLinkResponse{}, fmt.Errorf("failed to call payment service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return models.PaymentLinkResponse{}, fmt.Errorf("payment service returned status %d: %s", resp.StatusCode, string(body))
	}

	var linkResp models.PaymentLinkResponse
	if err := json.NewDecoder(resp.Body).Decode(&linkResp); err != nil {
		return models.PaymentLinkResponse{}, fmt.Errorf("failed to decode payment link response: %w", err)
	}
	return linkResp, nil
}

// PaymentActivities contains the payment-related activities
type PaymentActivities struct {
	client *PaymentClient
}

// NewPaymentActivities creates a new PaymentActivities instance
func NewPaymentActivities(client *PaymentClient) *PaymentActivities {
	return &PaymentActivities{client: client}
}

// CreatePaymentLink requests a payment link for the given order
func (p *PaymentActivities) CreatePaymentLink(ctx context.Context, req models.PaymentLinkRequest) (models.PaymentLinkResponse, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Creating payment link", "order_id", req.OrderID, "amount", req.Amount)

	if req.Amount <= 0 {
		return models.PaymentLinkResponse{}, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("invalid payment amount: %.2f", req.Amount), "InvalidAmount", nil)
	}

	activity.RecordHeartbeat(ctx, "calling payment service")

	resp, err := p.client.CreateLink(ctx, req)
	if err != nil {
		return models.PaymentLinkResponse{}, err
	}

	activity.RecordHeartbeat(ctx, "payment link received")
	logger.Info("Payment link created successfully", "order_id", req.OrderID)
	return resp, nil
}
