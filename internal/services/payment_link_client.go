package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// PaymentLinkClient клиент провайдера платежных ссылок
type PaymentLinkClient struct {
	apiURL string
	apiKey string
	client *http.Client
}

// NewPaymentLinkClient создает клиент провайдера платежных ссылок
func NewPaymentLinkClient(apiURL, apiKey string) *PaymentLinkClient {
	return &PaymentLinkClient{
		apiURL: apiURL,
		apiKey: apiKey,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type paymentLinkRequest struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Reference string  `json:"reference"`
}

type paymentLinkResponse struct {
	URL string `json:"url"`
}

// CreateLink создает платежную ссылку на указанную сумму
func (pc *PaymentLinkClient) CreateLink(amount float64, currency, reference string) (string, error) {
	if pc.apiURL == "" || pc.apiKey == "" {
		return "", fmt.Errorf("payment link provider is not configured")
	}

	requestBody, err := json.Marshal(paymentLinkRequest{
		Amount:    amount,
		Currency:  currency,
		Reference: reference,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequest("POST", pc.apiURL, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+pc.apiKey)

	resp, err := pc.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var linkResp paymentLinkResponse
	if err := json.Unmarshal(body, &linkResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if linkResp.URL == "" {
		return "", fmt.Errorf("provider returned empty link")
	}

	return linkResp.URL, nil
}
