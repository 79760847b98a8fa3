package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"gigcity/internal/domain"
)

type gatewayHTTPClient struct {
	client  *http.Client
	baseURL string
	keyID   string
	secret  string
}

// NewGatewayClient returns a PaymentGateway that creates orders against the
// provider's orders API with basic auth.
func NewGatewayClient(client *http.Client, baseURL, keyID, secret string) domain.PaymentGateway {
	if client == nil {
		client = http.DefaultClient
	}
	return &gatewayHTTPClient{
		client:  client,
		baseURL: baseURL,
		keyID:   keyID,
		secret:  secret,
	}
}

type createOrderRequest struct {
	// Amount is in minor currency units, per the gateway contract.
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func (c *gatewayHTTPClient) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*domain.GatewayOrder, error) {
	body, err := json.Marshal(createOrderRequest{
		Amount:   amount.Mul(decimal.NewFromInt(100)).IntPart(),
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.keyID, c.secret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call payment gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("payment gateway returned status: %d", resp.StatusCode)
	}

	var data createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}
	if data.ID == "" {
		return nil, fmt.Errorf("payment gateway returned no order id")
	}
	return &domain.GatewayOrder{
		ID:       data.ID,
		Amount:   decimal.NewFromInt(data.Amount).Div(decimal.NewFromInt(100)),
		Currency: data.Currency,
	}, nil
}
