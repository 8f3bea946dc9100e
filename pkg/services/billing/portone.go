package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/de-tools/relationship-roi/pkg/models/domain"
)

const DefaultPortOneURL = "https://api.portone.io/v2"

// PaymentClient looks up a payment at the payment provider.
type PaymentClient interface {
	GetPayment(ctx context.Context, paymentID string) (domain.Payment, error)
}

type PortOneClient struct {
	baseURL string
	secret  string
	client  *http.Client
}

func NewPortOneClient(baseURL, secret string) *PortOneClient {
	if baseURL == "" {
		baseURL = DefaultPortOneURL
	}
	return &PortOneClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  secret,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type portOnePayment struct {
	Status      string          `json:"status"`
	OrderName   string          `json:"orderName"`
	CustomData  json.RawMessage `json:"customData"`
	TotalAmount int64           `json:"totalAmount"`
	Amount      *struct {
		Total int64 `json:"total"`
	} `json:"amount"`
}

type customData struct {
	ProductID string `json:"productId"`
}

// productID prefers orderName. customData may be an object or a JSON encoded string.
func (p portOnePayment) productID() string {
	if p.OrderName != "" {
		return p.OrderName
	}
	if len(p.CustomData) == 0 {
		return ""
	}
	raw := []byte(p.CustomData)
	var encoded string
	if json.Unmarshal(raw, &encoded) == nil {
		raw = []byte(encoded)
	}
	var data customData
	if json.Unmarshal(raw, &data) != nil {
		return ""
	}
	return data.ProductID
}

func (p portOnePayment) paidAmount() int64 {
	if p.Amount != nil && p.Amount.Total != 0 {
		return p.Amount.Total
	}
	return p.TotalAmount
}

func (c *PortOneClient) GetPayment(ctx context.Context, paymentID string) (domain.Payment, error) {
	endpoint := fmt.Sprintf("%s/payments/%s", c.baseURL, url.PathEscape(paymentID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "PortOne "+c.secret)

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("portone request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("failed to read portone response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Payment{}, fmt.Errorf("portone api error (%d): %s", resp.StatusCode, string(body))
	}

	var payment portOnePayment
	if err := json.Unmarshal(body, &payment); err != nil {
		return domain.Payment{}, fmt.Errorf("failed to decode portone payment: %w", err)
	}
	return domain.Payment{
		ID:        paymentID,
		Status:    payment.Status,
		ProductID: payment.productID(),
		AmountWon: payment.paidAmount(),
	}, nil
}
