package paymentprovider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/study-assistant/internal/lib/card"
	"github.com/magabrotheeeer/study-assistant/internal/models"
)

// Client HTTP-клиент внешнего платёжного API.
type Client struct {
	shopID     string
	secretKey  string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт клиент платёжного API по адресу apiURL.
func NewClient(apiURL, shopID, secretKey string) *Client {
	return &Client{
		shopID:     shopID,
		secretKey:  secretKey,
		apiURL:     strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, &buf)
	if err != nil {
		return nil, err
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.shopID + ":" + c.secretKey))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotence-Key", uuid.NewString())
	return req, nil
}

// CreatePayment отправляет запрос на создание платежа.
func (c *Client) CreatePayment(ctx context.Context, reqParams CreatePaymentRequest) (*CreatePaymentResponse, error) {
	const op = "paymentprovider.CreatePayment"
	req, err := c.newRequest(ctx, http.MethodPost, "/payments", reqParams)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}

	var paymentResp CreatePaymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&paymentResp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &paymentResp, nil
}

// Charge реализует Provider: создаёт платёж с немедленным списанием.
func (c *Client) Charge(ctx context.Context, charge models.Charge) (*models.ChargeResult, error) {
	const op = "paymentprovider.Charge"
	month, year, ok := card.ParseExpiry(charge.ExpiryDate)
	if !ok {
		return nil, fmt.Errorf("%s: invalid expiry date %q: %w", op, charge.ExpiryDate, models.ErrInvalidCard)
	}

	resp, err := c.CreatePayment(ctx, CreatePaymentRequest{
		Amount: Amount{
			Value:    formatCents(charge.AmountCents),
			Currency: charge.Currency,
		},
		Capture:     true,
		Description: charge.Description,
		PaymentMethodData: PaymentMethodData{
			Type: "bank_card",
			Card: BankCard{
				Number:      card.Normalize(charge.CardNumber),
				ExpiryMonth: month,
				ExpiryYear:  year,
				CSC:         charge.CVV,
			},
		},
		Metadata: map[string]string{"user_uid": charge.UserUID},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp.Status != StatusSucceeded {
		return nil, fmt.Errorf("%s: status %s: %w", op, resp.Status, models.ErrPaymentDeclined)
	}
	processed := resp.CreatedAt
	if processed.IsZero() {
		processed = time.Now().UTC()
	}
	return &models.ChargeResult{
		TransactionID: resp.ID,
		Status:        resp.Status,
		ProcessedAt:   processed,
	}, nil
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
