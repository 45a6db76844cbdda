package payment

import (
	"bytes"
	"context"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ChargeResult is what the service needs from a gateway charge: the
// scannable QR payload and the gateway's transaction id.
type ChargeResult struct {
	TransactionID string
	QRPayload     string
}

// StatusResult mirrors the gateway's status-check response fields the
// mapper consumes.
type StatusResult struct {
	TransactionID     string
	TransactionStatus string
}

type GatewayClient interface {
	ChargeQRIS(ctx context.Context, orderID string, amount float64, customerName string) (*ChargeResult, error)
	TransactionStatus(ctx context.Context, orderID string) (*StatusResult, error)
}

// MidtransClient talks to the Midtrans Core API (sandbox by default).
type MidtransClient struct {
	baseURL   string
	serverKey string
	http      *http.Client
}

func NewMidtransClient(baseURL, serverKey string, timeout time.Duration) *MidtransClient {
	return &MidtransClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		serverKey: serverKey,
		http:      &http.Client{Timeout: timeout},
	}
}

type chargeResponse struct {
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	StatusCode        string `json:"status_code"`
	StatusMessage     string `json:"status_message"`
	QRString          string `json:"qr_string"`
}

func (c *MidtransClient) ChargeQRIS(ctx context.Context, orderID string, amount float64, customerName string) (*ChargeResult, error) {
	body := map[string]any{
		"payment_type": "qris",
		"transaction_details": map[string]any{
			"order_id":     orderID,
			"gross_amount": amount,
		},
		"customer_details": map[string]any{
			"first_name": customerName,
		},
	}

	var resp chargeResponse
	if err := c.post(ctx, "/v2/charge", body, &resp); err != nil {
		return nil, err
	}
	if resp.QRString == "" {
		return nil, fmt.Errorf("%w: charge returned no QR payload (status %s: %s)", ErrGateway, resp.StatusCode, resp.StatusMessage)
	}

	return &ChargeResult{
		TransactionID: resp.TransactionID,
		QRPayload:     resp.QRString,
	}, nil
}

func (c *MidtransClient) TransactionStatus(ctx context.Context, orderID string) (*StatusResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/"+orderID+"/status", nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer res.Body.Close()

	var resp chargeResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	if resp.TransactionStatus == "" {
		return nil, fmt.Errorf("%w: status check failed (status %s: %s)", ErrGateway, resp.StatusCode, resp.StatusMessage)
	}

	return &StatusResult{
		TransactionID:     resp.TransactionID,
		TransactionStatus: resp.TransactionStatus,
	}, nil
}

func (c *MidtransClient) post(ctx context.Context, path string, body any, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer res.Body.Close()

	return json.NewDecoder(res.Body).Decode(out)
}

// The gateway uses HTTP Basic auth with the server key as username and
// an empty password.
func (c *MidtransClient) authorize(req *http.Request) {
	token := base64.StdEncoding.EncodeToString([]byte(c.serverKey + ":"))
	req.Header.Set("Authorization", "Basic "+token)
}

// NotificationSignature computes the expected webhook signature:
// sha512(order_id + status_code + gross_amount + server_key).
func NotificationSignature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}
