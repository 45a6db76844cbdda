package payment

// WebhookNotification is the gateway's HTTP notification payload. All
// fields arrive as strings, including the amount.
type WebhookNotification struct {
	OrderID           string `json:"order_id" binding:"required"`
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status" binding:"required"`
	StatusCode        string `json:"status_code" binding:"required"`
	GrossAmount       string `json:"gross_amount" binding:"required"`
	SignatureKey      string `json:"signature_key" binding:"required"`
	PaymentType       string `json:"payment_type"`
}
