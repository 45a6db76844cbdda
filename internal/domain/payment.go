package domain

import "time"

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentPaid       PaymentStatus = "paid"
	PaymentFailed     PaymentStatus = "failed"
	PaymentExpired    PaymentStatus = "expired"
	PaymentCancelled  PaymentStatus = "cancelled"
)

func (s PaymentStatus) Label() string {
	switch s {
	case PaymentPending:
		return "Waiting for payment"
	case PaymentProcessing:
		return "Processing"
	case PaymentPaid:
		return "Paid"
	case PaymentFailed:
		return "Failed"
	case PaymentExpired:
		return "Expired"
	case PaymentCancelled:
		return "Cancelled"
	}
	return string(s)
}

type PaymentMethod string

const (
	MethodQRIS PaymentMethod = "qris"
)

type Payment struct {
	ID          int64         `json:"id"`
	BookingID   int64         `json:"booking_id" validate:"required"`
	OrderID     string        `json:"order_id" gorm:"uniqueIndex"`
	Amount      float64       `json:"amount" validate:"required,gt=0"`
	Status      PaymentStatus `json:"status"`
	Method      PaymentMethod `json:"method"`
	QRPayload   string        `json:"qr_payload,omitempty" gorm:"type:text"`
	GatewayTxID string        `json:"gateway_tx_id,omitempty"`
	PaidAt      *time.Time    `json:"paid_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
