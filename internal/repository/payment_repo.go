package repository

import (
	"context"
	"time"

	"rentlens/internal/domain"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

type paymentModel struct {
	ID          int64      `gorm:"column:id;primaryKey"`
	BookingID   int64      `gorm:"column:booking_id;index"`
	OrderID     string     `gorm:"column:order_id;uniqueIndex"`
	Amount      float64    `gorm:"column:amount"`
	Status      string     `gorm:"column:status"`
	Method      string     `gorm:"column:method"`
	QRPayload   *string    `gorm:"column:qr_payload"`
	GatewayTxID *string    `gorm:"column:gateway_tx_id"`
	PaidAt      *time.Time `gorm:"column:paid_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (paymentModel) TableName() string { return "payments" }

func toDomainPayment(m paymentModel) *domain.Payment {
	var qr, txID string
	if m.QRPayload != nil {
		qr = *m.QRPayload
	}
	if m.GatewayTxID != nil {
		txID = *m.GatewayTxID
	}

	return &domain.Payment{
		ID:          m.ID,
		BookingID:   m.BookingID,
		OrderID:     m.OrderID,
		Amount:      m.Amount,
		Status:      domain.PaymentStatus(m.Status),
		Method:      domain.PaymentMethod(m.Method),
		QRPayload:   qr,
		GatewayTxID: txID,
		PaidAt:      m.PaidAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toPaymentModel(p *domain.Payment) paymentModel {
	var qr, txID *string
	if p.QRPayload != "" {
		v := p.QRPayload
		qr = &v
	}
	if p.GatewayTxID != "" {
		v := p.GatewayTxID
		txID = &v
	}

	return paymentModel{
		ID:          p.ID,
		BookingID:   p.BookingID,
		OrderID:     p.OrderID,
		Amount:      p.Amount,
		Status:      string(p.Status),
		Method:      string(p.Method),
		QRPayload:   qr,
		GatewayTxID: txID,
		PaidAt:      p.PaidAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (r *PaymentRepository) CreateTx(tx *gorm.DB, p *domain.Payment) error {
	m := toPaymentModel(p)
	if err := tx.Create(&m).Error; err != nil {
		return err
	}
	*p = *toDomainPayment(m)
	return nil
}

func (r *PaymentRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	var m paymentModel
	tx := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainPayment(m), nil
}

func (r *PaymentRepository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	var m paymentModel
	tx := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainPayment(m), nil
}

// MarkPaidIdempotent settles a payment exactly once. Returns false when
// the payment was already paid; a settled payment is never downgraded.
func (r *PaymentRepository) MarkPaidIdempotent(ctx context.Context, orderID, gatewayTxID string, paidAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&paymentModel{}).
		Where("order_id = ? AND status <> ?", orderID, string(domain.PaymentPaid)).
		Updates(map[string]any{
			"status":        string(domain.PaymentPaid),
			"gateway_tx_id": gatewayTxID,
			"paid_at":       paidAt,
			"updated_at":    time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// UpdateStatusIfNotPaid applies a non-paid status from the gateway
// without ever clobbering a settled payment.
func (r *PaymentRepository) UpdateStatusIfNotPaid(ctx context.Context, orderID string, status domain.PaymentStatus, gatewayTxID string) error {
	updates := map[string]any{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	}
	if gatewayTxID != "" {
		updates["gateway_tx_id"] = gatewayTxID
	}

	return r.db.WithContext(ctx).
		Model(&paymentModel{}).
		Where("order_id = ? AND status <> ?", orderID, string(domain.PaymentPaid)).
		Updates(updates).Error
}

func (r *PaymentRepository) SetQRPayload(ctx context.Context, orderID, qrPayload, gatewayTxID string) error {
	return r.db.WithContext(ctx).
		Model(&paymentModel{}).
		Where("order_id = ?", orderID).
		Updates(map[string]any{
			"qr_payload":    qrPayload,
			"gateway_tx_id": gatewayTxID,
			"updated_at":    time.Now().UTC(),
		}).Error
}
