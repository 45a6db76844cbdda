package repository

import (
	"context"
	"errors"
	"time"

	"rentlens/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID             int64      `gorm:"column:id;primaryKey"`
	ProductID      int64      `gorm:"column:product_id;index"`
	RenterID       int64      `gorm:"column:renter_id;index"`
	OwnerID        int64      `gorm:"column:owner_id;index"`
	StartDate      time.Time  `gorm:"column:start_date"`
	EndDate        time.Time  `gorm:"column:end_date"`
	TotalPrice     float64    `gorm:"column:total_price"`
	Status         string     `gorm:"column:status"`
	DeliveryMethod string     `gorm:"column:delivery_method"`
	DeliveryFee    float64    `gorm:"column:delivery_fee"`
	Notes          *string    `gorm:"column:notes"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
	CancelledAt    *time.Time `gorm:"column:cancelled_at"`
	CancelReason   *string    `gorm:"column:cancel_reason"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	var notes, cancelReason string
	if m.Notes != nil {
		notes = *m.Notes
	}
	if m.CancelReason != nil {
		cancelReason = *m.CancelReason
	}

	return &domain.Booking{
		ID:             m.ID,
		ProductID:      m.ProductID,
		RenterID:       m.RenterID,
		OwnerID:        m.OwnerID,
		StartDate:      m.StartDate,
		EndDate:        m.EndDate,
		TotalPrice:     m.TotalPrice,
		Status:         domain.BookingStatus(m.Status),
		DeliveryMethod: domain.DeliveryMethod(m.DeliveryMethod),
		DeliveryFee:    m.DeliveryFee,
		Notes:          notes,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		CancelledAt:    m.CancelledAt,
		CancelReason:   cancelReason,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	var notes, cancelReason *string
	if b.Notes != "" {
		v := b.Notes
		notes = &v
	}
	if b.CancelReason != "" {
		v := b.CancelReason
		cancelReason = &v
	}

	return bookingModel{
		ID:             b.ID,
		ProductID:      b.ProductID,
		RenterID:       b.RenterID,
		OwnerID:        b.OwnerID,
		StartDate:      b.StartDate,
		EndDate:        b.EndDate,
		TotalPrice:     b.TotalPrice,
		Status:         string(b.Status),
		DeliveryMethod: string(b.DeliveryMethod),
		DeliveryFee:    b.DeliveryFee,
		Notes:          notes,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
		CancelledAt:    b.CancelledAt,
		CancelReason:   cancelReason,
	}
}

// IsOverlapConstraint reports whether err is the Postgres exclusion
// constraint that prevents overlapping bookings for one product.
func IsOverlapConstraint(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23P01" && pgErr.ConstraintName == "idx_no_double_booking"
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBooking(m)
	return nil
}

// CreateTx inserts inside an existing transaction (booking + payment are
// created as one unit).
func (r *BookingRepository) CreateTx(tx *gorm.DB, b *domain.Booking) error {
	m := toBookingModel(b)
	if err := tx.Create(&m).Error; err != nil {
		return err
	}
	*b = *toDomainBooking(m)
	return nil
}

// CreateWithPayment inserts the booking and its pending payment as one
// transaction; a booking never exists without a payment row.
func (r *BookingRepository) CreateWithPayment(ctx context.Context, b *domain.Booking, p *domain.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.CreateTx(tx, b); err != nil {
			return err
		}
		p.BookingID = b.ID
		pm := toPaymentModel(p)
		if err := tx.Create(&pm).Error; err != nil {
			return err
		}
		*p = *toDomainPayment(pm)
		return nil
	})
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) GetByRenterID(ctx context.Context, renterID int64, limit, offset int) ([]domain.Booking, error) {
	return r.list(ctx, "renter_id = ?", renterID, limit, offset)
}

func (r *BookingRepository) GetByOwnerID(ctx context.Context, ownerID int64, limit, offset int) ([]domain.Booking, error) {
	return r.list(ctx, "owner_id = ?", ownerID, limit, offset)
}

func (r *BookingRepository) list(ctx context.Context, cond string, id int64, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where(cond, id).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

// UpdateStatusGuarded moves a booking from one status to another with an
// optimistic guard: if the row is no longer in the expected status the
// update affects zero rows and the caller sees a conflict, not a silent
// overwrite.
func (r *BookingRepository) UpdateStatusGuarded(ctx context.Context, bookingID int64, from, to domain.BookingStatus) (bool, error) {
	updates := map[string]any{
		"status":     string(to),
		"updated_at": time.Now().UTC(),
	}
	if to == domain.BookingCancelled {
		updates["cancelled_at"] = time.Now().UTC()
	}

	res := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND status = ?", bookingID, string(from)).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CancelGuarded is UpdateStatusGuarded with a stored reason.
func (r *BookingRepository) CancelGuarded(ctx context.Context, bookingID int64, from domain.BookingStatus, reason string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND status = ?", bookingID, string(from)).
		Updates(map[string]any{
			"status":        string(domain.BookingCancelled),
			"cancel_reason": reason,
			"cancelled_at":  time.Now().UTC(),
			"updated_at":    time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *BookingRepository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&bookingModel{}).Count(&n).Error
	return n, err
}

// HasOverlap reports whether an active booking already covers any part
// of the range for the product. Cancelled bookings do not block.
func (r *BookingRepository) HasOverlap(ctx context.Context, productID int64, start, end time.Time) (bool, error) {
	var cnt int64
	q := `
SELECT COUNT(1)
FROM bookings
WHERE product_id = ?
  AND status NOT IN ('cancelled', 'completed')
  AND start_date < ?
  AND end_date > ?
`
	tx := r.db.WithContext(ctx).Raw(q, productID, end, start).Scan(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}
