package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingActive    BookingStatus = "active"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Label() string {
	switch s {
	case BookingPending:
		return "Waiting for confirmation"
	case BookingConfirmed:
		return "Confirmed"
	case BookingActive:
		return "Rental in progress"
	case BookingCompleted:
		return "Completed"
	case BookingCancelled:
		return "Cancelled"
	}
	return string(s)
}

// Terminal reports whether no further transition is allowed.
func (s BookingStatus) Terminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

type DeliveryMethod string

const (
	DeliveryPickup  DeliveryMethod = "pickup"
	DeliveryCourier DeliveryMethod = "courier"
)

type Booking struct {
	ID             int64          `json:"id"`
	ProductID      int64          `json:"product_id" validate:"required"`
	RenterID       int64          `json:"renter_id" validate:"required"`
	OwnerID        int64          `json:"owner_id" validate:"required"`
	StartDate      time.Time      `json:"start_date" validate:"required"`
	EndDate        time.Time      `json:"end_date" validate:"required"`
	TotalPrice     float64        `json:"total_price" validate:"required,gte=0"`
	Status         BookingStatus  `json:"status"`
	DeliveryMethod DeliveryMethod `json:"delivery_method"`
	DeliveryFee    float64        `json:"delivery_fee"`
	Notes          string         `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	CancelledAt    *time.Time     `json:"cancelled_at,omitempty"`
	CancelReason   string         `json:"cancel_reason,omitempty" gorm:"type:text"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Renter  *User    `json:"renter,omitempty" gorm:"foreignKey:RenterID"`
}

// RentalDays is the number of whole days charged for the range.
// 2024-01-01 to 2024-01-04 is 3 days.
func (b *Booking) RentalDays() int {
	return int(b.EndDate.Sub(b.StartDate).Hours() / 24)
}
