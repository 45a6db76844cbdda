package booking

import "time"

type CreateBookingRequest struct {
	ProductID      int64     `json:"product_id" binding:"required"`
	StartDate      time.Time `json:"start_date" binding:"required"`
	EndDate        time.Time `json:"end_date" binding:"required"`
	DeliveryMethod string    `json:"delivery_method"`
	Notes          string    `json:"notes"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"required"`
}
