package payment

import (
	"errors"
	"net/http"
	"strconv"

	"rentlens/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings/:id/pay", h.Charge)
	rg.GET("/bookings/:id/payment", h.GetByBooking)
	rg.GET("/payments/:order_id", h.Poll)
}

// RegisterWebhook wires the unauthenticated gateway callback. The
// notification is authenticated by its signature, not a bearer token.
func (h *Handler) RegisterWebhook(rg *gin.RouterGroup) {
	rg.POST("/payments/notification", h.Notification)
}

func (h *Handler) Charge(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	p, err := h.service.Charge(c.Request.Context(), bookingID, c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"order_id":   p.OrderID,
		"amount":     p.Amount,
		"status":     p.Status,
		"qr_payload": p.QRPayload,
	})
}

func (h *Handler) GetByBooking(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	p, err := h.service.GetByBooking(c.Request.Context(), bookingID, c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payment": p})
}

func (h *Handler) Poll(c *gin.Context) {
	p, err := h.service.Poll(c.Request.Context(), c.Param("order_id"), c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payment": p})
}

func (h *Handler) Notification(c *gin.Context) {
	var n WebhookNotification
	if err := c.ShouldBindJSON(&n); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid notification body")
		return
	}

	if err := h.service.HandleNotification(c.Request.Context(), n); err != nil {
		switch err {
		case ErrInvalidSignature:
			response.Error(c, http.StatusForbidden, "INVALID_SIGNATURE", "Signature verification failed")
		case ErrAmountMismatch:
			response.Error(c, http.StatusBadRequest, "AMOUNT_MISMATCH", "Notification amount does not match the payment")
		case ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Unknown order")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process notification")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Payment not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not a party to this payment")
	case errors.Is(err, ErrAlreadyPaid):
		response.Conflict(c, "ALREADY_PAID", "Payment has already settled")
	case errors.Is(err, ErrGateway):
		response.Error(c, http.StatusBadGateway, "GATEWAY_ERROR", "Payment gateway request failed")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
