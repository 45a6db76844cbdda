package payment

import (
	"strings"

	"rentlens/internal/domain"
)

// MapTransactionStatus converts a gateway transaction_status into the
// internal payment status. The mapping is total: webhook input is
// untrusted, so an unrecognized value degrades to pending instead of
// being treated as success or raising an error.
func MapTransactionStatus(transactionStatus string) domain.PaymentStatus {
	switch strings.ToLower(strings.TrimSpace(transactionStatus)) {
	case "capture", "settlement":
		return domain.PaymentPaid
	case "pending":
		return domain.PaymentPending
	case "deny", "cancel", "expire":
		return domain.PaymentFailed
	default:
		return domain.PaymentPending
	}
}
