package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rentlens/internal/database"
	"rentlens/internal/domain"
	"rentlens/internal/middleware"
	"rentlens/internal/modules/admin"
	"rentlens/internal/modules/auth"
	"rentlens/internal/modules/booking"
	"rentlens/internal/modules/discovery"
	"rentlens/internal/modules/notification"
	"rentlens/internal/modules/payment"
	"rentlens/internal/modules/product"
	"rentlens/internal/modules/report"
	jwtsvc "rentlens/internal/pkg/jwt"
	"rentlens/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testServerKey = "SB-Mid-server-e2e-key"

// stubGateway stands in for the payment provider so the flow can run
// without network access. Settlement arrives via the webhook endpoint,
// exactly as in production.
type stubGateway struct{}

func (stubGateway) ChargeQRIS(_ context.Context, orderID string, _ float64, _ string) (*payment.ChargeResult, error) {
	return &payment.ChargeResult{
		TransactionID: "stub-tx-" + orderID,
		QRPayload:     "SANDBOX-QR-" + orderID,
	}, nil
}

func (stubGateway) TransactionStatus(_ context.Context, orderID string) (*payment.StatusResult, error) {
	return &payment.StatusResult{
		TransactionID:     "stub-tx-" + orderID,
		TransactionStatus: "pending",
	}, nil
}

type E2ETestSuite struct {
	router *gin.Engine
	db     *gorm.DB
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, database.Migrate(db))

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	reportRepo := repository.NewReportRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)

	hub := notification.NewHub()
	notificationService := notification.NewService(notificationRepo, hub)
	notificationHandler := notification.NewHandler(notificationService, hub, jwtService)

	authService := auth.NewService(userRepo, jwtService)
	authHandler := auth.NewHandler(authService)

	productService := product.NewService(productRepo)
	productHandler := product.NewHandler(productService)

	discoveryService := discovery.NewService(productRepo, 20)
	discoveryHandler := discovery.NewHandler(discoveryService)

	bookingService := booking.NewService(bookingRepo, productRepo, paymentRepo, notificationService, 25000)
	bookingHandler := booking.NewHandler(bookingService)

	paymentService := payment.NewService(paymentRepo, bookingRepo, userRepo, stubGateway{}, notificationService, testServerKey)
	paymentHandler := payment.NewHandler(paymentService)

	reportService := report.NewService(db, reportRepo, userRepo, productRepo)
	reportHandler := report.NewHandler(reportService)

	adminService := admin.NewService(userRepo, productRepo, bookingRepo, reportRepo)
	adminHandler := admin.NewHandler(adminService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")

	authHandler.RegisterRoutes(v1)
	paymentHandler.RegisterWebhook(v1)
	notificationHandler.RegisterWS(v1)

	protected := v1.Group("/")
	protected.Use(middleware.Auth(jwtService), middleware.BanGuard(userRepo))
	{
		authHandler.RegisterProtectedRoutes(protected)
		productHandler.RegisterRoutes(protected)
		discoveryHandler.RegisterRoutes(protected)
		bookingHandler.RegisterRoutes(protected)
		paymentHandler.RegisterRoutes(protected)
		reportHandler.RegisterRoutes(protected)
		notificationHandler.RegisterRoutes(protected)
	}

	adm := v1.Group("/admin")
	adm.Use(middleware.Auth(jwtService), middleware.AdminOnly())
	{
		adminHandler.RegisterRoutes(adm)
		reportHandler.RegisterAdminRoutes(adm)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	adminUser := &domain.User{
		Email:        "admin@test.com",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		Name:         "Admin User",
	}
	require.NoError(t, db.Create(adminUser).Error)

	return &E2ETestSuite{router: r, db: db}
}

func (s *E2ETestSuite) makeRequest(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) *TestResponse {
	t.Helper()
	var resp TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return &resp
}

func (s *E2ETestSuite) registerAndLogin(t *testing.T, email, name string) string {
	t.Helper()

	w := s.makeRequest(t, http.MethodPost, "/api/v1/auth/register", map[string]interface{}{
		"email":    email,
		"password": "password123",
		"name":     name,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, "register failed: %s", w.Body.String())

	w = s.makeRequest(t, http.MethodPost, "/api/v1/auth/login", map[string]interface{}{
		"email":    email,
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, "login failed: %s", w.Body.String())

	resp := parseResponse(t, w)
	token, ok := resp.Data["access_token"].(string)
	require.True(t, ok, "login response missing access_token")
	return token
}

func (s *E2ETestSuite) loginAdmin(t *testing.T) string {
	t.Helper()

	w := s.makeRequest(t, http.MethodPost, "/api/v1/auth/login", map[string]interface{}{
		"email":    "admin@test.com",
		"password": "admin123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	return parseResponse(t, w).Data["access_token"].(string)
}

func (s *E2ETestSuite) setLocation(t *testing.T, token string, lat, lon float64) {
	t.Helper()

	w := s.makeRequest(t, http.MethodPut, "/api/v1/profile", map[string]interface{}{
		"latitude":  lat,
		"longitude": lon,
	}, token)
	require.Equal(t, http.StatusOK, w.Code, "profile update failed: %s", w.Body.String())
}

func (s *E2ETestSuite) createProduct(t *testing.T, token, name string, price float64) int64 {
	t.Helper()

	w := s.makeRequest(t, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"category":      "camera",
		"name":          name,
		"price_per_day": price,
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, "create product failed: %s", w.Body.String())

	resp := parseResponse(t, w)
	p := resp.Data["product"].(map[string]interface{})
	return int64(p["id"].(float64))
}

func TestFullRentalFlow(t *testing.T) {
	s := setupTestSuite(t)

	// Owner in central Jakarta with a listed camera.
	ownerToken := s.registerAndLogin(t, "owner@test.com", "Dewi")
	s.setLocation(t, ownerToken, -6.2088, 106.8456)
	productID := s.createProduct(t, ownerToken, "Sony A7 III", 150000)

	// Renter a few km away.
	renterToken := s.registerAndLogin(t, "renter@test.com", "Andi")
	s.setLocation(t, renterToken, -6.1751, 106.8650)

	// Nearby search finds the camera with a distance attached.
	w := s.makeRequest(t, http.MethodGet, "/api/v1/products/nearby?lat=-6.1751&lon=106.8650&radius_km=20", nil, renterToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := parseResponse(t, w)
	products := resp.Data["products"].([]interface{})
	require.Len(t, products, 1)
	first := products[0].(map[string]interface{})
	assert.Greater(t, first["distance_km"].(float64), 0.0)
	assert.Less(t, first["distance_km"].(float64), 20.0)

	// Renter books three days, pickup.
	start := time.Now().UTC().AddDate(0, 0, 2).Format("2006-01-02T15:04:05Z07:00")
	end := time.Now().UTC().AddDate(0, 0, 5).Format("2006-01-02T15:04:05Z07:00")
	w = s.makeRequest(t, http.MethodPost, "/api/v1/bookings", map[string]interface{}{
		"product_id": productID,
		"start_date": start,
		"end_date":   end,
	}, renterToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp = parseResponse(t, w)
	b := resp.Data["booking"].(map[string]interface{})
	bookingID := int64(b["id"].(float64))
	assert.Equal(t, "pending", b["status"])
	assert.Equal(t, 450000.0, b["total_price"])

	// Confirmation before payment is rejected.
	w = s.makeRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/confirm", bookingID), nil, ownerToken)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "PAYMENT_NOT_COMPLETED", parseResponse(t, w).Error.Code)

	// Renter requests the QR payload.
	w = s.makeRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/pay", bookingID), nil, renterToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp = parseResponse(t, w)
	orderID := resp.Data["order_id"].(string)
	require.NotEmpty(t, resp.Data["qr_payload"])

	// Gateway settles the transaction via webhook.
	notif := map[string]interface{}{
		"order_id":           orderID,
		"transaction_id":     "tx-e2e-1",
		"transaction_status": "settlement",
		"status_code":        "200",
		"gross_amount":       "450000",
		"payment_type":       "qris",
		"signature_key":      payment.NotificationSignature(orderID, "200", "450000", testServerKey),
	}
	w = s.makeRequest(t, http.MethodPost, "/api/v1/payments/notification", notif, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// A forged signature is rejected.
	notif["signature_key"] = "forged"
	w = s.makeRequest(t, http.MethodPost, "/api/v1/payments/notification", notif, "")
	require.Equal(t, http.StatusForbidden, w.Code)

	// Payment is now visible to both parties as paid.
	w = s.makeRequest(t, http.MethodGet, fmt.Sprintf("/api/v1/bookings/%d/payment", bookingID), nil, ownerToken)
	require.Equal(t, http.StatusOK, w.Code)
	p := parseResponse(t, w).Data["payment"].(map[string]interface{})
	assert.Equal(t, "paid", p["status"])

	// Owner walks the booking through its lifecycle.
	for _, step := range []struct {
		action string
		status string
	}{
		{"confirm", "confirmed"},
		{"start", "active"},
		{"complete", "completed"},
	} {
		w = s.makeRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/%s", bookingID, step.action), nil, ownerToken)
		require.Equal(t, http.StatusOK, w.Code, "%s failed: %s", step.action, w.Body.String())
		got := parseResponse(t, w).Data["booking"].(map[string]interface{})
		assert.Equal(t, step.status, got["status"])
	}

	// Completed bookings are frozen.
	w = s.makeRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/cancel", bookingID), map[string]interface{}{
		"reason": "changed my mind",
	}, renterToken)
	require.Equal(t, http.StatusConflict, w.Code)

	// The booking lifecycle left notifications for the renter.
	w = s.makeRequest(t, http.MethodGet, "/api/v1/notifications", nil, renterToken)
	require.Equal(t, http.StatusOK, w.Code)
	notifs := parseResponse(t, w).Data["notifications"].([]interface{})
	assert.NotEmpty(t, notifs)
}

func TestReportModerationFlow(t *testing.T) {
	s := setupTestSuite(t)

	ownerToken := s.registerAndLogin(t, "owner@test.com", "Dewi")
	s.setLocation(t, ownerToken, -6.2088, 106.8456)
	productID := s.createProduct(t, ownerToken, "Broken Lens", 50000)

	reporterToken := s.registerAndLogin(t, "reporter@test.com", "Andi")

	// Reporter flags the listing.
	w := s.makeRequest(t, http.MethodPost, "/api/v1/reports", map[string]interface{}{
		"type":      "product",
		"target_id": productID,
		"reason":    "listing photos are stolen",
	}, reporterToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	rep := parseResponse(t, w).Data["report"].(map[string]interface{})
	reportID := int64(rep["id"].(float64))

	// Non-admins cannot reach moderation endpoints.
	w = s.makeRequest(t, http.MethodGet, "/api/v1/admin/reports", nil, reporterToken)
	require.Equal(t, http.StatusForbidden, w.Code)

	adminToken := s.loginAdmin(t)

	// Pending report shows up in the admin queue and statistics.
	w = s.makeRequest(t, http.MethodGet, "/api/v1/admin/statistics", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	stats := parseResponse(t, w).Data["statistics"].(map[string]interface{})
	assert.Equal(t, 1.0, stats["pending_reports"])

	// Ban-and-resolve bans the product owner and closes the report.
	w = s.makeRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/admin/reports/%d/ban", reportID), map[string]interface{}{
		"notes":      "verified the claim",
		"ban_reason": "stolen listing photos",
	}, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rep = parseResponse(t, w).Data["report"].(map[string]interface{})
	assert.Equal(t, "resolved", rep["status"])

	// Acting on the same report again conflicts.
	w = s.makeRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/admin/reports/%d/dismiss", reportID), map[string]interface{}{
		"notes": "second thoughts",
	}, adminToken)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ALREADY_REVIEWED", parseResponse(t, w).Error.Code)

	// The banned owner can still read but every mutating call is blocked.
	w = s.makeRequest(t, http.MethodGet, "/api/v1/products/mine", nil, ownerToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.makeRequest(t, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"category":      "camera",
		"name":          "Another Camera",
		"price_per_day": 100000,
	}, ownerToken)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "ACCOUNT_BANNED", parseResponse(t, w).Error.Code)

	// Unban restores write access.
	var bannedID int64
	require.NoError(t, s.db.Raw("SELECT id FROM users WHERE email = ?", "owner@test.com").Scan(&bannedID).Error)
	w = s.makeRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/admin/users/%d/unban", bannedID), nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.makeRequest(t, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"category":      "camera",
		"name":          "Another Camera",
		"price_per_day": 100000,
	}, ownerToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}
