package controllers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"yoke_travel/internal/config"
	"yoke_travel/internal/gateway"
	"yoke_travel/internal/middleware"
	"yoke_travel/internal/models"
)

// setupRouterWithDB wires a per-test in-memory database and a router with the
// same paths the server registers. Route registration lives here rather than
// in the routes package to avoid an import cycle from in-package tests.
func setupRouterWithDB(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// Per-test in-memory database to avoid cross-test interference
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	config.SetDB(db)

	r := gin.New()

	auth := r.Group("/auth")
	auth.POST("/register", Register)
	auth.POST("/verify-otp", VerifyOtp)
	auth.POST("/resend-otp", ResendOtp)
	auth.POST("/login", Login)
	auth.POST("/forgot-password", ForgotPassword)
	auth.POST("/reset-password", ResetPassword)

	user := r.Group("/user", middleware.RequireAuth())
	user.GET("/profile", GetProfile)
	user.PUT("/profile", UpdateProfile)
	user.GET("/:userId", GetUserProfile)
	user.POST("/:userId/follow", FollowUser)

	wallet := r.Group("/wallet", middleware.RequireAuth())
	wallet.GET("/", GetWallet)
	wallet.POST("/deposit/order", CreateDepositOrder)
	wallet.POST("/deposit/verify", VerifyDeposit)
	wallet.POST("/withdraw", Withdraw)
	wallet.GET("/transactions", GetTransactions)
	wallet.GET("/transactions/:id", GetTransaction)

	referral := r.Group("/referral", middleware.RequireAuth())
	referral.GET("/link", GetReferralLink)
	referral.GET("/list", GetReferralList)

	trip := r.Group("/trips", middleware.RequireAuth())
	trip.POST("/", CreateTrip)
	trip.GET("/", GetAllTrips)
	trip.GET("/trending", GetTrendingTrips)
	trip.GET("/own", GetOwnTrips)
	trip.GET("/:id", GetTrip)
	trip.POST("/:id/view", AddTripView)
	trip.POST("/:id/like", ToggleLikeTrip)
	trip.GET("/:id/liked", IsTripLiked)
	trip.PUT("/:id", EditTrip)
	trip.DELETE("/:id", DeleteTrip)

	booking := r.Group("/bookings", middleware.RequireAuth())
	booking.POST("/", CreateBooking)
	booking.GET("/", GetUserBookings)
	booking.DELETE("/:id", CancelBooking)
	booking.GET("/trip/:tripId", GetBookingsForTrip)

	sub := r.Group("/subscription", middleware.RequireAuth())
	sub.GET("/", GetCurrentSubscription)
	sub.POST("/intent", CreatePaymentIntent)
	sub.POST("/confirm", ConfirmSubscription)
	sub.POST("/downgrade", DowngradeToFree)

	messages := r.Group("/messages", middleware.RequireAuth())
	messages.POST("/", SendMessage)
	messages.GET("/conversations", GetConversations)
	messages.GET("/:userId", GetMessages)
	messages.PUT("/:userId/read", MarkAsRead)

	kyc := r.Group("/kyc", middleware.RequireAuth())
	kyc.POST("/", SubmitKYC)
	kyc.GET("/status", GetKYCStatus)

	r.GET("/ws", HandleChatSocket)

	return r
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func httpDo(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

var testUserSeq uint64

// createTestUser inserts a verified user and returns it with a valid token.
func createTestUser(t *testing.T, email string) (models.User, string) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	testUserSeq++
	user := models.User{
		FullName:   "Test " + email,
		Email:      email,
		Phone:      "9999999999",
		Password:   string(hashed),
		IsVerified: true,
		ReferralID: fmt.Sprintf("YOKE%06d", testUserSeq),
	}
	require.NoError(t, config.DB.Create(&user).Error)
	token, err := middleware.GenerateToken(user.ID, user.Email)
	require.NoError(t, err)
	return user, token
}

// createTestTrip inserts a trip hosted by the given user.
func createTestTrip(t *testing.T, hostID uint, capacity int, start time.Time) models.Trip {
	t.Helper()
	trip := models.Trip{
		UserID:        hostID,
		TripName:      "Ladakh Circuit",
		Budget:        15000,
		Category:      "Adventure",
		TravellerType: "Group",
		TotalPeople:   capacity,
		Start:         models.TripPoint{Location: "Delhi", DateTime: start},
		End:           models.TripPoint{Location: "Leh", DateTime: start.Add(6 * 24 * time.Hour)},
	}
	require.NoError(t, config.DB.Create(&trip).Error)
	return trip
}

// fakeGateway satisfies gateway.Client for tests without network calls.
type fakeGateway struct {
	orders     int
	payments   map[string]*gateway.Payment
	orderErr   error
	lastAmount int64
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{payments: map[string]*gateway.Payment{}}
}

func (f *fakeGateway) CreateOrder(amountPaise int64, currency, receipt string, notes map[string]interface{}) (string, error) {
	if f.orderErr != nil {
		return "", f.orderErr
	}
	f.orders++
	f.lastAmount = amountPaise
	return fmt.Sprintf("order_test%d", f.orders), nil
}

func (f *fakeGateway) FetchPayment(paymentID string) (*gateway.Payment, error) {
	p, ok := f.payments[paymentID]
	if !ok {
		return nil, fmt.Errorf("payment %s not found", paymentID)
	}
	return p, nil
}

// useFakeGateway installs a fake client and restores the previous one.
func useFakeGateway(t *testing.T) *fakeGateway {
	t.Helper()
	prev := gateway.Get()
	fake := newFakeGateway()
	gateway.SetClient(fake)
	t.Cleanup(func() { gateway.SetClient(prev) })
	return fake
}

// signPayment computes the signature the gateway would attach, using the
// secret currently in the environment.
func signPayment(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(os.Getenv("RAZORPAY_KEY_SECRET")))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
