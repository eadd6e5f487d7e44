package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexticket/internal/apperr"
	"nexticket/internal/external"
	"nexticket/internal/middleware"
	"nexticket/internal/models"
	"nexticket/internal/service"
)

const testSecret = "handlers-test-secret"

// In-memory stores backing the real services, so the tests exercise the
// full handler -> service -> store path over HTTP.

type memUserStore struct{ users map[string]*models.User }

func (s *memUserStore) Upsert(_ context.Context, u *models.User) error {
	if existing, ok := s.users[u.Email]; ok {
		existing.DisplayName = u.DisplayName
		existing.PhotoURL = u.PhotoURL
		*u = *existing
		return nil
	}
	u.ID = fmt.Sprintf("u-%d", len(s.users)+1)
	s.users[u.Email] = u
	return nil
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := s.users[email]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (s *memUserStore) List(_ context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *memUserStore) UpdateRole(_ context.Context, email string, role models.Role) (bool, error) {
	u, ok := s.users[email]
	if !ok {
		return false, nil
	}
	u.Role = role
	return true, nil
}

func (s *memUserStore) MarkFraud(_ context.Context, email string) (bool, error) {
	u, ok := s.users[email]
	if !ok || u.Role != models.RoleVendor || u.IsFraud {
		return false, nil
	}
	u.IsFraud = true
	return true, nil
}

type memTicketStore struct {
	tickets map[string]*models.Ticket
	nextID  int
}

func (s *memTicketStore) Create(_ context.Context, t *models.Ticket) error {
	s.nextID++
	t.ID = fmt.Sprintf("t-%d", s.nextID)
	copied := *t
	s.tickets[t.ID] = &copied
	return nil
}

func (s *memTicketStore) GetByID(_ context.Context, id string) (*models.Ticket, error) {
	t, ok := s.tickets[id]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (s *memTicketStore) Update(_ context.Context, t *models.Ticket) (bool, error) {
	stored, ok := s.tickets[t.ID]
	if !ok || stored.VerificationStatus == models.VerificationRejected {
		return false, nil
	}
	copied := *t
	s.tickets[t.ID] = &copied
	return true, nil
}

func (s *memTicketStore) UpdateVerification(_ context.Context, id string, status models.VerificationStatus) (bool, error) {
	t, ok := s.tickets[id]
	if !ok || t.VerificationStatus != models.VerificationPending {
		return false, nil
	}
	t.VerificationStatus = status
	return true, nil
}

func (s *memTicketStore) SetAdvertised(_ context.Context, id string, desired bool) error {
	if desired {
		advertised := 0
		for _, t := range s.tickets {
			if t.IsAdvertised {
				advertised++
			}
		}
		if advertised >= 6 {
			return apperr.Newf(apperr.KindSlotLimitExceeded, "all %d advertisement slots are taken", 6)
		}
	}
	t, ok := s.tickets[id]
	if !ok || t.VerificationStatus != models.VerificationApproved || t.IsAdvertised == desired {
		return apperr.New(apperr.KindInvalidStateTransition, "ticket cannot change advertised state")
	}
	t.IsAdvertised = desired
	return nil
}

func (s *memTicketStore) AdjustQuantity(_ context.Context, id string, delta int64) (bool, error) {
	t, ok := s.tickets[id]
	if !ok || t.Quantity+delta < 0 {
		return false, nil
	}
	t.Quantity += delta
	return true, nil
}

func (s *memTicketStore) Delete(_ context.Context, id string) (bool, error) {
	t, ok := s.tickets[id]
	if !ok || t.VerificationStatus == models.VerificationRejected {
		return false, nil
	}
	delete(s.tickets, id)
	return true, nil
}

func (s *memTicketStore) ListAdvertised(_ context.Context) ([]models.Ticket, error) {
	var out []models.Ticket
	for _, t := range s.tickets {
		if t.IsAdvertised {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *memTicketStore) ListPending(_ context.Context) ([]models.Ticket, error) {
	var out []models.Ticket
	for _, t := range s.tickets {
		if t.VerificationStatus == models.VerificationPending {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *memTicketStore) ListByVendor(_ context.Context, email string) ([]models.Ticket, error) {
	var out []models.Ticket
	for _, t := range s.tickets {
		if t.VendorEmail == email {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *memTicketStore) ListLatest(_ context.Context, limit int) ([]models.Ticket, error) {
	var out []models.Ticket
	for _, t := range s.tickets {
		if t.VerificationStatus == models.VerificationApproved {
			out = append(out, *t)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type memBookingStore struct {
	bookings map[string]*models.Booking
	nextID   int
}

func (s *memBookingStore) Create(_ context.Context, b *models.Booking) error {
	s.nextID++
	b.ID = fmt.Sprintf("b-%d", s.nextID)
	copied := *b
	s.bookings[b.ID] = &copied
	return nil
}

func (s *memBookingStore) GetByID(_ context.Context, id string) (*models.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

func (s *memBookingStore) ListByUser(_ context.Context, email string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range s.bookings {
		if b.UserEmail == email {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *memBookingStore) ListByVendor(_ context.Context, email string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range s.bookings {
		if b.VendorEmail == email {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *memBookingStore) UpdateStatus(_ context.Context, id string, from, to models.BookingStatus) (bool, error) {
	b, ok := s.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	return true, nil
}

func (s *memBookingStore) MarkPaid(_ context.Context, id, transactionID string) (bool, error) {
	b, ok := s.bookings[id]
	if !ok || b.Status != models.BookingAccepted {
		return false, nil
	}
	b.Status = models.BookingPaid
	b.TransactionID = &transactionID
	return true, nil
}

func (s *memBookingStore) CountActiveByTicket(_ context.Context, ticketID string) (int64, error) {
	var n int64
	for _, b := range s.bookings {
		if b.TicketID == ticketID && (b.Status == models.BookingPending || b.Status == models.BookingAccepted) {
			n++
		}
	}
	return n, nil
}

type memTransactionStore struct{ records []models.Transaction }

func (s *memTransactionStore) Create(_ context.Context, t *models.Transaction) (bool, error) {
	for _, r := range s.records {
		if r.TransactionID == t.TransactionID {
			return false, nil
		}
	}
	s.records = append(s.records, *t)
	return true, nil
}

func (s *memTransactionStore) GetByTransactionID(_ context.Context, transactionID string) (*models.Transaction, error) {
	for i := range s.records {
		if s.records[i].TransactionID == transactionID {
			copied := s.records[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memTransactionStore) ListByUser(_ context.Context, email string) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, r := range s.records {
		if r.UserEmail == email {
			out = append(out, r)
		}
	}
	return out, nil
}

type memStatsStore struct{}

func (memStatsStore) VendorStats(_ context.Context, _ string) (*models.VendorStats, error) {
	return &models.VendorStats{TotalRevenue: 4500, TotalTicketsSold: 3}, nil
}

func (memStatsStore) AdminStats(_ context.Context) (*models.AdminStats, error) {
	return &models.AdminStats{TotalUsers: 3}, nil
}

type memPayments struct {
	intents map[string]*external.PaymentIntent
	created int
}

func (p *memPayments) CreateIntent(_ context.Context, amount int64, _ string) (*external.PaymentIntent, error) {
	p.created++
	id := fmt.Sprintf("pi_%d", p.created)
	intent := &external.PaymentIntent{
		ID:           id,
		ClientSecret: id + "_secret",
		Amount:       amount,
		Status:       "requires_payment_method",
	}
	p.intents[id] = intent
	return intent, nil
}

func (p *memPayments) RetrieveIntent(_ context.Context, id string) (*external.PaymentIntent, error) {
	intent, ok := p.intents[id]
	if !ok {
		return nil, fmt.Errorf("no such payment_intent: %s", id)
	}
	copied := *intent
	return &copied, nil
}

type fixture struct {
	router   *gin.Engine
	tickets  *memTicketStore
	bookings *memBookingStore
	payments *memPayments
}

func newFixture() *fixture {
	gin.SetMode(gin.TestMode)

	f := &fixture{
		tickets:  &memTicketStore{tickets: make(map[string]*models.Ticket)},
		bookings: &memBookingStore{bookings: make(map[string]*models.Booking)},
		payments: &memPayments{intents: make(map[string]*external.PaymentIntent)},
	}

	users := &memUserStore{users: map[string]*models.User{
		"user@example.com":   {ID: "u-1", Email: "user@example.com", Role: models.RoleUser},
		"vendor@example.com": {ID: "u-2", Email: "vendor@example.com", Role: models.RoleVendor},
		"admin@example.com":  {ID: "u-3", Email: "admin@example.com", Role: models.RoleAdmin},
	}}

	services := service.NewServices(service.Deps{
		Users:        users,
		Tickets:      f.tickets,
		Bookings:     f.bookings,
		Transactions: &memTransactionStore{},
		Stats:        memStatsStore{},
		Payments:     f.payments,
	})

	h := NewHandlers(services)

	router := gin.New()
	api := router.Group("/api")
	api.Use(middleware.Identity(testSecret))
	{
		api.POST("/users", h.SaveUser)
		api.GET("/users/:email", h.GetUser)
		api.PATCH("/users/:email/role", h.UpdateUserRole)
		api.PATCH("/users/:email/fraud", h.MarkUserFraud)

		api.GET("/tickets/advertised", h.AdvertisedTickets)
		api.GET("/tickets/pending", h.PendingTickets)
		api.GET("/tickets/:id", h.GetTicket)
		api.POST("/tickets", h.CreateTicket)
		api.PATCH("/tickets/:id/verify", h.VerifyTicket)
		api.PATCH("/tickets/:id/advertise", h.AdvertiseTicket)
		api.DELETE("/tickets/:id", h.DeleteTicket)

		api.POST("/bookings", h.CreateBooking)
		api.GET("/bookings/user/:email", h.UserBookings)
		api.PATCH("/bookings/:id/accept", h.AcceptBooking)
		api.PATCH("/bookings/:id/reject", h.RejectBooking)
		api.PATCH("/bookings/:id/pay", h.PayBooking)

		api.POST("/create-payment-intent", h.CreatePaymentIntent)
		api.GET("/stats/vendor/:email", h.VendorStats)
		api.GET("/stats/admin", h.AdminStats)
	}
	f.router = router

	return f
}

func (f *fixture) seedApprovedTicket(id string) {
	f.tickets.tickets[id] = &models.Ticket{
		ID:                 id,
		Title:              "Dhaka to Sylhet",
		FromLocation:       "Dhaka",
		ToLocation:         "Sylhet",
		TransportType:      models.TransportBus,
		PricePerUnit:       1500,
		Quantity:           10,
		VendorEmail:        "vendor@example.com",
		VerificationStatus: models.VerificationApproved,
		DepartureDate:      "2030-01-01",
		DepartureTime:      "08:00",
	}
}

func signToken(t *testing.T, email string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": email})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func (f *fixture) do(t *testing.T, method, path, email string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if email != "" {
		req.Header.Set("Authorization", "Bearer "+signToken(t, email))
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) models.Response {
	t.Helper()
	var resp models.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAnonymousCanBrowse(t *testing.T) {
	f := newFixture()
	f.seedApprovedTicket("t-1")
	f.tickets.tickets["t-1"].IsAdvertised = true

	w := f.do(t, http.MethodGet, "/api/tickets/advertised", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)
}

func TestAnonymousCannotCreateTicket(t *testing.T) {
	f := newFixture()

	w := f.do(t, http.MethodPost, "/api/tickets", "", gin.H{
		"title":         "x",
		"fromLocation":  "a",
		"toLocation":    "b",
		"transportType": "Bus",
		"pricePerUnit":  100,
		"quantity":      1,
		"departureDate": "2030-01-01",
		"departureTime": "08:00",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, decode(t, w).Success)
}

func TestMalformedBearerTokenRejected(t *testing.T) {
	f := newFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/tickets/advertised", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/tickets/advertised", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTokenSignedWithWrongSecretRejected(t *testing.T) {
	f := newFixture()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": "user@example.com"})
	signed, err := token.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/tickets/advertised", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateTicketAsVendor(t *testing.T) {
	f := newFixture()

	w := f.do(t, http.MethodPost, "/api/tickets", "vendor@example.com", gin.H{
		"title":         "Dhaka to Chittagong",
		"fromLocation":  "Dhaka",
		"toLocation":    "Chittagong",
		"transportType": "Train",
		"pricePerUnit":  2000,
		"quantity":      20,
		"departureDate": "2030-03-01",
		"departureTime": "09:30",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decode(t, w)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]any)
	assert.Equal(t, "pending", data["verificationStatus"])
}

func TestCreateTicketWrongRoleForbidden(t *testing.T) {
	f := newFixture()

	w := f.do(t, http.MethodPost, "/api/tickets", "user@example.com", gin.H{
		"title":         "x",
		"fromLocation":  "a",
		"toLocation":    "b",
		"transportType": "Bus",
		"pricePerUnit":  100,
		"quantity":      1,
		"departureDate": "2030-01-01",
		"departureTime": "08:00",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NotEmpty(t, decode(t, w).Message)
}

func TestCreateTicketValidation(t *testing.T) {
	f := newFixture()

	// Missing required fields never reach the service.
	w := f.do(t, http.MethodPost, "/api/tickets", "vendor@example.com", gin.H{"title": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/api/tickets", "vendor@example.com", gin.H{
		"title":         "x",
		"fromLocation":  "a",
		"toLocation":    "b",
		"transportType": "Bus",
		"pricePerUnit":  0,
		"quantity":      1,
		"departureDate": "2030-01-01",
		"departureTime": "08:00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyTicketFlow(t *testing.T) {
	f := newFixture()
	f.seedApprovedTicket("t-1")
	f.tickets.tickets["t-1"].VerificationStatus = models.VerificationPending

	w := f.do(t, http.MethodPatch, "/api/tickets/t-1/verify", "admin@example.com",
		gin.H{"verificationStatus": "approved"})
	require.Equal(t, http.StatusOK, w.Code)

	// Re-deciding a decided ticket conflicts.
	w = f.do(t, http.MethodPatch, "/api/tickets/t-1/verify", "admin@example.com",
		gin.H{"verificationStatus": "rejected"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Non-admins never get to decide.
	w = f.do(t, http.MethodPatch, "/api/tickets/t-1/verify", "vendor@example.com",
		gin.H{"verificationStatus": "approved"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdvertiseSlotCapConflict(t *testing.T) {
	f := newFixture()
	for i := 1; i <= 7; i++ {
		id := fmt.Sprintf("t-%d", i)
		f.seedApprovedTicket(id)
		f.tickets.tickets[id].IsAdvertised = i <= 6
	}

	w := f.do(t, http.MethodPatch, "/api/tickets/t-7/advertise", "admin@example.com",
		gin.H{"isAdvertised": true})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, http.MethodPatch, "/api/tickets/t-1/advertise", "admin@example.com",
		gin.H{"isAdvertised": false})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPatch, "/api/tickets/t-7/advertise", "admin@example.com",
		gin.H{"isAdvertised": true})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetTicketNotFound(t *testing.T) {
	f := newFixture()

	w := f.do(t, http.MethodGet, "/api/tickets/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, decode(t, w).Success)
}

func TestBookingLifecycleOverHTTP(t *testing.T) {
	f := newFixture()
	f.seedApprovedTicket("t-1")

	w := f.do(t, http.MethodPost, "/api/bookings", "user@example.com",
		gin.H{"ticketId": "t-1", "bookingQuantity": 2})
	require.Equal(t, http.StatusCreated, w.Code)

	data := decode(t, w).Data.(map[string]any)
	bookingID := data["id"].(string)
	assert.Equal(t, "pending", data["status"])
	assert.EqualValues(t, 3000, data["totalPrice"])

	// Paying a pending booking conflicts.
	w = f.do(t, http.MethodPatch, "/api/bookings/"+bookingID+"/pay", "user@example.com",
		gin.H{"transactionId": "pi_1"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, http.MethodPatch, "/api/bookings/"+bookingID+"/accept", "vendor@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPost, "/api/create-payment-intent", "user@example.com",
		gin.H{"bookingId": bookingID})
	require.Equal(t, http.StatusOK, w.Code)
	intentData := decode(t, w).Data.(map[string]any)
	assert.NotEmpty(t, intentData["clientSecret"])

	f.payments.intents["pi_1"].Status = external.IntentStatusSucceeded

	w = f.do(t, http.MethodPatch, "/api/bookings/"+bookingID+"/pay", "user@example.com",
		gin.H{"transactionId": "pi_1"})
	require.Equal(t, http.StatusOK, w.Code)

	paid := decode(t, w).Data.(map[string]any)
	assert.Equal(t, "paid", paid["status"])
	assert.Equal(t, "pi_1", paid["transactionId"])
}

func TestRejectedBookingCannotBePaid(t *testing.T) {
	f := newFixture()
	f.seedApprovedTicket("t-1")

	w := f.do(t, http.MethodPost, "/api/bookings", "user@example.com",
		gin.H{"ticketId": "t-1", "bookingQuantity": 1})
	require.Equal(t, http.StatusCreated, w.Code)
	bookingID := decode(t, w).Data.(map[string]any)["id"].(string)

	w = f.do(t, http.MethodPatch, "/api/bookings/"+bookingID+"/reject", "vendor@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPatch, "/api/bookings/"+bookingID+"/pay", "user@example.com",
		gin.H{"transactionId": "pi_1"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBookingsOfOtherUsersHidden(t *testing.T) {
	f := newFixture()
	f.seedApprovedTicket("t-1")

	w := f.do(t, http.MethodPost, "/api/bookings", "user@example.com",
		gin.H{"ticketId": "t-1", "bookingQuantity": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, http.MethodGet, "/api/bookings/user/user@example.com", "vendor@example.com", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, http.MethodGet, "/api/bookings/user/user@example.com", "admin@example.com", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStatsEndpoints(t *testing.T) {
	f := newFixture()

	w := f.do(t, http.MethodGet, "/api/stats/vendor/vendor@example.com", "vendor@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]any)
	assert.EqualValues(t, 4500, data["totalRevenue"])

	w = f.do(t, http.MethodGet, "/api/stats/admin", "vendor@example.com", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, http.MethodGet, "/api/stats/admin", "admin@example.com", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSaveUserUpsert(t *testing.T) {
	f := newFixture()

	w := f.do(t, http.MethodPost, "/api/users", "", gin.H{
		"email":       "new@example.com",
		"displayName": "New User",
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]any)
	assert.Equal(t, "user", data["role"])

	// Re-saving an existing profile keeps the assigned role.
	w = f.do(t, http.MethodPost, "/api/users", "", gin.H{
		"email":       "vendor@example.com",
		"displayName": "Renamed",
	})
	require.Equal(t, http.StatusOK, w.Code)
	data = decode(t, w).Data.(map[string]any)
	assert.Equal(t, "vendor", data["role"])
}

func TestUpdateUserRoleAdminOnly(t *testing.T) {
	f := newFixture()

	w := f.do(t, http.MethodPatch, "/api/users/user@example.com/role", "vendor@example.com",
		gin.H{"role": "vendor"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, http.MethodPatch, "/api/users/user@example.com/role", "admin@example.com",
		gin.H{"role": "vendor"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMarkFraudSuppressesVendor(t *testing.T) {
	f := newFixture()
	f.seedApprovedTicket("t-1")

	w := f.do(t, http.MethodPatch, "/api/users/vendor@example.com/fraud", "admin@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// A flagged vendor cannot submit new tickets.
	w = f.do(t, http.MethodPost, "/api/tickets", "vendor@example.com", gin.H{
		"title":         "x",
		"fromLocation":  "a",
		"toLocation":    "b",
		"transportType": "Bus",
		"pricePerUnit":  100,
		"quantity":      1,
		"departureDate": "2030-01-01",
		"departureTime": "08:00",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
