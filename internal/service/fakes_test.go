package service

import (
	"context"
	"fmt"
	"sync"

	"nexticket/internal/apperr"
	"nexticket/internal/external"
	"nexticket/internal/models"
)

// In-memory stores mirroring the repository contracts, so the services can
// be exercised without Postgres.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
	err   error
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[string]*models.User)}
	for _, u := range users {
		s.users[u.Email] = u
	}
	return s
}

func (s *fakeUserStore) Upsert(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if existing, ok := s.users[user.Email]; ok {
		existing.DisplayName = user.DisplayName
		existing.PhotoURL = user.PhotoURL
		*user = *existing
		return nil
	}
	user.ID = fmt.Sprintf("u-%d", len(s.users)+1)
	s.users[user.Email] = user
	return nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	user, ok := s.users[email]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) List(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *fakeUserStore) UpdateRole(_ context.Context, email string, role models.Role) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[email]
	if !ok {
		return false, nil
	}
	user.Role = role
	return true, nil
}

func (s *fakeUserStore) MarkFraud(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[email]
	if !ok || user.Role != models.RoleVendor || user.IsFraud {
		return false, nil
	}
	user.IsFraud = true
	return true, nil
}

type fakeTicketStore struct {
	mu      sync.Mutex
	tickets map[string]*models.Ticket
	nextID  int
}

func newFakeTicketStore(tickets ...*models.Ticket) *fakeTicketStore {
	s := &fakeTicketStore{tickets: make(map[string]*models.Ticket)}
	for _, t := range tickets {
		s.tickets[t.ID] = t
	}
	return s
}

func (s *fakeTicketStore) Create(_ context.Context, t *models.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	t.ID = fmt.Sprintf("t-%d", s.nextID)
	copied := *t
	s.tickets[t.ID] = &copied
	return nil
}

func (s *fakeTicketStore) GetByID(_ context.Context, id string) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (s *fakeTicketStore) Update(_ context.Context, t *models.Ticket) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.tickets[t.ID]
	if !ok || stored.VerificationStatus == models.VerificationRejected {
		return false, nil
	}
	copied := *t
	s.tickets[t.ID] = &copied
	return true, nil
}

func (s *fakeTicketStore) UpdateVerification(_ context.Context, id string, status models.VerificationStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	if !ok || t.VerificationStatus != models.VerificationPending {
		return false, nil
	}
	t.VerificationStatus = status
	return true, nil
}

func (s *fakeTicketStore) SetAdvertised(_ context.Context, id string, desired bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if desired {
		advertised := 0
		for _, t := range s.tickets {
			if t.IsAdvertised {
				advertised++
			}
		}
		if advertised >= 6 {
			return apperr.Newf(apperr.KindSlotLimitExceeded,
				"all %d advertisement slots are taken", 6)
		}
	}
	t, ok := s.tickets[id]
	if !ok || t.VerificationStatus != models.VerificationApproved || t.IsAdvertised == desired {
		return apperr.New(apperr.KindInvalidStateTransition, "ticket cannot change advertised state")
	}
	t.IsAdvertised = desired
	return nil
}

func (s *fakeTicketStore) AdjustQuantity(_ context.Context, id string, delta int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	if !ok || t.Quantity+delta < 0 {
		return false, nil
	}
	t.Quantity += delta
	return true, nil
}

func (s *fakeTicketStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	if !ok || t.VerificationStatus == models.VerificationRejected {
		return false, nil
	}
	delete(s.tickets, id)
	return true, nil
}

func (s *fakeTicketStore) ListAdvertised(_ context.Context) ([]models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Ticket
	for _, t := range s.tickets {
		if t.IsAdvertised {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *fakeTicketStore) ListPending(_ context.Context) ([]models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Ticket
	for _, t := range s.tickets {
		if t.VerificationStatus == models.VerificationPending {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *fakeTicketStore) ListByVendor(_ context.Context, email string) ([]models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Ticket
	for _, t := range s.tickets {
		if t.VendorEmail == email {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *fakeTicketStore) ListLatest(_ context.Context, limit int) ([]models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
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

type fakeBookingStore struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
	nextID   int
}

func newFakeBookingStore(bookings ...*models.Booking) *fakeBookingStore {
	s := &fakeBookingStore{bookings: make(map[string]*models.Booking)}
	for _, b := range bookings {
		s.bookings[b.ID] = b
	}
	return s
}

func (s *fakeBookingStore) Create(_ context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	b.ID = fmt.Sprintf("b-%d", s.nextID)
	copied := *b
	s.bookings[b.ID] = &copied
	return nil
}

func (s *fakeBookingStore) GetByID(_ context.Context, id string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

func (s *fakeBookingStore) ListByUser(_ context.Context, email string) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Booking
	for _, b := range s.bookings {
		if b.UserEmail == email {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *fakeBookingStore) ListByVendor(_ context.Context, email string) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Booking
	for _, b := range s.bookings {
		if b.VendorEmail == email {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *fakeBookingStore) UpdateStatus(_ context.Context, id string, from, to models.BookingStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	return true, nil
}

func (s *fakeBookingStore) MarkPaid(_ context.Context, id, transactionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok || b.Status != models.BookingAccepted {
		return false, nil
	}
	b.Status = models.BookingPaid
	b.TransactionID = &transactionID
	return true, nil
}

func (s *fakeBookingStore) CountActiveByTicket(_ context.Context, ticketID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, b := range s.bookings {
		if b.TicketID == ticketID && (b.Status == models.BookingPending || b.Status == models.BookingAccepted) {
			n++
		}
	}
	return n, nil
}

type fakeTransactionStore struct {
	mu      sync.Mutex
	records []models.Transaction
	err     error
}

func (s *fakeTransactionStore) Create(_ context.Context, t *models.Transaction) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	for _, existing := range s.records {
		if existing.TransactionID == t.TransactionID {
			return false, nil
		}
	}
	s.records = append(s.records, *t)
	return true, nil
}

func (s *fakeTransactionStore) GetByTransactionID(_ context.Context, transactionID string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].TransactionID == transactionID {
			copied := s.records[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeTransactionStore) ListByUser(_ context.Context, email string) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Transaction
	for _, r := range s.records {
		if r.UserEmail == email {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakePaymentProcessor struct {
	mu        sync.Mutex
	intents   map[string]*external.PaymentIntent
	createErr error
	created   int
}

func newFakePaymentProcessor() *fakePaymentProcessor {
	return &fakePaymentProcessor{intents: make(map[string]*external.PaymentIntent)}
}

func (p *fakePaymentProcessor) CreateIntent(_ context.Context, amount int64, _ string) (*external.PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.createErr != nil {
		return nil, p.createErr
	}
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

func (p *fakePaymentProcessor) RetrieveIntent(_ context.Context, id string) (*external.PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	intent, ok := p.intents[id]
	if !ok {
		return nil, fmt.Errorf("no such payment_intent: %s", id)
	}
	copied := *intent
	return &copied, nil
}

// succeed marks an intent as confirmed, standing in for the browser-side
// card confirmation step.
func (p *fakePaymentProcessor) succeed(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.intents[id].Status = external.IntentStatusSucceeded
}

func (p *fakePaymentProcessor) put(intent *external.PaymentIntent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.intents[intent.ID] = intent
}

type fakePublisher struct {
	mu       sync.Mutex
	subjects []string
}

func (p *fakePublisher) Publish(subject string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	return nil
}

type fakeIndex struct {
	mu           sync.Mutex
	indexed      map[string]models.Ticket
	indexedFraud map[string]bool
	deleted      []string
	fraudVendors []string
	searchResult *models.TicketSearchResult
	searchErr    error
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{
		indexed:      make(map[string]models.Ticket),
		indexedFraud: make(map[string]bool),
	}
}

func (i *fakeIndex) IndexTicket(_ context.Context, t *models.Ticket, vendorFraud bool) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.indexed[t.ID] = *t
	i.indexedFraud[t.ID] = vendorFraud
	return nil
}

func (i *fakeIndex) DeleteTicket(_ context.Context, id string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.deleted = append(i.deleted, id)
	return nil
}

func (i *fakeIndex) MarkVendorFraud(_ context.Context, vendorEmail string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.fraudVendors = append(i.fraudVendors, vendorEmail)
	return nil
}

func (i *fakeIndex) SearchTickets(_ context.Context, _ models.TicketSearchQuery) (*models.TicketSearchResult, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.searchErr != nil {
		return nil, i.searchErr
	}
	return i.searchResult, nil
}

// Seed identities shared across the service tests.
func seedUsers() *fakeUserStore {
	return newFakeUserStore(
		&models.User{ID: "u-1", Email: "user@example.com", Role: models.RoleUser},
		&models.User{ID: "u-2", Email: "vendor@example.com", Role: models.RoleVendor},
		&models.User{ID: "u-3", Email: "admin@example.com", Role: models.RoleAdmin},
	)
}

func approvedTicket(id string) *models.Ticket {
	return &models.Ticket{
		ID:                 id,
		Title:              "Dhaka to Sylhet",
		FromLocation:       "Dhaka",
		ToLocation:         "Sylhet",
		TransportType:      models.TransportBus,
		PricePerUnit:       1500,
		Quantity:           10,
		Perks:              []string{"AC"},
		VendorEmail:        "vendor@example.com",
		VerificationStatus: models.VerificationApproved,
		DepartureDate:      "2030-01-01",
		DepartureTime:      "08:00",
	}
}
