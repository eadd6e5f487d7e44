package models

// Response is the envelope shared by every API response.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// SaveUserRequest - POST /api/users, upsert after external sign-in
type SaveUserRequest struct {
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
}

// UpdateRoleRequest - PATCH /api/users/:email/role
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// CreateTicketRequest - POST /api/tickets
type CreateTicketRequest struct {
	Title         string   `json:"title" binding:"required"`
	FromLocation  string   `json:"fromLocation" binding:"required"`
	ToLocation    string   `json:"toLocation" binding:"required"`
	TransportType string   `json:"transportType" binding:"required"`
	PricePerUnit  int64    `json:"pricePerUnit" binding:"required,gt=0"`
	Quantity      int64    `json:"quantity" binding:"min=0"`
	Perks         []string `json:"perks"`
	ImageURL      string   `json:"imageURL"`
	DepartureDate string   `json:"departureDate" binding:"required"`
	DepartureTime string   `json:"departureTime" binding:"required"`
}

// UpdateTicketRequest - PATCH /api/tickets/:id, vendor edit of an
// unrejected ticket. Nil fields are left unchanged.
type UpdateTicketRequest struct {
	Title         *string   `json:"title"`
	FromLocation  *string   `json:"fromLocation"`
	ToLocation    *string   `json:"toLocation"`
	TransportType *string   `json:"transportType"`
	PricePerUnit  *int64    `json:"pricePerUnit"`
	Quantity      *int64    `json:"quantity"`
	Perks         *[]string `json:"perks"`
	ImageURL      *string   `json:"imageURL"`
	DepartureDate *string   `json:"departureDate"`
	DepartureTime *string   `json:"departureTime"`
}

// VerifyTicketRequest - PATCH /api/tickets/:id/verify
type VerifyTicketRequest struct {
	VerificationStatus string `json:"verificationStatus" binding:"required"`
}

// AdvertiseTicketRequest - PATCH /api/tickets/:id/advertise
type AdvertiseTicketRequest struct {
	IsAdvertised *bool `json:"isAdvertised" binding:"required"`
}

// TicketSearchQuery - GET /api/tickets browse parameters
type TicketSearchQuery struct {
	Query         string
	TransportType string
	SortPrice     string // "asc", "desc" or empty for newest first
	Page          int
	PageSize      int
}

// TicketSearchResult - paginated browse response
type TicketSearchResult struct {
	Tickets  []Ticket `json:"tickets"`
	Total    int64    `json:"total"`
	Page     int      `json:"page"`
	PageSize int      `json:"pageSize"`
}

// CreateBookingRequest - POST /api/bookings
type CreateBookingRequest struct {
	TicketID        string `json:"ticketId" binding:"required"`
	BookingQuantity int64  `json:"bookingQuantity" binding:"required,gt=0"`
}

// PayBookingRequest - PATCH /api/bookings/:id/pay
type PayBookingRequest struct {
	TransactionID string `json:"transactionId" binding:"required"`
}

// CreatePaymentIntentRequest - POST /api/create-payment-intent.
// The intent is sized server-side from the booking's total price; the
// client never supplies an amount.
type CreatePaymentIntentRequest struct {
	BookingID string `json:"bookingId" binding:"required"`
}

// CreatePaymentIntentResponse carries the processor's client secret back
// to the browser for the confirmation phase.
type CreatePaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// VendorStats - GET /api/stats/vendor/:email
type VendorStats struct {
	TotalRevenue      int64 `json:"totalRevenue"`
	TotalTicketsSold  int64 `json:"totalTicketsSold"`
	TotalTicketsAdded int64 `json:"totalTicketsAdded"`
	PendingBookings   int64 `json:"pendingBookings"`
}

// AdminStats - GET /api/stats/admin
type AdminStats struct {
	TotalUsers        int64 `json:"totalUsers"`
	TotalTickets      int64 `json:"totalTickets"`
	PendingTickets    int64 `json:"pendingTickets"`
	AdvertisedTickets int64 `json:"advertisedTickets"`
	TotalBookings     int64 `json:"totalBookings"`
	TotalRevenue      int64 `json:"totalRevenue"`
}
