package api

import (
	"encoding/json"
	"io"
)

// FileUpload carries an attached image/poster for the multipart admin
// endpoints.
type FileUpload struct {
	Field   string
	Name    string
	Content io.Reader
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	AccessToken string `json:"access_token"`
}

type Tournament struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Venue         string          `json:"venue"`
	GmapsLink     string          `json:"gmaps_link"`
	Status        string          `json:"status"`
	Price         float64         `json:"price"`
	StartDate     string          `json:"start_date"`
	StartTime     string          `json:"start_time"`
	EndDate       string          `json:"end_date"`
	EndTime       string          `json:"end_time"`
	Capacity      int             `json:"capacity"`
	PosterURL     string          `json:"poster_url"`
	AcceptEntries bool            `json:"accept_entries"`
	BracketData   json.RawMessage `json:"bracket_data,omitempty"`
}

// TournamentEvent is a category within a tournament that participants
// register into.
type TournamentEvent struct {
	ID                  string  `json:"id"`
	TournamentID        string  `json:"tournament_id"`
	Name                string  `json:"name"`
	Category            string  `json:"category"`
	EntryFee            float64 `json:"entry_fee"`
	MaxParticipants     int     `json:"max_participants"`
	CurrentParticipants int     `json:"current_participants"`
}

// Full reports whether the event has no remaining spots. Selection of a
// full event is disabled client-side only; the server keeps the final say.
func (e TournamentEvent) Full() bool {
	return e.MaxParticipants > 0 && e.CurrentParticipants >= e.MaxParticipants
}

// UpdateTournamentSettingsRequest carries the entry-toggle and bracket
// payload. Nil fields are omitted and the server leaves them untouched.
type UpdateTournamentSettingsRequest struct {
	AcceptEntries *bool           `json:"accept_entries,omitempty"`
	BracketData   json.RawMessage `json:"bracket_data,omitempty"`
}

type tournamentSettingsResponse struct {
	Message    string     `json:"message"`
	Tournament Tournament `json:"tournament"`
}

type JoinTournamentRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	AcademyName     string `json:"academy_name,omitempty"`
	SelectedEventID string `json:"selected_event_id,omitempty"`
}

type JoinTournamentResponse struct {
	RegistrationID string `json:"registration_id"`
	Message        string `json:"message"`
}

type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url"`
}

type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type CreateOrderRequest struct {
	CustomerName string      `json:"customer_name"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	Address      string      `json:"address"`
	City         string      `json:"city"`
	ZipCode      string      `json:"zip_code"`
	Items        []OrderItem `json:"items"`
	TotalAmount  float64     `json:"total_amount"`
}

type CreateOrderResponse struct {
	OrderID string `json:"order_id"`
	Message string `json:"message"`
}

type Order struct {
	ID           string      `json:"id"`
	CustomerName string      `json:"customer_name"`
	Email        string      `json:"email"`
	Items        []OrderItem `json:"items"`
	TotalAmount  float64     `json:"total_amount"`
	Status       string      `json:"status"`
	CreatedAt    string      `json:"created_at"`
}

type InitiatePaymentRequest struct {
	Amount        float64 `json:"amount"`
	Email         string  `json:"email"`
	ReferenceID   string  `json:"reference_id"`
	ReferenceType string  `json:"reference_type"`
}

type InitiatePaymentResponse struct {
	PaymentID         string  `json:"payment_id"`
	TransactionID     string  `json:"transaction_id"`
	Amount            float64 `json:"amount"`
	VerificationToken string  `json:"verification_token"`
	Message           string  `json:"message"`
}

type VerifyPaymentRequest struct {
	PaymentID         string `json:"payment_id"`
	TransactionID     string `json:"transaction_id"`
	VerificationToken string `json:"verification_token"`
	PaymentReference  string `json:"payment_reference"`
}

type VerifyPaymentResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

type Payment struct {
	ID            string  `json:"id"`
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Status        string  `json:"status"`
	UserEmail     string  `json:"user_email"`
	ReferenceType string  `json:"reference_type"`
	CreatedAt     string  `json:"created_at"`
	VerifiedAt    string  `json:"verified_at"`
}

type AdminStats struct {
	TotalTournaments int     `json:"total_tournaments"`
	TotalPlayers     int     `json:"total_players"`
	TotalProducts    int     `json:"total_products"`
	TotalOrders      int     `json:"total_orders"`
	TotalRevenue     float64 `json:"total_revenue"`
	PendingPayments  int     `json:"pending_payments"`
}

type Registration struct {
	ID              string `json:"id"`
	TournamentID    string `json:"tournament_id"`
	ParticipantName string `json:"participant_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	AcademyName     string `json:"academy_name"`
	Status          string `json:"status"`
	JoinedAt        string `json:"joined_at"`
}

type CreateEventRequest struct {
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	EntryFee        float64 `json:"entry_fee"`
	MaxParticipants int     `json:"max_participants"`
}

type Bracket struct {
	ID           string            `json:"id"`
	TournamentID string            `json:"tournament_id"`
	BracketData  json.RawMessage   `json:"bracket_data"`
	Matches      []json.RawMessage `json:"matches"`
}

type CreateBracketRequest struct {
	TournamentID string          `json:"tournament_id"`
	BracketData  json.RawMessage `json:"bracket_data"`
}

type RecordMatchRequest struct {
	Match json.RawMessage `json:"match"`
}

type messageResponse struct {
	Message string `json:"message"`
}
