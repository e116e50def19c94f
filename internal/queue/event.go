// Package queue defines message payloads exchanged over the message
// broker plus the publisher and background consumer that move them.
package queue

// Queue names. The routing key equals the queue name; everything goes
// through the default exchange.
const (
	BookingConfirmedQueue = "booking.confirmed"
	BookingCancelledQueue = "booking.cancelled"
)

// BookingConfirmedEvent is published when a booking is successfully
// confirmed. It contains enough information for downstream consumers
// to log and notify without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID        uint64   `json:"booking_id"`
	Reference        string   `json:"booking_reference"`
	UserID           uint64   `json:"user_id"`
	ShowID           uint64   `json:"show_id"`
	MovieTitle       string   `json:"movie_title"`
	TheaterName      string   `json:"theater_name"`
	City             string   `json:"city"`
	StartsAt         string   `json:"starts_at"`
	SeatLabels       []string `json:"seats"`
	TotalAmountCents uint32   `json:"total_amount_cents"`
	ConfirmedAt      string   `json:"confirmed_at"`
}

// BookingCancelledEvent is published when a booking is cancelled and
// its seats are released.
type BookingCancelledEvent struct {
	BookingID   uint64   `json:"booking_id"`
	Reference   string   `json:"booking_reference"`
	UserID      uint64   `json:"user_id"`
	ShowID      uint64   `json:"show_id"`
	MovieTitle  string   `json:"movie_title"`
	SeatLabels  []string `json:"seats"`
	RefundCents uint32   `json:"refund_cents"`
	Reason      string   `json:"reason,omitempty"`
	CancelledAt string   `json:"cancelled_at"`
}
