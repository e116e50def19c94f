package model

import "time"

// Booking status values. Transitions between them are validated by the
// service layer against an explicit whitelist; see service.CanTransition.
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
	BookingExpired   = "EXPIRED"
)

// Payment status values carried on both Booking and Payment.
const (
	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
	PaymentFailed    = "FAILED"
	PaymentRefunded  = "REFUNDED"
)

// Booking records a confirmed reservation of one or more seats for a
// show. All amounts are integer cents, computed once at creation and
// never recomputed afterwards; cancellation changes statuses only.
//
// Fields:
//  ID                 – primary key identifier.
//  Reference          – unique human-shareable booking reference.
//  UserID             – owning user.
//  ShowID             – show the seats belong to.
//  SeatLabels         – JSON array of booked seat labels.
//  SeatType           – tier of the booked seats (CLASSIC/PREMIUM/...).
//  TotalSeats         – number of seats in the booking.
//  SubtotalCents      – sum of seat prices.
//  ConvenienceCents   – fixed per-seat fee times TotalSeats.
//  TaxCents           – tax on the subtotal.
//  TotalCents         – subtotal + convenience fee + tax.
//  BookingStatus      – CONFIRMED, CANCELLED or EXPIRED.
//  PaymentStatus      – PENDING, COMPLETED, FAILED or REFUNDED.
//  BookedAt           – creation timestamp.
//  CancelledAt        – set when the booking is cancelled.
//  CancellationReason – free-text reason supplied on cancellation.
type Booking struct {
	ID                 uint64     // bookings.id
	Reference          string     // bookings.booking_reference
	UserID             uint64     // bookings.user_id
	ShowID             uint64     // bookings.show_id
	SeatLabels         string     // bookings.seat_labels (JSON array)
	SeatType           string     // bookings.seat_type
	TotalSeats         uint32     // bookings.total_seats
	SubtotalCents      uint32     // bookings.subtotal_cents
	ConvenienceCents   uint32     // bookings.convenience_cents
	TaxCents           uint32     // bookings.tax_cents
	TotalCents         uint32     // bookings.total_cents
	BookingStatus      string     // bookings.booking_status
	PaymentStatus      string     // bookings.payment_status
	BookedAt           time.Time  // bookings.booked_at
	CancelledAt        *time.Time // bookings.cancelled_at (nullable)
	CancellationReason *string    // bookings.cancellation_reason (nullable)
}

// Payment is the one-to-one payment stub attached to a booking. The
// gateway is a dummy that always verifies; the record still tracks the
// identifiers a real gateway integration would need.
type Payment struct {
	ID           uint64     // payments.id
	BookingID    uint64     // payments.booking_id
	Method       string     // payments.method (e.g. CARD, UPI)
	Gateway      string     // payments.gateway (always "DUMMY")
	OrderID      *string    // payments.gateway_order_id (nullable)
	TxnID        *string    // payments.gateway_txn_id (nullable)
	AmountCents  uint32     // payments.amount_cents
	Status       string     // payments.status
	PaidAt       *time.Time // payments.paid_at (nullable)
	RefundCents  *uint32    // payments.refund_cents (nullable)
	RefundedAt   *time.Time // payments.refunded_at (nullable)
	RefundReason *string    // payments.refund_reason (nullable)
	CreatedAt    time.Time  // payments.created_at
}

// Ticket is issued per booked seat. TicketNumber is unique; QRRef is a
// reference URL clients can render as a QR code themselves.
type Ticket struct {
	ID           uint64    // tickets.id
	BookingID    uint64    // tickets.booking_id
	TicketNumber string    // tickets.ticket_number
	SeatLabel    string    // tickets.seat_label
	SeatType     string    // tickets.seat_type
	PriceCents   uint32    // tickets.price_cents
	QRRef        string    // tickets.qr_ref
	IsUsed       bool      // tickets.is_used
	CreatedAt    time.Time // tickets.created_at
}
