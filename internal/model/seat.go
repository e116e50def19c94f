package model

import "time"

// Seat status values. A seat moves AVAILABLE -> LOCKED -> BOOKED during
// a booking, back to AVAILABLE on cancellation or lock expiry, and to
// MAINTENANCE only through admin action.
const (
	SeatAvailable   = "AVAILABLE"
	SeatLocked      = "LOCKED"
	SeatBooked      = "BOOKED"
	SeatMaintenance = "MAINTENANCE"
)

// Seat type values. The first rows of a screen are PREMIUM, the rest
// CLASSIC; RECLINER and COUPLE exist for manually curated layouts.
const (
	SeatClassic  = "CLASSIC"
	SeatPremium  = "PREMIUM"
	SeatRecliner = "RECLINER"
	SeatCouple   = "COUPLE"
)

// Seat describes one bookable seat of a show. Seats are created in
// bulk when the show is scheduled and deleted with it. Label encodes
// row and column ("A1", "B12"); RowLabel and SeatColumn carry the same
// position split out for sorting and layout grouping.
//
// Invariant: BookingID is non-nil exactly when Status is BOOKED.
// LockedBy/LockedUntil are set only while Status is LOCKED.
type Seat struct {
	ID          uint64     // seats.id
	ShowID      uint64     // seats.show_id
	Label       string     // seats.seat_label (unique per show)
	RowLabel    string     // seats.row_label
	SeatColumn  uint32     // seats.seat_column (1-based)
	SeatType    string     // seats.seat_type
	PriceCents  uint32     // seats.price_cents
	Status      string     // seats.status
	BookingID   *uint64    // seats.booking_id (nullable)
	LockedBy    *uint64    // seats.locked_by (nullable)
	LockedUntil *time.Time // seats.locked_until (nullable)
	CreatedAt   time.Time  // seats.created_at
	UpdatedAt   time.Time  // seats.updated_at
}
