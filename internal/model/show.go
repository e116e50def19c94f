package model

import "time"

// Show status values.
const (
	ShowScheduled = "SCHEDULED"
	ShowCancelled = "CANCELLED"
	ShowFinished  = "FINISHED"
)

// Show represents a scheduled screening of a movie on a particular
// screen. Creating a show materializes one Seat row per position in
// the screen layout; prices are tiered by row using the two price
// fields below.
//
// AvailableSeats and BookedSeats are denormalized caches maintained in
// the same transaction as seat status changes. They are a best-effort
// secondary signal only; availability decisions always read the seat
// rows themselves.
//
// Fields:
//  ID                – primary key identifier.
//  MovieID           – movie being screened.
//  TheaterID         – theater hosting the show.
//  ScreenID          – screen within the theater.
//  ShowDate          – calendar date of the screening.
//  StartsAt          – when the show begins (UTC).
//  EndsAt            – StartsAt plus the movie duration.
//  PriceClassicCents – per-seat price for CLASSIC rows, in cents.
//  PricePremiumCents – per-seat price for PREMIUM rows, in cents.
//  AvailableSeats    – cached count of AVAILABLE seats.
//  BookedSeats       – cached JSON list of booked seat labels.
//  Status            – SCHEDULED, CANCELLED or FINISHED.
//  IsActive          – whether the show is bookable.
type Show struct {
	ID                uint64    // shows.id
	MovieID           uint64    // shows.movie_id
	TheaterID         uint64    // shows.theater_id
	ScreenID          uint64    // shows.screen_id
	ShowDate          time.Time // shows.show_date
	StartsAt          time.Time // shows.starts_at
	EndsAt            time.Time // shows.ends_at
	PriceClassicCents uint32    // shows.price_classic_cents
	PricePremiumCents uint32    // shows.price_premium_cents
	AvailableSeats    uint32    // shows.available_seats (cache)
	BookedSeats       string    // shows.booked_seats (cache, JSON array)
	Status            string    // shows.status
	IsActive          bool      // shows.is_active
	CreatedAt         time.Time // shows.created_at
	UpdatedAt         time.Time // shows.updated_at
}
