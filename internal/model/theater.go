package model

import "time"

// Theater represents a venue that hosts screenings. A theater contains
// one or more screens; shows are scheduled on a specific screen.
type Theater struct {
	ID        uint64    // theaters.id
	Name      string    // theaters.name
	City      string    // theaters.city
	Address   *string   // theaters.address (nullable)
	IsActive  bool      // theaters.is_active
	CreatedAt time.Time // theaters.created_at
	UpdatedAt time.Time // theaters.updated_at
}

// Screen represents an auditorium within a theater. TotalSeats drives
// seat materialization when a show is scheduled on the screen: the
// seats are laid out over a fixed number of rows.
//
// Fields:
//  ID           – primary key identifier.
//  TheaterID    – owning theater.
//  ScreenNumber – ordinal of the screen within the theater (unique per theater).
//  Name         – display name (e.g. "Screen 2").
//  TotalSeats   – seat capacity used to derive the row/column layout.
//  IsActive     – whether the screen is in service.
type Screen struct {
	ID           uint64    // screens.id
	TheaterID    uint64    // screens.theater_id
	ScreenNumber uint32    // screens.screen_number
	Name         string    // screens.name
	TotalSeats   uint32    // screens.total_seats
	IsActive     bool      // screens.is_active
	CreatedAt    time.Time // screens.created_at
	UpdatedAt    time.Time // screens.updated_at
}
