package service

import (
	"fmt"
	"time"

	"github.com/showtime/movie-booking/internal/model"
)

// Layout constants. Every screen gets five lettered rows; the front
// two are the PREMIUM tier.
const (
	layoutRows  = 5
	premiumRows = 2
)

// MaterializeSeats builds the seat rows for a newly scheduled show.
// Seats are spread across five rows A..E; rows A and B are PREMIUM at
// the premium price, the rest CLASSIC at the classic price. Rows fill
// front to back, so trailing rows come up short or empty when
// totalSeats does not divide evenly. All seats start AVAILABLE.
func MaterializeSeats(showID uint64, totalSeats, priceClassicCents, pricePremiumCents uint32) []model.Seat {
	if totalSeats == 0 {
		return []model.Seat{}
	}
	perRow := (totalSeats + layoutRows - 1) / layoutRows
	seats := make([]model.Seat, 0, totalSeats)
	placed := uint32(0)
	for row := 0; row < layoutRows && placed < totalSeats; row++ {
		rowLabel := string(rune('A' + row))
		seatType, price := model.SeatClassic, priceClassicCents
		if row < premiumRows {
			seatType, price = model.SeatPremium, pricePremiumCents
		}
		for col := uint32(1); col <= perRow && placed < totalSeats; col++ {
			seats = append(seats, model.Seat{
				ShowID:     showID,
				Label:      fmt.Sprintf("%s%d", rowLabel, col),
				RowLabel:   rowLabel,
				SeatColumn: col,
				SeatType:   seatType,
				PriceCents: price,
				Status:     model.SeatAvailable,
			})
			placed++
		}
	}
	return seats
}

// ComputeEndTime derives the show end from its start and the movie
// runtime.
func ComputeEndTime(startsAt time.Time, durationMin uint32) time.Time {
	return startsAt.Add(time.Duration(durationMin) * time.Minute)
}

// SeatRow is one row of the seat map returned to clients.
type SeatRow struct {
	Row   string       `json:"row"`
	Seats []model.Seat `json:"seats"`
}

// GroupByRow arranges a show's seats into rows for the layout
// response. Input must already be ordered by row then column, which is
// how the repository returns it.
func GroupByRow(seats []model.Seat) []SeatRow {
	rows := []SeatRow{}
	for _, s := range seats {
		if len(rows) == 0 || rows[len(rows)-1].Row != s.RowLabel {
			rows = append(rows, SeatRow{Row: s.RowLabel})
		}
		rows[len(rows)-1].Seats = append(rows[len(rows)-1].Seats, s)
	}
	return rows
}
