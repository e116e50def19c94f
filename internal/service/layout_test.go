package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showtime/movie-booking/internal/model"
)

func TestMaterializeSeatsEvenSplit(t *testing.T) {
	seats := MaterializeSeats(9, 50, 20000, 35000)
	require.Len(t, seats, 50)

	// Ten seats per row, A and B premium.
	byRow := map[string]int{}
	for _, s := range seats {
		byRow[s.RowLabel]++
		assert.Equal(t, uint64(9), s.ShowID)
		assert.Equal(t, model.SeatAvailable, s.Status)
		switch s.RowLabel {
		case "A", "B":
			assert.Equal(t, model.SeatPremium, s.SeatType)
			assert.Equal(t, uint32(35000), s.PriceCents)
		default:
			assert.Equal(t, model.SeatClassic, s.SeatType)
			assert.Equal(t, uint32(20000), s.PriceCents)
		}
	}
	assert.Equal(t, map[string]int{"A": 10, "B": 10, "C": 10, "D": 10, "E": 10}, byRow)

	assert.Equal(t, "A1", seats[0].Label)
	assert.Equal(t, uint32(1), seats[0].SeatColumn)
	assert.Equal(t, "E10", seats[49].Label)
}

func TestMaterializeSeatsUnevenSplit(t *testing.T) {
	seats := MaterializeSeats(1, 12, 20000, 35000)
	require.Len(t, seats, 12)

	// ceil(12/5) = 3 per row; the last row holds nothing because
	// rows A-D already absorb all twelve seats.
	byRow := map[string]int{}
	for _, s := range seats {
		byRow[s.RowLabel]++
	}
	assert.Equal(t, map[string]int{"A": 3, "B": 3, "C": 3, "D": 3}, byRow)
}

func TestMaterializeSeatsZero(t *testing.T) {
	assert.Empty(t, MaterializeSeats(1, 0, 20000, 35000))
}

func TestComputeEndTime(t *testing.T) {
	start := time.Date(2026, 6, 1, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 6, 1, 20, 58, 0, 0, time.UTC), ComputeEndTime(start, 148))
}

func TestGroupByRow(t *testing.T) {
	seats := MaterializeSeats(2, 10, 20000, 35000)
	rows := GroupByRow(seats)

	require.Len(t, rows, 5)
	assert.Equal(t, "A", rows[0].Row)
	assert.Len(t, rows[0].Seats, 2)
	assert.Equal(t, "E", rows[4].Row)
}

func TestGroupByRowEmpty(t *testing.T) {
	assert.Empty(t, GroupByRow(nil))
}
