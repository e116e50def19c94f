package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/showtime/movie-booking/internal/model"
)

func seatsAt(prices ...uint32) []model.Seat {
	seats := make([]model.Seat, 0, len(prices))
	for i, p := range prices {
		seats = append(seats, model.Seat{
			Label:      "A" + string(rune('1'+i)),
			PriceCents: p,
		})
	}
	return seats
}

func TestComputePriceTwoPremiumSeats(t *testing.T) {
	// Two seats at 350.00 each: subtotal 700.00, fee 2x30.00,
	// tax 18% of 700.00 = 126.00, total 886.00.
	got := ComputePrice(seatsAt(35000, 35000))

	assert.Equal(t, uint32(70000), got.SubtotalCents)
	assert.Equal(t, uint32(6000), got.ConvenienceCents)
	assert.Equal(t, uint32(12600), got.TaxCents)
	assert.Equal(t, uint32(88600), got.TotalCents)
}

func TestComputePriceSingleClassicSeat(t *testing.T) {
	got := ComputePrice(seatsAt(20000))

	assert.Equal(t, uint32(20000), got.SubtotalCents)
	assert.Equal(t, uint32(3000), got.ConvenienceCents)
	assert.Equal(t, uint32(3600), got.TaxCents)
	assert.Equal(t, uint32(26600), got.TotalCents)
}

func TestComputePriceTaxRounding(t *testing.T) {
	// 18% of 55.55 is 9.999, which must round to 10.00 rather than
	// truncate to 9.99.
	got := ComputePrice(seatsAt(5555))

	assert.Equal(t, uint32(1000), got.TaxCents)
	assert.Equal(t, got.SubtotalCents+got.ConvenienceCents+got.TaxCents, got.TotalCents)
}

func TestComputePriceMixedTiers(t *testing.T) {
	got := ComputePrice(seatsAt(20000, 35000, 20000))

	assert.Equal(t, uint32(75000), got.SubtotalCents)
	assert.Equal(t, uint32(9000), got.ConvenienceCents)
	assert.Equal(t, uint32(13500), got.TaxCents)
	assert.Equal(t, uint32(97500), got.TotalCents)
}

func TestComputePriceNoSeats(t *testing.T) {
	got := ComputePrice(nil)

	assert.Equal(t, PriceBreakdown{}, got)
}
