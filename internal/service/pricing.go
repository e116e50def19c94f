// Package service holds the domain logic that does not touch the
// database directly: price computation, booking status transitions,
// seat layout materialization, the dummy payment gateway and the live
// notification stream registry. Keeping these free of SQL lets them be
// unit tested in isolation; transaction orchestration stays in the
// handlers.
package service

import (
	"github.com/shopspring/decimal"

	"github.com/showtime/movie-booking/internal/model"
)

// Pricing constants. The convenience fee is charged per seat; tax
// applies to the seat subtotal only, not the fee.
const (
	ConvenienceFeeCents = 3000 // per seat
	TaxRatePercent      = 18   // of subtotal
)

// PriceBreakdown is the immutable money split of a booking, in cents.
type PriceBreakdown struct {
	SubtotalCents    uint32 `json:"subtotal_cents"`
	ConvenienceCents uint32 `json:"convenience_cents"`
	TaxCents         uint32 `json:"tax_cents"`
	TotalCents       uint32 `json:"total_cents"`
}

// ComputePrice derives the full price breakdown from the selected
// seats. Amounts are computed once at booking time and stored; they
// are never recomputed afterwards. Tax rounds half up to the nearest
// cent.
func ComputePrice(seats []model.Seat) PriceBreakdown {
	var subtotal uint32
	for _, s := range seats {
		subtotal += s.PriceCents
	}
	fee := uint32(len(seats)) * ConvenienceFeeCents

	tax := decimal.NewFromInt(int64(subtotal)).
		Mul(decimal.NewFromInt(TaxRatePercent)).
		Div(decimal.NewFromInt(100)).
		Round(0)

	taxCents := uint32(tax.IntPart())
	return PriceBreakdown{
		SubtotalCents:    subtotal,
		ConvenienceCents: fee,
		TaxCents:         taxCents,
		TotalCents:       subtotal + fee + taxCents,
	}
}
