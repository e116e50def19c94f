package service

import (
	"time"

	"github.com/showtime/movie-booking/internal/model"
	"github.com/showtime/movie-booking/internal/utils"
)

// GatewayName identifies the built-in dummy payment gateway.
const GatewayName = "DUMMY"

// DummyGateway simulates a payment provider. Orders are created in
// PENDING state and every verification and refund succeeds, but the
// identifiers and record shapes follow what a real gateway integration
// would produce, so swapping in one later only touches this file.
type DummyGateway struct{}

// NewDummyGateway returns the dummy payment gateway.
func NewDummyGateway() *DummyGateway { return &DummyGateway{} }

// CreateOrder opens a payment order for a booking and returns the
// pending payment record, ready to insert. Capture happens later
// through Verify.
func (g *DummyGateway) CreateOrder(bookingID uint64, method string, amountCents uint32) model.Payment {
	orderID := utils.GatewayOrderID()
	return model.Payment{
		BookingID:   bookingID,
		Method:      method,
		Gateway:     GatewayName,
		OrderID:     &orderID,
		AmountCents: amountCents,
		Status:      model.PaymentPending,
	}
}

// Verify confirms capture of a previously created order. The dummy
// gateway never declines; it hands back a transaction id and the
// capture time.
func (g *DummyGateway) Verify(orderID string) (txnID string, paidAt time.Time) {
	return utils.GatewayTxnID(), time.Now().UTC()
}

// RefundAmount returns how much of a booking is refunded on
// cancellation. The dummy gateway refunds in full whether or not the
// payment was captured; only already-settled refunds and failed
// payments yield nothing.
func (g *DummyGateway) RefundAmount(b model.Booking) uint32 {
	switch b.PaymentStatus {
	case model.PaymentRefunded, model.PaymentFailed:
		return 0
	}
	return b.TotalCents
}
