package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showtime/movie-booking/internal/model"
)

func TestDummyGatewayCreateOrderIsPending(t *testing.T) {
	g := NewDummyGateway()
	p := g.CreateOrder(7, "CARD", 88600)

	assert.Equal(t, uint64(7), p.BookingID)
	assert.Equal(t, "CARD", p.Method)
	assert.Equal(t, GatewayName, p.Gateway)
	assert.Equal(t, uint32(88600), p.AmountCents)
	assert.Equal(t, model.PaymentPending, p.Status)
	require.NotNil(t, p.OrderID)
	assert.True(t, strings.HasPrefix(*p.OrderID, "order_"))

	// Capture details only exist after verification.
	assert.Nil(t, p.TxnID)
	assert.Nil(t, p.PaidAt)
}

func TestDummyGatewayVerify(t *testing.T) {
	g := NewDummyGateway()
	p := g.CreateOrder(7, "CARD", 88600)

	txnID, paidAt := g.Verify(*p.OrderID)
	assert.True(t, strings.HasPrefix(txnID, "pay_"))
	assert.False(t, paidAt.IsZero())
}

func TestDummyGatewayRefundAmount(t *testing.T) {
	g := NewDummyGateway()

	completed := model.Booking{TotalCents: 88600, PaymentStatus: model.PaymentCompleted}
	assert.Equal(t, uint32(88600), g.RefundAmount(completed))

	// Cancelling before verification still refunds the full total.
	pending := model.Booking{TotalCents: 88600, PaymentStatus: model.PaymentPending}
	assert.Equal(t, uint32(88600), g.RefundAmount(pending))

	refunded := model.Booking{TotalCents: 88600, PaymentStatus: model.PaymentRefunded}
	assert.Equal(t, uint32(0), g.RefundAmount(refunded))

	failed := model.Booking{TotalCents: 88600, PaymentStatus: model.PaymentFailed}
	assert.Equal(t, uint32(0), g.RefundAmount(failed))
}
