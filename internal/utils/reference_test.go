package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingReferenceFormat(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	ref := BookingReference(42, now)

	assert.True(t, strings.HasPrefix(ref, "BKG"), "reference %q should start with BKG", ref)
	assert.Contains(t, ref, "42-")

	other := BookingReference(42, now)
	assert.NotEqual(t, ref, other, "random suffix should differ between calls")
}

func TestTicketNumberFormat(t *testing.T) {
	n := TicketNumber()
	require.Len(t, n, 11)
	assert.True(t, strings.HasPrefix(n, "TKT"))
	assert.Equal(t, strings.ToUpper(n), n)
}

func TestTicketNumberUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		n := TicketNumber()
		require.False(t, seen[n], "duplicate ticket number %q", n)
		seen[n] = true
	}
}

func TestQRRef(t *testing.T) {
	assert.Equal(t, "/api/tickets/BKG123-AB/A1", QRRef("BKG123-AB", "A1"))
}

func TestGatewayIdentifiers(t *testing.T) {
	assert.True(t, strings.HasPrefix(GatewayOrderID(), "order_"))
	assert.True(t, strings.HasPrefix(GatewayTxnID(), "pay_"))
}
