package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BookingReference builds a booking reference of the form
// BKG<millis><userID>-<rand>. The millisecond timestamp and user id
// make collisions practically impossible; the random suffix plus the
// unique index on the column close the remaining window.
func BookingReference(userID uint64, now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:4])
	return fmt.Sprintf("BKG%d%d-%s", now.UTC().UnixMilli(), userID, suffix)
}

// TicketNumber builds a unique ticket number of the form TKT<rand>.
func TicketNumber() string {
	return "TKT" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// QRRef builds the reference URL a client renders as the ticket QR
// code.
func QRRef(bookingReference, seatLabel string) string {
	return fmt.Sprintf("/api/tickets/%s/%s", bookingReference, seatLabel)
}

// GatewayOrderID builds a dummy payment gateway order identifier.
func GatewayOrderID() string {
	return "order_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:14]
}

// GatewayTxnID builds a dummy payment gateway transaction identifier.
func GatewayTxnID() string {
	return "pay_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:14]
}
