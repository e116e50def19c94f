package model

import "time"

// Notification types emitted by the booking lifecycle.
const (
	NotifyBookingConfirmed = "BOOKING_CONFIRMED"
	NotifyBookingCancelled = "BOOKING_CANCELLED"
	NotifyPaymentCompleted = "PAYMENT_COMPLETED"
)

// Notification is a per-user message persisted by the queue consumer
// and delivered live over the SSE stream when the user is connected.
type Notification struct {
	ID        uint64     // notifications.id
	UserID    uint64     // notifications.user_id
	Title     string     // notifications.title
	Message   string     // notifications.message
	Type      string     // notifications.type
	IsRead    bool       // notifications.is_read
	ReadAt    *time.Time // notifications.read_at (nullable)
	CreatedAt time.Time  // notifications.created_at
}
