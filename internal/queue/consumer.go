package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/showtime/movie-booking/internal/model"
)

// NotificationStore persists user notifications produced from events.
// Implemented by repository.NotificationRepo.
type NotificationStore interface {
	Create(ctx context.Context, n model.Notification) (uint64, error)
}

// Broadcaster pushes a notification to any live streams of a user.
// Implemented by service.StreamRegistry. Delivery is best effort.
type Broadcaster interface {
	Broadcast(userID uint64, n model.Notification)
}

// Consumer listens on the booking queues, persists a notification per
// event and fans it out to connected notification streams. It also
// appends a one-line record to logs/booking.log for auditing.
type Consumer struct {
	store     NotificationStore
	broadcast Broadcaster
}

// NewConsumer wires a consumer with its notification sinks.
func NewConsumer(store NotificationStore, broadcast Broadcaster) *Consumer {
	return &Consumer{store: store, broadcast: broadcast}
}

// Start connects to the broker, declares the durable booking queues
// and consumes them until the context is cancelled. It runs a
// reconnect loop with exponential backoff; processing errors are
// logged and the offending message rejected without requeue so the
// loop never gets stuck on a poison message.
func (c *Consumer) Start(ctx context.Context) error {
	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Printf("booking-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := c.consumeLoop(ctx, conn); err != nil {
			log.Printf("booking-consumer: consume loop ended: %v; reconnecting", err)
			_ = conn.Close()
			select {
			case <-time.After(2 * time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("booking-consumer: set QoS failed: %v", err)
	}

	for _, name := range []string{BookingConfirmedQueue, BookingCancelledQueue} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
	}

	confirmed, err := ch.Consume(BookingConfirmedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", BookingConfirmedQueue, err)
	}
	cancelled, err := ch.Consume(BookingCancelledQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", BookingCancelledQueue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-confirmed:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			c.ackOrReject(ctx, d, c.handleConfirmed)
		case d, ok := <-cancelled:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			c.ackOrReject(ctx, d, c.handleCancelled)
		}
	}
}

func (c *Consumer) ackOrReject(ctx context.Context, d amqp.Delivery, handle func(context.Context, []byte) error) {
	if err := handle(ctx, d.Body); err != nil {
		log.Printf("booking-consumer: handle message failed: %v", err)
		_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
		return
	}
	_ = d.Ack(false)
}

func (c *Consumer) handleConfirmed(ctx context.Context, body []byte) error {
	var ev BookingConfirmedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	n := model.Notification{
		UserID: ev.UserID,
		Title:  "Booking confirmed",
		Message: fmt.Sprintf("Your booking %s for %s (seats %s) is confirmed. Total paid: %d.%02d.",
			ev.Reference, ev.MovieTitle, strings.Join(ev.SeatLabels, ", "),
			ev.TotalAmountCents/100, ev.TotalAmountCents%100),
		Type: model.NotifyBookingConfirmed,
	}
	if err := c.deliver(ctx, n); err != nil {
		return err
	}

	return appendBookingLog(fmt.Sprintf("[%s] Booking confirmed | booking_id=%d | ref=%s | user_id=%d | show_id=%d | movie=%q | theater=%q | total=%d cents | seats=[%s]\n",
		ev.ConfirmedAt, ev.BookingID, ev.Reference, ev.UserID, ev.ShowID, ev.MovieTitle, ev.TheaterName, ev.TotalAmountCents, strings.Join(ev.SeatLabels, ",")))
}

func (c *Consumer) handleCancelled(ctx context.Context, body []byte) error {
	var ev BookingCancelledEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	msg := fmt.Sprintf("Your booking %s for %s was cancelled.", ev.Reference, ev.MovieTitle)
	if ev.RefundCents > 0 {
		msg = fmt.Sprintf("%s A refund of %d.%02d has been initiated.", msg, ev.RefundCents/100, ev.RefundCents%100)
	}
	n := model.Notification{
		UserID:  ev.UserID,
		Title:   "Booking cancelled",
		Message: msg,
		Type:    model.NotifyBookingCancelled,
	}
	if err := c.deliver(ctx, n); err != nil {
		return err
	}

	return appendBookingLog(fmt.Sprintf("[%s] Booking cancelled | booking_id=%d | ref=%s | user_id=%d | show_id=%d | refund=%d cents | seats=[%s]\n",
		ev.CancelledAt, ev.BookingID, ev.Reference, ev.UserID, ev.ShowID, ev.RefundCents, strings.Join(ev.SeatLabels, ",")))
}

// deliver persists the notification and pushes it to live streams. The
// stored row carries the generated id so stream clients can mark it
// read later.
func (c *Consumer) deliver(ctx context.Context, n model.Notification) error {
	id, err := c.store.Create(ctx, n)
	if err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	n.ID = id
	n.CreatedAt = time.Now().UTC()
	if c.broadcast != nil {
		c.broadcast.Broadcast(n.UserID, n)
	}
	return nil
}

func appendBookingLog(line string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join("logs", "booking.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
