package handler

import (
	"time"

	"github.com/showtime/movie-booking/internal/model"
	"github.com/showtime/movie-booking/internal/service"
)

// Response DTOs. Models never carry json tags, so each endpoint maps
// rows into the shape it actually exposes.

type movieResp struct {
	ID          uint64  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Genre       string  `json:"genre"`
	Language    string  `json:"language"`
	DurationMin uint32  `json:"duration_min"`
	ReleaseDate *string `json:"release_date,omitempty"`
	Rating      *string `json:"rating,omitempty"`
	PosterURL   *string `json:"poster_url,omitempty"`
}

func toMovieResp(m model.Movie) movieResp {
	r := movieResp{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Genre:       m.Genre,
		Language:    m.Language,
		DurationMin: m.DurationMin,
		Rating:      m.Rating,
		PosterURL:   m.PosterURL,
	}
	if m.ReleaseDate != nil {
		d := m.ReleaseDate.Format("2006-01-02")
		r.ReleaseDate = &d
	}
	return r
}

func toMovieResps(movies []model.Movie) []movieResp {
	out := make([]movieResp, 0, len(movies))
	for _, m := range movies {
		out = append(out, toMovieResp(m))
	}
	return out
}

type theaterResp struct {
	ID      uint64  `json:"id"`
	Name    string  `json:"name"`
	City    string  `json:"city"`
	Address *string `json:"address,omitempty"`
}

func toTheaterResp(t model.Theater) theaterResp {
	return theaterResp{ID: t.ID, Name: t.Name, City: t.City, Address: t.Address}
}

type screenResp struct {
	ID           uint64 `json:"id"`
	ScreenNumber uint32 `json:"screen_number"`
	Name         string `json:"name"`
	TotalSeats   uint32 `json:"total_seats"`
}

func toScreenResp(s model.Screen) screenResp {
	return screenResp{ID: s.ID, ScreenNumber: s.ScreenNumber, Name: s.Name, TotalSeats: s.TotalSeats}
}

type showResp struct {
	ID                uint64    `json:"id"`
	MovieID           uint64    `json:"movie_id"`
	TheaterID         uint64    `json:"theater_id"`
	ScreenID          uint64    `json:"screen_id"`
	ShowDate          string    `json:"show_date"`
	StartsAt          time.Time `json:"starts_at"`
	EndsAt            time.Time `json:"ends_at"`
	PriceClassicCents uint32    `json:"price_classic_cents"`
	PricePremiumCents uint32    `json:"price_premium_cents"`
	AvailableSeats    uint32    `json:"available_seats"`
	Status            string    `json:"status"`
}

func toShowResp(s model.Show) showResp {
	return showResp{
		ID:                s.ID,
		MovieID:           s.MovieID,
		TheaterID:         s.TheaterID,
		ScreenID:          s.ScreenID,
		ShowDate:          s.ShowDate.Format("2006-01-02"),
		StartsAt:          s.StartsAt,
		EndsAt:            s.EndsAt,
		PriceClassicCents: s.PriceClassicCents,
		PricePremiumCents: s.PricePremiumCents,
		AvailableSeats:    s.AvailableSeats,
		Status:            s.Status,
	}
}

func toShowResps(shows []model.Show) []showResp {
	out := make([]showResp, 0, len(shows))
	for _, s := range shows {
		out = append(out, toShowResp(s))
	}
	return out
}

type seatResp struct {
	Label      string `json:"label"`
	Column     uint32 `json:"column"`
	SeatType   string `json:"seat_type"`
	PriceCents uint32 `json:"price_cents"`
	Status     string `json:"status"`
}

type seatRowResp struct {
	Row   string     `json:"row"`
	Seats []seatResp `json:"seats"`
}

func toSeatRows(rows []service.SeatRow) []seatRowResp {
	out := make([]seatRowResp, 0, len(rows))
	for _, r := range rows {
		row := seatRowResp{Row: r.Row, Seats: make([]seatResp, 0, len(r.Seats))}
		for _, s := range r.Seats {
			row.Seats = append(row.Seats, seatResp{
				Label:      s.Label,
				Column:     s.SeatColumn,
				SeatType:   s.SeatType,
				PriceCents: s.PriceCents,
				Status:     s.Status,
			})
		}
		out = append(out, row)
	}
	return out
}

type ticketResp struct {
	TicketNumber string `json:"ticket_number"`
	SeatLabel    string `json:"seat_label"`
	SeatType     string `json:"seat_type"`
	PriceCents   uint32 `json:"price_cents"`
	QRRef        string `json:"qr_ref"`
	IsUsed       bool   `json:"is_used"`
}

func toTicketResps(tickets []model.Ticket) []ticketResp {
	out := make([]ticketResp, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, ticketResp{
			TicketNumber: t.TicketNumber,
			SeatLabel:    t.SeatLabel,
			SeatType:     t.SeatType,
			PriceCents:   t.PriceCents,
			QRRef:        t.QRRef,
			IsUsed:       t.IsUsed,
		})
	}
	return out
}

type paymentResp struct {
	ID           uint64     `json:"id"`
	BookingID    uint64     `json:"booking_id"`
	Method       string     `json:"method"`
	Gateway      string     `json:"gateway"`
	OrderID      *string    `json:"gateway_order_id,omitempty"`
	TxnID        *string    `json:"gateway_txn_id,omitempty"`
	AmountCents  uint32     `json:"amount_cents"`
	Status       string     `json:"status"`
	PaidAt       *time.Time `json:"paid_at,omitempty"`
	RefundCents  *uint32    `json:"refund_cents,omitempty"`
	RefundedAt   *time.Time `json:"refunded_at,omitempty"`
	RefundReason *string    `json:"refund_reason,omitempty"`
}

func toPaymentResp(p model.Payment) paymentResp {
	return paymentResp{
		ID:           p.ID,
		BookingID:    p.BookingID,
		Method:       p.Method,
		Gateway:      p.Gateway,
		OrderID:      p.OrderID,
		TxnID:        p.TxnID,
		AmountCents:  p.AmountCents,
		Status:       p.Status,
		PaidAt:       p.PaidAt,
		RefundCents:  p.RefundCents,
		RefundedAt:   p.RefundedAt,
		RefundReason: p.RefundReason,
	}
}

type notificationResp struct {
	ID        uint64     `json:"id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Type      string     `json:"type"`
	IsRead    bool       `json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func toNotificationResp(n model.Notification) notificationResp {
	return notificationResp{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}
