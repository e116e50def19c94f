package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/showtime/movie-booking/internal/model"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{model.BookingPending, model.BookingConfirmed, true},
		{model.BookingPending, model.BookingCancelled, true},
		{model.BookingPending, model.BookingExpired, false},
		{model.BookingConfirmed, model.BookingCancelled, true},
		{model.BookingConfirmed, model.BookingExpired, true},
		{model.BookingConfirmed, model.BookingPending, false},
		{model.BookingCancelled, model.BookingConfirmed, false},
		{model.BookingCancelled, model.BookingCancelled, false},
		{model.BookingExpired, model.BookingConfirmed, false},
		{model.BookingExpired, model.BookingCancelled, false},
		{"UNKNOWN", model.BookingConfirmed, false},
		{model.BookingConfirmed, "UNKNOWN", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}
