package service

import "github.com/showtime/movie-booking/internal/model"

// allowedTransitions is the whitelist of legal booking status moves.
// CANCELLED and EXPIRED are terminal: nothing leaves them.
var allowedTransitions = map[string]map[string]bool{
	model.BookingPending: {
		model.BookingConfirmed: true,
		model.BookingCancelled: true,
	},
	model.BookingConfirmed: {
		model.BookingCancelled: true,
		model.BookingExpired:   true,
	},
	model.BookingCancelled: {},
	model.BookingExpired:   {},
}

// CanTransition reports whether a booking may move from one status to
// another. Unknown statuses never transition.
func CanTransition(from, to string) bool {
	return allowedTransitions[from][to]
}
