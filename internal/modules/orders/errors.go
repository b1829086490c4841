package orders

import "errors"

var (
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrUnknownOrder      = errors.New("order not in cached list")
	ErrUpdateInFlight    = errors.New("an update for this order is already in flight")
	ErrAlreadyPaid       = errors.New("order is already marked paid")
)
