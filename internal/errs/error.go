package errs

import (
	"errors"
	"time"
)

var (
	ErrDayFull            = errors.New("no more than 10 reservations are allowed on the same day")
	ErrCustomerDailyLimit = errors.New("you cannot have more than 2 reservations on the same day")
	ErrPartySize          = errors.New("the maximum number of guests per reservation is 4")
	ErrNotFound           = errors.New("reservation not found")
	ErrConflict           = errors.New("reservation conflicts with an existing record")
)

// ErrorResponse is the body returned for every failed request.
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Message   string    `json:"message"`
}
