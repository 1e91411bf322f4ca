package payments

import (
	"errors"
	"fmt"
)

var (
	ErrVehicleNotFound   = errors.New("vehicle not found")
	ErrVehicleInactive   = errors.New("vehicle is not accepting payments")
	ErrRouteNotAssigned  = errors.New("vehicle has no route assigned")
	ErrRouteNotFound     = errors.New("route not found")
	ErrPassengerNotFound = errors.New("passenger not found")
	ErrInvalidRequest    = errors.New("invalid payment request")
	ErrAmountMismatch    = errors.New("amount does not match the fare for this trip")
)

// FailedError is returned for any payment that did not complete. Stage is
// where the attempt stopped; Err is the cause and works with errors.Is.
type FailedError struct {
	Stage Stage
	Err   error
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("payment failed while %s: %v", e.Stage, e.Err)
}

func (e *FailedError) Unwrap() error { return e.Err }

// StageOf returns the stage a payment error stopped at, or "" for other
// errors.
func StageOf(err error) Stage {
	var fe *FailedError
	if errors.As(err, &fe) {
		return fe.Stage
	}
	return ""
}
