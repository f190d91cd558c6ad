package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrMalformedBody    = errors.New("malformed body")
	ErrMissingField     = errors.New("missing field litros_distribuidos")
	ErrInvalidField     = errors.New("invalid field litros_distribuidos")

	ErrInvalidMovement   = errors.New("invalid movement")
	ErrMovementNotFound  = errors.New("movement not found")
	ErrAutomaticMovement = errors.New("movement was generated by a sale and cannot be changed")
)

// FetchError is the single request/parse failure kind of the liters fetch.
type FetchError struct {
	Stage string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
