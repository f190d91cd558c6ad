package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Movement is one inventory record for a fuel type: the balance before it,
// liters received (LitersIn), liters dispensed (LitersOut) and the balance
// after it. Automatic records come from fuel sales and cannot be edited or
// deleted.
type Movement struct {
	ID             uuid.UUID `json:"id"`
	FuelTypeID     int       `json:"fuelTypeId"`
	InitialBalance float64   `json:"initialBalance"`
	LitersIn       float64   `json:"litersIn"`
	LitersOut      float64   `json:"litersOut"`
	FinalBalance   float64   `json:"finalBalance"`
	Automatic      bool      `json:"automatic"`
	RecordedAt     time.Time `json:"recordedAt"`
	// CarryBalance asks the repository to take InitialBalance from the last
	// FinalBalance of the fuel type when the record is stored.
	CarryBalance bool `json:"carryBalance,omitempty"`
}

func (m Movement) Validate() error {
	if m.FuelTypeID <= 0 {
		return fmt.Errorf("%w: fuelTypeId must be > 0", ErrInvalidMovement)
	}
	for _, v := range []float64{m.InitialBalance, m.LitersIn, m.LitersOut} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: quantities must be finite", ErrInvalidMovement)
		}
	}
	if m.LitersIn < 0 || m.LitersOut < 0 {
		return fmt.Errorf("%w: liters must be >= 0", ErrInvalidMovement)
	}
	if m.LitersIn == 0 && m.LitersOut == 0 {
		return fmt.Errorf("%w: litersIn or litersOut must be > 0", ErrInvalidMovement)
	}
	if m.RecordedAt.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidMovement)
	}
	return nil
}

// Settle recomputes FinalBalance from the other quantities.
func (m *Movement) Settle() {
	m.FinalBalance = m.InitialBalance + m.LitersIn - m.LitersOut
}

// MovementInput is what a client may set on a manual record. Nil pointers
// mean "not supplied".
type MovementInput struct {
	FuelTypeID     int
	InitialBalance *float64
	LitersIn       float64
	LitersOut      float64
	// Date is either "2006-01-02" or RFC 3339.
	Date string
}

// ParseMovementDate resolves a client date. A bare day is midnight in loc.
func ParseMovementDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q must be YYYY-MM-DD or RFC 3339", ErrInvalidMovement, s)
	}
	return t, nil
}
