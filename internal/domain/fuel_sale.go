package domain

import (
	"fmt"
	"math"
)

// FuelSale is a ticket of dispensed fuel. Each line becomes one automatic
// movement that takes its opening balance from the previous record.
type FuelSale struct {
	Date  string
	Lines []FuelSaleLine
}

type FuelSaleLine struct {
	FuelTypeID int     `json:"fuelTypeId"`
	Liters     float64 `json:"liters"`
}

func (s FuelSale) Validate() error {
	if len(s.Lines) == 0 {
		return fmt.Errorf("%w: sale has no lines", ErrInvalidMovement)
	}
	for i, l := range s.Lines {
		if l.FuelTypeID <= 0 {
			return fmt.Errorf("%w: line %d: fuelTypeId must be > 0", ErrInvalidMovement, i)
		}
		if math.IsNaN(l.Liters) || math.IsInf(l.Liters, 0) || l.Liters <= 0 {
			return fmt.Errorf("%w: line %d: liters must be > 0", ErrInvalidMovement, i)
		}
	}
	return nil
}
