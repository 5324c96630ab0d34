package parser

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// CreateRangeValidator creates a validation function for numeric types with min/max constraints.
// A nil bound is not checked.
func CreateRangeValidator[T constraints.Integer | constraints.Float](min, max *T) func(T) error {
	return func(v T) error {
		if min != nil && v < *min {
			return fmt.Errorf("value %v is less than minimum %v", v, *min)
		}
		if max != nil && v > *max {
			return fmt.Errorf("value %v is greater than maximum %v", v, *max)
		}
		return nil
	}
}

// Positive rejects zero and negative values.
func Positive[T constraints.Integer | constraints.Float](v T) error {
	if v <= 0 {
		return fmt.Errorf("value %v must be positive", v)
	}
	return nil
}
