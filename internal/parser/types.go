package parser

import (
	"fmt"
	"strconv"
	"time"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// BoolParser parses boolean values.
// It uses strconv.ParseBool which accepts:
// "1", "t", "T", "true", "TRUE", "True",
// "0", "f", "F", "false", "FALSE", "False".
type BoolParser struct {
	BaseParser[bool]
}

// NewBoolParser creates a new boolean parser.
func NewBoolParser() *BoolParser {
	return &BoolParser{
		BaseParser: BaseParser[bool]{
			ParseFunc: strconv.ParseBool,
		},
	}
}

// IntParser parses signed integer values of type T with optional range validation.
// Values outside the range representable by T are rejected by Parse.
type IntParser[T constraints.Signed] struct {
	BaseParser[T]
	min *T
	max *T
}

// NewIntParser creates a new signed integer parser for T.
func NewIntParser[T constraints.Signed]() *IntParser[T] {
	var zero T
	bitSize := int(unsafe.Sizeof(zero)) * 8
	return &IntParser[T]{
		BaseParser: BaseParser[T]{
			ParseFunc: func(value string) (T, error) {
				v, err := strconv.ParseInt(value, 10, bitSize)
				if err != nil {
					return 0, err
				}
				return T(v), nil
			},
		},
	}
}

// WithRange adds range validation to the integer parser.
func (p *IntParser[T]) WithRange(min, max T) *IntParser[T] {
	p.min = &min
	p.max = &max
	p.ValidateFunc = CreateRangeValidator(p.min, p.max)
	return p
}

// WithMin adds minimum value validation.
func (p *IntParser[T]) WithMin(min T) *IntParser[T] {
	p.min = &min
	p.ValidateFunc = CreateRangeValidator(p.min, p.max)
	return p
}

// UintParser parses unsigned integer values of type T with an optional minimum.
// A leading minus sign is always an error.
type UintParser[T constraints.Unsigned] struct {
	BaseParser[T]
	min *T
}

// NewUintParser creates a new unsigned integer parser for T.
func NewUintParser[T constraints.Unsigned]() *UintParser[T] {
	var zero T
	bitSize := int(unsafe.Sizeof(zero)) * 8
	return &UintParser[T]{
		BaseParser: BaseParser[T]{
			ParseFunc: func(value string) (T, error) {
				v, err := strconv.ParseUint(value, 10, bitSize)
				if err != nil {
					return 0, err
				}
				return T(v), nil
			},
		},
	}
}

// WithMin adds minimum value validation.
func (p *UintParser[T]) WithMin(min T) *UintParser[T] {
	p.min = &min
	p.ValidateFunc = CreateRangeValidator(p.min, nil)
	return p
}

// FloatParser parses floating point values of type T with an optional minimum.
type FloatParser[T constraints.Float] struct {
	BaseParser[T]
	min *T
}

// NewFloatParser creates a new floating point parser for T.
func NewFloatParser[T constraints.Float]() *FloatParser[T] {
	var zero T
	bitSize := int(unsafe.Sizeof(zero)) * 8
	return &FloatParser[T]{
		BaseParser: BaseParser[T]{
			ParseFunc: func(value string) (T, error) {
				v, err := strconv.ParseFloat(value, bitSize)
				if err != nil {
					return 0, err
				}
				return T(v), nil
			},
		},
	}
}

// WithMin adds minimum value validation.
func (p *FloatParser[T]) WithMin(min T) *FloatParser[T] {
	p.min = &min
	p.ValidateFunc = CreateRangeValidator(p.min, nil)
	return p
}

// DurationParser parses duration values in time.ParseDuration syntax.
type DurationParser struct {
	BaseParser[time.Duration]
}

// NewDurationParser creates a new duration parser.
func NewDurationParser() *DurationParser {
	return &DurationParser{
		BaseParser: BaseParser[time.Duration]{
			ParseFunc: time.ParseDuration,
		},
	}
}

// StringParser parses string values with optional validation.
type StringParser struct {
	BaseParser[string]
}

// NewStringParser creates a new string parser.
// It returns the value as-is without any processing.
func NewStringParser() *StringParser {
	return &StringParser{
		BaseParser: BaseParser[string]{
			ParseFunc: func(value string) (string, error) {
				return value, nil
			},
		},
	}
}

// NonEmpty rejects the empty string.
func (p *StringParser) NonEmpty() *StringParser {
	p.ValidateFunc = func(value string) error {
		if value == "" {
			return fmt.Errorf("empty string is not allowed")
		}
		return nil
	}
	return p
}
