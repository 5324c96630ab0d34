package parser

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// EnumParser parses string values into enum types.
// Matching is exact, including case.
type EnumParser[T comparable] struct {
	BaseParser[T]
	values map[string]T
}

// NewEnumParser creates a new enum parser with the given valid values.
func NewEnumParser[T comparable](values map[string]T) *EnumParser[T] {
	parser := &EnumParser[T]{
		values: maps.Clone(values),
	}

	parser.BaseParser = BaseParser[T]{
		ParseFunc: parser.parseEnum,
	}

	return parser
}

func (p *EnumParser[T]) parseEnum(value string) (T, error) {
	if result, ok := p.values[value]; ok {
		return result, nil
	}

	validValues := slices.Sorted(maps.Keys(p.values))

	var zero T
	return zero, fmt.Errorf("invalid value %q, must be one of: %s", value, strings.Join(validValues, ", "))
}
