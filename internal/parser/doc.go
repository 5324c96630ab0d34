// Package parser provides generic parsing infrastructure for simparams.
//
// This package implements type-safe parsers using Go generics. It serves as
// the foundation for the value conversion performed by the params package but
// can also be used for other parsing needs.
//
// # Design Philosophy
//
// The parser package emphasizes type safety and composability through generics.
// Rather than providing numerous concrete implementations, it offers building
// blocks that can be composed to create specific parsers.
//
// # Core Interfaces
//
//   - Parser[T]: Basic parsing interface for any type T
//   - Concrete parsers for common types (bool, signed and unsigned integers,
//     floats, string, duration)
//   - Combinators: WithValidation, WithTransform, NewEnumParser
//
// # Exactness
//
// Every concrete parser consumes its whole input. Leading or trailing
// whitespace, trailing garbage and partial matches are errors; "12x" is never
// read as 12.
package parser
