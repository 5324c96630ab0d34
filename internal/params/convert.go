package params

import (
	"encoding"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/apstndb/simparams/internal/parser"
)

// converters maps a target type to its parser.Parser for that type.
var converters = struct {
	mu sync.RWMutex
	m  map[reflect.Type]any
}{m: make(map[reflect.Type]any)}

func init() {
	mustRegisterConverter[string](parser.NewStringParser())
	mustRegisterConverter[bool](parser.NewBoolParser())
	mustRegisterConverter[int](parser.NewIntParser[int]())
	mustRegisterConverter[int8](parser.NewIntParser[int8]())
	mustRegisterConverter[int16](parser.NewIntParser[int16]())
	mustRegisterConverter[int32](parser.NewIntParser[int32]())
	mustRegisterConverter[int64](parser.NewIntParser[int64]())
	mustRegisterConverter[uint](parser.NewUintParser[uint]())
	mustRegisterConverter[uint8](parser.NewUintParser[uint8]())
	mustRegisterConverter[uint16](parser.NewUintParser[uint16]())
	mustRegisterConverter[uint32](parser.NewUintParser[uint32]())
	mustRegisterConverter[uint64](parser.NewUintParser[uint64]())
	mustRegisterConverter[float32](parser.NewFloatParser[float32]())
	mustRegisterConverter[float64](parser.NewFloatParser[float64]())
	mustRegisterConverter[time.Duration](parser.NewDurationParser())
}

// RegisterConverter makes Convert, GetRequired and GetOptional accept T.
// The parser must consume its whole input; its validation runs on every conversion.
// Registering a type twice fails.
func RegisterConverter[T any](p parser.Parser[T]) error {
	typ := reflect.TypeFor[T]()

	converters.mu.Lock()
	defer converters.mu.Unlock()

	if _, exists := converters.m[typ]; exists {
		return fmt.Errorf("converter for %s is already registered", typ)
	}
	converters.m[typ] = p
	return nil
}

func mustRegisterConverter[T any](p parser.Parser[T]) {
	if err := RegisterConverter(p); err != nil {
		panic(err)
	}
}

func lookupConverter[T any]() (parser.Parser[T], bool) {
	converters.mu.RLock()
	v, ok := converters.m[reflect.TypeFor[T]()]
	converters.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return v.(parser.Parser[T]), true
}

// Convert parses s as a value of type T. Strings are returned unchanged. Other
// types use a registered converter, or UnmarshalText when *T implements
// encoding.TextUnmarshaler. Any failure, including an unsupported T, is a
// ConversionError.
func Convert[T any](s string) (T, error) {
	v, err := convert[T](s)
	if err != nil {
		var zero T
		return zero, &ConversionError{Value: s, Type: typeName[T](), Err: err}
	}
	return v, nil
}

func convert[T any](s string) (T, error) {
	if p, ok := lookupConverter[T](); ok {
		return p.ParseAndValidate(s)
	}

	var v T
	if u, ok := any(&v).(encoding.TextUnmarshaler); ok {
		if err := u.UnmarshalText([]byte(s)); err != nil {
			var zero T
			return zero, err
		}
		return v, nil
	}
	return v, fmt.Errorf("no converter registered")
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}
