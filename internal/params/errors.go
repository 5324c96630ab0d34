package params

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is. Each error type below matches exactly one of them.
var (
	ErrFormat           = errors.New("malformed parameter")
	ErrDuplicateName    = errors.New("duplicate parameter")
	ErrNotFound         = errors.New("parameter not found")
	ErrMissingRequired  = errors.New("mandatory parameter is missing")
	ErrConversion       = errors.New("parameter conversion failed")
	ErrUnknownParameter = errors.New("unknown parameter")
	ErrInternal         = errors.New("internal parameter error")
)

// Error types for proper error handling with errors.Is/As
type (
	// FormatError is returned when a token is not of the form <name>=<value>.
	FormatError struct {
		Token string
	}

	// DuplicateNameError is returned when a name occurs in more than one token.
	DuplicateNameError struct {
		Name string
	}

	// NotFoundError is returned by ChangeParam when the name is absent.
	NotFoundError struct {
		Name string
	}

	// MissingRequiredError is returned when a required parameter is absent.
	MissingRequiredError struct {
		Name string
	}

	// ConversionError is returned when a value is not exactly a value of the requested type.
	// Name is empty when the conversion was not made on behalf of a named parameter.
	ConversionError struct {
		Name  string
		Value string
		Type  string
		Err   error
	}

	// UnknownParameterError lists every parameter that was never read.
	UnknownParameterError struct {
		Names []string
	}

	// InternalError reports a broken Params invariant.
	InternalError struct {
		Msg string
	}
)

func (e *FormatError) Error() string {
	return fmt.Sprintf("wrong format of the parameter %q, should be in the format: <name>=<value>", e.Token)
}

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate parameter: %s", e.Name)
}

func (e *DuplicateNameError) Is(target error) bool { return target == ErrDuplicateName }

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("parameter not found: %s", e.Name)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func (e *MissingRequiredError) Error() string {
	return fmt.Sprintf("mandatory parameter %s is missing", e.Name)
}

func (e *MissingRequiredError) Is(target error) bool { return target == ErrMissingRequired }

func (e *ConversionError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("failed to convert value %q to %s: %v", e.Value, e.Type, e.Err)
	}
	return fmt.Sprintf("failed to convert value %q of parameter %s to %s: %v", e.Value, e.Name, e.Type, e.Err)
}

func (e *ConversionError) Is(target error) bool { return target == ErrConversion }

func (e *ConversionError) Unwrap() error { return e.Err }

func (e *UnknownParameterError) Error() string {
	return fmt.Sprintf("unknown parameters: %s", strings.Join(e.Names, ", "))
}

func (e *UnknownParameterError) Is(target error) bool { return target == ErrUnknownParameter }

func (e *InternalError) Error() string {
	return "bug: " + e.Msg
}

func (e *InternalError) Is(target error) bool { return target == ErrInternal }
