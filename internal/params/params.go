package params

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Params is an ordered list of named string values. Names are unique.
// It is built once, changed only through ChangeParam and otherwise read-only.
type Params struct {
	names  []string
	values []string
}

type parseOptions struct {
	allowEqualsInValue bool
}

// ParseOption modifies the token grammar accepted by Parse.
type ParseOption func(*parseOptions)

// AllowEqualsInValue splits each token on its first '=' only, so "a=b=c"
// yields a value of "b=c". By default such a token is a FormatError.
func AllowEqualsInValue() ParseOption {
	return func(o *parseOptions) { o.allowEqualsInValue = true }
}

// Parse builds Params from tokens of the form <name>=<value>, keeping their order.
// A token with no '=', an empty name, or (by default) more than one '=' fails
// with FormatError. A repeated name fails with DuplicateNameError. The value may
// be empty. Nothing is trimmed.
func Parse(tokens []string, opts ...ParseOption) (*Params, error) {
	var o parseOptions
	for _, fn := range opts {
		fn(&o)
	}

	p := &Params{
		names:  make([]string, 0, len(tokens)),
		values: make([]string, 0, len(tokens)),
	}
	seen := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		name, value, err := splitToken(token, o)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[name]; ok {
			return nil, &DuplicateNameError{Name: name}
		}
		seen[name] = struct{}{}

		p.names = append(p.names, name)
		p.values = append(p.values, value)
	}
	return p, nil
}

func splitToken(token string, o parseOptions) (string, string, error) {
	name, value, ok := strings.Cut(token, "=")
	if !ok || name == "" || (!o.allowEqualsInValue && strings.Contains(value, "=")) {
		return "", "", &FormatError{Token: token}
	}
	return name, value, nil
}

// New pairs names with values without any validation.
// It is meant for sets derived from an already validated Params.
func New(names, values []string) *Params {
	return &Params{
		names:  slices.Clone(names),
		values: slices.Clone(values),
	}
}

// ChangeParam overwrites the value of an existing parameter with the fmt.Sprint
// form of value. It does not affect which names a Manager has already seen.
func ChangeParam[T any](p *Params, name string, value T) error {
	i := slices.Index(p.names, name)
	if i < 0 {
		return &NotFoundError{Name: name}
	}
	p.values[i] = fmt.Sprint(value)
	return nil
}

// Len returns the number of parameters.
func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return len(p.names)
}

// Names returns a copy of the parameter names in order.
func (p *Params) Names() []string {
	if p == nil {
		return nil
	}
	return slices.Clone(p.names)
}

// Values returns a copy of the parameter values in order.
func (p *Params) Values() []string {
	if p == nil {
		return nil
	}
	return slices.Clone(p.values)
}

// Get returns the raw value of name.
func (p *Params) Get(name string) (string, bool) {
	if p == nil {
		return "", false
	}
	i := slices.Index(p.names, name)
	if i < 0 || i >= len(p.values) {
		return "", false
	}
	return p.values[i], true
}

// Has reports whether name is present.
func (p *Params) Has(name string) bool {
	_, ok := p.Get(name)
	return ok
}

// All iterates over name/value pairs in order.
func (p *Params) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if p == nil {
			return
		}
		for i, name := range p.names {
			if i >= len(p.values) {
				return
			}
			if !yield(name, p.values[i]) {
				return
			}
		}
	}
}

// Tokens returns the parameters in <name>=<value> form.
func (p *Params) Tokens() []string {
	tokens := make([]string, 0, p.Len())
	for name, value := range p.All() {
		tokens = append(tokens, name+"="+value)
	}
	return tokens
}

// String returns the parameters as a comma separated token list.
func (p *Params) String() string {
	return strings.Join(p.Tokens(), ",")
}
