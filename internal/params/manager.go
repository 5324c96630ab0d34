package params

import (
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Manager hands out typed parameter values and records which names were read.
type Manager struct {
	params *Params
	seen   map[string]struct{}
	logger *zap.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger makes the manager log every read at INFO and every unknown
// parameter at ERROR. The default logger discards everything.
func WithLogger(l *zap.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager returns a Manager reading from p. A nil p behaves as an empty set.
func NewManager(p *Params, opts ...ManagerOption) (*Manager, error) {
	if p == nil {
		p = &Params{}
	}
	if len(p.names) != len(p.values) {
		return nil, &InternalError{Msg: fmt.Sprintf("%d parameter names but %d values", len(p.names), len(p.values))}
	}

	m := &Manager{
		params: p,
		seen:   make(map[string]struct{}, len(p.names)),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Use creates a Manager for p, passes it to fn and then calls Finish.
// The error from fn takes precedence over the one from Finish.
func Use(p *Params, fn func(m *Manager) error, opts ...ManagerOption) error {
	m, err := NewManager(p, opts...)
	if err != nil {
		return err
	}
	if err := fn(m); err != nil {
		return err
	}
	return m.Finish()
}

// GetRequired stores the value of name, converted to T, in dst.
// It fails with MissingRequiredError when name is absent and with
// ConversionError when the value does not convert. dst is only written on success.
// A present name is marked seen even when its conversion fails; an absent name
// is not marked, since it is not in the set Finish checks.
func GetRequired[T any](m *Manager, name string, dst *T) error {
	return getParam(m, name, dst, true)
}

// GetOptional is like GetRequired, but an absent name leaves dst, which holds
// the default, unchanged and is not an error.
func GetOptional[T any](m *Manager, name string, dst *T) error {
	return getParam(m, name, dst, false)
}

// Required returns the value of name converted to T.
func Required[T any](m *Manager, name string) (T, error) {
	var v T
	err := GetRequired(m, name, &v)
	return v, err
}

// Optional returns the value of name converted to T, or def when name is absent.
func Optional[T any](m *Manager, name string, def T) (T, error) {
	v := def
	err := GetOptional(m, name, &v)
	return v, err
}

func getParam[T any](m *Manager, name string, dst *T, required bool) error {
	raw, found := m.params.Get(name)
	if !found {
		if required {
			return &MissingRequiredError{Name: name}
		}
		m.logger.Info("parameter", zap.String("name", name), zap.Any("value", *dst), zap.Bool("default", true))
		return nil
	}

	// Only names present in the set are recorded, so seen never holds a name
	// Finish could not report.
	m.seen[name] = struct{}{}

	v, err := convert[T](raw)
	if err != nil {
		return &ConversionError{Name: name, Value: raw, Type: typeName[T](), Err: err}
	}
	*dst = v
	m.logger.Info("parameter", zap.String("name", name), zap.String("value", raw))
	return nil
}

// ExtractExcept returns a new Params holding every parameter whose name is
// not in except, in the original order. The returned names are marked as seen
// on m; the excluded names are not.
func (m *Manager) ExtractExcept(except ...string) *Params {
	var names, values []string
	for name, value := range m.params.All() {
		if lo.Contains(except, name) {
			continue
		}
		names = append(names, name)
		values = append(values, value)
		m.seen[name] = struct{}{}
	}
	return &Params{names: names, values: values}
}

// Seen reports whether name has been read or extracted.
func (m *Manager) Seen(name string) bool {
	_, ok := m.seen[name]
	return ok
}

// Unseen returns the names that have not been read or extracted, in order.
func (m *Manager) Unseen() []string {
	return lo.Filter(m.params.names, func(name string, _ int) bool {
		return !m.Seen(name)
	})
}

// Params returns the set the manager reads from.
func (m *Manager) Params() *Params {
	return m.params
}

// Finish fails with UnknownParameterError naming every parameter that was
// never read or extracted.
func (m *Manager) Finish() error {
	unseen := m.Unseen()
	if len(unseen) == 0 {
		return nil
	}
	for _, name := range unseen {
		m.logger.Error("unknown parameter", zap.String("name", name))
	}
	return &UnknownParameterError{Names: unseen}
}
