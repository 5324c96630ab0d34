package methods

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/apstndb/simparams/internal/params"
	"github.com/apstndb/simparams/internal/registry"
)

// Config is the typed configuration of a method, ready for its constructor.
type Config interface {
	MethodName() string
}

// Spec is what a builder receives: the manager over the descriptor's
// parameters and the manager options to use for nested descriptors.
type Spec struct {
	*params.Manager
	opts []params.ManagerOption
}

// Registries of the known methods and spaces.
var (
	Methods = registry.New[Config, Spec]()
	Spaces  = registry.New[Space, Spec]()
)

// Build builds a method configuration. The descriptor's parameters must all be
// read by the builder.
func Build(d Desc, opts ...params.ManagerOption) (Config, error) {
	if _, ok := Methods.Lookup(d.Name); !ok {
		return nil, fmt.Errorf("unknown method %q", d.Name)
	}
	var cfg Config
	err := params.Use(d.Params, func(m *params.Manager) error {
		var err error
		cfg, err = Methods.Build(d.Name, Spec{Manager: m, opts: opts})
		return err
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("method %s: %w", d.Name, err)
	}
	return cfg, nil
}

// BuildSpace builds a space configuration.
func BuildSpace(d Desc, opts ...params.ManagerOption) (Space, error) {
	if _, ok := Spaces.Lookup(d.Name); !ok {
		return Space{}, fmt.Errorf("unknown space %q", d.Name)
	}
	var sp Space
	err := params.Use(d.Params, func(m *params.Manager) error {
		var err error
		sp, err = Spaces.Build(d.Name, Spec{Manager: m, opts: opts})
		return err
	}, opts...)
	if err != nil {
		return Space{}, fmt.Errorf("space %s: %w", d.Name, err)
	}
	return sp, nil
}

// BuildAll builds every method and reports all failures together. No
// configuration is returned unless every descriptor is valid.
func BuildAll(descs []Desc, logger *zap.Logger) ([]Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var errs error
	configs := make([]Config, 0, len(descs))
	for _, d := range descs {
		cfg, err := Build(d, params.WithLogger(logger.With(zap.String("method", d.Name))))
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		configs = append(configs, cfg)
	}
	if errs != nil {
		return nil, errs
	}
	return configs, nil
}
