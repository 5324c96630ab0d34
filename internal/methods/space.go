package methods

import (
	"github.com/apstndb/simparams/internal/registry"
)

// Space is the typed configuration of a distance space.
// P is only meaningful for the lp space.
type Space struct {
	Name string
	P    float64
}

func init() {
	for _, name := range []string{"l1", "l2", "linf", "cosinesimil"} {
		registry.MustRegister(Spaces, name, func(Spec) (Space, error) {
			return Space{Name: name}, nil
		}, registry.WithDoc("no parameters"))
	}
	registry.MustRegister(Spaces, "lp", buildLp, registry.WithDoc("Minkowski distance: p (required, positive)"))
}

func buildLp(s Spec) (Space, error) {
	sp := Space{Name: "lp"}
	if err := required(s, "p", &sp.P, positiveFloat)(); err != nil {
		return Space{}, err
	}
	return sp, nil
}
