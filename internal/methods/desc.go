// Package methods turns method and space descriptors into typed configurations.
//
// A descriptor names a registered method or space and carries its parameters:
//
//	hnsw:M=16,efConstruction=200
//	lp:p=0.5
//	seq_search
//
// Each descriptor is built with its own params.Manager, so a parameter the
// builder never reads fails the whole configuration.
package methods

import (
	"fmt"
	"strings"

	"github.com/apstndb/simparams/internal/params"
)

// Desc is a parsed method or space descriptor.
type Desc struct {
	Name   string
	Params *params.Params
}

// String returns the descriptor in its textual form.
func (d Desc) String() string {
	if d.Params.Len() == 0 {
		return d.Name
	}
	return d.Name + ":" + d.Params.String()
}

// ParseDesc parses "<name>" or "<name>:<p1>=<v1>,<p2>=<v2>,...".
// An empty parameter list after the colon is allowed.
func ParseDesc(s string) (Desc, error) {
	name, rest, hasParams := strings.Cut(s, ":")
	if name == "" {
		return Desc{}, fmt.Errorf("invalid descriptor %q: empty name", s)
	}

	var tokens []string
	if hasParams && rest != "" {
		tokens = strings.Split(rest, ",")
	}
	p, err := params.Parse(tokens)
	if err != nil {
		return Desc{}, fmt.Errorf("invalid descriptor %q: %w", s, err)
	}
	return Desc{Name: name, Params: p}, nil
}

// ParseDescs parses every descriptor, keeping order and repeated names.
func ParseDescs(ss []string) ([]Desc, error) {
	descs := make([]Desc, 0, len(ss))
	for _, s := range ss {
		d, err := ParseDesc(s)
		if err != nil {
			return nil, err
		}
		descs = append(descs, d)
	}
	return descs, nil
}
