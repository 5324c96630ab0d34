package methods

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"

	"github.com/apstndb/simparams/internal/params"
)

// File is the YAML form of an experiment's method list.
//
//	space: "lp:p=0.5"
//	methods:
//	  - name: hnsw
//	    params: [M=16, efConstruction=200]
//	  - name: seq_search
type File struct {
	Space   string       `yaml:"space"`
	Methods []FileMethod `yaml:"methods"`
}

// FileMethod is one entry of File.Methods.
type FileMethod struct {
	Name   string   `yaml:"name"`
	Params []string `yaml:"params"`
}

// LoadFile reads a YAML method file from fs. Unknown fields are errors.
// The space is returned as an empty Desc when the file does not set one.
func LoadFile(fs afero.Fs, path string) (space Desc, descs []Desc, err error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return Desc{}, nil, err
	}

	var f File
	if err := yaml.UnmarshalWithOptions(b, &f, yaml.DisallowUnknownField()); err != nil {
		return Desc{}, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if f.Space != "" {
		if space, err = ParseDesc(f.Space); err != nil {
			return Desc{}, nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	for i, fm := range f.Methods {
		if fm.Name == "" {
			return Desc{}, nil, fmt.Errorf("%s: methods[%d]: empty name", path, i)
		}
		p, err := params.Parse(fm.Params)
		if err != nil {
			return Desc{}, nil, fmt.Errorf("%s: method %s: %w", path, fm.Name, err)
		}
		descs = append(descs, Desc{Name: fm.Name, Params: p})
	}
	return space, descs, nil
}
