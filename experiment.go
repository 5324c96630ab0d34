package main

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/apstndb/simparams/internal/methods"
	"github.com/apstndb/simparams/internal/params"
	"github.com/apstndb/simparams/internal/parser"
)

const defaultDistType = "float"

// experiment is a fully validated configuration.
type experiment struct {
	DistType        distType
	SpaceDesc       methods.Desc
	Space           methods.Space
	Dimension       uint
	ThreadTestQty   uint
	AppendToResFile bool
	OutFilePrefix   string
	TestSetQty      uint
	DataFile        string
	QueryFile       string
	MaxNumData      uint
	MaxNumQuery     uint
	KNN             []uint
	Eps             float64
	Range           []float64
	MethodDescs     []methods.Desc
	Methods         []methods.Config
}

// buildExperiment validates opts as a whole. The returned error combines every
// problem found; no experiment is returned unless there are none.
func buildExperiment(opts *experimentOptions, fs afero.Fs, logger *zap.Logger) (*experiment, error) {
	exp := &experiment{
		Dimension:       opts.Dimension,
		ThreadTestQty:   lo.FromPtrOr(opts.ThreadTestQty, 1),
		AppendToResFile: opts.AppendToResFile,
		OutFilePrefix:   opts.OutFilePrefix,
		TestSetQty:      opts.TestSetQty,
		DataFile:        opts.DataFile,
		QueryFile:       opts.QueryFile,
		MaxNumData:      opts.MaxNumData,
		MaxNumQuery:     opts.MaxNumQuery,
		Eps:             opts.Eps,
	}

	var errs error
	if exp.DataFile == "" {
		errs = multierr.Append(errs, errors.New("missing parameter: --dataFile is required"))
	}
	if exp.ThreadTestQty == 0 {
		errs = multierr.Append(errs, errors.New("--threadTestQty must be positive"))
	}
	if exp.QueryFile == "" && exp.TestSetQty == 0 {
		errs = multierr.Append(errs, errors.New("--testSetQty must be positive if --queryFile is not specified"))
	}
	if exp.QueryFile == "" && exp.MaxNumQuery == 0 {
		errs = multierr.Append(errs, errors.New("--maxNumQuery must be positive if --queryFile is not specified"))
	}
	if exp.Eps < 0 {
		errs = multierr.Append(errs, fmt.Errorf("--eps must be non-negative, got %v", exp.Eps))
	}

	var err error
	if exp.DistType, err = params.Convert[distType](cmp.Or(opts.DistType, defaultDistType)); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("--distType: %w", err))
	}
	if exp.KNN, err = knnParser.ParseAndValidate(opts.KNN); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("--knn: %w", err))
	}
	if exp.Range, err = rangeParser.ParseAndValidate(opts.Range); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("--range: %w", err))
	}
	if opts.KNN == "" && opts.Range == "" {
		errs = multierr.Append(errs, errors.New("specify at least one of --knn or --range"))
	}

	spaceDesc, descs, err := loadDescs(opts, fs)
	if err != nil {
		return nil, multierr.Append(errs, err)
	}
	exp.SpaceDesc, exp.MethodDescs = spaceDesc, descs

	if exp.SpaceDesc.Name == "" {
		errs = multierr.Append(errs, errors.New("missing parameter: --spaceType is required"))
	} else if exp.Space, err = methods.BuildSpace(exp.SpaceDesc, params.WithLogger(logger.With(zap.String("space", spaceDesc.Name)))); err != nil {
		errs = multierr.Append(errs, err)
	}

	if len(exp.MethodDescs) == 0 {
		errs = multierr.Append(errs, errors.New("missing parameter: at least one --method is required"))
	} else if exp.Methods, err = methods.BuildAll(exp.MethodDescs, logger); err != nil {
		errs = multierr.Append(errs, err)
	}

	if errs != nil {
		return nil, errs
	}
	return exp, nil
}

// loadDescs merges the method file with the command line. Methods from both
// are kept; a --spaceType on the command line overrides the file's space.
func loadDescs(opts *experimentOptions, fs afero.Fs) (methods.Desc, []methods.Desc, error) {
	var space methods.Desc
	var descs []methods.Desc
	if opts.MethodsFile != "" {
		var err error
		if space, descs, err = methods.LoadFile(fs, opts.MethodsFile); err != nil {
			return methods.Desc{}, nil, err
		}
	}

	if opts.SpaceType != "" {
		var err error
		if space, err = methods.ParseDesc(opts.SpaceType); err != nil {
			return methods.Desc{}, nil, fmt.Errorf("--spaceType: %w", err)
		}
	}

	cliDescs, err := methods.ParseDescs(opts.Method)
	if err != nil {
		return methods.Desc{}, nil, fmt.Errorf("--method: %w", err)
	}
	return space, append(descs, cliDescs...), nil
}

// listParser parses a comma-separated list where every element must be exactly a T
// accepted by elem. The empty string is an empty list.
func listParser[T any](elem parser.Parser[T]) parser.Parser[[]T] {
	return parser.WithTransform[string, []T](parser.NewStringParser(), func(s string) ([]T, error) {
		if s == "" {
			return nil, nil
		}
		var list []T
		for _, e := range strings.Split(s, ",") {
			v, err := elem.ParseAndValidate(e)
			if err != nil {
				return nil, fmt.Errorf("invalid element %q: %w", e, err)
			}
			list = append(list, v)
		}
		return list, nil
	})
}

var (
	knnParser   = listParser[uint](parser.NewUintParser[uint]().WithMin(1))
	rangeParser = listParser[float64](parser.NewFloatParser[float64]().WithMin(0))
)

type distType int

const (
	distFloat distType = iota
	distDouble
	distInt
)

var distTypeNames = map[string]distType{
	"float":  distFloat,
	"double": distDouble,
	"int":    distInt,
}

func init() {
	if err := params.RegisterConverter[distType](parser.NewEnumParser(distTypeNames)); err != nil {
		panic(err)
	}
}

func (d distType) String() string {
	for name, v := range distTypeNames {
		if v == d {
			return name
		}
	}
	return fmt.Sprintf("distType(%d)", int(d))
}

func writeSummary(w io.Writer, exp *experiment) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Distance type:   %s\n", exp.DistType)
	fmt.Fprintf(&sb, "Space:           %s\n", exp.SpaceDesc)
	fmt.Fprintf(&sb, "Data file:       %s\n", exp.DataFile)
	fmt.Fprintf(&sb, "Query file:      %s\n", lo.Ternary(exp.QueryFile != "", exp.QueryFile, fmt.Sprintf("<bootstrap %d test sets>", exp.TestSetQty)))
	fmt.Fprintf(&sb, "Test threads:    %d\n", exp.ThreadTestQty)
	if len(exp.KNN) > 0 {
		fmt.Fprintf(&sb, "kNN:             %s (eps=%v)\n", joinValues(exp.KNN), exp.Eps)
	}
	if len(exp.Range) > 0 {
		fmt.Fprintf(&sb, "Range:           %s\n", joinValues(exp.Range))
	}
	fmt.Fprintf(&sb, "Methods:\n")
	for _, cfg := range exp.Methods {
		fmt.Fprintf(&sb, "  %s %+v\n", cfg.MethodName(), cfg)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

type jsonMethod struct {
	Name   string            `json:"name"`
	Params map[string]string `json:"params,omitempty"`
	Config methods.Config    `json:"config"`
}

type jsonExperiment struct {
	DistType      string            `json:"distType"`
	Space         string            `json:"space"`
	SpaceParams   map[string]string `json:"spaceParams,omitempty"`
	DataFile      string            `json:"dataFile"`
	QueryFile     string            `json:"queryFile,omitempty"`
	TestSetQty    uint              `json:"testSetQty,omitempty"`
	ThreadTestQty uint              `json:"threadTestQty"`
	KNN           []uint            `json:"knn,omitempty"`
	Eps           float64           `json:"eps"`
	Range         []float64         `json:"range,omitempty"`
	Methods       []jsonMethod      `json:"methods"`
}

func paramsMap(p *params.Params) map[string]string {
	m := make(map[string]string, p.Len())
	for name, value := range p.All() {
		m[name] = value
	}
	return m
}

// writeJSON prints the validated experiment with the typed configuration of every method.
func writeJSON(w io.Writer, exp *experiment) error {
	out := jsonExperiment{
		DistType:      exp.DistType.String(),
		Space:         exp.SpaceDesc.Name,
		SpaceParams:   paramsMap(exp.SpaceDesc.Params),
		DataFile:      exp.DataFile,
		QueryFile:     exp.QueryFile,
		TestSetQty:    exp.TestSetQty,
		ThreadTestQty: exp.ThreadTestQty,
		KNN:           exp.KNN,
		Eps:           exp.Eps,
		Range:         exp.Range,
	}
	for i, cfg := range exp.Methods {
		out.Methods = append(out.Methods, jsonMethod{
			Name:   cfg.MethodName(),
			Params: paramsMap(exp.MethodDescs[i].Params),
			Config: cfg,
		})
	}
	if err := json.MarshalWrite(w, out, jsontext.WithIndent("  "), json.Deterministic(true)); err != nil {
		return fmt.Errorf("failed to marshal experiment: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func joinValues[T any](values []T) string {
	return strings.Join(lo.Map(values, func(v T, _ int) string { return fmt.Sprint(v) }), ",")
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithRenderer(
			renderer.NewBlueprint(tw.Rendition{Symbols: tw.NewSymbols(tw.StyleASCII)})),
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithTrimSpace(tw.Off),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	).Configure(func(config *tablewriter.Config) {
		config.Row.Formatting.AutoWrap = tw.WrapNone
	})
}

// writeParamsTable prints the explicitly given parameters of the space and every method.
func writeParamsTable(w io.Writer, exp *experiment) error {
	table := newTable(w)
	table.Header([]string{"Component", "Parameter", "Value"})

	descs := append([]methods.Desc{exp.SpaceDesc}, exp.MethodDescs...)
	for i, d := range descs {
		component := lo.Ternary(i == 0, "space "+d.Name, d.Name)
		for name, value := range d.Params.All() {
			if err := table.Append([]string{component, name, value}); err != nil {
				return fmt.Errorf("failed to append row: %w", err)
			}
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

func writeRegistry(w io.Writer) error {
	table := newTable(w)
	table.Header([]string{"Kind", "Name", "Description"})

	for _, e := range methods.Methods.Entries() {
		if err := table.Append([]string{"method", e.Name, e.Doc}); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
	}
	for _, e := range methods.Spaces.Entries() {
		if err := table.Append([]string{"space", e.Name, e.Doc}); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}
