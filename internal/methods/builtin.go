package methods

import (
	"fmt"
	"runtime"

	"github.com/apstndb/simparams/internal/params"
	"github.com/apstndb/simparams/internal/parser"
	"github.com/apstndb/simparams/internal/registry"
)

// Method names registered by this package.
const (
	MethodSeqSearch = "seq_search"
	MethodHNSW      = "hnsw"
	MethodSWGraph   = "sw-graph"
	MethodVPTree    = "vptree"
	MethodMultIndex = "mult_index"
)

func init() {
	registry.MustRegister(Methods, MethodSeqSearch, buildSeqSearch,
		registry.WithDoc("brute-force sequential scan, no parameters"))
	registry.MustRegister(Methods, MethodHNSW, buildHNSW,
		registry.WithDoc("hierarchical navigable small world graph: M, efConstruction, efSearch, indexThreadQty, delaunay_type"))
	registry.MustRegister(Methods, MethodSWGraph, buildSWGraph,
		registry.WithDoc("small world graph: NN, efConstruction, efSearch, initIndexAttempts, indexThreadQty"))
	registry.MustRegister(Methods, MethodVPTree, buildVPTree,
		registry.WithDoc("vantage point tree: bucketSize, chunkBucket, selectPivotAttempts, alphaLeft, alphaRight"))
	registry.MustRegister(Methods, MethodMultIndex, buildMultIndex,
		registry.WithDoc("indexQty copies of methodName; other parameters go to the nested method"))
}

// SeqSearch configures the sequential scan.
type SeqSearch struct{}

func (SeqSearch) MethodName() string { return MethodSeqSearch }

// HNSW configures a hierarchical navigable small world graph.
type HNSW struct {
	M              int
	EfConstruction int
	EfSearch       int
	IndexThreadQty int
	DelaunayType   int
}

func (HNSW) MethodName() string { return MethodHNSW }

// SWGraph configures a small world graph.
type SWGraph struct {
	NN                int
	EfConstruction    int
	EfSearch          int
	InitIndexAttempts int
	IndexThreadQty    int
}

func (SWGraph) MethodName() string { return MethodSWGraph }

// VPTree configures a vantage point tree.
type VPTree struct {
	BucketSize          int
	ChunkBucket         bool
	SelectPivotAttempts int
	AlphaLeft           float64
	AlphaRight          float64
}

func (VPTree) MethodName() string { return MethodVPTree }

// MultIndex configures IndexQty independent copies of a nested method.
type MultIndex struct {
	IndexQty int
	Nested   Config
}

func (MultIndex) MethodName() string { return MethodMultIndex }

// Value checks shared by the builders. A parameter is converted by the
// params package and then checked with Validate of one of these.
var (
	positiveInt   parser.Parser[int]     = parser.NewIntParser[int]().WithMin(1)
	positiveFloat parser.Parser[float64] = parser.WithValidation[float64](parser.NewFloatParser[float64](), parser.Positive[float64])
	delaunayType  parser.Parser[int]     = parser.NewIntParser[int]().WithRange(0, 3)
	boolValue     parser.Parser[bool]    = parser.NewBoolParser()
	nonEmptyName  parser.Parser[string]  = parser.NewStringParser().NonEmpty()
)

func buildSeqSearch(Spec) (Config, error) {
	return SeqSearch{}, nil
}

func buildHNSW(s Spec) (Config, error) {
	cfg := HNSW{
		M:              16,
		EfConstruction: 200,
		EfSearch:       10,
		IndexThreadQty: runtime.NumCPU(),
		DelaunayType:   2,
	}
	if err := getAll(
		optional(s, "M", &cfg.M, positiveInt),
		optional(s, "efConstruction", &cfg.EfConstruction, positiveInt),
		optional(s, "efSearch", &cfg.EfSearch, positiveInt),
		optional(s, "indexThreadQty", &cfg.IndexThreadQty, positiveInt),
		optional(s, "delaunay_type", &cfg.DelaunayType, delaunayType),
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildSWGraph(s Spec) (Config, error) {
	cfg := SWGraph{
		NN:                10,
		InitIndexAttempts: 1,
		IndexThreadQty:    runtime.NumCPU(),
	}
	if err := optional(s, "NN", &cfg.NN, positiveInt)(); err != nil {
		return nil, err
	}
	// Both ef values follow NN unless set explicitly.
	cfg.EfConstruction, cfg.EfSearch = cfg.NN, cfg.NN
	if err := getAll(
		optional(s, "efConstruction", &cfg.EfConstruction, positiveInt),
		optional(s, "efSearch", &cfg.EfSearch, positiveInt),
		optional(s, "initIndexAttempts", &cfg.InitIndexAttempts, positiveInt),
		optional(s, "indexThreadQty", &cfg.IndexThreadQty, positiveInt),
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildVPTree(s Spec) (Config, error) {
	cfg := VPTree{
		BucketSize:          50,
		ChunkBucket:         true,
		SelectPivotAttempts: 5,
		AlphaLeft:           1,
		AlphaRight:          1,
	}
	if err := getAll(
		optional(s, "bucketSize", &cfg.BucketSize, positiveInt),
		optional(s, "chunkBucket", &cfg.ChunkBucket, boolValue),
		optional(s, "selectPivotAttempts", &cfg.SelectPivotAttempts, positiveInt),
		optional(s, "alphaLeft", &cfg.AlphaLeft, positiveFloat),
		optional(s, "alphaRight", &cfg.AlphaRight, positiveFloat),
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildMultIndex(s Spec) (Config, error) {
	var cfg MultIndex
	var nestedName string
	if err := getAll(
		required(s, "indexQty", &cfg.IndexQty, positiveInt),
		required(s, "methodName", &nestedName, nonEmptyName),
	); err != nil {
		return nil, err
	}
	if nestedName == MethodMultIndex {
		return nil, fmt.Errorf("%s cannot nest itself", MethodMultIndex)
	}

	nested, err := Build(Desc{Name: nestedName, Params: s.ExtractExcept("indexQty", "methodName")}, s.opts...)
	if err != nil {
		return nil, err
	}
	cfg.Nested = nested
	return cfg, nil
}

// getter defers a parameter read so a builder can list its parameters in one place.
type getter func() error

func getAll(getters ...getter) error {
	for _, g := range getters {
		if err := g(); err != nil {
			return err
		}
	}
	return nil
}

func optional[T any](s Spec, name string, dst *T, p parser.Parser[T]) getter {
	return func() error {
		if err := params.GetOptional(s.Manager, name, dst); err != nil {
			return err
		}
		return validate(name, *dst, p)
	}
}

func required[T any](s Spec, name string, dst *T, p parser.Parser[T]) getter {
	return func() error {
		if err := params.GetRequired(s.Manager, name, dst); err != nil {
			return err
		}
		return validate(name, *dst, p)
	}
}

func validate[T any](name string, v T, p parser.Parser[T]) error {
	if err := p.Validate(v); err != nil {
		return fmt.Errorf("parameter %s: %w", name, err)
	}
	return nil
}
