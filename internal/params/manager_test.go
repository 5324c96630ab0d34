package params_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/apstndb/simparams/internal/params"
)

func mustParse(t *testing.T, tokens ...string) *params.Params {
	t.Helper()
	p, err := params.Parse(tokens)
	require.NoError(t, err)
	return p
}

func mustManager(t *testing.T, p *params.Params, opts ...params.ManagerOption) *params.Manager {
	t.Helper()
	m, err := params.NewManager(p, opts...)
	require.NoError(t, err)
	return m
}

func TestNewManagerRejectsMismatchedLengths(t *testing.T) {
	t.Parallel()
	_, err := params.NewManager(params.New([]string{"a", "b"}, []string{"1"}))
	assert.ErrorIs(t, err, params.ErrInternal)
}

func TestNewManagerNilParams(t *testing.T) {
	t.Parallel()
	m := mustManager(t, nil)
	assert.NoError(t, m.Finish())
	assert.Equal(t, 0, m.Params().Len())
}

func TestGetOptional(t *testing.T) {
	t.Parallel()

	t.Run("absent keeps default", func(t *testing.T) {
		m := mustManager(t, mustParse(t, "other=1"))
		val := 3
		require.NoError(t, params.GetOptional(m, "name", &val))
		assert.Equal(t, 3, val)
		assert.False(t, m.Seen("name"))
	})

	t.Run("present overwrites", func(t *testing.T) {
		m := mustManager(t, mustParse(t, "name=42"))
		val := 3
		require.NoError(t, params.GetOptional(m, "name", &val))
		assert.Equal(t, 42, val)
		assert.True(t, m.Seen("name"))
	})

	t.Run("unparsable fails and keeps default", func(t *testing.T) {
		m := mustManager(t, mustParse(t, "name=12x"))
		val := 3
		err := params.GetOptional(m, "name", &val)
		assert.ErrorIs(t, err, params.ErrConversion)
		assert.Equal(t, 3, val)

		var convErr *params.ConversionError
		require.ErrorAs(t, err, &convErr)
		assert.Equal(t, "name", convErr.Name)
		assert.Equal(t, "12x", convErr.Value)
	})

	t.Run("value form", func(t *testing.T) {
		m := mustManager(t, mustParse(t, "efSearch=100"))
		ef, err := params.Optional(m, "efSearch", 10)
		require.NoError(t, err)
		assert.Equal(t, 100, ef)

		alpha, err := params.Optional(m, "alpha", 1.5)
		require.NoError(t, err)
		assert.Equal(t, 1.5, alpha)
	})
}

func TestGetRequired(t *testing.T) {
	t.Parallel()

	t.Run("absent fails", func(t *testing.T) {
		m := mustManager(t, mustParse(t, "a=1"))
		val := "unchanged"
		err := params.GetRequired(m, "missing", &val)
		assert.ErrorIs(t, err, params.ErrMissingRequired)
		assert.Equal(t, "unchanged", val)

		var missErr *params.MissingRequiredError
		require.ErrorAs(t, err, &missErr)
		assert.Equal(t, "missing", missErr.Name)
		assert.False(t, m.Seen("missing"))
	})

	t.Run("present converts", func(t *testing.T) {
		m := mustManager(t, mustParse(t, "p=0.5", "space=l2"))
		p, err := params.Required[float64](m, "p")
		require.NoError(t, err)
		assert.Equal(t, 0.5, p)

		var space string
		require.NoError(t, params.GetRequired(m, "space", &space))
		assert.Equal(t, "l2", space)
		assert.NoError(t, m.Finish())
	})

	t.Run("unparsable fails but counts as seen", func(t *testing.T) {
		m := mustManager(t, mustParse(t, "M=12x"))
		_, err := params.Required[int](m, "M")
		assert.ErrorIs(t, err, params.ErrConversion)
		assert.True(t, m.Seen("M"))
	})
}

func TestFinish(t *testing.T) {
	t.Parallel()

	t.Run("all consumed", func(t *testing.T) {
		m := mustManager(t, mustParse(t, "a=1", "b=2", "c=3"))
		_, err := params.Required[int](m, "a")
		require.NoError(t, err)
		_, err = params.Optional(m, "b", 0)
		require.NoError(t, err)
		_ = m.ExtractExcept("a", "b")
		assert.NoError(t, m.Finish())
	})

	t.Run("reads more than once", func(t *testing.T) {
		m := mustManager(t, mustParse(t, "a=1"))
		for range 2 {
			_, err := params.Required[int](m, "a")
			require.NoError(t, err)
		}
		assert.NoError(t, m.Finish())
	})

	t.Run("reports every unseen name in order", func(t *testing.T) {
		m := mustManager(t, mustParse(t, "z=1", "used=2", "a=3"))
		_, err := params.Required[int](m, "used")
		require.NoError(t, err)

		err = m.Finish()
		assert.ErrorIs(t, err, params.ErrUnknownParameter)

		var unkErr *params.UnknownParameterError
		require.ErrorAs(t, err, &unkErr)
		if diff := cmp.Diff([]string{"z", "a"}, unkErr.Names); diff != "" {
			t.Errorf("Names mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, "unknown parameters: z, a", err.Error())
	})

	t.Run("empty set", func(t *testing.T) {
		assert.NoError(t, mustManager(t, mustParse(t)).Finish())
	})
}

func TestExtractExcept(t *testing.T) {
	t.Parallel()

	m := mustManager(t, mustParse(t, "a=1", "b=2", "c=3"))
	sub := m.ExtractExcept("a")

	if diff := cmp.Diff([]string{"b=2", "c=3"}, sub.Tokens()); diff != "" {
		t.Errorf("ExtractExcept mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, m.Seen("a"))
	assert.True(t, m.Seen("b"))
	assert.True(t, m.Seen("c"))
	assert.Equal(t, []string{"a"}, m.Unseen())

	_, err := params.Required[int](m, "a")
	require.NoError(t, err)
	assert.NoError(t, m.Finish())
}

func TestExtractExceptEdgeCases(t *testing.T) {
	t.Parallel()

	t.Run("nothing excluded", func(t *testing.T) {
		m := mustManager(t, mustParse(t, "a=1", "b=2"))
		sub := m.ExtractExcept()
		assert.Equal(t, []string{"a=1", "b=2"}, sub.Tokens())
		assert.NoError(t, m.Finish())
	})

	t.Run("everything excluded", func(t *testing.T) {
		m := mustManager(t, mustParse(t, "a=1"))
		sub := m.ExtractExcept("a", "not-present")
		assert.Equal(t, 0, sub.Len())
		assert.False(t, m.Seen("not-present"))
	})

	t.Run("independent of source", func(t *testing.T) {
		src := mustParse(t, "a=1", "b=2")
		m := mustManager(t, src)
		sub := m.ExtractExcept("a")
		require.NoError(t, params.ChangeParam(sub, "b", 5))

		v, _ := src.Get("b")
		assert.Equal(t, "2", v)
	})
}

func TestNestedManagers(t *testing.T) {
	t.Parallel()

	build := func(tokens ...string) error {
		return params.Use(mustParse(t, tokens...), func(m *params.Manager) error {
			var indexQty int
			if err := params.GetRequired(m, "indexQty", &indexQty); err != nil {
				return err
			}
			nested := m.ExtractExcept("indexQty")
			return params.Use(nested, func(nm *params.Manager) error {
				_, err := params.Optional(nm, "M", 16)
				return err
			})
		})
	}

	assert.NoError(t, build("indexQty=3", "M=32"))

	err := build("indexQty=3", "M=32", "typo=1")
	var unkErr *params.UnknownParameterError
	require.ErrorAs(t, err, &unkErr)
	assert.Equal(t, []string{"typo"}, unkErr.Names, "nested manager reports forwarded leftovers")

	assert.ErrorIs(t, build("M=32"), params.ErrMissingRequired)
}

func TestUse(t *testing.T) {
	t.Parallel()

	t.Run("callback error takes precedence", func(t *testing.T) {
		want := errors.New("boom")
		err := params.Use(mustParse(t, "unused=1"), func(*params.Manager) error { return want })
		assert.ErrorIs(t, err, want)
		assert.NotErrorIs(t, err, params.ErrUnknownParameter)
	})

	t.Run("finish runs after callback", func(t *testing.T) {
		err := params.Use(mustParse(t, "unused=1"), func(*params.Manager) error { return nil })
		assert.ErrorIs(t, err, params.ErrUnknownParameter)
	})

	t.Run("manager construction error", func(t *testing.T) {
		called := false
		err := params.Use(params.New([]string{"a"}, nil), func(*params.Manager) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, params.ErrInternal)
		assert.False(t, called)
	})
}

func TestChangeParamDoesNotAffectSeen(t *testing.T) {
	t.Parallel()
	p := mustParse(t, "a=1", "b=2")
	m := mustManager(t, p)

	_, err := params.Required[int](m, "a")
	require.NoError(t, err)
	require.NoError(t, params.ChangeParam(p, "b", 7))

	assert.False(t, m.Seen("b"))
	got, err := params.Required[int](m, "b")
	require.NoError(t, err)
	assert.Equal(t, 7, got, "manager reads the current value")
}

func TestManagerLogging(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zapcore.InfoLevel)
	m := mustManager(t, mustParse(t, "M=16", "stale=1"), params.WithLogger(zap.New(core)))

	_, err := params.Required[int](m, "M")
	require.NoError(t, err)
	_, err = params.Optional(m, "efSearch", 20)
	require.NoError(t, err)
	require.Error(t, m.Finish())

	reads := logs.FilterMessage("parameter").All()
	require.Len(t, reads, 2)
	assert.Equal(t, "M", reads[0].ContextMap()["name"])
	assert.Equal(t, "16", reads[0].ContextMap()["value"])
	assert.Equal(t, "efSearch", reads[1].ContextMap()["name"])
	assert.Equal(t, true, reads[1].ContextMap()["default"])

	unknown := logs.FilterMessage("unknown parameter").All()
	require.Len(t, unknown, 1)
	assert.Equal(t, zapcore.ErrorLevel, unknown[0].Level)
	assert.Equal(t, "stale", unknown[0].ContextMap()["name"])
}
