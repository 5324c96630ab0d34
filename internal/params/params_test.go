package params_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apstndb/simparams/internal/params"
)

func TestParseKeepsOrder(t *testing.T) {
	t.Parallel()
	tokens := []string{"M=16", "efConstruction=200", "delaunay_type=2", "post=", "Z=last"}

	p, err := params.Parse(tokens)
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"M", "efConstruction", "delaunay_type", "post", "Z"}, p.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"16", "200", "2", "", "last"}, p.Values()); diff != "" {
		t.Errorf("Values() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(tokens, p.Tokens()); diff != "" {
		t.Errorf("Tokens() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 5, p.Len())
}

func TestParseEmpty(t *testing.T) {
	t.Parallel()
	p, err := params.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Len())
	assert.Empty(t, p.Tokens())
	assert.Equal(t, "", p.String())
}

func TestParseDuplicate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		tokens []string
	}{
		{"adjacent", []string{"a=1", "a=2"}},
		{"first and last", []string{"a=1", "b=2", "c=3", "a=4"}},
		{"middle", []string{"x=1", "b=2", "c=3", "b=2"}},
		{"same value", []string{"k=v", "k=v"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := params.Parse(tt.tokens)
			require.Error(t, err)
			assert.ErrorIs(t, err, params.ErrDuplicateName)

			var dupErr *params.DuplicateNameError
			require.ErrorAs(t, err, &dupErr)
			assert.NotEmpty(t, dupErr.Name)
		})
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		token string
	}{
		{"no equals", "foo"},
		{"two equals", "a=b=c"},
		{"empty name", "=v"},
		{"only equals", "="},
		{"empty token", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := params.Parse([]string{"ok=1", tt.token})
			assert.ErrorIs(t, err, params.ErrFormat)

			var formatErr *params.FormatError
			require.ErrorAs(t, err, &formatErr)
			assert.Equal(t, tt.token, formatErr.Token)
		})
	}
}

func TestParseNoTrimming(t *testing.T) {
	t.Parallel()
	p, err := params.Parse([]string{" a = b "})
	require.NoError(t, err)

	v, ok := p.Get(" a ")
	assert.True(t, ok)
	assert.Equal(t, " b ", v)
	assert.False(t, p.Has("a"))
}

func TestParseAllowEqualsInValue(t *testing.T) {
	t.Parallel()
	p, err := params.Parse([]string{"a=b=c", "expr=x==y"}, params.AllowEqualsInValue())
	require.NoError(t, err)

	v, ok := p.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "b=c", v)

	v, _ = p.Get("expr")
	assert.Equal(t, "x==y", v)

	_, err = params.Parse([]string{"=c"}, params.AllowEqualsInValue())
	assert.ErrorIs(t, err, params.ErrFormat)
	_, err = params.Parse([]string{"foo"}, params.AllowEqualsInValue())
	assert.ErrorIs(t, err, params.ErrFormat)
}

func TestNewDoesNotValidate(t *testing.T) {
	t.Parallel()
	names := []string{"a", "a"}
	p := params.New(names, []string{"1", "2"})
	assert.Equal(t, 2, p.Len())

	names[0] = "changed"
	assert.Equal(t, []string{"a", "a"}, p.Names(), "New must copy its inputs")
}

func TestChangeParam(t *testing.T) {
	t.Parallel()
	p, err := params.Parse([]string{"p=1", "name=x", "flag=false"})
	require.NoError(t, err)

	require.NoError(t, params.ChangeParam(p, "p", 0.25))
	require.NoError(t, params.ChangeParam(p, "name", "y"))
	require.NoError(t, params.ChangeParam(p, "flag", true))
	assert.Equal(t, "p=0.25,name=y,flag=true", p.String())

	err = params.ChangeParam(p, "missing", 3)
	assert.ErrorIs(t, err, params.ErrNotFound)
	var nfErr *params.NotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "missing", nfErr.Name)
	assert.Equal(t, 3, p.Len())
}

func TestAllStopsEarly(t *testing.T) {
	t.Parallel()
	p, err := params.Parse([]string{"a=1", "b=2", "c=3"})
	require.NoError(t, err)

	var got []string
	for name, value := range p.All() {
		got = append(got, fmt.Sprintf("%s:%s", name, value))
		if name == "b" {
			break
		}
	}
	assert.Equal(t, []string{"a:1", "b:2"}, got)
}

func TestNilParams(t *testing.T) {
	t.Parallel()
	var p *params.Params
	assert.Equal(t, 0, p.Len())
	assert.Nil(t, p.Names())
	assert.False(t, p.Has("a"))
	assert.Empty(t, p.Tokens())
}
