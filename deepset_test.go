package deepset_test

import (
	"errors"
	"regexp"
	"slices"
	"testing"

	"github.com/aretw0/deepset"
	"github.com/aretw0/deepset/pkg/container"
	"github.com/aretw0/deepset/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_Scenarios(t *testing.T) {
	t.Run("overwrite existing record leaf", func(t *testing.T) {
		host := map[string]any{"foo": map[string]any{"bar": map[string]any{"baz": map[string]any{"beh": "qux"}}}}

		assert.True(t, deepset.Set(host, []any{"foo", "bar", "baz", "beh"}, "quux"))
		assert.Equal(t, map[string]any{"foo": map[string]any{"bar": map[string]any{"baz": map[string]any{"beh": "quux"}}}}, host)
	})

	t.Run("overwrite existing list leaf", func(t *testing.T) {
		host := []any{[]any{[]any{[]any{"foo"}}}}

		assert.True(t, deepset.Set(host, []any{0, 0, 0, 0}, "bar"))
		assert.Equal(t, []any{[]any{[]any{[]any{"bar"}}}}, host)
	})

	t.Run("build records", func(t *testing.T) {
		host := map[string]any{}

		assert.True(t, deepset.Set(host, []any{"foo", "bar", "baz", "beh"}, "qux"))
		assert.Equal(t, map[string]any{"foo": map[string]any{"bar": map[string]any{"baz": map[string]any{"beh": "qux"}}}}, host)
	})

	t.Run("build lists", func(t *testing.T) {
		host := &[]any{}

		assert.True(t, deepset.Set(host, []any{0, 0, 0, 0}, "foo"))
		assert.Equal(t, []any{[]any{[]any{[]any{"foo"}}}}, *host)
	})

	t.Run("replace set member by position", func(t *testing.T) {
		inner := container.NewSet("foo", "bar", "baz", "beh", "qux", "quz")
		host := container.NewSet(container.NewSet(inner))

		assert.True(t, deepset.Set(host, []any{0, 0, 2}, "foobar"))
		assert.Equal(t, []any{"foo", "bar", "foobar", "beh", "qux", "quz"}, inner.Values())
	})

	t.Run("weak set on the path", func(t *testing.T) {
		host := map[string]any{"a": container.NewWeakSet[int]()}

		assert.False(t, deepset.Set(host, "a[0].b", 1))
	})
}

func TestSet_StringPaths(t *testing.T) {
	host := map[string]any{}

	require.True(t, deepset.Set(host, "foo[0][0]", "x"))
	require.True(t, deepset.Set(host, "cfg.db.port", 5432))

	assert.Equal(t, []any{[]any{"x"}}, host["foo"])
	v, ok := deepset.Get(host, "cfg.db.port")
	assert.True(t, ok)
	assert.Equal(t, 5432, v)
}

func TestSet_CustomMatch(t *testing.T) {
	host := map[string]any{}
	slash := deepset.WithMatch(regexp.MustCompile(`[^/]+`))

	require.True(t, deepset.Set(host, "hosts/example.com/port", 443, slash))

	assert.Equal(t, map[string]any{"hosts": map[string]any{"example.com": map[string]any{"port": 443}}}, host)
}

func TestSet_BadArguments(t *testing.T) {
	host := map[string]any{}

	tests := []struct {
		name    string
		host    any
		path    any
		value   any
		wantErr error
	}{
		{"nil host", nil, "a", 1, domain.ErrBadArguments},
		{"nil path", host, nil, 1, domain.ErrBadArguments},
		{"nil value", host, "a", nil, domain.ErrBadArguments},
		{"empty path", host, "", 1, domain.ErrBadPath},
		{"only separators", host, ".[].", 1, domain.ErrBadPath},
		{"unsupported path", host, 3.5, 1, domain.ErrBadPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, deepset.Set(tt.host, tt.path, tt.value))

			_, err := deepset.Stream(tt.host, tt.path, tt.value)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, host, "argument errors never touch the host")
}

func TestStream_StepsAndDrainAgree(t *testing.T) {
	build := func() map[string]any {
		return map[string]any{"a": map[string]any{"b": []any{}}}
	}

	streamed := build()
	w, err := deepset.Stream(streamed, "a.b[0].c.d", "v")
	require.NoError(t, err)
	steps := slices.Collect(w.All())

	drained := build()
	ok := deepset.Set(drained, "a.b[0].c.d", "v")

	require.Len(t, steps, 5, "one step per level plus the result")
	last := steps[len(steps)-1]
	assert.True(t, last.Final())
	assert.Equal(t, ok, last.OK)
	assert.Equal(t, drained, streamed)
}

func TestStream_FailureStepCarriesError(t *testing.T) {
	host := map[string]any{"n": 1}

	w, err := deepset.Stream(host, "n.x", "v")
	require.NoError(t, err)
	steps := slices.Collect(w.All())

	require.Len(t, steps, 2)
	final := steps[1]
	assert.False(t, final.OK)
	assert.ErrorIs(t, final.Err, domain.ErrUnsettable)

	var cerr *domain.ConstructionError
	require.True(t, errors.As(final.Err, &cerr))
	assert.Equal(t, "x", cerr.Key)
	assert.Equal(t, 1, cerr.Target)
}

func TestSetter_Customizers(t *testing.T) {
	type vault struct{ secrets map[string]any }
	v := &vault{secrets: map[string]any{"token": "abc"}}
	host := map[string]any{"vault": v}

	s := deepset.New(
		deepset.WithGetCustomizer(func(target, key any) (any, bool) {
			if vt, ok := target.(*vault); ok {
				val, found := vt.secrets[key.(string)]
				return val, found
			}
			return nil, false
		}),
		deepset.WithCustomizer(func(target, key any, depth int, value any) (any, bool) {
			if vt, ok := target.(*vault); ok {
				vt.secrets[key.(string)] = value
				return value, true
			}
			return nil, false
		}),
	)

	got, ok := s.Get(host, "vault.token")
	require.True(t, ok)
	assert.Equal(t, "abc", got)

	require.True(t, s.Set(host, "vault.other", "xyz"))
	assert.Equal(t, "xyz", v.secrets["other"])
}

func TestSetter_Hooks(t *testing.T) {
	var kinds []domain.StepKind
	s := deepset.New(deepset.WithHooks(domain.Hooks{
		OnStep: func(step domain.Step) { kinds = append(kinds, step.Kind) },
	}))

	require.True(t, s.Set(map[string]any{}, "a.b", 1))

	assert.Equal(t, []domain.StepKind{domain.StepConstructed, domain.StepResult}, kinds)
}

func TestSetter_Apply(t *testing.T) {
	ok, err := deepset.New().Apply([]any{}, "[3]", "x")

	assert.False(t, ok)
	assert.ErrorIs(t, err, domain.ErrNotAddressable)
}

func TestSetter_HugeIndexFails(t *testing.T) {
	host := map[string]any{}

	assert.NotPanics(t, func() {
		assert.False(t, deepset.Set(host, "a[9223372036854775807]", "x"))
	})

	ok, err := deepset.New(deepset.WithMaxHoles(2)).Apply(host, "b[5]", "x")
	assert.False(t, ok)
	assert.ErrorIs(t, err, domain.ErrOutOfBounds)

	ok, err = deepset.New(deepset.WithMaxHoles(2)).Apply(host, "c[2]", "x")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []any{nil, nil, "x"}, host["c"])
}

func TestGet(t *testing.T) {
	host := map[string]any{"a": []any{map[string]any{"b": "c"}}}

	v, ok := deepset.Get(host, "a[0].b")
	assert.True(t, ok)
	assert.Equal(t, "c", v)

	_, ok = deepset.Get(host, "a[1].b")
	assert.False(t, ok)

	_, ok = deepset.Get(nil, "a")
	assert.False(t, ok)
}
