package runtime_test

import (
	"errors"
	"math"
	"testing"

	"github.com/aretw0/deepset/internal/runtime"
	"github.com/aretw0/deepset/pkg/container"
	"github.com/aretw0/deepset/pkg/deepget"
	"github.com/aretw0/deepset/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, host any, keys []any, value any, opts ...runtime.Option) (bool, error) {
	t.Helper()
	w, err := runtime.NewWalker(host, keys, value, opts...)
	require.NoError(t, err)
	return w.Drain()
}

func nestedSets(members ...any) *container.Set {
	return container.NewSet(container.NewSet(container.NewSet(members...)))
}

func TestWalker_Scenarios(t *testing.T) {
	t.Run("existing records", func(t *testing.T) {
		host := map[string]any{"foo": map[string]any{"bar": map[string]any{"baz": map[string]any{"beh": "qux"}}}}

		ok, err := drain(t, host, []any{"foo", "bar", "baz", "beh"}, "quux")

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, map[string]any{"foo": map[string]any{"bar": map[string]any{"baz": map[string]any{"beh": "quux"}}}}, host)
	})

	t.Run("existing lists", func(t *testing.T) {
		host := []any{[]any{[]any{[]any{"foo"}}}}

		ok, err := drain(t, host, []any{0, 0, 0, 0}, "bar")

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []any{[]any{[]any{[]any{"bar"}}}}, host)
	})

	t.Run("empty record builds records", func(t *testing.T) {
		host := map[string]any{}

		ok, err := drain(t, host, []any{"foo", "bar", "baz", "beh"}, "qux")

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, map[string]any{"foo": map[string]any{"bar": map[string]any{"baz": map[string]any{"beh": "qux"}}}}, host)
	})

	t.Run("empty list builds lists", func(t *testing.T) {
		host := &[]any{}

		ok, err := drain(t, host, []any{0, 0, 0, 0}, "foo")

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []any{[]any{[]any{[]any{"foo"}}}}, *host)
	})

	t.Run("set position replaced in order", func(t *testing.T) {
		host := nestedSets("foo", "bar", "baz", "beh", "qux", "quz")

		ok, err := drain(t, host, []any{0, 0, 2}, "foobar")

		require.NoError(t, err)
		assert.True(t, ok)
		outer, _ := host.At(0)
		inner, _ := outer.(*container.Set).At(0)
		assert.Equal(t, []any{"foo", "bar", "foobar", "beh", "qux", "quz"}, inner.(*container.Set).Values())
	})

	t.Run("weak set fails", func(t *testing.T) {
		ws := container.NewWeakSet[string]()
		host := map[string]any{"weak": ws}

		ok, err := drain(t, host, []any{"weak", 0, "x"}, "v")

		assert.False(t, ok)
		assert.ErrorIs(t, err, domain.ErrUnenumerable)
	})
}

func TestWalker_ClassifiesCreatedLevels(t *testing.T) {
	opaque := &struct{ name string }{"k"}
	host := map[string]any{}

	ok, err := drain(t, host, []any{"list", 1, "rec", opaque, "leaf"}, true)

	require.NoError(t, err)
	require.True(t, ok)

	list := host["list"].([]any)
	require.Len(t, list, 2)
	assert.Nil(t, list[0], "holes are padded with nil")

	rec := list[1].(map[string]any)
	m, isMap := rec["rec"].(*container.Map)
	require.True(t, isMap, "opaque keys get a key-value container")

	leafHolder, found := m.Load(opaque)
	require.True(t, found)
	assert.Equal(t, map[string]any{"leaf": true}, leafHolder)
}

func TestWalker_ReadBack(t *testing.T) {
	tests := []struct {
		name string
		host any
		keys []any
	}{
		{"record", map[string]any{"a": map[string]any{}}, []any{"a", "b"}},
		{"list past end", map[string]any{"a": []any{"x"}}, []any{"a", 3}},
		{"string index on record", map[string]any{}, []any{"7", "x"}},
		{"any map", map[any]any{}, []any{-1, "x"}},
		{"ordered map with slice key", container.NewMap(), []any{make([]any, 0, 1), "y"}},
		{"set append", container.NewSet("a"), []any{1}},
		{"pointer root", &[]any{}, []any{2, "k"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := drain(t, tt.host, tt.keys, "value")
			require.NoError(t, err)
			require.True(t, ok)

			got, found := deepget.Get(tt.host, tt.keys)
			require.True(t, found)
			assert.Equal(t, "value", got)
		})
	}
}

func TestWalker_StepsPerLevel(t *testing.T) {
	host := map[string]any{"a": map[string]any{"b": map[string]any{}}}
	w, err := runtime.NewWalker(host, []any{"a", "b", "c", "d", "e"}, 1)
	require.NoError(t, err)

	var kinds []domain.StepKind
	var depths []int
	for step := range w.All() {
		kinds = append(kinds, step.Kind)
		depths = append(depths, step.Depth)
	}

	assert.Equal(t, []domain.StepKind{
		domain.StepResolved,
		domain.StepResolved,
		domain.StepConstructed,
		domain.StepConstructed,
		domain.StepResult,
	}, kinds)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, depths)

	_, more := w.Next()
	assert.False(t, more, "an exhausted walker yields nothing")
}

func TestWalker_StreamMatchesDrain(t *testing.T) {
	build := func() map[string]any {
		return map[string]any{"x": []any{map[string]any{}}}
	}
	keys := []any{"x", 0, "y", 2}

	drained := build()
	ok, err := drain(t, drained, keys, "v")
	require.NoError(t, err)

	streamed := build()
	w, err := runtime.NewWalker(streamed, keys, "v")
	require.NoError(t, err)
	var final domain.Step
	for {
		step, more := w.Next()
		if !more {
			break
		}
		final = step
	}

	assert.True(t, final.Final())
	assert.Equal(t, ok, final.OK)
	assert.Equal(t, drained, streamed)
}

func TestWalker_ResolvedStepsCarryReferences(t *testing.T) {
	inner := map[string]any{}
	host := map[string]any{"inner": inner}
	w, err := runtime.NewWalker(host, []any{"inner", "k"}, "v")
	require.NoError(t, err)

	step, ok := w.Next()
	require.True(t, ok)
	assert.Equal(t, domain.StepResolved, step.Kind)

	step.Target.(map[string]any)["seen"] = true
	assert.Equal(t, true, inner["seen"])
}

func TestWalker_Failures(t *testing.T) {
	tests := []struct {
		name      string
		host      any
		keys      []any
		value     any
		wantErr   error
		wantDepth int
	}{
		{"primitive target", map[string]any{"s": "text"}, []any{"s", "x"}, 1, domain.ErrUnsettable, 1},
		{"json string is a copy", map[string]any{"s": `{"a":{}}`}, []any{"s", "a", "b"}, 1, domain.ErrUnsettable, 2},
		{"word on list", map[string]any{"l": []any{}}, []any{"l", "word"}, 1, domain.ErrInvalidKey, 1},
		{"bare root growth", []any{}, []any{0}, 1, domain.ErrNotAddressable, 0},
		{"set out of bounds", container.NewSet("a"), []any{2}, "b", domain.ErrOutOfBounds, 0},
		{"set word position", container.NewSet("a"), []any{"first"}, "b", domain.ErrInvalidPosition, 0},
		{"typed map", map[string]string{}, []any{"a"}, "b", domain.ErrUnsettable, 0},
		{"uncomparable map key", map[any]any{}, []any{[]any{}}, 1, domain.ErrInvalidKey, 0},
		{"index past padding limit", map[string]any{"l": []any{}}, []any{"l", math.MaxInt}, 1, domain.ErrOutOfBounds, 1},
		{"constructed list past limit", map[string]any{}, []any{"l", "9223372036854775807"}, 1, domain.ErrOutOfBounds, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := runtime.NewWalker(tt.host, tt.keys, tt.value)
			require.NoError(t, err)

			ok, err := w.Drain()

			assert.False(t, ok)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantDepth, w.Depth())

			var cerr *domain.ConstructionError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tt.wantDepth, cerr.Depth)
		})
	}
}

func TestWalker_NoRollback(t *testing.T) {
	host := map[string]any{}
	customizer := func(target, key any, depth int, value any) (any, bool) {
		if depth == 2 {
			return "dead end", true
		}
		return nil, false
	}

	ok, err := drain(t, host, []any{"a", "b", "c", "d"}, 1,
		runtime.WithDispatcher(runtime.NewDispatcher(customizer)))

	assert.False(t, ok)
	assert.ErrorIs(t, err, domain.ErrUnsettable)
	assert.Equal(t, map[string]any{"a": map[string]any{"b": map[string]any{}}}, host,
		"levels built before the failure stay in place")
}

func TestWalker_SetOutOfBoundsLeavesSetUntouched(t *testing.T) {
	set := container.NewSet("a", "b")
	host := map[string]any{"s": set}

	ok, _ := drain(t, host, []any{"s", 5}, "z")

	assert.False(t, ok)
	assert.Equal(t, []any{"a", "b"}, set.Values())
}

func TestWalker_SetReplaceTwicePreservesOrder(t *testing.T) {
	set := container.NewSet("a", "b", "c", "d")

	ok, err := drain(t, set, []any{1}, "x")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = drain(t, set, []any{1}, "y")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, []any{"a", "y", "c", "d"}, set.Values())
}

func TestWalker_SetPositions(t *testing.T) {
	tests := []struct {
		name  string
		pos   int
		value any
		want  []any
	}{
		{"append at size", 3, "z", []any{"a", "b", "c", "z"}},
		{"replace tail", 2, "z", []any{"a", "b", "z"}},
		{"replace head", 0, "z", []any{"z", "b", "c"}},
		{"same member in its slot is re-added", 2, "c", []any{"a", "b", "c"}},
		{"member moves to the head", 0, "c", []any{"c", "b"}},
		{"member moves to the tail", 2, "a", []any{"b", "c", "a"}},
		{"member moves into the middle", 1, "a", []any{"b", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := container.NewSet("a", "b", "c")
			ok, err := drain(t, set, []any{tt.pos}, tt.value)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, tt.want, set.Values())

			got, found := set.At(tt.pos)
			require.True(t, found)
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestWalker_ListInsideSetIsReseated(t *testing.T) {
	list := make([]any, 0, 1)
	set := container.NewSet("head", list, "tail")

	ok, err := drain(t, set, []any{1, 0}, "x")

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []any{"head", []any{"x"}, "tail"}, set.Values())
}

func TestWalker_Customizer(t *testing.T) {
	type box struct{ fields map[string]any }
	b := &box{fields: map[string]any{}}
	host := map[string]any{"box": b}

	var seen []any
	customizer := func(target, key any, depth int, value any) (any, bool) {
		seen = append(seen, key)
		if bx, ok := target.(*box); ok {
			bx.fields[key.(string)] = value
			return value, true
		}
		return nil, false
	}

	ok, err := drain(t, host, []any{"box", "k"}, "v",
		runtime.WithDispatcher(runtime.NewDispatcher(customizer)))

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", b.fields["k"])
	assert.Equal(t, []any{"k"}, seen)
}

func TestWalker_Hooks(t *testing.T) {
	var steps []domain.Step
	var finished []bool
	hooks := domain.Hooks{
		OnStep:   func(s domain.Step) { steps = append(steps, s) },
		OnFinish: func(ok bool, err error) { finished = append(finished, ok) },
	}

	ok, err := drain(t, map[string]any{}, []any{"a", "b"}, 1, runtime.WithHooks(hooks))

	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, steps, 2)
	assert.True(t, steps[1].Final())
	assert.Equal(t, 1, steps[1].Target)
	assert.Equal(t, []bool{true}, finished)
}

func TestWalker_StopAbandonsWalk(t *testing.T) {
	host := map[string]any{}
	w, err := runtime.NewWalker(host, []any{"a", "b", "c"}, 1)
	require.NoError(t, err)

	_, ok := w.Next()
	require.True(t, ok)
	w.Stop()

	_, ok = w.Next()
	assert.False(t, ok)
	assert.Equal(t, map[string]any{"a": map[string]any{}}, host)
	assert.NoError(t, w.Err())
}

func TestNewWalker_BadArguments(t *testing.T) {
	_, err := runtime.NewWalker(nil, []any{"a"}, 1)
	assert.ErrorIs(t, err, domain.ErrBadArguments)

	_, err = runtime.NewWalker(map[string]any{}, nil, 1)
	assert.ErrorIs(t, err, domain.ErrBadArguments)

	_, err = runtime.NewWalker(map[string]any{}, []any{"a"}, nil)
	assert.ErrorIs(t, err, domain.ErrBadArguments)

	_, err = runtime.NewWalker(map[string]any{}, []any{}, 1)
	assert.ErrorIs(t, err, domain.ErrBadPath)
}
