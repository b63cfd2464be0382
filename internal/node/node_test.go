package node

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/gridflow/internal/porttype"
)

// shapeBehavior declares one numeric input and one numeric output.
type shapeBehavior struct {
	attached, detached int
}

func (b *shapeBehavior) Setup(n *Node) error {
	num, err := porttype.Default().Lookup(porttype.Number)
	if err != nil {
		return err
	}
	n.AddInput("in", num)
	n.AddOutput("out", num)
	return nil
}

func (b *shapeBehavior) OnAttach(n *Node) { b.attached++ }
func (b *shapeBehavior) OnDetach(n *Node) { b.detached++ }

type failingSetup struct{}

func (failingSetup) Setup(n *Node) error { return errors.New("boom") }

func TestNew(t *testing.T) {
	t.Run("runs setup and declares ports", func(t *testing.T) {
		n, err := New("shape", "a", &shapeBehavior{})
		require.NoError(t, err)

		assert.Equal(t, "shape", n.Kind())
		assert.Equal(t, "a", n.Name())
		assert.Equal(t, Detached, n.GetState())
		require.Len(t, n.Inputs(), 1)
		require.Len(t, n.Outputs(), 1)
		assert.Equal(t, "in", n.Inputs()[0].Name())
		assert.Equal(t, 0, n.Inputs()[0].Index())
	})

	t.Run("setup failure surfaces", func(t *testing.T) {
		_, err := New("bad", "b", failingSetup{})
		assert.ErrorContains(t, err, "boom")
	})

	t.Run("nil behavior refused", func(t *testing.T) {
		_, err := New("none", "c", nil)
		assert.ErrorContains(t, err, "behavior must not be nil")
	})
}

func TestPortAccess(t *testing.T) {
	n, err := New("shape", "a", &shapeBehavior{})
	require.NoError(t, err)

	t.Run("indices are stable and returned in order", func(t *testing.T) {
		num, _ := porttype.Default().Lookup(porttype.Number)
		idx := n.AddInput("second", num)
		assert.Equal(t, 1, idx)
		p, err := n.Input(1)
		require.NoError(t, err)
		assert.Equal(t, "second", p.Name())
	})

	t.Run("lookup by name", func(t *testing.T) {
		p, ok := n.OutputByName("out")
		require.True(t, ok)
		assert.Equal(t, 0, p.Index())

		_, ok = n.OutputByName("nope")
		assert.False(t, ok)
	})

	t.Run("out of range reads are undefined, not errors", func(t *testing.T) {
		assert.Equal(t, cty.NilVal, n.InputValue(99))
		assert.Equal(t, cty.NilVal, n.OutputValue(99))
	})

	t.Run("output write and read back", func(t *testing.T) {
		require.NoError(t, n.SetOutputValue(0, cty.NumberIntVal(7)))
		assert.Equal(t, cty.NumberIntVal(7), n.OutputValue(0))

		err := n.SetOutputValue(5, cty.NumberIntVal(1))
		assert.ErrorContains(t, err, "no output 5")
	})
}

func TestAttachDetach(t *testing.T) {
	b := &shapeBehavior{}
	n, err := New("shape", "a", b)
	require.NoError(t, err)

	require.NoError(t, n.Attach(1, nil))
	assert.Equal(t, Attached, n.GetState())
	assert.Equal(t, int64(1), n.Seq())
	assert.NotEqual(t, [16]byte{}, [16]byte(n.UID()))
	assert.Equal(t, 1, b.attached)

	err = n.Attach(2, nil)
	assert.ErrorContains(t, err, "already attached")
	assert.Equal(t, 1, b.attached, "notification fires once per transition")

	n.Detach()
	assert.Equal(t, Detached, n.GetState())
	assert.Equal(t, int64(0), n.Seq())
	assert.Equal(t, 1, b.detached)

	n.Detach() // idempotent
	assert.Equal(t, 1, b.detached)
}

func TestProperties(t *testing.T) {
	n, err := New("shape", "a", &shapeBehavior{})
	require.NoError(t, err)

	assert.Equal(t, cty.NilVal, n.Property("missing"))

	n.SetProperty("gain", cty.NumberIntVal(4))
	assert.Equal(t, cty.NumberIntVal(4), n.Property("gain"))
}

func TestWidgetPropertyBinding(t *testing.T) {
	n, err := New("shape", "a", &shapeBehavior{})
	require.NoError(t, err)

	var changes int
	w := NewWidget("gain", NumberWidget, cty.NumberIntVal(2), WidgetOptions{Min: 0, Max: 10}).
		Bind("gain").
		OnChange(func(old, new cty.Value) { changes++ })
	n.AddWidget(w)

	t.Run("initial widget value seeds the property", func(t *testing.T) {
		assert.Equal(t, cty.NumberIntVal(2), n.Property("gain"))
	})

	t.Run("widget edit updates property synchronously", func(t *testing.T) {
		w.SetValue(cty.NumberIntVal(5))
		assert.Equal(t, cty.NumberIntVal(5), n.Property("gain"))
		assert.Equal(t, cty.NumberIntVal(5), w.Value())
		assert.Equal(t, 1, changes)
	})

	t.Run("property write updates widget", func(t *testing.T) {
		n.SetProperty("gain", cty.NumberIntVal(9))
		assert.Equal(t, cty.NumberIntVal(9), w.Value())
		assert.Equal(t, 2, changes)
	})

	t.Run("no divergence after either direction", func(t *testing.T) {
		assert.True(t, n.Property("gain").RawEquals(w.Value()))
	})

	t.Run("edits clamp to bounds", func(t *testing.T) {
		w.SetValue(cty.NumberIntVal(25))
		assert.Equal(t, cty.NumberFloatVal(10), w.Value())
		assert.Equal(t, cty.NumberFloatVal(10), n.Property("gain"))
	})
}

func TestWidgetNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		opts     WidgetOptions
		in       cty.Value
		expected cty.Value
	}{
		{
			name:     "step snapping",
			opts:     WidgetOptions{Min: 0, Max: 100, Step: 10},
			in:       cty.NumberFloatVal(34),
			expected: cty.NumberFloatVal(30),
		},
		{
			name:     "precision rounding",
			opts:     WidgetOptions{Precision: 2},
			in:       cty.NumberFloatVal(3.14159),
			expected: cty.NumberFloatVal(3.14),
		},
		{
			name:     "no options pass through",
			opts:     WidgetOptions{},
			in:       cty.NumberFloatVal(3.14159),
			expected: cty.NumberFloatVal(3.14159),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := NewWidget("w", NumberWidget, cty.NilVal, tc.opts)
			w.SetValue(tc.in)
			assert.Equal(t, tc.expected, w.Value())
		})
	}
}

func TestFireEvent_Preconditions(t *testing.T) {
	n, err := New("shape", "a", &shapeBehavior{})
	require.NoError(t, err)

	t.Run("non event output refused", func(t *testing.T) {
		err := n.FireEvent(0, cty.NumberIntVal(1))
		assert.ErrorContains(t, err, "not event-typed")
	})

	t.Run("detached node refused", func(t *testing.T) {
		evt, _ := porttype.Default().Lookup(porttype.Event)
		idx := n.AddOutput("pulse", evt)
		err := n.FireEvent(idx, cty.NumberIntVal(1))
		assert.ErrorContains(t, err, "not attached")
	})
}
