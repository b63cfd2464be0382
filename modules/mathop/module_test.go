package mathop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/gridflow/internal/node"
)

func TestCompute(t *testing.T) {
	testCases := []struct {
		op   string
		a, b cty.Value
		want float64
	}{
		{op: "add", a: cty.NumberIntVal(2), b: cty.NumberIntVal(3), want: 5},
		{op: "sub", a: cty.NumberIntVal(2), b: cty.NumberIntVal(3), want: -1},
		{op: "mul", a: cty.NumberIntVal(4), b: cty.NumberIntVal(3), want: 12},
		{op: "div", a: cty.NumberIntVal(9), b: cty.NumberIntVal(3), want: 3},
		// An unconnected input reads as zero.
		{op: "add", a: cty.NumberIntVal(2), b: cty.NilVal, want: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.op, func(t *testing.T) {
			n, err := node.New("math", "m", Behavior{})
			require.NoError(t, err)
			n.SetProperty("op", cty.StringVal(tc.op))

			in, _ := n.InputByName("a")
			in.StoreValue(tc.a)
			in, _ = n.InputByName("b")
			in.StoreValue(tc.b)

			require.NoError(t, Behavior{}.Compute(n))
			got, _ := n.OutputValue(0).AsBigFloat().Float64()
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCompute_Errors(t *testing.T) {
	n, err := node.New("math", "m", Behavior{})
	require.NoError(t, err)

	t.Run("division by zero", func(t *testing.T) {
		n.SetProperty("op", cty.StringVal("div"))
		assert.ErrorContains(t, Behavior{}.Compute(n), "division by zero")
	})

	t.Run("unknown operation", func(t *testing.T) {
		n.SetProperty("op", cty.StringVal("pow"))
		assert.ErrorContains(t, Behavior{}.Compute(n), `unknown operation "pow"`)
	})
}
