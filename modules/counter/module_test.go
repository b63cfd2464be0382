package counter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/gridflow/internal/node"
)

func TestCounter(t *testing.T) {
	b := &Behavior{}
	n, err := node.New("counter", "c", b)
	require.NoError(t, err)

	require.NoError(t, b.OnEvent(n, "increment", cty.NilVal))
	require.NoError(t, b.OnEvent(n, "increment", cty.NilVal))
	assert.True(t, n.OutputValue(0).RawEquals(cty.NumberIntVal(2)))

	require.NoError(t, b.OnEvent(n, "reset", cty.NilVal))
	assert.True(t, n.OutputValue(0).RawEquals(cty.NumberIntVal(0)))

	require.NoError(t, b.OnEvent(n, "increment", cty.NilVal))
	b.OnStart(n)
	require.NoError(t, b.Compute(n))
	assert.True(t, n.OutputValue(0).RawEquals(cty.NumberIntVal(0)))
}
