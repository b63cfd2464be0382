package porttype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestNewRegistry_Builtins(t *testing.T) {
	r := NewRegistry()

	num, err := r.Lookup(Number)
	require.NoError(t, err)
	assert.Equal(t, cty.Number, num.Value)
	assert.False(t, num.Event)

	evt, err := r.Lookup(Event)
	require.NoError(t, err)
	assert.True(t, evt.Event)

	_, err = r.Lookup("does-not-exist")
	assert.ErrorContains(t, err, "unknown port type")
}

func TestRegister(t *testing.T) {
	r := NewRegistry()
	r.Register(Type{Name: "vector", Value: cty.List(cty.Number)})

	got, err := r.Lookup("vector")
	require.NoError(t, err)
	assert.Equal(t, cty.List(cty.Number), got.Value)

	assert.Panics(t, func() {
		r.Register(Type{Name: "vector", Value: cty.Number})
	})
}

func TestCompatible(t *testing.T) {
	r := NewRegistry()
	num, _ := r.Lookup(Number)
	txt, _ := r.Lookup(Text)
	anyT, _ := r.Lookup(Any)
	evt, _ := r.Lookup(Event)

	t.Run("identity", func(t *testing.T) {
		assert.True(t, r.Compatible(num, num))
	})

	t.Run("distinct data types refuse", func(t *testing.T) {
		assert.False(t, r.Compatible(num, txt))
		assert.False(t, r.Compatible(txt, num))
	})

	t.Run("any is compatible both ways", func(t *testing.T) {
		assert.True(t, r.Compatible(anyT, num))
		assert.True(t, r.Compatible(num, anyT))
		assert.True(t, r.Compatible(anyT, txt))
	})

	t.Run("event never mixes with data", func(t *testing.T) {
		assert.False(t, r.Compatible(evt, num))
		assert.False(t, r.Compatible(num, evt))
		assert.False(t, r.Compatible(evt, anyT))
		assert.True(t, r.Compatible(evt, evt))
	})

	t.Run("custom rule widens compatibility", func(t *testing.T) {
		r.AddRule(func(producer, consumer Type) bool {
			return producer.Name == Number && consumer.Name == Text
		})
		assert.True(t, r.Compatible(num, txt))
		assert.False(t, r.Compatible(txt, num), "rules are directional")
	})
}

func TestDefault(t *testing.T) {
	require.NotNil(t, Default())
	_, err := Default().Lookup(Boolean)
	assert.NoError(t, err)
}
