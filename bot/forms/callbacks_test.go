package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackRoundTrip(t *testing.T) {
	data := BuildCallback(ActionSelect, "Sales")
	assert.Equal(t, "fm:select:Sales", data)
	require.True(t, IsFormCallback(data))

	cb := ParseCallback(data)
	require.NotNil(t, cb)
	assert.True(t, cb.IsSelect())
	assert.Equal(t, "Sales", cb.SelectedOption())

	// Option values may themselves contain a colon.
	cb = ParseCallback(BuildCallback(ActionMulti, "Docking station: large"))
	require.NotNil(t, cb)
	assert.True(t, cb.IsMulti())
	assert.Equal(t, "Docking station: large", cb.SelectedOption())
}

func TestCallbackWithoutValue(t *testing.T) {
	data := BuildCallback(ActionCancel)
	assert.Equal(t, "fm:cancel", data)

	cb := ParseCallback(data)
	require.NotNil(t, cb)
	assert.True(t, cb.IsCancel())
	assert.Empty(t, cb.Value)
	assert.Empty(t, cb.SelectedOption())
}

func TestCallbackForeignData(t *testing.T) {
	assert.False(t, IsFormCallback("other:select:x"))
	assert.Nil(t, ParseCallback("other:select:x"))
}
