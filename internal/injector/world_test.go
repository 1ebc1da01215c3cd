package injector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorld(t *testing.T) {
	w := NewWorld(nil)
	require.NotNil(t, w.Logger)
	require.NotNil(t, w.Wheel)
	require.NotNil(t, w.Registry)

	irs, its := w.Registry.Len()
	assert.Zero(t, irs)
	assert.Zero(t, its)
	assert.Zero(t, w.Wheel.Now())
}
