package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActor_Lifecycle(t *testing.T) {
	a := NewActor("door")
	b := NewActor("lever")

	assert.NotZero(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, "door", a.Name())
	assert.True(t, a.IsActive())

	a.SetActive(false)
	assert.False(t, a.IsActive())
	a.SetActive(true)

	a.Destroy()
	assert.True(t, a.IsDestroyed())
	assert.False(t, a.IsActive(), "destroyed actors are never active")
}
