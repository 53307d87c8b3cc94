package particle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLifecycleTransitions(t *testing.T) {
	l := NewLifecycle(5)
	assert.Equal(t, Inactive, l.State())
	assert.False(t, l.IsActive())

	assert.False(t, l.Deactivate(), "deactivating an inactive emitter is a no-op")
	assert.Equal(t, Inactive, l.State())

	assert.True(t, l.Activate())
	assert.Equal(t, Active, l.State())
	assert.True(t, l.IsActive())
	assert.False(t, l.Activate(), "already active")

	assert.True(t, l.Deactivate())
	assert.Equal(t, Draining, l.State())
	assert.False(t, l.IsActive(), "draining does not spawn")

	assert.True(t, l.Activate(), "draining can be reactivated")
	assert.Equal(t, Active, l.State())
}

func TestLifecycleSettle(t *testing.T) {
	l := NewLifecycle(5)
	assert.False(t, l.settle(0), "inactive stays inactive")

	l.Activate()
	assert.False(t, l.settle(0), "active never settles")

	l.Deactivate()
	assert.False(t, l.settle(3))
	assert.Equal(t, Draining, l.State())
	assert.True(t, l.settle(0))
	assert.Equal(t, Inactive, l.State())
}

func TestShouldBeDeactivated(t *testing.T) {
	l := NewLifecycle(2)
	assert.False(t, l.ShouldBeDeactivated(10), "not spawning")

	l.Activate()
	assert.False(t, l.ShouldBeDeactivated(1))
	assert.False(t, l.ShouldBeDeactivated(2), "strictly greater than the lifetime")
	assert.True(t, l.ShouldBeDeactivated(2.5))
	assert.Equal(t, Active, l.State(), "query only")

	l.Deactivate()
	assert.False(t, l.ShouldBeDeactivated(2.5))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "inactive", Inactive.String())
	assert.Equal(t, "active", Active.String())
	assert.Equal(t, "draining", Draining.String())
	assert.Equal(t, "unknown", State(9).String())
}
