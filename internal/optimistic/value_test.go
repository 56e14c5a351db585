package optimistic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyAndRollback(t *testing.T) {
	v := New(false)
	m := v.Apply(true)
	assert.True(t, v.Get())
	assert.False(t, m.Prev)
	assert.True(t, m.Next)

	assert.True(t, v.Rollback(m))
	assert.False(t, v.Get())
}

func TestRollbackSuperseded(t *testing.T) {
	v := New(1)
	first := v.Apply(2)
	second := v.Apply(3)

	assert.False(t, v.Latest(first))
	assert.True(t, v.Latest(second))
	assert.False(t, v.Rollback(first))
	assert.Equal(t, 3, v.Get())
}

func TestSetSupersedesMutations(t *testing.T) {
	v := New("a")
	m := v.Apply("b")
	v.Set("c")
	assert.False(t, v.Rollback(m))
	assert.Equal(t, "c", v.Get())
}
