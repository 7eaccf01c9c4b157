package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBits_SetClearTest(t *testing.T) {
	b := NewBits(130)
	assert.False(t, b.Test(5))

	b.Set(5)
	b.Set(64)
	b.Set(129)
	assert.True(t, b.Test(5))
	assert.True(t, b.Test(64))
	assert.True(t, b.Test(129))
	assert.False(t, b.Test(6))

	b.Clear(64)
	assert.False(t, b.Test(64))
}

func TestBits_FillAndZero(t *testing.T) {
	b := NewBits(10)
	b.Fill()
	for i := 0; i < 10; i++ {
		assert.True(t, b.Test(i))
	}

	b.Zero()
	assert.True(t, b.IsZero())
}

func TestBits_IntersectsAny(t *testing.T) {
	a := NewBits(128)
	b := NewBits(128)
	assert.False(t, a.IntersectsAny(b))

	a.Set(70)
	assert.False(t, a.IntersectsAny(b))

	b.Set(70)
	assert.True(t, a.IntersectsAny(b))
}

func TestBits_IsSubsetOf(t *testing.T) {
	sub := NewBits(64)
	mask := NewBits(64)
	sub.Set(3)
	sub.Set(10)
	assert.False(t, sub.IsSubsetOf(mask))

	mask.Set(3)
	mask.Set(10)
	mask.Set(20)
	assert.True(t, sub.IsSubsetOf(mask))
}

func TestBits_Ones(t *testing.T) {
	b := NewBits(200)
	b.Set(0)
	b.Set(63)
	b.Set(64)
	b.Set(199)

	var got []int
	b.Ones(func(i int) { got = append(got, i) })
	assert.Equal(t, []int{0, 63, 64, 199}, got)
}

func TestBits_Clone_IsIndependent(t *testing.T) {
	a := NewBits(64)
	a.Set(1)
	clone := a.Clone()
	a.Set(2)

	assert.True(t, clone.Test(1))
	assert.False(t, clone.Test(2))
}
