package ringbuf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alias1177/tdsequential/internal/ringbuf"
)

func TestFloatBack(t *testing.T) {
	b := ringbuf.NewFloat(3)
	b.Push(1.1)
	b.Push(2.2)

	v, ok := b.Back(0)
	require.True(t, ok)
	assert.Equal(t, 2.2, v)

	v, ok = b.Back(1)
	require.True(t, ok)
	assert.Equal(t, 1.1, v)

	_, ok = b.Back(2)
	assert.False(t, ok, "only two values were pushed")
}

func TestFloatOverwrite(t *testing.T) {
	b := ringbuf.NewFloat(2)
	b.Push(1)
	b.Push(2)
	b.Push(3)

	assert.Equal(t, 2, b.Len())
	v, _ := b.Back(0)
	assert.Equal(t, 3.0, v)
	v, _ = b.Back(1)
	assert.Equal(t, 2.0, v)
	_, ok := b.Back(2)
	assert.False(t, ok)
}

func TestFloatZeroCapacity(t *testing.T) {
	b := ringbuf.NewFloat(0)
	assert.Equal(t, 1, b.Cap())
	b.Push(5)
	b.Push(6)
	v, ok := b.Back(0)
	require.True(t, ok)
	assert.Equal(t, 6.0, v)
}
