package slices

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlicePool_Get(t *testing.T) {
	p := NewSlicePool[byte](16)

	s := p.Get(0)
	require.NotNil(t, s)
	assert.Len(t, *s, 0)
	assert.GreaterOrEqual(t, cap(*s), 16)

	big := p.Get(64)
	assert.Len(t, *big, 64)
}

func TestSlicePool_PutResetsLength(t *testing.T) {
	p := NewSlicePool[int](4)

	s := p.Get(0)
	*s = append(*s, 1, 2, 3)
	p.Put(s)

	assert.Len(t, *s, 0)
}
