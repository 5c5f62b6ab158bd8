package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStreamRunsInSubmissionOrder(t *testing.T) {
	s := NewStream()
	defer s.Close()

	var got []int
	for i := 0; i < 10; i++ {
		i := i
		s.Submit(func() { got = append(got, i) })
	}
	s.Sync()

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
}

func TestStreamSyncWaitsForEarlierWork(t *testing.T) {
	s := NewStream()
	defer s.Close()

	done := false
	s.Submit(func() { done = true })
	s.Sync()
	assert.True(t, done)
}

func TestArenaTracksUsage(t *testing.T) {
	var a Arena
	b1 := a.Allocate(64)
	b2 := a.Allocate(32)
	assert.Equal(t, int64(96), a.InUse())
	assert.Equal(t, int64(96), a.Peak())

	a.Release(b1)
	assert.Equal(t, int64(32), a.InUse())
	a.Release(b2)
	assert.Equal(t, int64(0), a.InUse())
	// Peak keeps the high-water mark.
	assert.Equal(t, int64(96), a.Peak())
}
