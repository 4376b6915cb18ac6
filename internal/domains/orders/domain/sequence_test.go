package domain

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence_StartsAfterFloor(t *testing.T) {
	seq := NewSequence()
	assert.Equal(t, OrderIDFloor, seq.Current())
	assert.Equal(t, int64(1001), seq.Next())
	assert.Equal(t, int64(1002), seq.Next())
}

func TestSequence_SeedOnlyRaises(t *testing.T) {
	seq := NewSequence()
	seq.Seed(1007)
	assert.Equal(t, int64(1008), seq.Next())

	seq.Seed(5)
	seq.Seed(1003)
	assert.Equal(t, int64(1009), seq.Next())
}

func TestSequence_ConcurrentNextIsUnique(t *testing.T) {
	seq := NewSequence()
	const workers, perWorker = 8, 100

	var mu sync.Mutex
	seen := make(map[int64]struct{}, workers*perWorker)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				id := seq.Next()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Len(t, seen, workers*perWorker)
	assert.Equal(t, OrderIDFloor+workers*perWorker, seq.Current())
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus(" served ")
	require.NoError(t, err)
	assert.Equal(t, StatusServed, status)

	_, err = ParseStatus("done")
	require.ErrorIs(t, err, ErrInvalidStatus)

	status, err = StatusFromIndex(4)
	require.NoError(t, err)
	assert.Equal(t, StatusBilled, status)

	_, err = StatusFromIndex(0)
	require.ErrorIs(t, err, ErrInvalidStatus)
	_, err = StatusFromIndex(5)
	require.ErrorIs(t, err, ErrInvalidStatus)
}
