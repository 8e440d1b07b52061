package concurrent

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForEach(t *testing.T) {
	var sum atomic.Int64
	err := ForEach([]int{1, 2, 3, 4}, 2, func(v int) error {
		sum.Add(int64(v))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), sum.Load())
}

func TestForEachReturnsError(t *testing.T) {
	boom := errors.New("boom")
	err := ForEach([]int{1, 2, 3}, 0, func(v int) error {
		if v == 2 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestForEachRespectsLimit(t *testing.T) {
	var running, peak atomic.Int32
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- ForEach(make([]int, 6), 2, func(int) error {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			<-release
			running.Add(-1)
			return nil
		})
	}()
	for iter := 0; iter < 6; iter++ {
		release <- struct{}{}
	}
	require.NoError(t, <-done)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestMapKeepsOrderAndJoinsErrors(t *testing.T) {
	errOdd := errors.New("odd")
	out, err := Map([]int{1, 2, 3, 4}, 3, func(v int) (int, error) {
		if v%2 == 1 {
			return 0, errOdd
		}
		return v * 10, nil
	})
	assert.ErrorIs(t, err, errOdd)
	assert.Equal(t, []int{0, 20, 0, 40}, out)

	out, err = Map([]string{"a", "bb"}, 0, func(s string) (int, error) { return len(s), nil })
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, out)
}
