package remote

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeroValueIsIdle(t *testing.T) {
	var c Collection[int]
	assert.Equal(t, StateIdle, c.State())
	assert.Empty(t, c.Items())
	assert.NoError(t, c.Err())
}

func TestResolveTransition(t *testing.T) {
	var c Collection[string]
	c.Begin()
	assert.Equal(t, StateLoading, c.State())

	c.Resolve([]string{"a", "b"})
	assert.Equal(t, StateLoaded, c.State())
	assert.Equal(t, []string{"a", "b"}, c.Items())
	assert.False(t, c.Empty())
}

func TestResolveNilIsEmptyNotFailed(t *testing.T) {
	var c Collection[string]
	c.Begin()
	c.Resolve(nil)

	assert.Equal(t, StateLoaded, c.State())
	assert.True(t, c.Empty())
	assert.False(t, c.Failed())
	assert.NoError(t, c.Err())
}

func TestRejectTransition(t *testing.T) {
	boom := errors.New("boom")
	var c Collection[int]
	c.Begin()
	c.Reject(boom)

	assert.True(t, c.Failed())
	assert.ErrorIs(t, c.Err(), boom)
	assert.Empty(t, c.Items())
	assert.False(t, c.Empty(), "a failed collection is not the empty state")
}

func TestBeginDiscardsPreviousResult(t *testing.T) {
	var c Collection[int]
	c.Begin()
	c.Reject(errors.New("boom"))

	c.Begin()
	assert.Equal(t, StateLoading, c.State())
	assert.NoError(t, c.Err())
}

func TestFetchSuccess(t *testing.T) {
	c := Fetch(context.Background(), func(context.Context) ([]int, error) {
		return []int{1, 2, 3}, nil
	})
	assert.Equal(t, StateLoaded, c.State())
	assert.Len(t, c.Items(), 3)
}

func TestFetchFailure(t *testing.T) {
	boom := errors.New("backend down")
	c := Fetch(context.Background(), func(context.Context) ([]int, error) {
		return nil, boom
	})
	assert.True(t, c.Failed())
	assert.ErrorIs(t, c.Err(), boom)
}

func TestFilter(t *testing.T) {
	var c Collection[int]
	c.Begin()
	c.Resolve([]int{1, 2, 3, 4})

	even := c.Filter(func(n int) bool { return n%2 == 0 })
	assert.Equal(t, []int{2, 4}, even)

	var idle Collection[int]
	assert.Nil(t, idle.Filter(func(int) bool { return true }))
}
