package paginate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pages returns a PageFunc that serves the given pages in order.
func pages[T any](pp ...[]T) PageFunc[T] {
	i := 0
	return func(ctx context.Context) ([]T, bool, error) {
		page := pp[i]
		i++
		return page, i < len(pp), nil
	}
}

func TestAllSinglePage(t *testing.T) {
	got, err := All(context.Background(), pages([]string{"a", "b"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestAllMultiplePagesPreserveOrder(t *testing.T) {
	got, err := All(context.Background(), pages(
		[]string{"a", "b"},
		[]string{"c"},
		[]string{"d", "e"},
	))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, got)
}

func TestAllEmptyStream(t *testing.T) {
	got, err := All(context.Background(), pages[string](nil))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAllFirstPageError(t *testing.T) {
	boom := errors.New("access denied")
	next := func(ctx context.Context) ([]int, bool, error) {
		return nil, false, boom
	}

	got, err := All(context.Background(), next)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, boom)
}

func TestAllLaterPageErrorDropsPartialResult(t *testing.T) {
	boom := errors.New("throttled")
	call := 0
	next := func(ctx context.Context) ([]int, bool, error) {
		call++
		if call == 1 {
			return []int{1, 2}, true, nil
		}
		return nil, false, boom
	}

	got, err := All(context.Background(), next)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, call)
}
