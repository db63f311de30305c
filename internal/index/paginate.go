package index

import (
	"fmt"

	domainerr "blogsmith/internal/domain/errors"
)

// Paginate groups items into consecutive batches of at most size items.
// The last batch may be short; an empty input yields no batches.
func Paginate[T any](items []T, size int) ([][]T, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", domainerr.ErrInvalidPageSize, size)
	}
	n := len(items) / size
	if len(items)%size != 0 {
		n++
	}
	batches := make([][]T, 0, n)
	for start := 0; start < len(items); {
		// end never exceeds len(items), even for size near MaxInt
		end := len(items)
		if size < end-start {
			end = start + size
		}
		batches = append(batches, items[start:end:end])
		start = end
	}
	return batches, nil
}

// PageOf returns batch n (1-based) and the batch count. Out-of-range n yields nil.
func PageOf[T any](items []T, size, n int) ([]T, int, error) {
	batches, err := Paginate(items, size)
	if err != nil {
		return nil, 0, err
	}
	if n < 1 || n > len(batches) {
		return nil, len(batches), nil
	}
	return batches[n-1], len(batches), nil
}
