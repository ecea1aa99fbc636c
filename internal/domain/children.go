package domain

import "fmt"

// identified is implemented by every entity.
type identified interface {
	ID() string
}

func indexOf[T identified](items []T, id string) int {
	for i, it := range items {
		if it.ID() == id {
			return i
		}
	}
	return -1
}

func withAdded[T identified](items []T, item T) ([]T, error) {
	if indexOf(items, item.ID()) >= 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, item.ID())
	}
	out := make([]T, 0, len(items)+1)
	out = append(out, items...)
	return append(out, item), nil
}

func withRemoved[T identified](items []T, id string) ([]T, error) {
	i := indexOf(items, id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotInAggregate, id)
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...), nil
}

func withReplaced[T identified](items []T, item T) ([]T, error) {
	i := indexOf(items, item.ID())
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotInAggregate, item.ID())
	}
	out := append([]T(nil), items...)
	out[i] = item
	return out, nil
}

// withMoved moves the element at from so that it ends up at index to.
func withMoved[T any](items []T, from, to int) ([]T, error) {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		return nil, fmt.Errorf("%w: move %d to %d of %d", ErrIndexOutOfRange, from, to, len(items))
	}
	out := make([]T, 0, len(items))
	out = append(out, items[:from]...)
	out = append(out, items[from+1:]...)
	moved := items[from]
	out = append(out[:to], append([]T{moved}, out[to:]...)...)
	return out, nil
}
