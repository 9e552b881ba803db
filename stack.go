package hosting

// visitedStack is the chain of entries being built by one resolution. Push
// never shares the backing array with the parent chain, so sibling
// resolutions can't overwrite each other.
type visitedStack[T comparable] []T

func (v visitedStack[T]) Push(value T) visitedStack[T] {
	return append(v[:len(v):len(v)], value)
}

func (v visitedStack[T]) Contains(value T) bool {
	for _, item := range v {
		if item == value {
			return true
		}
	}

	return false
}
