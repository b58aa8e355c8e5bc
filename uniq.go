package libpython

import "iter"

// Uniquify wraps seq so that each value is yielded at most once. The order in which values are first
// seen is preserved and the wrapped sequence is consumed lazily.
func Uniquify[T comparable](seq iter.Seq[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		seen := make(map[T]struct{})
		for v := range seq {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			if !yield(v) {
				return
			}
		}
	}
}

// first returns the first value of seq.
func first[T any](seq iter.Seq[T]) (T, bool) {
	for v := range seq {
		return v, true
	}
	return *new(T), false
}
