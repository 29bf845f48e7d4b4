package utils

import (
	"sync"
)

// TypedSyncMap is a generic wrapper for sync.Map to reduce type assertions in code.
type TypedSyncMap[K comparable, V any] struct {
	m sync.Map
}

// Store sets the value for a key.
func (tm *TypedSyncMap[K, V]) Store(key K, value V) {
	tm.m.Store(key, value)
}

// Load returns the value stored in the map for a key, or the zero value of V if not present.
// The ok result indicates whether value was found.
func (tm *TypedSyncMap[K, V]) Load(key K) (value V, ok bool) {
	v, loaded := tm.m.Load(key)
	if !loaded {
		return value, false
	}

	actualValue, ok := v.(V)
	if !ok {
		return value, false
	}
	return actualValue, true
}

// Swap stores value for key and returns the previous value, if any.
func (tm *TypedSyncMap[K, V]) Swap(key K, value V) (previous V, loaded bool) {
	v, loaded := tm.m.Swap(key, value)
	if !loaded {
		return previous, false
	}
	previous, ok := v.(V)
	return previous, ok
}

// Delete deletes the value for a key.
func (tm *TypedSyncMap[K, V]) Delete(key K) {
	tm.m.Delete(key)
}

// CompareAndDelete deletes the entry for key if its value is equal to old.
func (tm *TypedSyncMap[K, V]) CompareAndDelete(key K, old V) bool {
	return tm.m.CompareAndDelete(key, old)
}

// Range calls f for every entry until f returns false.
func (tm *TypedSyncMap[K, V]) Range(f func(key K, value V) bool) {
	tm.m.Range(func(k, v any) bool {
		return f(k.(K), v.(V))
	})
}
