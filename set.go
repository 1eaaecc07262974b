// Copyright 2024 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rawcoll

// Set is an unordered set of keys backed by the same open-chained hash table
// as Map. Options are those of a Map[K, struct{}]:
//
//	s := NewSet[string](0, WithStringHash[struct{}]())
//
// A Set is NOT goroutine-safe.
type Set[K comparable] struct {
	t table[K, struct{}]
}

// NewSet constructs a new Set with the specified initial capacity. The zero
// value for a Set is not usable.
func NewSet[K comparable](initialCapacity int, options ...option[K, struct{}]) *Set[K] {
	s := &Set[K]{}
	s.t.init(initialCapacity, options)
	return s
}

// Close releases the memory of the set back to its configured allocator. It
// is invalid to use a Set after it has been closed.
func (s *Set[K]) Close() {
	s.t.close()
}

// Len returns the number of keys in the set.
func (s *Set[K]) Len() int {
	return s.t.len()
}

// Capacity returns the number of keys the set can hold before it needs to
// grow.
func (s *Set[K]) Capacity() int {
	return s.t.capacity()
}

// Add inserts key into the set. It reports whether the key was newly added.
func (s *Set[K]) Add(key K) bool {
	added, _ := s.t.insert(key, struct{}{}, insertNone)
	return added
}

// Delete removes key from the set. It reports whether the key was present.
func (s *Set[K]) Delete(key K) bool {
	_, ok := s.t.remove(key)
	return ok
}

// Contains reports whether key is present in the set.
func (s *Set[K]) Contains(key K) bool {
	return s.t.find(key) >= 0
}

// Get returns the stored key equal to key.
func (s *Set[K]) Get(key K) (stored K, ok bool) {
	if i := s.t.find(key); i >= 0 {
		return s.t.entries[i].key, true
	}
	return stored, false
}

// DeleteFunc removes every key for which pred returns true and returns the
// number of keys removed.
func (s *Set[K]) DeleteFunc(pred func(key K) bool) int {
	if pred == nil {
		panic(nilArgument("pred"))
	}
	var removed int
	// Removing an entry only relinks chains and the free list, so the slot
	// walk stays valid.
	s.t.all(func(e *Entry[K, struct{}]) bool {
		if pred(e.key) {
			s.t.remove(e.key)
			removed++
		}
		return true
	})
	return removed
}

// Clear removes all keys, retaining the capacity.
func (s *Set[K]) Clear() {
	s.t.clear()
}

// EnsureCapacity grows the set so that it can hold at least capacity keys
// without growing again, and returns the resulting capacity.
func (s *Set[K]) EnsureCapacity(capacity int) int {
	return s.t.ensureCapacity(capacity)
}

// TrimExcess shrinks the set to the smallest capacity that holds its keys.
func (s *Set[K]) TrimExcess() {
	_ = s.t.trimExcess(s.t.len())
}

// TrimExcessTo shrinks the set to hold at least capacity keys. It returns an
// error wrapping ErrArgumentOutOfRange if capacity is less than Len.
func (s *Set[K]) TrimExcessTo(capacity int) error {
	return s.t.trimExcess(capacity)
}

// All calls yield sequentially for each key in the set. If yield returns
// false, iteration stops.
func (s *Set[K]) All(yield func(key K) bool) {
	s.t.all(func(e *Entry[K, struct{}]) bool {
		return yield(e.key)
	})
}

// CopyTo copies up to count keys into dst starting at offset, in iteration
// order.
func (s *Set[K]) CopyTo(dst []K, offset, count int) error {
	checkNonNegative("count", count)
	if offset < 0 || offset > len(dst) {
		return indexOutOfRange(offset, len(dst))
	}
	if count > len(dst)-offset {
		return destinationTooSmall(len(dst)-offset, count)
	}
	s.t.all(func(e *Entry[K, struct{}]) bool {
		if count == 0 {
			return false
		}
		dst[offset] = e.key
		offset++
		count--
		return true
	})
	return nil
}
