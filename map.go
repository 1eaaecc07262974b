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

// Package rawcoll provides low-level in-memory containers that hand out
// direct pointers into their backing storage and give callers explicit
// control over capacity and growth: a growable array (List), an open-chained
// hash map (Map) and hash set (Set) sharing one table engine, an introsort
// over slices, and the prime sizing and MurmurHash3 utilities the tables are
// built on.
//
// # Hash tables
//
// A Map or Set stores its entries in an entry array and threads them into
// collision chains hanging off a bucket array. Both arrays have the same
// prime length, chosen by GetPrime so that the modulo reduction of a hash
// code spreads entries well. Each bucket holds the 1-based index of the first
// entry of its chain, leaving 0 to mark an empty bucket:
//
//	buckets: [ 0 | 3 | 0 | 2 | 0 ]
//	entries: 0: {key: a, next: -1}
//	         1: {key: b, next: 0}
//	         2: {key: c, next: -1}
//
// Here bucket 1 chains to entry 2 (c) and bucket 3 chains to entry 1 (b)
// followed by entry 0 (a). New entries are threaded onto the head of their
// chain.
//
// Removing an entry unlinks it from its chain and pushes its slot onto a
// free list threaded through the same next field used by the chains. A free
// slot stores a value below -1 in next, so a live entry and a free entry are
// told apart by range alone. The next insertion reuses the most recently
// freed slot. The arrays only grow when every slot is in use, at which point
// both are replaced with arrays of ExpandPrime(count) entries and every live
// entry is rethreaded into the new bucket layout. Hash codes are computed
// once per insertion and are never recomputed.
//
// Removal never shrinks storage. TrimExcess compacts the live entries into
// smaller arrays after a bulk removal.
//
// # Aliasing
//
// Several operations return pointers or slices that alias container storage:
// Map.GetOrAddDefault, Map.GetRef, List.Ref, List.UnsafeRef, List.Peek,
// List.GetOrCreate, List.ReserveBatch and List.Slice. Such an alias is only
// valid until the next structural mutation of the container (anything that
// can grow, shrink, remove from or clear it). Writing through a stale alias
// does not corrupt the container, but the write is silently lost or lands in
// a slot that now belongs to another element.
//
// # Concurrency
//
// None of the containers are goroutine-safe. Nothing in this package blocks.
package rawcoll

import "iter"

// KeyValue is a key and value pair copied out of a Map by CopyTo.
type KeyValue[K comparable, V any] struct {
	Key   K
	Value V
}

// Map is an unordered map from keys to values backed by an open-chained hash
// table. By default, a Map[K,V] hashes keys with hash/maphash, though a
// different hash function can be specified using the WithHash option.
//
// A Map is NOT goroutine-safe.
type Map[K comparable, V any] struct {
	t table[K, V]
}

// New constructs a new Map with the specified initial capacity. If
// initialCapacity is 0 the map will start out with zero capacity and will
// allocate on the first insert. The zero value for a Map is not usable.
func New[K comparable, V any](initialCapacity int, options ...option[K, V]) *Map[K, V] {
	m := &Map[K, V]{}
	m.t.init(initialCapacity, options)
	return m
}

// NewFrom constructs a new Map holding the entries yielded by seq. It returns
// an error wrapping ErrDuplicateKey if seq yields the same key twice.
func NewFrom[K comparable, V any](seq iter.Seq2[K, V], options ...option[K, V]) (*Map[K, V], error) {
	m := New[K, V](0, options...)
	for k, v := range seq {
		if err := m.Add(k, v); err != nil {
			m.Close()
			return nil, err
		}
	}
	return m, nil
}

// Close closes the map, releasing any memory back to its configured
// allocator. It is unnecessary to close a map using the default allocator. It
// is invalid to use a Map after it has been closed, though Close itself is
// idempotent.
func (m *Map[K, V]) Close() {
	m.t.close()
}

// Len returns the number of entries in the map.
func (m *Map[K, V]) Len() int {
	return m.t.len()
}

// Capacity returns the number of entries the map can hold before it needs
// to grow.
func (m *Map[K, V]) Capacity() int {
	return m.t.capacity()
}

// Put inserts an entry into the map, overwriting an existing value if an
// entry with the same key already exists.
func (m *Map[K, V]) Put(key K, value V) {
	// Overwriting never fails.
	_, _ = m.t.insert(key, value, overwriteExisting)
}

// Add inserts an entry into the map. If the key is already present the map
// is left unchanged and an error wrapping ErrDuplicateKey is returned.
func (m *Map[K, V]) Add(key K, value V) error {
	_, err := m.t.insert(key, value, throwOnExisting)
	return err
}

// TryAdd inserts an entry into the map if the key is not already present. It
// reports whether the entry was inserted.
func (m *Map[K, V]) TryAdd(key K, value V) bool {
	added, _ := m.t.insert(key, value, insertNone)
	return added
}

// Get retrieves the value from the map for the specified key, return ok=false
// if the key is not present.
func (m *Map[K, V]) Get(key K) (value V, ok bool) {
	if i := m.t.find(key); i >= 0 {
		return m.t.entries[i].value, true
	}
	return value, false
}

// At retrieves the value from the map for the specified key. It returns an
// error wrapping ErrKeyNotFound if the key is not present.
func (m *Map[K, V]) At(key K) (V, error) {
	if i := m.t.find(key); i >= 0 {
		return m.t.entries[i].value, nil
	}
	var zero V
	return zero, keyNotFound(key)
}

// GetRef returns a pointer to the value stored for key, or nil if the key is
// not present. The pointer is invalidated by the next insertion or removal.
func (m *Map[K, V]) GetRef(key K) *V {
	if i := m.t.find(key); i >= 0 {
		return &m.t.entries[i].value
	}
	return nil
}

// GetOrAddDefault returns a pointer to the value stored for key, first
// inserting the zero value if the key is not present. exists reports whether
// the key was already present. The pointer is invalidated by the next
// insertion or removal.
func (m *Map[K, V]) GetOrAddDefault(key K) (value *V, exists bool) {
	return m.t.getOrAddDefault(key)
}

// ContainsKey reports whether key is present in the map.
func (m *Map[K, V]) ContainsKey(key K) bool {
	return m.t.find(key) >= 0
}

// ContainsValueFunc reports whether any value in the map satisfies pred.
func (m *Map[K, V]) ContainsValueFunc(pred func(value V) bool) bool {
	if pred == nil {
		panic(nilArgument("pred"))
	}
	var found bool
	m.t.all(func(e *Entry[K, V]) bool {
		found = pred(e.value)
		return !found
	})
	return found
}

// ContainsValue reports whether value is stored in m under any key. It is a
// linear scan.
func ContainsValue[K, V comparable](m *Map[K, V], value V) bool {
	return m.ContainsValueFunc(func(v V) bool {
		return v == value
	})
}

// Delete deletes the entry corresponding to the specified key from the map.
// It reports whether the key was present. It is a noop to delete a
// non-existent key.
func (m *Map[K, V]) Delete(key K) bool {
	_, ok := m.t.remove(key)
	return ok
}

// DeleteAndGet deletes the entry corresponding to the specified key from the
// map, returning the value it held.
func (m *Map[K, V]) DeleteAndGet(key K) (value V, ok bool) {
	return m.t.remove(key)
}

// Clear deletes all entries from the map resulting in an empty map. The
// capacity is retained.
func (m *Map[K, V]) Clear() {
	m.t.clear()
}

// EnsureCapacity grows the map so that it can hold at least capacity entries
// without growing again, and returns the resulting capacity. A negative
// capacity panics.
func (m *Map[K, V]) EnsureCapacity(capacity int) int {
	return m.t.ensureCapacity(capacity)
}

// TrimExcess shrinks the map to the smallest capacity that holds its
// entries.
func (m *Map[K, V]) TrimExcess() {
	_ = m.t.trimExcess(m.t.len())
}

// TrimExcessTo shrinks the map to hold at least capacity entries. It returns
// an error wrapping ErrArgumentOutOfRange if capacity is less than Len.
func (m *Map[K, V]) TrimExcessTo(capacity int) error {
	return m.t.trimExcess(capacity)
}

// All calls yield sequentially for each key and value present in the map. If
// yield returns false, range stops the iteration. Entries are visited in slot
// order, which is insertion order until a removed slot is reused. The map can
// be mutated during iteration, though there is no guarantee that the
// mutations will be visible to the iteration.
//
//	for k, v := range m.All {
//	  fmt.Printf("%v: %v\n", k, v)
//	}
func (m *Map[K, V]) All(yield func(key K, value V) bool) {
	m.t.all(func(e *Entry[K, V]) bool {
		return yield(e.key, e.value)
	})
}

// Keys returns a read-only view of the keys of the map.
func (m *Map[K, V]) Keys() KeyView[K, V] {
	return KeyView[K, V]{m: m}
}

// Values returns a read-only view of the values of the map.
func (m *Map[K, V]) Values() ValueView[K, V] {
	return ValueView[K, V]{m: m}
}

// CopyTo copies the entries of the map into dst starting at offset, in
// iteration order.
func (m *Map[K, V]) CopyTo(dst []KeyValue[K, V], offset int) error {
	if err := checkCopyRange(len(dst), offset, m.Len()); err != nil {
		return err
	}
	i := offset
	m.t.all(func(e *Entry[K, V]) bool {
		dst[i] = KeyValue[K, V]{Key: e.key, Value: e.value}
		i++
		return true
	})
	return nil
}
