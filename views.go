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

// KeyView is a read-only view of the keys of a Map. It reflects later
// changes to the map.
type KeyView[K comparable, V any] struct {
	m *Map[K, V]
}

// Len returns the number of keys in the view.
func (v KeyView[K, V]) Len() int {
	return v.m.Len()
}

// Contains reports whether key is present in the underlying map.
func (v KeyView[K, V]) Contains(key K) bool {
	return v.m.ContainsKey(key)
}

// All calls yield sequentially for each key of the map, in the same order as
// Map.All.
func (v KeyView[K, V]) All(yield func(key K) bool) {
	v.m.t.all(func(e *Entry[K, V]) bool {
		return yield(e.key)
	})
}

// CopyTo copies the keys into dst starting at offset.
func (v KeyView[K, V]) CopyTo(dst []K, offset int) error {
	if err := checkCopyRange(len(dst), offset, v.Len()); err != nil {
		return err
	}
	v.All(func(key K) bool {
		dst[offset] = key
		offset++
		return true
	})
	return nil
}

// ValueView is a read-only view of the values of a Map. It reflects later
// changes to the map.
type ValueView[K comparable, V any] struct {
	m *Map[K, V]
}

// Len returns the number of values in the view.
func (v ValueView[K, V]) Len() int {
	return v.m.Len()
}

// ContainsFunc reports whether any value satisfies pred.
func (v ValueView[K, V]) ContainsFunc(pred func(value V) bool) bool {
	return v.m.ContainsValueFunc(pred)
}

// All calls yield sequentially for each value of the map, in the same order
// as Map.All.
func (v ValueView[K, V]) All(yield func(value V) bool) {
	v.m.t.all(func(e *Entry[K, V]) bool {
		return yield(e.value)
	})
}

// CopyTo copies the values into dst starting at offset.
func (v ValueView[K, V]) CopyTo(dst []V, offset int) error {
	if err := checkCopyRange(len(dst), offset, v.Len()); err != nil {
		return err
	}
	v.All(func(value V) bool {
		dst[offset] = value
		offset++
		return true
	})
	return nil
}

// checkCopyRange validates copying n elements into a destination of length
// dstLen at offset.
func checkCopyRange(dstLen, offset, n int) error {
	if offset < 0 || offset > dstLen {
		return indexOutOfRange(offset, dstLen)
	}
	if dstLen-offset < n {
		return destinationTooSmall(dstLen-offset, n)
	}
	return nil
}
