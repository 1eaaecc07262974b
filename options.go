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

// option provide an interface to do work on a Map or Set while it is being
// created.
type option[K comparable, V any] interface {
	apply(t *table[K, V])
}

type hashOption[K comparable, V any] struct {
	hash func(key *K, seed uintptr) uintptr
}

func (op hashOption[K, V]) apply(t *table[K, V]) {
	t.hash = op.hash
}

// WithHash is an option to specify the hash function to use for a Map[K,V].
// A Set[K] is configured with WithHash[K, struct{}]. The function must return
// the same value for equal keys for the lifetime of the table: hash codes are
// computed once per insertion and are never recomputed when the table grows.
func WithHash[K comparable, V any](hash func(key *K, seed uintptr) uintptr) option[K, V] {
	return hashOption[K, V]{hash}
}

// WithStringHash is an option to hash string keys with HashString.
func WithStringHash[V any]() option[string, V] {
	return hashOption[string, V]{HashString}
}

// Allocator specifies an interface for allocating and releasing memory used
// by a Map or Set. The default allocator utilizes Go's builtin make() and
// allows the GC to reclaim memory.
//
// If the allocator is manually managing memory and requires that entries and
// buckets be freed then Close must be called in order to ensure FreeEntries
// and FreeBuckets are called.
type Allocator[K comparable, V any] interface {
	// AllocEntries should return a slice equivalent to make([]Entry[K,V], n).
	AllocEntries(n int) []Entry[K, V]

	// AllocBuckets should return a slice equivalent to make([]int32, n).
	AllocBuckets(n int) []int32

	// FreeEntries can optional release the memory associated with the
	// supplied slice that is guaranteed to have been allocated by
	// AllocEntries.
	FreeEntries(v []Entry[K, V])

	// FreeBuckets can optional release the memory associated with the
	// supplied slice that is guaranteed to have been allocated by
	// AllocBuckets.
	FreeBuckets(v []int32)
}

type defaultAllocator[K comparable, V any] struct{}

func (defaultAllocator[K, V]) AllocEntries(n int) []Entry[K, V] {
	return make([]Entry[K, V], n)
}

func (defaultAllocator[K, V]) AllocBuckets(n int) []int32 {
	return make([]int32, n)
}

func (defaultAllocator[K, V]) FreeEntries(v []Entry[K, V]) {
}

func (defaultAllocator[K, V]) FreeBuckets(v []int32) {
}

type allocatorOption[K comparable, V any] struct {
	allocator Allocator[K, V]
}

func (op allocatorOption[K, V]) apply(t *table[K, V]) {
	t.allocator = op.allocator
}

// WithAllocator is an option for specify the Allocator to use for a Map[K,V]
// (or a Set[K] with V = struct{}).
func WithAllocator[K comparable, V any](allocator Allocator[K, V]) option[K, V] {
	return allocatorOption[K, V]{allocator}
}
