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

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"unsafe"

	"github.com/cockroachdb/errors"
)

const (
	debug = false

	// startOfFreeList is the base of the encoding used for the next field of
	// free entries. A free entry stores startOfFreeList-nextFree, which is
	// always <= -2, while a live entry stores the index of the next entry in
	// its chain or -1. The two states are told apart by range alone.
	startOfFreeList = -3
)

// Entry is a slot of the entry array shared by Map and Set. It is exported
// only so that an Allocator can hand out entry storage; its fields are
// private to the table.
type Entry[K comparable, V any] struct {
	hashCode uint32
	// next is the index of the next entry in the same bucket chain (-1 at
	// the tail) for a live entry, or the encoded free list link for a free
	// entry. See encodeFreeNext.
	next  int32
	key   K
	value V
}

func (e *Entry[K, V]) isLive() bool {
	return e.next >= -1
}

// encodeFreeNext returns the next field of an entry pushed onto a free list
// whose previous head is freeHead (-1 for an empty list).
func encodeFreeNext(freeHead int) int32 {
	return int32(startOfFreeList - freeHead)
}

// decodeFreeNext returns the free list head that was current when the entry
// holding next was freed.
func decodeFreeNext(next int32) int {
	return startOfFreeList - int(next)
}

type insertionBehavior uint8

const (
	// insertNone leaves an existing entry untouched and reports that
	// nothing was inserted.
	insertNone insertionBehavior = iota
	// overwriteExisting replaces the value of an existing entry.
	overwriteExisting
	// throwOnExisting fails with ErrDuplicateKey if the key exists.
	throwOnExisting
)

// table is an open-chained hash table over a bucket array and an entry
// array. Buckets hold the 1-based index of the first entry of their chain (0
// for an empty bucket) and entries are linked through their next field.
// Removed entries are threaded onto a free list through the same field and
// reused LIFO by later insertions. Both arrays always have the same prime
// length.
//
// A table is NOT goroutine-safe.
type table[K comparable, V any] struct {
	hash      hashFn[K]
	seed      uintptr
	allocator Allocator[K, V]
	buckets   []int32
	entries   []Entry[K, V]
	// count is the number of entry slots in use, live or free. Slots at and
	// beyond count have never been handed out since the last resize.
	count     int
	freeList  int
	freeCount int
	// clearKeys and clearValues record whether freed keys and values must be
	// zeroed to avoid retaining garbage.
	clearKeys   bool
	clearValues bool
}

func (t *table[K, V]) init(capacity int, options []option[K, V]) {
	checkNonNegative("capacity", capacity)

	*t = table[K, V]{
		hash:        defaultHasher[K](),
		seed:        uintptr(rand.Uint64()),
		allocator:   defaultAllocator[K, V]{},
		freeList:    -1,
		clearKeys:   mayContainPointers[K](),
		clearValues: mayContainPointers[V](),
	}

	for _, op := range options {
		op.apply(t)
	}

	if capacity > 0 {
		t.initialize(capacity)
	}
	t.checkInvariants()
}

// initialize allocates fresh bucket and entry arrays sized to the first
// usable prime >= capacity, dropping any previous state. It returns the new
// size.
func (t *table[K, V]) initialize(capacity int) int {
	size := GetPrime(capacity)
	buckets := t.allocator.AllocBuckets(size)
	entries := t.allocator.AllocEntries(size)

	t.freeList = -1
	t.freeCount = 0
	t.count = 0
	t.buckets = buckets
	t.entries = entries
	return size
}

func (t *table[K, V]) len() int {
	return t.count - t.freeCount
}

func (t *table[K, V]) capacity() int {
	return len(t.entries)
}

func (t *table[K, V]) hashKey(key *K) uint32 {
	return fold32(t.hash((*K)(noescape(unsafe.Pointer(key))), t.seed))
}

// bucket returns the bucket head for hash code h.
func (t *table[K, V]) bucket(h uint32) *int32 {
	return &t.buckets[h%uint32(len(t.buckets))]
}

// find returns the index of the entry holding key, or -1.
func (t *table[K, V]) find(key K) int {
	if t.buckets == nil {
		return -1
	}

	h := t.hashKey(&key)
	// Buckets are 1-based, so an empty bucket yields -1 which converts to a
	// huge unsigned index and terminates the walk.
	i := *t.bucket(h) - 1
	if debug {
		fmt.Printf("find(%v): hash=%08x head=%d\n", key, h, i)
	}
	for uint32(i) < uint32(len(t.entries)) {
		e := &t.entries[i]
		if e.hashCode == h && e.key == key {
			return int(i)
		}
		i = e.next
	}
	return -1
}

// insert adds key with value according to behavior. It reports whether the
// table was modified.
func (t *table[K, V]) insert(key K, value V, behavior insertionBehavior) (bool, error) {
	if t.buckets == nil {
		t.initialize(0)
	}

	h := t.hashKey(&key)
	for i := *t.bucket(h) - 1; uint32(i) < uint32(len(t.entries)); {
		e := &t.entries[i]
		if e.hashCode == h && e.key == key {
			switch behavior {
			case overwriteExisting:
				if debug {
					fmt.Printf("insert(%v): overwriting index=%d\n", key, i)
				}
				e.value = value
				return true, nil
			case throwOnExisting:
				return false, duplicateKey(key)
			}
			return false, nil
		}
		i = e.next
	}

	e := t.link(h, key)
	e.value = value
	t.checkInvariants()
	return true, nil
}

// getOrAddDefault returns a pointer to the value slot for key, inserting a
// zero value first if the key is absent. exists reports whether the key was
// already present.
func (t *table[K, V]) getOrAddDefault(key K) (value *V, exists bool) {
	if t.buckets == nil {
		t.initialize(0)
	}

	h := t.hashKey(&key)
	for i := *t.bucket(h) - 1; uint32(i) < uint32(len(t.entries)); {
		e := &t.entries[i]
		if e.hashCode == h && e.key == key {
			return &e.value, true
		}
		i = e.next
	}

	e := t.link(h, key)
	var zero V
	e.value = zero
	t.checkInvariants()
	return &e.value, false
}

// link takes a slot for a new entry with hash code h, threads it onto the
// head of its bucket chain and returns it. The caller sets the value.
func (t *table[K, V]) link(h uint32, key K) *Entry[K, V] {
	var index int
	if t.freeCount > 0 {
		index = t.freeList
		t.freeList = decodeFreeNext(t.entries[index].next)
		t.freeCount--
	} else {
		if t.count == len(t.entries) {
			t.resize(ExpandPrime(t.count))
		}
		index = t.count
		t.count++
	}

	// The bucket is looked up after a potential resize.
	b := t.bucket(h)
	e := &t.entries[index]
	e.hashCode = h
	e.next = *b - 1
	e.key = key
	*b = int32(index + 1)

	if debug {
		fmt.Printf("insert(%v): hash=%08x index=%d count=%d free=%d\n",
			key, h, index, t.count, t.freeCount)
	}
	return e
}

// remove unlinks the entry holding key and pushes its slot onto the free
// list. It returns the removed value.
func (t *table[K, V]) remove(key K) (value V, ok bool) {
	if t.buckets == nil {
		return value, false
	}

	h := t.hashKey(&key)
	b := t.bucket(h)
	last := int32(-1)
	for i := *b - 1; i >= 0; {
		e := &t.entries[i]
		if e.hashCode == h && e.key == key {
			if last < 0 {
				*b = e.next + 1
			} else {
				t.entries[last].next = e.next
			}

			value = e.value
			e.next = encodeFreeNext(t.freeList)
			if t.clearKeys {
				var zero K
				e.key = zero
			}
			if t.clearValues {
				var zero V
				e.value = zero
			}
			t.freeList = int(i)
			t.freeCount++

			if debug {
				fmt.Printf("remove(%v): index=%d len=%d free=%d\n", key, i, t.len(), t.freeCount)
			}
			t.checkInvariants()
			return value, true
		}
		last = i
		i = e.next
	}
	return value, false
}

// resize moves the table to arrays of newSize entries. Entries keep their
// index and hash code; only chains are rebuilt, so free entries and the free
// list survive unchanged.
func (t *table[K, V]) resize(newSize int) {
	if newSize < len(t.entries) {
		panic(errors.AssertionFailedf("resize: shrinking %d -> %d", len(t.entries), newSize))
	}

	entries := t.allocator.AllocEntries(newSize)
	copy(entries, t.entries[:t.count])
	buckets := t.allocator.AllocBuckets(newSize)

	if debug {
		fmt.Printf("resize: capacity=%d->%d count=%d free=%d\n",
			len(t.entries), newSize, t.count, t.freeCount)
	}

	for i := 0; i < t.count; i++ {
		e := &entries[i]
		if e.isLive() {
			b := &buckets[e.hashCode%uint32(newSize)]
			e.next = *b - 1
			*b = int32(i + 1)
		}
	}

	t.release()
	t.buckets = buckets
	t.entries = entries
}

// release hands the current arrays back to the allocator.
func (t *table[K, V]) release() {
	if t.entries != nil {
		t.allocator.FreeEntries(t.entries)
		t.allocator.FreeBuckets(t.buckets)
	}
	t.entries = nil
	t.buckets = nil
}

// ensureCapacity grows the table so that it can hold at least capacity
// entries without resizing. It returns the resulting capacity.
func (t *table[K, V]) ensureCapacity(capacity int) int {
	checkNonNegative("capacity", capacity)

	current := len(t.entries)
	if current >= capacity {
		return current
	}
	if t.buckets == nil {
		return t.initialize(capacity)
	}

	newSize := GetPrime(capacity)
	t.resize(newSize)
	t.checkInvariants()
	return newSize
}

// trimExcess shrinks the table to the first usable prime >= capacity,
// compacting live entries to the front of the entry array and dropping the
// free list. It is a no-op if that would not shrink the table.
func (t *table[K, V]) trimExcess(capacity int) error {
	if capacity < t.len() {
		return argumentOutOfRange("capacity", capacity, t.len())
	}

	newSize := GetPrime(capacity)
	if newSize >= len(t.entries) {
		return nil
	}

	oldEntries, oldBuckets, oldCount := t.entries, t.buckets, t.count
	t.initialize(newSize)

	n := 0
	for i := 0; i < oldCount; i++ {
		old := &oldEntries[i]
		if !old.isLive() {
			continue
		}
		e := &t.entries[n]
		*e = *old
		b := t.bucket(e.hashCode)
		e.next = *b - 1
		*b = int32(n + 1)
		n++
	}
	t.count = n

	if debug {
		fmt.Printf("trim: capacity=%d->%d count=%d\n", len(oldEntries), newSize, n)
	}

	t.allocator.FreeEntries(oldEntries)
	t.allocator.FreeBuckets(oldBuckets)
	t.checkInvariants()
	return nil
}

// clear removes every entry while keeping the allocated capacity.
func (t *table[K, V]) clear() {
	if t.count > 0 {
		clear(t.buckets)
		clear(t.entries[:t.count])
		t.count = 0
		t.freeList = -1
		t.freeCount = 0
	}
	t.checkInvariants()
}

// close releases the arrays back to the allocator. The table must not be
// used afterwards.
func (t *table[K, V]) close() {
	if t.allocator != nil {
		t.release()
	}
	t.count = 0
	t.freeList = -1
	t.freeCount = 0
	t.allocator = nil
}

// all calls yield for each live entry in slot order. Slot order is insertion
// order until an entry is removed and its slot reused. The table may be
// mutated during iteration; entries added to reused or new slots may or may
// not be visited.
func (t *table[K, V]) all(yield func(e *Entry[K, V]) bool) {
	for i := 0; i < t.count; i++ {
		e := &t.entries[i]
		if e.isLive() && !yield(e) {
			return
		}
	}
}

func (t *table[K, V]) checkInvariants() {
	if invariants {
		if t.buckets == nil {
			if t.count != 0 || t.freeCount != 0 {
				panic(errors.AssertionFailedf("invariant failed: no storage but count=%d free=%d",
					t.count, t.freeCount))
			}
			return
		}

		n := len(t.entries)
		if len(t.buckets) != n {
			panic(errors.AssertionFailedf("invariant failed: %d buckets != %d entries\n%s",
				len(t.buckets), n, t.debugString()))
		}
		if !IsPrime(n) {
			panic(errors.AssertionFailedf("invariant failed: table size %d is not prime", n))
		}
		if t.count > n {
			panic(errors.AssertionFailedf("invariant failed: count %d > capacity %d", t.count, n))
		}

		// Every live entry is reachable from exactly one bucket, the bucket
		// its hash code selects.
		seen := make([]bool, t.count)
		var reachable int
		for b := range t.buckets {
			for i := t.buckets[b] - 1; i >= 0; i = t.entries[i].next {
				if int(i) >= t.count {
					panic(errors.AssertionFailedf("invariant failed: bucket %d links to unused slot %d\n%s",
						b, i, t.debugString()))
				}
				e := &t.entries[i]
				if !e.isLive() {
					panic(errors.AssertionFailedf("invariant failed: bucket %d links to free slot %d\n%s",
						b, i, t.debugString()))
				}
				if int(e.hashCode%uint32(n)) != b {
					panic(errors.AssertionFailedf("invariant failed: slot %d with hash %08x found in bucket %d\n%s",
						i, e.hashCode, b, t.debugString()))
				}
				if seen[i] {
					panic(errors.AssertionFailedf("invariant failed: slot %d reached twice\n%s",
						i, t.debugString()))
				}
				seen[i] = true
				reachable++
			}
		}
		if reachable != t.len() {
			panic(errors.AssertionFailedf("invariant failed: %d reachable entries, but len is %d\n%s",
				reachable, t.len(), t.debugString()))
		}

		// The free list threads exactly the free slots.
		var free int
		for i := t.freeList; i >= 0; i = decodeFreeNext(t.entries[i].next) {
			if i >= t.count || t.entries[i].isLive() || free > t.count {
				panic(errors.AssertionFailedf("invariant failed: bad free list at slot %d\n%s",
					i, t.debugString()))
			}
			free++
		}
		if free != t.freeCount {
			panic(errors.AssertionFailedf("invariant failed: free list has %d slots, but free count is %d\n%s",
				free, t.freeCount, t.debugString()))
		}
	}
}

func (t *table[K, V]) debugString() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "capacity=%d  count=%d  free=%d  free-list=%d\n",
		len(t.entries), t.count, t.freeCount, t.freeList)
	for b, head := range t.buckets {
		if head != 0 {
			fmt.Fprintf(&buf, "  bucket %4d: head=%d\n", b, head-1)
		}
	}
	for i := 0; i < t.count; i++ {
		e := &t.entries[i]
		if e.isLive() {
			fmt.Fprintf(&buf, "  %4d: %v [hash=%08x next=%d]\n", i, e.key, e.hashCode, e.next)
		} else {
			fmt.Fprintf(&buf, "  %4d: free [next-free=%d]\n", i, decodeFreeNext(e.next))
		}
	}
	return buf.String()
}
