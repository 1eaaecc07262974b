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

import "golang.org/x/exp/constraints"

// defaultListCapacity is the capacity of the first buffer allocated by a
// List that starts out empty.
const defaultListCapacity = 4

// DataBatch is implemented by containers that can hand out a contiguous
// batch of new elements for the caller to fill in place.
type DataBatch[T any] interface {
	// ReserveBatch commits additional new elements, reserving margin more
	// elements of unused capacity, and returns the committed elements.
	ReserveBatch(additional, margin int) []T
}

var _ DataBatch[int] = (*List[int])(nil)

// List is a growable array of T. Unlike a plain slice, a List exposes
// pointers into its buffer (Ref, Peek, GetOrCreate), stack operations, and a
// batch reservation fast path. The buffer grows by doubling, starting at 4
// elements, or straight to the required size if doubling is not enough.
//
// Pointers and slices returned by a List alias its buffer and are valid only
// until the next call that can grow it, remove from it or clear it.
//
// The zero value is an empty List ready to use. A List is NOT
// goroutine-safe.
type List[T any] struct {
	// items is the buffer. Its length is the capacity of the list.
	items []T
	count int
}

// NewList returns an empty List with room for capacity elements.
func NewList[T any](capacity int) *List[T] {
	checkNonNegative("capacity", capacity)
	return &List[T]{items: make([]T, capacity)}
}

// NewListFrom returns a List that adopts items as its buffer, with the first
// count elements live. The caller must not use items afterwards.
func NewListFrom[T any](items []T, count int) *List[T] {
	if count < 0 || count > len(items) {
		panic(indexOutOfRange(count, len(items)+1))
	}
	return &List[T]{items: items, count: count}
}

// Len returns the number of elements in the list.
func (l *List[T]) Len() int {
	return l.count
}

// Cap returns the number of elements the list can hold without growing.
func (l *List[T]) Cap() int {
	return len(l.items)
}

// Grow ensures the list can hold at least capacity elements without growing
// again. It never shrinks the buffer.
func (l *List[T]) Grow(capacity int) {
	checkNonNegative("capacity", capacity)
	l.ensureCapacity(capacity)
}

// UnsafeSetLen sets the length of the list to n, growing the buffer if
// needed. Elements that become live are not initialized: they hold whatever
// the buffer held at that position.
func (l *List[T]) UnsafeSetLen(n int) {
	checkNonNegative("n", n)
	l.ensureCapacity(n)
	l.count = n
}

func (l *List[T]) ensureCapacity(min int) {
	if len(l.items) >= min {
		return
	}
	n := defaultListCapacity
	if len(l.items) > 0 {
		n = len(l.items) << 1
	}
	if n < min {
		n = min
	}
	items := make([]T, n)
	copy(items, l.items[:l.count])
	l.items = items
}

// Add appends v to the list.
func (l *List[T]) Add(v T) {
	if l.count == len(l.items) {
		l.ensureCapacity(l.count + 1)
	}
	l.items[l.count] = v
	l.count++
}

// AddByRef appends *v to the list.
func (l *List[T]) AddByRef(v *T) {
	if v == nil {
		panic(nilArgument("v"))
	}
	if l.count == len(l.items) {
		l.ensureCapacity(l.count + 1)
	}
	l.items[l.count] = *v
	l.count++
}

// Push appends v to the list.
func (l *List[T]) Push(v T) {
	l.Add(v)
}

// Insert inserts v at index i, shifting later elements up by one. i must be
// in [0, Len].
func (l *List[T]) Insert(i int, v T) error {
	return l.InsertByRef(i, &v)
}

// InsertByRef inserts *v at index i, shifting later elements up by one. i
// must be in [0, Len].
func (l *List[T]) InsertByRef(i int, v *T) error {
	if v == nil {
		panic(nilArgument("v"))
	}
	if uint(i) > uint(l.count) {
		return indexOutOfRange(i, l.count+1)
	}
	// Copy v before growing in case it points into the buffer.
	item := *v
	if l.count == len(l.items) {
		l.ensureCapacity(l.count + 1)
	}
	copy(l.items[i+1:l.count+1], l.items[i:l.count])
	l.items[i] = item
	l.count++
	return nil
}

// RemoveAt removes the element at index i, shifting later elements down by
// one. i must be in [0, Len).
func (l *List[T]) RemoveAt(i int) error {
	_, err := l.RemoveAtAndGet(i)
	return err
}

// RemoveAtAndGet removes and returns the element at index i, shifting later
// elements down by one. i must be in [0, Len).
func (l *List[T]) RemoveAtAndGet(i int) (T, error) {
	var zero T
	if uint(i) >= uint(l.count) {
		return zero, indexOutOfRange(i, l.count)
	}
	v := l.items[i]
	copy(l.items[i:l.count-1], l.items[i+1:l.count])
	l.count--
	l.items[l.count] = zero
	return v, nil
}

// RemoveLast removes and returns the last element. It returns an error
// wrapping ErrEmpty if the list is empty.
func (l *List[T]) RemoveLast() (T, error) {
	var zero T
	if l.count == 0 {
		return zero, emptyList()
	}
	l.count--
	v := l.items[l.count]
	l.items[l.count] = zero
	return v, nil
}

// Pop removes and returns the last element. It returns an error wrapping
// ErrEmpty if the list is empty.
func (l *List[T]) Pop() (T, error) {
	return l.RemoveLast()
}

// Peek returns a pointer to the last element. It returns an error wrapping
// ErrEmpty if the list is empty.
func (l *List[T]) Peek() (*T, error) {
	if l.count == 0 {
		return nil, emptyList()
	}
	return &l.items[l.count-1], nil
}

// Clear removes all elements, keeping the buffer. The unused slots are
// zeroed only if T may hold pointers.
func (l *List[T]) Clear() {
	if l.count > 0 {
		if mayContainPointers[T]() {
			clear(l.items[:l.count])
		}
		l.count = 0
	}
}

// Reset removes all elements and zeroes the whole buffer.
func (l *List[T]) Reset() {
	clear(l.items)
	l.count = 0
}

// Ref returns a pointer to the element at index i. It panics with an error
// wrapping ErrIndexOutOfRange if i is not in [0, Len).
func (l *List[T]) Ref(i int) *T {
	if uint(i) >= uint(l.count) {
		panic(indexOutOfRange(i, l.count))
	}
	return &l.items[i]
}

// UnsafeRef returns a pointer to the element at index i without any bounds
// check. The caller must guarantee 0 <= i < Cap.
func (l *List[T]) UnsafeRef(i int) *T {
	return makeUnsafeSlice(l.items).At(uintptr(i))
}

// GetOrCreate returns a pointer to the element at index i, first extending
// the list to i+1 elements if it is shorter. New elements hold the zero
// value.
func (l *List[T]) GetOrCreate(i int) *T {
	checkNonNegative("index", i)
	if i >= l.count {
		n := i + 1
		l.ensureCapacity(n)
		// Slots past the length may hold stale values.
		clear(l.items[l.count:n])
		l.count = n
	}
	return &l.items[i]
}

// ReserveBatch makes room for additional+margin more elements in a single
// growth step, extends the list by additional elements and returns them. The
// caller is expected to overwrite every returned element. The margin is left
// as unused capacity for the next batch.
func (l *List[T]) ReserveBatch(additional, margin int) []T {
	checkNonNegative("additional", additional)
	checkNonNegative("margin", margin)
	start := l.count
	l.ensureCapacity(start + additional + margin)
	l.count = start + additional
	return l.items[start:l.count:l.count]
}

// IndexFunc returns the index of the first element satisfying pred, or -1.
func (l *List[T]) IndexFunc(pred func(v T) bool) int {
	if pred == nil {
		panic(nilArgument("pred"))
	}
	for i := 0; i < l.count; i++ {
		if pred(l.items[i]) {
			return i
		}
	}
	return -1
}

// IndexOf returns the index of the first element of l equal to v, or -1.
func IndexOf[T comparable](l *List[T], v T) int {
	for i := 0; i < l.count; i++ {
		if l.items[i] == v {
			return i
		}
	}
	return -1
}

// Contains reports whether v is present in l.
func Contains[T comparable](l *List[T], v T) bool {
	return IndexOf(l, v) >= 0
}

// Remove removes the first element of l equal to v. It reports whether an
// element was removed.
func Remove[T comparable](l *List[T], v T) bool {
	i := IndexOf(l, v)
	if i < 0 {
		return false
	}
	_ = l.RemoveAt(i)
	return true
}

// CopyTo copies the elements of the list into dst starting at offset.
func (l *List[T]) CopyTo(dst []T, offset int) error {
	if err := checkCopyRange(len(dst), offset, l.count); err != nil {
		return err
	}
	copy(dst[offset:], l.items[:l.count])
	return nil
}

// ToSlice returns a copy of the elements of the list.
func (l *List[T]) ToSlice() []T {
	s := make([]T, l.count)
	copy(s, l.items[:l.count])
	return s
}

// Slice returns the elements of the list. The slice aliases the buffer.
func (l *List[T]) Slice() []T {
	return l.items[:l.count:l.count]
}

// Clone returns an independent copy of the list with the same capacity.
func (l *List[T]) Clone() *List[T] {
	var items []T
	if l.items != nil {
		items = make([]T, len(l.items))
		copy(items, l.items)
	}
	return &List[T]{items: items, count: l.count}
}

// Sort sorts the list in ascending order as determined by less. The sort is
// not stable.
func (l *List[T]) Sort(less func(a, b T) bool) {
	SortFunc(l.Slice(), less)
}

// SortByRef sorts the list in ascending order as determined by c. The sort
// is not stable.
func (l *List[T]) SortByRef(c ComparerByRef[T]) {
	if c == nil {
		panic(nilArgument("c"))
	}
	SortByRef(l.Slice(), c)
}

// SortList sorts l in ascending order.
func SortList[T constraints.Ordered](l *List[T]) {
	Sort(l.Slice())
}

// All calls yield sequentially for each index and element of the list. If
// yield returns false, iteration stops. Elements appended during iteration
// are visited.
//
//	for i, v := range l.All {
//	  fmt.Printf("%d: %v\n", i, v)
//	}
func (l *List[T]) All(yield func(i int, v T) bool) {
	for i := 0; i < l.count; i++ {
		if !yield(i, l.items[i]) {
			return
		}
	}
}
