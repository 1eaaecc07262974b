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
	"math/bits"

	"golang.org/x/exp/constraints"
)

// introsortThreshold is the partition size at or below which the sort
// switches to insertion sort.
const introsortThreshold = 16

// ComparerByRef orders elements of type T through pointers, avoiding copies
// of large elements. LessThan must implement a strict weak ordering.
type ComparerByRef[T any] interface {
	LessThan(a, b *T) bool
}

type orderedComparer[T constraints.Ordered] struct{}

func (orderedComparer[T]) LessThan(a, b *T) bool {
	return *a < *b
}

type funcComparer[T any] struct {
	less func(a, b T) bool
}

func (c funcComparer[T]) LessThan(a, b *T) bool {
	return c.less(*a, *b)
}

// Sort sorts s in ascending order. The sort is not stable and does not
// allocate.
func Sort[T constraints.Ordered](s []T) {
	introsort(s, orderedComparer[T]{})
}

// SortFunc sorts s in ascending order as determined by less, which must
// implement a strict weak ordering. The sort is not stable.
func SortFunc[T any](s []T, less func(a, b T) bool) {
	if less == nil {
		panic(nilArgument("less"))
	}
	introsort(s, funcComparer[T]{less})
}

// SortByRef sorts s in ascending order as determined by c. Elements are
// compared in place through pointers. The sort is not stable.
func SortByRef[T any, C ComparerByRef[T]](s []T, c C) {
	introsort(s, c)
}

// introsort sorts s with quicksort, switching to insertion sort for small
// partitions and to heapsort once the depth budget of 2*floor(log2(n))+2
// partitioning steps is used up.
func introsort[T any, C ComparerByRef[T]](s []T, c C) {
	if len(s) <= 1 {
		return
	}
	depth := 2 * bits.Len(uint(len(s)))
	introsortRange(s, depth, c)
}

func introsortRange[T any, C ComparerByRef[T]](s []T, depth int, c C) {
	for len(s) > 1 {
		if len(s) <= introsortThreshold {
			switch len(s) {
			case 2:
				swapIfGreater(s, c, 0, 1)
			case 3:
				swapIfGreater(s, c, 0, 1)
				swapIfGreater(s, c, 0, 2)
				swapIfGreater(s, c, 1, 2)
			default:
				insertionSort(s, c)
			}
			return
		}

		if depth == 0 {
			heapSort(s, c)
			return
		}
		depth--

		// The pivot ends up at p and is not moved again. Recurse into the
		// smaller side and keep looping on the larger one so that the stack
		// depth stays logarithmic.
		p := partition(s, c)
		left, right := s[:p], s[p+1:]
		if len(left) < len(right) {
			introsortRange(left, depth, c)
			s = right
		} else {
			introsortRange(right, depth, c)
			s = left
		}
	}
}

// swapIfGreater orders s[i] and s[j].
func swapIfGreater[T any, C ComparerByRef[T]](s []T, c C, i, j int) {
	if c.LessThan(&s[j], &s[i]) {
		s[i], s[j] = s[j], s[i]
	}
}

// partition picks the median of the first, middle and last elements as the
// pivot and partitions s around it. It returns the final index of the pivot.
func partition[T any, C ComparerByRef[T]](s []T, c C) int {
	hi := len(s) - 1
	mid := hi >> 1

	// Order lo, mid and hi. lo and hi then act as sentinels for the scans
	// below.
	swapIfGreater(s, c, 0, mid)
	swapIfGreater(s, c, 0, hi)
	swapIfGreater(s, c, mid, hi)

	pivot := s[mid]
	s[mid], s[hi-1] = s[hi-1], s[mid]

	left, right := 0, hi-1
	for left < right {
		for left++; c.LessThan(&s[left], &pivot); left++ {
		}
		for right--; c.LessThan(&pivot, &s[right]); right-- {
		}
		if left >= right {
			break
		}
		s[left], s[right] = s[right], s[left]
	}

	if left != hi-1 {
		s[left], s[hi-1] = s[hi-1], s[left]
	}
	return left
}

func insertionSort[T any, C ComparerByRef[T]](s []T, c C) {
	for i := 1; i < len(s); i++ {
		t := s[i]
		j := i - 1
		for ; j >= 0 && c.LessThan(&t, &s[j]); j-- {
			s[j+1] = s[j]
		}
		s[j+1] = t
	}
}

// heapSort sorts s with an in-place binary max-heap. Heap positions are
// 1-based: the children of node i are 2i and 2i+1, stored at s[2i-1] and
// s[2i].
func heapSort[T any, C ComparerByRef[T]](s []T, c C) {
	n := len(s)
	for i := n >> 1; i >= 1; i-- {
		downHeap(s, i, n, c)
	}
	for i := n; i > 1; i-- {
		s[0], s[i-1] = s[i-1], s[0]
		downHeap(s, 1, i-1, c)
	}
}

// downHeap sifts the node at heap position i down within the first n
// elements of s.
func downHeap[T any, C ComparerByRef[T]](s []T, i, n int, c C) {
	d := s[i-1]
	for i <= n>>1 {
		child := 2 * i
		if child < n && c.LessThan(&s[child-1], &s[child]) {
			child++
		}
		if !c.LessThan(&d, &s[child-1]) {
			break
		}
		s[i-1] = s[child-1]
		i = child
	}
	s[i-1] = d
}
