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

import "github.com/cockroachdb/errors"

// Errors reported by the containers in this package. Failures that depend on
// the data (a missing key, a duplicate key, an empty list) are returned.
// Violated preconditions that Go itself treats as programmer errors, such as
// a negative capacity or an out of range index passed to a checked indexer,
// panic with an error wrapping one of these sentinels so that a recovered
// value can still be matched with errors.Is.
var (
	// ErrIndexOutOfRange is reported when an index lies outside the valid
	// range of the operation.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrEmpty is reported by Pop, Peek and RemoveLast on an empty List.
	ErrEmpty = errors.New("collection is empty")
	// ErrDuplicateKey is reported by strict insertion of a key that is
	// already present.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrKeyNotFound is reported by Map.At when the key is absent.
	ErrKeyNotFound = errors.New("key not found")
	// ErrNegativeArgument is reported for negative sizes, capacities and
	// counts.
	ErrNegativeArgument = errors.New("negative argument")
	// ErrDestinationTooSmall is reported when a copy destination cannot hold
	// the elements being copied.
	ErrDestinationTooSmall = errors.New("destination too small")
	// ErrNilArgument is reported when a required function argument is nil.
	ErrNilArgument = errors.New("nil argument")
	// ErrArgumentOutOfRange is reported when a non-index argument lies
	// outside its valid range, such as a trim capacity below the number of
	// live entries.
	ErrArgumentOutOfRange = errors.New("argument out of range")
)

func indexOutOfRange(index, length int) error {
	return errors.Wrapf(ErrIndexOutOfRange, "index %d, length %d", index, length)
}

func emptyList() error {
	return errors.Wrap(ErrEmpty, "list")
}

func negativeArgument(name string, v int) error {
	return errors.Wrapf(ErrNegativeArgument, "%s=%d", name, v)
}

func nilArgument(name string) error {
	return errors.Wrapf(ErrNilArgument, "%s", name)
}

func duplicateKey[K comparable](key K) error {
	return errors.Wrapf(ErrDuplicateKey, "key %v", key)
}

func keyNotFound[K comparable](key K) error {
	return errors.Wrapf(ErrKeyNotFound, "key %v", key)
}

func argumentOutOfRange(name string, v, min int) error {
	return errors.Wrapf(ErrArgumentOutOfRange, "%s=%d, minimum %d", name, v, min)
}

func destinationTooSmall(available, needed int) error {
	return errors.Wrapf(ErrDestinationTooSmall, "available %d, needed %d", available, needed)
}

// checkNonNegative panics if v is negative.
func checkNonNegative(name string, v int) {
	if v < 0 {
		panic(negativeArgument(name, v))
	}
}
