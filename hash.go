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
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
)

// hashFn hashes a key with a per-table seed. The result is folded to 32 bits
// before it is stored in an entry.
type hashFn[K comparable] func(key *K, seed uintptr) uintptr

// defaultHasher returns a hasher for any comparable key built on
// maphash.Comparable. Every call returns a hasher with a fresh maphash seed,
// so two tables never share a hash layout, while the hash of a key is stable
// for the lifetime of a single table.
func defaultHasher[K comparable]() hashFn[K] {
	s := maphash.MakeSeed()
	return func(key *K, seed uintptr) uintptr {
		return uintptr(maphash.Comparable(s, *key)) ^ seed
	}
}

// HashString hashes string keys with xxhash. It can be passed to WithHash
// for Map and Set instances keyed by strings.
func HashString(key *string, seed uintptr) uintptr {
	return uintptr(xxhash.Sum64String(*key) ^ uint64(seed))
}

// HashUint32 hashes 32-bit integer keys with the MurmurHash3 single word
// mix.
func HashUint32(key *uint32, seed uintptr) uintptr {
	return uintptr(MurmurHash3Word(*key ^ uint32(seed)))
}

// fold32 reduces a pointer sized hash to the 32-bit hash code stored in a
// table entry.
func fold32(h uintptr) uint32 {
	return uint32(h) ^ uint32(uint64(h)>>32)
}
