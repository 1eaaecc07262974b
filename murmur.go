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
	"encoding/binary"
	"math/bits"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// The MurmurHash3 x86_32 family. None of these functions provide any
// cryptographic guarantee; they are distribution and avalanche quality mixes
// for callers that need a fast 32-bit hash of raw buffers.

const (
	murmurC1 = 0xcc9e2d51
	murmurC2 = 0x1b873593
)

// MurmurHash3 returns the 32-bit MurmurHash3 of data. Blocks are read as
// little-endian words so the result is the same on every host.
func MurmurHash3(data []byte, seed uint32) uint32 {
	h1 := seed
	nblocks := len(data) / 4
	for i := 0; i < nblocks; i++ {
		h1 = murmurRound(h1, loadWord(data, i*4))
	}

	tail := data[nblocks*4:]
	var k1 uint32
	switch len(tail) {
	case 3:
		k1 ^= uint32(tail[2]) << 16
		fallthrough
	case 2:
		k1 ^= uint32(tail[1]) << 8
		fallthrough
	case 1:
		k1 ^= uint32(tail[0])
		h1 ^= murmurScramble(k1)
	}

	h1 ^= uint32(len(data))
	return fmix32(h1)
}

// MurmurHash3Words returns the MurmurHash3 of a sequence of 32-bit words.
// The finalization folds in the number of words rather than the number of
// bytes, so the result differs from MurmurHash3 over the same memory.
func MurmurHash3Words(words []uint32, seed uint32) uint32 {
	h1 := seed
	for _, k1 := range words {
		h1 = murmurRound(h1, k1)
	}
	h1 ^= uint32(len(words))
	return fmix32(h1)
}

// MurmurHash3Word mixes a single word. It is MurmurHash3Words of a one word
// slice with a zero seed.
func MurmurHash3Word(k1 uint32) uint32 {
	h1 := murmurRound(0, k1)
	h1 ^= 1
	return fmix32(h1)
}

// SimpleHash combines value into hash. It is the cheap combination used when
// hashing composite keys field by field.
func SimpleHash(hash, value int32) int32 {
	return (hash * 397) ^ value
}

// SimpleHash64 is SimpleHash with a 64-bit accumulator.
func SimpleHash64(hash int64, value int32) int64 {
	return (hash * 397) ^ int64(value)
}

func murmurScramble(k1 uint32) uint32 {
	k1 *= murmurC1
	k1 = bits.RotateLeft32(k1, 15)
	return k1 * murmurC2
}

func murmurRound(h1, k1 uint32) uint32 {
	h1 ^= murmurScramble(k1)
	h1 = bits.RotateLeft32(h1, 13)
	return h1*5 + 0xe6546b64
}

// fmix32 forces all bits of h to avalanche.
func fmix32(h uint32) uint32 {
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16
	return h
}

// loadWord reads the little-endian word at data[off:off+4].
func loadWord(data []byte, off int) uint32 {
	if cpu.IsBigEndian {
		return binary.LittleEndian.Uint32(data[off:])
	}
	return *(*uint32)(unsafe.Pointer(unsafe.SliceData(data[off:])))
}
