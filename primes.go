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

import "math"

const (
	// HashPrime is excluded as a factor of p-1 for every table size p
	// returned by GetPrime. Sizes with p-1 divisible by it behave poorly
	// under modulo reduction of common hash codes.
	HashPrime = 101

	// MaxPrimeArrayLength is the largest prime below the practical array
	// length ceiling. ExpandPrime never returns more than this.
	MaxPrimeArrayLength = 0x7FEFFFFD
)

// primes is an ascending table of table sizes. Each is roughly 1.2x the
// previous one, which keeps the result of GetPrime(2*n) close to 2*n.
var primes = [...]int{
	3, 7, 11, 17, 23, 29, 37, 47, 59, 71, 89, 107, 131, 163, 197, 239, 293, 353, 431, 521, 631, 761, 919,
	1103, 1327, 1597, 1931, 2333, 2801, 3371, 4049, 4861, 5839, 7013, 8419, 10103, 12143, 14591,
	17519, 21023, 25229, 30293, 36353, 43627, 52361, 62851, 75431, 90523, 108631, 130363, 156437,
	187751, 225307, 270371, 324449, 389357, 467237, 560689, 672827, 807403, 968897, 1162687, 1395263,
	1674319, 2009191, 2411033, 2893249, 3471899, 4166287, 4999559, 5999471, 7199369,
}

// IsPrime reports whether candidate is prime.
func IsPrime(candidate int) bool {
	if candidate&1 != 0 {
		limit := int(math.Sqrt(float64(candidate)))
		for divisor := 3; divisor <= limit; divisor += 2 {
			if candidate%divisor == 0 {
				return false
			}
		}
		return candidate > 1
	}
	return candidate == 2
}

// GetPrime returns the smallest prime p >= min such that (p-1)%HashPrime !=
// 0. Sizes covered by the precomputed table are answered from it, larger
// ones are searched for among the odd numbers. If no such prime exists below
// math.MaxInt32, min is returned unmodified. GetPrime panics if min is
// negative.
func GetPrime(min int) int {
	checkNonNegative("min", min)

	for _, p := range primes {
		if p >= min {
			return p
		}
	}

	// Outside of the table: compute the hard way.
	for i := min | 1; i < math.MaxInt32; i += 2 {
		if IsPrime(i) && (i-1)%HashPrime != 0 {
			return i
		}
	}
	return min
}

// ExpandPrime returns the size to grow a table of oldSize to: the first
// prime reachable from 2*oldSize, clamped to MaxPrimeArrayLength.
func ExpandPrime(oldSize int) int {
	newSize := 2 * oldSize
	if uint(newSize) > MaxPrimeArrayLength && MaxPrimeArrayLength > oldSize {
		return MaxPrimeArrayLength
	}
	return GetPrime(newSize)
}
