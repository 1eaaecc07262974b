package rawcoll

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"testing"

	"github.com/aclements/go-perfevent/perfbench"
	"golang.org/x/exp/rand"
)

func BenchmarkMapIter(b *testing.B) {
	b.Run("impl=runtimeMap", func(b *testing.B) {
		b.Run("t=Int", benchSizes(benchmarkRuntimeMapIter[int64], genKeys[int64]))
	})
	b.Run("impl=rawcollMap", func(b *testing.B) {
		b.Run("t=Int", benchSizes(benchmarkRawcollMapIter[int64], genKeys[int64]))
	})
}

func BenchmarkMapGetHit(b *testing.B) {
	b.Run("impl=runtimeMap", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkRuntimeMapGetHit[int64], genKeys[int64]))
		b.Run("t=Int32", benchSizes(benchmarkRuntimeMapGetHit[int32], genKeys[int32]))
		b.Run("t=String", benchSizes(benchmarkRuntimeMapGetHit[string], genKeys[string]))
	})
	b.Run("impl=rawcollMap", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkRawcollMapGetHit[int64], genKeys[int64]))
		b.Run("t=Int32", benchSizes(benchmarkRawcollMapGetHit[int32], genKeys[int32]))
		b.Run("t=String", benchSizes(benchmarkRawcollMapGetHit[string], genKeys[string]))
	})
	b.Run("impl=rawcollMapXXHash", func(b *testing.B) {
		b.Run("t=String", benchSizes(benchmarkRawcollStringMapGetHit, genKeys[string]))
	})
}

func BenchmarkMapGetMiss(b *testing.B) {
	b.Run("impl=runtimeMap", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkRuntimeMapGetMiss[int64], genKeys[int64]))
		b.Run("t=Int32", benchSizes(benchmarkRuntimeMapGetMiss[int32], genKeys[int32]))
		b.Run("t=String", benchSizes(benchmarkRuntimeMapGetMiss[string], genKeys[string]))
	})
	b.Run("impl=rawcollMap", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkRawcollMapGetMiss[int64], genKeys[int64]))
		b.Run("t=Int32", benchSizes(benchmarkRawcollMapGetMiss[int32], genKeys[int32]))
		b.Run("t=String", benchSizes(benchmarkRawcollMapGetMiss[string], genKeys[string]))
	})
}

func BenchmarkMapPutGrow(b *testing.B) {
	b.Run("impl=runtimeMap", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkRuntimeMapPutGrow[int64], genKeys[int64]))
		b.Run("t=String", benchSizes(benchmarkRuntimeMapPutGrow[string], genKeys[string]))
	})
	b.Run("impl=rawcollMap", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkRawcollMapPutGrow[int64], genKeys[int64]))
		b.Run("t=String", benchSizes(benchmarkRawcollMapPutGrow[string], genKeys[string]))
	})
}

func BenchmarkMapPutPreAllocate(b *testing.B) {
	b.Run("impl=runtimeMap", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkRuntimeMapPutPreAllocate[int64], genKeys[int64]))
		b.Run("t=String", benchSizes(benchmarkRuntimeMapPutPreAllocate[string], genKeys[string]))
	})
	b.Run("impl=rawcollMap", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkRawcollMapPutPreAllocate[int64], genKeys[int64]))
		b.Run("t=String", benchSizes(benchmarkRawcollMapPutPreAllocate[string], genKeys[string]))
	})
}

func BenchmarkMapPutDelete(b *testing.B) {
	b.Run("impl=runtimeMap", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkRuntimeMapPutDelete[int64], genKeys[int64]))
		b.Run("t=String", benchSizes(benchmarkRuntimeMapPutDelete[string], genKeys[string]))
	})
	b.Run("impl=rawcollMap", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkRawcollMapPutDelete[int64], genKeys[int64]))
		b.Run("t=String", benchSizes(benchmarkRawcollMapPutDelete[string], genKeys[string]))
	})
}

func BenchmarkListAdd(b *testing.B) {
	b.Run("impl=slice", benchSizes(benchmarkSliceAppend[int64], genKeys[int64]))
	b.Run("impl=list", benchSizes(benchmarkListAdd[int64], genKeys[int64]))
	b.Run("impl=listBatch", benchSizes(benchmarkListReserveBatch[int64], genKeys[int64]))
}

func BenchmarkSort(b *testing.B) {
	b.Run("impl=slices", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkSlicesSort[int64], genKeys[int64]))
		b.Run("t=String", benchSizes(benchmarkSlicesSort[string], genKeys[string]))
	})
	b.Run("impl=rawcoll", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkRawcollSort[int64], genKeys[int64]))
		b.Run("t=String", benchSizes(benchmarkRawcollSort[string], genKeys[string]))
	})
}

func BenchmarkMurmurHash3(b *testing.B) {
	for _, n := range []int{4, 16, 64, 1024} {
		b.Run("len="+strconv.Itoa(n), func(b *testing.B) {
			data := make([]byte, n)
			for i := range data {
				data[i] = byte(i)
			}
			b.SetBytes(int64(n))
			var h uint32
			startBench(b)
			for i := 0; i < b.N; i++ {
				h += MurmurHash3(data, uint32(i))
			}
			b.StopTimer()
			fmt.Fprint(io.Discard, h)
		})
	}
}

type benchTypes interface {
	int32 | int64 | string
}

func benchSizes[T benchTypes](
	f func(b *testing.B, n int, genKeys func(start, end int) []T), genKeys func(start, end int) []T,
) func(*testing.B) {
	var cases = []int{
		6, 12, 18, 24, 30,
		64,
		128,
		256,
		512,
		1024,
		2048,
		4096,
		8192,
		1 << 16,
	}

	return func(b *testing.B) {
		for _, n := range cases {
			b.Run("len="+strconv.Itoa(n), func(b *testing.B) { f(b, n, genKeys) })
		}
	}
}

func genKeys[T benchTypes](start, end int) []T {
	var t T
	switch any(t).(type) {
	case int32:
		keys := make([]int32, end-start)
		for i := range keys {
			keys[i] = int32(start + i)
		}
		return any(keys).([]T)
	case int64:
		keys := make([]int64, end-start)
		for i := range keys {
			keys[i] = int64(start + i)
		}
		return any(keys).([]T)
	case string:
		keys := make([]string, end-start)
		for i := range keys {
			keys[i] = strconv.Itoa(start + i)
		}
		return any(keys).([]T)
	default:
		panic("not reached")
	}
}

// startBench resets the benchmark timer and starts the hardware counters.
func startBench(b *testing.B) {
	b.ResetTimer()
	perfbench.Open(b)
}

func benchmarkRuntimeMapIter[T benchTypes](b *testing.B, n int, genKeys func(start, end int) []T) {
	m := make(map[T]T, n)
	keys := genKeys(0, n)
	for _, k := range keys {
		m[k] = k
	}
	startBench(b)
	var tmp T
	for i := 0; i < b.N; i++ {
		for k, v := range m {
			tmp += k + v
		}
	}
}

func benchmarkRawcollMapIter[T benchTypes](b *testing.B, n int, genKeys func(start, end int) []T) {
	m := New[T, T](n)
	keys := genKeys(0, n)
	for _, k := range keys {
		m.Put(k, k)
	}
	startBench(b)
	var tmp T
	for i := 0; i < b.N; i++ {
		for k, v := range m.All {
			tmp += k + v
		}
	}
}

func benchmarkRuntimeMapGetMiss[T benchTypes](
	b *testing.B, n int, genKeys func(start, end int) []T,
) {
	m := make(map[T]T)
	keys := genKeys(0, n)
	miss := genKeys(-n, 0)
	for _, k := range keys {
		m[k] = k
	}
	startBench(b)
	for i := 0; i < b.N; i++ {
		_ = m[miss[i%len(miss)]]
	}
}

func benchmarkRawcollMapGetMiss[T benchTypes](b *testing.B, n int, genKeys func(start, end int) []T) {
	m := New[T, T](0)
	keys := genKeys(0, n)
	miss := genKeys(-n, 0)
	for j := range keys {
		m.Put(keys[j], keys[j])
	}
	startBench(b)
	var ok bool
	for i := 0; i < b.N; i++ {
		_, ok = m.Get(miss[i%len(miss)])
	}
	b.StopTimer()
	fmt.Fprint(io.Discard, ok)
}

func benchmarkRuntimeMapGetHit[T benchTypes](
	b *testing.B, n int, genKeys func(start, end int) []T,
) {
	m := make(map[T]T, n)
	keys := genKeys(0, n)
	for _, k := range keys {
		m[k] = k
	}

	// Go's builtin map has an optimization to avoid string comparisons if
	// there is pointer equality. Defeat this optimization to get a better
	// apples-to-apples comparison.
	keys = genKeys(0, n)

	startBench(b)
	for i := 0; i < b.N; i++ {
		_ = m[keys[i%n]]
	}
}

func benchmarkRawcollMapGetHit[T benchTypes](b *testing.B, n int, genKeys func(start, end int) []T) {
	m := New[T, T](n)
	keys := genKeys(0, n)
	for _, k := range keys {
		m.Put(k, k)
	}
	keys = genKeys(0, n)
	startBench(b)
	var ok bool
	for i := 0; i < b.N; i++ {
		_, ok = m.Get(keys[i%n])
	}
	b.StopTimer()
	fmt.Fprint(io.Discard, ok)
}

func benchmarkRawcollStringMapGetHit(b *testing.B, n int, genKeys func(start, end int) []string) {
	m := New[string, string](n, WithStringHash[string]())
	keys := genKeys(0, n)
	for _, k := range keys {
		m.Put(k, k)
	}
	keys = genKeys(0, n)
	startBench(b)
	var ok bool
	for i := 0; i < b.N; i++ {
		_, ok = m.Get(keys[i%n])
	}
	b.StopTimer()
	fmt.Fprint(io.Discard, ok)
}

func benchmarkRuntimeMapPutGrow[T benchTypes](
	b *testing.B, n int, genKeys func(start, end int) []T,
) {
	keys := genKeys(0, n)
	startBench(b)
	for i := 0; i < b.N; i++ {
		m := make(map[T]T)
		for _, k := range keys {
			m[k] = k
		}
	}
}

func benchmarkRawcollMapPutGrow[T benchTypes](b *testing.B, n int, genKeys func(start, end int) []T) {
	keys := genKeys(0, n)
	startBench(b)
	for i := 0; i < b.N; i++ {
		m := New[T, T](0)
		for _, k := range keys {
			m.Put(k, k)
		}
	}
}

func benchmarkRuntimeMapPutPreAllocate[T benchTypes](
	b *testing.B, n int, genKeys func(start, end int) []T,
) {
	keys := genKeys(0, n)
	startBench(b)
	for i := 0; i < b.N; i++ {
		m := make(map[T]T, n)
		for _, k := range keys {
			m[k] = k
		}
	}
}

func benchmarkRawcollMapPutPreAllocate[T benchTypes](
	b *testing.B, n int, genKeys func(start, end int) []T,
) {
	keys := genKeys(0, n)
	startBench(b)
	for i := 0; i < b.N; i++ {
		m := New[T, T](n)
		for _, k := range keys {
			m.Put(k, k)
		}
	}
}

func benchmarkRuntimeMapPutDelete[T benchTypes](
	b *testing.B, n int, genKeys func(start, end int) []T,
) {
	m := make(map[T]T, n)
	keys := genKeys(0, n)
	for _, k := range keys {
		m[k] = k
	}
	startBench(b)
	for i := 0; i < b.N; i++ {
		j := i % n
		delete(m, keys[j])
		m[keys[j]] = keys[j]
	}
}

func benchmarkRawcollMapPutDelete[T benchTypes](
	b *testing.B, n int, genKeys func(start, end int) []T,
) {
	m := New[T, T](n)
	keys := genKeys(0, n)
	for _, k := range keys {
		m.Put(k, k)
	}
	startBench(b)
	for i := 0; i < b.N; i++ {
		j := i % n
		m.Delete(keys[j])
		m.Put(keys[j], keys[j])
	}
}

func benchmarkSliceAppend[T benchTypes](b *testing.B, n int, genKeys func(start, end int) []T) {
	keys := genKeys(0, n)
	startBench(b)
	for i := 0; i < b.N; i++ {
		var s []T
		for _, k := range keys {
			s = append(s, k)
		}
	}
}

func benchmarkListAdd[T benchTypes](b *testing.B, n int, genKeys func(start, end int) []T) {
	keys := genKeys(0, n)
	startBench(b)
	for i := 0; i < b.N; i++ {
		var l List[T]
		for j := range keys {
			l.AddByRef(&keys[j])
		}
	}
}

func benchmarkListReserveBatch[T benchTypes](b *testing.B, n int, genKeys func(start, end int) []T) {
	keys := genKeys(0, n)
	startBench(b)
	for i := 0; i < b.N; i++ {
		var l List[T]
		for j := 0; j < len(keys); j += 8 {
			end := min(j+8, len(keys))
			copy(l.ReserveBatch(end-j, 8), keys[j:end])
		}
	}
}

func benchmarkSlicesSort[T benchTypes](b *testing.B, n int, genKeys func(start, end int) []T) {
	benchmarkSort(b, n, genKeys, slices.Sort[[]T])
}

func benchmarkRawcollSort[T benchTypes](b *testing.B, n int, genKeys func(start, end int) []T) {
	benchmarkSort(b, n, genKeys, Sort[T])
}

func benchmarkSort[T benchTypes](
	b *testing.B, n int, genKeys func(start, end int) []T, sortFn func([]T),
) {
	rng := rand.New(rand.NewSource(uint64(n)))
	keys := genKeys(0, n)
	rng.Shuffle(len(keys), func(i, j int) {
		keys[i], keys[j] = keys[j], keys[i]
	})
	s := make([]T, n)
	startBench(b)
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		copy(s, keys)
		b.StartTimer()
		sortFn(s)
	}
}
