package testing

import (
	"fmt"
	"strings"
	"testing"
)

// RunTableBenchmarks runs all benchmarks for a Table implementation
func RunTableBenchmarks(b *testing.B, name string, factory TableFactory) {

	b.Run(name+"/Put", func(b *testing.B) {
		benchmarkPut(b, factory)
	})

	b.Run(name+"/PutExisting", func(b *testing.B) {
		benchmarkPutExisting(b, factory)
	})

	b.Run(name+"/PutLargeValue", func(b *testing.B) {
		benchmarkPutLargeValue(b, factory)
	})

	b.Run(name+"/Get", func(b *testing.B) {
		benchmarkGet(b, factory)
	})

	b.Run(name+"/Get(not)", func(b *testing.B) {
		benchmarkGetNot(b, factory)
	})

	b.Run(name+"/Range", func(b *testing.B) {
		benchmarkRange(b, factory)
	})
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

func benchmarkPut(b *testing.B, factory TableFactory) {
	table := factory()
	b.Cleanup(table.Clear)

	// keep the key space bounded, chains grow linearly with it
	const keySpread = 10000

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		table.Put(fmt.Sprintf("test-key-%d", i%keySpread), "test-value")
	}
}

func benchmarkPutExisting(b *testing.B, factory TableFactory) {
	table := factory()
	b.Cleanup(table.Clear)

	numKeys := 1000
	for i := 0; i < numKeys; i++ {
		table.Put(fmt.Sprintf("test-key-%d", i), "test-value")
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		table.Put(fmt.Sprintf("test-key-%d", i%numKeys), "updated")
	}
}

func benchmarkPutLargeValue(b *testing.B, factory TableFactory) {
	table := factory()
	b.Cleanup(table.Clear)

	largeValue := strings.Repeat("x", 1024*1024) // 1MB

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		table.Put(fmt.Sprintf("test-key-%d", i%100), largeValue)
	}
}

func benchmarkGet(b *testing.B, factory TableFactory) {
	table := factory()
	b.Cleanup(table.Clear)

	numKeys := 1000
	keys := make([]string, numKeys)
	for i := 0; i < numKeys; i++ {
		keys[i] = fmt.Sprintf("test-key-%d", i)
		table.Put(keys[i], "test-value")
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		table.Get(keys[i%numKeys])
	}
}

func benchmarkGetNot(b *testing.B, factory TableFactory) {
	table := factory()
	b.Cleanup(table.Clear)

	for i := 0; i < 1000; i++ {
		table.Put(fmt.Sprintf("test-key-%d", i), "test-value")
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		table.Get("missing-key")
	}
}

func benchmarkRange(b *testing.B, factory TableFactory) {
	table := factory()
	b.Cleanup(table.Clear)

	for i := 0; i < 1000; i++ {
		table.Put(fmt.Sprintf("test-key-%d", i), "test-value")
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		n := 0
		table.Range(func(_, _ string) bool {
			n++
			return true
		})
	}
}
