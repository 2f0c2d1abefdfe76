package testing

import (
	"context"
	"fmt"
	"testing"

	"github.com/ValentinKolb/dTree/lib/tree"
)

// RunTreeBenchmarks runs all benchmarks for a tree store implementation
func RunTreeBenchmarks(b *testing.B, name string, factory TreeFactory) {
	b.Run(name, func(b *testing.B) {
		b.Run("Write", func(b *testing.B) {
			benchmarkWrite(b, factory())
		})

		b.Run("Read", func(b *testing.B) {
			benchmarkRead(b, factory())
		})

		b.Run("MakeDirectory(existing)", func(b *testing.B) {
			benchmarkMakeDirectoryExisting(b, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

const benchKeySpread = 1000

func benchmarkWrite(b *testing.B, tr tree.ITree) {
	b.Cleanup(func() {
		tr.Close()
	})
	ctx := context.Background()
	_ = tr.MakeDirectory(ctx, "bench")
	value := "{'field0': 'aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa'}"

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		counter := 0
		for pb.Next() {
			_ = tr.Write(ctx, fmt.Sprintf("bench/key-%d", counter%benchKeySpread), value)
			counter++
		}
	})
}

func benchmarkRead(b *testing.B, tr tree.ITree) {
	b.Cleanup(func() {
		tr.Close()
	})
	ctx := context.Background()
	_ = tr.MakeDirectory(ctx, "bench")
	for i := 0; i < benchKeySpread; i++ {
		_ = tr.Write(ctx, fmt.Sprintf("bench/key-%d", i), "{'field0': 'value'}")
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		counter := 0
		for pb.Next() {
			_, _ = tr.Read(ctx, fmt.Sprintf("bench/key-%d", counter%benchKeySpread))
			counter++
		}
	})
}

func benchmarkMakeDirectoryExisting(b *testing.B, tr tree.ITree) {
	b.Cleanup(func() {
		tr.Close()
	})
	ctx := context.Background()
	_ = tr.MakeDirectory(ctx, "bench")

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = tr.MakeDirectory(ctx, "bench")
		}
	})
}
