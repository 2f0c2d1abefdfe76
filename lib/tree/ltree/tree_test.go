package ltree

import (
	"context"
	"testing"
	"time"

	"github.com/ValentinKolb/dTree/lib/tree"
	treetesting "github.com/ValentinKolb/dTree/lib/tree/testing"
)

func TestLocalTree(t *testing.T) {
	treetesting.RunTreeTests(t, "ltree", NewLocalTree)
}

func BenchmarkLocalTree(b *testing.B) {
	treetesting.RunTreeBenchmarks(b, "ltree", NewLocalTree)
}

func TestExpiredContext(t *testing.T) {
	lt := NewLocalTree()
	defer lt.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	if err := lt.MakeDirectory(ctx, "a"); tree.CodeOf(err) != tree.RetCTimeout {
		t.Errorf("MakeDirectory() with expired context error = %v, want Timeout", err)
	}

	cancelled, cancelNow := context.WithCancel(context.Background())
	cancelNow()
	if _, err := lt.Read(cancelled, "a"); tree.CodeOf(err) != tree.RetCInternalError {
		t.Errorf("Read() with cancelled context error = %v, want InternalError", err)
	}
}
