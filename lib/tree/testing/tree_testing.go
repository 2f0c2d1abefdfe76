package testing

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ValentinKolb/dTree/lib/tree"
)

// TreeFactory is a function that creates a new, empty instance of an ITree implementation
type TreeFactory func() tree.ITree

// RunTreeTests runs the conformance test suite for an ITree implementation.
func RunTreeTests(t *testing.T, name string, factory TreeFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Write&Read", func(t *testing.T) {
			testWriteRead(t, factory())
		})

		t.Run("MakeDirectory", func(t *testing.T) {
			testMakeDirectory(t, factory())
		})

		t.Run("ListDirectory", func(t *testing.T) {
			testListDirectory(t, factory())
		})

		t.Run("RemoveFile", func(t *testing.T) {
			testRemoveFile(t, factory())
		})

		t.Run("ErrorCodes", func(t *testing.T) {
			testErrorCodes(t, factory())
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, factory())
		})

		t.Run("ConcurrentWriters", func(t *testing.T) {
			testConcurrentWriters(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// testContext returns a context with a generous deadline so a hanging implementation fails instead of blocking
func testContext(t testing.TB) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func requireCode(t testing.TB, err error, want tree.RetCode, op string) {
	t.Helper()
	if got := tree.CodeOf(err); got != want {
		t.Errorf("%s: expected code %s, got %s (err=%v)", op, want, got, err)
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testWriteRead(t *testing.T, tr tree.ITree) {
	defer tr.Close()
	ctx := testContext(t)

	if err := tr.MakeDirectory(ctx, "usertable"); err != nil {
		t.Fatalf("MakeDirectory failed: %v", err)
	}

	path := "usertable/user1"
	value1 := "{'field0': 'value1'}"
	value2 := "{'field0': 'value2'}"

	if err := tr.Write(ctx, path, value1); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if got, err := tr.Read(ctx, path); err != nil || got != value1 {
		t.Errorf("Expected %q after Write, got %q (err=%v)", value1, got, err)
	}

	// Overwrite unconditionally
	if err := tr.Write(ctx, path, value2); err != nil {
		t.Fatalf("Write (overwrite) failed: %v", err)
	}
	if got, err := tr.Read(ctx, path); err != nil || got != value2 {
		t.Errorf("Expected %q after overwrite, got %q (err=%v)", value2, got, err)
	}

	// Leading slash addresses the same file
	if got, err := tr.Read(ctx, "/"+path); err != nil || got != value2 {
		t.Errorf("Expected %q for absolute path, got %q (err=%v)", value2, got, err)
	}
}

func testMakeDirectory(t *testing.T, tr tree.ITree) {
	defer tr.Close()
	ctx := testContext(t)

	// Parents are created as needed
	if err := tr.MakeDirectory(ctx, "a/b/c"); err != nil {
		t.Fatalf("MakeDirectory failed: %v", err)
	}
	if err := tr.Write(ctx, "a/b/c/file", "x"); err != nil {
		t.Errorf("Write into created directory failed: %v", err)
	}

	// Existing directories are fine
	for i := 0; i < 3; i++ {
		if err := tr.MakeDirectory(ctx, "a/b"); err != nil {
			t.Errorf("MakeDirectory on existing directory failed: %v", err)
		}
	}

	// The root always exists
	if err := tr.MakeDirectory(ctx, "/"); err != nil {
		t.Errorf("MakeDirectory(/) failed: %v", err)
	}

	// The file survived repeated MakeDirectory calls of its parents
	if got, err := tr.Read(ctx, "a/b/c/file"); err != nil || got != "x" {
		t.Errorf("Expected file to survive, got %q (err=%v)", got, err)
	}
}

func testListDirectory(t *testing.T, tr tree.ITree) {
	defer tr.Close()
	ctx := testContext(t)

	children, err := tr.ListDirectory(ctx, "/")
	if err != nil {
		t.Fatalf("ListDirectory(/) failed: %v", err)
	}
	if len(children) != 0 {
		t.Errorf("Expected empty root, got %v", children)
	}

	_ = tr.MakeDirectory(ctx, "table/sub")
	_ = tr.Write(ctx, "table/b", "")
	_ = tr.Write(ctx, "table/a", "")

	children, err = tr.ListDirectory(ctx, "table")
	if err != nil {
		t.Fatalf("ListDirectory(table) failed: %v", err)
	}
	if want := []string{"a", "b", "sub/"}; !reflect.DeepEqual(children, want) {
		t.Errorf("Expected %v, got %v", want, children)
	}
}

func testRemoveFile(t *testing.T, tr tree.ITree) {
	defer tr.Close()
	ctx := testContext(t)

	_ = tr.MakeDirectory(ctx, "t")
	_ = tr.Write(ctx, "t/k", "v")

	if err := tr.RemoveFile(ctx, "t/k"); err != nil {
		t.Fatalf("RemoveFile failed: %v", err)
	}
	_, err := tr.Read(ctx, "t/k")
	requireCode(t, err, tree.RetCLookupError, "Read after RemoveFile")

	// Removing again is not an error
	if err := tr.RemoveFile(ctx, "t/k"); err != nil {
		t.Errorf("RemoveFile of missing file failed: %v", err)
	}
}

func testErrorCodes(t *testing.T, tr tree.ITree) {
	defer tr.Close()
	ctx := testContext(t)

	_ = tr.MakeDirectory(ctx, "dir")
	_ = tr.Write(ctx, "dir/file", "x")

	_, err := tr.Read(ctx, "dir/missing")
	requireCode(t, err, tree.RetCLookupError, "Read missing file")

	_, err = tr.Read(ctx, "dir")
	requireCode(t, err, tree.RetCTypeError, "Read directory")

	err = tr.Write(ctx, "nodir/file", "x")
	requireCode(t, err, tree.RetCLookupError, "Write without parent")

	err = tr.Write(ctx, "dir", "x")
	requireCode(t, err, tree.RetCTypeError, "Write over directory")

	err = tr.MakeDirectory(ctx, "dir/file")
	requireCode(t, err, tree.RetCTypeError, "MakeDirectory over file")

	_, err = tr.ListDirectory(ctx, "dir/file")
	requireCode(t, err, tree.RetCTypeError, "ListDirectory of file")

	err = tr.RemoveFile(ctx, "dir")
	requireCode(t, err, tree.RetCTypeError, "RemoveFile of directory")

	_, err = tr.Read(ctx, "dir/../dir/file")
	requireCode(t, err, tree.RetCInvalidArgument, "Read relative path")
}

func testEdgeCases(t *testing.T, tr tree.ITree) {
	defer tr.Close()
	ctx := testContext(t)

	_ = tr.MakeDirectory(ctx, "edge")

	cases := map[string]string{
		"edge/empty":   "",
		"edge/unicode": "{'名前': '値'}",
		"edge/large":   string(make([]byte, 64*1024)),
		"edge/newline": "line1\nline2",
	}
	for path, contents := range cases {
		if err := tr.Write(ctx, path, contents); err != nil {
			t.Errorf("Write(%s) failed: %v", path, err)
			continue
		}
		if got, err := tr.Read(ctx, path); err != nil || got != contents {
			t.Errorf("Read(%s) mismatch (len got=%d, want=%d, err=%v)", path, len(got), len(contents), err)
		}
	}
}

func testConcurrentWriters(t *testing.T, tr tree.ITree) {
	defer tr.Close()
	ctx := testContext(t)

	const numWorkers = 8
	const filesPerWorker = 50

	var wg sync.WaitGroup
	var errorCount atomic.Int32
	wg.Add(numWorkers)

	for w := 0; w < numWorkers; w++ {
		go func(workerId int) {
			defer wg.Done()
			dir := fmt.Sprintf("worker-%d", workerId)
			if err := tr.MakeDirectory(ctx, dir); err != nil {
				errorCount.Add(1)
				return
			}
			for i := 0; i < filesPerWorker; i++ {
				if err := tr.Write(ctx, fmt.Sprintf("%s/f-%d", dir, i), fmt.Sprintf("%d", i)); err != nil {
					errorCount.Add(1)
				}
			}
		}(w)
	}
	wg.Wait()

	if n := errorCount.Load(); n > 0 {
		t.Fatalf("%d concurrent operations failed", n)
	}

	for w := 0; w < numWorkers; w++ {
		children, err := tr.ListDirectory(ctx, fmt.Sprintf("worker-%d", w))
		if err != nil || len(children) != filesPerWorker {
			t.Errorf("worker-%d: expected %d files, got %d (err=%v)", w, filesPerWorker, len(children), err)
		}
	}
}
