package pool

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type resource struct {
	id     int
	closed atomic.Bool
}

func counterFactory() (func() (*resource, error), *atomic.Int32) {
	var n atomic.Int32
	return func() (*resource, error) {
		return &resource{id: int(n.Add(1))}, nil
	}, &n
}

func destroyResource(r *resource) error {
	r.closed.Store(true)
	return nil
}

func TestNew(t *testing.T) {
	factory, created := counterFactory()
	p, err := New(3, factory)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if created.Load() != 3 {
		t.Errorf("expected 3 resources to be created eagerly, got %d", created.Load())
	}
	if p.Size() != 3 || p.Available() != 3 {
		t.Errorf("expected size 3 and 3 available, got %d/%d", p.Size(), p.Available())
	}
}

func TestNewInvalidSize(t *testing.T) {
	factory, _ := counterFactory()
	for _, size := range []int{0, -1} {
		_, err := New(size, factory)
		var ie *InitializationError
		if !errors.As(err, &ie) {
			t.Errorf("size %d: expected InitializationError, got %v", size, err)
		}
	}
}

func TestNewFactoryFailure(t *testing.T) {
	var created []*resource
	boom := errors.New("connection refused")
	factory := func() (*resource, error) {
		if len(created) == 2 {
			return nil, boom
		}
		r := &resource{id: len(created)}
		created = append(created, r)
		return r, nil
	}

	_, err := New(4, factory, WithDestroy(destroyResource))

	var ie *InitializationError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InitializationError, got %v", err)
	}
	if ie.Created != 2 || ie.Size != 4 {
		t.Errorf("expected 2 of 4 created, got %d of %d", ie.Created, ie.Size)
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected factory error to be wrapped")
	}
	for _, r := range created {
		if !r.closed.Load() {
			t.Errorf("resource %d was not released after init failure", r.id)
		}
	}
}

func TestExclusivity(t *testing.T) {
	const size = 3
	factory, _ := counterFactory()
	p, err := New(size, factory)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	seen := make(map[*resource]bool)
	var held []*resource
	for i := 0; i < size; i++ {
		r := p.Checkout()
		if seen[r] {
			t.Fatalf("resource %d handed out twice", r.id)
		}
		seen[r] = true
		held = append(held, r)
	}

	if _, ok := p.TryCheckout(); ok {
		t.Fatalf("TryCheckout succeeded on an exhausted pool")
	}

	got := make(chan *resource)
	go func() {
		got <- p.Checkout()
	}()

	select {
	case <-got:
		t.Fatalf("checkout beyond capacity did not block")
	case <-time.After(50 * time.Millisecond):
	}

	p.Checkin(held[0])

	select {
	case r := <-got:
		if r != held[0] {
			t.Errorf("expected the returned resource, got %d", r.id)
		}
	case <-time.After(time.Second):
		t.Fatalf("blocked checkout was not woken by checkin")
	}
}

func TestLiveness(t *testing.T) {
	factory, _ := counterFactory()
	p, err := New(1, factory)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	const iterations = 1000
	var inUse atomic.Int32
	var wg sync.WaitGroup
	wg.Add(2)
	for w := 0; w < 2; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				r := p.Checkout()
				if inUse.Add(1) != 1 {
					t.Errorf("resource used by two goroutines at once")
				}
				inUse.Add(-1)
				p.Checkin(r)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatalf("checkout/checkin loop did not terminate")
	}
	if p.Available() != 1 {
		t.Errorf("expected the resource to be back in the pool, available=%d", p.Available())
	}
}

func TestUse(t *testing.T) {
	factory, _ := counterFactory()
	p, _ := New(1, factory)

	fail := errors.New("operation failed")
	err := p.Use(func(r *resource) error {
		if p.Available() != 0 {
			t.Errorf("resource not checked out during Use")
		}
		return fail
	})
	if !errors.Is(err, fail) {
		t.Errorf("expected error from fn, got %v", err)
	}
	if p.Available() != 1 {
		t.Errorf("resource not checked in after failing fn")
	}
}

func TestClose(t *testing.T) {
	var all []*resource
	factory := func() (*resource, error) {
		r := &resource{id: len(all)}
		all = append(all, r)
		return r, nil
	}
	p, _ := New(2, factory, WithDestroy(destroyResource))

	out := p.Checkout()
	if err := p.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if out.closed.Load() {
		t.Errorf("checked out resource destroyed by Close")
	}
	if p.Available() != 0 {
		t.Errorf("expected no available resources after Close")
	}

	p.Checkin(out)
	for _, r := range all {
		if !r.closed.Load() {
			t.Errorf("resource %d not destroyed", r.id)
		}
	}

	// closing twice is fine
	if err := p.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

func TestCloseCollectsErrors(t *testing.T) {
	factory, _ := counterFactory()
	boom := errors.New("close failed")
	p, _ := New(2, factory, WithDestroy(func(*resource) error { return boom }))

	if err := p.Close(); !errors.Is(err, boom) {
		t.Errorf("expected destroy error, got %v", err)
	}
}
