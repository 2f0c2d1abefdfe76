package pool

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger("pool")

// InitializationError is returned by New when the pool could not be filled.
type InitializationError struct {
	Created int   // number of resources created before the failure
	Size    int   // requested pool size
	Err     error // the factory error (nil if the size was invalid)
}

func (e *InitializationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("pool: invalid size %d", e.Size)
	}
	return fmt.Sprintf("pool: created %d of %d resources: %v", e.Created, e.Size, e.Err)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}

// Option configures a Pool.
type Option[T any] func(*Pool[T])

// WithDestroy sets the function used to release a resource when the pool is closed.
func WithDestroy[T any](destroy func(T) error) Option[T] {
	return func(p *Pool[T]) {
		p.destroy = destroy
	}
}

// Pool is a fixed size set of resources with blocking checkout.
// A resource is handed to at most one caller at a time. Waiters are not served in FIFO order.
type Pool[T any] struct {
	mu        sync.Mutex
	cond      *sync.Cond
	available []T
	size      int
	closed    bool
	destroy   func(T) error
}

// New eagerly creates size resources with factory. If any call fails, the resources created so far are
// destroyed and an *InitializationError is returned.
func New[T any](size int, factory func() (T, error), opts ...Option[T]) (*Pool[T], error) {
	p := &Pool[T]{size: size}
	p.cond = sync.NewCond(&p.mu)
	for _, opt := range opts {
		opt(p)
	}

	if size < 1 {
		return nil, &InitializationError{Size: size}
	}

	p.available = make([]T, 0, size)
	for i := 0; i < size; i++ {
		res, err := factory()
		if err != nil {
			for _, created := range p.available {
				if dErr := p.destroyResource(created); dErr != nil {
					log.Warningf("failed to release resource after init error: %v", dErr)
				}
			}
			return nil, &InitializationError{Created: i, Size: size, Err: err}
		}
		p.available = append(p.available, res)
	}

	log.Debugf("created pool with %d resources", size)
	return p, nil
}

func (p *Pool[T]) destroyResource(res T) error {
	if p.destroy == nil {
		return nil
	}
	return p.destroy(res)
}

// Checkout blocks until a resource is available and removes it from the pool.
// Every Checkout must be paired with exactly one Checkin.
func (p *Pool[T]) Checkout() T {
	p.mu.Lock()
	defer p.mu.Unlock()
	for len(p.available) == 0 {
		p.cond.Wait()
	}
	return p.take()
}

// TryCheckout is like Checkout but returns false instead of blocking.
func (p *Pool[T]) TryCheckout() (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.available) == 0 {
		var zero T
		return zero, false
	}
	return p.take(), true
}

// take removes the last available resource. p.mu must be held.
func (p *Pool[T]) take() T {
	last := len(p.available) - 1
	res := p.available[last]
	var zero T
	p.available[last] = zero
	p.available = p.available[:last]
	return res
}

// Checkin returns a resource and wakes one waiter. After Close the resource is destroyed instead.
func (p *Pool[T]) Checkin(res T) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		if err := p.destroyResource(res); err != nil {
			log.Warningf("failed to release resource checked in after close: %v", err)
		}
		return
	}
	p.available = append(p.available, res)
	p.mu.Unlock()
	p.cond.Signal()
}

// Use checks out a resource, calls fn with it and checks it back in on every exit path.
func (p *Pool[T]) Use(fn func(T) error) error {
	res := p.Checkout()
	defer p.Checkin(res)
	return fn(res)
}

// Close destroys all available resources. Resources that are checked out at this point are destroyed
// when they are checked in. Close must not race with Checkout.
func (p *Pool[T]) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	resources := p.available
	p.available = nil
	p.mu.Unlock()

	if len(resources) < p.size {
		log.Warningf("closing pool with %d of %d resources checked out", p.size-len(resources), p.size)
	}

	var errs []error
	for _, res := range resources {
		if err := p.destroyResource(res); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the capacity of the pool.
func (p *Pool[T]) Size() int {
	return p.size
}

// Available returns the number of resources that are not checked out.
func (p *Pool[T]) Available() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.available)
}
