// Package pool provides a generic bounded resource pool.
//
// The pool is created full: New calls the factory once per slot and fails as a whole
// if any call fails. Callers borrow a resource with Checkout and must give it back
// with Checkin, or use Use which does both:
//
//	p, err := pool.New(4, func() (tree.ITree, error) { return connect(addr) },
//		pool.WithDestroy(func(t tree.ITree) error { return t.Close() }))
//	if err != nil { ... }
//	defer p.Close()
//
//	err = p.Use(func(t tree.ITree) error {
//		return t.Write(ctx, "table/key", payload)
//	})
//
// A forgotten Checkin shrinks the pool for good, and once every resource is leaked
// all further Checkout calls block forever.
package pool
