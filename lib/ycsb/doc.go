// Package ycsb runs YCSB style database operations against a tree store.
//
// A DB maps tables to directories and keys to files below them. Each file holds one
// record in the text encoding of package record. The supported operations are:
//
//   - Read: full record reads only, a field subset fails with ErrUnsupportedOperation
//   - Insert: creates the table directory on demand and overwrites the file
//   - Update: read-modify-write of the fields the stored record already has
//   - Delete: accepted and ignored
//   - Scan: fails with ErrNotImplemented
//
// Connections:
//
//	Connections come from a ConnFactory. With Options.Pooled, PoolSize connections
//	are opened up front and each operation borrows one for its whole duration, so at
//	most PoolSize operations talk to the store at once. Without pooling a single
//	connection is shared, which requires a tree.ITree that is safe for concurrent use.
//
// Errors:
//
//	Operations never retry and never exit the process. Every failure is an *Error
//	whose kind can be tested with errors.Is:
//
//	  _, err := db.Read(ctx, "usertable", "user1", nil)
//	  if errors.Is(err, ycsb.ErrTimeout) { ... }
//
//	Remote failures keep the tree error as cause, errors.As(err, &treeErr) reaches it.
//
// Example:
//
//	db, err := ycsb.NewDB(func() (tree.ITree, error) {
//		return client.NewRPCTree(shardId, config, transport, serializer)
//	}, ycsb.DefaultOptions())
//	if err != nil { ... }
//	defer db.Close()
//
//	err = db.Insert(ctx, "usertable", "user1", record.Record{{Name: "field0", Value: "x"}})
package ycsb
