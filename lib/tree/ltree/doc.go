// Package ltree implements a local, in-memory, single-node tree store based on the
// tree.ITree interface. Data is stored entirely in memory and is not persisted between
// process restarts.
//
// Key Features:
//   - Pure in-memory storage without persistence
//   - Directory creation with implicit parents, file read/write/remove, listing
//   - Context deadlines are honoured before each operation is applied
//
// Thread Safety:
//
//	All methods are safe for concurrent use. Reads run concurrently with each other,
//	mutations are serialized by the read/write mutex of the underlying namespace.
//
// Usage Example:
//
//	t := ltree.NewLocalTree()
//	_ = t.MakeDirectory(ctx, "usertable")
//	_ = t.Write(ctx, "usertable/user1", "{'field0': 'value'}")
//	contents, err := t.Read(ctx, "usertable/user1")
package ltree
