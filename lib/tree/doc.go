// Package tree provides a high-level interface for hierarchical key-value storage
// operations. Data is organized in directories and files addressed by slash separated
// paths, every file holds a string payload.
//
// The package focuses on:
//   - A unified interface (ITree) for tree operations across different backends
//   - A structured error type carrying return codes that survive RPC round trips
//
// Key Components:
//
//   - ITree Interface: The core abstraction defining operations for interacting with
//     a tree store (Read, Write, MakeDirectory, ListDirectory, RemoveFile). All
//     implementations share this common interface, allowing applications to switch
//     between different storage backends without code changes. Every operation takes a
//     context.Context whose deadline bounds the call.
//
//   - Error System: A structured error reporting mechanism using typed return codes
//     (RetCLookupError, RetCTypeError, RetCTimeout, ...) and descriptive messages.
//     Use CodeOf to extract the code from any error.
//
// Implementations:
//
//	The package includes two implementations of the ITree interface:
//
//	- Local Tree (ltree): A non-distributed implementation holding the namespace in
//	  memory. Suitable for single-node deployments and tests.
//	  Available in the "github.com/ValentinKolb/dTree/lib/tree/ltree" package.
//
//	- Distributed Tree (dtree): An implementation built on the Dragonboat RAFT
//	  consensus library. Every mutation is replicated through the raft log before it
//	  is applied, reads are linearizable.
//	  Available in the "github.com/ValentinKolb/dTree/lib/tree/dtree" package.
//
//	A third implementation, the RPC client in "github.com/ValentinKolb/dTree/rpc/client",
//	forwards all operations to a remote server hosting one of the above.
package tree
