// Package rpc provides the remote procedure call framework of the dTree tree store.
// It acts as the communication layer between clients and servers, enabling
// tree operations across network boundaries.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures and utilities used across the RPC system,
//     including the Message protocol, configuration structures, and logging.
//
//   - transport: Network communication abstractions with pluggable implementations
//     (TCP, HTTP).
//
//   - serializer: Message serialization with multiple format options (Binary, JSON, GOB)
//     for converting between Message objects and byte arrays.
//
//   - client: RPC client implementing tree.ITree, allowing applications to use a
//     remote tree shard transparently.
//
//   - server: RPC server that routes incoming requests to local or raft replicated
//     tree shards.
package rpc
