// Package server implements the RPC server of the dTree tree store.
// It routes requests received by a transport to the tree of the addressed shard
// and translates them to tree.ITree calls.
//
// The package focuses on:
//   - Server-side RPC request handling for tree operations
//   - Adapter pattern to decouple the tree from RPC mechanisms
//   - Flexible shard configuration with support for local and raft replicated trees
//   - Request metrics exposed in the prometheus text format
//
// Key Components:
//
//   - IRPCServerAdapter: Interface defining the contract for all server adapters,
//     with the Handle method that processes incoming requests against a tree.ITree.
//
//   - NewITreeServerAdapter: Factory function creating the adapter that translates
//     RPC requests to tree.ITree method calls. Failed operations keep their tree.RetCode
//     in the response.
//
//   - NewRPCServer: Factory function creating a configured server with the specified
//     transport and serializer mechanisms.
//
// Usage Example:
//
//	// Create server configuration
//	config := common.ServerConfig{
//	  Shards: []common.ServerShard{
//	    {ShardID: 100, Type: common.ShardTypeLocalTree},
//	  },
//	  TimeoutSecond:   5,
//	  MetricsEndpoint: "0.0.0.0:9100",
//	  LogLevel:        "info",
//	  Transport: common.ServerTransportConfig{
//	    Endpoint: "0.0.0.0:8080",
//	  },
//	}
//
//	// Create and start the server
//	s := server.NewRPCServer(
//	  config,
//	  tcp.NewTCPServerTransport(),
//	  serializer.NewBinarySerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// The server supports two types of shards, which can be mixed within a single server:
//
//   - ShardTypeLocalTree: An in-memory tree, suitable for single-node deployments
//     or development environments.
//
//   - ShardTypeRemoteTree: A tree replicated with Raft consensus, providing strong
//     consistency across multiple nodes. When using this type, the RAFT configuration
//     (RTTMillisecond, SnapshotEntries, CompactionOverhead, DataDir, ReplicaID and
//     ClusterMembers) must be properly configured.
//
// Metrics:
//
//	If MetricsEndpoint is set, GET /metrics on that address returns the request
//	counters and latency histograms per message type together with the process metrics.
//
// Thread Safety:
//
//	The server implementation is thread-safe and can handle concurrent requests
//	across multiple connections. Each request is processed independently.
//	Serve is not thread-safe and should be called only once.
package server
