// Package client implements the RPC client for the dTree tree store.
// It provides an implementation of the tree.ITree interface that forwards every
// operation to a remote server via RPC.
//
// The package focuses on:
//   - Transparent RPC access to a remote tree shard
//   - Integration with the transport and serialization layers
//   - Conversion of error responses back into *tree.Error values
//
// Key Components:
//
//   - NewRPCTree: Factory function that connects a transport and returns a client
//     implementing tree.ITree. The return code of a failed remote operation is kept,
//     so callers can match on tree.RetCLookupError or tree.RetCTimeout as if the tree
//     was local.
//
// Usage Example:
//
//	// Configure the client
//	config := common.ClientConfig{
//	  TimeoutSecond: 5,
//	  Transport: common.ClientTransportConfig{
//	    Endpoints:              []string{"localhost:8080"},
//	    RetryCount:             3,
//	    ConnectionsPerEndpoint: 1,
//	  },
//	}
//
//	// Create the tree client
//	t, _ := client.NewRPCTree(1, config, tcp.NewTCPClientTransport(), serializer.NewBinarySerializer())
//	defer t.Close()
//
//	// Use the tree
//	_ = t.MakeDirectory(ctx, "usertable")
//	_ = t.Write(ctx, "usertable/user1", "{'field0': 'value'}")
//	contents, _ := t.Read(ctx, "usertable/user1")
//
// Deadlines:
//
//	Every call takes a context. The transport bounds a request by the earlier of the
//	context deadline and the configured timeout. A request that runs out of time fails
//	with tree.RetCTimeout.
//
// Thread Safety:
//
//	The client is thread-safe and can be used concurrently from multiple goroutines
//	without additional synchronization. Each client owns its transport, so opening
//	several clients gives several independent sets of connections.
package client
