// Package dtree implements a replicated tree store on top of the Dragonboat RAFT
// consensus library. It provides a linearizable implementation of tree.ITree that
// stays available as long as a majority of the shard's replicas are up.
//
// Architecture:
//
//   - Tree Client: Implements tree.ITree. MakeDirectory, Write and RemoveFile are
//     serialized into internal.Command values and proposed with SyncPropose. Read and
//     ListDirectory are sent as internal.Query values through SyncRead.
//
//   - State Machine: A Dragonboat IConcurrentStateMachine wrapping an internal.Tree.
//     The raft result of each entry carries the tree.RetCode in Value and a message
//     in Data, so clients see the same error codes as with the local tree.
//
// Error Handling and Retries:
//
//	ErrSystemBusy is retried up to five times with a short pause. Every call is bounded
//	by the configured timeout or the caller's deadline, whichever comes first, and an
//	expired deadline surfaces as tree.RetCTimeout.
//
// Snapshotting:
//
//	Snapshots are written with internal.Tree.Save and restored with internal.Tree.Load.
//	A broken snapshot leaves the replica's tree untouched.
//
// Example:
//
//	nh, err := dragonboat.NewNodeHost(nodeHostConfig)
//	if err != nil { ... }
//
//	err = nh.StartConcurrentReplica(members, false, dtree.CreateStateMachineFactory(), shardConfig)
//	if err != nil { ... }
//
//	t := dtree.NewDistributedTree(nh, shardID, 5*time.Second)
//
// For single node setups the ltree package offers the same interface without consensus.
package dtree
