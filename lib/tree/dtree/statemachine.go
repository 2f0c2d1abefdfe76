package dtree

import (
	"fmt"
	"io"
	"time"

	"github.com/ValentinKolb/dTree/lib/tree"
	"github.com/ValentinKolb/dTree/lib/tree/internal"
	sm "github.com/lni/dragonboat/v4/statemachine"
)

// --------------------------------------------------------------------------
// State Machine Implementation
// --------------------------------------------------------------------------

// TreeStateMachine is a state machine implementation for Dragonboat RAFT holding one tree per replica.
type TreeStateMachine struct {
	replicaID uint64
	shardID   uint64
	tree      *internal.Tree
}

// CreateStateMachineFactory returns a function that can be used by dragonboat to create a new state machine for a node host.
func CreateStateMachineFactory() func(shardID uint64, replicaID uint64) sm.IConcurrentStateMachine {
	return func(shardID uint64, replicaID uint64) sm.IConcurrentStateMachine {
		return &TreeStateMachine{
			replicaID: replicaID,
			shardID:   shardID,
			tree:      internal.NewTree(),
		}
	}
}

// Lookup handles read-only queries. Tree errors are returned as the error value
// so that they travel back through SyncRead unchanged.
func (fsm *TreeStateMachine) Lookup(itf interface{}) (interface{}, error) {
	q, ok := itf.(internal.Query)
	if !ok {
		return nil, tree.NewError(tree.RetCInternalError, fmt.Sprintf("invalid Query type: %T", itf))
	}
	res, err := q.Execute(fsm.tree)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// resultOf converts the outcome of an applied command into a raft result.
func resultOf(cmd internal.Command, err error) sm.Result {
	if err != nil {
		return sm.Result{Value: uint64(tree.CodeOf(err)), Data: []byte(err.Error())}
	}
	return sm.Result{
		Value: uint64(tree.RetCSuccess),
		Data:  []byte(fmt.Sprintf("%s: path=%s", cmd.Type, cmd.Path)),
	}
}

// Update applies write commands to the tree.
// All write operations are serialized into []byte and are accessible via the entries struct
func (fsm *TreeStateMachine) Update(entries []sm.Entry) ([]sm.Entry, error) {
	if len(entries) == 0 {
		return entries, nil
	}

	start := time.Now()

	for idx, e := range entries {
		if len(e.Cmd) == 0 {
			entries[idx].Result = sm.Result{Value: uint64(tree.RetCInvalidOperation), Data: []byte("empty command ignored")}
			continue
		}

		cmd := internal.Command{}
		if err := cmd.Deserialize(e.Cmd); err != nil {
			entries[idx].Result = sm.Result{
				Value: uint64(tree.RetCInternalError),
				Data:  []byte(fmt.Sprintf("failed to deserialize command: %v", err)),
			}
			continue
		}

		entries[idx].Result = resultOf(cmd, cmd.Apply(fsm.tree))
	}

	if elapsed := time.Since(start); elapsed > time.Millisecond {
		log.Infof("State machine took long to update. Batch updated %d entries, took %.2fms", len(entries), float64(elapsed)/float64(time.Millisecond))
	}
	return entries, nil
}

// PrepareSnapshot is not used, the tree serializes itself under its own read lock.
func (fsm *TreeStateMachine) PrepareSnapshot() (interface{}, error) {
	return nil, nil
}

// SaveSnapshot writes the whole tree to the writer.
func (fsm *TreeStateMachine) SaveSnapshot(_ interface{}, writer io.Writer, _ sm.ISnapshotFileCollection, _ <-chan struct{}) error {
	return fsm.tree.Save(writer)
}

// RecoverFromSnapshot replaces the tree with the snapshot contents.
func (fsm *TreeStateMachine) RecoverFromSnapshot(r io.Reader, _ []sm.SnapshotFile, _ <-chan struct{}) error {
	return fsm.tree.Load(r)
}

func (fsm *TreeStateMachine) Close() error {
	info := fsm.tree.GetInfo()
	log.Debugf("closing state machine shard=%d replica=%d (files=%d, directories=%d)",
		fsm.shardID, fsm.replicaID, info.Files, info.Directories)
	return nil
}
