package dtree

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ValentinKolb/dTree/lib/tree"
	"github.com/ValentinKolb/dTree/lib/tree/internal"
	"github.com/lni/dragonboat/v4"
	"github.com/lni/dragonboat/v4/client"
	"github.com/lni/dragonboat/v4/logger"
)

var (
	retries = 5
	log     = logger.GetLogger("tree")
)

// treeImpl is the raft backed implementation of tree.ITree.
// It encapsulates a Dragonboat NodeHost which is used to communicate with the state machine.
type treeImpl struct {
	nh      *dragonboat.NodeHost
	shardID uint64
	cs      *client.Session
	timeout time.Duration
}

// NewDistributedTree creates a new distributed tree which uses raft consensus to ensure linearizability
// across multiple nodes. The timeout is applied to every proposal and read unless the caller's
// context carries an earlier deadline.
func NewDistributedTree(nh *dragonboat.NodeHost, shardID uint64, timeout time.Duration) tree.ITree {
	return &treeImpl{
		nh:      nh,
		shardID: shardID,
		cs:      nh.GetNoOPSession(shardID),
		timeout: timeout,
	}
}

// --------------------------------------------------------------------------
// Internal write and read operations (used by interface methods)
// --------------------------------------------------------------------------

// toTreeError maps dragonboat and context errors onto tree error codes.
func toTreeError(err error) error {
	var te *tree.Error
	switch {
	case errors.As(err, &te):
		return te
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, dragonboat.ErrTimeout):
		return tree.NewError(tree.RetCTimeout, err.Error())
	default:
		return tree.NewError(tree.RetCInternalError, err.Error())
	}
}

// write serializes a Command and sends it via SyncPropose.
// It returns a *tree.Error if an error occurs, or nil on success.
func (s *treeImpl) write(ctx context.Context, cmd internal.Command) error {
	for i := 0; i < retries; i++ {
		opCtx, cancel := context.WithTimeout(ctx, s.timeout)
		res, err := s.nh.SyncPropose(opCtx, s.cs, cmd.Serialize())
		cancel()

		if errors.Is(err, dragonboat.ErrSystemBusy) {
			log.Infof("SyncPropose: System busy, retrying (%d/%d)...", i+1, retries)
			time.Sleep(s.timeout / 10)
			continue
		}

		if err != nil {
			return toTreeError(err)
		}
		if res.Value != uint64(tree.RetCSuccess) {
			return tree.NewError(tree.RetCode(res.Value), string(res.Data))
		}
		return nil
	}
	return tree.NewError(tree.RetCTimeout, "system busy")
}

// read sends a Query via SyncRead, so the answer reflects every write committed before the call.
// Busy errors are retried like in write.
func (s *treeImpl) read(ctx context.Context, q internal.Query) (internal.QueryResult, error) {
	for i := 0; i < retries; i++ {
		opCtx, cancel := context.WithTimeout(ctx, s.timeout)
		res, err := s.nh.SyncRead(opCtx, s.shardID, q)
		cancel()

		if errors.Is(err, dragonboat.ErrSystemBusy) {
			log.Infof("SyncRead: System busy, retrying (%d/%d)...", i+1, retries)
			time.Sleep(s.timeout / 10)
			continue
		}

		if err != nil {
			return internal.QueryResult{}, toTreeError(err)
		}

		casted, ok := res.(internal.QueryResult)
		if !ok {
			return internal.QueryResult{}, tree.NewError(tree.RetCInternalError,
				fmt.Sprintf("unexpected type: received %T, expected %T", res, casted))
		}
		return casted, nil
	}
	return internal.QueryResult{}, tree.NewError(tree.RetCTimeout, "system busy")
}

// --------------------------------------------------------------------------
// Interface Methods (docu see tree/interface.go)
// --------------------------------------------------------------------------

func (s *treeImpl) Read(ctx context.Context, path string) (string, error) {
	res, err := s.read(ctx, internal.Query{Type: internal.QueryTRead, Path: path})
	if err != nil {
		return "", err
	}
	return res.Contents, nil
}

func (s *treeImpl) Write(ctx context.Context, path string, contents string) error {
	return s.write(ctx, internal.Command{
		Type:     internal.CommandTWrite,
		Path:     path,
		Contents: contents,
	})
}

func (s *treeImpl) MakeDirectory(ctx context.Context, path string) error {
	return s.write(ctx, internal.Command{
		Type: internal.CommandTMakeDirectory,
		Path: path,
	})
}

func (s *treeImpl) ListDirectory(ctx context.Context, path string) ([]string, error) {
	res, err := s.read(ctx, internal.Query{Type: internal.QueryTList, Path: path})
	if err != nil {
		return nil, err
	}
	return res.Children, nil
}

func (s *treeImpl) RemoveFile(ctx context.Context, path string) error {
	return s.write(ctx, internal.Command{
		Type: internal.CommandTRemoveFile,
		Path: path,
	})
}

// Close is a no-op, the NodeHost is owned by whoever created it.
func (s *treeImpl) Close() error {
	return nil
}
