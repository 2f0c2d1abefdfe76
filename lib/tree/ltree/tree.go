package ltree

import (
	"context"
	"errors"

	"github.com/ValentinKolb/dTree/lib/tree"
	"github.com/ValentinKolb/dTree/lib/tree/internal"
)

type treeImpl struct {
	tree *internal.Tree
}

// NewLocalTree creates a new local tree instance.
// This tree implementation is not distributed and only works on a single node.
// The returned handle is safe for concurrent use and can be shared by any number of callers.
func NewLocalTree() tree.ITree {
	return &treeImpl{
		tree: internal.NewTree(),
	}
}

// checkContext maps an expired or cancelled context to a tree error.
// The in-memory operations themselves never block, so checking once up front is enough.
func checkContext(ctx context.Context) error {
	err := ctx.Err()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return tree.NewError(tree.RetCTimeout, err.Error())
	default:
		return tree.NewError(tree.RetCInternalError, err.Error())
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see tree/interface.go)
// --------------------------------------------------------------------------

func (s *treeImpl) Read(ctx context.Context, path string) (string, error) {
	if err := checkContext(ctx); err != nil {
		return "", err
	}
	return s.tree.Read(path)
}

func (s *treeImpl) Write(ctx context.Context, path string, contents string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	return s.tree.Write(path, contents)
}

func (s *treeImpl) MakeDirectory(ctx context.Context, path string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	return s.tree.MakeDirectory(path)
}

func (s *treeImpl) ListDirectory(ctx context.Context, path string) ([]string, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	return s.tree.List(path)
}

func (s *treeImpl) RemoveFile(ctx context.Context, path string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	return s.tree.RemoveFile(path)
}

// Close is a no-op, the data lives as long as the handle is referenced.
func (s *treeImpl) Close() error {
	return nil
}
