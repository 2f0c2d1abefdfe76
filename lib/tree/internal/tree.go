package internal

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ValentinKolb/dTree/lib/tree"
)

// --------------------------------------------------------------------------
// Nodes
// --------------------------------------------------------------------------

// node is either a directory (children != nil) or a file.
type node struct {
	children map[string]*node
	contents string
}

func newDirectory() *node {
	return &node{children: make(map[string]*node)}
}

func (n *node) isDir() bool {
	return n.children != nil
}

// --------------------------------------------------------------------------
// Tree
// --------------------------------------------------------------------------

// Tree is the in-memory hierarchical namespace shared by the local and the distributed tree.
//
// Thread-safety: all methods are safe for concurrent use. Mutations take the write lock,
// queries the read lock, so lookups may run concurrently with each other.
type Tree struct {
	mu    sync.RWMutex
	root  *node
	files int
	dirs  int
}

// NewTree creates an empty tree that only contains the root directory.
func NewTree() *Tree {
	return &Tree{root: newDirectory(), dirs: 1}
}

// SplitPath normalizes a slash separated path into its segments.
// Empty segments are ignored, so "/a//b/" and "a/b" are the same path.
// The root directory is represented by an empty slice.
func SplitPath(path string) ([]string, error) {
	segments := make([]string, 0, strings.Count(path, "/")+1)
	for _, s := range strings.Split(path, "/") {
		switch s {
		case "":
			continue
		case ".", "..":
			return nil, tree.NewError(tree.RetCInvalidArgument, fmt.Sprintf("path %q contains relative segment %q", path, s))
		}
		segments = append(segments, s)
	}
	return segments, nil
}

// JoinPath is the inverse of SplitPath and always returns an absolute path.
func JoinPath(segments []string) string {
	return "/" + strings.Join(segments, "/")
}

// lookup walks the tree along segments. The caller must hold the lock.
func (t *Tree) lookup(segments []string) (*node, error) {
	current := t.root
	for i, s := range segments {
		if !current.isDir() {
			return nil, tree.NewError(tree.RetCTypeError, fmt.Sprintf("%s is a file", JoinPath(segments[:i])))
		}
		next, ok := current.children[s]
		if !ok {
			return nil, tree.NewError(tree.RetCLookupError, fmt.Sprintf("%s does not exist", JoinPath(segments[:i+1])))
		}
		current = next
	}
	return current, nil
}

// MakeDirectory makes sure a directory exists at path, creating parents as needed.
func (t *Tree) MakeDirectory(path string) error {
	segments, err := SplitPath(path)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	current := t.root
	for i, s := range segments {
		next, ok := current.children[s]
		if !ok {
			next = newDirectory()
			current.children[s] = next
			t.dirs++
		} else if !next.isDir() {
			return tree.NewError(tree.RetCTypeError, fmt.Sprintf("%s is a file", JoinPath(segments[:i+1])))
		}
		current = next
	}
	return nil
}

// Write sets the contents of the file at path. The parent directory must exist.
func (t *Tree) Write(path, contents string) error {
	segments, err := SplitPath(path)
	if err != nil {
		return err
	}
	if len(segments) == 0 {
		return tree.NewError(tree.RetCTypeError, "/ is a directory")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	parent, err := t.lookup(segments[:len(segments)-1])
	if err != nil {
		return err
	}
	if !parent.isDir() {
		return tree.NewError(tree.RetCTypeError, fmt.Sprintf("%s is a file", JoinPath(segments[:len(segments)-1])))
	}

	name := segments[len(segments)-1]
	if existing, ok := parent.children[name]; ok {
		if existing.isDir() {
			return tree.NewError(tree.RetCTypeError, fmt.Sprintf("%s is a directory", JoinPath(segments)))
		}
		existing.contents = contents
		return nil
	}

	parent.children[name] = &node{contents: contents}
	t.files++
	return nil
}

// Read returns the contents of the file at path.
func (t *Tree) Read(path string) (string, error) {
	segments, err := SplitPath(path)
	if err != nil {
		return "", err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	n, err := t.lookup(segments)
	if err != nil {
		return "", err
	}
	if n.isDir() {
		return "", tree.NewError(tree.RetCTypeError, fmt.Sprintf("%s is a directory", JoinPath(segments)))
	}
	return n.contents, nil
}

// List returns the sorted child names of the directory at path, directories with a trailing slash.
func (t *Tree) List(path string) ([]string, error) {
	segments, err := SplitPath(path)
	if err != nil {
		return nil, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	n, err := t.lookup(segments)
	if err != nil {
		return nil, err
	}
	if !n.isDir() {
		return nil, tree.NewError(tree.RetCTypeError, fmt.Sprintf("%s is a file", JoinPath(segments)))
	}

	children := make([]string, 0, len(n.children))
	for name, child := range n.children {
		if child.isDir() {
			name += "/"
		}
		children = append(children, name)
	}
	sort.Strings(children)
	return children, nil
}

// RemoveFile removes the file at path. A missing file (or missing parent) is not an error.
func (t *Tree) RemoveFile(path string) error {
	segments, err := SplitPath(path)
	if err != nil {
		return err
	}
	if len(segments) == 0 {
		return tree.NewError(tree.RetCTypeError, "/ is a directory")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	parent, err := t.lookup(segments[:len(segments)-1])
	if tree.CodeOf(err) == tree.RetCLookupError {
		return nil
	} else if err != nil {
		return err
	}
	if !parent.isDir() {
		return tree.NewError(tree.RetCTypeError, fmt.Sprintf("%s is a file", JoinPath(segments[:len(segments)-1])))
	}

	name := segments[len(segments)-1]
	existing, ok := parent.children[name]
	if !ok {
		return nil
	}
	if existing.isDir() {
		return tree.NewError(tree.RetCTypeError, fmt.Sprintf("%s is a directory", JoinPath(segments)))
	}
	delete(parent.children, name)
	t.files--
	return nil
}

// Info describes the size of the tree.
type Info struct {
	Files       int `json:"files"`
	Directories int `json:"directories"`
}

// GetInfo returns the number of files and directories (including the root).
func (t *Tree) GetInfo() Info {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Info{Files: t.files, Directories: t.dirs}
}
