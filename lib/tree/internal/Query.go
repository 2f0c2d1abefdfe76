package internal

import (
	"fmt"

	"github.com/ValentinKolb/dTree/lib/tree"
)

// QueryType defines the possible queries for the state machine.
type QueryType uint8

const (
	QueryTRead    QueryType = iota // Read the contents of a file.
	QueryTList                     // List the children of a directory.
	QueryTGetInfo                  // Retrieve the size of the tree.
)

func (q QueryType) String() string {
	switch q {
	case QueryTRead:
		return "Read"
	case QueryTList:
		return "List"
	case QueryTGetInfo:
		return "GetInfo"
	default:
		return "Unknown"
	}
}

// Query defines the structure for lookup requests (read-only) sent via SyncRead or StaleRead
type Query struct {
	Type QueryType // The type of Query to perform.
	Path string    // The path for the Query (empty for GetInfo).
}

// QueryResult is the result of a Query.
// Contents is set for QueryTRead, Children for QueryTList, Info for QueryTGetInfo.
type QueryResult struct {
	Contents string
	Children []string
	Info     Info
}

// Execute runs the query against t.
func (q Query) Execute(t *Tree) (QueryResult, error) {
	switch q.Type {
	case QueryTRead:
		contents, err := t.Read(q.Path)
		return QueryResult{Contents: contents}, err
	case QueryTList:
		children, err := t.List(q.Path)
		return QueryResult{Children: children}, err
	case QueryTGetInfo:
		return QueryResult{Info: t.GetInfo()}, nil
	default:
		return QueryResult{}, tree.NewError(tree.RetCInvalidOperation, fmt.Sprintf("unknown Query operation: %d", q.Type))
	}
}
