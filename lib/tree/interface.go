package tree

import (
	"context"
	"errors"
	"fmt"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// ITree is the generic interface for interacting with a hierarchical key–value store.
// Paths are slash separated and always interpreted relative to the root directory.
// All operations take a context, its deadline bounds the duration of the call.
// Write operations return only an error (nil on success),
// while read operations return the requested data along with an error (nil on success).
type ITree interface {
	// Read returns the contents of the file at path.
	// It fails with RetCLookupError if the file does not exist and with RetCTypeError if path is a directory.
	Read(ctx context.Context, path string) (contents string, err error)
	// Write sets the contents of the file at path, creating the file if needed.
	// The parent directory must exist, otherwise RetCLookupError is returned.
	Write(ctx context.Context, path string, contents string) (err error)
	// MakeDirectory makes sure a directory exists at path, creating parent directories as needed.
	// An existing directory is not an error.
	MakeDirectory(ctx context.Context, path string) (err error)
	// ListDirectory returns the sorted names of the children of the directory at path.
	// Names of child directories carry a trailing slash.
	ListDirectory(ctx context.Context, path string) (children []string, err error)
	// RemoveFile removes the file at path. Removing a file that does not exist is not an error.
	RemoveFile(ctx context.Context, path string) (err error)
	// Close releases the resources held by this handle.
	Close() (err error)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("TreeError (code %s): %s", e.Code, e.Msg)
}

// NewError creates a new tree Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// CodeOf returns the return code carried by err.
// A nil error maps to RetCSuccess, errors that are not a *Error to RetCInternalError.
func CodeOf(err error) RetCode {
	if err == nil {
		return RetCSuccess
	}
	var treeErr *Error
	if errors.As(err, &treeErr) {
		return treeErr.Code
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return RetCTimeout
	}
	return RetCInternalError
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess              RetCode = iota // 0: Command executed successfully.
	RetCInternalError                       // 1: Command failed due to an internal error.
	RetCUnsupportedOperation                // 2: Operation is not supported by the tree.
	RetCInvalidOperation                    // 3: Invalid operation.
	RetCInvalidArgument                     // 4: The path is malformed.
	RetCLookupError                         // 5: A node or one of its parents does not exist.
	RetCTypeError                           // 6: A file was found where a directory was expected or vice versa.
	RetCTimeout                             // 7: The operation did not complete before its deadline.
	RetCAlreadyExists                       // 8: The node already exists.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCUnsupportedOperation:
		return "UnsupportedOperation"
	case RetCInvalidOperation:
		return "InvalidOperation"
	case RetCInvalidArgument:
		return "InvalidArgument"
	case RetCLookupError:
		return "LookupError"
	case RetCTypeError:
		return "TypeError"
	case RetCTimeout:
		return "Timeout"
	case RetCAlreadyExists:
		return "AlreadyExists"
	default:
		return "Unknown"
	}
}
