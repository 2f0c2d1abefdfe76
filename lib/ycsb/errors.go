package ycsb

import (
	"context"
	"errors"
	"fmt"

	"github.com/ValentinKolb/dTree/lib/tree"
)

// ErrorKind classifies the errors returned by DB.
type ErrorKind uint8

const (
	KindUnsupportedOperation ErrorKind = iota + 1
	KindNotImplemented
	KindFormat
	KindRemoteRead
	KindRemoteWrite
	KindRemoteDirectory
	KindTimeout
	KindInitialization
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnsupportedOperation:
		return "UnsupportedOperation"
	case KindNotImplemented:
		return "NotImplemented"
	case KindFormat:
		return "FormatError"
	case KindRemoteRead:
		return "RemoteReadError"
	case KindRemoteWrite:
		return "RemoteWriteError"
	case KindRemoteDirectory:
		return "RemoteDirectoryError"
	case KindTimeout:
		return "TimeoutError"
	case KindInitialization:
		return "InitializationError"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

// Error is the error type returned by every DB operation.
// Use errors.Is with the Err* sentinels to test the kind and errors.As to reach the cause.
type Error struct {
	Kind ErrorKind
	Op   string // read, insert, update, delete, scan or init
	Err  error  // underlying cause, may be nil
}

// Sentinels for errors.Is. They only carry a kind.
var (
	ErrUnsupportedOperation = &Error{Kind: KindUnsupportedOperation}
	ErrNotImplemented       = &Error{Kind: KindNotImplemented}
	ErrFormat               = &Error{Kind: KindFormat}
	ErrRemoteRead           = &Error{Kind: KindRemoteRead}
	ErrRemoteWrite          = &Error{Kind: KindRemoteWrite}
	ErrRemoteDirectory      = &Error{Kind: KindRemoteDirectory}
	ErrTimeout              = &Error{Kind: KindTimeout}
	ErrInitialization       = &Error{Kind: KindInitialization}
)

func (e *Error) Error() string {
	switch {
	case e.Op == "" && e.Err == nil:
		return e.Kind.String()
	case e.Err == nil:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	default:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func newError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// remoteError wraps a tree error with kind, turning expired deadlines into timeouts.
func remoteError(kind ErrorKind, op string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || tree.CodeOf(err) == tree.RetCTimeout {
		kind = KindTimeout
	}
	return newError(kind, op, err)
}
