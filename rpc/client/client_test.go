package client

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ValentinKolb/dTree/lib/tree"
	"github.com/ValentinKolb/dTree/rpc/common"
	"github.com/ValentinKolb/dTree/rpc/serializer"
)

// stubTransport answers every request with a fixed response or error
type stubTransport struct {
	resp       *common.Message
	err        error
	connectErr error
	closed     bool
	lastShard  uint64
}

func (s *stubTransport) Connect(common.ClientConfig) error {
	return s.connectErr
}

func (s *stubTransport) Send(_ context.Context, shardId uint64, _ []byte) ([]byte, error) {
	s.lastShard = shardId
	if s.err != nil {
		return nil, s.err
	}
	return serializer.NewJSONSerializer().Serialize(*s.resp)
}

func (s *stubTransport) Close() error {
	s.closed = true
	return nil
}

func newStubTree(t *testing.T, stub *stubTransport) tree.ITree {
	t.Helper()
	tr, err := NewRPCTree(7, common.ClientConfig{}, stub, serializer.NewJSONSerializer())
	if err != nil {
		t.Fatalf("NewRPCTree failed: %v", err)
	}
	return tr
}

func TestConnectError(t *testing.T) {
	stub := &stubTransport{connectErr: errors.New("no endpoints")}
	if _, err := NewRPCTree(1, common.ClientConfig{}, stub, serializer.NewJSONSerializer()); err == nil {
		t.Fatal("Expected connect error")
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		stub     *stubTransport
		wantCode tree.RetCode
	}{
		{
			name:     "deadline exceeded",
			stub:     &stubTransport{err: fmt.Errorf("request aborted: %w", context.DeadlineExceeded)},
			wantCode: tree.RetCTimeout,
		},
		{
			name:     "connection failure",
			stub:     &stubTransport{err: errors.New("connection refused")},
			wantCode: tree.RetCInternalError,
		},
		{
			name:     "remote lookup error",
			stub:     &stubTransport{resp: common.NewReadResponse("", tree.NewError(tree.RetCLookupError, "no such file"))},
			wantCode: tree.RetCLookupError,
		},
		{
			name:     "error response",
			stub:     &stubTransport{resp: common.NewErrorResponse("boom")},
			wantCode: tree.RetCInternalError,
		},
		{
			name:     "unexpected message type",
			stub:     &stubTransport{resp: common.NewWriteResponse(nil)},
			wantCode: tree.RetCInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newStubTree(t, tt.stub)
			_, err := tr.Read(context.Background(), "a/b")
			if got := tree.CodeOf(err); got != tt.wantCode {
				t.Errorf("Expected code %s, got %s (err=%v)", tt.wantCode, got, err)
			}
		})
	}
}

func TestReadAndList(t *testing.T) {
	ctx := context.Background()

	stub := &stubTransport{resp: common.NewReadResponse("{'a': '1'}", nil)}
	tr := newStubTree(t, stub)
	got, err := tr.Read(ctx, "t/k")
	if err != nil || got != "{'a': '1'}" {
		t.Errorf("Read = %q, %v", got, err)
	}
	if stub.lastShard != 7 {
		t.Errorf("Expected request for shard 7, got %d", stub.lastShard)
	}

	// An empty directory lists as an empty, non nil slice
	stub.resp = common.NewListResponse(nil, nil)
	children, err := tr.ListDirectory(ctx, "t")
	if err != nil || children == nil || len(children) != 0 {
		t.Errorf("ListDirectory = %v, %v", children, err)
	}

	if err := tr.Close(); err != nil || !stub.closed {
		t.Errorf("Close did not close the transport (err=%v)", err)
	}
}
