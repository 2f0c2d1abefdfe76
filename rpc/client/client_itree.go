package client

import (
	"context"

	"github.com/ValentinKolb/dTree/lib/tree"
	"github.com/ValentinKolb/dTree/rpc/common"
	"github.com/ValentinKolb/dTree/rpc/serializer"
	"github.com/ValentinKolb/dTree/rpc/transport"
)

// NewRPCTree creates a new RPC tree
// The function takes a shard ID, a client config, a transport and a serializer as parameters
// It connects the transport and returns a tree.ITree that forwards every call to the server.
// Closing the returned tree closes the transport.
func NewRPCTree(
	shardId uint64,
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (tree.ITree, error) {

	// Connect the transport
	err := transport.Connect(config)
	if err != nil {
		return nil, err
	}

	// Create a new RPC tree
	t := rpcTree{
		rpcClientAdapter{
			shardId:    shardId,
			config:     config,
			transport:  transport,
			serializer: serializer,
		},
	}

	return &t, nil
}

type rpcTree struct {
	rpcClientAdapter
}

// --------------------------------------------------------------------------
// Interface Methods (docu see the tree package in interface.go)
// --------------------------------------------------------------------------

func (i *rpcTree) Read(ctx context.Context, path string) (string, error) {
	resp, err := i.invoke(ctx, common.NewReadRequest(path))
	if err != nil {
		return "", err
	}
	return resp.Value, nil
}

func (i *rpcTree) Write(ctx context.Context, path string, contents string) error {
	_, err := i.invoke(ctx, common.NewWriteRequest(path, contents))
	return err
}

func (i *rpcTree) MakeDirectory(ctx context.Context, path string) error {
	_, err := i.invoke(ctx, common.NewMkdirRequest(path))
	return err
}

func (i *rpcTree) ListDirectory(ctx context.Context, path string) ([]string, error) {
	resp, err := i.invoke(ctx, common.NewListRequest(path))
	if err != nil {
		return nil, err
	}
	// serializers drop empty slices, an empty directory still lists as empty
	if resp.Children == nil {
		return []string{}, nil
	}
	return resp.Children, nil
}

func (i *rpcTree) RemoveFile(ctx context.Context, path string) error {
	_, err := i.invoke(ctx, common.NewRemoveRequest(path))
	return err
}

func (i *rpcTree) Close() error {
	return i.transport.Close()
}
