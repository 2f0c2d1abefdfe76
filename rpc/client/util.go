package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/ValentinKolb/dTree/lib/tree"
	"github.com/ValentinKolb/dTree/rpc/common"
	"github.com/ValentinKolb/dTree/rpc/serializer"
	"github.com/ValentinKolb/dTree/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var (
	Logger = logger.GetLogger("rpc")
)

// rpcClientAdapter is a struct that stores all data needed for an implementation of an RPC client
// Used by the rpcTree with composition pattern
type rpcClientAdapter struct {
	shardId    uint64
	config     common.ClientConfig
	transport  transport.IRPCClientTransport
	serializer serializer.IRPCSerializer
}

// invoke is the helper used by all RPC client methods to send requests
// It serializes the request, sends it to the shard and deserializes the response.
// Error responses are turned back into *tree.Error values so the return code survives the round trip.
// Transport failures are reported as RetCTimeout if the deadline was hit and as RetCInternalError otherwise.
func (a *rpcClientAdapter) invoke(ctx context.Context, req *common.Message) (*common.Message, error) {
	// Serialize the request
	reqBytes, err := a.serializer.Serialize(*req)
	if err != nil {
		return nil, tree.NewError(tree.RetCInternalError, fmt.Sprintf("failed to serialize request: %s", err))
	}

	// Send the request
	respBytes, err := a.transport.Send(ctx, a.shardId, reqBytes)
	if err != nil {
		Logger.Debugf("%s %s failed: %v", req.MsgType, req.Path, err)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, tree.NewError(tree.RetCTimeout, err.Error())
		}
		return nil, tree.NewError(tree.RetCInternalError, err.Error())
	}

	// Deserialize the response
	resp := &common.Message{}
	err = a.serializer.Deserialize(respBytes, resp)
	if err != nil {
		return nil, tree.NewError(tree.RetCInternalError, fmt.Sprintf("failed to deserialize response: %s", err))
	}

	// Check if the response is an error response
	if resp.MsgType == common.MsgTError || resp.Err != "" || resp.Code != uint64(tree.RetCSuccess) {
		return nil, resp.ToError()
	}

	// Check if the type of the response is the expected type
	if resp.MsgType != req.MsgType {
		return nil, tree.NewError(tree.RetCInternalError,
			fmt.Sprintf("unexpected message type: %s, expected %s", resp.MsgType, req.MsgType))
	}

	return resp, nil
}
