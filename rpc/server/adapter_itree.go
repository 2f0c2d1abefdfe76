package server

import (
	"context"
	"fmt"

	"github.com/ValentinKolb/dTree/lib/tree"
	"github.com/ValentinKolb/dTree/rpc/common"
)

// NewITreeServerAdapter creates the adapter translating RPC messages to tree.ITree calls
func NewITreeServerAdapter() IRPCServerAdapter {
	return &iTreeServerAdapterImpl{}
}

type iTreeServerAdapterImpl struct{}

func (adapter *iTreeServerAdapterImpl) Handle(ctx context.Context, req *common.Message, t tree.ITree) *common.Message {
	// Check for nil tree
	if t == nil {
		return common.NewErrorResponse("handler: tree is nil")
	}

	// Handle different message types
	switch req.MsgType {
	case common.MsgTTreeRead:
		contents, err := t.Read(ctx, req.Path)
		return common.NewReadResponse(contents, err)
	case common.MsgTTreeWrite:
		err := t.Write(ctx, req.Path, req.Value)
		return common.NewWriteResponse(err)
	case common.MsgTTreeMkdir:
		err := t.MakeDirectory(ctx, req.Path)
		return common.NewMkdirResponse(err)
	case common.MsgTTreeList:
		children, err := t.ListDirectory(ctx, req.Path)
		return common.NewListResponse(children, err)
	case common.MsgTTreeRemove:
		err := t.RemoveFile(ctx, req.Path)
		return common.NewRemoveResponse(err)
	default:
		return &common.Message{
			MsgType: common.MsgTError,
			Code:    uint64(tree.RetCUnsupportedOperation),
			Err:     fmt.Sprintf("unsupported message type: %s", req.MsgType),
		}
	}
}
