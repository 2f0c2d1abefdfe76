package common

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ValentinKolb/dTree/lib/tree"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single message used for both requests and responses.
// Which fields are used depends on the type of message.
type Message struct {
	// Type of message
	MsgType MessageType `json:"msg_type"`

	// General fields
	Path     string   `json:"path,omitempty"`     // Used for: Read, Write, Mkdir, List, Remove
	Value    string   `json:"value,omitempty"`    // Used for: Write (request), Read (response)
	Children []string `json:"children,omitempty"` // Used for: List (response)

	// Response only fields
	Code uint64 `json:"code,omitempty"` // tree.RetCode of a failed operation, 0 on success
	Err  string `json:"err,omitempty"`  // Empty if no error, otherwise contains the error message
}

// ToError rebuilds the error carried by a response. Tree error codes survive the round trip.
func (m *Message) ToError() error {
	if m.Err == "" && m.Code == uint64(tree.RetCSuccess) {
		return nil
	}
	code := tree.RetCode(m.Code)
	if code == tree.RetCSuccess {
		code = tree.RetCInternalError
	}
	return tree.NewError(code, m.Err)
}

// setErr stores err and its tree code on the message.
func (m *Message) setErr(err error) *Message {
	if err == nil {
		return m
	}
	var te *tree.Error
	if errors.As(err, &te) {
		m.Err = te.Msg
	} else {
		m.Err = err.Error()
	}
	m.Code = uint64(tree.CodeOf(err))
	return m
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewReadRequest creates a new Read request
func NewReadRequest(path string) *Message {
	return &Message{
		MsgType: MsgTTreeRead,
		Path:    path,
	}
}

// NewReadResponse creates a new Read response
func NewReadResponse(contents string, err error) *Message {
	msg := &Message{
		MsgType: MsgTTreeRead,
		Value:   contents,
	}
	return msg.setErr(err)
}

// NewWriteRequest creates a new Write request
func NewWriteRequest(path, contents string) *Message {
	return &Message{
		MsgType: MsgTTreeWrite,
		Path:    path,
		Value:   contents,
	}
}

// NewWriteResponse creates a new Write response
func NewWriteResponse(err error) *Message {
	msg := &Message{
		MsgType: MsgTTreeWrite,
	}
	return msg.setErr(err)
}

// NewMkdirRequest creates a new MakeDirectory request
func NewMkdirRequest(path string) *Message {
	return &Message{
		MsgType: MsgTTreeMkdir,
		Path:    path,
	}
}

// NewMkdirResponse creates a new MakeDirectory response
func NewMkdirResponse(err error) *Message {
	msg := &Message{
		MsgType: MsgTTreeMkdir,
	}
	return msg.setErr(err)
}

// NewListRequest creates a new ListDirectory request
func NewListRequest(path string) *Message {
	return &Message{
		MsgType: MsgTTreeList,
		Path:    path,
	}
}

// NewListResponse creates a new ListDirectory response
func NewListResponse(children []string, err error) *Message {
	msg := &Message{
		MsgType:  MsgTTreeList,
		Children: children,
	}
	return msg.setErr(err)
}

// NewRemoveRequest creates a new RemoveFile request
func NewRemoveRequest(path string) *Message {
	return &Message{
		MsgType: MsgTTreeRemove,
		Path:    path,
	}
}

// NewRemoveResponse creates a new RemoveFile response
func NewRemoveResponse(err error) *Message {
	msg := &Message{
		MsgType: MsgTTreeRemove,
	}
	return msg.setErr(err)
}

// NewErrorResponse creates a new Error response
func NewErrorResponse(err string) *Message {
	return &Message{
		MsgType: MsgTError,
		Code:    uint64(tree.RetCInternalError),
		Err:     err,
	}
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the type of message used in RPC communication.
type MessageType uint8

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	switch t {
	case MsgTTreeRead:
		return "read"
	case MsgTTreeWrite:
		return "write"
	case MsgTTreeMkdir:
		return "mkdir"
	case MsgTTreeList:
		return "list"
	case MsgTTreeRemove:
		return "remove"
	case MsgTError:
		return "error"
	case MsgTSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	switch s {
	case "read":
		*t = MsgTTreeRead
	case "write":
		*t = MsgTTreeWrite
	case "mkdir":
		*t = MsgTTreeMkdir
	case "list":
		*t = MsgTTreeList
	case "remove":
		*t = MsgTTreeRemove
	case "error":
		*t = MsgTError
	case "success":
		*t = MsgTSuccess
	default:
		return fmt.Errorf("unknown message type: %s", s)
	}

	return nil
}

// --------------------------------------------------------------------------
// Message Type Constants
// --------------------------------------------------------------------------

const (
	// General message types

	MsgTUnknown MessageType = iota
	MsgTSuccess             // Indicates a successful operation
	MsgTError               // Indicates an error occurred

	// ITree operations

	MsgTTreeRead   // Read a file
	MsgTTreeWrite  // Write a file
	MsgTTreeMkdir  // Create a directory and its parents
	MsgTTreeList   // List a directory
	MsgTTreeRemove // Remove a file
)
