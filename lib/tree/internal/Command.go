package internal

import (
	"encoding/binary"
	"fmt"

	"github.com/ValentinKolb/dTree/lib/tree"
)

// CommandType defines the possible mutations of the tree state machine.
type CommandType uint8

const (
	CommandTMakeDirectory CommandType = iota // Make sure a directory exists.
	CommandTWrite                            // Create or overwrite a file.
	CommandTRemoveFile                       // Remove a file.
)

func (ct CommandType) String() string {
	switch ct {
	case CommandTMakeDirectory:
		return "MakeDirectory"
	case CommandTWrite:
		return "Write"
	case CommandTRemoveFile:
		return "RemoveFile"
	default:
		return fmt.Sprintf("Unknown(%d)", ct)
	}
}

// commandHeaderSize is Type (1 byte) + path length (4 bytes)
const commandHeaderSize = 1 + 4

// Command represents a mutation to be executed by the state machine (a single entry in the raft log)
type Command struct {
	Type     CommandType
	Path     string
	Contents string
}

// SizeBytes returns the exact number of bytes needed to serialize this command
func (command *Command) SizeBytes() int {
	return commandHeaderSize + len(command.Path) + len(command.Contents)
}

// Serialize serializes a command into a byte array with the format:
// 1 byte for operation type,
// 4 bytes for path length (big endian),
// N bytes for path data,
// M bytes for file contents (only used by Write)
func (command *Command) Serialize() []byte {
	result := make([]byte, command.SizeBytes())

	result[0] = byte(command.Type)
	binary.BigEndian.PutUint32(result[1:5], uint32(len(command.Path)))
	n := copy(result[commandHeaderSize:], command.Path)
	copy(result[commandHeaderSize+n:], command.Contents)

	return result
}

// Deserialize extracts all Command fields from a byte array.
func (command *Command) Deserialize(data []byte) error {
	if len(data) < commandHeaderSize {
		return fmt.Errorf("data too short for command")
	}

	command.Type = CommandType(data[0])
	pathLen := int(binary.BigEndian.Uint32(data[1:5]))

	if len(data) < commandHeaderSize+pathLen {
		return fmt.Errorf("data too short for path of length %d", pathLen)
	}

	command.Path = string(data[commandHeaderSize : commandHeaderSize+pathLen])
	command.Contents = string(data[commandHeaderSize+pathLen:])
	return nil
}

// Apply executes the command on t.
func (command *Command) Apply(t *Tree) error {
	switch command.Type {
	case CommandTMakeDirectory:
		return t.MakeDirectory(command.Path)
	case CommandTWrite:
		return t.Write(command.Path, command.Contents)
	case CommandTRemoveFile:
		return t.RemoveFile(command.Path)
	default:
		return tree.NewError(tree.RetCInvalidOperation, fmt.Sprintf("unknown Command operation: %s", command.Type))
	}
}
