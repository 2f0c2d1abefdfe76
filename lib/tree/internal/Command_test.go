package internal

import (
	"encoding/binary"
	"testing"

	"github.com/ValentinKolb/dTree/lib/tree"
)

// TestSizeBytes tests the SizeBytes method
func TestSizeBytes(t *testing.T) {
	tests := []struct {
		name     string
		command  Command
		expected int
	}{
		{
			name:     "Write with path and contents",
			command:  Command{Type: CommandTWrite, Path: "table/key", Contents: "{'a': '1'}"},
			expected: 1 + 4 + 9 + 10, // Type + PathLen + Path + Contents
		},
		{
			name:     "MakeDirectory without contents",
			command:  Command{Type: CommandTMakeDirectory, Path: "table"},
			expected: 1 + 4 + 5,
		},
		{
			name:     "Empty command",
			command:  Command{Type: CommandTRemoveFile},
			expected: 1 + 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if size := tt.command.SizeBytes(); size != tt.expected {
				t.Errorf("SizeBytes() = %v, want %v", size, tt.expected)
			}
		})
	}
}

// TestSerializeDeserialize tests both Serialize and Deserialize methods
func TestSerializeDeserialize(t *testing.T) {
	tests := []struct {
		name    string
		command Command
	}{
		{name: "Write", command: Command{Type: CommandTWrite, Path: "usertable/user1", Contents: "{'field0': 'value'}"}},
		{name: "Write with empty contents", command: Command{Type: CommandTWrite, Path: "usertable/user1"}},
		{name: "MakeDirectory", command: Command{Type: CommandTMakeDirectory, Path: "/a/b/c"}},
		{name: "RemoveFile", command: Command{Type: CommandTRemoveFile, Path: "a/b"}},
		{name: "Root path", command: Command{Type: CommandTMakeDirectory, Path: ""}},
		{name: "Binary contents", command: Command{Type: CommandTWrite, Path: "bin", Contents: string([]byte{0, 1, 2, 254, 255})}},
		{name: "Unicode path", command: Command{Type: CommandTWrite, Path: "你好/世界", Contents: "unicode test"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.command.Serialize()

			var newCommand Command
			if err := newCommand.Deserialize(data); err != nil {
				t.Fatalf("Deserialize() error = %v", err)
			}

			if newCommand != tt.command {
				t.Errorf("Command mismatch: got %+v, want %+v", newCommand, tt.command)
			}

			if tt.command.SizeBytes() != len(data) {
				t.Errorf("SizeBytes() = %d, but serialized data length = %d", tt.command.SizeBytes(), len(data))
			}
		})
	}
}

// TestDeserializeErrors tests error cases in Deserialize
func TestDeserializeErrors(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		expectedErr string
	}{
		{
			name:        "Empty data",
			data:        []byte{},
			expectedErr: "data too short for command",
		},
		{
			name:        "Data too short (less than header)",
			data:        []byte{1, 2, 3},
			expectedErr: "data too short for command",
		},
		{
			name: "Invalid path length",
			data: func() []byte {
				data := make([]byte, commandHeaderSize)
				data[0] = byte(CommandTWrite)
				binary.BigEndian.PutUint32(data[1:5], 1000)
				return data
			}(),
			expectedErr: "data too short for path of length 1000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cmd Command
			err := cmd.Deserialize(tt.data)
			if err == nil {
				t.Fatalf("Expected error but got nil")
			}
			if err.Error() != tt.expectedErr {
				t.Errorf("Expected error %q, got %q", tt.expectedErr, err.Error())
			}
		})
	}
}

// TestApply tests that commands and queries are executed against the tree
func TestApply(t *testing.T) {
	tr := NewTree()

	cmds := []Command{
		{Type: CommandTMakeDirectory, Path: "usertable"},
		{Type: CommandTWrite, Path: "usertable/user1", Contents: "v1"},
		{Type: CommandTWrite, Path: "usertable/user2", Contents: "v2"},
		{Type: CommandTRemoveFile, Path: "usertable/user2"},
	}
	for _, cmd := range cmds {
		// Apply the decoded form, as the state machine does
		var decoded Command
		if err := decoded.Deserialize(cmd.Serialize()); err != nil {
			t.Fatalf("Deserialize() error = %v", err)
		}
		if err := decoded.Apply(tr); err != nil {
			t.Fatalf("Apply(%s) error = %v", cmd.Type, err)
		}
	}

	res, err := Query{Type: QueryTRead, Path: "usertable/user1"}.Execute(tr)
	if err != nil || res.Contents != "v1" {
		t.Errorf("Read = %q, %v; want %q, nil", res.Contents, err, "v1")
	}

	res, err = Query{Type: QueryTList, Path: "usertable"}.Execute(tr)
	if err != nil || len(res.Children) != 1 || res.Children[0] != "user1" {
		t.Errorf("List = %v, %v; want [user1], nil", res.Children, err)
	}

	res, _ = Query{Type: QueryTGetInfo}.Execute(tr)
	if res.Info.Files != 1 || res.Info.Directories != 2 {
		t.Errorf("GetInfo = %+v, want 1 file and 2 directories", res.Info)
	}

	unknown := Command{Type: CommandType(42), Path: "x"}
	if code := tree.CodeOf(unknown.Apply(tr)); code != tree.RetCInvalidOperation {
		t.Errorf("Apply(unknown) code = %s, want %s", code, tree.RetCInvalidOperation)
	}
	if _, err := (Query{Type: QueryType(42)}).Execute(tr); tree.CodeOf(err) != tree.RetCInvalidOperation {
		t.Errorf("Execute(unknown) error = %v, want InvalidOperation", err)
	}
}
