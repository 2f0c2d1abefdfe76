package serializer

import (
	"reflect"
	"testing"

	"github.com/ValentinKolb/dTree/rpc/common"
)

// testSerializers is a map of serializer name to factory function
var testSerializers = map[string]func() IRPCSerializer{
	"JSON":   NewJSONSerializer,
	"GOB":    NewGOBSerializer,
	"Binary": NewBinarySerializer,
}

// testMessages creates a set of test messages with different fields filled.
// Empty but non-nil slices are left out since json and gob decode them as nil.
func testMessages() []common.Message {
	return []common.Message{
		// Basic message with just a type
		{MsgType: common.MsgTSuccess},

		// Write request
		{
			MsgType: common.MsgTTreeWrite,
			Path:    "usertable/user1",
			Value:   "{'field0': 'value'}",
		},

		// Read response
		{
			MsgType: common.MsgTTreeRead,
			Value:   "{'field0': 'value'}",
		},

		// List response
		{
			MsgType:  common.MsgTTreeList,
			Children: []string{"a", "b", "sub/"},
		},

		// Error response
		{
			MsgType: common.MsgTTreeRead,
			Code:    5,
			Err:     "test error message",
		},

		// Message with all fields filled
		{
			MsgType:  common.MsgTTreeList,
			Path:     "/",
			Value:    "unused",
			Children: []string{"日本", ""},
			Code:     1,
			Err:      "x",
		},
	}
}

// TestSerializerRoundTrip tests that messages can be serialized and deserialized correctly
func TestSerializerRoundTrip(t *testing.T) {
	messages := testMessages()

	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for i, msg := range messages {
				data, err := serializer.Serialize(msg)
				if err != nil {
					t.Errorf("Failed to serialize message %d: %v", i, err)
					continue
				}

				var result common.Message
				err = serializer.Deserialize(data, &result)
				if err != nil {
					t.Errorf("Failed to deserialize message %d: %v", i, err)
					continue
				}

				if !reflect.DeepEqual(msg, result) {
					t.Errorf("Message %d doesn't match after round trip:\nOriginal: %+v\nResult: %+v",
						i, msg, result)
				}
			}
		})
	}
}

// TestMessageTypes tests each message type with each serializer
func TestMessageTypes(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			// MsgTUnknown is skipped since json refuses to decode it
			for msgType := common.MsgTSuccess; msgType <= common.MsgTTreeRemove; msgType++ {
				msg := common.Message{MsgType: msgType}

				data, err := serializer.Serialize(msg)
				if err != nil {
					t.Errorf("Failed to serialize message type %s: %v", msgType.String(), err)
					continue
				}

				var result common.Message
				err = serializer.Deserialize(data, &result)
				if err != nil {
					t.Errorf("Failed to deserialize message type %s: %v", msgType.String(), err)
					continue
				}

				if result.MsgType != msgType {
					t.Errorf("Message type doesn't match after round trip: Expected %s, got %s",
						msgType.String(), result.MsgType.String())
				}
			}
		})
	}
}

// TestBinaryEmptyChildren checks that the binary format keeps an empty directory listing non-nil
func TestBinaryEmptyChildren(t *testing.T) {
	serializer := NewBinarySerializer()

	data, err := serializer.Serialize(common.Message{MsgType: common.MsgTTreeList, Children: []string{}})
	if err != nil {
		t.Fatalf("Failed to serialize: %v", err)
	}

	var result common.Message
	if err := serializer.Deserialize(data, &result); err != nil {
		t.Fatalf("Failed to deserialize: %v", err)
	}
	if result.Children == nil || len(result.Children) != 0 {
		t.Errorf("expected empty non-nil children, got %#v", result.Children)
	}
}

// TestBinaryReuseClearsFields checks that decoding into a used message resets absent fields
func TestBinaryReuseClearsFields(t *testing.T) {
	serializer := NewBinarySerializer()
	msg := common.Message{MsgType: common.MsgTTreeRead, Path: "p", Value: "v", Children: []string{"c"}, Code: 3, Err: "e"}

	data, _ := serializer.Serialize(common.Message{MsgType: common.MsgTSuccess})
	if err := serializer.Deserialize(data, &msg); err != nil {
		t.Fatalf("Failed to deserialize: %v", err)
	}
	if !reflect.DeepEqual(msg, common.Message{MsgType: common.MsgTSuccess}) {
		t.Errorf("stale fields left after decoding: %+v", msg)
	}
}

// TestInvalidBinaryData tests how the binary serializer handles corrupt or invalid data
func TestInvalidBinaryData(t *testing.T) {
	serializer := NewBinarySerializer()

	testCases := []struct {
		name        string
		data        []byte
		expectError bool
	}{
		{
			name:        "Empty data",
			data:        []byte{},
			expectError: true,
		},
		{
			name:        "Too short header",
			data:        []byte{1}, // Only message type, no flags
			expectError: true,
		},
		{
			name:        "Valid header only",
			data:        []byte{1, 0}, // Message type 1, no flags
			expectError: false,
		},
		{
			name:        "Invalid length for path",
			data:        []byte{1, byte(hasPath), 0, 0, 0, 5, 'a', 'b', 'c'}, // Claims length 5 but only 3 bytes provided
			expectError: true,
		},
		{
			name:        "Invalid length for value",
			data:        []byte{1, byte(hasValue), 0, 0, 0, 10},
			expectError: true,
		},
		{
			name:        "Too many children",
			data:        []byte{1, byte(hasChildren), 0xff, 0xff, 0xff, 0xff},
			expectError: true,
		},
		{
			name:        "Truncated code",
			data:        []byte{1, byte(hasCode), 0, 0, 0},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var msg common.Message
			err := serializer.Deserialize(tc.data, &msg)

			if tc.expectError && err == nil {
				t.Errorf("Expected error but got none")
			} else if !tc.expectError && err != nil {
				t.Errorf("Did not expect error but got: %v", err)
			}
		})
	}
}
