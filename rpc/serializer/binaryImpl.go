package serializer

import (
	"encoding/binary"
	"fmt"

	"github.com/ValentinKolb/dTree/rpc/common"
)

// NewBinarySerializer creates a new serializer using a custom binary format
// optimized for speed and efficiency
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using a custom binary format
type binarySerializerImpl struct {
}

// Bit flags to indicate which optional fields are present
const (
	hasPath     byte = 1 << 0
	hasValue    byte = 1 << 1
	hasChildren byte = 1 << 2
	hasCode     byte = 1 << 3
	hasErr      byte = 1 << 4
)

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	result := make([]byte, b.sizeBytes(msg))

	// Header: message type, flags byte is filled in last
	result[0] = byte(msg.MsgType)
	var flags byte = 0
	pos := 2

	if msg.Path != "" {
		flags |= hasPath
		pos = putString(result, pos, msg.Path)
	}

	if msg.Value != "" {
		flags |= hasValue
		pos = putString(result, pos, msg.Value)
	}

	// Children: 4 byte count followed by length prefixed strings.
	// A non-nil empty list is kept so that an empty directory stays distinguishable.
	if msg.Children != nil {
		flags |= hasChildren
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(msg.Children)))
		pos += 4
		for _, child := range msg.Children {
			pos = putString(result, pos, child)
		}
	}

	if msg.Code != 0 {
		flags |= hasCode
		binary.BigEndian.PutUint64(result[pos:pos+8], msg.Code)
		pos += 8
	}

	if msg.Err != "" {
		flags |= hasErr
		putString(result, pos, msg.Err)
	}

	result[1] = flags
	return result, nil
}

func (b binarySerializerImpl) Deserialize(data []byte, msg *common.Message) error {
	// Check minimum size (MsgType + flags)
	if len(data) < 2 {
		return fmt.Errorf("data too short for message header")
	}

	msg.MsgType = common.MessageType(data[0])
	flags := data[1]
	pos := 2
	var err error

	msg.Path = ""
	if flags&hasPath != 0 {
		if msg.Path, pos, err = readString(data, pos, "path"); err != nil {
			return err
		}
	}

	msg.Value = ""
	if flags&hasValue != 0 {
		if msg.Value, pos, err = readString(data, pos, "value"); err != nil {
			return err
		}
	}

	msg.Children = nil
	if flags&hasChildren != 0 {
		if pos+4 > len(data) {
			return fmt.Errorf("data too short for children count")
		}
		count := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		pos += 4

		// every child needs at least its 4 byte length prefix
		if count > (len(data)-pos)/4 {
			return fmt.Errorf("data too short for %d children", count)
		}
		msg.Children = make([]string, count)
		for i := 0; i < count; i++ {
			if msg.Children[i], pos, err = readString(data, pos, "child"); err != nil {
				return err
			}
		}
	}

	msg.Code = 0
	if flags&hasCode != 0 {
		if pos+8 > len(data) {
			return fmt.Errorf("data too short for code")
		}
		msg.Code = binary.BigEndian.Uint64(data[pos : pos+8])
		pos += 8
	}

	msg.Err = ""
	if flags&hasErr != 0 {
		if msg.Err, _, err = readString(data, pos, "error"); err != nil {
			return err
		}
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// sizeBytes calculates the total size needed for serialization
func (b binarySerializerImpl) sizeBytes(msg common.Message) int {
	// 1 byte for MsgType + 1 byte for flags
	size := 2

	if msg.Path != "" {
		size += 4 + len(msg.Path)
	}
	if msg.Value != "" {
		size += 4 + len(msg.Value)
	}
	if msg.Children != nil {
		size += 4
		for _, child := range msg.Children {
			size += 4 + len(child)
		}
	}
	if msg.Code != 0 {
		size += 8
	}
	if msg.Err != "" {
		size += 4 + len(msg.Err)
	}

	return size
}

// putString writes a 4 byte length followed by s at pos and returns the position after it
func putString(buf []byte, pos int, s string) int {
	binary.BigEndian.PutUint32(buf[pos:pos+4], uint32(len(s)))
	pos += 4
	copy(buf[pos:pos+len(s)], s)
	return pos + len(s)
}

// readString reads a length prefixed string at pos
func readString(data []byte, pos int, field string) (string, int, error) {
	if pos+4 > len(data) {
		return "", pos, fmt.Errorf("data too short for %s length", field)
	}
	n := int(binary.BigEndian.Uint32(data[pos : pos+4]))
	pos += 4
	if n < 0 || pos+n > len(data) {
		return "", pos, fmt.Errorf("data too short for %s data", field)
	}
	return string(data[pos : pos+n]), pos + n, nil
}
