package base

import (
	"bytes"
	"net"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	payloads := [][]byte{[]byte("hello"), {}, bytes.Repeat([]byte{7}, 4096)}

	go func() {
		for i, p := range payloads {
			if err := writeFrame(client, uint64(i+1), uint64(100+i), p); err != nil {
				t.Errorf("writeFrame failed: %v", err)
				return
			}
		}
	}()

	buf := make([]byte, 64)
	for i, p := range payloads {
		shardID, requestID, data, err := readFrame(server, buf)
		if err != nil {
			t.Fatalf("readFrame failed: %v", err)
		}
		if shardID != uint64(i+1) || requestID != uint64(100+i) {
			t.Errorf("frame %d: got shard %d request %d", i, shardID, requestID)
		}
		if !bytes.Equal(data, p) {
			t.Errorf("frame %d: payload mismatch (len %d, want %d)", i, len(data), len(p))
		}
	}
}
