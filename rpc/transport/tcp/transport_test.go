package tcp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/ValentinKolb/dTree/rpc/common"
	"github.com/ValentinKolb/dTree/rpc/transport"
)

// freeEndpoint returns a localhost address that was free a moment ago
func freeEndpoint(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	addr := l.Addr().String()
	_ = l.Close()
	return addr
}

// startServer runs a server transport with handler and returns a connected client
func startServer(t *testing.T, handler transport.ServerHandleFunc) transport.IRPCClientTransport {
	t.Helper()
	endpoint := freeEndpoint(t)

	server := NewTCPServerTransport()
	server.RegisterHandler(handler)
	go func() {
		_ = server.Listen(common.ServerConfig{
			TimeoutSecond: 5,
			Transport: common.ServerTransportConfig{
				Endpoint:       endpoint,
				WorkersPerConn: 4,
				TCPConf:        common.TCPConf{TCPNoDelay: true, TCPLingerSec: -1},
			},
		})
	}()
	t.Cleanup(func() { _ = server.Close() })

	client := NewTCPClientTransport()
	config := common.ClientConfig{
		TimeoutSecond: 5,
		Transport: common.ClientTransportConfig{
			Endpoints:              []string{endpoint},
			RetryCount:             1,
			ConnectionsPerEndpoint: 2,
			TCPConf:                common.TCPConf{TCPNoDelay: true, TCPLingerSec: -1},
		},
	}

	var err error
	for i := 0; i < 50; i++ {
		if err = client.Connect(config); err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("client could not connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSendReceive(t *testing.T) {
	client := startServer(t, func(shardId uint64, req []byte) []byte {
		return append([]byte(fmt.Sprintf("%d:", shardId)), req...)
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := []byte(fmt.Sprintf("request-%d", i))
			resp, err := client.Send(context.Background(), uint64(i), req)
			if err != nil {
				t.Errorf("Send failed: %v", err)
				return
			}
			if want := append([]byte(fmt.Sprintf("%d:", i)), req...); !bytes.Equal(resp, want) {
				t.Errorf("got %q, want %q", resp, want)
			}
		}(i)
	}
	wg.Wait()
}

func TestSendHonoursContextDeadline(t *testing.T) {
	release := make(chan struct{})
	client := startServer(t, func(_ uint64, req []byte) []byte {
		<-release
		return req
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Send(ctx, 1, []byte("slow"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestConnectWithoutEndpoints(t *testing.T) {
	if err := NewTCPClientTransport().Connect(common.ClientConfig{}); err == nil {
		t.Errorf("expected error without endpoints")
	}
}
