package ycsb

import (
	"context"
	"errors"
	"io"
	"net"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/ValentinKolb/dTree/lib/record"
	"github.com/ValentinKolb/dTree/lib/ycsb"
	"github.com/ValentinKolb/dTree/rpc/common"
	"github.com/ValentinKolb/dTree/rpc/serializer"
	"github.com/ValentinKolb/dTree/rpc/server"
	"github.com/ValentinKolb/dTree/rpc/transport"
	"github.com/ValentinKolb/dTree/rpc/transport/tcp"
)

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

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

func testClientConfig(endpoint string, timeoutSecond int) common.ClientConfig {
	return common.ClientConfig{
		TimeoutSecond: timeoutSecond,
		Transport: common.ClientTransportConfig{
			Endpoints:              []string{endpoint},
			RetryCount:             1,
			ConnectionsPerEndpoint: 1,
			TCPConf:                common.TCPConf{TCPNoDelay: true, TCPLingerSec: -1},
		},
	}
}

// startSilentServer accepts connections and reads every request without ever answering
func startSilentServer(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	var mu sync.Mutex
	var conns []net.Conn
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, conn)
			mu.Unlock()
			go func() { _, _ = io.Copy(io.Discard, conn) }()
		}
	}()

	t.Cleanup(func() {
		_ = l.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	})
	return l.Addr().String()
}

// startTreeServer runs a dTree server with one local shard (id 100) on a tcp endpoint
func startTreeServer(t *testing.T, ser serializer.IRPCSerializer) string {
	t.Helper()
	endpoint := freeEndpoint(t)

	srv := server.NewRPCServer(common.ServerConfig{
		Shards:        []common.ServerShard{{ShardID: 100, Type: common.ShardTypeLocalTree}},
		TimeoutSecond: 5,
		LogLevel:      "error",
		Transport: common.ServerTransportConfig{
			Endpoint:       endpoint,
			WorkersPerConn: 4,
			TCPConf:        common.TCPConf{TCPNoDelay: true, TCPLingerSec: -1},
		},
	}, tcp.NewTCPServerTransport(), ser)

	go func() { _ = srv.Serve() }()
	t.Cleanup(func() { _ = srv.Close() })

	for i := 0; i < 50; i++ {
		if conn, err := net.Dial("tcp", endpoint); err == nil {
			_ = conn.Close()
			return endpoint
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("server on %s did not start", endpoint)
	return ""
}

// newTestDB opens a client over tcp, every pooled connection gets its own transport
func newTestDB(t *testing.T, endpoint string, timeoutSecond int, ser serializer.IRPCSerializer, opts ycsb.Options) (*ycsb.DB, *int) {
	t.Helper()
	var mu sync.Mutex
	transports := 0
	newTransport := func() (transport.IRPCClientTransport, error) {
		mu.Lock()
		defer mu.Unlock()
		transports++
		return tcp.NewTCPClientTransport(), nil
	}

	db, err := ycsb.NewDB(newConnFactory(100, testClientConfig(endpoint, timeoutSecond), ser, newTransport), opts)
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, &transports
}

// --------------------------------------------------------------------------
// Tests
// --------------------------------------------------------------------------

func TestRemoteOperations(t *testing.T) {
	tests := []struct {
		name           string
		pooled         bool
		poolSize       int
		wantTransports int
	}{
		{name: "pooled", pooled: true, poolSize: 3, wantTransports: 3},
		{name: "shared", pooled: false, poolSize: 3, wantTransports: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ser := serializer.NewBinarySerializer()
			endpoint := startTreeServer(t, ser)

			opts := ycsb.DefaultOptions()
			opts.Pooled = tt.pooled
			opts.PoolSize = tt.poolSize
			db, transports := newTestDB(t, endpoint, 5, ser, opts)

			if *transports != tt.wantTransports {
				t.Errorf("Expected %d transports, got %d", tt.wantTransports, *transports)
			}

			ctx := context.Background()
			row := record.Record{{Name: "field0", Value: "a"}, {Name: "field1", Value: "b"}}

			var wg sync.WaitGroup
			errs := make(chan error, 10)
			for i := 0; i < 10; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					errs <- db.Insert(ctx, "usertable", recordKey(i), row)
				}()
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				if err != nil {
					t.Fatalf("Insert failed: %v", err)
				}
			}

			if err := db.Update(ctx, "usertable", recordKey(3), record.Record{{Name: "field1", Value: "c"}}); err != nil {
				t.Fatalf("Update failed: %v", err)
			}

			got, err := db.Read(ctx, "usertable", recordKey(3), nil)
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			want := record.Record{{Name: "field0", Value: "a"}, {Name: "field1", Value: "c"}}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Read = %v, want %v", got, want)
			}

			if _, err := db.Read(ctx, "usertable", "missing", nil); !errors.Is(err, ycsb.ErrRemoteRead) {
				t.Errorf("Expected remote read error for a missing key, got %v", err)
			}

			if err := db.Delete(ctx, "usertable", recordKey(3)); err != nil {
				t.Errorf("Delete failed: %v", err)
			}
		})
	}
}

func TestConnFactoryClearsTransportTimeout(t *testing.T) {
	stub := &recordingTransport{}
	factory := newConnFactory(7, common.ClientConfig{TimeoutSecond: 10}, serializer.NewJSONSerializer(),
		func() (transport.IRPCClientTransport, error) { return stub, nil })

	conn, err := factory()
	if err != nil {
		t.Fatalf("factory failed: %v", err)
	}
	defer conn.Close()

	if stub.config.TimeoutSecond != 0 {
		t.Errorf("Expected transport timeout 0, got %d", stub.config.TimeoutSecond)
	}
}

func TestTimeoutAgainstSilentServer(t *testing.T) {
	tests := []struct {
		name           string
		timeoutEnabled bool
		timeout        time.Duration
		callerDeadline time.Duration
		minElapsed     time.Duration
		maxElapsed     time.Duration
	}{
		{
			// only the caller's deadline ends the call, not the one second of --timeout
			name:           "disabled",
			timeoutEnabled: false,
			timeout:        time.Second,
			callerDeadline: 2500 * time.Millisecond,
			minElapsed:     2 * time.Second,
			maxElapsed:     5 * time.Second,
		},
		{
			name:           "enabled",
			timeoutEnabled: true,
			timeout:        200 * time.Millisecond,
			callerDeadline: 10 * time.Second,
			minElapsed:     100 * time.Millisecond,
			maxElapsed:     2 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			endpoint := startSilentServer(t)

			opts := ycsb.DefaultOptions()
			opts.PoolSize = 1
			opts.TimeoutEnabled = tt.timeoutEnabled
			opts.Timeout = tt.timeout
			db, _ := newTestDB(t, endpoint, 1, serializer.NewBinarySerializer(), opts)

			ctx, cancel := context.WithTimeout(context.Background(), tt.callerDeadline)
			defer cancel()

			start := time.Now()
			_, err := db.Read(ctx, "usertable", "user1", nil)
			elapsed := time.Since(start)

			if !errors.Is(err, ycsb.ErrTimeout) {
				t.Fatalf("Expected timeout error, got %v", err)
			}
			if elapsed < tt.minElapsed || elapsed > tt.maxElapsed {
				t.Errorf("Expected the call to end after %v to %v, took %v", tt.minElapsed, tt.maxElapsed, elapsed)
			}
		})
	}
}

// recordingTransport keeps the config it was connected with
type recordingTransport struct {
	config common.ClientConfig
}

func (r *recordingTransport) Connect(config common.ClientConfig) error {
	r.config = config
	return nil
}

func (r *recordingTransport) Send(context.Context, uint64, []byte) ([]byte, error) {
	return nil, errors.New("not connected to a server")
}

func (r *recordingTransport) Close() error {
	return nil
}
