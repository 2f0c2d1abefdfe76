package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/ValentinKolb/dTree/lib/tree"
	"github.com/ValentinKolb/dTree/lib/tree/dtree"
	"github.com/ValentinKolb/dTree/lib/tree/ltree"
	"github.com/ValentinKolb/dTree/rpc/common"
	"github.com/ValentinKolb/dTree/rpc/serializer"
	"github.com/ValentinKolb/dTree/rpc/transport"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var Logger = logger.GetLogger("rpc")

// defaultTimeout bounds a request if the config does not set a timeout
const defaultTimeout = 10 * time.Second

// serverShard is a struct that represents a shard in the RPC server
// It contains the tree it encapsulates and the adapter
// that handles requests for the tree
type serverShard struct {
	Tree    tree.ITree
	Adapter IRPCServerAdapter
}

// NewRPCServer creates a new RPC server
// It takes a config, transport and serializer as parameters
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		tcp.NewTCPServerTransport(),
//		serializer.NewBinarySerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	 }
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
) *RPCServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	Logger.Infof("Created RPC Server")
	Logger.Infof("%s", config.String())

	return &RPCServer{
		config:     config,
		transport:  transport,
		serializer: serializer,
		shards:     xsync.NewMapOf[uint64, serverShard](),
	}
}

// RPCServer routes requests received by a transport to the tree of the addressed shard
type RPCServer struct {
	config     common.ServerConfig
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer
	shards     *xsync.MapOf[uint64, serverShard]

	nodeHost      *dragonboat.NodeHost
	metricsServer *http.Server
}

// timeout returns the time a single request may take on the server
func (s *RPCServer) timeout() time.Duration {
	if s.config.TimeoutSecond <= 0 {
		return defaultTimeout
	}
	return time.Duration(s.config.TimeoutSecond) * time.Second
}

// handle processes a single serialized request and returns the serialized response
func (s *RPCServer) handle(shardId uint64, req []byte) []byte {
	var msg common.Message
	var respMsg *common.Message

	start := time.Now()

	// Get appropriate shard
	shard, ok := s.shards.Load(shardId)

	if !ok {
		// Case shard does not exist -> error
		respMsg = &common.Message{
			MsgType: common.MsgTError,
			Code:    uint64(tree.RetCLookupError),
			Err:     fmt.Sprintf("shard %d not found", shardId),
		}
	} else if err := s.serializer.Deserialize(req, &msg); err != nil {
		respMsg = common.NewErrorResponse(fmt.Sprintf("failed to deserialize request: %s", err))
	} else {
		// Let the adapter handle the request
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout())
		respMsg = shard.Adapter.Handle(ctx, &msg, shard.Tree)
		cancel()
	}

	requestMetricsFor(msg.MsgType).observe(start, respMsg)

	// Return result
	val, err := s.serializer.Serialize(*respMsg)
	if err != nil {
		Logger.Errorf("failed to serialize response: %v", err)
		val, _ = s.serializer.Serialize(*common.NewErrorResponse(fmt.Sprintf("failed to serialize response: %s", err)))
	}
	return val
}

func (s *RPCServer) init() error {

	// Init logger
	common.InitLoggers(s.config.LogLevel)

	// Create the Dragonboat NodeHost
	var err error
	if s.config.HasRemoteShard() {
		// Only create the NodeHost if we have remote shards
		s.nodeHost, err = dragonboat.NewNodeHost(s.config.ToNodeHostConfig())
		if err != nil {
			return fmt.Errorf("failed to create node host: %w", err)
		}
	}

	// CREATE SHARDS

	/*
		Note: A single RPC Server can have any number of remote and or local shards.
		Each shard holds its own tree. The following loop creates all
		the shards and stores them for the RPC server.
	*/

	for _, shardConfig := range s.config.Shards {
		if _, exists := s.shards.Load(shardConfig.ShardID); exists {
			return fmt.Errorf("shard %d configured twice", shardConfig.ShardID)
		}

		switch shardConfig.Type {
		case common.ShardTypeLocalTree:
			s.shards.Store(shardConfig.ShardID, serverShard{
				Tree:    ltree.NewLocalTree(),
				Adapter: NewITreeServerAdapter(),
			})
			Logger.Infof("created local tree for shard %d", shardConfig.ShardID)

		case common.ShardTypeRemoteTree:
			if s.nodeHost == nil {
				return fmt.Errorf("node host is nil, cannot create distributed tree")
			}

			// Start Raft for the shard
			if err := s.nodeHost.StartConcurrentReplica(s.config.ClusterMembers, false, dtree.CreateStateMachineFactory(), s.config.ToDragonboatConfig(shardConfig.ShardID)); err != nil {
				return fmt.Errorf("failed to start shard %d: %w", shardConfig.ShardID, err)
			}

			s.shards.Store(shardConfig.ShardID, serverShard{
				Tree:    dtree.NewDistributedTree(s.nodeHost, shardConfig.ShardID, s.timeout()),
				Adapter: NewITreeServerAdapter(),
			})
			Logger.Infof("created distributed tree for shard %d", shardConfig.ShardID)

		default:
			return fmt.Errorf("invalid shard type: %s", shardConfig.Type)
		}
	}

	Logger.Infof("dTree setup completed successfully")

	// Expose metrics if configured
	if s.config.MetricsEndpoint != "" {
		s.startMetricsServer()
	}

	// Configure the transport layer
	s.transport.RegisterHandler(s.handle)

	return nil
}

// startMetricsServer serves the default VictoriaMetrics set in the prometheus text format
func (s *RPCServer) startMetricsServer() {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		metrics.WritePrometheus(w, true)
	})
	srv := &http.Server{Addr: s.config.MetricsEndpoint, Handler: mux}
	s.metricsServer = srv

	go func() {
		Logger.Infof("serving metrics on http://%s/metrics", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			Logger.Errorf("metrics server failed: %v", err)
		}
	}()
}

// Serve starts the RPC server
// This function will also initialize the server plus the shards and start the transport layer.
// It blocks until Close is called or the transport fails.
func (s *RPCServer) Serve() error {
	err := s.init()
	if err != nil {
		s.release()
		return err
	}
	return s.transport.Listen(s.config)
}

// Close stops the transport and releases all shards
func (s *RPCServer) Close() error {
	err := s.transport.Close()
	return errors.Join(err, s.release())
}

// release closes the trees, the metrics server and the node host
func (s *RPCServer) release() error {
	var errs []error
	s.shards.Range(func(id uint64, shard serverShard) bool {
		if err := shard.Tree.Close(); err != nil {
			errs = append(errs, fmt.Errorf("shard %d: %w", id, err))
		}
		s.shards.Delete(id)
		return true
	})
	if s.metricsServer != nil {
		if err := s.metricsServer.Close(); err != nil {
			errs = append(errs, err)
		}
		s.metricsServer = nil
	}
	if s.nodeHost != nil {
		s.nodeHost.Close()
		s.nodeHost = nil
	}
	return errors.Join(errs...)
}
