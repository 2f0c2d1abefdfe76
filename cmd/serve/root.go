package serve

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/ValentinKolb/dTree/cmd/util"
	"github.com/ValentinKolb/dTree/rpc/common"
	"github.com/ValentinKolb/dTree/rpc/server"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the dTree server",
		Long:    `Start the dTree server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is DTREE_<flag> (e.g. DTREE_TIMEOUT=15)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(initConfig)

	// add flags
	key := "shards"
	ServeCmd.PersistentFlags().String(key, "100=ltree", util.WrapString("Comma-separated list of shards to serve. Format: ID=TYPE where TYPE is one of: ltree (in memory), dtree (raft replicated)"))

	key = "rtt-millisecond"
	ServeCmd.PersistentFlags().Int(key, 100, util.WrapString("(dtree shards) RTTMillisecond defines the average Round Trip Time (RTT) in milliseconds between two NodeHost instances. Election and heartbeat timeouts are derived from this value"))

	key = "snapshot-entries"
	ServeCmd.PersistentFlags().Int(key, 10, util.WrapString("(dtree shards) SnapshotEntries defines how often the state machine should be snapshotted automatically. It is defined in terms of the number of applied Raft log entries. SnapshotEntries can be set to 0 to disable such automatic snapshotting (not recommended)"))

	key = "compaction-overhead"
	ServeCmd.PersistentFlags().Int(key, 5, util.WrapString("(dtree shards) CompactionOverhead defines the number of log entries to keep after a snapshot. Recommended value is about 1/2 of SnapshotEntries"))

	key = "data-dir"
	ServeCmd.PersistentFlags().String(key, "data", util.WrapString("(dtree shards) DataDir is the directory used for storing the raft log and snapshots"))

	key = "replica-id"
	ServeCmd.PersistentFlags().String(key, "", util.WrapString("(dtree shards) ReplicaID is the unique identifier for this NodeHost instance (e.g. 'node-1')"))

	key = "cluster-members"
	ServeCmd.PersistentFlags().String(key, "", util.WrapString("(dtree shards) ClusterMembers is a comma-separated list of NodeHost addresses in the format 'node-1=localhost:63001,node-2=localhost:63002,...'"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 5, util.WrapString("Timeout in seconds for a single request"))

	key = "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:8080", util.WrapString("The address on which the API will listen"))

	key = "workers-per-conn"
	ServeCmd.PersistentFlags().Int(key, 1, util.WrapString("Number of goroutines handling the requests of a single connection (only for tcp)"))

	key = "metrics-endpoint"
	ServeCmd.PersistentFlags().String(key, "", util.WrapString("Address serving prometheus metrics on /metrics (disabled if empty, e.g. 0.0.0.0:9100)"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", util.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// parseShards parses the ID=TYPE list of the shards flag
func parseShards(shardsConfig string) ([]common.ServerShard, error) {
	shards := []common.ServerShard{}
	for _, shardConfig := range strings.Split(shardsConfig, ",") {
		parts := strings.Split(shardConfig, "=")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid shard format: %s (expected ID=TYPE)", shardConfig)
		}

		// Parse shard ID
		shardID, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid shard ID %s: %v", parts[0], err)
		}

		// Parse shard type
		shardType, err := common.ParseShardType(parts[1])
		if err != nil {
			return nil, err
		}

		shards = append(shards, common.ServerShard{
			ShardID: shardID,
			Type:    shardType,
		})
	}
	return shards, nil
}

// parseClusterMembers parses the NAME=ADDRESS list of the cluster-members flag
func parseClusterMembers(clusterMembers string) (map[uint64]string, error) {
	members := make(map[uint64]string)
	for _, member := range strings.Split(clusterMembers, ",") {
		parts := strings.Split(member, "=")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid cluster member format: %s (expected ID=address)", member)
		}
		members[util.HashString(strings.TrimSpace(parts[0]))] = strings.TrimSpace(parts[1])
	}
	return members, nil
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// parse shards
	shards, err := parseShards(viper.GetString("shards"))
	if err != nil {
		return err
	}
	serveCmdConfig.Shards = shards

	// read the configuration from the command line flags and environment variables
	serveCmdConfig.RTTMillisecond = viper.GetUint64("rtt-millisecond")
	serveCmdConfig.SnapshotEntries = viper.GetUint64("snapshot-entries")
	serveCmdConfig.CompactionOverhead = viper.GetUint64("compaction-overhead")
	serveCmdConfig.DataDir = viper.GetString("data-dir")
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.MetricsEndpoint = viper.GetString("metrics-endpoint")
	serveCmdConfig.LogLevel = viper.GetString("log-level")
	serveCmdConfig.Transport = common.ServerTransportConfig{
		Endpoint:       viper.GetString("endpoint"),
		WorkersPerConn: viper.GetInt("workers-per-conn"),
		TCPConf: common.TCPConf{
			TCPNoDelay:   true,
			TCPLingerSec: -1,
		},
	}

	// parse replica id
	if id := viper.GetString("replica-id"); id != "" {
		serveCmdConfig.ReplicaID = util.HashString(id)
	} else if serveCmdConfig.HasRemoteShard() {
		// error only if cluster mode
		return fmt.Errorf("ReplicaId is required for dtree shards")
	}

	// parse cluster members
	if clusterMembers := viper.GetString("cluster-members"); clusterMembers != "" {
		serveCmdConfig.ClusterMembers, err = parseClusterMembers(clusterMembers)
		if err != nil {
			return err
		}
	} else if serveCmdConfig.HasRemoteShard() {
		// error only if cluster mode
		return fmt.Errorf("ClusterMembers is required for dtree shards")
	}

	// test if the replica id is in the cluster members (only for cluster mode)
	if _, ok := serveCmdConfig.ClusterMembers[serveCmdConfig.ReplicaID]; !ok && serveCmdConfig.HasRemoteShard() {
		return fmt.Errorf("no address found for replica ID %d in cluster members", serveCmdConfig.ReplicaID)
	}

	return nil
}

// run starts the dTree server and stops it on SIGINT or SIGTERM
func run(_ *cobra.Command, _ []string) error {
	s, err := util.GetSerializer()
	if err != nil {
		return err
	}

	t, err := util.GetServerTransport()
	if err != nil {
		return err
	}

	serv := server.NewRPCServer(
		*serveCmdConfig,
		t,
		s,
	)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		if _, ok := <-sigs; ok {
			server.Logger.Infof("shutting down")
			if err := serv.Close(); err != nil {
				server.Logger.Errorf("shutdown failed: %v", err)
			}
		}
	}()

	return serv.Serve()
}

// initConfig reads in the .env files and ENV variables if set.
func initConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("dtree")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}
