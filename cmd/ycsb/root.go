package ycsb

import (
	"fmt"
	"time"

	"github.com/ValentinKolb/dTree/cmd/util"
	"github.com/ValentinKolb/dTree/lib/record"
	"github.com/ValentinKolb/dTree/lib/tree"
	"github.com/ValentinKolb/dTree/lib/ycsb"
	"github.com/ValentinKolb/dTree/rpc/client"
	"github.com/ValentinKolb/dTree/rpc/common"
	"github.com/ValentinKolb/dTree/rpc/serializer"
	"github.com/ValentinKolb/dTree/rpc/transport"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	db *ycsb.DB

	// YCSBCommands represents the ycsb command group
	YCSBCommands = &cobra.Command{
		Use:   "ycsb",
		Short: "Perform record operations through the pooled YCSB client",
		Long: `Perform record operations through the pooled YCSB client.
Every table is a directory and every key a file holding the encoded record ({'field': 'value', ...}).`,
		PersistentPreRunE:  setupYCSBClient,
		PersistentPostRunE: closeYCSBClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common RPC flags to the ycsb command
	util.SetupRPCClientFlags(YCSBCommands)

	key := "shard"
	YCSBCommands.PersistentFlags().Int(key, 100, util.WrapString("ID of the shard to connect to"))
	key = "table"
	YCSBCommands.PersistentFlags().String(key, "usertable", util.WrapString("Table (directory) the records are stored in"))
	key = "pool-size"
	YCSBCommands.PersistentFlags().Int(key, 1, util.WrapString("Number of connections in the pool. Each connection is an independent RPC client"))
	key = "pooled"
	YCSBCommands.PersistentFlags().Bool(key, true, util.WrapString("Give every operation an exclusive connection from the pool. If false, a single connection is shared"))
	key = "verbose"
	YCSBCommands.PersistentFlags().Bool(key, false, util.WrapString("Log every operation with its payload (needs log-level info or lower)"))
	key = "timeout-enabled"
	YCSBCommands.PersistentFlags().Bool(key, true, util.WrapString("Bound every remote call by the timeout"))
	key = "strict-decode"
	YCSBCommands.PersistentFlags().Bool(key, false, util.WrapString("Reject stored records with text that is not a 'field': 'value' pair"))
	key = "fatal-on-error"
	YCSBCommands.PersistentFlags().Bool(key, false, util.WrapString("Log the first failed operation and exit with code 1"))

	// Add subcommands
	YCSBCommands.AddCommand(readCmd)
	YCSBCommands.AddCommand(insertCmd)
	YCSBCommands.AddCommand(updateCmd)
	YCSBCommands.AddCommand(deleteCmd)
	YCSBCommands.AddCommand(scanCmd)
	YCSBCommands.AddCommand(perfCmd)
}

// getOptions reads the client options from viper
func getOptions() ycsb.Options {
	opts := ycsb.DefaultOptions()
	opts.PoolSize = viper.GetInt("pool-size")
	opts.Pooled = viper.GetBool("pooled")
	opts.VerboseLogging = viper.GetBool("verbose")
	opts.TimeoutEnabled = viper.GetBool("timeout-enabled")
	if secs := viper.GetInt("timeout"); secs > 0 {
		opts.Timeout = time.Duration(secs) * time.Second
	}
	if viper.GetBool("strict-decode") {
		opts.DecodeMode = record.Strict
	}
	return opts
}

// fatal reports whether failed operations terminate the process
func fatal() bool {
	return viper.GetBool("fatal-on-error")
}

// setupYCSBClient opens the connection pool. Every pooled connection gets its own transport.
func setupYCSBClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	if err := util.InitClientLoggers(); err != nil {
		return err
	}

	config := util.GetClientConfig()
	shardId := util.GetShardID()

	s, err := util.GetSerializer()
	if err != nil {
		return err
	}
	// fail early on an unknown transport
	if _, err := util.GetTransport(); err != nil {
		return err
	}

	factory := newConnFactory(shardId, *config, s, util.GetTransport)

	db, err = ycsb.NewDB(factory, getOptions())
	return util.ExitOnError(fatal(), err)
}

// newConnFactory returns a factory opening one RPC client with its own transport per call.
// The transport timeout is cleared, the deadline of a call is set by the client options
// (see getOptions) so that --timeout-enabled=false leaves calls bounded by their context only.
func newConnFactory(
	shardId uint64,
	config common.ClientConfig,
	s serializer.IRPCSerializer,
	newTransport func() (transport.IRPCClientTransport, error),
) ycsb.ConnFactory {
	config.TimeoutSecond = 0
	return func() (tree.ITree, error) {
		t, err := newTransport()
		if err != nil {
			return nil, err
		}
		return client.NewRPCTree(shardId, config, t, s)
	}
}

func closeYCSBClient(_ *cobra.Command, _ []string) error {
	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("failed to close connections: %w", err)
	}
	return nil
}
