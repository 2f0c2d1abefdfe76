package tree

import (
	"github.com/ValentinKolb/dTree/cmd/util"
	"github.com/ValentinKolb/dTree/lib/tree"
	"github.com/ValentinKolb/dTree/rpc/client"
	"github.com/spf13/cobra"
)

var (
	rpcTree tree.ITree

	// TreeCommands represents the tree command group
	TreeCommands = &cobra.Command{
		Use:                "tree",
		Short:              "Perform tree operations on a shard",
		PersistentPreRunE:  setupTreeClient,
		PersistentPostRunE: closeTreeClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common RPC flags to the tree command
	util.SetupRPCClientFlags(TreeCommands)

	TreeCommands.PersistentFlags().Int("shard", 100, util.WrapString("ID of the shard to connect to"))

	// Add subcommands
	TreeCommands.AddCommand(mkdirCmd)
	TreeCommands.AddCommand(readCmd)
	TreeCommands.AddCommand(writeCmd)
	TreeCommands.AddCommand(lsCmd)
	TreeCommands.AddCommand(rmCmd)
}

// setupTreeClient initializes the RPC tree client
func setupTreeClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	if err := util.InitClientLoggers(); err != nil {
		return err
	}

	// Get client configuration components
	config := util.GetClientConfig()
	shardId := util.GetShardID()

	// Get serializer and transport
	s, err := util.GetSerializer()
	if err != nil {
		return err
	}

	t, err := util.GetTransport()
	if err != nil {
		return err
	}

	// Create the tree client
	rpcTree, err = client.NewRPCTree(
		shardId,
		*config,
		t,
		s,
	)

	return err
}

func closeTreeClient(_ *cobra.Command, _ []string) error {
	if rpcTree == nil {
		return nil
	}
	return rpcTree.Close()
}
