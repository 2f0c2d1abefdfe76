package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/dTree/cmd/serve"
	treecmd "github.com/ValentinKolb/dTree/cmd/tree"
	"github.com/ValentinKolb/dTree/cmd/util"
	ycsbcmd "github.com/ValentinKolb/dTree/cmd/ycsb"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "dtree",
		Short: "replicated tree store with a YCSB client",
		Long: fmt.Sprintf(`dTree (v%s)

A hierarchical key-value store written in Go, replicated with RAFT
consensus, together with a pooled YCSB-style client that stores one
record per file under a directory per table.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dTree",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dTree v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(treecmd.TreeCommands)
	RootCmd.AddCommand(ycsbcmd.YCSBCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "binary", util.WrapString("serializer to use (json, gob, binary)"))
	key = "transport"
	RootCmd.PersistentFlags().String(key, "tcp", util.WrapString("transport to use (tcp, http). Endpoints of the http transport need the http:// prefix"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
