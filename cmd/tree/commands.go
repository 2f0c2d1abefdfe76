package tree

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// commandContext bounds a command by the client timeout
func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(viper.GetInt("timeout"))*time.Second)
}

var (
	mkdirCmd = &cobra.Command{
		Use:   "mkdir [path]",
		Short: "Creates a directory and its parents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			if err := rpcTree.MakeDirectory(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println("mkdir successfully")
			return nil
		},
	}
	readCmd = &cobra.Command{
		Use:   "read [path]",
		Short: "Prints the contents of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			contents, err := rpcTree.Read(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(contents)
			return nil
		},
	}
	writeCmd = &cobra.Command{
		Use:   "write [path] [contents]",
		Short: "Sets the contents of a file, the parent directory must exist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			if err := rpcTree.Write(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Println("write successfully")
			return nil
		},
	}
	lsCmd = &cobra.Command{
		Use:   "ls [path]",
		Short: "Lists the children of a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/"
			if len(args) == 1 {
				path = args[0]
			}
			ctx, cancel := commandContext()
			defer cancel()
			children, err := rpcTree.ListDirectory(ctx, path)
			if err != nil {
				return err
			}
			if len(children) > 0 {
				fmt.Println(strings.Join(children, "\n"))
			}
			return nil
		},
	}
	rmCmd = &cobra.Command{
		Use:   "rm [path]",
		Short: "Removes a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()
			if err := rpcTree.RemoveFile(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println("remove successfully")
			return nil
		},
	}
)
