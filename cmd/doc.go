// Package cmd implements the command-line interface of dTree. It provides a
// hierarchical command structure with operations for running the server and
// interacting with it as a client.
//
// The package is organized into several subpackages:
//
//   - serve: Commands for starting and configuring the dTree server
//   - tree: Commands for direct tree operations (mkdir, read, write, ls, rm)
//   - ycsb: Commands for record operations through the pooled YCSB client,
//     including a load generator (perf)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See dtree -help for a list of all commands.
package cmd
