// Package tcp implements the TCP socket transport of the tree store's RPC system.
// It provides the connectors plugged into the base package's client and server
// transports, which handle framing, request correlation, retries and worker limits.
//
// Key Components:
//
//   - clientConnector: dials the endpoint and applies the client's socket options
//
//   - serverConnector: listens on the endpoint and applies the server's socket options
//     to every accepted connection
//
// The default server buffer size is 512 KB, frames larger than that are read into a
// temporary buffer.
package tcp
