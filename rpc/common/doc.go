// Package common provides the data structures shared by the RPC client, server and
// transports of the tree store.
//
// Key Components:
//
//   - Message: the single request/response structure of the RPC protocol. One
//     message type exists per tree.ITree operation (read, write, mkdir, list,
//     remove). Failed responses carry the tree.RetCode in Code and the message in
//     Err, so tree errors arrive at the client with their original code.
//
//   - ServerConfig: shards, RAFT parameters, transport and metrics settings of a
//     server. Provides conversions to the Dragonboat configuration types.
//
//   - ClientConfig: endpoints, timeouts and retry behaviour of a client.
//
//   - Logger: a Dragonboat logger.ILogger implementation writing
//     "LEVEL | package | message" lines, installed by InitLoggers.
package common
