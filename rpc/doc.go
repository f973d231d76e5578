// Package rpc is the communication layer of mredis. It turns byte streams into
// commands and replies and connects them to the store.
//
// The package is organized into several subpackages:
//
//   - common: Configuration structures and logging shared by server and client.
//
//   - protocol: The request parser, the frame reader and the reply encoder of the
//     redis-like text protocol.
//
//   - transport: Network communication abstractions with pluggable implementations
//     (TCP, Unix sockets, WebSocket). The server side serves one session at a time.
//
//   - server: The command dispatcher, the session loop and the metrics endpoint.
//
//   - client: A client implementing the store interface over any transport.
package rpc
