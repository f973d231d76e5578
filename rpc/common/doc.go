// Package common provides the configuration structures and the logging setup
// shared by the server, the transports and the client.
//
// Key Components:
//
//   - ServerConfig: Transport, keyspace layout, snapshot location, KEYS limit,
//     metrics endpoint and log level of a server. Validate reports every invalid
//     value at once, String renders the configuration for the startup log.
//
//   - ClientConfig: Transport and timeout used by the client.
//
//   - Logger: A custom logger.ILogger registered as dragonboat logger factory. Each
//     package gets a named logger (server, transport, store, snapshot, client) writing
//     lines of the form "LEVEL | package | message".
package common
