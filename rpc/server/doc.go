// Package server implements the mredis server: it owns the store, dispatches
// request frames to the command registry and runs the sessions handed over by
// the transport.
//
// Key Components:
//
//   - Commands: The fixed registry of SET, GET, EXPIRE, TTL, SAVE, KEYS and SELECT.
//     Names are matched exactly (case-sensitive) by a linear scan; the argument count
//     of every command is checked before its handler runs. Unknown names get the
//     error reply "not supported".
//
//   - Server: The explicit server context. It holds the configuration, the store
//     (and with it the keyspace and the selected database) and the metrics collector.
//     HandleFrame turns one frame into exactly one reply. ServeSession reads frames
//     of a stream, writes the replies and runs the expiry cycle of the store after
//     every request.
//
//   - Recovery: Serve first loads the latest snapshot. A missing or corrupt snapshot
//     is logged and the server starts with an empty keyspace.
//
// Errors:
//
//	Protocol, usage, domain and snapshot I/O errors are all error replies, the session
//	stays open. Only failing to bind the endpoint ends Serve with an error.
//
// Usage:
//
//	s, err := server.NewServer(config, tcp.NewTCPServerTransport(), nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := s.Serve(ctx); err != nil {
//		log.Fatal(err)
//	}
package server
