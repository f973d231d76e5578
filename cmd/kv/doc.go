// Package kv implements the kv command group: one subcommand per server command
// (set, get, expire, ttl, keys, save, select), raw for sending arbitrary
// commands and perf for benchmarking a running server.
//
// Every invocation opens one connection. The server serves one connection at a
// time, so a kv command blocks while another client is connected.
package kv
