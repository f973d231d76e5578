// Package unix implements the Unix domain socket transport. The endpoint is the
// socket path; a stale socket file is removed before listening.
package unix
