// Package serve implements the serve command, which starts an mredis server.
package serve
