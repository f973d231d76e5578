// Package transport defines the interfaces between the server, the client and the
// network. Implementations live in the sub packages tcp, unix (both built on base)
// and ws.
package transport
