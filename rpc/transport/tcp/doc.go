// Package tcp implements the TCP transport on top of the base package.
// Socket options (no delay, keep-alive, linger, buffer sizes) are taken from
// common.TransportConfig and applied to server and client connections alike.
package tcp
