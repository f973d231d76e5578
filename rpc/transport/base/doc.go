// Package base provides the connection handling shared by the stream transports
// (tcp, unix). Protocol specific parts are injected through IServerConnector and
// IClientConnector.
//
// Server:
//
//	The accept loop is sequential. A connection is accepted, upgraded with the socket
//	options of its connector and handed to the session handler; the next connection is
//	only accepted after the handler returned. Clients connecting in the meantime wait in
//	the listen backlog. Requests are cut into frames with protocol.FrameReader, every
//	reply is flushed before the next frame is read.
//
// Client:
//
//	A single connection carrying one request at a time. Replies are decoded with
//	github.com/tidwall/resp.
package base
