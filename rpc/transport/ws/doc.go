// Package ws implements a websocket transport with github.com/gorilla/websocket.
//
// Each websocket message holds one request frame (client to server) or one encoded
// reply (server to client), so no stream framing is needed. Sessions are sequential
// like on the stream transports: the upgrade of a second client waits until the
// active session ended.
package ws
