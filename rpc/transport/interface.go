package transport

import (
	"context"

	"github.com/ValentinKolb/mredis/rpc/common"
	"github.com/tidwall/resp"
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// Stream is one client session as seen by the server
type Stream interface {
	// ReadFrame returns the next request frame. io.EOF signals that the client disconnected.
	// The frame is only valid until the next call.
	ReadFrame() ([]byte, error)
	// WriteReply sends one encoded reply
	WriteReply(reply []byte) error
	// RemoteAddr describes the peer for logs
	RemoteAddr() string
}

// SessionHandler serves one session until the stream ends or ctx is cancelled.
// The transport closes the stream once the handler returns.
type SessionHandler func(ctx context.Context, stream Stream)

// IServerTransport is the interface for the server transport layer.
// Sessions are served strictly one after another: the next client is only
// accepted after the handler of the previous one returned.
type IServerTransport interface {
	// Listen binds the configured endpoint and serves sessions until ctx is cancelled.
	// It only returns an error if the endpoint cannot be bound.
	Listen(ctx context.Context, config common.ServerConfig, handler SessionHandler) error
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IClientTransport is the interface for the client transport
type IClientTransport interface {
	// Connect initializes the transport with the given configuration
	Connect(config common.ClientConfig) error
	// Send sends a request frame to the server and returns the decoded reply
	Send(req []byte) (reply resp.Value, err error)
	// Close closes the transport connection
	Close() error
}
