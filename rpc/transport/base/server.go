package base

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/ValentinKolb/mredis/rpc/common"
	"github.com/ValentinKolb/mredis/rpc/protocol"
	"github.com/ValentinKolb/mredis/rpc/transport"
)

var Logger = common.GetLogger(common.LoggerTransport)

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IServerConnector defines the interface for transport-specific server operations
type IServerConnector interface {
	// Listen creates a listener and returns it
	Listen(config common.ServerConfig) (net.Listener, error)

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string

	// UpgradeConnection applies protocol-specific settings to an accepted connection
	UpgradeConnection(conn net.Conn, config common.ServerConfig) error
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// serverTransport runs the sequential accept loop shared by all stream transports
type serverTransport struct {
	connector IServerConnector
}

// connStream adapts a net.Conn to transport.Stream
type connStream struct {
	conn   net.Conn
	frames *protocol.FrameReader
	w      *bufio.Writer
}

func newConnStream(conn net.Conn) *connStream {
	return &connStream{
		conn:   conn,
		frames: protocol.NewFrameReader(conn),
		w:      bufio.NewWriter(conn),
	}
}

func (s *connStream) ReadFrame() ([]byte, error) {
	return s.frames.ReadFrame()
}

func (s *connStream) WriteReply(reply []byte) error {
	if _, err := s.w.Write(reply); err != nil {
		return err
	}
	return s.w.Flush()
}

func (s *connStream) RemoteAddr() string {
	if addr := s.conn.RemoteAddr(); addr != nil && addr.String() != "" {
		return addr.String()
	}
	return "local"
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix, etc.)
// -----------------------------------------------------------

// NewBaseServerTransport creates a new base server transport for the given connector
func NewBaseServerTransport(connector IServerConnector) transport.IServerTransport {
	return &serverTransport{connector: connector}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IServerTransport)
// --------------------------------------------------------------------------

func (t *serverTransport) Listen(ctx context.Context, config common.ServerConfig, handler transport.SessionHandler) error {
	// Create listener using the connector
	listener, err := t.connector.Listen(config)
	if err != nil {
		return fmt.Errorf("failed to create listener: %v", err)
	}
	defer listener.Close()

	stop := context.AfterFunc(ctx, func() { _ = listener.Close() })
	defer stop()

	Logger.Infof("Starting %s server on %s", t.connector.GetName(), listener.Addr())

	return Serve(ctx, listener, handler, func(conn net.Conn) error {
		return t.connector.UpgradeConnection(conn, config)
	})
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// Serve accepts connections from listener one at a time and runs handler for each
// of them before accepting the next. upgrade may be nil. It returns nil once ctx is
// cancelled or the listener is closed.
func Serve(ctx context.Context, listener net.Listener, handler transport.SessionHandler, upgrade func(net.Conn) error) error {
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			Logger.Errorf("Accept error: %v", err)
			continue
		}

		if upgrade != nil {
			if err := upgrade(conn); err != nil {
				Logger.Warningf("Failed to apply socket options for %s: %v", conn.RemoteAddr(), err)
			}
		}

		// blocks until the session ends
		ServeConn(ctx, conn, handler)
	}
}

// ServeConn runs handler for a single connection and closes it afterwards.
// The connection is closed early if ctx is cancelled.
func ServeConn(ctx context.Context, conn net.Conn, handler transport.SessionHandler) {
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	handler(ctx, newConnStream(conn))
}
