package base

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/ValentinKolb/mredis/rpc/common"
	"github.com/ValentinKolb/mredis/rpc/transport"
	"github.com/tidwall/resp"
)

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IClientConnector defines the interface for transport-specific connection operations
type IClientConnector interface {
	// Connect establishes a single connection based on the provided configuration
	Connect(config common.ClientConfig) (net.Conn, error)

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// clientTransport sends one request at a time over a single connection
type clientTransport struct {
	connector IClientConnector
	config    common.ClientConfig

	mu      sync.Mutex // serialises requests
	conn    net.Conn
	w       *bufio.Writer
	replies *resp.Reader
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix, etc.)
// -----------------------------------------------------------

// NewBaseClientTransport creates a new base client transport with the specified connector
func NewBaseClientTransport(connector IClientConnector) transport.IClientTransport {
	return &clientTransport{connector: connector}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IClientTransport)
// --------------------------------------------------------------------------

func (t *clientTransport) Connect(config common.ClientConfig) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn != nil {
		return errors.New("transport is already connected")
	}

	conn, err := t.connector.Connect(config)
	if err != nil {
		return fmt.Errorf("failed to connect to %s via %s: %v", config.Transport.Endpoint, t.connector.GetName(), err)
	}

	t.config = config
	t.conn = conn
	t.w = bufio.NewWriter(conn)
	t.replies = resp.NewReader(bufio.NewReader(conn))
	return nil
}

func (t *clientTransport) Send(req []byte) (resp.Value, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return resp.Value{}, errors.New("transport is not connected")
	}

	if t.config.TimeoutSecond > 0 {
		deadline := time.Now().Add(time.Duration(t.config.TimeoutSecond) * time.Second)
		if err := t.conn.SetDeadline(deadline); err != nil {
			return resp.Value{}, fmt.Errorf("failed to set deadline: %v", err)
		}
	}

	if _, err := t.w.Write(req); err != nil {
		return resp.Value{}, err
	}
	if err := t.w.Flush(); err != nil {
		return resp.Value{}, err
	}

	v, _, err := t.replies.ReadValue()
	return v, err
}

func (t *clientTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}
