package ws

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ValentinKolb/mredis/rpc/common"
	"github.com/ValentinKolb/mredis/rpc/transport"
	"github.com/gorilla/websocket"
	"github.com/tidwall/resp"
)

// clientTransport sends one request per websocket message
type clientTransport struct {
	mu      sync.Mutex
	conn    *websocket.Conn
	timeout time.Duration
}

// NewWSClientTransport creates a new websocket client transport
func NewWSClientTransport() transport.IClientTransport {
	return &clientTransport{}
}

// URL returns the websocket url for an endpoint given as host:port or full url
func URL(endpoint string) string {
	if strings.HasPrefix(endpoint, "ws://") || strings.HasPrefix(endpoint, "wss://") {
		return endpoint
	}
	return "ws://" + endpoint + "/"
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

	t.timeout = time.Duration(config.TimeoutSecond) * time.Second
	dialer := websocket.Dialer{
		HandshakeTimeout: t.timeout,
		ReadBufferSize:   config.Transport.ReadBufferSize,
		WriteBufferSize:  config.Transport.WriteBufferSize,
	}

	conn, _, err := dialer.Dial(URL(config.Transport.Endpoint), nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s via ws: %v", config.Transport.Endpoint, err)
	}
	t.conn = conn
	return nil
}

func (t *clientTransport) Send(req []byte) (resp.Value, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return resp.Value{}, errors.New("transport is not connected")
	}

	if t.timeout > 0 {
		deadline := time.Now().Add(t.timeout)
		_ = t.conn.SetWriteDeadline(deadline)
		_ = t.conn.SetReadDeadline(deadline)
	}

	if err := t.conn.WriteMessage(websocket.TextMessage, req); err != nil {
		return resp.Value{}, err
	}
	_, payload, err := t.conn.ReadMessage()
	if err != nil {
		return resp.Value{}, err
	}

	v, _, err := resp.NewReader(bytes.NewReader(payload)).ReadValue()
	return v, err
}

func (t *clientTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return nil
	}
	_ = t.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	err := t.conn.Close()
	t.conn = nil
	return err
}
