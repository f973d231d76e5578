package ws

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/ValentinKolb/mredis/rpc/common"
	"github.com/ValentinKolb/mredis/rpc/transport"
	"github.com/ValentinKolb/mredis/rpc/transport/base"
	"github.com/gorilla/websocket"
)

var Logger = base.Logger

// serverTransport serves sessions over websocket connections.
// Every websocket message carries exactly one request frame or reply.
type serverTransport struct{}

// NewWSServerTransport creates a new websocket server transport
func NewWSServerTransport() transport.IServerTransport {
	return &serverTransport{}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IServerTransport)
// --------------------------------------------------------------------------

func (t *serverTransport) Listen(ctx context.Context, config common.ServerConfig, handler transport.SessionHandler) error {
	listener, err := net.Listen("tcp", config.Transport.Endpoint)
	if err != nil {
		return fmt.Errorf("failed to create listener: %v", err)
	}

	srv := &http.Server{Handler: newSessionHandler(ctx, config, handler)}
	stop := context.AfterFunc(ctx, func() { _ = srv.Close() })
	defer stop()

	Logger.Infof("Starting ws server on %s", listener.Addr())

	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// newSessionHandler upgrades requests to websocket sessions. A one-slot semaphore
// keeps the sessions sequential: a client connecting while another session is
// active waits before its upgrade until the slot is free.
func newSessionHandler(ctx context.Context, config common.ServerConfig, handler transport.SessionHandler) http.Handler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  config.Transport.ReadBufferSize,
		WriteBufferSize: config.Transport.WriteBufferSize,
		CheckOrigin: func(_ *http.Request) bool {
			return true
		},
	}
	slot := make(chan struct{}, 1)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case slot <- struct{}{}:
		case <-r.Context().Done():
			return
		case <-ctx.Done():
			return
		}
		defer func() { <-slot }()

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			Logger.Warningf("Websocket upgrade from %s failed: %v", r.RemoteAddr, err)
			return
		}
		defer conn.Close()

		stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
		defer stop()

		handler(ctx, &wsStream{conn: conn})
	})
}

// wsStream adapts a websocket connection to transport.Stream
type wsStream struct {
	conn *websocket.Conn
}

func (s *wsStream) ReadFrame() ([]byte, error) {
	_, payload, err := s.conn.ReadMessage()
	if err != nil {
		var closeErr *websocket.CloseError
		if errors.As(err, &closeErr) {
			return nil, io.EOF
		}
		return nil, err
	}
	return payload, nil
}

func (s *wsStream) WriteReply(reply []byte) error {
	return s.conn.WriteMessage(websocket.TextMessage, reply)
}

func (s *wsStream) RemoteAddr() string {
	return s.conn.RemoteAddr().String()
}
