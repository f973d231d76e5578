package base

import (
	"bufio"
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/ValentinKolb/mredis/rpc/common"
	"github.com/ValentinKolb/mredis/rpc/protocol"
	"github.com/ValentinKolb/mredis/rpc/transport"
)

// echoHandler replies with the parsed arguments of every frame
func echoHandler(started chan<- string) transport.SessionHandler {
	return func(ctx context.Context, s transport.Stream) {
		if started != nil {
			started <- s.RemoteAddr()
		}
		for {
			frame, err := s.ReadFrame()
			if err != nil {
				return
			}
			args, err := protocol.ParseRequest(frame)
			reply := protocol.Array(args)
			if err != nil {
				reply = protocol.ErrorFrom(err)
			}
			if err := s.WriteReply(reply.Encode()); err != nil {
				return
			}
		}
	}
}

func readReply(t *testing.T, r *bufio.Reader, want string) {
	t.Helper()
	buf := make([]byte, len(want))
	if _, err := io.ReadFull(r, buf); err != nil {
		t.Fatalf("reading reply: %v", err)
	}
	if string(buf) != want {
		t.Fatalf("reply = %q, want %q", buf, want)
	}
}

func TestServeConnPipe(t *testing.T) {
	server, client := net.Pipe()
	done := make(chan struct{})
	go func() {
		ServeConn(context.Background(), server, echoHandler(nil))
		close(done)
	}()

	r := bufio.NewReader(client)

	go func() { _, _ = client.Write(protocol.EncodeCommand("GET", "foo")) }()
	readReply(t, r, "*2\r\n$3\r\nGET\r\n$3\r\nfoo\r\n")

	// a broken frame gets an error reply and the session goes on
	go func() { _, _ = client.Write([]byte("hello\r\n")) }()
	readReply(t, r, "-protocol error\r\n")

	go func() { _, _ = client.Write(protocol.EncodeCommand("SAVE")) }()
	readReply(t, r, "*1\r\n$4\r\nSAVE\r\n")

	_ = client.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("session did not end after the client closed")
	}
}

func TestServeConnCancel(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ServeConn(ctx, server, echoHandler(nil))
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("session did not end after cancel")
	}
}

func TestServeSequential(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan string, 2)
	served := make(chan error, 1)
	go func() { served <- Serve(ctx, listener, echoHandler(started), nil) }()

	first, err := net.Dial("tcp", listener.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	<-started

	second, err := net.Dial("tcp", listener.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()
	if _, err := second.Write(protocol.EncodeCommand("TTL", "x")); err != nil {
		t.Fatal(err)
	}

	select {
	case <-started:
		t.Fatal("second session started while the first one is active")
	case <-time.After(100 * time.Millisecond):
	}

	_ = first.Close()
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("second session did not start after the first one ended")
	}
	readReply(t, bufio.NewReader(second), "*2\r\n$3\r\nTTL\r\n$1\r\nx\r\n")

	cancel()
	_ = listener.Close()
	if err := <-served; err != nil {
		t.Errorf("Serve returned %v", err)
	}
}

// tcpConnector dials plain tcp for the client tests
type tcpConnector struct{}

func (tcpConnector) Connect(config common.ClientConfig) (net.Conn, error) {
	return net.Dial("tcp", config.Transport.Endpoint)
}

func (tcpConnector) GetName() string { return "tcp" }

func TestClientTransport(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = Serve(ctx, listener, echoHandler(nil), nil) }()
	defer listener.Close()

	client := NewBaseClientTransport(tcpConnector{})
	if _, err := client.Send(protocol.EncodeCommand("GET")); err == nil {
		t.Errorf("Send before Connect should fail")
	}

	config := common.ClientConfig{Transport: common.TransportConfig{Endpoint: listener.Addr().String()}}
	if err := client.Connect(config); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	v, err := client.Send(protocol.EncodeCommand("SET", "foo", ""))
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	items := v.Array()
	if len(items) != 3 || items[0].String() != "SET" || items[1].String() != "foo" || items[2].String() != "" {
		t.Errorf("unexpected reply %v", v)
	}

	v, err = client.Send([]byte("nope\r\n"))
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if v.Error() == nil || v.Error().Error() != "protocol error" {
		t.Errorf("expected protocol error reply, got %v", v)
	}
}
