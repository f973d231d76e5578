package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ValentinKolb/mredis/lib/store"
	"github.com/ValentinKolb/mredis/rpc/common"
	"github.com/ValentinKolb/mredis/rpc/protocol"
	"github.com/ValentinKolb/mredis/rpc/transport"
	"github.com/ValentinKolb/mredis/rpc/transport/tcp"
	"github.com/ValentinKolb/mredis/rpc/transport/unix"
	"github.com/ValentinKolb/mredis/rpc/transport/ws"
	"github.com/tidwall/resp"
)

var Logger = common.GetLogger(common.LoggerClient)

// NewTransport returns an unconnected client transport of the given type
func NewTransport(t common.TransportType) (transport.IClientTransport, error) {
	switch t {
	case common.TransportTCP:
		return tcp.NewTCPClientTransport(), nil
	case common.TransportUnix:
		return unix.NewUnixClientTransport(), nil
	case common.TransportWebSocket:
		return ws.NewWSClientTransport(), nil
	default:
		return nil, fmt.Errorf("invalid transport %q, must be one of tcp, unix, ws", t)
	}
}

// RPCStore talks to a remote server. It implements store.IStore for the key
// and snapshot operations the protocol offers; Recover, ExpireCycle and GetInfo
// only exist on the server and return RetCUnsupportedOperation.
type RPCStore struct {
	config    common.ClientConfig
	transport transport.IClientTransport
}

// NewRPCStore connects the transport and returns the store
func NewRPCStore(config common.ClientConfig, transport transport.IClientTransport) (*RPCStore, error) {
	// Connect the transport
	if err := transport.Connect(config); err != nil {
		return nil, err
	}
	Logger.Debugf("Connected to %s via %s", config.Transport.Endpoint, config.Transport.Type)

	return &RPCStore{
		config:    config,
		transport: transport,
	}, nil
}

// Do sends one command and returns the raw reply. Error replies are returned as
// values, err is only set if the request could not be sent or the reply not read.
func (c *RPCStore) Do(args ...string) (resp.Value, error) {
	v, err := c.transport.Send(protocol.EncodeCommand(args...))
	if err != nil {
		return resp.Value{}, store.NewError(store.RetCInternalError, fmt.Sprintf("request failed: %v", err))
	}
	return v, nil
}

// Close closes the connection
func (c *RPCStore) Close() error {
	return c.transport.Close()
}

// --------------------------------------------------------------------------
// Interface Methods (docu see the store package in interface.go)
// --------------------------------------------------------------------------

func (c *RPCStore) Set(key, value string) error {
	_, err := c.invoke("SET", key, value)
	return err
}

func (c *RPCStore) Get(key string) (string, bool, error) {
	v, err := c.invoke("GET", key)
	if err != nil || v.IsNull() {
		return "", false, err
	}
	return v.String(), true, nil
}

func (c *RPCStore) Expire(key, marker string) error {
	_, err := c.invoke("EXPIRE", key, marker)
	return err
}

func (c *RPCStore) TTL(key string) (string, bool, error) {
	v, err := c.invoke("TTL", key)
	if err != nil || v.IsNull() {
		return "", false, err
	}
	return v.String(), true, nil
}

// Keys cannot tell whether the server truncated the result, truncated is always false
func (c *RPCStore) Keys(pattern string) ([]string, bool, error) {
	v, err := c.invoke("KEYS", pattern)
	if err != nil {
		return nil, false, err
	}
	if v.Type() != resp.Array {
		return nil, false, unexpectedReply("KEYS", v)
	}
	items := v.Array()
	keys := make([]string, len(items))
	for i, item := range items {
		keys[i] = item.String()
	}
	return keys, false, nil
}

func (c *RPCStore) Select(index int) error {
	_, err := c.invoke("SELECT", strconv.Itoa(index))
	return err
}

// Save asks the server to write a snapshot, ctx is not sent to the server
func (c *RPCStore) Save(_ context.Context) error {
	_, err := c.invoke("SAVE")
	return err
}

func (c *RPCStore) Recover(_ context.Context) error {
	return store.NewError(store.RetCUnsupportedOperation, "recover is not available over rpc")
}

func (c *RPCStore) ExpireCycle() error {
	return store.NewError(store.RetCUnsupportedOperation, "the expire cycle is not available over rpc")
}

func (c *RPCStore) GetInfo() (store.Info, error) {
	return store.Info{}, store.NewError(store.RetCUnsupportedOperation, "info is not available over rpc")
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// invoke sends a command and converts error replies into *store.Error
func (c *RPCStore) invoke(args ...string) (resp.Value, error) {
	v, err := c.Do(args...)
	if err != nil {
		return v, err
	}
	if v.Type() == resp.Error {
		return v, replyError(v.Error().Error())
	}
	return v, nil
}

// replyError maps an error reply to the matching return code
func replyError(msg string) *store.Error {
	switch msg {
	case "key not exists":
		return store.NewError(store.RetCNotFound, msg)
	case "not supported", "snapshots are disabled":
		return store.NewError(store.RetCUnsupportedOperation, msg)
	default:
		return store.NewError(store.RetCInvalidOperation, msg)
	}
}

func unexpectedReply(cmd string, v resp.Value) *store.Error {
	return store.NewError(store.RetCInternalError, fmt.Sprintf("unexpected reply to %s: %v", cmd, v.Type()))
}

// interface guard
var _ store.IStore = (*RPCStore)(nil)
