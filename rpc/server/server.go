package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ValentinKolb/mredis/lib/db/keyspace"
	"github.com/ValentinKolb/mredis/lib/snapshot"
	"github.com/ValentinKolb/mredis/lib/stats"
	"github.com/ValentinKolb/mredis/lib/store"
	"github.com/ValentinKolb/mredis/lib/store/lstore"
	"github.com/ValentinKolb/mredis/rpc/common"
	"github.com/ValentinKolb/mredis/rpc/protocol"
	"github.com/ValentinKolb/mredis/rpc/transport"
)

var (
	Logger         = common.GetLogger(common.LoggerServer)
	StoreLogger    = common.GetLogger(common.LoggerStore)
	SnapshotLogger = common.GetLogger(common.LoggerSnapshot)
)

// Server dispatches the requests of one session at a time to the store
type Server struct {
	config    common.ServerConfig
	transport transport.IServerTransport
	store     store.IStore
	snapshots snapshot.Store
	stats     *stats.Collector
}

// NewServer creates a new server
// It takes a config, a transport and an optional expiry hook (nil = no expiry) as parameters
//
// Usage:
//
//	s, err := server.NewServer(*config, tcp.NewTCPServerTransport(), nil)
//	if err != nil {
//		panic(err)
//	}
//
//	if err := s.Serve(ctx); err != nil {
//		panic(err)
//	}
func NewServer(config common.ServerConfig, transport transport.IServerTransport, hook keyspace.ExpiryHook) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	var snapshots snapshot.Store
	if config.SnapshotPath != "" {
		var err error
		if snapshots, err = snapshot.NewStore(context.Background(), config.SnapshotPath); err != nil {
			return nil, err
		}
	}

	// Function to create a new keyspace instance
	factory := func() *keyspace.KeySpace {
		return keyspace.New(&keyspace.Options{
			Databases: config.Databases,
			Buckets:   config.Buckets,
			Hook:      hook,
		})
	}

	s := &Server{
		config:    config,
		transport: transport,
		store: lstore.NewLocalStore(factory, lstore.Options{
			Snapshots: snapshots,
			KeysLimit: config.KeysLimit,
		}),
		snapshots: snapshots,
		stats:     stats.NewCollector(),
	}

	s.stats.RegisterKeyGauges(config.Databases, func() []int {
		info, _ := s.store.GetInfo()
		return info.Keys
	})

	Logger.Infof("Created mredis server")
	Logger.Infof("%s", config.String())

	return s, nil
}

// --------------------------------------------------------------------------
// Lifecycle
// --------------------------------------------------------------------------

// Serve recovers the latest snapshot, starts the metrics endpoint (if configured)
// and serves sessions until ctx is cancelled
func (s *Server) Serve(ctx context.Context) error {
	s.Recover(ctx)

	if s.config.MetricsEndpoint != "" {
		metricsSrv := &http.Server{Addr: s.config.MetricsEndpoint, Handler: s.MetricsHandler()}
		go func() {
			Logger.Infof("Starting metrics endpoint on %s/metrics", s.config.MetricsEndpoint)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				Logger.Errorf("Metrics endpoint failed: %v", err)
			}
		}()
		defer metricsSrv.Close()
	}

	return s.transport.Listen(ctx, s.config, s.ServeSession)
}

// Recover loads the latest snapshot. A missing or unreadable snapshot is logged
// and the server continues with an empty keyspace.
func (s *Server) Recover(ctx context.Context) {
	if s.snapshots == nil {
		SnapshotLogger.Infof("Snapshots are disabled, starting with an empty keyspace")
		return
	}

	start := time.Now()
	err := s.store.Recover(ctx)

	var serr *store.Error
	switch {
	case err == nil:
		info, _ := s.store.GetInfo()
		SnapshotLogger.Infof("Recovered %d keys from %s in %s", info.TotalKeys(), s.snapshots, time.Since(start))
	case errors.As(err, &serr) && serr.Code == store.RetCNotFound:
		SnapshotLogger.Infof("No snapshot at %s, starting with an empty keyspace", s.snapshots)
	default:
		SnapshotLogger.Errorf("Failed to recover snapshot from %s, starting with an empty keyspace: %v", s.snapshots, err)
	}
}

// MetricsHandler serves the Prometheus metrics at /metrics
func (s *Server) MetricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		s.stats.WritePrometheus(w, true)
	})
	return mux
}

// Store returns the store the server operates on
func (s *Server) Store() store.IStore {
	return s.store
}

func (s *Server) snapshotLocation() string {
	if s.snapshots == nil {
		return "<disabled>"
	}
	return s.snapshots.String()
}

// --------------------------------------------------------------------------
// Request handling
// --------------------------------------------------------------------------

// ServeSession answers the requests of one stream in order until it ends.
// Every request gets exactly one reply, errors never end the session.
func (s *Server) ServeSession(ctx context.Context, stream transport.Stream) {
	session := s.stats.NewSession()
	Logger.Infof("Session with %s started", stream.RemoteAddr())

	for {
		frame, err := stream.ReadFrame()
		if errors.Is(err, io.EOF) {
			break
		}
		// an oversized frame has been consumed, the stream is still in sync
		if err != nil && !errors.Is(err, protocol.ErrLineTooLong) {
			if ctx.Err() == nil {
				Logger.Errorf("Reading request from %s failed: %v", stream.RemoteAddr(), err)
			}
			break
		}

		start := time.Now()
		var name string
		var reply protocol.Reply
		if err != nil {
			name, reply = "invalid", protocol.ErrorFrom(err)
		} else {
			name, reply = s.HandleFrame(ctx, frame)
		}
		session.Observe(name, start, reply.IsError())

		if err := stream.WriteReply(reply.Encode()); err != nil {
			Logger.Errorf("Writing reply to %s failed: %v", stream.RemoteAddr(), err)
			break
		}

		if err := s.store.ExpireCycle(); err != nil {
			StoreLogger.Errorf("Expire cycle failed: %v", err)
		}
	}

	Logger.Infof("Session with %s ended, %s", stream.RemoteAddr(), session.Summary())
}

// HandleFrame parses and executes one request frame. It returns the command name
// used for metrics ("invalid" for unparsable frames, "unknown" for unsupported
// commands) and the reply.
func (s *Server) HandleFrame(ctx context.Context, frame []byte) (string, protocol.Reply) {
	args, err := protocol.ParseRequest(frame)
	if err != nil {
		Logger.Debugf("Rejected frame %q: %v", frame, err)
		return "invalid", protocol.ErrorFrom(err)
	}

	cmd := lookupCommand(args[0])
	if cmd == nil {
		return "unknown", protocol.Error(msgNotSupported)
	}
	if len(args) != cmd.Arity {
		return cmd.Name, usageError(cmd)
	}

	return cmd.Name, cmd.Exec(ctx, s, args)
}
