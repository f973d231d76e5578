package common

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Transport configuration
// --------------------------------------------------------------------------

type TransportType string

const (
	TransportTCP       TransportType = "tcp"
	TransportUnix      TransportType = "unix"
	TransportWebSocket TransportType = "ws"
)

// SocketConf holds socket buffer settings (0 = operating system default)
type SocketConf struct {
	WriteBufferSize int
	ReadBufferSize  int
}

// TCPConf holds tcp specific socket settings
type TCPConf struct {
	TCPNoDelay      bool
	TCPKeepAliveSec int // 0 = disabled
	TCPLingerSec    int // <0 = operating system default
}

// TransportConfig selects and configures the transport of server and client
type TransportConfig struct {
	Type     TransportType
	Endpoint string // host:port for tcp and ws, socket path for unix
	SocketConf
	TCPConf
}

// --------------------------------------------------------------------------
// Server configuration struct
// --------------------------------------------------------------------------

// ServerConfig holds all configuration parameters of a server.
type ServerConfig struct {
	Transport TransportConfig

	// keyspace layout
	Databases int
	Buckets   int

	// snapshot location, a file path or gs://bucket/object (empty = snapshots disabled)
	SnapshotPath string

	// maximum number of keys returned by KEYS (<0 = unlimited)
	KeysLimit int

	// address of the Prometheus endpoint (empty = disabled)
	MetricsEndpoint string

	// Logging configuration
	LogLevel string
}

// Validate checks the configuration for values the server cannot start with
func (c *ServerConfig) Validate() error {
	var errs []error

	switch c.Transport.Type {
	case TransportTCP, TransportUnix, TransportWebSocket:
	default:
		errs = append(errs, fmt.Errorf("invalid transport %q, must be one of tcp, unix, ws", c.Transport.Type))
	}
	if c.Transport.Endpoint == "" {
		errs = append(errs, errors.New("endpoint must not be empty"))
	}
	if c.Databases < 1 {
		errs = append(errs, fmt.Errorf("databases must be at least 1, got %d", c.Databases))
	}
	if c.Buckets < 1 {
		errs = append(errs, fmt.Errorf("buckets must be at least 1, got %d", c.Buckets))
	}
	if c.KeysLimit == 0 {
		errs = append(errs, errors.New("keys-limit must not be 0 (use a negative value for no limit)"))
	}
	if c.Transport.WriteBufferSize < 0 || c.Transport.ReadBufferSize < 0 {
		errs = append(errs, errors.New("transport buffer sizes must not be negative"))
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	orDisabled := func(value string) string {
		if value == "" {
			return "disabled"
		}
		return value
	}

	addSection("Server")
	addField("Transport", string(c.Transport.Type))
	addField("Endpoint", c.Transport.Endpoint)
	addField("Metrics Endpoint", orDisabled(c.MetricsEndpoint))

	addSection("Keyspace")
	addField("Databases", strconv.Itoa(c.Databases))
	addField("Buckets per Table", strconv.Itoa(c.Buckets))
	if c.KeysLimit < 0 {
		addField("KEYS Limit", "unlimited")
	} else {
		addField("KEYS Limit", strconv.Itoa(c.KeysLimit))
	}
	addField("Snapshot", orDisabled(c.SnapshotPath))

	addSection("Transport")
	addField("Read Buffer", fmt.Sprintf("%d bytes", c.Transport.ReadBufferSize))
	addField("Write Buffer", fmt.Sprintf("%d bytes", c.Transport.WriteBufferSize))
	if c.Transport.Type == TransportTCP {
		addField("TCP No Delay", strconv.FormatBool(c.Transport.TCPNoDelay))
		addField("TCP Keep Alive", fmt.Sprintf("%d sec", c.Transport.TCPKeepAliveSec))
		addField("TCP Linger", fmt.Sprintf("%d sec", c.Transport.TCPLingerSec))
	}

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}

// --------------------------------------------------------------------------
// Client configuration struct
// --------------------------------------------------------------------------

type ClientConfig struct {
	Transport     TransportConfig
	TimeoutSecond int // 0 = no timeout
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	sb.WriteString("\nCLIENT CONFIGURATION\n")
	addField("Transport", string(c.Transport.Type))
	addField("Endpoint", c.Transport.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))

	return sb.String()
}
