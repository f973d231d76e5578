package common

import (
	"strings"
	"testing"

	"github.com/lni/dragonboat/v4/logger"
)

func validConfig() ServerConfig {
	return ServerConfig{
		Transport: TransportConfig{
			Type:     TransportTCP,
			Endpoint: "127.0.0.1:6379",
			TCPConf:  TCPConf{TCPLingerSec: -1},
		},
		Databases:    8,
		Buckets:      16,
		SnapshotPath: "dump.mrdb",
		KeysLimit:    50,
		LogLevel:     "info",
	}
}

func TestValidate(t *testing.T) {
	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		modify func(c *ServerConfig)
		want   string
	}{
		{"transport", func(c *ServerConfig) { c.Transport.Type = "http" }, "invalid transport"},
		{"endpoint", func(c *ServerConfig) { c.Transport.Endpoint = "" }, "endpoint"},
		{"databases", func(c *ServerConfig) { c.Databases = 0 }, "databases"},
		{"buckets", func(c *ServerConfig) { c.Buckets = -1 }, "buckets"},
		{"keys limit", func(c *ServerConfig) { c.KeysLimit = 0 }, "keys-limit"},
		{"buffers", func(c *ServerConfig) { c.Transport.ReadBufferSize = -1 }, "buffer"},
		{"log level", func(c *ServerConfig) { c.LogLevel = "loud" }, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.modify(&c)
			err := c.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestValidateReportsAll(t *testing.T) {
	c := validConfig()
	c.Databases = 0
	c.Buckets = 0
	err := c.Validate()
	if err == nil || !strings.Contains(err.Error(), "databases") || !strings.Contains(err.Error(), "buckets") {
		t.Errorf("Validate() = %v, want both problems reported", err)
	}
}

func TestServerConfigString(t *testing.T) {
	c := validConfig()
	s := c.String()
	for _, want := range []string{"127.0.0.1:6379", "dump.mrdb", "TCP No Delay", "disabled"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() misses %q:\n%s", want, s)
		}
	}

	c.KeysLimit = -1
	c.Transport.Type = TransportUnix
	s = c.String()
	if !strings.Contains(s, "unlimited") || strings.Contains(s, "TCP No Delay") {
		t.Errorf("unexpected String():\n%s", s)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]logger.LogLevel{
		"debug":   logger.DEBUG,
		"INFO":    logger.INFO,
		"warn":    logger.WARNING,
		"warning": logger.WARNING,
		"error":   logger.ERROR,
	}
	for in, want := range tests {
		got, err := ParseLogLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLogLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLogLevel("trace"); err == nil {
		t.Errorf("ParseLogLevel(trace) should fail")
	}
	if err := InitLoggers("nope"); err == nil {
		t.Errorf("InitLoggers(nope) should fail")
	}
	if err := InitLoggers("debug"); err != nil {
		t.Errorf("InitLoggers(debug) failed: %v", err)
	}
}
