package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	cmdUtil "github.com/ValentinKolb/mredis/cmd/util"
	"github.com/ValentinKolb/mredis/lib/db/hashtable"
	"github.com/ValentinKolb/mredis/lib/db/keyspace"
	"github.com/ValentinKolb/mredis/lib/store/lstore"
	"github.com/ValentinKolb/mredis/rpc/common"
	"github.com/ValentinKolb/mredis/rpc/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the mredis server",
		Long:    `Start the mredis server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is MREDIS_<flag> (e.g. MREDIS_KEYS_LIMIT=100)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// add flags
	cmdUtil.SetupTransportFlags(ServeCmd, "0.0.0.0:6379")

	key := "databases"
	ServeCmd.PersistentFlags().Int(key, keyspace.DefaultDatabases, cmdUtil.WrapString("The number of databases (SELECT accepts 0 to databases-1)"))

	key = "buckets"
	ServeCmd.PersistentFlags().Int(key, hashtable.DefaultBuckets, cmdUtil.WrapString("The number of buckets of every hashtable. Tables never grow, chains get longer instead"))

	key = "snapshot"
	ServeCmd.PersistentFlags().String(key, "dump.mrdb", cmdUtil.WrapString("Where SAVE writes the snapshot and where it is recovered from on startup. Either a file path or gs://bucket/object for Google Cloud Storage (empty = snapshots disabled)"))

	key = "keys-limit"
	ServeCmd.PersistentFlags().Int(key, lstore.DefaultKeysLimit, cmdUtil.WrapString("The maximum number of keys returned by KEYS, longer results are truncated (-1 = unlimited)"))

	key = "metrics-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("The address of the Prometheus metrics endpoint (e.g. localhost:9121, empty = disabled)"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	// read the configuration from the command line flags and environment variables
	serveCmdConfig.Transport = cmdUtil.GetTransportConfig()
	serveCmdConfig.Databases = viper.GetInt("databases")
	serveCmdConfig.Buckets = viper.GetInt("buckets")
	serveCmdConfig.SnapshotPath = viper.GetString("snapshot")
	serveCmdConfig.KeysLimit = viper.GetInt("keys-limit")
	serveCmdConfig.MetricsEndpoint = viper.GetString("metrics-endpoint")
	serveCmdConfig.LogLevel = viper.GetString("log-level")

	if err := serveCmdConfig.Validate(); err != nil {
		return err
	}
	return common.InitLoggers(serveCmdConfig.LogLevel)
}

// run starts the mredis server and blocks until it receives SIGINT or SIGTERM
func run(_ *cobra.Command, _ []string) error {
	t, err := cmdUtil.GetServerTransport(serveCmdConfig.Transport.Type)
	if err != nil {
		return err
	}

	serv, err := server.NewServer(*serveCmdConfig, t, nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serv.Serve(ctx)
}
