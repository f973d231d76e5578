package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/mredis/cmd/kv"
	"github.com/ValentinKolb/mredis/cmd/serve"
	"github.com/ValentinKolb/mredis/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "mredis",
		Short: "minimal redis-like key-value server",
		Long: fmt.Sprintf(`mredis (v%s)

A minimal in-memory key-value server speaking a redis-like text protocol.
It keeps a fixed number of databases and persists them to snapshots.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of mredis",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("mredis v%s\n", Version)
		},
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(versionCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
