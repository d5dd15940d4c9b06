package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zoobzio/mirror"
)

const (
	Version = "0.3.0"
)

var (
	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "mirror",
		Short: "mirror gateway events into redis",
		Long: fmt.Sprintf(`mirror (v%s)

Mirrors Discord gateway dispatches into Redis, keeping primary values,
membership sets and bounded message lists consistent per event.

Every flag can also be set through the environment as MIRROR_<FLAG>
(e.g. MIRROR_REDIS_URL=redis://localhost:6379/0). .env and .env.local
in the working directory are loaded first.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of mirror",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mirror v%s\n", Version)
		},
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.AddCommand(replayCmd)
	RootCmd.AddCommand(consumeCmd)
	RootCmd.AddCommand(inspectCmd)
	RootCmd.AddCommand(versionCmd)

	key := "redis-url"
	RootCmd.PersistentFlags().String(key, "redis://localhost:6379/0", WrapString("Redis connection URL"))
	key = "redis-mode"
	RootCmd.PersistentFlags().String(key, "multiplexed", WrapString("How connections are leased: multiplexed shares one client, pooled takes a dedicated connection per call"))
	key = "resources"
	RootCmd.PersistentFlags().String(key, "all", WrapString("Comma-separated categories to mirror (channel, emoji, guild, member, message, presence, reaction, role, user_current, user, voice_state, stage_instance, integration, sticker, all)"))
	key = "atomic"
	RootCmd.PersistentFlags().Bool(key, mirror.DefaultConfig().Atomic, WrapString("Execute each event's batch as MULTI/EXEC"))
	key = "message-cache-size"
	RootCmd.PersistentFlags().Int(key, mirror.DefaultMessageCacheSize, WrapString("Maximum number of messages kept per channel"))
	key = "codec"
	RootCmd.PersistentFlags().String(key, "msgpack", WrapString("Value codec (msgpack, json)"))
	key = "dry-run"
	RootCmd.PersistentFlags().Bool(key, false, WrapString("Write to an in-memory store instead of Redis"))
	key = "metrics-addr"
	RootCmd.PersistentFlags().String(key, "", WrapString("Serve Prometheus metrics on this address (e.g. :9090); disabled when empty"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "info", WrapString("Level at which logs are written (debug, info, warn, error)"))
	key = "log-format"
	RootCmd.PersistentFlags().String(key, "text", WrapString("Log output format (text, json)"))
}

// initConfig loads env files and binds environment variables.
func initConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("mirror")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// bindFlags binds a command's flags, including inherited ones, to viper.
func bindFlags(cmd *cobra.Command, _ []string) error {
	return viper.BindPFlags(cmd.Flags())
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// parseID parses a decimal snowflake argument.
func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
