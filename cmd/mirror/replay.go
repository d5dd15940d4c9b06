package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zoobzio/mirror/internal/replay"
	"github.com/zoobzio/mirror/internal/source"
)

var replayCmd = &cobra.Command{
	Use:   "replay [file]",
	Short: "Apply recorded gateway dispatches",
	Long: `Apply gateway dispatches recorded as NDJSON, one {"t": ..., "d": ...}
envelope per line. Reads stdin when file is omitted or "-".`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: bindFlags,
	RunE:    runReplay,
}

func init() {
	setupRunnerFlags(replayCmd)
}

// setupRunnerFlags adds the worker pool flags shared by replay and consume.
func setupRunnerFlags(cmd *cobra.Command) {
	def := replay.DefaultConfig()

	key := "workers"
	cmd.Flags().Int(key, def.Workers, WrapString("Number of workers. Events of one guild, or of one channel outside guilds, always run on the same worker"))
	key = "queue-size"
	cmd.Flags().Int(key, def.QueueSize, WrapString("Buffered events per worker"))
	key = "stop-on-error"
	cmd.Flags().Bool(key, false, WrapString("Abort at the first failed update instead of logging it and continuing"))
}

func runnerConfig() replay.Config {
	return replay.Config{
		Workers:     viper.GetInt("workers"),
		QueueSize:   viper.GetInt("queue-size"),
		StopOnError: viper.GetBool("stop-on-error"),
	}
}

func runReplay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	return run(ctx, cmd, source.NewNDJSON(in))
}

// run applies src to the configured cache and prints a summary.
func run(ctx context.Context, cmd *cobra.Command, src source.Source) error {
	logger := setupLogger(cmd.ErrOrStderr(), viper.GetString("log-level"), viper.GetString("log-format"))
	defer observe(logger)()
	serveMetrics(ctx, viper.GetString("metrics-addr"), logger)

	cache, closeCache, err := openCache(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeCache(); err != nil {
			logger.Warn("failed to close driver", "error", err)
		}
	}()
	logger.LogAttrs(ctx, slog.LevelInfo, "cache ready",
		slog.String("resources", cache.Config().Resources.String()),
		slog.Bool("atomic", cache.Config().Atomic),
		slog.Int("message_cache_size", cache.Config().MessageCacheSize),
		slog.Bool("dry_run", viper.GetBool("dry-run")),
	)

	stats, err := replay.New(cache, runnerConfig(), logger).Run(ctx, src)
	printStats(cmd.OutOrStdout(), stats)
	return err
}

func printStats(w io.Writer, stats replay.Stats) {
	fmt.Fprintf(w, "run %s: read %d, applied %d, failed %d, undecodable %d in %s\n",
		stats.RunID, stats.Read, stats.Applied, stats.Failed, stats.Undecodable, stats.Duration)

	names := make([]string, 0, len(stats.ByEvent))
	for name := range stats.ByEvent {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-32s %d\n", name, stats.ByEvent[name])
	}
}
