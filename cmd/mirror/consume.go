package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zoobzio/mirror/internal/source"
)

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Apply gateway dispatches published on NATS",
	Long: `Subscribe to a NATS subject carrying gateway dispatch envelopes and apply
each one until interrupted.`,
	Args:    cobra.NoArgs,
	PreRunE: bindFlags,
	RunE:    runConsume,
}

func init() {
	setupRunnerFlags(consumeCmd)

	key := "nats-url"
	consumeCmd.Flags().String(key, nats.DefaultURL, WrapString("NATS server URL"))
	key = "subject"
	consumeCmd.Flags().String(key, "gateway.dispatch", WrapString("Subject carrying dispatch envelopes"))
	key = "queue"
	consumeCmd.Flags().String(key, "", WrapString("Queue group to join so several consumers can share the subject"))
	key = "message-timeout"
	consumeCmd.Flags().Duration(key, source.DefaultMessageTimeout, WrapString("Upper bound on handling a single message"))
}

func runConsume(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := nats.Connect(viper.GetString("nats-url"),
		nats.Name("mirror"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return err
	}
	defer conn.Close()

	src := source.NewNATS(conn, viper.GetString("subject"), viper.GetString("queue")).
		WithTimeout(viper.GetDuration("message-timeout"))
	return run(ctx, cmd, src)
}
