package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"stockwatch/lib/configutil"
	"stockwatch/lib/telemetry"
	"stockwatch/services/stockwatch"

	"github.com/spf13/cobra"
)

// returns a context that will live until Ctrl+C is pressed
func signalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	return ctx
}

func fatal(message string, err error) {
	slog.Error(message, "err", err.Error())
	os.Exit(1)
}

var rootCmd = &cobra.Command{
	Use:   "stockwatch",
	Short: "stockwatch probes product stock by sku and reports changes since the last run.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		tel, err := telemetry.SetupFromEnv(ctx, "stockwatch")
		if err != nil {
			fatal("failed to set up telemetry", err)
		}
		defer tel.Shutdown(context.Background())
		telemetry.InstrumentPerfStats(ctx)

		config, err := configutil.ReadConfig[stockwatch.Config]("config.json5")
		if os.IsNotExist(err) {
			slog.Info("no config.json5 found, using defaults")
			config = stockwatch.DefaultConfig()
		} else if err != nil {
			fatal("failed to load configuration", err)
		}

		service, err := stockwatch.NewService(config)
		if err != nil {
			fatal("failed to initialize", err)
		}

		summary, err := service.Run(ctx)
		if errors.Is(err, context.Canceled) {
			slog.Warn("run interrupted, previous state left untouched")
			os.Exit(1)
		}
		if err != nil {
			fatal("stock check failed", err)
		}

		stockwatch.RenderSummary(os.Stdout, summary)
	},
}

func main() {
	err := rootCmd.ExecuteContext(signalContext())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
