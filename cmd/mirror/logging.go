package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/zoobzio/capitan"

	"github.com/zoobzio/mirror"
)

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func setupLogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: strings.EqualFold(level, "debug"),
	}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler).With(
		"service", "mirror",
		"version", Version,
		"pid", os.Getpid(),
	)
}

// signalLevels assigns a log level to each engine signal. Failures are
// warnings; routine lifecycle signals are debug output.
var signalLevels = map[capitan.Signal]slog.Level{
	mirror.UpdateStarted:      slog.LevelDebug,
	mirror.UpdateCompleted:    slog.LevelDebug,
	mirror.UpdateFailed:       slog.LevelWarn,
	mirror.BatchExecuted:      slog.LevelDebug,
	mirror.BatchFailed:        slog.LevelWarn,
	mirror.ReconcileCompleted: slog.LevelDebug,
	mirror.MessageEvicted:     slog.LevelDebug,
	mirror.ReadCompleted:      slog.LevelDebug,
	mirror.ReadFailed:         slog.LevelWarn,
}

// observe writes every engine signal to logger until the returned function
// is called.
func observe(logger *slog.Logger) func() {
	listeners := make([]*capitan.Listener, 0, len(signalLevels))
	for sig, level := range signalLevels {
		listeners = append(listeners, capitan.Hook(sig, func(ctx context.Context, e *capitan.Event) {
			if !logger.Enabled(ctx, level) {
				return
			}
			logger.LogAttrs(ctx, level, e.Signal().Name(), fieldAttrs(e.Fields())...)
		}))
	}
	return func() {
		for _, l := range listeners {
			l.Close()
		}
	}
}

// fieldAttrs flattens capitan fields into slog attributes.
func fieldAttrs(fields []capitan.Field) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(fields))
	for _, f := range fields {
		name := f.Key().Name()
		switch v := f.Value().(type) {
		case string:
			attrs = append(attrs, slog.String(name, v))
		case int:
			attrs = append(attrs, slog.Int(name, v))
		case bool:
			attrs = append(attrs, slog.Bool(name, v))
		case time.Duration:
			attrs = append(attrs, slog.Duration(name, v))
		case error:
			attrs = append(attrs, slog.String(name, v.Error()))
		default:
			attrs = append(attrs, slog.Any(name, v))
		}
	}
	return attrs
}

// serveMetrics exposes /metrics on addr until ctx is done. An empty addr
// disables it.
func serveMetrics(ctx context.Context, addr string, logger *slog.Logger) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		metrics.WritePrometheus(w, true)
	})
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()
}
