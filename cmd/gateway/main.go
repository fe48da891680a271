package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/l2core/backend/internal/config"
	"github.com/l2core/backend/internal/gateway"
)

const configPathEnv = "L2CORE_GATEWAY_CONFIG"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := "config/gateway.yaml"
	if p := os.Getenv(configPathEnv); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadGateway(cfgPath)
	if err != nil {
		return fmt.Errorf("loading gateway config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Info("gateway starting", "bind", cfg.BindAddress, "port", cfg.Port)

	gameAddr := fmt.Sprintf("%s:%d", cfg.GameHost, cfg.GamePort)
	srv, err := gateway.NewServer(fmt.Sprintf("%s:%d", cfg.BindAddress, cfg.Port), gameAddr)
	if err != nil {
		// No point accepting clients without a simulation (spec §4.3).
		return fmt.Errorf("creating gateway server: %w", err)
	}

	return srv.Run(ctx)
}

func parseLogLevel(level string) slog.Level {
	switch level {
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
