package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/l2core/backend/internal/config"
	"github.com/l2core/backend/internal/worldsvc"
)

const configPathEnv = "L2CORE_WORLD_CONFIG"

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := "config/worldserver.yaml"
	if p := os.Getenv(configPathEnv); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadWorldServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading world config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	endpoints := make(map[int32]worldsvc.GatewayEndpoint, len(cfg.GameWorlds))
	for _, w := range cfg.GameWorlds {
		endpoints[w.WorldID] = worldsvc.GatewayEndpoint{IP: w.GatewayIP, Port: int32(w.GatewayPort)}
	}
	slog.Info("world server starting", "bind", cfg.BindAddress, "port", cfg.Port, "worlds", len(endpoints))

	srv := worldsvc.NewServer(worldsvc.NewRegistry(endpoints))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		srv.Close()
	}()

	return srv.Serve(fmt.Sprintf("%s:%d", cfg.BindAddress, cfg.Port))
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
