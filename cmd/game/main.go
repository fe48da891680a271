package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/l2core/backend/internal/config"
	"github.com/l2core/backend/internal/game"
	"github.com/l2core/backend/internal/navmesh"
	"github.com/l2core/backend/internal/zone"
)

const configPathEnv = "L2CORE_GAME_CONFIG"

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := "config/gameserver.yaml"
	if p := os.Getenv(configPathEnv); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadGameServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading game config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Info("game server starting", "bind", cfg.BindAddress, "port", cfg.Port)

	z := zone.New(cfg.World.Width, cfg.World.Height, cfg.World.SectorSize)

	nav := navmesh.NewAdapter()
	if cfg.NavMeshPath != "" {
		if err := nav.Load(cfg.NavMeshPath); err != nil {
			// Fall back to straight-line pathing (spec §7).
			slog.Warn("nav-mesh load failed, falling back to straight-line pathing", "path", cfg.NavMeshPath, "err", err)
		}
	}

	sim := game.NewSimulation(z, nav, nil)
	for _, sp := range cfg.Spawns {
		sim.SpawnMonster(sp.X, sp.Y, sp.MaxHP, sp.AttackPower, sp.AttackRange, sp.AttackCooldown, sp.Speed)
	}
	slog.Info("monsters spawned", "count", len(cfg.Spawns))

	exec := game.NewExecutor(256)
	defer exec.Close()

	stop := make(chan struct{})
	go sim.RunTickLoop(exec, stop)

	srv := game.NewServer(sim, exec)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		close(stop)
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
