package main

import (
	"flag"
	"log/slog"
	"os"

	"cityscape/internal/game"
	"cityscape/internal/sim"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg := sim.DefaultConfig()
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		log.Warn("ignoring environment overrides", "err", err)
	}
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "err", err)
		os.Exit(2)
	}

	log.Info("starting", "seed", cfg.Seed, "motion", cfg.Motion, "scene", cfg.ScenePath)
	if err := game.RunDesktop(cfg, log); err != nil {
		log.Error("exiting", "err", err)
		os.Exit(1)
	}
}
