// Command boursesim runs the mini-bourse economic clearing simulation.
package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/mini-bourse/internal/api"
	"github.com/talgya/mini-bourse/internal/config"
	"github.com/talgya/mini-bourse/internal/engine"
	"github.com/talgya/mini-bourse/internal/exchange"
	"github.com/talgya/mini-bourse/internal/persistence"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfgPath := flag.String("config", "bourse.yaml", "configuration file")
	flag.Parse()

	slog.Info("mini-bourse: AMM clearing engine simulation")

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		slog.Error("failed to load config", "path", *cfgPath, "error", err)
		os.Exit(1)
	}

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll(filepath.Dir(cfg.DB.Path), 0755)
	db, err := persistence.Open(cfg.DB.Path)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DB.Path)

	// ── Load or Seed Exchange State ───────────────────────────────────
	var x *exchange.Exchange
	var startTurn uint64
	runID := uuid.NewString()

	if db.HasState() {
		slog.Info("found saved exchange state, loading...")
		x, err = db.LoadExchange(cfg.Settings())
		if err != nil {
			slog.Error("failed to load exchange", "error", err)
			os.Exit(1)
		}
		if turnStr, err := db.GetMeta("last_turn"); err == nil {
			if t, err := strconv.ParseUint(turnStr, 10, 64); err == nil {
				startTurn = t
			}
		}
		if saved, err := db.GetMeta("run_id"); err == nil {
			runID = saved
		}
		slog.Info("exchange state restored", "markets", x.Len(), "turn", startTurn, "run_id", runID)
	} else {
		x = exchange.New(cfg.Settings())
		db.SetMeta("run_id", runID)
		slog.Info("seeded fresh exchange", "run_id", runID,
			"initial_capital", cfg.Exchange.InitialCapital,
			"dividend", cfg.Settings().DividendRate.String(),
		)
	}

	sim := engine.NewSimulation(x, cfg.Sim.Seed)
	sim.DefaultScenario()

	eng := engine.NewEngine()
	eng.Turn = startTurn
	eng.Interval = time.Duration(cfg.Sim.IntervalMS) * time.Millisecond
	eng.OnTurn = func(turn uint64) {
		sim.TickTurn(turn)
		if turn%10 == 0 {
			sim.Report()
		}
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	if cfg.API.Enabled {
		srv := &api.Server{Sim: sim, Eng: eng, Port: cfg.API.Port, RunID: runID}
		srv.Start()
	}

	save := func() {
		if err := db.SaveExchange(x); err != nil {
			slog.Error("failed to save exchange", "error", err)
			return
		}
		db.SetMeta("last_turn", strconv.FormatUint(sim.CurrentTurn(), 10))
		slog.Info("exchange state saved", "markets", x.Len(), "turn", sim.CurrentTurn())
	}

	// ── Run ───────────────────────────────────────────────────────────
	if cfg.Sim.Turns > 0 {
		eng.RunTurns(cfg.Sim.Turns)
		sim.Report()
		save()
		return
	}

	go eng.Run()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	slog.Info("shutting down...")
	eng.Stop()
	save()
}
