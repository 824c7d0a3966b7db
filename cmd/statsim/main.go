// Package main provides the stat simulation binary: it builds entity sheets
// from a ruleset, optionally applies a Lua modifier script, and resolves a
// configured damage volley against every sheet in parallel.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/statforge/internal/config"
	"github.com/cory-johannsen/statforge/internal/game/damage"
	"github.com/cory-johannsen/statforge/internal/game/modifier"
	"github.com/cory-johannsen/statforge/internal/game/ruleset"
	"github.com/cory-johannsen/statforge/internal/game/sheet"
	"github.com/cory-johannsen/statforge/internal/observability"
	"github.com/cory-johannsen/statforge/internal/scripting"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	rulesPath := flag.String("rules", "", "override for rules.path from the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *rulesPath != "" {
		cfg.Rules.Path = *rulesPath
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	rs, err := ruleset.Load(cfg.Rules.Path)
	if err != nil {
		logger.Fatal("loading ruleset", zap.Error(err))
	}
	logger.Info("ruleset loaded",
		zap.String("path", cfg.Rules.Path),
		zap.Int("stats", len(rs.Stats)),
		zap.Int("elements", len(rs.Elements)),
	)

	sheets := make([]*sheet.Sheet, cfg.Simulation.Sheets)
	for i := range sheets {
		s, err := rs.NewSheet()
		if err != nil {
			logger.Fatal("building sheet", zap.Error(err))
		}
		sheets[i] = s
	}

	engine := modifier.NewEngine(logger)
	if cfg.Simulation.ModifierScript != "" {
		if err := applyScript(cfg, logger, engine, sheets); err != nil {
			logger.Fatal("applying modifier script", zap.Error(err))
		}
	}

	volley := make([]damage.Packet, 0, len(cfg.Simulation.Volley))
	for _, p := range cfg.Simulation.Volley {
		volley = append(volley, damage.Packet{ElementID: p.Element, Amount: p.Amount})
	}
	table := rs.MitigationTable()
	resolver := damage.Resolver{Strict: cfg.Simulation.Strict}

	totals := make([]float64, len(sheets))
	err = sheet.EachParallel(context.Background(), sheets, cfg.Simulation.Workers,
		func(_ context.Context, i int, s *sheet.Sheet) error {
			rep := resolver.ResolveReport(s.Stats(), volley, table)
			totals[i] = rep.Total
			for _, bb := range rep.BadBindings {
				logger.Warn("mitigation binding out of range",
					zap.Int32("element", bb.ElementID),
					zap.Int("index", bb.Index),
				)
			}
			return nil
		})
	if err != nil {
		logger.Fatal("resolving volleys", zap.Error(err))
	}

	var grand float64
	for _, t := range totals {
		grand += t
	}
	logger.Info("simulation complete",
		zap.Int("sheets", len(sheets)),
		zap.Int("packets_per_sheet", len(volley)),
		zap.Float64("total_damage", grand),
		zap.Uint64("recalculations", engine.Recalcs()),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// applyScript runs the configured Lua modifier script against the first
// stat of every sheet, applying the emitted modifiers as one batch.
func applyScript(cfg config.Config, logger *zap.Logger, engine *modifier.Engine, sheets []*sheet.Sheet) error {
	src, err := os.ReadFile(cfg.Simulation.ModifierScript)
	if err != nil {
		return err
	}
	runner := scripting.NewRunner(0, logger)
	for _, s := range sheets {
		sv, ok := s.Stat(0)
		if !ok {
			continue
		}
		ms, err := runner.Modifiers(string(src), sv)
		if err != nil {
			return err
		}
		engine.ApplyAll(sv, ms, true)
	}
	return nil
}
