package main

import (
	"context"

	"github.com/spf13/viper"

	"github.com/DaanHessen/humanos-tui/internal/credentials"
	"github.com/DaanHessen/humanos-tui/internal/engine"
	"github.com/DaanHessen/humanos-tui/internal/flow"
	"github.com/DaanHessen/humanos-tui/internal/logging"
	"github.com/DaanHessen/humanos-tui/internal/store"
	"github.com/DaanHessen/humanos-tui/internal/util"
)

// app wires configuration, storage and the simulation client for every
// command. newSimulator is swapped out in tests.
type app struct {
	v            *viper.Viper
	cfg          util.Config
	slots        store.Slots
	history      *store.History
	newSimulator func(util.Config) (flow.Simulator, error)
}

func newApp() *app {
	return &app{v: util.NewViper(), newSimulator: geminiSimulator}
}

func geminiSimulator(cfg util.Config) (flow.Simulator, error) {
	tier, err := engine.ParseTier(cfg.Tier)
	if err != nil {
		return nil, err
	}
	opts := engine.Options{
		Tier:           tier,
		ProModel:       cfg.ProModel,
		FlashModel:     cfg.FlashModel,
		ThinkingBudget: cfg.ThinkingBudget,
	}
	keys := credentials.NewResolver(cfg.KeyFile)
	return engine.NewClient(engine.DialGemini(cfg.BaseURL), keys, opts, logging.NewLLMLogger("engine")), nil
}

// loadConfig reads config and opens the log files.
func (a *app) loadConfig() error {
	cfg, err := util.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return logging.Init(cfg.LogDir)
}

// open loads config and the configured history backend.
func (a *app) open(ctx context.Context) error {
	if err := a.loadConfig(); err != nil {
		return err
	}
	slots, err := store.Open(ctx, a.cfg)
	if err != nil {
		return err
	}
	a.slots = slots
	a.history = store.NewHistory(slots, logging.NewComponentLogger("history"))
	return nil
}

// controller builds a flow controller over the opened history.
func (a *app) controller(bridge credentials.Bridge) (*flow.Controller, error) {
	sim, err := a.newSimulator(a.cfg)
	if err != nil {
		return nil, err
	}
	return flow.NewController(sim, a.history, bridge, logging.NewComponentLogger("flow")), nil
}

func (a *app) close() {
	if a.slots != nil {
		if err := a.slots.Close(); err != nil {
			logging.NewComponentLogger("history").Warn("close history backend: %v", err)
		}
		a.slots = nil
	}
	logging.Close()
}
