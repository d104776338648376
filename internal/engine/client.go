// Package engine is the simulation client: it turns a profile and two
// scenarios into one structured-output request to the inference service and
// validates what comes back.
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/DaanHessen/humanos-tui/internal/domain"
	"github.com/DaanHessen/humanos-tui/internal/logging"
)

// Request is everything a Generator needs for one call.
type Request struct {
	Model          string
	Prompt         string
	Schema         Field
	ThinkingBudget int // 0 means no thinking config is sent
}

// Generator performs one structured-output call and returns the raw text.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// DialFunc creates a fresh Generator for the given API key.
type DialFunc func(ctx context.Context, apiKey string) (Generator, error)

// KeySource resolves the API key at call time.
type KeySource interface {
	APIKey() string
}

// Client runs simulations. It holds no connection: every call dials anew so a
// credential updated between calls is used immediately.
type Client struct {
	dial DialFunc
	keys KeySource
	opts Options
	log  logging.Logger
}

// NewClient wires a client. logger may be nil.
func NewClient(dial DialFunc, keys KeySource, opts Options, logger logging.Logger) *Client {
	return &Client{dial: dial, keys: keys, opts: opts.withDefaults(), log: logging.OrNop(logger)}
}

// Tier reports the configured tier.
func (c *Client) Tier() Tier { return c.opts.Tier }

// WithTier returns a copy of the client using another tier.
func (c *Client) WithTier(t Tier) *Client {
	cp := *c
	cp.opts.Tier = t
	return &cp
}

// RunSimulation makes exactly one attempt. Failures are *domain.SimulationError
// of kind Transport, Schema or EmptyResponse; Transport errors carry the raw
// failure text and are never reclassified here.
func (c *Client) RunSimulation(ctx context.Context, p domain.Profile, a, b domain.Scenario) (domain.Result, error) {
	model, budget := c.opts.model()
	req := Request{
		Model:          model,
		Prompt:         BuildPrompt(p, a, b),
		Schema:         ResultSchema,
		ThinkingBudget: budget,
	}
	start := time.Now()

	key := ""
	if c.keys != nil {
		key = c.keys.APIKey()
	}
	gen, err := c.dial(ctx, key)
	if err != nil {
		c.log.Warn("dial tier=%s model=%s failed: %v", c.opts.Tier, model, err)
		return domain.Result{}, domain.NewTransportError(err)
	}
	text, err := gen.Generate(ctx, req)
	if err != nil {
		c.log.Warn("generate tier=%s model=%s failed after %s: %v", c.opts.Tier, model, time.Since(start), err)
		return domain.Result{}, domain.NewTransportError(err)
	}
	res, err := ParseResult(text)
	if err != nil {
		var se *domain.SimulationError
		if errors.As(err, &se) {
			c.log.Warn("parse tier=%s model=%s kind=%s: %v", c.opts.Tier, model, se.Kind, err)
		}
		return domain.Result{}, err
	}
	c.log.Info("simulation ok tier=%s model=%s latency=%s tradeoffs=%d", c.opts.Tier, model, time.Since(start), len(res.TradeOffs))
	return res, nil
}
