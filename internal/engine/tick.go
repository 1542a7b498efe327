// Package engine provides the phase-synchronized tick loop.
// Every registered agent runs on its own goroutine; each tick is split into
// Compute, Commit and Observe phases separated by barriers.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Role names the state an agent owns.
type Role string

// Agent is one participant in the tick protocol.
type Agent interface {
	Role() Role
	// Compute derives the agent's next value from the snapshot. It must not
	// write shared state.
	Compute(snap Snapshot) error
	// Commit writes the value computed this tick into the agent's own field.
	Commit(w *World)
}

// Observer is implemented by the single agent that reports on the committed
// state and advances the clock.
type Observer interface {
	Observe(w *World) error
}

// Coordinator drives registered agents through the three-phase protocol until
// the clock reaches EndYear.
type Coordinator struct {
	World        *World
	EndYear      int           // exclusive
	StallTimeout time.Duration // 0 disables stall detection

	agents   []Agent
	roles    map[Role]bool
	observer int // index into agents, -1 if none
	ticks    atomic.Int64

	computing *Barrier // DoneComputing
	assigning *Barrier // DoneAssigning
	printing  *Barrier // DonePrinting
}

// NewCoordinator creates a coordinator over w that stops at the start of endYear.
func NewCoordinator(w *World, endYear int) *Coordinator {
	return &Coordinator{
		World:    w,
		EndYear:  endYear,
		roles:    make(map[Role]bool),
		observer: -1,
	}
}

// Register adds agents. Roles must be unique and at most one agent may observe.
func (c *Coordinator) Register(agents ...Agent) error {
	for _, a := range agents {
		if c.roles[a.Role()] {
			return fmt.Errorf("%w: %s", ErrDuplicateRole, a.Role())
		}
		if _, ok := a.(Observer); ok {
			if c.observer >= 0 {
				return fmt.Errorf("%w: second observer %s (already have %s)",
					ErrDuplicateRole, a.Role(), c.agents[c.observer].Role())
			}
			c.observer = len(c.agents)
		}
		c.roles[a.Role()] = true
		c.agents = append(c.agents, a)
	}
	return nil
}

// Ticks returns the number of completed ticks.
func (c *Coordinator) Ticks() int64 {
	return c.ticks.Load()
}

// Run executes ticks until the clock reaches EndYear, an agent fails, or ctx
// is cancelled. Cancellation is observed only at barriers, so a tick is never
// left with some commits applied and others missing at the Compute boundary.
func (c *Coordinator) Run(ctx context.Context) error {
	if len(c.agents) == 0 {
		return ErrNoAgents
	}
	if c.observer < 0 {
		return ErrNoObserver
	}

	n := len(c.agents)
	c.computing = NewBarrier("DoneComputing", n, c.StallTimeout)
	c.assigning = NewBarrier("DoneAssigning", n, c.StallTimeout)
	c.printing = NewBarrier("DonePrinting", n, c.StallTimeout)

	slog.Info("simulation started",
		"agents", n,
		"clock", c.World.Clock.String(),
		"end_year", c.EndYear,
	)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	for i, a := range c.agents {
		g.Go(func() error {
			return c.loop(gctx, i, a)
		})
	}
	err := g.Wait()

	if err != nil {
		slog.Info("simulation stopped",
			"ticks", c.Ticks(),
			"clock", c.World.Clock.String(),
			"elapsed", time.Since(start),
			"error", err,
		)
		return err
	}
	slog.Info("simulation finished",
		"ticks", c.Ticks(),
		"clock", c.World.Clock.String(),
		"elapsed", time.Since(start),
	)
	return nil
}

// running is the loop-top termination check. The clock only moves during
// Observe, which every agent has waited out at DonePrinting, so all agents
// agree on the answer.
func (c *Coordinator) running() bool {
	return c.World.Clock.Year < c.EndYear
}

// loop is one agent's life: one pass per tick, three barriers per pass.
func (c *Coordinator) loop(ctx context.Context, id int, a Agent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s panicked: %v", ErrAgentFailed, a.Role(), r)
		}
	}()

	var obs Observer
	if id == c.observer {
		obs = a.(Observer)
	}

	for c.running() {
		snap := c.World.Snapshot()
		if err := a.Compute(snap); err != nil {
			return fmt.Errorf("%w: %s compute at %s: %w", ErrAgentFailed, a.Role(), snap.Clock, err)
		}
		if err := c.computing.Wait(ctx, id); err != nil {
			return err
		}

		a.Commit(c.World)
		if err := c.assigning.Wait(ctx, id); err != nil {
			return err
		}

		if obs != nil {
			if err := obs.Observe(c.World); err != nil {
				return fmt.Errorf("%w: %s observe at %s: %w", ErrAgentFailed, a.Role(), snap.Clock, err)
			}
			tick := c.ticks.Add(1)
			slog.Debug("tick complete", "tick", tick, "clock", c.World.Clock.String())
		}
		if err := c.printing.Wait(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
