package engine

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Barrier is a reusable rendezvous for a fixed number of participants.
// A generation either releases every waiter or breaks for every waiter;
// once broken the barrier stays broken.
type Barrier struct {
	name    string
	parties int
	timeout time.Duration // 0 disables stall detection

	mu  sync.Mutex
	gen *generation
}

type generation struct {
	arrived map[int]bool
	done    chan struct{}
	err     error // written before done is closed
}

func newGeneration(parties int) *generation {
	return &generation{
		arrived: make(map[int]bool, parties),
		done:    make(chan struct{}),
	}
}

// NewBarrier creates a barrier for parties participants. A waiter blocked
// longer than timeout breaks the barrier with ErrProtocolViolation.
func NewBarrier(name string, parties int, timeout time.Duration) *Barrier {
	if parties < 1 {
		panic(fmt.Sprintf("engine: barrier %s needs at least one party, got %d", name, parties))
	}
	return &Barrier{
		name:    name,
		parties: parties,
		timeout: timeout,
		gen:     newGeneration(parties),
	}
}

// Wait blocks until every participant has arrived. participant identifies the
// caller and must be unique among the parties.
func (b *Barrier) Wait(ctx context.Context, participant int) error {
	b.mu.Lock()
	g := b.gen
	if g.err != nil {
		b.mu.Unlock()
		return g.err
	}
	if err := ctx.Err(); err != nil {
		err = fmt.Errorf("%w at %s: %w", ErrBarrierBroken, b.name, err)
		b.breakLocked(g, err)
		b.mu.Unlock()
		return err
	}
	if g.arrived[participant] {
		err := fmt.Errorf("%w: participant %d arrived twice at %s", ErrProtocolViolation, participant, b.name)
		b.breakLocked(g, err)
		b.mu.Unlock()
		return err
	}
	g.arrived[participant] = true
	if len(g.arrived) == b.parties {
		close(g.done)
		b.gen = newGeneration(b.parties)
		b.mu.Unlock()
		return nil
	}
	b.mu.Unlock()

	var stall <-chan time.Time
	if b.timeout > 0 {
		timer := time.NewTimer(b.timeout)
		defer timer.Stop()
		stall = timer.C
	}

	select {
	case <-g.done:
		return g.err
	case <-ctx.Done():
		return b.abandon(g, func(int) error {
			return fmt.Errorf("%w at %s: %w", ErrBarrierBroken, b.name, ctx.Err())
		})
	case <-stall:
		return b.abandon(g, func(arrived int) error {
			return fmt.Errorf("%w: %s stalled for %s with %d of %d arrived",
				ErrProtocolViolation, b.name, b.timeout, arrived, b.parties)
		})
	}
}

// Name returns the barrier's label.
func (b *Barrier) Name() string {
	return b.name
}

// Broken reports whether the barrier has been abandoned.
func (b *Barrier) Broken() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gen.err != nil
}

// abandon breaks generation g unless it already tripped or broke, in which
// case the existing outcome wins.
func (b *Barrier) abandon(g *generation, cause func(arrived int) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	select {
	case <-g.done:
		return g.err
	default:
	}
	err := cause(len(g.arrived))
	b.breakLocked(g, err)
	return err
}

func (b *Barrier) breakLocked(g *generation, err error) {
	g.err = err
	close(g.done)
}
