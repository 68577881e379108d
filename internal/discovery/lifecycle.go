package discovery

import (
	"context"
	"errors"
	"log/slog"
)

// ErrAlreadyRunning is returned by Start when the pipeline is already
// active — starting twice without an intervening Stop is a caller error.
var ErrAlreadyRunning = errors.New("discovery: pipeline already running")

// Start launches the three pipeline stages (paginator, album fetcher,
// track expander) as goroutines and returns immediately. It is an error to
// call Start while already running.
func (c *Context) Start(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	c.wg.Add(3)
	go c.runStageA(ctx)
	go c.runStageB(ctx)
	go c.runStageC()

	slog.Info("discovery: pipeline started")
	return nil
}

// Stop signals every stage to wind down and blocks until all three have
// exited. Calling Stop when not running is a harmless no-op.
func (c *Context) Stop() {
	if !c.running.CompareAndSwap(true, false) {
		return
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	<-done

	slog.Info("discovery: pipeline stopped")
}
