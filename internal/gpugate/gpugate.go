// Package gpugate serializes access to the machine's GPU-bound work
// (the Clone step's voice-cloning collaborator) across concurrent
// pipeline runs using a weighted, FIFO-fair semaphore.
package gpugate

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Gate bounds concurrent GPU-bound work to a fixed permit count.
type Gate struct {
	sem *semaphore.Weighted
}

// New returns a Gate allowing at most permits concurrent holders.
// permits <= 0 is treated as 1, since a GPU gate with zero permits
// would deadlock every caller.
func New(permits int64) *Gate {
	if permits <= 0 {
		permits = 1
	}
	return &Gate{sem: semaphore.NewWeighted(permits)}
}

// Acquire blocks until a permit is available or ctx is done. Callers
// release exactly once via the returned func when done with the GPU,
// typically in a defer immediately after a successful Acquire.
func (g *Gate) Acquire(ctx context.Context) (release func(), err error) {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { g.sem.Release(1) }, nil
}
