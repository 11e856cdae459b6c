package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/codefix-ai/weave/router"
)

// runConcurrent partitions nodes into dependency-free groups and executes
// each group in parallel, bounded by MaxConcurrentExecutions. The next group
// starts only once the current group has fully completed.
func runConcurrent(ctx context.Context, r *run) error {
	levels, err := r.idx.Levels()
	if err != nil {
		return err
	}

	limit := r.def.Config.MaxConcurrentExecutions
	if limit <= 0 {
		limit = r.engine.defaults.DefaultMaxConcurrent
	}
	if limit <= 0 {
		limit = len(r.def.Nodes)
	}
	// Counting admission gate shared by all node executions in this run.
	sem := semaphore.NewWeighted(int64(limit))

	for _, level := range levels {
		g, gctx := errgroup.WithContext(ctx)

		for _, nodeID := range level {
			if !r.participates(nodeID) {
				continue
			}
			if !router.Eligible(r.idx, nodeID, r.output) {
				continue
			}
			nodeID := nodeID
			// A node not cleared for parallel execution takes the whole
			// admission gate and runs exclusively within its group.
			weight := int64(1)
			if !r.parallelOK(nodeID) {
				weight = int64(limit)
			}
			g.Go(func() error {
				if err := sem.Acquire(gctx, weight); err != nil {
					return err
				}
				defer sem.Release(weight)

				if _, err := r.executeNode(gctx, nodeID); err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					if r.bestEffort(nodeID) {
						return nil
					}
					return fmt.Errorf("node %s failed: %w", nodeID, err)
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}
	}
	return nil
}
