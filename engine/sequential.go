package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/codefix-ai/weave/router"
)

// runSequential executes participating nodes one at a time in a stable
// topological order: declaration order broken only by dependency edges. The
// first unrecovered node error aborts the remaining nodes, unless the failing
// node is marked best-effort.
func runSequential(ctx context.Context, r *run) error {
	order, err := r.idx.TopoSort()
	if err != nil {
		// Validation rejects cyclic graphs for sequential orchestration.
		return err
	}

	for _, nodeID := range order {
		if !r.participates(nodeID) {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if !router.Eligible(r.idx, nodeID, r.output) {
			r.logger.Debug("skipping inactive branch node", zap.String("node_id", nodeID))
			continue
		}

		if _, err := r.executeNode(ctx, nodeID); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if r.bestEffort(nodeID) {
				r.logger.Info("continuing past best-effort node failure", zap.String("node_id", nodeID))
				continue
			}
			return fmt.Errorf("node %s failed: %w", nodeID, err)
		}
	}
	return nil
}
