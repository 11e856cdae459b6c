package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// runHandoff walks the graph from the designated entry node, transferring
// control wherever a completed node's output names a handoff target. Handoff
// graphs may be cyclic, so the walk is bounded by a maximum hop count.
func runHandoff(ctx context.Context, r *run) error {
	current, err := r.idx.EntryNode()
	if err != nil {
		return err
	}
	if !r.participates(current) {
		return fmt.Errorf("handoff entry node %s does not participate in orchestration", current)
	}

	maxHops := r.def.Config.MaxHops
	if maxHops <= 0 {
		maxHops = r.engine.defaults.DefaultMaxHops
	}

	for hop := 0; hop < maxHops; hop++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		output, err := r.executeNodeWith(ctx, current, r.aggregateInput())
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if r.bestEffort(current) {
				return nil // a failed best-effort node cannot name a target
			}
			return fmt.Errorf("node %s failed: %w", current, err)
		}

		target, _ := output[KeyHandoffTarget].(string)
		if target == "" {
			return nil
		}
		if _, ok := r.idx.Node(target); !ok || !r.participates(target) {
			err := fmt.Errorf("handoff target %q is not a participating node", target)
			r.recordError(current, err)
			return err
		}

		r.logger.Debug("handoff",
			zap.String("from", current),
			zap.String("to", target),
			zap.Int("hop", hop+1),
		)
		current = target
	}

	r.logger.Info("handoff hop budget exhausted", zap.Int("max_hops", maxHops))
	return nil
}
