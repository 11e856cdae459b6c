package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/codefix-ai/weave/graph"
)

// runMagentic drives a supervisor node that plans which subordinate to invoke
// next. The supervisor is re-invoked after every subordinate completion so it
// can re-plan on intermediate results, bounded by a maximum iteration count
// to guarantee termination.
func runMagentic(ctx context.Context, r *run) error {
	supervisor, err := magenticSupervisor(r)
	if err != nil {
		return err
	}

	maxIterations := r.def.Config.MaxPlanIterations
	if maxIterations <= 0 {
		maxIterations = r.engine.defaults.DefaultMaxPlanIterations
	}

	for iteration := 0; iteration < maxIterations; iteration++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		input := r.aggregateInput()
		input["iteration"] = iteration

		planOutput, err := r.executeNodeWith(ctx, supervisor, input)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("supervisor %s failed: %w", supervisor, err)
		}

		next, done := r.engine.planner(planOutput)
		if done || next == "" {
			r.logger.Debug("supervisor finished planning", zap.Int("iterations", iteration+1))
			return nil
		}
		if next == supervisor {
			err := fmt.Errorf("supervisor planned itself as subordinate")
			r.recordError(supervisor, err)
			return err
		}
		if _, ok := r.idx.Node(next); !ok || !r.participates(next) {
			err := fmt.Errorf("planned node %q is not a participating node", next)
			r.recordError(supervisor, err)
			return err
		}

		if _, err := r.executeNodeWith(ctx, next, r.aggregateInput()); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if r.bestEffort(next) {
				continue
			}
			return fmt.Errorf("node %s failed: %w", next, err)
		}
	}

	r.logger.Info("magentic iteration budget exhausted", zap.Int("max_iterations", maxIterations))
	return nil
}

// magenticSupervisor picks the first participating node with the Supervisor
// role, falling back to the resolved entry node.
func magenticSupervisor(r *run) (string, error) {
	for _, node := range r.def.Participants() {
		if node.Settings.HasRole(graph.RoleSupervisor) {
			return node.ID, nil
		}
	}
	entry, err := r.idx.EntryNode()
	if err != nil {
		return "", err
	}
	if !r.participates(entry) {
		return "", fmt.Errorf("magentic requires a participating supervisor node")
	}
	return entry, nil
}
