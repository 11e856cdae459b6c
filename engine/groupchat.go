package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/codefix-ai/weave/graph"
)

// runGroupChat drives a rotating panel of participants over a bounded number
// of turns. PrimaryExecutor nodes speak before Assistants; each turn receives
// the initial input plus the accumulated transcript. The run terminates early
// when the consensus policy accepts a turn's output.
func runGroupChat(ctx context.Context, r *run) error {
	panel := groupChatPanel(r)
	if len(panel) == 0 {
		return fmt.Errorf("group chat requires at least one node with a %s or %s role",
			graph.RolePrimaryExecutor, graph.RoleAssistant)
	}

	maxTurns := r.def.Config.MaxTurns
	if maxTurns <= 0 {
		maxTurns = r.engine.defaults.DefaultMaxTurns
	}

	transcript := make([]any, 0, maxTurns)
	for turn := 0; turn < maxTurns; turn++ {
		speaker := panel[turn%len(panel)]

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		input := r.aggregateInput()
		input["transcript"] = append([]any(nil), transcript...)
		input["turn"] = turn

		output, err := r.executeNodeWith(ctx, speaker, input)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if r.bestEffort(speaker) {
				continue
			}
			return fmt.Errorf("node %s failed: %w", speaker, err)
		}

		transcript = append(transcript, map[string]any{
			"node":   speaker,
			"turn":   turn,
			"output": output,
		})

		if r.engine.consensus(speaker, output) {
			r.logger.Info("group chat reached consensus",
				zap.String("node_id", speaker),
				zap.Int("turns", turn+1),
			)
			return nil
		}
	}

	r.logger.Info("group chat turn budget exhausted", zap.Int("max_turns", maxTurns))
	return nil
}

// groupChatPanel selects participating panel members: primaries first, then
// assistants, each in declaration order.
func groupChatPanel(r *run) []string {
	var primaries, assistants []string
	for _, node := range r.def.Participants() {
		switch {
		case node.Settings.HasRole(graph.RolePrimaryExecutor):
			primaries = append(primaries, node.ID)
		case node.Settings.HasRole(graph.RoleAssistant):
			assistants = append(assistants, node.ID)
		}
	}
	return append(primaries, assistants...)
}
