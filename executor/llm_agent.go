package executor

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/codefix-ai/weave/chat"
	"github.com/codefix-ai/weave/graph"
)

// LLM agent node config keys.
const (
	ConfigPrompt       = "prompt"
	ConfigSystemPrompt = "system_prompt"
	ConfigModel        = "model"
)

// LLMAgentExecutor runs "LLMAgent" nodes: it renders the node's prompt
// template against the effective input and sends it to the chat collaborator.
// Failures from the collaborator are node-level errors.
type LLMAgentExecutor struct {
	client chat.Client
	logger *zap.Logger
}

// NewLLMAgentExecutor creates an LLM agent executor over the given client.
func NewLLMAgentExecutor(client chat.Client, logger *zap.Logger) *LLMAgentExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMAgentExecutor{
		client: client,
		logger: logger.With(zap.String("component", "llm_agent_executor")),
	}
}

// Validate requires a prompt template in the node config.
func (e *LLMAgentExecutor) Validate(_ context.Context, node *graph.WorkflowNode) error {
	if _, ok := node.Config[ConfigPrompt].(string); !ok {
		return fmt.Errorf("llm agent node %s: config key %q missing or not a string", node.ID, ConfigPrompt)
	}
	return nil
}

// Execute renders the prompt and calls the chat collaborator. The response
// text is returned under "response"; when the node declares output ports the
// first port name is used instead.
func (e *LLMAgentExecutor) Execute(ctx context.Context, node *graph.WorkflowNode, input map[string]any) (map[string]any, error) {
	prompt, _ := node.Config[ConfigPrompt].(string)
	rendered := renderTemplate(prompt, input)

	req := &chat.Request{
		Messages: []chat.Message{{Role: chat.RoleUser, Content: rendered}},
	}
	if system, ok := node.Config[ConfigSystemPrompt].(string); ok && system != "" {
		req.Messages = append([]chat.Message{{Role: chat.RoleSystem, Content: system}}, req.Messages...)
	}
	if model, ok := node.Config[ConfigModel].(string); ok {
		req.Model = model
	}

	resp, err := e.client.SendMessage(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}

	e.logger.Debug("llm agent responded",
		zap.String("node_id", node.ID),
		zap.Int("response_len", len(resp.Content)),
	)

	key := "response"
	if len(node.OutputPorts) > 0 {
		key = node.OutputPorts[0]
	}
	return map[string]any{key: resp.Content}, nil
}

// renderTemplate substitutes ${key} references in the prompt with stringified
// input values. Unknown references are left untouched.
func renderTemplate(tmpl string, input map[string]any) string {
	if len(input) == 0 || !strings.Contains(tmpl, "${") {
		return tmpl
	}
	out := tmpl
	for key, value := range input {
		out = strings.ReplaceAll(out, "${"+key+"}", fmt.Sprintf("%v", value))
	}
	return out
}
