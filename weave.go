// Package weave provides a top-level convenience entry point for building a
// workflow engine with the built-in node executors registered.
//
// Usage:
//
//	import "github.com/codefix-ai/weave"
//
//	eng := weave.New(weave.Options{Chat: myClient, Logger: logger})
//	exec, err := eng.ExecuteWorkflow(ctx, def, input)
//
// This is a thin wrapper around [engine.New] plus default registrations; use
// the engine and executor packages directly for full control.
package weave

import (
	"go.uber.org/zap"

	"github.com/codefix-ai/weave/chat"
	"github.com/codefix-ai/weave/engine"
	"github.com/codefix-ai/weave/executor"
	"github.com/codefix-ai/weave/graph"
)

// Options configures the convenience constructor.
type Options struct {
	// Chat is the LLM collaborator used by LLMAgent nodes. Optional; when
	// nil, LLMAgent nodes cannot be registered.
	Chat chat.Client
	// Tools are bound to the ToolAgent executor by name.
	Tools map[string]executor.ToolFunc
	// Logger is used across the engine. Optional.
	Logger *zap.Logger
	// Engine options are passed through to engine.New.
	Engine []engine.Option
}

// New creates an engine with the built-in executors registered:
// ConditionalAgent and ToolAgent always, LLMAgent when a chat client is set.
func New(opts Options) *Engine {
	registry := executor.NewRegistry(opts.Logger)
	registry.Register(graph.NodeTypeConditionalAgent, executor.NewConditionalAgentExecutor(opts.Logger))

	tools := executor.NewToolAgentExecutor(opts.Logger)
	for name, fn := range opts.Tools {
		tools.RegisterTool(name, fn)
	}
	registry.Register(graph.NodeTypeToolAgent, tools)

	if opts.Chat != nil {
		registry.Register(graph.NodeTypeLLMAgent, executor.NewLLMAgentExecutor(opts.Chat, opts.Logger))
	}

	engineOpts := opts.Engine
	if opts.Logger != nil {
		engineOpts = append([]engine.Option{engine.WithLogger(opts.Logger)}, engineOpts...)
	}
	return engine.New(registry, engineOpts...)
}

// Engine is re-exported so callers of this package rarely need the engine
// import path.
type Engine = engine.Engine
