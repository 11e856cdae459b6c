package graph

import "time"

// OrchestrationType selects the execution strategy for a workflow.
type OrchestrationType string

const (
	// OrchestrationSequential executes nodes one at a time in topological order.
	OrchestrationSequential OrchestrationType = "sequential"
	// OrchestrationConcurrent executes dependency-free groups in parallel.
	OrchestrationConcurrent OrchestrationType = "concurrent"
	// OrchestrationGroupChat drives a rotating panel of participants over bounded turns.
	OrchestrationGroupChat OrchestrationType = "group_chat"
	// OrchestrationHandoff walks the graph following explicit handoff targets.
	OrchestrationHandoff OrchestrationType = "handoff"
	// OrchestrationMagentic lets a supervisor node plan subordinate invocations iteratively.
	OrchestrationMagentic OrchestrationType = "magentic"
)

// ConnectionType defines the semantics of an edge.
type ConnectionType string

const (
	// ConnectionDataFlow propagates the source node's output into the target's input.
	ConnectionDataFlow ConnectionType = "data_flow"
	// ConnectionControlFlow signals eligibility only; no data is transferred.
	ConnectionControlFlow ConnectionType = "control_flow"
	// ConnectionConditionalBranch activates only when the source's branch
	// decision matches the connection's source port.
	ConnectionConditionalBranch ConnectionType = "conditional_branch"
)

// NodeRole describes how a node participates in orchestration.
type NodeRole string

const (
	RolePrimaryExecutor NodeRole = "primary_executor"
	RoleAssistant       NodeRole = "assistant"
	RoleSupervisor      NodeRole = "supervisor"
)

// Node type tags recognized by the built-in executors. The registry is open:
// any string tag with a registered executor is valid.
const (
	NodeTypeLLMAgent         = "LLMAgent"
	NodeTypeToolAgent        = "ToolAgent"
	NodeTypeConditionalAgent = "ConditionalAgent"
)

// OrchestrationSettings configures a node's participation in orchestration.
type OrchestrationSettings struct {
	// Participates marks the node as schedulable by the dispatcher.
	Participates bool `json:"participates" yaml:"participates"`
	// Parallel permits the node to run alongside others in concurrent groups.
	Parallel bool `json:"parallel" yaml:"parallel"`
	// BestEffort records failures without aborting the rest of the run.
	BestEffort bool `json:"best_effort,omitempty" yaml:"best_effort,omitempty"`
	// Roles a participating node must declare at least one role.
	Roles []NodeRole `json:"roles,omitempty" yaml:"roles,omitempty"`
}

// HasRole reports whether the settings declare the given role.
func (s OrchestrationSettings) HasRole(role NodeRole) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// WorkflowNode is a single unit of work in a workflow.
type WorkflowNode struct {
	// ID is unique within the workflow.
	ID string `json:"id" yaml:"id"`
	// Type is the declared node type tag, e.g. "LLMAgent".
	Type string `json:"type" yaml:"type"`
	// Name is a human-readable label.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// Config is the static configuration payload (agent definition, prompt
	// templates, tool bindings). Interpreted by the node's executor.
	Config map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
	// InputPorts and OutputPorts declare the node's data interface.
	InputPorts  []string `json:"input_ports,omitempty" yaml:"input_ports,omitempty"`
	OutputPorts []string `json:"output_ports,omitempty" yaml:"output_ports,omitempty"`
	// Settings configures orchestration participation.
	Settings OrchestrationSettings `json:"settings" yaml:"settings"`
}

// WorkflowConnection is a directed edge between two nodes.
type WorkflowConnection struct {
	ID         string         `json:"id" yaml:"id"`
	SourceID   string         `json:"source_id" yaml:"source_id"`
	TargetID   string         `json:"target_id" yaml:"target_id"`
	SourcePort string         `json:"source_port,omitempty" yaml:"source_port,omitempty"`
	TargetPort string         `json:"target_port,omitempty" yaml:"target_port,omitempty"`
	Type       ConnectionType `json:"type" yaml:"type"`
	// AllowedOrchestrations restricts which orchestration types may traverse
	// this connection. Empty means all.
	AllowedOrchestrations []OrchestrationType `json:"allowed_orchestrations,omitempty" yaml:"allowed_orchestrations,omitempty"`
}

// AllowsOrchestration reports whether the connection may be traversed under
// the given orchestration type.
func (c *WorkflowConnection) AllowsOrchestration(ot OrchestrationType) bool {
	if len(c.AllowedOrchestrations) == 0 {
		return true
	}
	for _, allowed := range c.AllowedOrchestrations {
		if allowed == ot {
			return true
		}
	}
	return false
}

// OrchestrationConfig carries strategy parameters for a workflow.
type OrchestrationConfig struct {
	// MaxConcurrentExecutions bounds simultaneously running node executions
	// within one run (concurrent strategy). Zero means unbounded.
	MaxConcurrentExecutions int `json:"max_concurrent_executions,omitempty" yaml:"max_concurrent_executions,omitempty"`
	// ExecutionTimeout bounds the whole run. Zero means no timeout.
	ExecutionTimeout time.Duration `json:"execution_timeout,omitempty" yaml:"execution_timeout,omitempty"`
	// MaxTurns bounds group-chat turns.
	MaxTurns int `json:"max_turns,omitempty" yaml:"max_turns,omitempty"`
	// MaxHops bounds handoff walks, since handoff graphs may be cyclic.
	MaxHops int `json:"max_hops,omitempty" yaml:"max_hops,omitempty"`
	// MaxPlanIterations bounds magentic re-planning rounds.
	MaxPlanIterations int `json:"max_plan_iterations,omitempty" yaml:"max_plan_iterations,omitempty"`
	// EntryNode designates the starting node for handoff and magentic runs.
	// Defaults to the first declared entry node.
	EntryNode string `json:"entry_node,omitempty" yaml:"entry_node,omitempty"`
	// Parameters holds strategy-specific extras.
	Parameters map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// WorkflowDefinition is the immutable-after-publish description of a workflow.
type WorkflowDefinition struct {
	ID            string               `json:"id" yaml:"id"`
	Name          string               `json:"name" yaml:"name"`
	Orchestration OrchestrationType    `json:"orchestration" yaml:"orchestration"`
	Nodes         []WorkflowNode       `json:"nodes" yaml:"nodes"`
	Connections   []WorkflowConnection `json:"connections,omitempty" yaml:"connections,omitempty"`
	Config        OrchestrationConfig  `json:"config,omitempty" yaml:"config,omitempty"`
	Metadata      map[string]any       `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Node returns the node with the given id, if declared.
func (d *WorkflowDefinition) Node(id string) (*WorkflowNode, bool) {
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return &d.Nodes[i], true
		}
	}
	return nil, false
}

// Participants returns the nodes marked as participating, in declaration order.
func (d *WorkflowDefinition) Participants() []*WorkflowNode {
	out := make([]*WorkflowNode, 0, len(d.Nodes))
	for i := range d.Nodes {
		if d.Nodes[i].Settings.Participates {
			out = append(out, &d.Nodes[i])
		}
	}
	return out
}
