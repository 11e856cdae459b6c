package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func visualDef() *WorkflowDefinition {
	triage := participantNode("triage", NodeTypeLLMAgent)
	triage.Name = "Triage"
	gate := participantNode("gate", NodeTypeConditionalAgent)
	gate.OutputPorts = []string{"approve", "reject"}
	ship := participantNode("ship", NodeTypeToolAgent)
	review := participantNode("review", NodeTypeLLMAgent)

	return &WorkflowDefinition{
		ID:            "wf-visual",
		Name:          "visual",
		Orchestration: OrchestrationSequential,
		Nodes:         []WorkflowNode{triage, gate, ship, review},
		Connections: []WorkflowConnection{
			dataFlow("c1", "triage", "gate"),
			{ID: "c2", SourceID: "gate", TargetID: "ship", SourcePort: "approve", Type: ConnectionConditionalBranch},
			{ID: "c3", SourceID: "gate", TargetID: "review", SourcePort: "reject", Type: ConnectionConditionalBranch},
			{ID: "c4", SourceID: "triage", TargetID: "ship", Type: ConnectionControlFlow},
		},
	}
}

func TestToMermaid(t *testing.T) {
	t.Parallel()
	out := visualDef().ToMermaid()

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, `triage["Triage"]`)
	assert.Contains(t, out, `ship["ship"]`) // unnamed nodes fall back to the id
	assert.Contains(t, out, "triage --> gate")
	assert.Contains(t, out, "gate -->|approve| ship")
	assert.Contains(t, out, "gate -->|reject| review")
	assert.Contains(t, out, "triage -.-> ship")

	assert.Contains(t, out, "classDef agentNode")
	assert.Contains(t, out, "class triage agentNode")
	assert.Contains(t, out, "class gate conditionNode")
	assert.Contains(t, out, "class ship toolNode")
}

func TestToDOT(t *testing.T) {
	t.Parallel()
	out := visualDef().ToDOT()

	assert.True(t, strings.HasPrefix(out, "digraph Workflow {\n"))
	assert.True(t, strings.HasSuffix(out, "}"))
	assert.Contains(t, out, "rankdir=LR;")
	assert.Contains(t, out, `triage [label="Triage", fillcolor=lightblue, style="filled,rounded"];`)
	assert.Contains(t, out, `gate [label="gate", fillcolor=plum, style="filled,rounded"];`)
	assert.Contains(t, out, `ship [label="ship", fillcolor=lightyellow, style="filled,rounded"];`)
	assert.Contains(t, out, "triage -> gate;")
	assert.Contains(t, out, `gate -> ship [label="approve"];`)
	assert.Contains(t, out, "triage -> ship [style=dashed];")
}

func TestToMermaid_UnknownTypeUnstyled(t *testing.T) {
	t.Parallel()
	def := &WorkflowDefinition{
		ID:            "wf-plain",
		Orchestration: OrchestrationSequential,
		Nodes:         []WorkflowNode{participantNode("solo", "Task")},
	}

	out := def.ToMermaid()
	assert.Contains(t, out, `solo["solo"]`)
	assert.NotContains(t, out, "class solo")
}
