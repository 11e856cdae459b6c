package graph

import (
	"fmt"
	"strings"
)

// ToMermaid renders the definition as a Mermaid flowchart. Conditional-branch
// connections are labeled with their source port; control-flow connections
// are drawn dotted since they carry no data.
func (d *WorkflowDefinition) ToMermaid() string {
	var b strings.Builder
	b.WriteString("graph TD\n")

	for i := range d.Nodes {
		node := &d.Nodes[i]
		fmt.Fprintf(&b, "    %s[%q]\n", node.ID, displayLabel(node))
	}

	for i := range d.Connections {
		conn := &d.Connections[i]
		switch {
		case conn.Type == ConnectionControlFlow:
			fmt.Fprintf(&b, "    %s -.-> %s\n", conn.SourceID, conn.TargetID)
		case edgeLabel(conn) != "":
			fmt.Fprintf(&b, "    %s -->|%s| %s\n", conn.SourceID, edgeLabel(conn), conn.TargetID)
		default:
			fmt.Fprintf(&b, "    %s --> %s\n", conn.SourceID, conn.TargetID)
		}
	}

	b.WriteString("\n    %% Styling\n")
	b.WriteString("    classDef agentNode fill:#87CEEB,stroke:#333,stroke-width:2px\n")
	b.WriteString("    classDef toolNode fill:#FFE4B5,stroke:#333,stroke-width:2px\n")
	b.WriteString("    classDef conditionNode fill:#DDA0DD,stroke:#333,stroke-width:2px\n")

	for i := range d.Nodes {
		node := &d.Nodes[i]
		if class := mermaidClass(node.Type); class != "" {
			fmt.Fprintf(&b, "    class %s %s\n", node.ID, class)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// ToDOT renders the definition as a GraphViz digraph.
func (d *WorkflowDefinition) ToDOT() string {
	var b strings.Builder
	b.WriteString("digraph Workflow {\n")
	b.WriteString("    rankdir=LR;\n")
	b.WriteString("    node [shape=box, style=rounded];\n\n")

	for i := range d.Nodes {
		node := &d.Nodes[i]
		fmt.Fprintf(&b, "    %s [label=%q, fillcolor=%s, style=\"filled,rounded\"];\n",
			node.ID, displayLabel(node), dotColor(node.Type))
	}
	b.WriteString("\n")

	for i := range d.Connections {
		conn := &d.Connections[i]
		var attrs []string
		if label := edgeLabel(conn); label != "" {
			attrs = append(attrs, fmt.Sprintf("label=%q", label))
		}
		if conn.Type == ConnectionControlFlow {
			attrs = append(attrs, "style=dashed")
		}
		if len(attrs) > 0 {
			fmt.Fprintf(&b, "    %s -> %s [%s];\n", conn.SourceID, conn.TargetID, strings.Join(attrs, ", "))
		} else {
			fmt.Fprintf(&b, "    %s -> %s;\n", conn.SourceID, conn.TargetID)
		}
	}

	b.WriteString("}")
	return b.String()
}

func displayLabel(node *WorkflowNode) string {
	if node.Name != "" {
		return node.Name
	}
	return node.ID
}

// edgeLabel is the branch decision for conditional connections, nothing for
// the rest: data-flow arrows speak for themselves.
func edgeLabel(conn *WorkflowConnection) string {
	if conn.Type == ConnectionConditionalBranch {
		return conn.SourcePort
	}
	return ""
}

func mermaidClass(nodeType string) string {
	switch nodeType {
	case NodeTypeLLMAgent:
		return "agentNode"
	case NodeTypeToolAgent:
		return "toolNode"
	case NodeTypeConditionalAgent:
		return "conditionNode"
	default:
		return ""
	}
}

func dotColor(nodeType string) string {
	switch nodeType {
	case NodeTypeLLMAgent:
		return "lightblue"
	case NodeTypeToolAgent:
		return "lightyellow"
	case NodeTypeConditionalAgent:
		return "plum"
	default:
		return "lightgray"
	}
}
