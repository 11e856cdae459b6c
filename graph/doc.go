// Package graph defines the workflow graph model: node and connection types,
// orchestration metadata, and pre-execution validation.
//
// A WorkflowDefinition is immutable once handed to the engine. Validation is
// pure: it never mutates the definition and reports the first structural
// problem it finds as a typed *GraphError.
package graph
