package engine

// EventType identifies an execution event.
type EventType string

const (
	// EventNodeStart is emitted before a node begins execution.
	EventNodeStart EventType = "node_start"
	// EventNodeComplete is emitted after a node finishes successfully.
	EventNodeComplete EventType = "node_complete"
	// EventNodeError is emitted when a node fails.
	EventNodeError EventType = "node_error"
	// EventExecutionFinished is emitted once per run, after the terminal
	// status is committed.
	EventExecutionFinished EventType = "execution_finished"
)

// Event carries information about one execution event.
type Event struct {
	Type        EventType      `json:"type"`
	ExecutionID string         `json:"execution_id"`
	NodeID      string         `json:"node_id,omitempty"`
	Output      map[string]any `json:"output,omitempty"`
	Err         error          `json:"-"`
}

// EventHandler receives execution events. Handlers run synchronously on the
// dispatching goroutine and must be fast and non-blocking.
type EventHandler func(Event)
