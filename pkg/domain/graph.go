package domain

import "time"

// Conventional node names. Deploy resolves these into StartNode and the
// Terminal flag so the runtime never string-compares node names.
const (
	StartNodeName    = "START"
	TerminalNodeName = "END"
)

// Graph is a named, versioned workflow definition. ID is stable across
// renames: redeploying a name moves the old generation aside under
// "<name>OLD" but keeps its ID, so frames created against it still
// resolve their nodes.
type Graph struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	Help        string    `json:"help,omitempty"`
	StartNode   string    `json:"start_node"`
	Owner       string    `json:"owner,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	// Display hints copied onto frames at push time.
	HideTabs  bool `json:"hide_tabs,omitempty"`
	HideLinks bool `json:"hide_links,omitempty"`
	HideNav   bool `json:"hide_nav,omitempty"`

	// PersistAsRoot controls whether pushing this graph overwrites the
	// session-slot pointer. Ephemeral sub-flows (chat side quests) set it
	// false so the primary resumable session stays reachable.
	PersistAsRoot bool `json:"persist_as_root"`
}

// Node is one state of a graph. Unique by (GraphID, Name).
type Node struct {
	GraphID     string `json:"graph_id"`
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Help        string `json:"help,omitempty"`

	// Path is the symbolic route rendered for this node. Empty when the
	// node's behavior supplies a path at runtime.
	Path string `json:"path,omitempty"`

	// Behavior keys into the plugin registry. Empty means default behavior.
	Behavior string `json:"behavior,omitempty"`

	// Log enables ActivityEvent recording on entry/exit.
	Log bool `json:"log,omitempty"`

	// Terminal marks the conventional END node. Reaching a terminal node
	// pops the frame.
	Terminal bool `json:"terminal,omitempty"`

	// Data holds static node attributes readable by behaviors.
	Data map[string]any `json:"data,omitempty"`
}

// Edge is a directed, named transition. Unique by (GraphID, FromNode, Name).
type Edge struct {
	GraphID     string `json:"graph_id"`
	FromNode    string `json:"from_node"`
	Name        string `json:"name"`
	ToNode      string `json:"to_node"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Help        string `json:"help,omitempty"`

	// ShowOption surfaces the edge as a visible UI choice.
	ShowOption bool `json:"show_option,omitempty"`
}
