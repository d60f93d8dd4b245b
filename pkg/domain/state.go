package domain

import (
	"fmt"
	"strings"
	"time"
)

// Ref is a typed reference to an external entity stored in a frame's data
// blob. The engine round-trips refs without interpreting them; resolution
// happens through ports.EntityResolver.
type Ref struct {
	Label string `json:"label"`
	ID    string `json:"id"`
}

const refSuffix = "_id"

// State is one running stack frame: a position in a graph traversal owned
// by a user. Frames form a LIFO call stack through ParentID and may carry
// an orthogonal LinkID association to a frame in another user's stack.
type State struct {
	ID       string `json:"id"`
	Graph    string `json:"graph"`
	GraphID  string `json:"graph_id"`
	Node     string `json:"node"`
	Owner    string `json:"owner"`
	ParentID string `json:"parent_id,omitempty"`
	LinkID   string `json:"link_id,omitempty"`

	// Denormalized from the graph/node at push time for rendering without
	// a store round-trip.
	Title     string `json:"title,omitempty"`
	Path      string `json:"path,omitempty"`
	HideTabs  bool   `json:"hide_tabs,omitempty"`
	HideLinks bool   `json:"hide_links,omitempty"`
	HideNav   bool   `json:"hide_nav,omitempty"`

	// Data is the frame's variable blob. Values must stay JSON-encodable.
	Data map[string]any `json:"data,omitempty"`

	ActivityID      string    `json:"activity_id,omitempty"`
	ActivityEventID string    `json:"activity_event_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// GetDataAttr returns a named variable from the data blob.
func (s *State) GetDataAttr(name string) (any, error) {
	v, ok := s.Data[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDataAttrNotSet, name)
	}
	return v, nil
}

// SetDataAttr stores a named variable in the data blob.
func (s *State) SetDataAttr(name string, value any) {
	if s.Data == nil {
		s.Data = make(map[string]any)
	}
	s.Data[name] = value
}

// SetDataRef stores an entity reference under "<name>_<Label>_id".
func (s *State) SetDataRef(name string, ref Ref) {
	s.SetDataAttr(name+"_"+ref.Label+refSuffix, ref.ID)
}

// GetDataRef recovers an entity reference stored by SetDataRef.
func (s *State) GetDataRef(name string) (Ref, error) {
	prefix := name + "_"
	for k, v := range s.Data {
		if !strings.HasPrefix(k, prefix) || !strings.HasSuffix(k, refSuffix) {
			continue
		}
		label := strings.TrimSuffix(strings.TrimPrefix(k, prefix), refSuffix)
		if label == "" {
			continue
		}
		id, ok := v.(string)
		if !ok {
			return Ref{}, fmt.Errorf("ref %s: id is %T, want string", k, v)
		}
		return Ref{Label: label, ID: id}, nil
	}
	return Ref{}, fmt.Errorf("%w: %s", ErrDataAttrNotSet, name)
}

// NodeNameIsOneOf reports whether the frame currently occupies one of the
// given nodes. Linked-session behaviors use this to observe a paired frame.
func (s *State) NodeNameIsOneOf(names ...string) bool {
	for _, n := range names {
		if s.Node == n {
			return true
		}
	}
	return false
}

// GraphNameIsOneOf reports whether the frame runs one of the given graphs.
func (s *State) GraphNameIsOneOf(names ...string) bool {
	for _, n := range names {
		if s.Graph == n {
			return true
		}
	}
	return false
}

// Clone returns a copy with an independent data map, so stores can hand
// out frames without aliasing their internal copy.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	next := *s
	next.Data = make(map[string]any, len(s.Data))
	for k, v := range s.Data {
		next.Data[k] = v
	}
	return &next
}
