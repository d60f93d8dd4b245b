package ports

import (
	"context"

	"github.com/courselets/trail/pkg/domain"
)

// GraphStore persists graph definitions. Implementations must make
// ReplaceGraph atomic: either the full graph (nodes and edges included)
// becomes visible under its name, or nothing changes.
type GraphStore interface {
	// GetGraph returns the current graph registered under name, or
	// domain.ErrGraphNotFound.
	GetGraph(ctx context.Context, name string) (*domain.Graph, error)

	// GetGraphByID returns a graph generation by its stable ID, renamed
	// generations included, or domain.ErrGraphNotFound.
	GetGraphByID(ctx context.Context, id string) (*domain.Graph, error)

	// GetNode returns one node of a graph generation, or
	// domain.ErrNodeNotFound.
	GetNode(ctx context.Context, graphID, node string) (*domain.Node, error)

	// GetEdges returns the outgoing edges of a node, in deploy order.
	GetEdges(ctx context.Context, graphID, fromNode string) ([]domain.Edge, error)

	// ListGraphs returns the names of all deployed graphs.
	ListGraphs(ctx context.Context) ([]string, error)

	// ReplaceGraph installs a graph under g.Name. If a graph with that
	// name exists it is renamed to g.Name+"OLD" first (its ID, nodes and
	// edges untouched), keeping in-flight frames that reference the
	// previous generation resolvable. Only the immediately preceding
	// generation is retained.
	ReplaceGraph(ctx context.Context, g *domain.Graph, nodes []domain.Node, edges []domain.Edge) error
}

// StateStore persists stack frames. Load must return an independent copy;
// callers mutate and Save back (last writer wins).
type StateStore interface {
	// Save persists the frame, creating or overwriting by s.ID.
	Save(ctx context.Context, s *domain.State) error

	// Load retrieves a frame by ID, or domain.ErrStateNotFound.
	Load(ctx context.Context, id string) (*domain.State, error)

	// Delete removes a frame. Deleting must never touch frames whose
	// LinkID points at the deleted frame; their link simply goes stale.
	Delete(ctx context.Context, id string) error

	// ListChildren returns frames whose ParentID equals id.
	ListChildren(ctx context.Context, id string) ([]*domain.State, error)

	// ListLinked returns frames whose LinkID equals id (live sessions
	// observing the given frame).
	ListLinked(ctx context.Context, id string) ([]*domain.State, error)

	// ListOrphans returns the owner's parentless, childless frames:
	// abandoned activities eligible for Resume.
	ListOrphans(ctx context.Context, owner string) ([]*domain.State, error)
}

// ActivityStore persists the audit trail.
type ActivityStore interface {
	SaveLog(ctx context.Context, l *domain.ActivityLog) error
	GetLog(ctx context.Context, id string) (*domain.ActivityLog, error)
	SaveEvent(ctx context.Context, e *domain.ActivityEvent) error
	GetEvent(ctx context.Context, id string) (*domain.ActivityEvent, error)
}
