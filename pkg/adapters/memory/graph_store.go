package memory

import (
	"context"
	"sync"

	"github.com/courselets/trail/pkg/domain"
)

// GraphStore implements ports.GraphStore in memory.
type GraphStore struct {
	mu     sync.RWMutex
	byName map[string]string        // current name -> graph ID
	graphs map[string]domain.Graph  // graph ID -> graph
	nodes  map[string]domain.Node   // graph ID + "\x00" + node name
	edges  map[string][]domain.Edge // graph ID + "\x00" + from node
}

// NewGraphStore creates an empty graph store.
func NewGraphStore() *GraphStore {
	return &GraphStore{
		byName: make(map[string]string),
		graphs: make(map[string]domain.Graph),
		nodes:  make(map[string]domain.Node),
		edges:  make(map[string][]domain.Edge),
	}
}

func key(graphID, name string) string {
	return graphID + "\x00" + name
}

// GetGraph returns the current graph registered under name.
func (s *GraphStore) GetGraph(ctx context.Context, name string) (*domain.Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byName[name]
	if !ok {
		return nil, domain.ErrGraphNotFound
	}
	g := s.graphs[id]
	return &g, nil
}

// GetGraphByID returns any graph generation by its stable ID.
func (s *GraphStore) GetGraphByID(ctx context.Context, id string) (*domain.Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.graphs[id]
	if !ok {
		return nil, domain.ErrGraphNotFound
	}
	return &g, nil
}

// GetNode returns one node of a graph generation.
func (s *GraphStore) GetNode(ctx context.Context, graphID, node string) (*domain.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[key(graphID, node)]
	if !ok {
		return nil, domain.ErrNodeNotFound
	}
	return &n, nil
}

// GetEdges returns the outgoing edges of a node in deploy order.
func (s *GraphStore) GetEdges(ctx context.Context, graphID, fromNode string) ([]domain.Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.edges[key(graphID, fromNode)]
	out := make([]domain.Edge, len(src))
	copy(out, src)
	return out, nil
}

// ListGraphs returns the names of all current graphs.
func (s *GraphStore) ListGraphs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.byName))
	for name := range s.byName {
		names = append(names, name)
	}
	return names, nil
}

// ReplaceGraph installs a graph, renaming any current generation with the
// same name to name+"OLD". The previous "OLD" generation, if any, is
// dropped along with its nodes and edges.
func (s *GraphStore) ReplaceGraph(ctx context.Context, g *domain.Graph, nodes []domain.Node, edges []domain.Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	oldName := g.Name + "OLD"
	if staleID, ok := s.byName[oldName]; ok {
		s.dropLocked(staleID)
		delete(s.byName, oldName)
	}
	if prevID, ok := s.byName[g.Name]; ok {
		prev := s.graphs[prevID]
		prev.Name = oldName
		s.graphs[prevID] = prev
		s.byName[oldName] = prevID
	}

	s.graphs[g.ID] = *g
	s.byName[g.Name] = g.ID
	for _, n := range nodes {
		s.nodes[key(g.ID, n.Name)] = n
	}
	for _, e := range edges {
		k := key(g.ID, e.FromNode)
		s.edges[k] = append(s.edges[k], e)
	}
	return nil
}

func (s *GraphStore) dropLocked(graphID string) {
	delete(s.graphs, graphID)
	prefix := graphID + "\x00"
	for k := range s.nodes {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			delete(s.nodes, k)
		}
	}
	for k := range s.edges {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			delete(s.edges, k)
		}
	}
}
