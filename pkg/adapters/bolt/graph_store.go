package bolt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	bbolt "go.etcd.io/bbolt"

	"github.com/courselets/trail/pkg/domain"
)

// GetGraph returns the current graph registered under name.
func (s *Store) GetGraph(ctx context.Context, name string) (*domain.Graph, error) {
	var g domain.Graph
	err := s.db.View(func(tx *bbolt.Tx) error {
		id := tx.Bucket(bucketGraphNames).Get([]byte(name))
		if id == nil {
			return domain.ErrGraphNotFound
		}
		raw := tx.Bucket(bucketGraphs).Get(id)
		if raw == nil {
			return domain.ErrGraphNotFound
		}
		return json.Unmarshal(raw, &g)
	})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// GetGraphByID returns any graph generation by its stable ID.
func (s *Store) GetGraphByID(ctx context.Context, id string) (*domain.Graph, error) {
	var g domain.Graph
	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(bucketGraphs).Get([]byte(id))
		if raw == nil {
			return domain.ErrGraphNotFound
		}
		return json.Unmarshal(raw, &g)
	})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// GetNode returns one node of a graph generation.
func (s *Store) GetNode(ctx context.Context, graphID, node string) (*domain.Node, error) {
	var n domain.Node
	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(bucketNodes).Get(compositeKey(graphID, node))
		if raw == nil {
			return domain.ErrNodeNotFound
		}
		return json.Unmarshal(raw, &n)
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// GetEdges returns the outgoing edges of a node in deploy order.
func (s *Store) GetEdges(ctx context.Context, graphID, fromNode string) ([]domain.Edge, error) {
	var edges []domain.Edge
	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(bucketEdges).Get(compositeKey(graphID, fromNode))
		if raw == nil {
			return nil
		}
		return json.Unmarshal(raw, &edges)
	})
	if err != nil {
		return nil, err
	}
	return edges, nil
}

// ListGraphs returns the names of all current graphs.
func (s *Store) ListGraphs(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketGraphNames).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// ReplaceGraph installs a graph in one transaction, renaming any current
// generation with the same name to name+"OLD" and dropping the previous
// "OLD" generation along with its nodes and edges.
func (s *Store) ReplaceGraph(ctx context.Context, g *domain.Graph, nodes []domain.Node, edges []domain.Edge) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		graphs := tx.Bucket(bucketGraphs)
		names := tx.Bucket(bucketGraphNames)

		oldName := []byte(g.Name + "OLD")
		if staleID := names.Get(oldName); staleID != nil {
			if err := dropGraphTx(tx, string(staleID)); err != nil {
				return err
			}
			if err := names.Delete(oldName); err != nil {
				return err
			}
		}
		if prevID := names.Get([]byte(g.Name)); prevID != nil {
			raw := graphs.Get(prevID)
			if raw != nil {
				var prev domain.Graph
				if err := json.Unmarshal(raw, &prev); err != nil {
					return err
				}
				prev.Name = string(oldName)
				renamed, err := json.Marshal(&prev)
				if err != nil {
					return err
				}
				if err := graphs.Put(prevID, renamed); err != nil {
					return err
				}
				if err := names.Put(oldName, prevID); err != nil {
					return err
				}
			}
		}

		raw, err := json.Marshal(g)
		if err != nil {
			return fmt.Errorf("marshal graph %s: %w", g.Name, err)
		}
		if err := graphs.Put([]byte(g.ID), raw); err != nil {
			return err
		}
		if err := names.Put([]byte(g.Name), []byte(g.ID)); err != nil {
			return err
		}

		nodesB := tx.Bucket(bucketNodes)
		for i := range nodes {
			raw, err := json.Marshal(&nodes[i])
			if err != nil {
				return err
			}
			if err := nodesB.Put(compositeKey(g.ID, nodes[i].Name), raw); err != nil {
				return err
			}
		}

		byFrom := make(map[string][]domain.Edge)
		for _, e := range edges {
			byFrom[e.FromNode] = append(byFrom[e.FromNode], e)
		}
		edgesB := tx.Bucket(bucketEdges)
		for from, group := range byFrom {
			raw, err := json.Marshal(group)
			if err != nil {
				return err
			}
			if err := edgesB.Put(compositeKey(g.ID, from), raw); err != nil {
				return err
			}
		}
		return nil
	})
}

func dropGraphTx(tx *bbolt.Tx, graphID string) error {
	if err := tx.Bucket(bucketGraphs).Delete([]byte(graphID)); err != nil {
		return err
	}
	prefix := []byte(graphID + "\x00")
	for _, bucket := range [][]byte{bucketNodes, bucketEdges} {
		c := tx.Bucket(bucket).Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			if err := c.Delete(); err != nil {
				return err
			}
		}
	}
	return nil
}
