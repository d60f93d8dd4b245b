package graphspec

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/courselets/trail/pkg/domain"
	"github.com/courselets/trail/pkg/plugin"
	"github.com/courselets/trail/pkg/ports"
)

// Deploy validates spec and installs it into the store. Redeploying an
// existing name keeps the previous generation under "<name>OLD"; only the
// immediately preceding generation is retained.
func Deploy(ctx context.Context, store ports.GraphStore, reg *plugin.Registry, owner string, spec *Spec) (*domain.Graph, error) {
	if err := Validate(spec, reg); err != nil {
		return nil, err
	}

	g := &domain.Graph{
		ID:            uuid.NewString(),
		Name:          spec.Name,
		Title:         spec.Title,
		Description:   spec.Description,
		Help:          spec.Help,
		StartNode:     domain.StartNodeName,
		Owner:         owner,
		CreatedAt:     time.Now().UTC(),
		HideTabs:      spec.HideTabs,
		HideLinks:     spec.HideLinks,
		HideNav:       spec.HideNav,
		PersistAsRoot: spec.persistAsRoot(),
	}

	names := make([]string, 0, len(spec.Nodes))
	for name := range spec.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	nodes := make([]domain.Node, 0, len(names))
	for _, name := range names {
		ns := spec.Nodes[name]
		nodes = append(nodes, domain.Node{
			GraphID:     g.ID,
			Name:        name,
			Title:       ns.Title,
			Description: ns.Description,
			Help:        ns.Help,
			Path:        ns.Path,
			Behavior:    ns.Behavior,
			Log:         ns.Log,
			Terminal:    name == domain.TerminalNodeName,
			Data:        ns.Data,
		})
	}

	edges := make([]domain.Edge, 0, len(spec.Edges))
	for _, es := range spec.Edges {
		edges = append(edges, domain.Edge{
			GraphID:     g.ID,
			FromNode:    es.From,
			Name:        es.Name,
			ToNode:      es.To,
			Title:       es.Title,
			Description: es.Description,
			Help:        es.Help,
			ShowOption:  es.ShowOption,
		})
	}

	if err := store.ReplaceGraph(ctx, g, nodes, edges); err != nil {
		return nil, fmt.Errorf("install graph %s: %w", spec.Name, err)
	}
	return g, nil
}

// DeployAll deploys every spec from the given sources, skipping graph
// names present in ignore. The first failure aborts the batch.
func DeployAll(ctx context.Context, store ports.GraphStore, reg *plugin.Registry, owner string, sources []Source, ignore map[string]bool, logger *slog.Logger) ([]*domain.Graph, error) {
	var deployed []*domain.Graph
	for _, src := range sources {
		for _, spec := range src.Specs() {
			if ignore[spec.Name] {
				if logger != nil {
					logger.Debug("skipping ignored graph", "graph", spec.Name)
				}
				continue
			}
			g, err := Deploy(ctx, store, reg, owner, spec)
			if err != nil {
				return deployed, err
			}
			if logger != nil {
				logger.Info("deployed graph", "graph", g.Name, "nodes", len(spec.Nodes), "edges", len(spec.Edges))
			}
			deployed = append(deployed, g)
		}
	}
	return deployed, nil
}
