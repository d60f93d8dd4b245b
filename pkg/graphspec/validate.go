package graphspec

import (
	"fmt"
	"strings"

	"github.com/courselets/trail/pkg/domain"
	"github.com/courselets/trail/pkg/plugin"
)

// Validate checks a spec against the structural rules and the behavior
// registry. It returns the first error found; Deploy refuses to install
// anything until the whole spec passes.
func Validate(spec *Spec, reg *plugin.Registry) error {
	if spec.Name == "" {
		return fmt.Errorf("graph spec has no name")
	}
	if strings.HasSuffix(spec.Name, "OLD") {
		return fmt.Errorf("graph %s: the OLD suffix is reserved for deprecated generations", spec.Name)
	}
	if len(spec.Nodes) == 0 {
		return fmt.Errorf("graph %s: no nodes", spec.Name)
	}
	if _, ok := spec.Nodes[domain.StartNodeName]; !ok {
		return fmt.Errorf("graph %s: missing %s node", spec.Name, domain.StartNodeName)
	}

	keys := make([]string, 0, len(spec.Nodes))
	for _, ns := range spec.Nodes {
		keys = append(keys, ns.Behavior)
	}
	if err := reg.Validate(keys...); err != nil {
		return fmt.Errorf("graph %s: %w", spec.Name, err)
	}

	seen := make(map[string]bool, len(spec.Edges))
	for _, e := range spec.Edges {
		if e.From == "" || e.Name == "" || e.To == "" {
			return fmt.Errorf("graph %s: edge %q from %q to %q is incomplete", spec.Name, e.Name, e.From, e.To)
		}
		if _, ok := spec.Nodes[e.From]; !ok {
			return fmt.Errorf("graph %s: edge %s references unknown node %s", spec.Name, e.Name, e.From)
		}
		if _, ok := spec.Nodes[e.To]; !ok {
			return fmt.Errorf("graph %s: edge %s references unknown node %s", spec.Name, e.Name, e.To)
		}
		if e.From == domain.TerminalNodeName {
			return fmt.Errorf("graph %s: edge %s leaves the terminal node", spec.Name, e.Name)
		}
		key := e.From + "\x00" + e.Name
		if seen[key] {
			return fmt.Errorf("graph %s: duplicate edge %s on node %s", spec.Name, e.Name, e.From)
		}
		seen[key] = true
	}
	return nil
}
