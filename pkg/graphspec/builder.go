package graphspec

// Builder assembles a Spec in Go. Plugin packages use it to declare their
// graphs next to the behaviors that drive them.
type Builder struct {
	spec Spec
}

// NodeBuilder configures one node of the graph under construction.
type NodeBuilder struct {
	name    string
	spec    NodeSpec
	builder *Builder
}

// New starts a builder for a graph with the given name.
func New(name string) *Builder {
	return &Builder{
		spec: Spec{
			Name:  name,
			Nodes: make(map[string]NodeSpec),
		},
	}
}

// Title sets the graph title.
func (b *Builder) Title(title string) *Builder {
	b.spec.Title = title
	return b
}

// Description sets the graph description.
func (b *Builder) Description(d string) *Builder {
	b.spec.Description = d
	return b
}

// Help sets the graph help text.
func (b *Builder) Help(h string) *Builder {
	b.spec.Help = h
	return b
}

// Hide sets the display flags.
func (b *Builder) Hide(tabs, links, nav bool) *Builder {
	b.spec.HideTabs = tabs
	b.spec.HideLinks = links
	b.spec.HideNav = nav
	return b
}

// PersistAsRoot controls whether pushes of this graph update the session
// slot.
func (b *Builder) PersistAsRoot(v bool) *Builder {
	b.spec.PersistAsRoot = &v
	return b
}

// Node creates (or returns) the node with the given name.
func (b *Builder) Node(name string) *NodeBuilder {
	if ns, ok := b.spec.Nodes[name]; ok {
		return &NodeBuilder{name: name, spec: ns, builder: b}
	}
	nb := &NodeBuilder{name: name, builder: b}
	b.spec.Nodes[name] = nb.spec
	return nb
}

// Edge adds a transition from one node to another.
func (b *Builder) Edge(from, name, to string) *Builder {
	b.spec.Edges = append(b.spec.Edges, EdgeSpec{From: from, Name: name, To: to})
	return b
}

// EdgeSpec adds a fully-specified transition.
func (b *Builder) EdgeSpec(e EdgeSpec) *Builder {
	b.spec.Edges = append(b.spec.Edges, e)
	return b
}

// Spec returns the assembled spec.
func (b *Builder) Spec() *Spec {
	s := b.spec
	return &s
}

// Title sets the node title.
func (nb *NodeBuilder) Title(title string) *NodeBuilder {
	nb.spec.Title = title
	return nb.save()
}

// Description sets the node description.
func (nb *NodeBuilder) Description(d string) *NodeBuilder {
	nb.spec.Description = d
	return nb.save()
}

// Help sets the node help text.
func (nb *NodeBuilder) Help(h string) *NodeBuilder {
	nb.spec.Help = h
	return nb.save()
}

// Path sets the node's symbolic route.
func (nb *NodeBuilder) Path(p string) *NodeBuilder {
	nb.spec.Path = p
	return nb.save()
}

// Behavior sets the node's registry key.
func (nb *NodeBuilder) Behavior(key string) *NodeBuilder {
	nb.spec.Behavior = key
	return nb.save()
}

// Log enables activity-event recording for the node.
func (nb *NodeBuilder) Log() *NodeBuilder {
	nb.spec.Log = true
	return nb.save()
}

// Data sets a static node attribute.
func (nb *NodeBuilder) Data(key string, value any) *NodeBuilder {
	if nb.spec.Data == nil {
		nb.spec.Data = make(map[string]any)
	}
	nb.spec.Data[key] = value
	return nb.save()
}

// Done returns to the graph builder for chaining.
func (nb *NodeBuilder) Done() *Builder {
	return nb.builder
}

func (nb *NodeBuilder) save() *NodeBuilder {
	nb.builder.spec.Nodes[nb.name] = nb.spec
	return nb
}
