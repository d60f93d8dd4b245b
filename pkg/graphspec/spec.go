package graphspec

// Spec is one declarative graph definition.
type Spec struct {
	Name        string `mapstructure:"name" yaml:"name"`
	Title       string `mapstructure:"title" yaml:"title"`
	Description string `mapstructure:"description" yaml:"description"`
	Help        string `mapstructure:"help" yaml:"help"`

	HideTabs  bool `mapstructure:"hide_tabs" yaml:"hide_tabs"`
	HideLinks bool `mapstructure:"hide_links" yaml:"hide_links"`
	HideNav   bool `mapstructure:"hide_nav" yaml:"hide_nav"`

	// PersistAsRoot defaults to true; ephemeral sub-flow graphs that must
	// not steal the session slot set persist_as_root: false explicitly.
	PersistAsRoot *bool `mapstructure:"persist_as_root" yaml:"persist_as_root"`

	Nodes map[string]NodeSpec `mapstructure:"nodes" yaml:"nodes"`
	Edges []EdgeSpec          `mapstructure:"edges" yaml:"edges"`
}

// NodeSpec declares one node.
type NodeSpec struct {
	Title       string         `mapstructure:"title" yaml:"title"`
	Description string         `mapstructure:"description" yaml:"description"`
	Help        string         `mapstructure:"help" yaml:"help"`
	Path        string         `mapstructure:"path" yaml:"path"`
	Behavior    string         `mapstructure:"behavior" yaml:"behavior"`
	Log         bool           `mapstructure:"log" yaml:"log"`
	Data        map[string]any `mapstructure:"data" yaml:"data"`
}

// EdgeSpec declares one transition.
type EdgeSpec struct {
	From        string `mapstructure:"from" yaml:"from"`
	Name        string `mapstructure:"name" yaml:"name"`
	To          string `mapstructure:"to" yaml:"to"`
	Title       string `mapstructure:"title" yaml:"title"`
	Description string `mapstructure:"description" yaml:"description"`
	Help        string `mapstructure:"help" yaml:"help"`
	ShowOption  bool   `mapstructure:"show_option" yaml:"show_option"`
}

// Source supplies graph specs for batch deployment. Plugin packages
// implement this (usually via SourceFunc) and register with cmd deploy.
type Source interface {
	Specs() []*Spec
}

// SourceFunc adapts a function to Source.
type SourceFunc func() []*Spec

func (f SourceFunc) Specs() []*Spec { return f() }

func (s *Spec) persistAsRoot() bool {
	if s.PersistAsRoot == nil {
		return true
	}
	return *s.PersistAsRoot
}
