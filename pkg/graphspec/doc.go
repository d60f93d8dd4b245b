// Package graphspec defines declarative graph specifications and the
// deploy pipeline that validates them and installs them into a GraphStore.
//
// Specs come from two places: Go builders inside plugin packages (the
// usual route, see pkg/plugins) and YAML files loaded at deploy time.
// Either way Deploy validates the whole graph against the behavior
// registry before anything is written, and redeploying an existing name
// renames the previous generation to "<name>OLD" instead of deleting it,
// so in-flight frames keep resolving.
package graphspec
