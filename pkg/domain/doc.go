// Package domain contains the core types of the Trail engine: graph
// definitions (Graph, Node, Edge), running stack frames (State), the
// activity audit trail, and the sentinel errors shared across layers.
//
// Types here carry no behavior beyond small accessors; persistence and
// traversal logic live in pkg/stack and the adapters.
package domain
