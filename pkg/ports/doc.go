// Package ports defines the interfaces between the Trail engine core and
// its collaborators: graph and state persistence, the session-slot pointer,
// distributed locking, URL routing, and external entity resolution.
//
// Adapters in pkg/adapters implement these; pkg/stack consumes them.
package ports
