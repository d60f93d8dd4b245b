// Package stack implements the session-level FSM runtime: a durable call
// stack of running graph frames driven by named transition events.
//
// A Stack is cheap and stateless; construct one per request over the
// shared stores. The current frame is found through the session slot,
// Push/Pop grow and shrink the frame chain, Event drives transitions
// (cascading a pop when a terminal node is reached), and Resume reattaches
// an abandoned stack. Serialize mutations per session through
// pkg/session's Manager; the stack itself assumes at most one in-flight
// mutation per session slot.
package stack
