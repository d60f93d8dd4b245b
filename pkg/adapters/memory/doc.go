// Package memory provides in-memory implementations of the engine's
// storage ports. They are safe for concurrent use and are the default
// backend for tests and embedded single-process deployments.
package memory
