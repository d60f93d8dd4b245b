// Package plugin is the static behavior registry for graph nodes.
//
// A node's Behavior field keys into a Registry populated by explicit
// registration at startup. Behaviors implement any subset of the optional
// hook interfaces (Starter, PathMaker, Helper, EdgeRouter, InputFilter);
// absent hooks fall back to default engine behavior. Deploy validates all
// behavior keys against the registry, so a dangling key fails the deploy
// instead of degrading a node at runtime.
package plugin
