package domain

import "errors"

var (
	// ErrGraphNotFound is returned when a named graph is not deployed.
	ErrGraphNotFound = errors.New("graph not found")

	// ErrNodeNotFound is returned when a graph does not contain the node.
	ErrNodeNotFound = errors.New("node not found")

	// ErrStateNotFound is returned when a frame ID cannot be found in the
	// store. The stack treats a dangling session-slot pointer hitting this
	// as "no ongoing activity", not as a failure.
	ErrStateNotFound = errors.New("state not found")

	// ErrNotOwner is returned by Resume when the frame belongs to a
	// different user.
	ErrNotOwner = errors.New("state belongs to another user")

	// ErrHasChildren is returned by Resume on a non-leaf frame. Only the
	// innermost frame of a stack may be resumed.
	ErrHasChildren = errors.New("cannot resume: state has active children")

	// ErrLinkBroken is returned when a frame's linked state no longer
	// exists (the paired session detached or ended).
	ErrLinkBroken = errors.New("linked state no longer exists")

	// ErrActivityNotFound is returned when an activity log or event ID
	// cannot be found.
	ErrActivityNotFound = errors.New("activity record not found")

	// ErrDataAttrNotSet is returned by State data accessors for an absent
	// variable. Behaviors use it to distinguish first visits from resumes.
	ErrDataAttrNotSet = errors.New("data attribute not set")

	// ErrNoActivity is returned by stack operations that require a current
	// frame when the session slot is empty.
	ErrNoActivity = errors.New("no ongoing activity")
)
