package ports

import "context"

// SessionSlot stores the "current frame" pointer per web session. It is
// the only piece of state the hosting application must hold for the
// engine; everything else lives in the stores.
type SessionSlot interface {
	// Get returns the current frame ID for the session, or "" if none.
	Get(ctx context.Context, sessionKey string) (string, error)

	// Set records the current frame ID for the session.
	Set(ctx context.Context, sessionKey, stateID string) error

	// Clear removes the pointer for the session.
	Clear(ctx context.Context, sessionKey string) error
}
