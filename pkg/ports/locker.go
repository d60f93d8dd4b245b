package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker coordinates stack mutation across replicas. A single
// process only needs the session manager's in-process locks; deployments
// with multiple instances plug in the redis implementation.
type DistributedLocker interface {
	// Lock blocks until the lock for key is acquired, the context is
	// canceled, or the TTL expires. The returned UnlockFunc MUST be
	// called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
