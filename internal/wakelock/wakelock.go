// Package wakelock is the screen-stay-awake boundary. The platform may
// revoke a held lock at any time; the session re-acquires when sharing
// regains visibility.
package wakelock

import "context"

type Lock interface {
	Acquire(ctx context.Context) error
	Release()
	// Held reports whether the lock is currently held; revocation flips it.
	Held() bool
}

// Noop satisfies Lock on platforms without a wake-lock facility.
type Noop struct {
	held bool
}

func (n *Noop) Acquire(ctx context.Context) error {
	n.held = true
	return nil
}

func (n *Noop) Release() { n.held = false }

func (n *Noop) Held() bool { return n.held }
