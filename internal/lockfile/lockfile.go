// Package lockfile wraps advisory file locks for the snapshot file. The
// locks keep two braid processes from interleaving a write; they are
// advisory, so only cooperating processes observe them.
package lockfile

import "errors"

// ErrLockBusy is returned by the non-blocking variants when another process
// holds a conflicting lock.
var ErrLockBusy = errors.New("file lock held by another process")
