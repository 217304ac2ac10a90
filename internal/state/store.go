// Package state keeps the last resolved address between runs.
package state

import "context"

// Store loads the address saved by the previous run and records the new one.
//
// Load reports ok=false when nothing was saved yet. When an address is
// present, Load copies it to the store's backup location before returning,
// so the backup always holds the prior run's address and never the one
// about to be saved.
type Store interface {
	// A blank saved value counts as absent.
	Load(ctx context.Context) (addr string, ok bool, err error)
	Save(ctx context.Context, addr string) error
	// Peek reads the saved address without touching the backup.
	Peek(ctx context.Context) (addr string, ok bool, err error)
}
