package storage

import "context"

// HistoryStore abstracts persistence for the round ledger.
// Implementations can be swapped for testing (mocks) or different backends.
type HistoryStore interface {
	// Read
	ListByRoom(ctx context.Context, roomID string, limit int) ([]RoundResult, error)
	ListByUserID(ctx context.Context, userID string, limit int) ([]RoundResult, error)

	// Write
	InsertRoundResult(ctx context.Context, r RoundResult) error

	// Lifecycle
	Close()
}

// Ensure *Store implements HistoryStore at compile time.
var _ HistoryStore = (*Store)(nil)
