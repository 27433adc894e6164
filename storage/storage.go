// Package storage persists summaries, settings and usage counters in a
// single JSON file guarded by an advisory file lock. Writes go through
// a temp file and rename so a crash never leaves a half-written store.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for storage operations.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrCorrupted indicates the store file could not be parsed.
	ErrCorrupted = errors.New("store file corrupted")

	// ErrClosed indicates the store has been closed.
	ErrClosed = errors.New("store is closed")
)

// StorageError wraps a storage failure with the operation that caused it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// SearchFilter narrows ListSummaries results. Zero values match
// everything.
type SearchFilter struct {
	// Query matches case-insensitively against title, summary and topics.
	Query string
	// VideoID restricts results to one video.
	VideoID string
	// FavoritesOnly keeps only favorited records.
	FavoritesOnly bool
	// Limit caps the number of results; zero means no cap.
	Limit int
}

// Store is the persistence interface the service depends on.
type Store interface {
	// SaveSummary inserts or updates a record. Records are deduplicated
	// by video, summary type and language; saving over an existing
	// combination replaces it while keeping its ID and creation time.
	SaveSummary(ctx context.Context, rec *SummaryRecord) (*SummaryRecord, error)

	// GetSummary returns the record with the given ID.
	GetSummary(ctx context.Context, id string) (*SummaryRecord, error)

	// ListSummaries returns records matching the filter, newest first.
	ListSummaries(ctx context.Context, filter SearchFilter) ([]*SummaryRecord, error)

	// DeleteSummary removes the record with the given ID.
	DeleteSummary(ctx context.Context, id string) error

	// ClearSummaries removes every record.
	ClearSummaries(ctx context.Context) error

	// SetFavorite flips the favorite flag and returns the updated record.
	SetFavorite(ctx context.Context, id string, favorite bool) (*SummaryRecord, error)

	// IncrementUsage counts one summary produced by the named backend.
	IncrementUsage(ctx context.Context, backend string) error

	// GetUsage returns the accumulated usage counters.
	GetUsage(ctx context.Context) (*UsageCounters, error)

	// SaveSettings replaces the stored settings.
	SaveSettings(ctx context.Context, s *Settings) error

	// LoadSettings returns the stored settings, or defaults when none
	// were ever saved.
	LoadSettings(ctx context.Context) (*Settings, error)

	// Export returns the whole store as a portable JSON document.
	Export(ctx context.Context) ([]byte, error)

	// Import replaces the store contents with a previously exported
	// document.
	Import(ctx context.Context, data []byte) error

	// Close flushes and releases the store.
	Close() error
}
