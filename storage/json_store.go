package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const storeVersion = 1

// database is the on-disk shape of the store.
type database struct {
	Version   int                       `json:"version"`
	Summaries map[string]*SummaryRecord `json:"summaries"`
	Usage     UsageCounters             `json:"usage"`
	Settings  *Settings                 `json:"settings,omitempty"`
}

// JSONStore implements Store on a single JSON file.
type JSONStore struct {
	path     string
	lockPath string

	mu     sync.Mutex
	db     *database
	closed bool
}

// Open loads or creates the store at path.
func Open(path string) (*JSONStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}

	s := &JSONStore{
		path:     path,
		lockPath: path + ".lock",
		db: &database{
			Version:   storeVersion,
			Summaries: map[string]*SummaryRecord{},
		},
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}

	var db database
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, &StorageError{Op: "open", Err: fmt.Errorf("%w: %v", ErrCorrupted, err)}
	}
	if db.Summaries == nil {
		db.Summaries = map[string]*SummaryRecord{}
	}
	s.db = &db

	return s, nil
}

// persist writes the store to disk under the file lock. Callers must
// hold s.mu.
func (s *JSONStore) persist(op string) error {
	data, err := json.MarshalIndent(s.db, "", "  ")
	if err != nil {
		return &StorageError{Op: op, Err: err}
	}

	lock, err := acquireLock(s.lockPath)
	if err != nil {
		return &StorageError{Op: op, Err: err}
	}
	defer lock.release()

	if err := writeFileAtomic(s.path, data, 0o644); err != nil {
		return &StorageError{Op: op, Err: err}
	}
	return nil
}

func (s *JSONStore) SaveSummary(ctx context.Context, rec *SummaryRecord) (*SummaryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	now := time.Now().UTC()
	stored := *rec
	stored.UpdatedAt = now

	// Same video, type and language: update in place.
	for _, existing := range s.db.Summaries {
		if existing.dedupeKey() == stored.dedupeKey() {
			stored.ID = existing.ID
			stored.CreatedAt = existing.CreatedAt
			stored.IsFavorite = existing.IsFavorite
			break
		}
	}

	if stored.ID == "" {
		stored.ID = uuid.NewString()
		stored.CreatedAt = now
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}

	s.db.Summaries[stored.ID] = &stored
	if err := s.persist("save_summary"); err != nil {
		return nil, err
	}

	out := stored
	return &out, nil
}

func (s *JSONStore) GetSummary(ctx context.Context, id string) (*SummaryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	rec, ok := s.db.Summaries[id]
	if !ok {
		return nil, &StorageError{Op: "get_summary", Err: ErrNotFound}
	}
	out := *rec
	return &out, nil
}

func (s *JSONStore) ListSummaries(ctx context.Context, filter SearchFilter) ([]*SummaryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	query := strings.ToLower(filter.Query)
	results := make([]*SummaryRecord, 0, len(s.db.Summaries))
	for _, rec := range s.db.Summaries {
		if filter.VideoID != "" && rec.VideoID != filter.VideoID {
			continue
		}
		if filter.FavoritesOnly && !rec.IsFavorite {
			continue
		}
		if query != "" && !matchesQuery(rec, query) {
			continue
		}
		out := *rec
		results = append(results, &out)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	if filter.Limit > 0 && len(results) > filter.Limit {
		results = results[:filter.Limit]
	}
	return results, nil
}

func matchesQuery(rec *SummaryRecord, query string) bool {
	if strings.Contains(strings.ToLower(rec.Title), query) ||
		strings.Contains(strings.ToLower(rec.Summary), query) {
		return true
	}
	for _, topic := range rec.Topics {
		if strings.Contains(strings.ToLower(topic), query) {
			return true
		}
	}
	return false
}

func (s *JSONStore) DeleteSummary(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	if _, ok := s.db.Summaries[id]; !ok {
		return &StorageError{Op: "delete_summary", Err: ErrNotFound}
	}
	delete(s.db.Summaries, id)
	return s.persist("delete_summary")
}

func (s *JSONStore) ClearSummaries(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	s.db.Summaries = map[string]*SummaryRecord{}
	return s.persist("clear_summaries")
}

func (s *JSONStore) SetFavorite(ctx context.Context, id string, favorite bool) (*SummaryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	rec, ok := s.db.Summaries[id]
	if !ok {
		return nil, &StorageError{Op: "set_favorite", Err: ErrNotFound}
	}
	rec.IsFavorite = favorite
	rec.UpdatedAt = time.Now().UTC()

	if err := s.persist("set_favorite"); err != nil {
		return nil, err
	}
	out := *rec
	return &out, nil
}

func (s *JSONStore) IncrementUsage(ctx context.Context, backend string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	switch backend {
	case "gemini":
		s.db.Usage.Gemini++
	case "openai":
		s.db.Usage.OpenAI++
	case "local":
		s.db.Usage.Local++
	default:
		return &StorageError{Op: "increment_usage", Err: fmt.Errorf("unknown backend %q", backend)}
	}
	s.db.Usage.LastUpdated = time.Now().UTC()

	return s.persist("increment_usage")
}

func (s *JSONStore) GetUsage(ctx context.Context) (*UsageCounters, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	out := s.db.Usage
	return &out, nil
}

func (s *JSONStore) SaveSettings(ctx context.Context, settings *Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	copied := *settings
	s.db.Settings = &copied
	return s.persist("save_settings")
}

func (s *JSONStore) LoadSettings(ctx context.Context) (*Settings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	if s.db.Settings == nil {
		return DefaultSettings(), nil
	}
	out := *s.db.Settings
	return &out, nil
}

// exportDocument is the portable shape produced by Export and accepted
// by Import.
type exportDocument struct {
	ExportedAt time.Time        `json:"exported_at"`
	Summaries  []*SummaryRecord `json:"summaries"`
	Usage      UsageCounters    `json:"usage"`
	Settings   *Settings        `json:"settings,omitempty"`
}

func (s *JSONStore) Export(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	doc := exportDocument{
		ExportedAt: time.Now().UTC(),
		Summaries:  make([]*SummaryRecord, 0, len(s.db.Summaries)),
		Usage:      s.db.Usage,
		Settings:   s.db.Settings,
	}
	for _, rec := range s.db.Summaries {
		out := *rec
		doc.Summaries = append(doc.Summaries, &out)
	}
	sort.Slice(doc.Summaries, func(i, j int) bool {
		return doc.Summaries[i].CreatedAt.Before(doc.Summaries[j].CreatedAt)
	})

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, &StorageError{Op: "export", Err: err}
	}
	return data, nil
}

func (s *JSONStore) Import(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var doc exportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return &StorageError{Op: "import", Err: fmt.Errorf("%w: %v", ErrCorrupted, err)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	summaries := make(map[string]*SummaryRecord, len(doc.Summaries))
	for _, rec := range doc.Summaries {
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		copied := *rec
		summaries[rec.ID] = &copied
	}

	s.db.Summaries = summaries
	s.db.Usage = doc.Usage
	s.db.Settings = doc.Settings

	return s.persist("import")
}

func (s *JSONStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return nil
}
