package tasks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/foxlist/internal/filex"
	"github.com/dmitrijs2005/foxlist/internal/models"
)

// FileStore implements Store as an in-memory collection mirrored to a
// JSON file. Every mutation rewrites the whole blob; last write wins.
// It exists for environments where SQLite is unavailable and behaves
// observably like SQLiteStore.
type FileStore struct {
	mu     sync.Mutex
	path   string
	loaded bool
	items  []models.Task
	now    func() time.Time
}

// NewFileStore returns a FileStore persisting to path. Call Init
// before any other operation.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

// Init loads the persisted blob, or starts empty when none exists.
// Repeated calls reload from disk; records on disk are authoritative,
// so no duplication occurs.
func (s *FileStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []models.Task
	err := filex.ReadJSON(s.path, &items)
	if err != nil && !filex.IsNotExist(err) {
		return fmt.Errorf("loading tasks blob: %w", err)
	}

	s.items = items
	s.loaded = true
	return nil
}

// persist rewrites the whole blob. Callers hold s.mu.
func (s *FileStore) persist() error {
	if s.items == nil {
		// Encode an empty list, not JSON null.
		return filex.WriteJSON(s.path, []models.Task{})
	}
	return filex.WriteJSON(s.path, s.items)
}

// nextID assigns max(existing ids) + 1, or 1 for an empty store.
// Callers hold s.mu.
func (s *FileStore) nextID() int64 {
	var max int64
	for i := range s.items {
		if s.items[i].ID > max {
			max = s.items[i].ID
		}
	}
	return max + 1
}

// matchesOwner is the shared scoping predicate: owned by email or
// orphaned.
func matchesOwner(t *models.Task, owner string) bool {
	return t.OwnerEmail == nil || *t.OwnerEmail == owner
}

// sortNewestFirst orders tasks by creation time descending, keeping
// the stored order for ties.
func sortNewestFirst(items []models.Task) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

func (s *FileStore) Create(_ context.Context, p CreateParams) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	t := models.Task{
		ID:          s.nextID(),
		Title:       p.Title,
		Description: p.Description,
		Priority:    p.Priority,
		Deadline:    normalizeDeadline(p.Deadline),
		Completed:   false,
		OwnerEmail:  p.OwnerEmail,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.items = append(s.items, t)
	if err := s.persist(); err != nil {
		return nil, err
	}

	created := t
	return &created, nil
}

func (s *FileStore) GetAll(_ context.Context, owner string) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []models.Task
	for i := range s.items {
		if owner == "" || matchesOwner(&s.items[i], owner) {
			result = append(result, s.items[i])
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func (s *FileStore) GetByID(_ context.Context, id int64) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			t := s.items[i]
			return &t, nil
		}
	}
	return nil, ErrNotFound
}

// Update replaces the mutable fields wholesale, like the SQLite
// backend. A missing id is a silent no-op.
func (s *FileStore) Update(_ context.Context, id int64, p UpdateParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		s.items[i].Title = p.Title
		s.items[i].Description = p.Description
		s.items[i].Priority = p.Priority
		s.items[i].Deadline = normalizeDeadline(p.Deadline)
		s.items[i].Completed = p.Completed
		s.items[i].UpdatedAt = s.now().UTC()
		return s.persist()
	}
	return nil
}

func (s *FileStore) ToggleCompletion(_ context.Context, id int64, completed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		s.items[i].Completed = completed
		s.items[i].UpdatedAt = s.now().UTC()
		return s.persist()
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	for i := range s.items {
		if s.items[i].ID != id {
			kept = append(kept, s.items[i])
		}
	}
	if len(kept) == len(s.items) {
		return nil
	}
	s.items = kept
	return s.persist()
}

func (s *FileStore) DeleteByOwner(_ context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	for i := range s.items {
		if !matchesOwner(&s.items[i], owner) {
			kept = append(kept, s.items[i])
		}
	}
	s.items = kept
	return s.persist()
}

func (s *FileStore) ReconcileOrphans(_ context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for i := range s.items {
		if s.items[i].OwnerEmail == nil {
			email := owner
			s.items[i].OwnerEmail = &email
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.persist()
}

func (s *FileStore) Search(_ context.Context, text string) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(text)

	var result []models.Task
	for i := range s.items {
		t := &s.items[i]
		if strings.Contains(strings.ToLower(t.Title), needle) ||
			strings.Contains(strings.ToLower(t.Description), needle) {
			result = append(result, *t)
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func (s *FileStore) GetByCompletion(_ context.Context, completed bool) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []models.Task
	for i := range s.items {
		if s.items[i].Completed == completed {
			result = append(result, s.items[i])
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func (s *FileStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.items)), nil
}

func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	return s.persist()
}
