package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/LavenderBridge/physbank/internal/models"
)

// StorageKey is the storage key holding the JSON array of problems.
const StorageKey = "physics-problems"

// Storage is a string key/value store such as *db.Store.
type Storage interface {
	GetItem(key string) (value string, ok bool, err error)
	SetItem(key, value string) error
}

// Local is a problem store persisted to Storage on every mutation.
type Local struct {
	storage Storage
	logger  *zap.Logger
	now     func() time.Time

	mu       sync.RWMutex
	problems []models.Problem
	lastID   int64
}

// LocalOption configures a Local.
type LocalOption func(*Local)

// WithLocalLogger sets the logger used for diagnostics.
func WithLocalLogger(l *zap.Logger) LocalOption {
	return func(s *Local) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now for timestamps and id generation.
func WithClock(now func() time.Time) LocalOption {
	return func(s *Local) { s.now = now }
}

// NewLocal loads the problem list from storage. When nothing usable is
// stored the two sample problems are written instead.
func NewLocal(storage Storage, opts ...LocalOption) (*Local, error) {
	s := &Local{
		storage: storage,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	raw, ok, err := storage.GetItem(StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", StorageKey, err)
	}

	var problems []models.Problem
	seeded := false
	switch {
	case !ok || strings.TrimSpace(raw) == "":
		problems, seeded = sampleProblems(s.now()), true
	default:
		if err := json.Unmarshal([]byte(raw), &problems); err != nil || problems == nil {
			s.logger.Warn("本地题目数据损坏，已恢复示例题目", zap.Error(err))
			problems, seeded = sampleProblems(s.now()), true
		}
	}

	for i := range problems {
		problems[i].Tags = models.CleanTags(problems[i].Tags)
	}

	// Records without an id get a fresh one instead of collapsing together.
	s.lastID = maxNumericID(problems)
	reassigned := 0
	for i := range problems {
		if strings.TrimSpace(problems[i].ID) == "" {
			problems[i].ID = s.nextID(s.now())
			reassigned++
		}
	}
	if reassigned > 0 {
		s.logger.Warn("本地题目缺少 ID，已重新分配", zap.Int("count", reassigned))
	}
	s.problems = dedupe(problems)

	if seeded || reassigned > 0 {
		if err := s.persist(s.problems); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// FetchProblems returns the stored collection.
func (s *Local) FetchProblems(ctx context.Context) ([]models.Problem, error) {
	return s.Problems(), nil
}

// FetchProblemDetail returns the record with id or ErrNotFound.
func (s *Local) FetchProblemDetail(ctx context.Context, id string) (models.Problem, error) {
	if p, ok := s.GetProblemByID(id); ok {
		return p, nil
	}
	return models.Problem{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// AddProblem appends a record with a fresh timestamp-derived id.
func (s *Local) AddProblem(ctx context.Context, payload models.CreatePayload) (models.Problem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	p := models.NewFromPayload(payload)
	p.ID = s.nextID(now)
	p.CreatedAt = &now
	p.UpdatedAt = &now

	next := append(cloneAll(s.problems), p)
	if err := s.persist(next); err != nil {
		s.logger.Error("保存题目失败", zap.Error(err))
		return models.Problem{}, err
	}
	s.problems = next
	return p.Clone(), nil
}

// UpdateProblem merges updates into the matching record and refreshes UpdatedAt.
func (s *Local) UpdateProblem(ctx context.Context, id string, updates models.UpdatePayload) (models.Problem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := findIndex(s.problems, id)
	if i < 0 {
		return models.Problem{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	now := s.now()
	updated := models.Merge(s.problems[i], updates)
	updated.ID = id
	updated.UpdatedAt = &now
	if updated.CreatedAt == nil {
		updated.CreatedAt = &now
	}

	next := cloneAll(s.problems)
	next[i] = updated
	if err := s.persist(next); err != nil {
		s.logger.Error("编辑题目失败", zap.String("id", id), zap.Error(err))
		return models.Problem{}, err
	}
	s.problems = next
	return updated.Clone(), nil
}

// DeleteProblem removes the matching record.
func (s *Local) DeleteProblem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := findIndex(s.problems, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	next := append(cloneAll(s.problems[:i]), cloneAll(s.problems[i+1:])...)
	if err := s.persist(next); err != nil {
		s.logger.Error("删除题目失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.problems = next
	return nil
}

// GetProblemByID looks id up in memory.
func (s *Local) GetProblemByID(id string) (models.Problem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := findIndex(s.problems, id); i >= 0 {
		return s.problems[i].Clone(), true
	}
	return models.Problem{}, false
}

// Problems returns a snapshot of the collection.
func (s *Local) Problems() []models.Problem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.problems)
}

// nextID returns the current time in milliseconds, bumped past the last
// issued id so ids stay unique within a millisecond. Callers hold s.mu.
func (s *Local) nextID(now time.Time) string {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

func (s *Local) persist(problems []models.Problem) error {
	data, err := json.Marshal(problems)
	if err != nil {
		return fmt.Errorf("failed to encode problems: %w", err)
	}
	if err := s.storage.SetItem(StorageKey, string(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", StorageKey, err)
	}
	return nil
}

func maxNumericID(problems []models.Problem) int64 {
	var highest int64
	for _, p := range problems {
		if n, err := strconv.ParseInt(p.ID, 10, 64); err == nil && n > highest {
			highest = n
		}
	}
	return highest
}
