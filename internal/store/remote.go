package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/LavenderBridge/physbank/internal/models"
)

// Backend endpoints, relative to api.BasePath.
const (
	pathFetchQuestions  = "/fetchQuestions"
	pathQuestionDetail  = "/questions/"
	pathAddQuestions    = "/addQuestions"
	pathEditQuestions   = "/editQuestions"
	pathDeleteQuestions = "/deleteQuestions"
	pathScore           = "/questions/score"
	pathAsk             = "/questions/ask"
)

// Transport is the subset of *api.Client the remote store needs.
// Paths are relative to api.BasePath.
type Transport interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, in, out any) error
}

// Remote is the server-backed problem store. The zero value is not usable;
// create one with NewRemote and share it between consumers.
type Remote struct {
	client Transport
	logger *zap.Logger

	mu          sync.RWMutex
	problems    []models.Problem
	initialized bool
	fetching    bool

	group singleflight.Group
	wg    sync.WaitGroup
}

// RemoteOption configures a Remote.
type RemoteOption func(*Remote)

// WithRemoteLogger sets the logger used for diagnostics.
func WithRemoteLogger(l *zap.Logger) RemoteOption {
	return func(r *Remote) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRemote creates an empty store over client.
func NewRemote(client Transport, opts ...RemoteOption) *Remote {
	r := &Remote{
		client:   client,
		logger:   zap.NewNop(),
		problems: []models.Problem{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// EnsureInitialized starts one background fetch the first time it is called.
// Later calls, and calls made while that fetch is in flight, do nothing. If
// the fetch fails the next call tries again.
func (r *Remote) EnsureInitialized(ctx context.Context) {
	r.mu.Lock()
	if r.initialized || r.fetching {
		r.mu.Unlock()
		return
	}
	r.fetching = true
	r.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if _, err := r.FetchProblems(ctx); err != nil {
			r.logger.Error("初始化题目列表失败", zap.Error(err))
		}
	}()
}

// Wait blocks until every background fetch has finished.
func (r *Remote) Wait() {
	r.wg.Wait()
}

// Initialized reports whether a list fetch has succeeded.
func (r *Remote) Initialized() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.initialized
}

// Fetching reports whether a list fetch is in flight.
func (r *Remote) Fetching() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fetching
}

// FetchProblems loads the whole collection and replaces the cache.
// Overlapping calls share one request.
func (r *Remote) FetchProblems(ctx context.Context) ([]models.Problem, error) {
	v, err, _ := r.group.Do("problems", func() (any, error) {
		return r.fetchProblems(ctx)
	})
	if err != nil {
		return nil, err
	}
	return cloneAll(v.([]models.Problem)), nil
}

func (r *Remote) fetchProblems(ctx context.Context) ([]models.Problem, error) {
	r.setFetching(true)
	defer r.setFetching(false)

	var raw json.RawMessage
	if err := r.client.Get(ctx, pathFetchQuestions, &raw); err != nil {
		r.logger.Error("获取题目列表失败", zap.Error(err))
		return nil, err
	}

	problems, err := decodeProblemList(raw)
	if errors.Is(err, errNotAList) {
		r.logger.Warn("题目列表格式异常，已重置为空", zap.ByteString("body", truncate(raw, 256)))
		problems = []models.Problem{}
	} else if err != nil {
		r.logger.Error("获取题目列表失败", zap.Error(err))
		return nil, err
	}

	r.mu.Lock()
	r.problems = problems
	r.initialized = true
	r.mu.Unlock()

	r.logger.Debug("problem list fetched", zap.Int("count", len(problems)))
	return problems, nil
}

func (r *Remote) setFetching(v bool) {
	r.mu.Lock()
	r.fetching = v
	r.mu.Unlock()
}

// FetchProblemDetail loads one record. The cache is not touched.
func (r *Remote) FetchProblemDetail(ctx context.Context, id string) (models.Problem, error) {
	var raw json.RawMessage
	if err := r.client.Get(ctx, pathQuestionDetail+url.PathEscape(id), &raw); err != nil {
		r.logger.Error("获取题目详情失败", zap.String("id", id), zap.Error(err))
		return models.Problem{}, err
	}
	p, err := decodeProblem(raw)
	if err != nil {
		r.logger.Error("获取题目详情失败", zap.String("id", id), zap.Error(err))
		return models.Problem{}, err
	}
	return p, nil
}

// AddProblem creates a record on the server and refetches the collection.
// When the server does not echo the new record, it is looked up in the
// refetched list; failing that the payload is returned without an id.
func (r *Remote) AddProblem(ctx context.Context, payload models.CreatePayload) (models.Problem, error) {
	draft := models.NewFromPayload(payload)
	known := r.knownIDs()

	var raw json.RawMessage
	if err := r.client.Post(ctx, pathAddQuestions, encodeRecord(draft), &raw); err != nil {
		r.logger.Error("保存题目失败", zap.Error(err))
		return models.Problem{}, err
	}

	created, err := decodeProblem(raw)
	if err != nil || created.ID == "" {
		r.logger.Debug("add response carried no record", zap.ByteString("body", truncate(raw, 256)))
		r.refetch(ctx, func() {})
		if p, ok := r.findAdded(known, draft); ok {
			return p, nil
		}
		return draft, nil
	}

	r.refetch(ctx, func() { r.upsert(created) })
	return r.cachedOr(created), nil
}

// UpdateProblem merges updates over the cached record, or over an empty
// record when id is not cached, posts it and refetches the collection.
func (r *Remote) UpdateProblem(ctx context.Context, id string, updates models.UpdatePayload) (models.Problem, error) {
	current, ok := r.GetProblemByID(id)
	if !ok {
		current = models.Problem{Tags: []string{}}
	}
	merged := models.Merge(current, updates)
	merged.ID = id

	var raw json.RawMessage
	if err := r.client.Post(ctx, pathEditQuestions, encodeRecord(merged), &raw); err != nil {
		r.logger.Error("编辑题目失败", zap.String("id", id), zap.Error(err))
		return models.Problem{}, err
	}
	// Some backends answer with a bare status; the merged record stands in.
	if echoed, err := decodeProblem(raw); err == nil && echoed.ID == id {
		merged = echoed
	}

	r.refetch(ctx, func() { r.upsert(merged) })
	return r.cachedOr(merged), nil
}

// DeleteProblem removes a record on the server and refetches the collection.
func (r *Remote) DeleteProblem(ctx context.Context, id string) error {
	if err := r.client.Post(ctx, pathDeleteQuestions, wireDelete{ID: wireID(id)}, nil); err != nil {
		r.logger.Error("删除题目失败", zap.String("id", id), zap.Error(err))
		return err
	}
	r.refetch(ctx, func() { r.remove(id) })
	return nil
}

// ScoreProblem forwards req to the AI scoring endpoint.
func (r *Remote) ScoreProblem(ctx context.Context, req models.ScoreRequest) (models.ScoreResponse, error) {
	var out models.ScoreResponse
	if err := r.client.Post(ctx, pathScore, encodeScore(req), &out); err != nil {
		r.logger.Error("AI 打分失败", zap.String("id", req.ID), zap.Error(err))
		return nil, err
	}
	return out, nil
}

// AskAI forwards req to the AI question endpoint.
func (r *Remote) AskAI(ctx context.Context, req models.AskRequest) (models.AskResponse, error) {
	var out models.AskResponse
	if err := r.client.Post(ctx, pathAsk, req, &out); err != nil {
		r.logger.Error("AI 问答失败", zap.String("id", req.ID), zap.Error(err))
		return nil, err
	}
	return out, nil
}

// GetProblemByID looks id up in the cache.
func (r *Remote) GetProblemByID(id string) (models.Problem, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := findIndex(r.problems, id); i >= 0 {
		return r.problems[i].Clone(), true
	}
	return models.Problem{}, false
}

// Problems returns a snapshot of the cache.
func (r *Remote) Problems() []models.Problem {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneAll(r.problems)
}

// refetch reloads the canonical list after a mutation. When that fails the
// cache is patched with fallback so it still reflects the mutation.
func (r *Remote) refetch(ctx context.Context, fallback func()) {
	if _, err := r.FetchProblems(ctx); err != nil {
		r.logger.Warn("mutation succeeded but refetch failed, patching cache", zap.Error(err))
		fallback()
	}
}

func (r *Remote) knownIDs() map[string]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make(map[string]bool, len(r.problems))
	for _, p := range r.problems {
		ids[p.ID] = true
	}
	return ids
}

// findAdded returns the newest cached record whose id is not in known,
// preferring one with the draft's content and answer.
func (r *Remote) findAdded(known map[string]bool, draft models.Problem) (models.Problem, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fallback := -1
	for i := len(r.problems) - 1; i >= 0; i-- {
		p := r.problems[i]
		if known[p.ID] {
			continue
		}
		if p.Content == draft.Content && p.Answer == draft.Answer {
			return p.Clone(), true
		}
		if fallback < 0 {
			fallback = i
		}
	}
	if fallback >= 0 {
		return r.problems[fallback].Clone(), true
	}
	return models.Problem{}, false
}

func (r *Remote) cachedOr(p models.Problem) models.Problem {
	if p.ID == "" {
		return p
	}
	if cached, ok := r.GetProblemByID(p.ID); ok {
		return cached
	}
	return p
}

func (r *Remote) upsert(p models.Problem) {
	if p.ID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := findIndex(r.problems, p.ID); i >= 0 {
		r.problems[i] = p
		return
	}
	r.problems = append(r.problems, p)
}

func (r *Remote) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := findIndex(r.problems, id); i >= 0 {
		r.problems = append(r.problems[:i:i], r.problems[i+1:]...)
	}
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
