package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serverRecord struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
	Answer  string `json:"answer"`
	Tag     string `json:"tag"`
}

// problemServer is an in-memory problem API.
type problemServer struct {
	mu      sync.Mutex
	records []serverRecord
	nextID  int
	failAll bool

	lastAdd   map[string]any
	lastEdit  map[string]any
	lastScore map[string]any
	lastAsk   map[string]any
	srv       *httptest.Server
}

func newProblemServer(t *testing.T) *problemServer {
	t.Helper()
	s := &problemServer{
		nextID: 7,
		records: []serverRecord{
			{ID: 1, Content: "求单摆周期", Answer: "2π√(l/g)", Tag: "力学,振动"},
			{ID: 2, Content: "求感应电动势", Answer: "BLv", Tag: "电磁学"},
		},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/fetchQuestions", s.handleList)
	mux.HandleFunc("GET /api/questions/{id}", s.handleDetail)
	mux.HandleFunc("POST /api/addQuestions", s.handleAdd)
	mux.HandleFunc("POST /api/editQuestions", s.handleEdit)
	mux.HandleFunc("POST /api/deleteQuestions", s.handleDelete)
	mux.HandleFunc("POST /api/questions/score", s.handleScore)
	mux.HandleFunc("POST /api/questions/ask", s.handleAsk)
	s.srv = httptest.NewServer(mux)
	t.Cleanup(s.srv.Close)
	return s
}

func (s *problemServer) reply(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *problemServer) decode(r *http.Request) map[string]any {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	return body
}

func (s *problemServer) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		http.Error(w, "boom", http.StatusInternalServerError)
		return
	}
	s.reply(w, s.records)
}

func (s *problemServer) handleDetail(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records {
		if strconv.Itoa(rec.ID) == r.PathValue("id") {
			s.reply(w, rec)
			return
		}
	}
	http.Error(w, "not found", http.StatusNotFound)
}

func (s *problemServer) handleAdd(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body := s.decode(r)
	s.lastAdd = body
	rec := serverRecord{ID: s.nextID}
	s.nextID++
	rec.Content, _ = body["content"].(string)
	rec.Answer, _ = body["answer"].(string)
	rec.Tag, _ = body["tag"].(string)
	s.records = append(s.records, rec)
	s.reply(w, rec)
}

func (s *problemServer) handleEdit(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body := s.decode(r)
	s.lastEdit = body
	id, _ := body["id"].(float64)
	for i := range s.records {
		if s.records[i].ID == int(id) {
			s.records[i].Content, _ = body["content"].(string)
			s.records[i].Answer, _ = body["answer"].(string)
			s.records[i].Tag, _ = body["tag"].(string)
			s.reply(w, s.records[i])
			return
		}
	}
	http.Error(w, "not found", http.StatusNotFound)
}

func (s *problemServer) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, _ := s.decode(r)["id"].(float64)
	kept := s.records[:0]
	for _, rec := range s.records {
		if rec.ID != int(id) {
			kept = append(kept, rec)
		}
	}
	s.records = kept
	s.reply(w, map[string]any{"ok": true})
}

func (s *problemServer) handleScore(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastScore = s.decode(r)
	s.reply(w, map[string]any{"score": 8, "comment": "思路正确"})
}

func (s *problemServer) handleAsk(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAsk = s.decode(r)
	s.reply(w, map[string]any{"answer": "摆长越长周期越大"})
}

func (s *problemServer) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func TestRemote_ListAndShow(t *testing.T) {
	e := newTestEnv(t)
	s := newProblemServer(t)

	out, err := e.run("", "--api", s.srv.URL, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "📚 2 problems")
	assert.Contains(t, out, "力学, 振动")

	out, err = e.run("", "--api", s.srv.URL, "show", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "[2] 求感应电动势")
	assert.Contains(t, out, "Answer: BLv")
}

func TestRemote_ShowMissing(t *testing.T) {
	e := newTestEnv(t)
	s := newProblemServer(t)

	_, err := e.run("", "--api", s.srv.URL, "show", "99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error fetching problem 99")
}

func TestRemote_ListServerError(t *testing.T) {
	e := newTestEnv(t)
	s := newProblemServer(t)
	s.failAll = true

	_, err := e.run("", "--api", s.srv.URL, "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error listing problems")
}

func TestRemote_AddSendsJoinedTags(t *testing.T) {
	e := newTestEnv(t)
	s := newProblemServer(t)

	out, err := e.run("", "--api", s.srv.URL, "add",
		"--content", "求向心加速度", "--answer", "v²/r", "--tags", "力学，圆周运动")
	require.NoError(t, err)
	assert.Contains(t, out, "✅ Added problem 7")

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Equal(t, "力学,圆周运动", s.lastAdd["tag"])
	assert.NotContains(t, s.lastAdd, "id")
	assert.Len(t, s.records, 3)
}

func TestRemote_EditMergesOverCached(t *testing.T) {
	e := newTestEnv(t)
	s := newProblemServer(t)

	out, err := e.run("", "--api", s.srv.URL, "edit", "1", "--answer", "T = 2π√(l/g)")
	require.NoError(t, err)
	assert.Contains(t, out, "Problem 1 updated successfully")

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Equal(t, float64(1), s.lastEdit["id"])
	assert.Equal(t, "T = 2π√(l/g)", s.lastEdit["answer"])
	assert.Equal(t, "求单摆周期", s.lastEdit["content"])
	assert.Equal(t, "力学,振动", s.lastEdit["tag"])
}

func TestRemote_EditUnknownID(t *testing.T) {
	e := newTestEnv(t)
	s := newProblemServer(t)

	_, err := e.run("", "--api", s.srv.URL, "edit", "99", "--answer", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "problem not found with ID: 99")
	assert.Nil(t, s.lastEdit)
}

func TestRemote_EditReportsListFailure(t *testing.T) {
	e := newTestEnv(t)
	s := newProblemServer(t)
	s.failAll = true

	for name, args := range map[string][]string{
		"flags":       {"edit", "1", "--answer", "x"},
		"interactive": {"open", "/question/1/edit"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := e.run("", append([]string{"--api", s.srv.URL}, args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "error fetching problems")
			assert.Contains(t, err.Error(), "status 500")
			assert.NotContains(t, err.Error(), "not found")
		})
	}
	assert.Nil(t, s.lastEdit)
}

func TestRemote_DeleteForce(t *testing.T) {
	e := newTestEnv(t)
	s := newProblemServer(t)

	out, err := e.run("", "--api", s.srv.URL, "delete", "2", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Problem deleted")
	assert.Equal(t, 1, s.count())
}

func TestRemote_Score(t *testing.T) {
	e := newTestEnv(t)
	s := newProblemServer(t)

	out, err := e.run("", "--api", s.srv.URL, "score", "1", "--answer", "2 s")
	require.NoError(t, err)
	assert.Contains(t, out, "🧮 AI score")
	assert.Contains(t, out, "comment: 思路正确")
	assert.Contains(t, out, "score: 8")

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Equal(t, float64(1), s.lastScore["id"])
	assert.Equal(t, "求单摆周期", s.lastScore["content"])
	assert.Equal(t, "2 s", s.lastScore["answer"])
	assert.Equal(t, "力学,振动", s.lastScore["tag"])
}

func TestRemote_Ask(t *testing.T) {
	e := newTestEnv(t)
	s := newProblemServer(t)

	out, err := e.run("", "--api", s.srv.URL, "ask", "1", "周期", "和摆长有关吗")
	require.NoError(t, err)
	assert.Contains(t, out, "🤖 AI answer")
	assert.Contains(t, out, "answer: 摆长越长周期越大")

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Equal(t, "周期 和摆长有关吗", s.lastAsk["question"])
	assert.Equal(t, "求单摆周期", s.lastAsk["content"])
}

func TestRemote_PracticeScoresAnswers(t *testing.T) {
	e := newTestEnv(t)
	s := newProblemServer(t)

	out, err := e.run("2 s\n\n", "--api", s.srv.URL, "practice", "--tag", "振动")
	require.NoError(t, err)
	assert.Contains(t, out, "Practicing [1/1]")
	assert.Contains(t, out, "score: 8")
	assert.Contains(t, out, "📖 Reference answer: 2π√(l/g)")
	assert.NotContains(t, out, "AI scoring unavailable")
}
