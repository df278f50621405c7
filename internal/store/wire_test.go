package store

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LavenderBridge/physbank/internal/models"
)

func TestDecodeProblem_Shapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want models.Problem
	}{
		{
			name: "numeric id and comma tags",
			raw:  `{"id": 12, "content": "c", "answer": "a", "tag": "力学, 运动学"}`,
			want: models.Problem{ID: "12", Content: "c", Answer: "a", Tags: []string{"力学", "运动学"}},
		},
		{
			name: "string id and list tags",
			raw:  `{"id": "p-1", "content": "c", "answer": "a", "tag": ["光学", "光学", ""]}`,
			want: models.Problem{ID: "p-1", Content: "c", Answer: "a", Tags: []string{"光学"}},
		},
		{
			name: "tags key and numeric difficulty",
			raw:  `{"id": "x", "tags": ["热学"], "difficulty": 3, "title": "t"}`,
			want: models.Problem{ID: "x", Title: "t", Difficulty: "3", Tags: []string{"热学"}},
		},
		{
			name: "null tag",
			raw:  `{"id": "x", "tag": null, "answer": null}`,
			want: models.Problem{ID: "x", Tags: []string{}},
		},
		{
			name: "full-width comma",
			raw:  `{"id": "x", "tag": "电磁学，电路"}`,
			want: models.Problem{ID: "x", Tags: []string{"电磁学", "电路"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeProblem(json.RawMessage(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeProblem_Timestamps(t *testing.T) {
	got, err := decodeProblem(json.RawMessage(`{"id":"1","createdAt":"2026-03-01T08:00:00Z","updatedAt":1772352000000}`))
	require.NoError(t, err)

	require.NotNil(t, got.CreatedAt)
	assert.True(t, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC).Equal(*got.CreatedAt))
	require.NotNil(t, got.UpdatedAt)
	assert.Equal(t, int64(1772352000000), got.UpdatedAt.UnixMilli())

	got, err = decodeProblem(json.RawMessage(`{"id":"1","createdAt":"yesterday"}`))
	require.NoError(t, err)
	assert.Nil(t, got.CreatedAt)
}

func TestDecodeProblem_Invalid(t *testing.T) {
	for _, raw := range []string{``, `null`, `[]`, `"x"`, `{"id": {"nested": 1}}`} {
		_, err := decodeProblem(json.RawMessage(raw))
		assert.True(t, errors.Is(err, ErrInvalidRecord), "raw=%q", raw)
	}
}

func TestDecodeProblemList(t *testing.T) {
	got, err := decodeProblemList(json.RawMessage(`[
		{"id": 1, "content": "old", "tag": "a"},
		null,
		{"content": "no id"},
		{"id": "1", "content": "new", "tag": ["b"]},
		{"id": 2, "tag": ""}
	]`))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].Content)
	assert.Equal(t, []string{"b"}, got[0].Tags)
	assert.Equal(t, "2", got[1].ID)

	_, err = decodeProblemList(json.RawMessage(`{"data": []}`))
	assert.True(t, errors.Is(err, errNotAList))

	_, err = decodeProblemList(json.RawMessage(`[1, 2]`))
	assert.True(t, errors.Is(err, ErrInvalidRecord))
}

func TestWireID(t *testing.T) {
	tests := map[string]string{
		"42":               `42`,
		"0":                `0`,
		"007":              `"007"`,
		"1772352000000":    `1772352000000`,
		"1234567890123456": `"1234567890123456"`,
		"p-1":              `"p-1"`,
		"":                 `""`,
	}
	for id, want := range tests {
		got, err := json.Marshal(wireID(id))
		require.NoError(t, err)
		assert.Equal(t, want, string(got), "id=%q", id)
	}
}

func TestEncodeRecord_Golden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	edit := encodeRecord(models.Problem{
		ID:      "42",
		Title:   "单摆",
		Content: "求周期",
		Answer:  "2π√(l/g)",
		Tags:    []string{"振动", "单摆"},
	})
	data, err := json.MarshalIndent(edit, "", "  ")
	require.NoError(t, err)
	g.Assert(t, "edit_numeric_id", append(data, '\n'))

	add := encodeRecord(models.NewFromPayload(models.CreatePayload{
		Chapter:    "电磁感应",
		Difficulty: "hard",
		Content:    "求感应电动势",
		Answer:     "BLv",
		Analysis:   "法拉第定律",
		Tags:       []string{" 电磁学 ", "电磁学"},
	}))
	data, err = json.MarshalIndent(add, "", "  ")
	require.NoError(t, err)
	g.Assert(t, "add_without_id", append(data, '\n'))

	score := encodeScore(models.ScoreRequest{ID: "p-1", Content: "求周期", Answer: "2 s"})
	data, err = json.MarshalIndent(score, "", "  ")
	require.NoError(t, err)
	g.Assert(t, "score_string_id", append(data, '\n'))
}
