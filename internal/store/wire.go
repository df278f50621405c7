package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/LavenderBridge/physbank/internal/models"
)

var errNotAList = errors.New("response is not a list")

// flexString accepts a JSON string, number, bool or null.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var v any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*f = ""
	case string:
		*f = flexString(x)
	case json.Number:
		*f = flexString(x.String())
	case bool:
		*f = flexString(strconv.FormatBool(x))
	default:
		return fmt.Errorf("expected scalar, got %T", v)
	}
	return nil
}

// flexTags accepts a list of scalars or a comma-delimited string.
type flexTags []string

func (f *flexTags) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = flexTags{}
		return nil
	}
	if b[0] == '[' {
		var items []flexString
		if err := json.Unmarshal(b, &items); err != nil {
			return fmt.Errorf("tag list: %w", err)
		}
		tags := make([]string, len(items))
		for i, it := range items {
			tags[i] = string(it)
		}
		*f = models.CleanTags(tags)
		return nil
	}
	var s flexString
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("tag string: %w", err)
	}
	*f = models.ParseTags(string(s))
	return nil
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02"}

// flexTime accepts RFC 3339 and a few common layouts, or epoch milliseconds.
// Anything else decodes to the zero value.
type flexTime struct {
	t *time.Time
}

func (f *flexTime) UnmarshalJSON(b []byte) error {
	var v flexString
	if err := v.UnmarshalJSON(b); err != nil || v == "" {
		return nil
	}
	s := string(v)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		t := time.UnixMilli(ms).UTC()
		f.t = &t
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			f.t = &t
			return nil
		}
	}
	return nil
}

// wireProblem is a problem record as the backend sends it.
type wireProblem struct {
	ID         flexString `json:"id"`
	Title      flexString `json:"title"`
	Chapter    flexString `json:"chapter"`
	Difficulty flexString `json:"difficulty"`
	Source     flexString `json:"source"`
	Content    flexString `json:"content"`
	Answer     flexString `json:"answer"`
	Analysis   flexString `json:"analysis"`
	Tag        *flexTags  `json:"tag"`
	Tags       *flexTags  `json:"tags"`
	CreatedAt  flexTime   `json:"createdAt"`
	UpdatedAt  flexTime   `json:"updatedAt"`
}

func (w wireProblem) toModel() models.Problem {
	p := models.Problem{
		ID:         string(w.ID),
		Title:      string(w.Title),
		Chapter:    string(w.Chapter),
		Difficulty: string(w.Difficulty),
		Source:     string(w.Source),
		Content:    string(w.Content),
		Answer:     string(w.Answer),
		Analysis:   string(w.Analysis),
		Tags:       []string{},
		CreatedAt:  w.CreatedAt.t,
		UpdatedAt:  w.UpdatedAt.t,
	}
	switch {
	case w.Tag != nil && len(*w.Tag) > 0:
		p.Tags = []string(*w.Tag)
	case w.Tags != nil:
		p.Tags = []string(*w.Tags)
	}
	return p
}

// decodeProblem normalizes a single record.
func decodeProblem(raw json.RawMessage) (models.Problem, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return models.Problem{}, ErrInvalidRecord
	}
	var w wireProblem
	if err := json.Unmarshal(raw, &w); err != nil {
		return models.Problem{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return w.toModel(), nil
}

// decodeProblemList normalizes a list response. Records without an id are
// dropped and duplicate ids collapse to the last occurrence.
func decodeProblemList(raw json.RawMessage) ([]models.Problem, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, errNotAList
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to parse problem list: %w", err)
	}
	problems := make([]models.Problem, 0, len(items))
	for _, item := range items {
		p, err := decodeProblem(item)
		if err != nil {
			if bytes.Equal(bytes.TrimSpace(item), []byte("null")) {
				continue
			}
			return nil, err
		}
		if p.ID == "" {
			continue
		}
		problems = append(problems, p)
	}
	return dedupe(problems), nil
}

// wireID encodes purely numeric ids as JSON numbers, others as strings.
type wireID string

func (id wireID) MarshalJSON() ([]byte, error) {
	if isNumericID(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func isNumericID(s string) bool {
	if s == "" || len(s) > 15 {
		return false
	}
	if len(s) > 1 && s[0] == '0' {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// wireRecord is a problem record as the backend expects it.
type wireRecord struct {
	ID         wireID `json:"id,omitempty"`
	Title      string `json:"title,omitempty"`
	Chapter    string `json:"chapter,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Source     string `json:"source,omitempty"`
	Content    string `json:"content"`
	Answer     string `json:"answer"`
	Analysis   string `json:"analysis,omitempty"`
	Tag        string `json:"tag"`
}

func encodeRecord(p models.Problem) wireRecord {
	return wireRecord{
		ID:         wireID(p.ID),
		Title:      p.Title,
		Chapter:    p.Chapter,
		Difficulty: p.Difficulty,
		Source:     p.Source,
		Content:    p.Content,
		Answer:     p.Answer,
		Analysis:   p.Analysis,
		Tag:        models.JoinTags(p.Tags),
	}
}

type wireDelete struct {
	ID wireID `json:"id"`
}

type wireScore struct {
	ID      wireID `json:"id"`
	Content string `json:"content"`
	Answer  string `json:"answer"`
	Tag     string `json:"tag"`
}

func encodeScore(req models.ScoreRequest) wireScore {
	return wireScore{
		ID:      wireID(req.ID),
		Content: req.Content,
		Answer:  req.Answer,
		Tag:     models.JoinTags(req.Tags),
	}
}
