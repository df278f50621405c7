package models

import "time"

// Problem represents a single physics practice question.
type Problem struct {
	ID         string     `json:"id"`
	Title      string     `json:"title,omitempty"`
	Chapter    string     `json:"chapter,omitempty"`
	Difficulty string     `json:"difficulty,omitempty"`
	Source     string     `json:"source,omitempty"`
	Content    string     `json:"content"`
	Answer     string     `json:"answer"`
	Analysis   string     `json:"analysis,omitempty"`
	Tags       []string   `json:"tags"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

// CreatePayload carries the editable fields of a new problem.
type CreatePayload struct {
	Title      string
	Chapter    string
	Difficulty string
	Source     string
	Content    string
	Answer     string
	Analysis   string
	Tags       []string
}

// UpdatePayload is a partial update. Nil fields keep the current value.
type UpdatePayload struct {
	Title      *string
	Chapter    *string
	Difficulty *string
	Source     *string
	Content    *string
	Answer     *string
	Analysis   *string
	Tags       *[]string
}

// IsEmpty reports whether no field is set.
func (u UpdatePayload) IsEmpty() bool {
	return u.Title == nil && u.Chapter == nil && u.Difficulty == nil && u.Source == nil &&
		u.Content == nil && u.Answer == nil && u.Analysis == nil && u.Tags == nil
}

// ScoreRequest asks the backend to grade an answer to a problem.
type ScoreRequest struct {
	ID      string
	Content string
	Answer  string
	Tags    []string
}

// ScoreResponse is the raw grading result; its shape is owned by the backend.
type ScoreResponse map[string]any

// AskRequest forwards a free-form question about a problem.
type AskRequest struct {
	ID       string `json:"id,omitempty"`
	Content  string `json:"content,omitempty"`
	Question string `json:"question"`
}

// AskResponse is the raw answer from the backend.
type AskResponse map[string]any

// NewFromPayload builds a problem with no id from a create payload.
func NewFromPayload(p CreatePayload) Problem {
	return Problem{
		Title:      p.Title,
		Chapter:    p.Chapter,
		Difficulty: p.Difficulty,
		Source:     p.Source,
		Content:    p.Content,
		Answer:     p.Answer,
		Analysis:   p.Analysis,
		Tags:       CleanTags(p.Tags),
	}
}

// Merge applies the set fields of u over p and returns the result.
// p itself is left untouched.
func Merge(p Problem, u UpdatePayload) Problem {
	out := p
	out.Tags = append([]string(nil), p.Tags...)
	if u.Title != nil {
		out.Title = *u.Title
	}
	if u.Chapter != nil {
		out.Chapter = *u.Chapter
	}
	if u.Difficulty != nil {
		out.Difficulty = *u.Difficulty
	}
	if u.Source != nil {
		out.Source = *u.Source
	}
	if u.Content != nil {
		out.Content = *u.Content
	}
	if u.Answer != nil {
		out.Answer = *u.Answer
	}
	if u.Analysis != nil {
		out.Analysis = *u.Analysis
	}
	if u.Tags != nil {
		out.Tags = CleanTags(*u.Tags)
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	return out
}

// Clone returns a deep copy of p.
func (p Problem) Clone() Problem {
	out := p
	out.Tags = append([]string{}, p.Tags...)
	if p.CreatedAt != nil {
		t := *p.CreatedAt
		out.CreatedAt = &t
	}
	if p.UpdatedAt != nil {
		t := *p.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}

// HasTag reports whether p is tagged with name.
func (p Problem) HasTag(name string) bool {
	for _, t := range p.Tags {
		if t == name {
			return true
		}
	}
	return false
}
