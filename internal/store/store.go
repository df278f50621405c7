// Package store holds the canonical in-memory collection of physics problems
// and keeps it in sync with its backing storage.
//
// Remote is backed by the problem HTTP API and refetches the whole collection
// after every mutation. Local persists to a key/value storage and needs no
// network.
package store

import (
	"context"
	"errors"

	"github.com/LavenderBridge/physbank/internal/models"
)

var (
	// ErrNotFound is returned when an id has no matching problem.
	ErrNotFound = errors.New("problem not found")
	// ErrInvalidRecord is returned when a response is not a problem object.
	ErrInvalidRecord = errors.New("invalid problem record")
)

// Store is the CRUD contract shared by the remote and local stores.
type Store interface {
	FetchProblems(ctx context.Context) ([]models.Problem, error)
	FetchProblemDetail(ctx context.Context, id string) (models.Problem, error)
	AddProblem(ctx context.Context, payload models.CreatePayload) (models.Problem, error)
	UpdateProblem(ctx context.Context, id string, updates models.UpdatePayload) (models.Problem, error)
	DeleteProblem(ctx context.Context, id string) error
	GetProblemByID(id string) (models.Problem, bool)
	Problems() []models.Problem
}

// Assistant forwards problems to the AI scoring and question endpoints.
type Assistant interface {
	ScoreProblem(ctx context.Context, req models.ScoreRequest) (models.ScoreResponse, error)
	AskAI(ctx context.Context, req models.AskRequest) (models.AskResponse, error)
}

var (
	_ Store     = (*Remote)(nil)
	_ Assistant = (*Remote)(nil)
	_ Store     = (*Local)(nil)
)

func findIndex(problems []models.Problem, id string) int {
	for i, p := range problems {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(problems []models.Problem) []models.Problem {
	out := make([]models.Problem, len(problems))
	for i, p := range problems {
		out[i] = p.Clone()
	}
	return out
}

// dedupe keeps the last record for each id, in first-seen order.
func dedupe(problems []models.Problem) []models.Problem {
	out := make([]models.Problem, 0, len(problems))
	for _, p := range problems {
		if i := findIndex(out, p.ID); i >= 0 {
			out[i] = p
			continue
		}
		out = append(out, p)
	}
	return out
}
