package question

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/Dylan-Mejia/QuizAppBCS377/internal/model"
)

// Pool is the immutable in-memory question catalog. It is loaded once at
// startup and safe for unsynchronized concurrent reads.
type Pool struct {
	questions []model.Question
	byID      map[string]model.Question
}

// LoadPool reads the JSON catalog at path and normalizes it. A malformed
// catalog is a startup failure, not a runtime condition.
func LoadPool(path string) (*Pool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question catalog: %w", err)
	}

	var entries []model.CatalogEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse question catalog: %w", err)
	}

	return NewPool(entries)
}

// NewPool validates and normalizes raw catalog entries. Each question gets
// its ordinal position as a stable identifier.
func NewPool(entries []model.CatalogEntry) (*Pool, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("question catalog is empty")
	}

	pool := &Pool{
		questions: make([]model.Question, 0, len(entries)),
		byID:      make(map[string]model.Question, len(entries)),
	}

	for i, entry := range entries {
		q, err := normalize(entry, i)
		if err != nil {
			return nil, err
		}
		pool.questions = append(pool.questions, q)
		pool.byID[q.ID] = q
	}

	return pool, nil
}

func normalize(entry model.CatalogEntry, index int) (model.Question, error) {
	if entry.Question == "" {
		return model.Question{}, fmt.Errorf("catalog entry %d: missing question text", index)
	}

	texts := map[string]string{
		"A": entry.A,
		"B": entry.B,
		"C": entry.C,
		"D": entry.D,
	}

	options := make([]model.Option, 0, len(model.OptionKeys))
	for _, key := range model.OptionKeys {
		if texts[key] == "" {
			return model.Question{}, fmt.Errorf("catalog entry %d: missing option %s", index, key)
		}
		options = append(options, model.Option{Key: key, Text: texts[key]})
	}

	if _, ok := texts[entry.Answer]; !ok {
		return model.Question{}, fmt.Errorf("catalog entry %d: answer %q is not an option label", index, entry.Answer)
	}

	return model.Question{
		ID:      strconv.Itoa(index),
		Prompt:  entry.Question,
		Options: options,
		Answer:  entry.Answer,
	}, nil
}

// Get returns the question with the given id.
func (p *Pool) Get(id string) (model.Question, error) {
	q, ok := p.byID[id]
	if !ok {
		return model.Question{}, model.ErrQuestionNotFound
	}
	return q, nil
}

// Len is the number of questions in the pool.
func (p *Pool) Len() int {
	return len(p.questions)
}

// Questions returns the full catalog in load order. Callers must not
// mutate the returned slice.
func (p *Pool) Questions() []model.Question {
	return p.questions
}
