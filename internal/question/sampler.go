package question

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/Dylan-Mejia/QuizAppBCS377/internal/model"
)

// Sampler draws random question subsets from a pool. The random source is
// injected so tests can seed it; a mutex guards it because *rand.Rand is
// not safe for concurrent use.
type Sampler struct {
	pool *Pool

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSampler creates a sampler over pool. A nil rnd falls back to a
// time-seeded source.
func NewSampler(pool *Pool, rnd *rand.Rand) *Sampler {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Sampler{pool: pool, rnd: rnd}
}

// Sample returns n distinct questions drawn uniformly without replacement,
// in random order. Requests beyond the pool size are clamped to it.
func (s *Sampler) Sample(n int) ([]model.Question, error) {
	if n <= 0 {
		return nil, model.ErrInvalidQuestionCount
	}
	size := s.pool.Len()
	if n > size {
		log.Printf("sampler: requested %d questions, pool has %d, clamping", n, size)
		n = size
	}

	// Fisher-Yates over the index space, then take a prefix.
	indices := make([]int, size)
	for i := range indices {
		indices[i] = i
	}

	s.mu.Lock()
	for i := size - 1; i > 0; i-- {
		j := s.rnd.Intn(i + 1)
		indices[i], indices[j] = indices[j], indices[i]
	}
	s.mu.Unlock()

	questions := make([]model.Question, n)
	for i := 0; i < n; i++ {
		questions[i] = s.pool.questions[indices[i]]
	}
	return questions, nil
}

// IDs extracts the identifiers of a sampled question list, in order.
func IDs(questions []model.Question) []string {
	ids := make([]string, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	return ids
}
