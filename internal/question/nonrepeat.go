package question

import (
	"sort"

	"github.com/Dylan-Mejia/QuizAppBCS377/internal/model"
)

// maxSampleAttempts bounds how often the selector redraws before giving
// up on avoiding the previous set.
const maxSampleAttempts = 10

// SampleAvoidingSet draws a sample whose identifier set differs from
// lastSetIDs. De-duplication is best effort: after maxSampleAttempts
// colliding draws the final draw is accepted unconditionally, so an exact
// repeat remains possible.
func (s *Sampler) SampleAvoidingSet(n int, lastSetIDs []string) ([]model.Question, error) {
	for attempt := 0; attempt < maxSampleAttempts; attempt++ {
		questions, err := s.Sample(n)
		if err != nil {
			return nil, err
		}
		if !sameIDSet(IDs(questions), lastSetIDs) {
			return questions, nil
		}
	}
	return s.Sample(n)
}

// sameIDSet compares two identifier lists as unordered collections.
// A nil list never equals anything; different lengths are never equal.
func sameIDSet(a, b []string) bool {
	if a == nil || b == nil {
		return false
	}
	if len(a) != len(b) {
		return false
	}

	sa := append([]string(nil), a...)
	sb := append([]string(nil), b...)
	sort.Strings(sa)
	sort.Strings(sb)
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}
