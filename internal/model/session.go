package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Source identifies where a session's questions came from.
type Source string

const (
	SourceLocal   Source = "local"
	SourceOpenTDB Source = "opentdb"
)

// Valid reports whether the source is one of the known values.
func (s Source) Valid() bool {
	return s == SourceLocal || s == SourceOpenTDB
}

// Answer is one submitted response. CorrectAnswer is captured at
// submission time from the pool, never from the client.
type Answer struct {
	QuestionID     string `json:"questionId" bson:"questionId"`
	CorrectAnswer  string `json:"correctAnswer" bson:"correctAnswer"`
	SelectedAnswer string `json:"selectedAnswer" bson:"selectedAnswer"`
	IsCorrect      bool   `json:"isCorrect" bson:"isCorrect"`
}

// GameSession is one quiz attempt. It is created active and transitions
// to finished exactly once, when score, finish time and duration are set.
type GameSession struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID       primitive.ObjectID `json:"userId" bson:"userId"`
	Source       Source             `json:"source" bson:"source"`
	QuestionIDs  []string           `json:"questionIds" bson:"questionIds"`
	Answers      []Answer           `json:"answers" bson:"answers"`
	Score        *int               `json:"score,omitempty" bson:"score,omitempty"`
	NumQuestions int                `json:"numQuestions" bson:"numQuestions"`
	StartedAt    time.Time          `json:"startedAt" bson:"startedAt"`
	FinishedAt   *time.Time         `json:"finishedAt,omitempty" bson:"finishedAt,omitempty"`
	DurationMs   *int64             `json:"durationMs,omitempty" bson:"durationMs,omitempty"`
}

// Finished reports whether the session has been scored.
func (s *GameSession) Finished() bool {
	return s.FinishedAt != nil
}

// InQuestionSet reports whether the question belongs to this session.
func (s *GameSession) InQuestionSet(questionID string) bool {
	for _, id := range s.QuestionIDs {
		if id == questionID {
			return true
		}
	}
	return false
}

// HasAnswered reports whether the question was already answered in this
// session.
func (s *GameSession) HasAnswered(questionID string) bool {
	for _, a := range s.Answers {
		if a.QuestionID == questionID {
			return true
		}
	}
	return false
}

// CorrectCount is the number of correct answers recorded so far.
func (s *GameSession) CorrectCount() int {
	count := 0
	for _, a := range s.Answers {
		if a.IsCorrect {
			count++
		}
	}
	return count
}
