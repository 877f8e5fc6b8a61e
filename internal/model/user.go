package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxRecentPlayedSets bounds the per-user played-set history. Oldest
// records are evicted first.
const MaxRecentPlayedSets = 5

// PlayedSet records one question set a user has played, used to bias
// future sampling away from immediate repeats.
type PlayedSet struct {
	Source      Source    `json:"source" bson:"source"`
	QuestionIDs []string  `json:"questionIds" bson:"questionIds"`
	PlayedAt    time.Time `json:"playedAt" bson:"playedAt"`
}

// User is an account with its bounded played-set history embedded.
type User struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email            string             `json:"email" bson:"email"`
	PasswordHash     string             `json:"-" bson:"passwordHash"`
	DisplayName      string             `json:"displayName" bson:"displayName"`
	RecentPlayedSets []PlayedSet        `json:"recentPlayedSets" bson:"recentPlayedSets"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
}

// LastPlayedSet returns the most recent played set matching source, or
// nil if the user has none. History is kept most-recent-first.
func (u *User) LastPlayedSet(source Source) *PlayedSet {
	for i := range u.RecentPlayedSets {
		if u.RecentPlayedSets[i].Source == source {
			return &u.RecentPlayedSets[i]
		}
	}
	return nil
}

// RecordPlayedSet prepends the record and truncates the history to
// MaxRecentPlayedSets entries.
func (u *User) RecordPlayedSet(set PlayedSet) {
	history := make([]PlayedSet, 0, len(u.RecentPlayedSets)+1)
	history = append(history, set)
	history = append(history, u.RecentPlayedSets...)
	if len(history) > MaxRecentPlayedSets {
		history = history[:MaxRecentPlayedSets]
	}
	u.RecentPlayedSets = history
}
