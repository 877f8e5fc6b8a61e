package model

import "time"

// AnonymousName is shown when a session's owner cannot be resolved.
const AnonymousName = "Anonymous"

// LeaderboardEntry is one row of the public leaderboard.
type LeaderboardEntry struct {
	DisplayName  string    `json:"displayName"`
	Score        int       `json:"score"`
	NumQuestions int       `json:"numQuestions"`
	FinishedAt   time.Time `json:"finishedAt"`
}
