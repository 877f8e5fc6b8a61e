package service

import "github.com/Dylan-Mejia/QuizAppBCS377/internal/model"

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastLeaderboard(entries []model.LeaderboardEntry)
}
