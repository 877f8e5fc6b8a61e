package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Dylan-Mejia/QuizAppBCS377/internal/cache"
	"github.com/Dylan-Mejia/QuizAppBCS377/internal/model"
	"github.com/Dylan-Mejia/QuizAppBCS377/internal/question"
	"github.com/Dylan-Mejia/QuizAppBCS377/internal/repository"
)

const (
	// DefaultNumQuestions is used when the client does not ask for a count.
	DefaultNumQuestions = 10

	historyLimit     = 20
	leaderboardLimit = 10
)

// GameService owns the quiz session lifecycle: starting a game with a
// non-repeating question set, recording answers, scoring on finish and
// maintaining the per-user played-set history.
type GameService struct {
	pool         *question.Pool
	sampler      *question.Sampler
	users        repository.UserRepo
	sessions     repository.SessionRepo
	sessionCache cache.SessionCache
	lbCache      cache.LeaderboardCache
	broadcaster  Broadcaster
	now          func() time.Time
}

// NewGameService creates a new game service
func NewGameService(
	pool *question.Pool,
	sampler *question.Sampler,
	users repository.UserRepo,
	sessions repository.SessionRepo,
	sessionCache cache.SessionCache,
	lbCache cache.LeaderboardCache,
) *GameService {
	return &GameService{
		pool:         pool,
		sampler:      sampler,
		users:        users,
		sessions:     sessions,
		sessionCache: sessionCache,
		lbCache:      lbCache,
		now:          time.Now,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket leaderboard updates
func (s *GameService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Start creates an active session for the user. The question set is drawn
// avoiding the user's most recent set of the same source.
func (s *GameService) Start(ctx context.Context, userID string, numQuestions int, source model.Source) (*model.GameSession, []model.QuestionView, error) {
	if !source.Valid() {
		return nil, nil, fmt.Errorf("unknown question source %q: %w", source, model.ErrValidation)
	}
	if source != model.SourceLocal {
		return nil, nil, model.ErrSourceNotImplemented
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	var lastSetIDs []string
	if last := user.LastPlayedSet(model.SourceLocal); last != nil {
		lastSetIDs = last.QuestionIDs
	}

	questions, err := s.sampler.SampleAvoidingSet(numQuestions, lastSetIDs)
	if err != nil {
		return nil, nil, err
	}

	session := &model.GameSession{
		UserID:       user.ID,
		Source:       source,
		QuestionIDs:  question.IDs(questions),
		Answers:      []model.Answer{},
		NumQuestions: len(questions),
		StartedAt:    s.now(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}
	s.cacheSession(ctx, session)

	views := make([]model.QuestionView, len(questions))
	for i, q := range questions {
		views[i] = q.View()
	}
	return session, views, nil
}

// SubmitAnswer records one answer on an active session and reports
// whether it was correct. The authoritative correct answer always comes
// from the pool, never from the client.
func (s *GameService) SubmitAnswer(ctx context.Context, sessionID, questionID, selected string) (bool, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return false, err
	}
	if session.Finished() {
		return false, model.ErrSessionFinished
	}

	q, err := s.pool.Get(questionID)
	if err != nil {
		return false, err
	}
	if !session.InQuestionSet(questionID) {
		return false, model.ErrQuestionNotInSession
	}
	if session.HasAnswered(questionID) {
		return false, model.ErrAlreadyAnswered
	}

	isCorrect := selected == q.Answer
	session.Answers = append(session.Answers, model.Answer{
		QuestionID:     questionID,
		CorrectAnswer:  q.Answer,
		SelectedAnswer: selected,
		IsCorrect:      isCorrect,
	})

	if err := s.sessions.Update(ctx, session); err != nil {
		return false, fmt.Errorf("update session: %w", err)
	}
	s.cacheSession(ctx, session)

	return isCorrect, nil
}

// Finish scores the session, records the played set on the owner's
// history and returns score and question count. Finishing is a one-way
// transition; a second call is rejected.
func (s *GameService) Finish(ctx context.Context, sessionID string) (int, int, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return 0, 0, err
	}
	if session.Finished() {
		return 0, 0, model.ErrSessionFinished
	}

	now := s.now()
	score := session.CorrectCount()
	duration := now.Sub(session.StartedAt).Milliseconds()
	session.Score = &score
	session.FinishedAt = &now
	session.DurationMs = &duration

	if err := s.sessions.Update(ctx, session); err != nil {
		return 0, 0, fmt.Errorf("update session: %w", err)
	}
	s.cacheSession(ctx, session)

	if err := s.recordHistory(ctx, session, now); err != nil {
		return 0, 0, err
	}

	if err := s.lbCache.Invalidate(ctx); err != nil {
		log.Printf("invalidate leaderboard cache: %v", err)
	}
	s.broadcastLeaderboard(ctx)

	return score, session.NumQuestions, nil
}

// GetSession returns the full session record.
func (s *GameService) GetSession(ctx context.Context, sessionID string) (*model.GameSession, error) {
	return s.loadSession(ctx, sessionID)
}

// History returns the user's most recent sessions, newest first.
func (s *GameService) History(ctx context.Context, userID string) ([]*model.GameSession, error) {
	sessions, err := s.sessions.ListByUser(ctx, userID, historyLimit)
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []*model.GameSession{}
	}
	return sessions, nil
}

// Leaderboard returns the top finished sessions by score, ties broken by
// most recent finish. Results are cached in Redis for a short window.
func (s *GameService) Leaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	if cached, err := s.lbCache.Get(ctx); err != nil {
		log.Printf("read leaderboard cache: %v", err)
	} else if cached != nil {
		return cached, nil
	}

	top, err := s.sessions.TopScored(ctx, leaderboardLimit)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(top))
	entries := make([]model.LeaderboardEntry, 0, len(top))
	for _, session := range top {
		uid := session.UserID.Hex()
		name, ok := names[uid]
		if !ok {
			name = model.AnonymousName
			if user, err := s.users.GetByID(ctx, uid); err == nil {
				name = user.DisplayName
			}
			names[uid] = name
		}

		entry := model.LeaderboardEntry{
			DisplayName:  name,
			NumQuestions: session.NumQuestions,
		}
		if session.Score != nil {
			entry.Score = *session.Score
		}
		if session.FinishedAt != nil {
			entry.FinishedAt = *session.FinishedAt
		}
		entries = append(entries, entry)
	}

	if err := s.lbCache.Set(ctx, entries); err != nil {
		log.Printf("write leaderboard cache: %v", err)
	}
	return entries, nil
}

func (s *GameService) loadSession(ctx context.Context, sessionID string) (*model.GameSession, error) {
	if cached, err := s.sessionCache.Get(ctx, sessionID); err != nil {
		log.Printf("read session cache: %v", err)
	} else if cached != nil {
		return cached, nil
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.cacheSession(ctx, session)
	return session, nil
}

func (s *GameService) cacheSession(ctx context.Context, session *model.GameSession) {
	if err := s.sessionCache.Set(ctx, session); err != nil {
		log.Printf("write session cache: %v", err)
	}
}

// recordHistory pushes the played set onto the owner's bounded history.
// A missing owner is tolerated: the session keeps its score either way.
func (s *GameService) recordHistory(ctx context.Context, session *model.GameSession, playedAt time.Time) error {
	user, err := s.users.GetByID(ctx, session.UserID.Hex())
	if errors.Is(err, model.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	user.RecordPlayedSet(model.PlayedSet{
		Source:      session.Source,
		QuestionIDs: session.QuestionIDs,
		PlayedAt:    playedAt,
	})
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("update user history: %w", err)
	}
	return nil
}

func (s *GameService) broadcastLeaderboard(ctx context.Context) {
	if s.broadcaster == nil {
		return
	}
	entries, err := s.Leaderboard(ctx)
	if err != nil {
		log.Printf("leaderboard broadcast skipped: %v", err)
		return
	}
	s.broadcaster.BroadcastLeaderboard(entries)
}
