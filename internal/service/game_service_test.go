package service

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Dylan-Mejia/QuizAppBCS377/internal/model"
	"github.com/Dylan-Mejia/QuizAppBCS377/internal/question"
)

// In-memory fakes for the repository and cache interfaces.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Mirrors the unique email index on the real collection.
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return model.ErrEmailTaken
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	copied := *user
	r.users[user.ID.Hex()] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID.Hex()]; !ok {
		return model.ErrUserNotFound
	}
	copied := *user
	r.users[user.ID.Hex()] = &copied
	return nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*model.GameSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*model.GameSession)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *model.GameSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session.ID = primitive.NewObjectID()
	copied := *session
	r.sessions[session.ID.Hex()] = &copied
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id string) (*model.GameSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (r *fakeSessionRepo) Update(_ context.Context, session *model.GameSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[session.ID.Hex()]; !ok {
		return model.ErrSessionNotFound
	}
	copied := *session
	r.sessions[session.ID.Hex()] = &copied
	return nil
}

func (r *fakeSessionRepo) ListByUser(_ context.Context, userID string, limit int64) ([]*model.GameSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.GameSession
	for _, s := range r.sessions {
		if s.UserID.Hex() == userID {
			copied := *s
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeSessionRepo) TopScored(_ context.Context, limit int64) ([]*model.GameSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.GameSession
	for _, s := range r.sessions {
		if s.Score != nil {
			copied := *s
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if *out[i].Score != *out[j].Score {
			return *out[i].Score > *out[j].Score
		}
		return out[i].FinishedAt.After(*out[j].FinishedAt)
	})
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeSessionCache struct {
	mu       sync.Mutex
	sessions map[string]*model.GameSession
}

func newFakeSessionCache() *fakeSessionCache {
	return &fakeSessionCache{sessions: make(map[string]*model.GameSession)}
}

func (c *fakeSessionCache) Set(_ context.Context, session *model.GameSession) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *session
	c.sessions[session.ID.Hex()] = &copied
	return nil
}

func (c *fakeSessionCache) Get(_ context.Context, id string) (*model.GameSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	session, ok := c.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (c *fakeSessionCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, id)
	return nil
}

type fakeLeaderboardCache struct {
	mu          sync.Mutex
	entries     []model.LeaderboardEntry
	invalidated int
}

func (c *fakeLeaderboardCache) Get(_ context.Context) ([]model.LeaderboardEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries, nil
}

func (c *fakeLeaderboardCache) Set(_ context.Context, entries []model.LeaderboardEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = entries
	return nil
}

func (c *fakeLeaderboardCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
	c.invalidated++
	return nil
}

// Test fixture

type gameFixture struct {
	svc      *GameService
	pool     *question.Pool
	users    *fakeUserRepo
	sessions *fakeSessionRepo
	lbCache  *fakeLeaderboardCache
	userID   string
}

func newGameFixture(t *testing.T, poolSize int) *gameFixture {
	t.Helper()

	entries := make([]model.CatalogEntry, poolSize)
	for i := range entries {
		entries[i] = model.CatalogEntry{
			Question: "prompt " + strconv.Itoa(i),
			A:        "a", B: "b", C: "c", D: "d",
			Answer: "B",
		}
	}
	pool, err := question.NewPool(entries)
	if err != nil {
		t.Fatal(err)
	}

	users := newFakeUserRepo()
	user := &model.User{Email: "alice@example.com", DisplayName: "Alice"}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatal(err)
	}

	sessions := newFakeSessionRepo()
	lbCache := &fakeLeaderboardCache{}
	svc := NewGameService(
		pool,
		question.NewSampler(pool, rand.New(rand.NewSource(1))),
		users,
		sessions,
		newFakeSessionCache(),
		lbCache,
	)

	return &gameFixture{
		svc:      svc,
		pool:     pool,
		users:    users,
		sessions: sessions,
		lbCache:  lbCache,
		userID:   user.ID.Hex(),
	}
}

func TestStartAnswerFinishFlow(t *testing.T) {
	ctx := context.Background()
	f := newGameFixture(t, 30)

	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return started }

	session, views, err := f.svc.Start(ctx, f.userID, 5, model.SourceLocal)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if len(views) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(views))
	}
	seen := make(map[string]bool)
	for _, v := range views {
		if seen[v.ID] {
			t.Fatalf("duplicate question %s in started game", v.ID)
		}
		seen[v.ID] = true
		if len(v.Options) != 4 {
			t.Fatalf("question %s has %d options", v.ID, len(v.Options))
		}
	}

	// Three correct answers ("B"), two wrong ones.
	for i, v := range views {
		selected := "B"
		if i >= 3 {
			selected = "A"
		}
		correct, err := f.svc.SubmitAnswer(ctx, session.ID.Hex(), v.ID, selected)
		if err != nil {
			t.Fatalf("answer %d failed: %v", i, err)
		}
		if correct != (i < 3) {
			t.Fatalf("answer %d: correct = %v", i, correct)
		}
	}

	finished := started.Add(90 * time.Second)
	f.svc.now = func() time.Time { return finished }

	score, total, err := f.svc.Finish(ctx, session.ID.Hex())
	if err != nil {
		t.Fatalf("finish failed: %v", err)
	}
	if score != 3 || total != 5 {
		t.Fatalf("expected score 3/5, got %d/%d", score, total)
	}

	stored, err := f.svc.GetSession(ctx, session.ID.Hex())
	if err != nil {
		t.Fatal(err)
	}
	if stored.Score == nil || *stored.Score != 3 {
		t.Fatalf("stored score = %v", stored.Score)
	}
	if stored.DurationMs == nil || *stored.DurationMs != 90_000 {
		t.Fatalf("stored duration = %v", stored.DurationMs)
	}

	user, err := f.users.GetByID(ctx, f.userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(user.RecentPlayedSets) != 1 {
		t.Fatalf("expected 1 played set, got %d", len(user.RecentPlayedSets))
	}
	if f.lbCache.invalidated != 1 {
		t.Fatalf("leaderboard cache invalidations = %d", f.lbCache.invalidated)
	}
}

func TestStartAvoidsPreviousSet(t *testing.T) {
	ctx := context.Background()
	f := newGameFixture(t, 40)

	first, _, err := f.svc.Start(ctx, f.userID, 5, model.SourceLocal)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := f.svc.Finish(ctx, first.ID.Hex()); err != nil {
		t.Fatal(err)
	}

	previous := make(map[string]bool)
	for _, id := range first.QuestionIDs {
		previous[id] = true
	}

	for i := 0; i < 10; i++ {
		next, _, err := f.svc.Start(ctx, f.userID, 5, model.SourceLocal)
		if err != nil {
			t.Fatal(err)
		}
		same := true
		for _, id := range next.QuestionIDs {
			if !previous[id] {
				same = false
				break
			}
		}
		if same {
			t.Fatalf("round %d: drew the previous set %v again", i, first.QuestionIDs)
		}
	}
}

func TestStartRejectsUnsupportedSources(t *testing.T) {
	ctx := context.Background()
	f := newGameFixture(t, 10)

	if _, _, err := f.svc.Start(ctx, f.userID, 5, model.SourceOpenTDB); !errors.Is(err, model.ErrSourceNotImplemented) {
		t.Fatalf("opentdb: expected ErrSourceNotImplemented, got %v", err)
	}
	if _, _, err := f.svc.Start(ctx, f.userID, 5, model.Source("bogus")); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("bogus source: expected ErrValidation, got %v", err)
	}
}

func TestStartUnknownUser(t *testing.T) {
	f := newGameFixture(t, 10)

	_, _, err := f.svc.Start(context.Background(), primitive.NewObjectID().Hex(), 5, model.SourceLocal)
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestSubmitAnswerValidation(t *testing.T) {
	ctx := context.Background()
	f := newGameFixture(t, 30)

	session, views, err := f.svc.Start(ctx, f.userID, 5, model.SourceLocal)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.SubmitAnswer(ctx, primitive.NewObjectID().Hex(), views[0].ID, "A"); !errors.Is(err, model.ErrSessionNotFound) {
		t.Fatalf("unknown session: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := f.svc.SubmitAnswer(ctx, session.ID.Hex(), "999", "A"); !errors.Is(err, model.ErrQuestionNotFound) {
		t.Fatalf("unknown question: expected ErrQuestionNotFound, got %v", err)
	}

	// A pool question outside the session's set.
	outside := ""
	for _, q := range f.pool.Questions() {
		if !session.InQuestionSet(q.ID) {
			outside = q.ID
			break
		}
	}
	if _, err := f.svc.SubmitAnswer(ctx, session.ID.Hex(), outside, "A"); !errors.Is(err, model.ErrQuestionNotInSession) {
		t.Fatalf("out-of-set question: expected ErrQuestionNotInSession, got %v", err)
	}

	if _, err := f.svc.SubmitAnswer(ctx, session.ID.Hex(), views[0].ID, "A"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.SubmitAnswer(ctx, session.ID.Hex(), views[0].ID, "B"); !errors.Is(err, model.ErrAlreadyAnswered) {
		t.Fatalf("duplicate answer: expected ErrAlreadyAnswered, got %v", err)
	}
}

func TestSubmitAnswerStaleCachedSession(t *testing.T) {
	ctx := context.Background()
	f := newGameFixture(t, 30)

	session, views, err := f.svc.Start(ctx, f.userID, 5, model.SourceLocal)
	if err != nil {
		t.Fatal(err)
	}

	// The session stays in the cache but its backing document is gone.
	// The write must not vanish silently.
	f.sessions.mu.Lock()
	delete(f.sessions.sessions, session.ID.Hex())
	f.sessions.mu.Unlock()

	if _, err := f.svc.SubmitAnswer(ctx, session.ID.Hex(), views[0].ID, "A"); !errors.Is(err, model.ErrSessionNotFound) {
		t.Fatalf("stale cached session: expected ErrSessionNotFound, got %v", err)
	}
}

func TestFinishIsOneWay(t *testing.T) {
	ctx := context.Background()
	f := newGameFixture(t, 10)

	session, _, err := f.svc.Start(ctx, f.userID, 5, model.SourceLocal)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := f.svc.Finish(ctx, session.ID.Hex()); err != nil {
		t.Fatal(err)
	}
	if _, _, err := f.svc.Finish(ctx, session.ID.Hex()); !errors.Is(err, model.ErrSessionFinished) {
		t.Fatalf("second finish: expected ErrSessionFinished, got %v", err)
	}
	if _, err := f.svc.SubmitAnswer(ctx, session.ID.Hex(), session.QuestionIDs[0], "A"); !errors.Is(err, model.ErrSessionFinished) {
		t.Fatalf("answer after finish: expected ErrSessionFinished, got %v", err)
	}
}

func TestHistoryEvictionAcrossGames(t *testing.T) {
	ctx := context.Background()
	f := newGameFixture(t, 40)

	for i := 0; i < 6; i++ {
		session, _, err := f.svc.Start(ctx, f.userID, 5, model.SourceLocal)
		if err != nil {
			t.Fatal(err)
		}
		if _, _, err := f.svc.Finish(ctx, session.ID.Hex()); err != nil {
			t.Fatal(err)
		}
	}

	user, err := f.users.GetByID(ctx, f.userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(user.RecentPlayedSets) != model.MaxRecentPlayedSets {
		t.Fatalf("expected %d played sets, got %d", model.MaxRecentPlayedSets, len(user.RecentPlayedSets))
	}
	for i := 1; i < len(user.RecentPlayedSets); i++ {
		if user.RecentPlayedSets[i].PlayedAt.After(user.RecentPlayedSets[i-1].PlayedAt) {
			t.Fatal("played sets are not most-recent-first")
		}
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	ctx := context.Background()
	f := newGameFixture(t, 10)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	owner, _ := primitive.ObjectIDFromHex(f.userID)
	for i, score := range []int{7, 9, 9, 5} {
		s := score
		finished := base.Add(time.Duration(i+1) * time.Minute)
		session := &model.GameSession{
			UserID:       owner,
			Source:       model.SourceLocal,
			NumQuestions: 10,
			Score:        &s,
			StartedAt:    base,
			FinishedAt:   &finished,
		}
		if err := f.sessions.Create(ctx, session); err != nil {
			t.Fatal(err)
		}
	}
	// One unfinished session must not appear.
	if err := f.sessions.Create(ctx, &model.GameSession{UserID: owner, Source: model.SourceLocal, StartedAt: base}); err != nil {
		t.Fatal(err)
	}

	entries, err := f.svc.Leaderboard(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}

	wantScores := []int{9, 9, 7, 5}
	for i, want := range wantScores {
		if entries[i].Score != want {
			t.Fatalf("entry %d: score = %d, want %d (%+v)", i, entries[i].Score, want, entries)
		}
	}
	// The two 9s: later finish first.
	if !entries[0].FinishedAt.After(entries[1].FinishedAt) {
		t.Fatal("tie not broken by most recent finish")
	}
	if entries[0].DisplayName != "Alice" {
		t.Fatalf("expected display name Alice, got %s", entries[0].DisplayName)
	}
}

func TestLeaderboardAnonymousOwner(t *testing.T) {
	ctx := context.Background()
	f := newGameFixture(t, 10)

	score := 4
	finished := time.Now()
	session := &model.GameSession{
		UserID:       primitive.NewObjectID(),
		Source:       model.SourceLocal,
		NumQuestions: 5,
		Score:        &score,
		StartedAt:    finished.Add(-time.Minute),
		FinishedAt:   &finished,
	}
	if err := f.sessions.Create(ctx, session); err != nil {
		t.Fatal(err)
	}

	entries, err := f.svc.Leaderboard(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].DisplayName != model.AnonymousName {
		t.Fatalf("expected a single Anonymous entry, got %+v", entries)
	}
}
