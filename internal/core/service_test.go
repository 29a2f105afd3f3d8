package core_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/mikey/llm-mood-engine/internal/adapters/cache"
	"github.com/mikey/llm-mood-engine/internal/adapters/session"
	"github.com/mikey/llm-mood-engine/internal/adapters/store"
	"github.com/mikey/llm-mood-engine/internal/core"
	"github.com/mikey/llm-mood-engine/internal/stopwords"
	"go.uber.org/zap/zaptest"
)

type recorder struct {
	mu      sync.Mutex
	records []core.AnalysisRecord
}

func (r *recorder) Record(record *core.AnalysisRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *record)
}

// conflictingStore fails the first n updates with a version conflict
type conflictingStore struct {
	core.SessionStore
	mu        sync.Mutex
	conflicts int
}

func (s *conflictingStore) Update(ctx context.Context, sess *core.Session) error {
	s.mu.Lock()
	if s.conflicts > 0 {
		s.conflicts--
		s.mu.Unlock()
		return core.ErrVersionConflict
	}
	s.mu.Unlock()
	return s.SessionStore.Update(ctx, sess)
}

func seededProfile(word string, e core.Emotion, weight, valence float64, pol core.Polarity) *core.EmotionalProfile {
	p := &core.EmotionalProfile{Word: word}
	rest := (1 - weight) / (core.NumEmotions - 1)
	for _, c := range core.Emotions {
		p.Emotions[c] = rest
	}
	p.Emotions[e] = weight
	p.VAD = core.VAD{Valence: valence, Arousal: 0.6, Dominance: 0.5}
	p.Sentiment = core.Sentiment{Polarity: pol, Strength: 0.8}
	return p
}

func newService(t *testing.T, sessions core.SessionStore, rec core.AnalysisRecorder, maxLen int) *core.MoodService {
	t.Helper()
	logger := zaptest.NewLogger(t)

	profiles := store.NewMemoryStore()
	ctx := context.Background()
	for _, p := range []*core.EmotionalProfile{
		seededProfile("wonderful", core.Joy, 0.8, 0.9, core.Positive),
		seededProfile("amazing", core.Joy, 0.75, 0.85, core.Positive),
		seededProfile("miserable", core.Sadness, 0.8, 0.1, core.Negative),
		seededProfile("awful", core.Disgust, 0.7, 0.15, core.Negative),
	} {
		if _, err := profiles.UpsertWord(ctx, p, true); err != nil {
			t.Fatalf("seed %s: %v", p.Word, err)
		}
	}

	profileCache := cache.NewMemoryCache(logger, 0, 0)
	t.Cleanup(profileCache.Stop)

	resolver := core.NewWordResolver(profileCache, profiles, nil, stopwords.NewChecker(nil, logger), logger, core.ResolverOptions{})
	return core.NewMoodService(
		resolver,
		core.NewTextAggregator(0, false),
		core.NewSessionAggregator(),
		sessions,
		rec,
		logger,
		maxLen,
	)
}

func TestAnalyzeText(t *testing.T) {
	rec := &recorder{}
	svc := newService(t, session.NewMemoryStore(), rec, 0)

	res, err := svc.AnalyzeText(context.Background(), "I feel wonderful and amazing today")
	if err != nil {
		t.Fatalf("AnalyzeText: %v", err)
	}
	if res.OverallEmotion != core.Joy || res.Confidence <= 0.5 {
		t.Errorf("result = %v (%v), want joy above 0.5", res.OverallEmotion, res.Confidence)
	}
	if res.WordCount != 6 || res.AnalyzedWordCount != 2 {
		t.Errorf("counts = %d/%d, want 2/6", res.AnalyzedWordCount, res.WordCount)
	}
	if res.ProcessingID == "" || res.AnalyzedAt.IsZero() {
		t.Errorf("missing processing metadata: %+v", res)
	}
	if res.InferenceCalls != 0 {
		t.Errorf("inference calls = %d, want 0 without a client", res.InferenceCalls)
	}

	if len(rec.records) != 1 {
		t.Fatalf("recorded %d analyses, want 1", len(rec.records))
	}
	if got := rec.records[0]; got.ProcessingID != res.ProcessingID || got.OverallEmotion != core.Joy {
		t.Errorf("record = %+v", got)
	}
}

func TestAnalyzeTextRejectsInvalidInput(t *testing.T) {
	svc := newService(t, session.NewMemoryStore(), nil, 10)

	tests := []struct {
		name string
		text string
		want error
	}{
		{"empty", "", core.ErrEmptyText},
		{"blank", "  \n\t ", core.ErrEmptyText},
		{"too long", strings.Repeat("a", 11), core.ErrTextTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.AnalyzeText(context.Background(), tt.text); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := svc.AnalyzeText(context.Background(), strings.Repeat("é", 10)); err != nil {
		t.Errorf("length is counted in runes: %v", err)
	}
}

func TestAnalyzeTextUnknownWordsAreNeutral(t *testing.T) {
	svc := newService(t, session.NewMemoryStore(), nil, 0)

	res, err := svc.AnalyzeText(context.Background(), "the quarterly spreadsheet")
	if err != nil {
		t.Fatalf("AnalyzeText: %v", err)
	}
	if res.OverallEmotion != core.Neutral || res.Coverage != 0 {
		t.Errorf("result = %v coverage %v, want neutral", res.OverallEmotion, res.Coverage)
	}
	for _, w := range res.Words {
		if w.Found || w.Provenance != core.NotFound {
			t.Errorf("word %q = %+v, want not found", w.Token, w)
		}
	}
}

func TestTokenHook(t *testing.T) {
	svc := newService(t, session.NewMemoryStore(), nil, 0)
	svc.SetTokenHook(func(tokens []core.Token) []core.Token {
		out := tokens[:0]
		for _, tok := range tokens {
			if tok.Normalized != "miserable" {
				out = append(out, tok)
			}
		}
		return out
	})

	res, err := svc.AnalyzeText(context.Background(), "wonderful miserable miserable")
	if err != nil {
		t.Fatalf("AnalyzeText: %v", err)
	}
	if res.OverallEmotion != core.Joy || res.WordCount != 1 {
		t.Errorf("result = %v over %d words, want joy over 1", res.OverallEmotion, res.WordCount)
	}
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, session.NewMemoryStore(), nil, 0)

	sess, err := svc.StartSession(ctx)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if sess.Status != core.SessionActive || sess.ID == "" {
		t.Fatalf("new session = %+v", sess)
	}

	for _, text := range []string{"wonderful day", "amazing news", "awful traffic", "miserable evening"} {
		if _, err := svc.AddMessage(ctx, sess.ID, text); err != nil {
			t.Fatalf("AddMessage(%q): %v", text, err)
		}
	}

	summary, err := svc.EndSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("EndSession: %v", err)
	}
	if summary.MessageCount != 4 || len(summary.Messages) != 4 {
		t.Errorf("message count = %d", summary.MessageCount)
	}
	if summary.Trend != core.Declining {
		t.Errorf("trend = %s, want declining", summary.Trend)
	}

	stored, err := svc.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if stored.Status != core.SessionEnded || stored.Summary == nil || stored.EndedAt.IsZero() {
		t.Errorf("stored session = %+v", stored)
	}

	if _, err := svc.EndSession(ctx, sess.ID); !errors.Is(err, core.ErrSessionEnded) {
		t.Errorf("second EndSession err = %v, want ErrSessionEnded", err)
	}
	if _, err := svc.AddMessage(ctx, sess.ID, "wonderful"); !errors.Is(err, core.ErrSessionEnded) {
		t.Errorf("AddMessage after end err = %v, want ErrSessionEnded", err)
	}
}

func TestEndEmptySession(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, session.NewMemoryStore(), nil, 0)

	sess, err := svc.StartSession(ctx)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	summary, err := svc.EndSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("EndSession: %v", err)
	}
	if summary.OverallMood != core.Neutral || summary.Trend != core.Stable || summary.MessageCount != 0 {
		t.Errorf("summary = %+v, want neutral", summary)
	}
}

func TestUnknownSession(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, session.NewMemoryStore(), nil, 0)

	if _, err := svc.AddMessage(ctx, "missing", "wonderful"); !errors.Is(err, core.ErrSessionNotFound) {
		t.Errorf("AddMessage err = %v, want ErrSessionNotFound", err)
	}
	if _, err := svc.EndSession(ctx, "missing"); !errors.Is(err, core.ErrSessionNotFound) {
		t.Errorf("EndSession err = %v, want ErrSessionNotFound", err)
	}
}

func TestAddMessageRejectsInvalidText(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, session.NewMemoryStore(), nil, 0)

	sess, err := svc.StartSession(ctx)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if _, err := svc.AddMessage(ctx, sess.ID, " "); !errors.Is(err, core.ErrEmptyText) {
		t.Errorf("err = %v, want ErrEmptyText", err)
	}
	stored, _ := svc.GetSession(ctx, sess.ID)
	if len(stored.Messages) != 0 {
		t.Errorf("rejected text was appended: %d messages", len(stored.Messages))
	}
}

func TestVersionConflictIsRetried(t *testing.T) {
	ctx := context.Background()
	sessions := &conflictingStore{SessionStore: session.NewMemoryStore()}
	svc := newService(t, sessions, nil, 0)

	sess, err := svc.StartSession(ctx)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	sessions.conflicts = 2
	if _, err := svc.AddMessage(ctx, sess.ID, "wonderful"); err != nil {
		t.Fatalf("AddMessage with two conflicts: %v", err)
	}
	stored, _ := svc.GetSession(ctx, sess.ID)
	if len(stored.Messages) != 1 {
		t.Errorf("messages = %d, want exactly 1 after retries", len(stored.Messages))
	}

	sessions.conflicts = 3
	if _, err := svc.AddMessage(ctx, sess.ID, "amazing"); !errors.Is(err, core.ErrVersionConflict) {
		t.Errorf("err = %v, want ErrVersionConflict after exhausting retries", err)
	}

	sessions.conflicts = 1
	if _, err := svc.EndSession(ctx, sess.ID); err != nil {
		t.Errorf("EndSession with one conflict: %v", err)
	}
}
