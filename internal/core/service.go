package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultMaxTextLength is the longest text, in runes, accepted by default
const DefaultMaxTextLength = 5000

// maxUpdateAttempts bounds the retries on a session version conflict
const maxUpdateAttempts = 3

// MoodService analyzes texts and tracks the mood of sessions
type MoodService struct {
	resolver      *WordResolver
	textAgg       *TextAggregator
	sessionAgg    *SessionAggregator
	sessions      SessionStore
	recorder      AnalysisRecorder
	logger        *zap.Logger
	maxTextLength int
	hook          TokenHook
	now           func() time.Time
}

// NewMoodService creates a new mood service. recorder may be nil to disable
// analysis logging.
func NewMoodService(
	resolver *WordResolver,
	textAgg *TextAggregator,
	sessionAgg *SessionAggregator,
	sessions SessionStore,
	recorder AnalysisRecorder,
	logger *zap.Logger,
	maxTextLength int,
) *MoodService {
	if maxTextLength <= 0 {
		maxTextLength = DefaultMaxTextLength
	}
	return &MoodService{
		resolver:      resolver,
		textAgg:       textAgg,
		sessionAgg:    sessionAgg,
		sessions:      sessions,
		recorder:      recorder,
		logger:        logger,
		maxTextLength: maxTextLength,
		hook:          func(tokens []Token) []Token { return tokens },
		now:           time.Now,
	}
}

// SetTokenHook installs a rewrite step between tokenization and resolution
func (s *MoodService) SetTokenHook(hook TokenHook) {
	if hook != nil {
		s.hook = hook
	}
}

// ValidateText rejects blank and over-long input
func ValidateText(text string, maxLength int) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	if maxLength > 0 && utf8.RuneCountInString(text) > maxLength {
		return fmt.Errorf("%w: %d > %d", ErrTextTooLong, utf8.RuneCountInString(text), maxLength)
	}
	return nil
}

// AnalyzeText resolves every word of the text and aggregates the result.
// Store and inference failures degrade to unresolved words; only invalid
// input is returned as an error.
func (s *MoodService) AnalyzeText(ctx context.Context, text string) (*TextResult, error) {
	if err := ValidateText(text, s.maxTextLength); err != nil {
		return nil, err
	}

	start := s.now()
	tokens := s.hook(Tokenize(text))
	words, stats := s.resolver.ResolveTokens(ctx, tokens)
	result := s.textAgg.Aggregate(words)

	result.ProcessingID = uuid.NewString()
	result.AnalyzedAt = start
	result.ProcessingTime = s.now().Sub(start)
	result.InferenceCalls = stats.InferenceCalls
	result.NewWords = stats.NewWords

	s.logger.Debug("Analyzed text",
		zap.String("processing_id", result.ProcessingID),
		zap.String("emotion", result.OverallEmotion.String()),
		zap.Float64("confidence", result.Confidence),
		zap.Int("word_count", result.WordCount),
		zap.Int("analyzed_words", result.AnalyzedWordCount),
		zap.Int("cache_hits", stats.CacheHits),
		zap.Int("store_hits", stats.StoreHits),
		zap.Int("inference_calls", stats.InferenceCalls),
		zap.Int("unresolved", stats.Unresolved),
		zap.Duration("processing_time", result.ProcessingTime))

	if s.recorder != nil {
		s.recorder.Record(&AnalysisRecord{
			ProcessingID:      result.ProcessingID,
			Text:              text,
			WordCount:         result.WordCount,
			AnalyzedWordCount: result.AnalyzedWordCount,
			Emotions:          result.Emotions,
			OverallEmotion:    result.OverallEmotion,
			VAD:               result.VAD,
			Sentiment:         result.Sentiment,
			ProcessingTime:    result.ProcessingTime,
			InferenceCalls:    result.InferenceCalls,
			NewWords:          result.NewWords,
			CreatedAt:         start,
		})
	}

	return &result, nil
}

// StartSession opens a new active session
func (s *MoodService) StartSession(ctx context.Context) (*Session, error) {
	session := &Session{
		ID:        uuid.NewString(),
		Status:    SessionActive,
		StartedAt: s.now(),
		Messages:  []TextResult{},
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.logger.Info("Session started", zap.String("session_id", session.ID))
	return session, nil
}

// GetSession returns a session by id
func (s *MoodService) GetSession(ctx context.Context, id string) (*Session, error) {
	return s.sessions.Get(ctx, id)
}

// AddMessage analyzes a text and appends the result to an active session
func (s *MoodService) AddMessage(ctx context.Context, sessionID string, text string) (*TextResult, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == SessionEnded {
		return nil, ErrSessionEnded
	}

	result, err := s.AnalyzeText(ctx, text)
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		session.Messages = append(session.Messages, *result)
		err = s.sessions.Update(ctx, session)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, ErrVersionConflict) || attempt == maxUpdateAttempts {
			return nil, fmt.Errorf("failed to append message: %w", err)
		}
		if session, err = s.sessions.Get(ctx, sessionID); err != nil {
			return nil, err
		}
		if session.Status == SessionEnded {
			return nil, ErrSessionEnded
		}
	}
}

// EndSession ends an active session and computes its summary. The summary is
// computed exactly once; ending an ended session returns ErrSessionEnded.
func (s *MoodService) EndSession(ctx context.Context, sessionID string) (*SessionSummary, error) {
	for attempt := 1; ; attempt++ {
		session, err := s.sessions.Get(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if session.Status == SessionEnded {
			return nil, ErrSessionEnded
		}

		session.EndedAt = s.now()
		summary := s.sessionAgg.Summarize(session.Messages, session.StartedAt, session.EndedAt)
		session.Status = SessionEnded
		session.Summary = &summary

		err = s.sessions.Update(ctx, session)
		if err == nil {
			s.logger.Info("Session ended",
				zap.String("session_id", sessionID),
				zap.Int("messages", summary.MessageCount),
				zap.String("mood", summary.OverallMood.String()),
				zap.String("trend", string(summary.Trend)),
				zap.Duration("duration", summary.Duration))
			return &summary, nil
		}
		if !errors.Is(err, ErrVersionConflict) || attempt == maxUpdateAttempts {
			return nil, fmt.Errorf("failed to end session: %w", err)
		}
	}
}
