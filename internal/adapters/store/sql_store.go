package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mikey/llm-mood-engine/internal/core"
	"go.uber.org/zap"
)

var profileColumns = []string{
	"word",
	"joy", "trust", "anticipation", "surprise", "anger", "fear", "sadness", "disgust",
	"valence", "arousal", "dominance",
	"polarity", "strength",
	"created_at", "updated_at",
}

var analysisColumns = []string{
	"processing_id", "input_text", "word_count", "analyzed_word_count",
	"joy", "trust", "anticipation", "surprise", "anger", "fear", "sadness", "disgust",
	"overall_emotion", "valence", "arousal", "dominance", "polarity", "strength",
	"processing_ms", "inference_calls", "new_words", "created_at",
}

// dialect holds what differs between the SQL backends
type dialect struct {
	name        string
	schema      []string
	placeholder func(n int) string
	// onConflictKeep and onConflictUpdate are appended to the profile INSERT
	onConflictKeep   string
	onConflictUpdate func(cols []string) string
}

// SQLStore is a database/sql ProfileStore and AnalysisLog
type SQLStore struct {
	db           *sql.DB
	logger       *zap.Logger
	dialect      dialect
	selectSQL    string
	insertKeep   string
	insertUpdate string
	countSQL     string
	logSQL       string
}

func newSQLStore(db *sql.DB, d dialect, logger *zap.Logger) (*SQLStore, error) {
	for _, stmt := range d.schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create %s schema: %w", d.name, err)
		}
	}

	insert := fmt.Sprintf("INSERT INTO word_profiles (%s) VALUES (%s)",
		strings.Join(profileColumns, ", "), placeholders(d, len(profileColumns)))

	s := &SQLStore{
		db:      db,
		logger:  logger,
		dialect: d,
		selectSQL: fmt.Sprintf("SELECT %s FROM word_profiles WHERE word = %s",
			strings.Join(profileColumns, ", "), d.placeholder(1)),
		insertKeep:   insert + " " + d.onConflictKeep,
		insertUpdate: insert + " " + d.onConflictUpdate(profileColumns[1:len(profileColumns)-2]),
		countSQL:     "SELECT COUNT(*) FROM word_profiles",
		logSQL: fmt.Sprintf("INSERT INTO analysis_log (%s) VALUES (%s)",
			strings.Join(analysisColumns, ", "), placeholders(d, len(analysisColumns))),
	}
	return s, nil
}

func placeholders(d dialect, n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = d.placeholder(i + 1)
	}
	return strings.Join(ph, ", ")
}

// GetByWord returns the stored profile for a normalized word. A row that
// fails validation is reported as not found.
func (s *SQLStore) GetByWord(ctx context.Context, word string) (*core.EmotionalProfile, error) {
	var p core.EmotionalProfile
	var polarity string

	dest := []any{&p.Word}
	for _, e := range core.Emotions {
		dest = append(dest, &p.Emotions[e])
	}
	dest = append(dest, &p.VAD.Valence, &p.VAD.Arousal, &p.VAD.Dominance,
		&polarity, &p.Sentiment.Strength, &p.CreatedAt, &p.UpdatedAt)

	err := s.db.QueryRowContext(ctx, s.selectSQL, strings.ToLower(word)).Scan(dest...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query word profile: %w", err)
	}
	p.Sentiment.Polarity = core.Polarity(polarity)
	if err := p.Validate(); err != nil {
		s.logger.Warn("Ignoring invalid stored profile",
			zap.String("word", p.Word),
			zap.Error(err))
		return nil, core.ErrNotFound
	}
	return &p, nil
}

// UpsertWord inserts a profile. Existing rows are replaced only when overwrite is set.
func (s *SQLStore) UpsertWord(ctx context.Context, profile *core.EmotionalProfile, overwrite bool) (bool, error) {
	now := time.Now().UTC()
	created := profile.CreatedAt
	if created.IsZero() {
		created = now
	}

	args := []any{strings.ToLower(profile.Word)}
	for _, e := range core.Emotions {
		args = append(args, profile.Emotions[e])
	}
	args = append(args, profile.VAD.Valence, profile.VAD.Arousal, profile.VAD.Dominance,
		string(profile.Sentiment.Polarity), profile.Sentiment.Strength, created, now)

	query := s.insertKeep
	if overwrite {
		query = s.insertUpdate
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to upsert word profile: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		s.logger.Warn("Failed to get rows affected during upsert", zap.Error(err))
		return false, nil
	}
	return rows > 0, nil
}

// CountWords returns the number of stored profiles
func (s *SQLStore) CountWords(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, s.countSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count words: %w", err)
	}
	return n, nil
}

// AppendAnalysis writes one analysis log record
func (s *SQLStore) AppendAnalysis(ctx context.Context, r *core.AnalysisRecord) error {
	args := []any{r.ProcessingID, r.Text, r.WordCount, r.AnalyzedWordCount}
	for _, e := range core.Emotions {
		args = append(args, r.Emotions[e])
	}
	args = append(args, r.OverallEmotion.String(), r.VAD.Valence, r.VAD.Arousal, r.VAD.Dominance,
		string(r.Sentiment.Polarity), r.Sentiment.Strength,
		r.ProcessingTime.Milliseconds(), r.InferenceCalls, r.NewWords, r.CreatedAt.UTC())

	if _, err := s.db.ExecContext(ctx, s.logSQL, args...); err != nil {
		return fmt.Errorf("failed to append analysis record: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close database", zap.String("dialect", s.dialect.name), zap.Error(err))
		return err
	}
	return nil
}
