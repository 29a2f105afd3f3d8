package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

var postgresDialect = dialect{
	name: "postgres",
	schema: []string{`
		CREATE TABLE IF NOT EXISTS word_profiles (
			word TEXT PRIMARY KEY,
			joy DOUBLE PRECISION NOT NULL,
			trust DOUBLE PRECISION NOT NULL,
			anticipation DOUBLE PRECISION NOT NULL,
			surprise DOUBLE PRECISION NOT NULL,
			anger DOUBLE PRECISION NOT NULL,
			fear DOUBLE PRECISION NOT NULL,
			sadness DOUBLE PRECISION NOT NULL,
			disgust DOUBLE PRECISION NOT NULL,
			valence DOUBLE PRECISION NOT NULL,
			arousal DOUBLE PRECISION NOT NULL,
			dominance DOUBLE PRECISION NOT NULL,
			polarity TEXT NOT NULL,
			strength DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`, `
		CREATE TABLE IF NOT EXISTS analysis_log (
			id BIGSERIAL PRIMARY KEY,
			processing_id TEXT NOT NULL,
			input_text TEXT NOT NULL,
			word_count INTEGER NOT NULL,
			analyzed_word_count INTEGER NOT NULL,
			joy DOUBLE PRECISION, trust DOUBLE PRECISION, anticipation DOUBLE PRECISION, surprise DOUBLE PRECISION,
			anger DOUBLE PRECISION, fear DOUBLE PRECISION, sadness DOUBLE PRECISION, disgust DOUBLE PRECISION,
			overall_emotion TEXT NOT NULL,
			valence DOUBLE PRECISION, arousal DOUBLE PRECISION, dominance DOUBLE PRECISION,
			polarity TEXT NOT NULL,
			strength DOUBLE PRECISION,
			processing_ms BIGINT,
			inference_calls INTEGER,
			new_words INTEGER,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_log_created_at ON analysis_log(created_at)`,
	},
	placeholder:    func(n int) string { return fmt.Sprintf("$%d", n) },
	onConflictKeep: "ON CONFLICT (word) DO NOTHING",
	onConflictUpdate: func(cols []string) string {
		set := make([]string, 0, len(cols)+1)
		for _, c := range cols {
			set = append(set, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
		}
		set = append(set, "updated_at = EXCLUDED.updated_at")
		return "ON CONFLICT (word) DO UPDATE SET " + strings.Join(set, ", ")
	},
}

// NewPostgresStore connects to PostgreSQL through the pgx driver
func NewPostgresStore(dsn string, logger *zap.Logger) (*SQLStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	s, err := newSQLStore(db, postgresDialect, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("PostgreSQL profile store initialized")
	return s, nil
}
