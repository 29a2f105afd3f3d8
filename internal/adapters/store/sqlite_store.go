package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

var sqliteDialect = dialect{
	name: "sqlite",
	schema: []string{`
		CREATE TABLE IF NOT EXISTS word_profiles (
			word TEXT PRIMARY KEY COLLATE NOCASE,
			joy REAL NOT NULL,
			trust REAL NOT NULL,
			anticipation REAL NOT NULL,
			surprise REAL NOT NULL,
			anger REAL NOT NULL,
			fear REAL NOT NULL,
			sadness REAL NOT NULL,
			disgust REAL NOT NULL,
			valence REAL NOT NULL,
			arousal REAL NOT NULL,
			dominance REAL NOT NULL,
			polarity TEXT NOT NULL,
			strength REAL NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`, `
		CREATE TABLE IF NOT EXISTS analysis_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			processing_id TEXT NOT NULL,
			input_text TEXT NOT NULL,
			word_count INTEGER NOT NULL,
			analyzed_word_count INTEGER NOT NULL,
			joy REAL, trust REAL, anticipation REAL, surprise REAL,
			anger REAL, fear REAL, sadness REAL, disgust REAL,
			overall_emotion TEXT NOT NULL,
			valence REAL, arousal REAL, dominance REAL,
			polarity TEXT NOT NULL,
			strength REAL,
			processing_ms INTEGER,
			inference_calls INTEGER,
			new_words INTEGER,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_log_created_at ON analysis_log(created_at)`,
	},
	placeholder:    func(int) string { return "?" },
	onConflictKeep: "ON CONFLICT(word) DO NOTHING",
	onConflictUpdate: func(cols []string) string {
		set := make([]string, 0, len(cols)+1)
		for _, c := range cols {
			set = append(set, fmt.Sprintf("%s = excluded.%s", c, c))
		}
		set = append(set, "updated_at = excluded.updated_at")
		return "ON CONFLICT(word) DO UPDATE SET " + strings.Join(set, ", ")
	},
}

// NewSQLiteStore opens (or creates) a SQLite profile store. ":memory:" gives
// a private in-memory database.
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// Writes serialise anyway, and an in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	s, err := newSQLStore(db, sqliteDialect, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("SQLite profile store initialized", zap.String("path", dbPath))
	return s, nil
}
