package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

var mysqlDialect = dialect{
	name: "mysql",
	schema: []string{`
		CREATE TABLE IF NOT EXISTS word_profiles (
			word VARCHAR(191) PRIMARY KEY,
			joy DOUBLE NOT NULL,
			trust DOUBLE NOT NULL,
			anticipation DOUBLE NOT NULL,
			surprise DOUBLE NOT NULL,
			anger DOUBLE NOT NULL,
			fear DOUBLE NOT NULL,
			sadness DOUBLE NOT NULL,
			disgust DOUBLE NOT NULL,
			valence DOUBLE NOT NULL,
			arousal DOUBLE NOT NULL,
			dominance DOUBLE NOT NULL,
			polarity VARCHAR(16) NOT NULL,
			strength DOUBLE NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		) DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`, `
		CREATE TABLE IF NOT EXISTS analysis_log (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			processing_id VARCHAR(64) NOT NULL,
			input_text TEXT NOT NULL,
			word_count INT NOT NULL,
			analyzed_word_count INT NOT NULL,
			joy DOUBLE, trust DOUBLE, anticipation DOUBLE, surprise DOUBLE,
			anger DOUBLE, fear DOUBLE, sadness DOUBLE, disgust DOUBLE,
			overall_emotion VARCHAR(16) NOT NULL,
			valence DOUBLE, arousal DOUBLE, dominance DOUBLE,
			polarity VARCHAR(16) NOT NULL,
			strength DOUBLE,
			processing_ms BIGINT,
			inference_calls INT,
			new_words INT,
			created_at TIMESTAMP NOT NULL,
			INDEX idx_created_at (created_at)
		) DEFAULT CHARSET=utf8mb4`,
	},
	placeholder: func(int) string { return "?" },
	// A self-assignment leaves the row untouched and reports zero rows affected.
	onConflictKeep: "ON DUPLICATE KEY UPDATE word = word",
	onConflictUpdate: func(cols []string) string {
		set := make([]string, 0, len(cols)+1)
		for _, c := range cols {
			set = append(set, fmt.Sprintf("%s = VALUES(%s)", c, c))
		}
		set = append(set, "updated_at = VALUES(updated_at)")
		return "ON DUPLICATE KEY UPDATE " + strings.Join(set, ", ")
	},
}

// NewMySQLStore connects to MySQL and creates the tables if needed
func NewMySQLStore(dsn string, logger *zap.Logger) (*SQLStore, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid MySQL DSN: %w", err)
	}
	cfg.ParseTime = true

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}
	db := sql.OpenDB(connector)

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	s, err := newSQLStore(db, mysqlDialect, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("MySQL profile store initialized", zap.String("address", cfg.Addr), zap.String("database", cfg.DBName))
	return s, nil
}
