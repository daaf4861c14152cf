package database

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/example/livedict/pkg/models"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"

	// DefaultDSN is used for sqlite when no DSN is configured
	DefaultDSN = "data/livedict.db"
)

// Connect opens the database and creates the schema if needed
func Connect(driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case "", DriverSQLite:
		driver = DriverSQLite
		if dsn == "" {
			dsn = DefaultDSN
		}
		// Create data directory if it doesn't exist
		if dir := sqliteDir(dsn); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, errors.Wrap(err, "failed to create data directory")
			}
		}
	case DriverPostgres:
		if dsn == "" {
			return nil, errors.New("postgres requires a DSN")
		}
	default:
		return nil, errors.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if driver == DriverSQLite {
		// SQLite doesn't support multiple writers, and the pragma below is
		// per connection
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)

		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, errors.Wrap(err, "failed to enable foreign keys")
		}
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// sqliteDir returns the directory holding a file DSN, or "" for in-memory
// databases and the working directory
func sqliteDir(dsn string) string {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" {
		return ""
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return ""
	}
	return dir
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS translations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		foreign_word TEXT NOT NULL,
		native_word TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(foreign_word, native_word)
	)`,
	`CREATE TABLE IF NOT EXISTS answers_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		translation_id INTEGER NOT NULL,
		time_answered INTEGER NOT NULL,
		is_correct INTEGER NOT NULL,
		FOREIGN KEY (translation_id) REFERENCES translations(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_answers_log_translation ON answers_log(translation_id)`,
	`CREATE TABLE IF NOT EXISTS labels (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS labelled_translations (
		translation_id INTEGER NOT NULL,
		label_id INTEGER NOT NULL,
		FOREIGN KEY (translation_id) REFERENCES translations(id),
		FOREIGN KEY (label_id) REFERENCES labels(id),
		UNIQUE(translation_id, label_id)
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS translations (
		id BIGSERIAL PRIMARY KEY,
		foreign_word TEXT NOT NULL,
		native_word TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(foreign_word, native_word)
	)`,
	`CREATE TABLE IF NOT EXISTS answers_log (
		id BIGSERIAL PRIMARY KEY,
		translation_id BIGINT NOT NULL REFERENCES translations(id),
		time_answered BIGINT NOT NULL,
		is_correct INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_answers_log_translation ON answers_log(translation_id)`,
	`CREATE TABLE IF NOT EXISTS labels (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS labelled_translations (
		translation_id BIGINT NOT NULL REFERENCES translations(id),
		label_id BIGINT NOT NULL REFERENCES labels(id),
		UNIQUE(translation_id, label_id)
	)`,
}

// initializeSchema creates necessary tables if they don't exist and fills the
// labels table
func initializeSchema(db *sqlx.DB) error {
	schema := sqliteSchema
	if db.DriverName() == DriverPostgres {
		schema = postgresSchema
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return errors.Wrap(err, "failed to create schema")
		}
	}

	insertLabel := db.Rebind(`INSERT INTO labels (id, name) VALUES (?, ?) ON CONFLICT (id) DO NOTHING`)
	for _, label := range models.AllLabels {
		if _, err := db.Exec(insertLabel, label.ID(), label.Colour()); err != nil {
			return errors.Wrapf(err, "failed to create label %s", label)
		}
	}
	return nil
}
