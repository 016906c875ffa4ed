package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// :memory: databases are per connection.
	if dataSourceName == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the schema if it does not exist yet.
func (db *DB) RunMigrations() error {
	migration := `
CREATE TABLE IF NOT EXISTS profiles (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL DEFAULT '',
    name TEXT NOT NULL DEFAULT '',
    calorie_goal INTEGER NOT NULL DEFAULT 2000 CHECK(calorie_goal BETWEEN 1000 AND 5000),
    weight REAL,
    height REAL,
    age INTEGER,
    updated_at INTEGER NOT NULL
);

-- Timestamps are unix milliseconds so range filters compare numerically.
CREATE TABLE IF NOT EXISTS meals (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    calories INTEGER NOT NULL CHECK(calories >= 0),
    protein INTEGER NOT NULL DEFAULT 0 CHECK(protein >= 0),
    carbs INTEGER NOT NULL DEFAULT 0 CHECK(carbs >= 0),
    fats INTEGER NOT NULL DEFAULT 0 CHECK(fats >= 0),
    meal_type TEXT NOT NULL DEFAULT 'other',
    logged_at INTEGER NOT NULL,
    image_url TEXT
);
CREATE INDEX IF NOT EXISTS idx_meals_user_logged ON meals(user_id, logged_at);

CREATE TABLE IF NOT EXISTS workouts (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    duration INTEGER NOT NULL CHECK(duration > 0),
    calories_burned INTEGER NOT NULL DEFAULT 0 CHECK(calories_burned >= 0),
    workout_type TEXT NOT NULL DEFAULT 'other',
    notes TEXT,
    completed_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_workouts_user_completed ON workouts(user_id, completed_at);

-- Custom food catalog
CREATE TABLE IF NOT EXISTS foods (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE COLLATE NOCASE,
    calories INTEGER NOT NULL CHECK(calories > 0),
    protein INTEGER NOT NULL DEFAULT 0,
    carbs INTEGER NOT NULL DEFAULT 0,
    fats INTEGER NOT NULL DEFAULT 0,
    serving TEXT NOT NULL DEFAULT '',
    brand TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE VIRTUAL TABLE IF NOT EXISTS foods_fts USING fts5(
    name,
    brand,
    category,
    content='foods',
    content_rowid='rowid'
);

CREATE TRIGGER IF NOT EXISTS foods_ai AFTER INSERT ON foods BEGIN
    INSERT INTO foods_fts(rowid, name, brand, category)
    VALUES (new.rowid, new.name, new.brand, new.category);
END;

CREATE TRIGGER IF NOT EXISTS foods_ad AFTER DELETE ON foods BEGIN
    INSERT INTO foods_fts(foods_fts, rowid, name, brand, category)
    VALUES('delete', old.rowid, old.name, old.brand, old.category);
END;

CREATE TRIGGER IF NOT EXISTS foods_au AFTER UPDATE ON foods BEGIN
    INSERT INTO foods_fts(foods_fts, rowid, name, brand, category)
    VALUES('delete', old.rowid, old.name, old.brand, old.category);
    INSERT INTO foods_fts(rowid, name, brand, category)
    VALUES (new.rowid, new.name, new.brand, new.category);
END;
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func millis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}
