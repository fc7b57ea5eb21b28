package relq_test

import (
	"database/sql"
	"os"
	"testing"

	"github.com/arllen133/relq"
	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) (*sql.DB, *relq.Session) {
	t.Helper()

	driver := os.Getenv("TEST_DRIVER")
	dsn := os.Getenv("TEST_DSN")

	if driver == "" {
		driver = "sqlite3"
		dsn = ":memory:"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	// An in-memory SQLite database lives in a single connection; a second
	// pooled connection would see an empty schema.
	db.SetMaxOpenConns(1)

	var dialect relq.Dialect
	switch driver {
	case "mysql":
		dialect = relq.MySQL
	case "postgres":
		dialect = relq.PostgreSQL
	default:
		dialect = relq.SQLite
	}

	session := relq.NewSession(db, dialect)
	return db, session
}

// setupRelationDB adds the relation fixture schema and seed data:
//
//	alice (1): profile, three posts; post 1 tagged go+sql, post 2 tagged json
//	bob   (2): no profile, one post with no tags
//	carol (3): nothing
func setupRelationDB(t *testing.T) (*sql.DB, *relq.Session) {
	t.Helper()

	db, session := setupTestDB(t)

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			bio TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS posts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			likes INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS tags (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL
		)`,
		// No uniqueness on (post_id, tag_id): duplicate junction rows are
		// part of what the tests exercise.
		`CREATE TABLE IF NOT EXISTS posts_tags (
			post_id INTEGER NOT NULL,
			tag_id INTEGER NOT NULL
		)`,
	}
	for _, stmt := range ddl {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("Failed to create fixture tables: %v", err)
		}
	}

	seed := []string{
		`DELETE FROM posts_tags`,
		`DELETE FROM tags`,
		`DELETE FROM posts`,
		`DELETE FROM profiles`,
		`DELETE FROM users`,
		`INSERT INTO users (id, name) VALUES (1, 'alice'), (2, 'bob'), (3, 'carol')`,
		`INSERT INTO profiles (id, user_id, bio) VALUES (1, 1, 'gopher')`,
		`INSERT INTO posts (id, user_id, title, likes) VALUES
			(1, 1, 'first', 10),
			(2, 1, 'second', 150),
			(3, 1, 'third', 200),
			(4, 2, 'solo', 5)`,
		`INSERT INTO tags (id, name) VALUES (1, 'go'), (2, 'sql'), (3, 'json')`,
		`INSERT INTO posts_tags (post_id, tag_id) VALUES (1, 1), (1, 2), (2, 3)`,
	}
	for _, stmt := range seed {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("Failed to seed fixture data: %v", err)
		}
	}

	return db, session
}
