package repository

import "strconv"

// Dialect captures the SQL differences between the supported engines.
type Dialect struct {
	Name   string
	schema []string
	// numbered placeholders ($1, $2, ...) instead of ?
	numbered bool
}

// Placeholder returns the bind marker for the n-th (1-based) argument.
func (d Dialect) Placeholder(n int) string {
	if d.numbered {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

var Postgres = Dialect{
	Name:     "postgres",
	numbered: true,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS todos (
			id          TEXT PRIMARY KEY,
			title       VARCHAR(100) NOT NULL,
			description VARCHAR(500),
			completed   BOOLEAN NOT NULL DEFAULT FALSE,
			priority    TEXT NOT NULL DEFAULT 'medium' CHECK (priority IN ('low', 'medium', 'high')),
			due_date    TEXT,
			category    VARCHAR(50),
			tags        TEXT,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_todos_created_at ON todos (created_at DESC, id DESC)`,
	},
}

// MySQL keeps text columns in a binary collation: category filtering and
// grouping compare exact strings, and search folds case only through
// LOWER, staying accent-sensitive like the in-memory store.
var MySQL = Dialect{
	Name: "mysql",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS todos (
			id          VARCHAR(36) NOT NULL PRIMARY KEY,
			title       VARCHAR(100) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL,
			description VARCHAR(500) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NULL,
			completed   BOOLEAN NOT NULL DEFAULT FALSE,
			priority    VARCHAR(6) NOT NULL DEFAULT 'medium',
			due_date    CHAR(10) NULL,
			category    VARCHAR(50) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NULL,
			tags        TEXT NULL,
			created_at  DATETIME(6) NOT NULL,
			updated_at  DATETIME(6) NOT NULL,
			INDEX idx_todos_created_at (created_at, id)
		) DEFAULT CHARSET = utf8mb4`,
	},
}
