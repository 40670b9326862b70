package db

// The table for groups is post_groups because GROUPS is a reserved word in MySQL 8.

var sqliteSchema = []string{
	`PRAGMA foreign_keys = ON;`,
	`CREATE TABLE IF NOT EXISTS users(
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS sessions(
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		expires_at DATETIME NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS post_groups(
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		slug TEXT UNIQUE NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	);`,
	`CREATE TABLE IF NOT EXISTS posts(
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		author_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		group_id INTEGER REFERENCES post_groups(id) ON DELETE SET NULL,
		text TEXT NOT NULL,
		created DATETIME NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS posts_author_idx ON posts(author_id);`,
	`CREATE INDEX IF NOT EXISTS posts_group_idx ON posts(group_id);`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users(
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(150) UNIQUE NOT NULL,
		email VARCHAR(254) NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS sessions(
		id VARCHAR(36) PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		expires_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS post_groups(
		id BIGSERIAL PRIMARY KEY,
		slug VARCHAR(50) UNIQUE NOT NULL,
		title VARCHAR(200) NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	);`,
	`CREATE TABLE IF NOT EXISTS posts(
		id BIGSERIAL PRIMARY KEY,
		author_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		group_id BIGINT REFERENCES post_groups(id) ON DELETE SET NULL,
		text TEXT NOT NULL,
		created TIMESTAMPTZ NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS posts_author_idx ON posts(author_id);`,
	`CREATE INDEX IF NOT EXISTS posts_group_idx ON posts(group_id);`,
}

// MySQL has no CREATE INDEX IF NOT EXISTS, so indexes are declared inline.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users(
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(150) UNIQUE NOT NULL,
		email VARCHAR(254) NOT NULL DEFAULT '',
		password_hash VARCHAR(255) NOT NULL,
		created_at DATETIME(6) NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS sessions(
		id CHAR(36) PRIMARY KEY,
		user_id BIGINT NOT NULL,
		expires_at DATETIME(6) NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);`,
	`CREATE TABLE IF NOT EXISTS post_groups(
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		slug VARCHAR(50) UNIQUE NOT NULL,
		title VARCHAR(200) NOT NULL,
		description TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS posts(
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		author_id BIGINT NOT NULL,
		group_id BIGINT NULL,
		text TEXT NOT NULL,
		created DATETIME(6) NOT NULL,
		INDEX posts_author_idx (author_id),
		INDEX posts_group_idx (group_id),
		FOREIGN KEY (author_id) REFERENCES users(id) ON DELETE CASCADE,
		FOREIGN KEY (group_id) REFERENCES post_groups(id) ON DELETE SET NULL
	);`,
}

func schema(driver string) []string {
	switch driver {
	case Postgres:
		return postgresSchema
	case MySQL:
		return mysqlSchema
	default:
		return sqliteSchema
	}
}
