package db

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestRebind(t *testing.T) {
	q := `SELECT id FROM posts WHERE group_id = ? AND author_id = ? LIMIT ?`

	for _, driver := range []string{SQLite, MySQL} {
		d := &DB{driver: driver}
		assert.Equal(t, d.Rebind(q), q)
	}

	pg := &DB{driver: Postgres}
	assert.Equal(t, pg.Rebind(q), `SELECT id FROM posts WHERE group_id = $1 AND author_id = $2 LIMIT $3`)
}

func TestSchemaPerDriver(t *testing.T) {
	assert.Equal(t, len(schema(SQLite)), len(sqliteSchema))
	assert.Equal(t, len(schema(Postgres)), len(postgresSchema))
	assert.Equal(t, len(schema(MySQL)), len(mysqlSchema))
}
