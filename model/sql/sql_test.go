package sql

import (
	"testing"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionString(t *testing.T) {
	t.Setenv("MYSQL_HOST", "db")
	t.Setenv("MYSQL_PORT", "")
	t.Setenv("MYSQL_USER", "pixabot")
	t.Setenv("MYSQL_PASSWORD", "secret")
	t.Setenv("MYSQL_DB", "pixabot")
	t.Setenv("MYSQL_TLS", "")

	assert.Equal(
		t,
		"pixabot:secret@tcp(db:3306)/pixabot?charset=utf8mb4&parseTime=True&loc=Local&tls=false",
		ConnectionString(),
	)
}

func TestEmbeddedMigrations(t *testing.T) {
	source := &migrate.EmbedFileSystemMigrationSource{FileSystem: embeddedMigrations, Root: "migrations"}
	migrations, err := source.FindMigrations()
	require.NoError(t, err)
	require.Len(t, migrations, 2)

	assert.Equal(t, "001_credentials.sql", migrations[0].Id)
	assert.Equal(t, "002_pixabay.sql", migrations[1].Id)
	for _, m := range migrations {
		assert.NotEmpty(t, m.Up, m.Id)
		assert.NotEmpty(t, m.Down, m.Id)
	}
}
