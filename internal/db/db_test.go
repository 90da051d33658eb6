package db

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/folioworks/portfolio/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresURL(t *testing.T) {
	dsn := PostgresURL(config.DatabaseConfig{
		Host:     "db",
		Port:     5433,
		User:     "folio",
		Password: "p@ss",
		DBName:   "portfolio_db",
	})
	assert.Equal(t, "postgres://folio:p%40ss@db:5433/portfolio_db?sslmode=disable", dsn)

	dsn = PostgresURL(config.DatabaseConfig{Host: "db", Port: 5432, UseSSL: true})
	assert.Contains(t, dsn, "sslmode=require")
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	require.NoError(t, err)

	ups, downs := 0, 0
	for _, entry := range entries {
		switch {
		case strings.HasSuffix(entry.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(entry.Name(), ".down.sql"):
			downs++
		}
	}
	assert.Greater(t, ups, 0)
	assert.Equal(t, ups, downs)
}
