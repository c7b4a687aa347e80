package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATABASE_MAX_CONNS", "12")
	cfg := ConfigFromEnv()
	assert.Contains(t, cfg.DSN, "localhost:5432")
	assert.Equal(t, 12, cfg.MaxConns)

	t.Setenv("DATABASE_MAX_CONNS", "zero")
	assert.Equal(t, 5, ConfigFromEnv().MaxConns)
}

func TestWithSessionOptions(t *testing.T) {
	assert.Equal(t, "postgres://h/db", withSessionOptions("postgres://h/db", "", ""))
	assert.Equal(t,
		"postgres://h/db?sslmode=disable&options=-c+TimeZone%3DUTC",
		withSessionOptions("postgres://h/db?sslmode=disable", "UTC", ""))
	assert.Equal(t,
		"host=h dbname=db options='-c TimeZone=Asia/Shanghai -c client_encoding=UTF8'",
		withSessionOptions("host=h dbname=db", "Asia/Shanghai", "UTF8"))
}

func TestQuoteLiteral(t *testing.T) {
	assert.Equal(t, `'it\'s'`, quoteLiteral("it's"))
}
