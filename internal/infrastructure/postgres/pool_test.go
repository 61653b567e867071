package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tiendas-api/pkg/config"
)

func TestPoolConfigFor(t *testing.T) {
	cfg := config.DBConfig{
		Host: "db.local", Port: 5433, User: "tiendas", Password: "p@ss word",
		DBName: "tiendas", SSLMode: "disable", MaxConns: 10, MinConns: 2,
	}
	pc, err := poolConfigFor(cfg)
	require.NoError(t, err)

	assert.Equal(t, int32(10), pc.MaxConns)
	assert.Equal(t, int32(2), pc.MinConns)
	assert.Equal(t, "db.local", pc.ConnConfig.Host)
	assert.Equal(t, uint16(5433), pc.ConnConfig.Port)
	assert.Equal(t, "p@ss word", pc.ConnConfig.Password)
	assert.Equal(t, applicationName, pc.ConnConfig.RuntimeParams["application_name"])
	assert.NotNil(t, pc.AfterConnect)
}

func TestPoolConfigFor_DatabaseURL(t *testing.T) {
	pc, err := poolConfigFor(config.DBConfig{
		DatabaseURL: "postgres://u:p@example.com:6543/app?sslmode=disable&application_name=otra",
		MinConns:    50,
	})
	require.NoError(t, err)
	assert.Equal(t, "example.com", pc.ConnConfig.Host)
	assert.Equal(t, "otra", pc.ConnConfig.RuntimeParams["application_name"])
	assert.LessOrEqual(t, pc.MinConns, pc.MaxConns)
}

func TestPoolConfigFor_DSNInvalido(t *testing.T) {
	_, err := poolConfigFor(config.DBConfig{DatabaseURL: "postgres://u@host:puerto/db"})
	assert.Error(t, err)
}
