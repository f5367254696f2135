package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Pin to empty so ambient environment cannot leak into the test
	for _, key := range []string{"ENV", "NEO4J_URI", "NEO4J_USER", "NEO4J_PASSWORD", "NEO4J_DATABASE", "LOAD_BATCH_SIZE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "bolt://localhost:7687", cfg.Neo4jURI)
	assert.Equal(t, "neo4j", cfg.Neo4jUser)
	assert.Equal(t, 1000, cfg.LoadBatchSize)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("NEO4J_URI", "neo4j://db.example.com:7687")
	t.Setenv("NEO4J_DATABASE", "biograph")
	t.Setenv("LOAD_BATCH_SIZE", "250")
	t.Setenv("ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "neo4j://db.example.com:7687", cfg.Neo4jURI)
	assert.Equal(t, "biograph", cfg.Neo4jDatabase)
	assert.Equal(t, 250, cfg.LoadBatchSize)
	assert.True(t, cfg.IsProduction())
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Neo4jURI:      "bolt://localhost:7687",
		Neo4jUser:     "neo4j",
		Neo4jPassword: "password",
		LoadBatchSize: 100,
	}
	assert.NoError(t, cfg.Validate())

	cfg.Neo4jURI = ""
	assert.Error(t, cfg.Validate())

	cfg.Neo4jURI = "bolt://localhost:7687"
	cfg.LoadBatchSize = 0
	assert.Error(t, cfg.Validate())
}
