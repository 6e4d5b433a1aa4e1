package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[data]
neos = "/tmp/neos.csv"

[linkage]
strict = true

[query]
limit = 25
include_unknown_diameter = true

[memgraph]
uri = "bolt://graph:7687"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/neos.csv", cfg.Data.NEOs)
	assert.Equal(t, "data/cad.json", cfg.Data.Approaches, "unset keys keep defaults")
	assert.True(t, cfg.Linkage.Strict)
	assert.Equal(t, 25, cfg.Query.Limit)
	assert.True(t, cfg.Query.IncludeUnknownDiameter)
	assert.Equal(t, "bolt://graph:7687", cfg.Memgraph.URI)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "failed to read config file")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = Load(writeConfig(t, "[query\nlimit = "))
	assert.ErrorContains(t, err, "failed to parse TOML")
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Query.Limit)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("NEOSCOPE_NEO_FILE", "env-neos.csv")
	t.Setenv("MEMGRAPH_URI", "bolt://env:7687")
	t.Setenv("NEOSCOPE_STRICT", "true")
	t.Setenv("NEOSCOPE_LIMIT", "3")
	t.Setenv("PORT", "9090")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "env-neos.csv", cfg.Data.NEOs)
	assert.Equal(t, "data/cad.json", cfg.Data.Approaches)
	assert.Equal(t, "bolt://env:7687", cfg.Memgraph.URI)
	assert.True(t, cfg.Linkage.Strict)
	assert.Equal(t, 3, cfg.Query.Limit)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestApplyEnv_Invalid(t *testing.T) {
	t.Setenv("NEOSCOPE_STRICT", "sometimes")
	assert.ErrorContains(t, Default().ApplyEnv(), "NEOSCOPE_STRICT")

	t.Setenv("NEOSCOPE_STRICT", "")
	t.Setenv("NEOSCOPE_LIMIT", "ten")
	assert.ErrorContains(t, Default().ApplyEnv(), "NEOSCOPE_LIMIT")
}
