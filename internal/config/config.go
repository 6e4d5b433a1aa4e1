package config

import (
	"os"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
)

type DataConfig struct {
	NEOs       string `toml:"neos"`
	Approaches string `toml:"approaches"`
}

type LinkageConfig struct {
	// Strict fails the load on a close approach that references no NEO.
	Strict bool `toml:"strict"`
}

type QueryConfig struct {
	Limit                  int  `toml:"limit"`
	IncludeUnknownDiameter bool `toml:"include_unknown_diameter"`
}

type ServerConfig struct {
	Port    string `toml:"port"`
	Mode    string `toml:"mode"`
	Metrics bool   `toml:"metrics"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Config struct {
	Data     DataConfig     `toml:"data"`
	Linkage  LinkageConfig  `toml:"linkage"`
	Query    QueryConfig    `toml:"query"`
	Server   ServerConfig   `toml:"server"`
	Memgraph MemgraphConfig `toml:"memgraph"`
	Log      LogConfig      `toml:"log"`
}

func Default() *Config {
	return &Config{
		Data: DataConfig{
			NEOs:       "data/neos.csv",
			Approaches: "data/cad.json",
		},
		Query: QueryConfig{
			Limit: 10,
		},
		Server: ServerConfig{
			Port:    "8080",
			Mode:    "release",
			Metrics: true,
		},
		Memgraph: MemgraphConfig{
			URI: "bolt://localhost:7687",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads a TOML file on top of Default. Keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file '%s'", path)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.WithHint(errors.Wrap(err, "failed to parse TOML"), "see config/config.toml for the expected layout")
	}

	return cfg, nil
}

// LoadOrDefault loads path if it exists and falls back to Default when the
// file is missing. Parse errors are still returned.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// ApplyEnv overrides fields from the environment. Unset variables leave the
// current value alone; malformed booleans and integers are reported.
func (c *Config) ApplyEnv() error {
	str := map[string]*string{
		"NEOSCOPE_NEO_FILE":   &c.Data.NEOs,
		"NEOSCOPE_CAD_FILE":   &c.Data.Approaches,
		"NEOSCOPE_LOG_LEVEL":  &c.Log.Level,
		"NEOSCOPE_LOG_FORMAT": &c.Log.Format,
		"PORT":                &c.Server.Port,
		"GIN_MODE":            &c.Server.Mode,
		"MEMGRAPH_URI":        &c.Memgraph.URI,
		"MEMGRAPH_USER":       &c.Memgraph.User,
		"MEMGRAPH_PASSWORD":   &c.Memgraph.Password,
	}
	for key, dst := range str {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	flags := map[string]*bool{
		"NEOSCOPE_STRICT":                   &c.Linkage.Strict,
		"NEOSCOPE_INCLUDE_UNKNOWN_DIAMETER": &c.Query.IncludeUnknownDiameter,
		"NEOSCOPE_METRICS":                  &c.Server.Metrics,
	}
	for key, dst := range flags {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(err, "invalid %s=%q", key, v)
		}
		*dst = b
	}

	if v := os.Getenv("NEOSCOPE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "invalid NEOSCOPE_LIMIT=%q", v)
		}
		c.Query.Limit = n
	}

	return nil
}
