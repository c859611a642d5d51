package config

import "strings"

// Config is the root of the service configuration.
type Config struct {
	App       AppConfig       `toml:"app"`
	Store     StoreConfig     `toml:"store"`
	Lexicon   LexiconConfig   `toml:"lexicon"`
	Team      TeamConfig      `toml:"team"`
	Recommend RecommendConfig `toml:"recommend"`
	Metrics   MetricsConfig   `toml:"metrics"`
	MCP       MCPConfig       `toml:"mcp"`
	HTTP      HTTPConfig      `toml:"http"`
}

type AppConfig struct {
	Env       string `toml:"env"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	LogPath   string `toml:"log_path"`
	HTTPAddr  string `toml:"http_addr"`
}

// StoreConfig points at the two SQLite files. Disabled runs everything in
// memory-only mode: analysis works, persistence endpoints return 503.
type StoreConfig struct {
	Path         string `toml:"path"`
	EventLogPath string `toml:"event_log_path"`
	Disabled     bool   `toml:"disabled"`
}

// LexiconConfig selects the question bank. An empty path serves the embedded
// bank.
type LexiconConfig struct {
	Path            string `toml:"path"`
	Watch           bool   `toml:"watch"`
	DefaultLanguage string `toml:"default_language"`
}

type TeamConfig struct {
	OptimalSize           int    `toml:"optimal_size"`
	PreviewMode           string `toml:"preview_mode"`
	ReportCacheSize       int    `toml:"report_cache_size"`
	ReportCacheTTLSeconds int    `toml:"report_cache_ttl_seconds"`
	ConflictThreshold     string `toml:"conflict_threshold"`
}

type RecommendConfig struct {
	TopN             int     `toml:"top_n"`
	MissingThreshold float64 `toml:"missing_threshold"`
	HistoricalScore  float64 `toml:"historical_score"`
}

type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type MCPConfig struct {
	Enabled bool `toml:"enabled"`
}

type HTTPConfig struct {
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`
}

// keySet tracks the dotted paths set explicitly in the config files so that
// deliberate zero values survive applyDefaults.
type keySet map[string]struct{}

func (k keySet) mark(path string) {
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return
	}
	k[path] = struct{}{}
}

func (k keySet) isSet(path string) bool {
	if len(k) == 0 {
		return false
	}
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return false
	}
	_, ok := k[path]
	return ok
}

type fieldDefault struct {
	key   string
	need  func() bool
	apply func()
}
