package config

import "strings"

const (
	defaultAppEnv            = "dev"
	defaultAppLogLevel       = "info"
	defaultAppLogFormat      = "text"
	defaultAppHTTPAddr       = ":8088"
	defaultStorePath         = "data/hugo.db"
	defaultEventLogPath      = "data/events.db"
	defaultLanguage          = "de"
	defaultOptimalSize       = 6
	defaultPreviewMode       = "deterministic"
	defaultReportCacheSize   = 128
	defaultReportCacheTTL    = 300
	defaultConflictThreshold = "low"
	defaultRecommendTopN     = 5
	defaultMissingThreshold  = 0.15
	defaultHistoricalScore   = 0.5
	defaultMetricsPath       = "/metrics"
)

// Default returns the built-in configuration used when no file exists.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults(nil)
	return &cfg
}

func (c *Config) applyDefaults(keys keySet) {
	c.App.applyDefaults(keys)
	c.Store.applyDefaults(keys)
	c.Lexicon.applyDefaults(keys)
	c.Team.applyDefaults(keys)
	c.Recommend.applyDefaults(keys)
	c.Metrics.applyDefaults(keys)
	c.MCP.applyDefaults(keys)
}

func (a *AppConfig) applyDefaults(keys keySet) {
	if a == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("app.env", &a.Env, defaultAppEnv),
		stringFieldDefault("app.log_level", &a.LogLevel, defaultAppLogLevel),
		stringFieldDefault("app.log_format", &a.LogFormat, defaultAppLogFormat),
		stringFieldDefault("app.http_addr", &a.HTTPAddr, defaultAppHTTPAddr),
	)
	a.LogFormat = strings.ToLower(strings.TrimSpace(a.LogFormat))
}

func (s *StoreConfig) applyDefaults(keys keySet) {
	if s == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("store.path", &s.Path, defaultStorePath),
		stringFieldDefault("store.event_log_path", &s.EventLogPath, defaultEventLogPath),
	)
}

func (l *LexiconConfig) applyDefaults(keys keySet) {
	if l == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("lexicon.default_language", &l.DefaultLanguage, defaultLanguage),
	)
	l.DefaultLanguage = strings.ToLower(strings.TrimSpace(l.DefaultLanguage))
}

func (t *TeamConfig) applyDefaults(keys keySet) {
	if t == nil {
		return
	}
	applyFieldDefaults(keys,
		fieldDefault{
			key:   "team.optimal_size",
			need:  func() bool { return t.OptimalSize <= 0 },
			apply: func() { t.OptimalSize = defaultOptimalSize },
		},
		stringFieldDefault("team.preview_mode", &t.PreviewMode, defaultPreviewMode),
		fieldDefault{
			key:   "team.report_cache_size",
			need:  func() bool { return t.ReportCacheSize <= 0 },
			apply: func() { t.ReportCacheSize = defaultReportCacheSize },
		},
		fieldDefault{
			key:   "team.report_cache_ttl_seconds",
			need:  func() bool { return t.ReportCacheTTLSeconds <= 0 },
			apply: func() { t.ReportCacheTTLSeconds = defaultReportCacheTTL },
		},
		stringFieldDefault("team.conflict_threshold", &t.ConflictThreshold, defaultConflictThreshold),
	)
	t.PreviewMode = strings.ToLower(strings.TrimSpace(t.PreviewMode))
	t.ConflictThreshold = strings.ToLower(strings.TrimSpace(t.ConflictThreshold))
}

func (r *RecommendConfig) applyDefaults(keys keySet) {
	if r == nil {
		return
	}
	applyFieldDefaults(keys,
		fieldDefault{
			key:   "recommend.top_n",
			need:  func() bool { return r.TopN <= 0 },
			apply: func() { r.TopN = defaultRecommendTopN },
		},
		fieldDefault{
			key:   "recommend.missing_threshold",
			need:  func() bool { return r.MissingThreshold == 0 },
			apply: func() { r.MissingThreshold = defaultMissingThreshold },
		},
		fieldDefault{
			key:   "recommend.historical_score",
			need:  func() bool { return r.HistoricalScore == 0 },
			apply: func() { r.HistoricalScore = defaultHistoricalScore },
		},
	)
}

func (m *MetricsConfig) applyDefaults(keys keySet) {
	if m == nil {
		return
	}
	applyFieldDefaults(keys,
		boolFieldDefault("metrics.enabled", &m.Enabled, true),
		stringFieldDefault("metrics.path", &m.Path, defaultMetricsPath),
	)
}

func (m *MCPConfig) applyDefaults(keys keySet) {
	if m == nil {
		return
	}
	applyFieldDefaults(keys,
		boolFieldDefault("mcp.enabled", &m.Enabled, true),
	)
}

// Helper functions

func applyFieldDefaults(keys keySet, defs ...fieldDefault) {
	for _, def := range defs {
		if def.apply == nil {
			continue
		}
		if def.key != "" && keys.isSet(def.key) {
			continue
		}
		if def.need != nil && !def.need() {
			continue
		}
		def.apply()
	}
}

func stringFieldDefault(key string, target *string, def string) fieldDefault {
	return fieldDefault{
		key: key,
		need: func() bool {
			return target != nil && strings.TrimSpace(*target) == ""
		},
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}

func boolFieldDefault(key string, target *bool, def bool) fieldDefault {
	return fieldDefault{
		key:  key,
		need: func() bool { return target != nil },
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}
