package config

import "fmt"

func validate(c *Config) error {
	if err := c.App.validate(); err != nil {
		return err
	}
	if err := c.Lexicon.validate(); err != nil {
		return err
	}
	if err := c.Team.validate(); err != nil {
		return err
	}
	if err := c.Recommend.validate(); err != nil {
		return err
	}
	if c.Metrics.Enabled && (c.Metrics.Path == "" || c.Metrics.Path[0] != '/') {
		return fmt.Errorf("metrics.path must start with /")
	}
	return nil
}

func (a *AppConfig) validate() error {
	switch a.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("app.log_format must be text or json")
	}
	if a.HTTPAddr == "" {
		return fmt.Errorf("app.http_addr cannot be empty")
	}
	return nil
}

func (l *LexiconConfig) validate() error {
	switch l.DefaultLanguage {
	case "de", "en", "da":
		return nil
	default:
		return fmt.Errorf("lexicon.default_language must be one of de, en, da")
	}
}

func (t *TeamConfig) validate() error {
	if t.OptimalSize <= 0 {
		return fmt.Errorf("team.optimal_size must be > 0")
	}
	switch t.PreviewMode {
	case "deterministic", "approximate":
	default:
		return fmt.Errorf("team.preview_mode must be deterministic or approximate")
	}
	switch t.ConflictThreshold {
	case "low", "moderate":
	default:
		return fmt.Errorf("team.conflict_threshold must be low or moderate")
	}
	if t.ReportCacheSize <= 0 {
		return fmt.Errorf("team.report_cache_size must be > 0")
	}
	if t.ReportCacheTTLSeconds < 0 {
		return fmt.Errorf("team.report_cache_ttl_seconds must be >= 0")
	}
	return nil
}

func (r *RecommendConfig) validate() error {
	if r.TopN <= 0 {
		return fmt.Errorf("recommend.top_n must be > 0")
	}
	if r.MissingThreshold < 0 || r.MissingThreshold > 1 {
		return fmt.Errorf("recommend.missing_threshold must be within [0,1]")
	}
	if r.HistoricalScore < 0 || r.HistoricalScore > 1 {
		return fmt.Errorf("recommend.historical_score must be within [0,1]")
	}
	return nil
}
