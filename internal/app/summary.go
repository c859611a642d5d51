package app

import (
	"fmt"
	"strings"

	"hugo/internal/logger"
)

type StartupSummary struct {
	Env            string
	HTTPAddr       string
	StorePath      string
	EventLogPath   string
	LexiconSource  string
	LexiconVersion string
	LexiconWatch   bool
	Language       string
	OptimalSize    int
	PreviewMode    string
	Conflict       string
	ReportCache    int
	MetricsPath    string
	CORSOrigins    []string
}

func (s *StartupSummary) String() string {
	var b strings.Builder
	line := strings.Repeat("=", 60)
	b.WriteString(line + "\n")
	b.WriteString("STARTUP SUMMARY\n")
	b.WriteString(line + "\n")

	b.WriteString("[app]\n")
	fmt.Fprintf(&b, "  env: %s\n", orDash(s.Env))
	fmt.Fprintf(&b, "  http: %s\n", orDash(s.HTTPAddr))
	fmt.Fprintf(&b, "  metrics: %s\n", orDash(s.MetricsPath))
	fmt.Fprintf(&b, "  cors: %s\n", formatList(s.CORSOrigins))

	b.WriteString("[storage]\n")
	fmt.Fprintf(&b, "  profiles/teams/sessions: %s\n", orDash(s.StorePath))
	fmt.Fprintf(&b, "  event log: %s\n", orDash(s.EventLogPath))

	b.WriteString("[lexicon]\n")
	fmt.Fprintf(&b, "  bank: %s (%s)\n", orDash(s.LexiconVersion), orDash(s.LexiconSource))
	fmt.Fprintf(&b, "  watch: %t\n", s.LexiconWatch)
	fmt.Fprintf(&b, "  default language: %s\n", orDash(s.Language))

	b.WriteString("[team]\n")
	fmt.Fprintf(&b, "  optimal size: %d\n", s.OptimalSize)
	fmt.Fprintf(&b, "  preview: %s\n", orDash(s.PreviewMode))
	fmt.Fprintf(&b, "  conflict threshold: %s\n", orDash(s.Conflict))
	fmt.Fprintf(&b, "  report cache: %d\n", s.ReportCache)
	b.WriteString(line)
	return b.String()
}

func (s *StartupSummary) Print() {
	logger.InfoBlock(s.String())
}

func formatList(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

func orDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}
