package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"hugo/internal/personality"
	"hugo/internal/recommend"
	"hugo/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
)

// Tools lists every tool bound to svc, in registration order.
func Tools(svc *service.Service) []Tool {
	return []Tool{
		&ClassifyTextTool{svc: svc},
		&AnalyzeTeamTool{svc: svc},
		&CompatibilityTool{svc: svc},
		&PreviewSynergyTool{svc: svc},
		&RecommendTool{svc: svc},
	}
}

// ClassifyTextTool handles classify_text.
type ClassifyTextTool struct {
	svc *service.Service
}

func (t *ClassifyTextTool) Definition() mcp.Tool {
	return mcp.NewTool("classify_text",
		mcp.WithDescription("Classify a person from free-text answers. Pass one answer per line for the 12 dimension questions and the 3 type questions, or a single text used for every question."),
		mcp.WithString("dimension_answers", mcp.Description("Twelve answers, one per line.")),
		mcp.WithString("type_answers", mcp.Description("Three answers, one per line.")),
		mcp.WithString("text", mcp.Description("One text reused as the answer to every question.")),
	)
}

func (t *ClassifyTextTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bank := t.svc.Bank()
	dims := splitLines(req.GetString("dimension_answers", ""))
	types := splitLines(req.GetString("type_answers", ""))
	if text := strings.TrimSpace(req.GetString("text", "")); text != "" {
		if len(dims) == 0 {
			dims = repeat(text, len(bank.DimensionQuestions))
		}
		if len(types) == 0 {
			// every dimension asks the same number of type questions
			types = repeat(text, len(bank.TypeQuestionsFor(personality.Vision)))
		}
	}
	view, err := t.svc.ClassifyText(ctx, service.OpenTextRequest{DimensionAnswers: dims, TypeAnswers: types})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("classification failed: %v", err)), nil
	}
	p := view.Profile
	var sb strings.Builder
	sb.WriteString("## Profile\n\n")
	sb.WriteString(fmt.Sprintf("- **Type**: %s (%s)\n", p.FinalType, typeName(p.FinalType)))
	sb.WriteString(fmt.Sprintf("- **Dimension**: %s\n", p.PrimaryDimension.Title()))
	for _, d := range personality.Dimensions {
		sb.WriteString(fmt.Sprintf("  - %s: %.1f\n", d.Title(), p.DimensionScores[d]))
	}
	sb.WriteString(fmt.Sprintf("- **Keyword hits**: %d\n", p.Confidence.KeywordHits))
	if p.Confidence.LowConfidence {
		sb.WriteString(fmt.Sprintf("- **Low confidence**: %s\n", p.Confidence.Reason))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// AnalyzeTeamTool handles analyze_team.
type AnalyzeTeamTool struct {
	svc *service.Service
}

func (t *AnalyzeTeamTool) Definition() mcp.Tool {
	return mcp.NewTool("analyze_team",
		mcp.WithDescription("Analyze team synergy from member type codes (V1..C3)."),
		mcp.WithString("types", mcp.Required(), mcp.Description("Comma-separated type codes, e.g. \"V1,I2,E3,C1\".")),
	)
}

func (t *AnalyzeTeamTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	codes := splitList(req.GetString("types", ""))
	res, err := t.svc.AnalyzeTeam(ctx, codes)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("team analysis failed: %v", err)), nil
	}
	r := res.Report
	var sb strings.Builder
	sb.WriteString("## Team Report\n\n")
	sb.WriteString(fmt.Sprintf("- **Members**: %d\n", r.TotalMembers))
	sb.WriteString(fmt.Sprintf("- **Synergy**: %.2f (%s)\n", r.SynergyScore, r.SynergyLabel))
	if r.AverageCompatibility != nil {
		sb.WriteString(fmt.Sprintf("- **Average compatibility**: %.2f\n", *r.AverageCompatibility))
	}
	if r.Balance != nil {
		sb.WriteString(fmt.Sprintf("- **Balance**: %.2f (%s)\n", r.Balance.Score, r.Balance.Label))
	}
	if len(r.PotentialConflicts) > 0 {
		sb.WriteString("\n### Potential conflicts\n\n")
		for _, c := range r.PotentialConflicts {
			sb.WriteString(fmt.Sprintf("- %s-%s %.2f: %s\n", c.A, c.B, c.Score, c.Description))
		}
	}
	if len(r.Recommendations) > 0 {
		sb.WriteString("\n### Recommendations\n\n")
		for _, rec := range r.Recommendations {
			sb.WriteString("- " + rec + "\n")
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// CompatibilityTool handles lookup_compatibility.
type CompatibilityTool struct {
	svc *service.Service
}

func (t *CompatibilityTool) Definition() mcp.Tool {
	return mcp.NewTool("lookup_compatibility",
		mcp.WithDescription("Look up how well two types work together."),
		mcp.WithString("a", mcp.Required(), mcp.Description("First type code.")),
		mcp.WithString("b", mcp.Required(), mcp.Description("Second type code.")),
	)
}

func (t *CompatibilityTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := t.svc.Compatibility(req.GetString("a", ""), req.GetString("b", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s + %s: %.2f (%s) %s", res.A, res.B, res.Score, res.Level, res.Description)), nil
}

// PreviewSynergyTool handles preview_synergy.
type PreviewSynergyTool struct {
	svc *service.Service
}

func (t *PreviewSynergyTool) Definition() mcp.Tool {
	return mcp.NewTool("preview_synergy",
		mcp.WithDescription("Quick synergy estimate for a provisional roster from dimension spread and size."),
		mcp.WithString("types", mcp.Required(), mcp.Description("Comma-separated type codes.")),
		mcp.WithString("mode", mcp.Description("deterministic (default) or approximate."), mcp.Enum("deterministic", "approximate")),
	)
}

func (t *PreviewSynergyTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := t.svc.PreviewTeam(splitList(req.GetString("types", "")), req.GetString("mode", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	label := "deterministic"
	if p.Approximate {
		label = "approximate"
	}
	return mcp.NewToolResultText(fmt.Sprintf("Preview synergy %.2f (%s; balance %.2f, size factor %.2f)", p.Score, label, p.Balance, p.SizeFactor)), nil
}

// RecommendTool handles recommend_candidates.
type RecommendTool struct {
	svc *service.Service
}

func (t *RecommendTool) Definition() mcp.Tool {
	return mcp.NewTool("recommend_candidates",
		mcp.WithDescription("Rank candidate types by how much each would improve a team for a project."),
		mcp.WithString("team", mcp.Required(), mcp.Description("Comma-separated type codes of the current team.")),
		mcp.WithString("candidates", mcp.Required(), mcp.Description("Comma-separated candidate type codes.")),
		mcp.WithString("project_type", mcp.Description("innovation, execution, client_facing, strategic, research or balanced.")),
		mcp.WithString("size", mcp.Description("small, medium or large.")),
		mcp.WithNumber("top_n", mcp.Description("How many candidates to return.")),
	)
}

func (t *RecommendTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := t.svc.Recommend(service.RecommendRequest{
		Team:        members(splitList(req.GetString("team", "")), "member"),
		Candidates:  members(splitList(req.GetString("candidates", "")), "candidate"),
		ProjectType: req.GetString("project_type", ""),
		Size:        req.GetString("size", ""),
		TopN:        intArg(req, "top_n", 0),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Recommendations (%s, %s)\n\n", res.ProjectType, res.Size))
	sb.WriteString(fmt.Sprintf("Current team score: %.2f\n\n", res.Current.Total))
	for i, r := range res.Ranked {
		gap := ""
		if r.FillsGap {
			gap = " fills a gap"
		}
		sb.WriteString(fmt.Sprintf("%d. %s %s: %.2f (%+.2f)%s\n", i+1, r.Candidate.ID, r.Candidate.Type, r.Predicted, r.Improvement, gap))
	}
	for _, line := range res.Insights.Recommendations {
		sb.WriteString("\n- " + line)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func members(codes []string, prefix string) []recommend.Member {
	out := make([]recommend.Member, len(codes))
	for i, c := range codes {
		out[i] = recommend.Member{ID: fmt.Sprintf("%s-%d", prefix, i+1), Type: personality.TypeCode(c)}
	}
	return out
}

func typeName(code personality.TypeCode) string {
	info, ok := personality.Info(code)
	if !ok {
		return string(code)
	}
	return info.Name.In(personality.English)
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}
