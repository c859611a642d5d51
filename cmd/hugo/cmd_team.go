package main

import (
	"fmt"

	"hugo/internal/personality"
	"hugo/internal/recommend"
	"hugo/internal/service"

	"github.com/spf13/cobra"
)

var teamCmd = &cobra.Command{
	Use:     "team <type>...",
	Short:   "Analyze synergy for a team of type codes",
	Example: "  hugo team V1 I2 E3 C1\n  hugo team V1,V2,C3",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := openApp()
		if err != nil {
			return err
		}
		defer closeApp(a)
		res, err := a.Service().AnalyzeTeam(cmd.Context(), splitCodes(args))
		if err != nil {
			return err
		}
		return printTeamReport(res)
	},
}

var previewMode string

var previewCmd = &cobra.Command{
	Use:   "preview <type>...",
	Short: "Quick synergy estimate from dimension spread and size",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		a, _, err := openApp()
		if err != nil {
			return err
		}
		defer closeApp(a)
		p, err := a.Service().PreviewTeam(splitCodes(args), previewMode)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(p)
		}
		fmt.Printf("%s %.2f %s\n", bold("Preview:"), p.Score, gray(string(p.Mode)))
		fmt.Printf("  balance %.2f, size factor %.2f\n", p.Balance, p.SizeFactor)
		if p.Approximate {
			fmt.Println(yellow("  approximate: includes random jitter"))
		}
		return nil
	},
}

var compatCmd = &cobra.Command{
	Use:   "compat <a> <b>",
	Short: "Look up the compatibility of two types",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		a, _, err := openApp()
		if err != nil {
			return err
		}
		defer closeApp(a)
		c, err := a.Service().Compatibility(args[0], args[1])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(c)
		}
		fmt.Printf("%s + %s: %s %s\n", typeLabel(c.A), typeLabel(c.B), bold(fmt.Sprintf("%.2f", c.Score)), gray(string(c.Level)))
		if c.Description != "" {
			fmt.Println("  " + c.Description)
		}
		return nil
	},
}

var (
	recCandidates []string
	recProject    string
	recSize       string
	recTopN       int
)

var recommendCmd = &cobra.Command{
	Use:     "recommend <team type>...",
	Short:   "Rank candidates by how much they would improve a team",
	Example: "  hugo recommend V1 V2 V3 --candidates E1,C2,I1 --project execution",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		a, _, err := openApp()
		if err != nil {
			return err
		}
		defer closeApp(a)
		res, err := a.Service().Recommend(service.RecommendRequest{
			Team:        toMembers(splitCodes(args), "member"),
			Candidates:  toMembers(splitCodes(recCandidates), "candidate"),
			ProjectType: recProject,
			Size:        recSize,
			TopN:        recTopN,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(res)
		}
		fmt.Printf("%s %s, %s team, current score %.2f\n", bold("Project:"), res.ProjectType, res.Size, res.Current.Total)
		for _, s := range res.Insights.Strengths {
			fmt.Println(green("  + " + s))
		}
		for _, w := range res.Insights.Weaknesses {
			fmt.Println(yellow("  - " + w))
		}
		for i, r := range res.Ranked {
			gap := ""
			if r.FillsGap {
				gap = cyan(" fills a gap")
			}
			fmt.Printf("%d. %-28s %.2f (%+.2f)%s\n", i+1, typeLabel(r.Candidate.Type), r.Predicted, r.Improvement, gap)
		}
		return nil
	},
}

func init() {
	previewCmd.Flags().StringVar(&previewMode, "mode", "", "deterministic or approximate (default from config)")
	recommendCmd.Flags().StringSliceVar(&recCandidates, "candidates", nil, "candidate type codes")
	recommendCmd.Flags().StringVar(&recProject, "project", "", "innovation, execution, client_facing, strategic, research or balanced")
	recommendCmd.Flags().StringVar(&recSize, "size", "", "small, medium or large")
	recommendCmd.Flags().IntVar(&recTopN, "top", 0, "number of candidates to show (default from config)")
	_ = recommendCmd.MarkFlagRequired("candidates")
}

func toMembers(codes []string, prefix string) []recommend.Member {
	out := make([]recommend.Member, len(codes))
	for i, c := range codes {
		out[i] = recommend.Member{ID: fmt.Sprintf("%s-%d", prefix, i+1), Type: personality.TypeCode(c)}
	}
	return out
}
