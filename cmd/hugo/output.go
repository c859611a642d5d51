package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"hugo/internal/personality"
	"hugo/internal/service"
	"hugo/internal/team"
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func typeLabel(code personality.TypeCode) string {
	info, ok := personality.Info(code)
	if !ok {
		return string(code)
	}
	return fmt.Sprintf("%s %s", code, info.Name.In(personality.English))
}

func printProfile(view service.ProfileView) error {
	if jsonOutput {
		return printJSON(view)
	}
	p := view.Profile
	fmt.Printf("%s %s\n", bold("Type:"), green(typeLabel(p.FinalType)))
	fmt.Printf("%s %s\n", bold("Dimension:"), p.PrimaryDimension.Title())
	for _, d := range personality.Dimensions {
		fmt.Printf("  %-14s %s\n", d.Title(), gray(fmt.Sprintf("%.1f", p.DimensionScores[d])))
	}
	fmt.Println(bold("Top types:"))
	for _, row := range p.TopTypes {
		pct := ""
		if row.Percentage != nil {
			pct = fmt.Sprintf(" (%d%%)", *row.Percentage)
		}
		fmt.Printf("  %-28s %.1f%s\n", typeLabel(row.Type), row.Score, pct)
	}
	if p.Confidence.LowConfidence {
		fmt.Println(yellow("low confidence: " + p.Confidence.Reason))
	}
	if p.ID != "" {
		fmt.Println(gray("profile " + p.ID))
	}
	return nil
}

func printTeamReport(res service.TeamReport) error {
	if jsonOutput {
		return printJSON(res)
	}
	r := res.Report
	fmt.Printf("%s %d\n", bold("Members:"), r.TotalMembers)
	fmt.Printf("%s %s\n", bold("Synergy:"), labelColor(r.SynergyLabel)(fmt.Sprintf("%.2f (%s)", r.SynergyScore, r.SynergyLabel)))
	if r.AverageCompatibility != nil {
		fmt.Printf("%s %.2f\n", bold("Average compatibility:"), *r.AverageCompatibility)
	}
	if r.Balance != nil {
		fmt.Printf("%s %.2f (%s)\n", bold("Balance:"), r.Balance.Score, r.Balance.Label)
	}
	fmt.Printf("%s %s (optimal %d)\n", bold("Size:"), r.Size.Category, r.Size.OptimalSize)
	for _, c := range r.PotentialConflicts {
		fmt.Println(yellow(fmt.Sprintf("  conflict %s-%s %.2f: %s", c.A, c.B, c.Score, c.Description)))
	}
	if len(r.Recommendations) > 0 {
		fmt.Println(bold("Recommendations:"))
		for _, line := range r.Recommendations {
			fmt.Println("  - " + line)
		}
	}
	if len(r.CommunicationTips) > 0 {
		fmt.Println(bold("Communication:"))
		for _, tip := range r.CommunicationTips {
			fmt.Printf("  %s %s\n", cyan(tip.Title+":"), tip.Advice)
		}
	}
	return nil
}

func labelColor(l team.Label) func(a ...interface{}) string {
	switch l {
	case team.LabelExcellent:
		return green
	case team.LabelGood:
		return cyan
	default:
		return yellow
	}
}

func splitCodes(args []string) []string {
	var out []string
	for _, a := range args {
		for _, part := range strings.Split(a, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

