package team

import (
	"fmt"
	"strings"

	"hugo/internal/compat"
	"hugo/internal/personality"
)

const tooFewMembers = "Team needs more members for a meaningful synergy calculation"

// conflictPairs names the pairs that count as conflicts at level.
func conflictPairs(level compat.Level) string {
	if level == compat.LevelModerate {
		return "low- or moderate-compatibility pairs"
	}
	return "low-compatibility pairs"
}

func recommendations(r Report, level compat.Level) []string {
	out := []string{}
	if r.TotalMembers < 2 {
		return append(out, tooFewMembers)
	}
	dist := r.DimensionDistribution

	var missing []string
	for _, d := range personality.Dimensions {
		if dist[d] == 0 {
			missing = append(missing, d.Title())
		}
	}
	if len(missing) > 0 {
		out = append(out, fmt.Sprintf("Team could benefit from %s types", strings.Join(missing, ", ")))
	}

	for _, d := range personality.Dimensions {
		if float64(dist[d]) > float64(r.TotalMembers)*dominantShare {
			out = append(out, fmt.Sprintf("Team is heavily %s-oriented; more diversity could help", d.Title()))
			break
		}
	}

	if len(r.PotentialConflicts) > 0 {
		pairs := make([]string, 0, len(r.PotentialConflicts))
		for _, c := range r.PotentialConflicts {
			pairs = append(pairs, string(c.A)+"-"+string(c.B))
		}
		out = append(out, fmt.Sprintf("Schedule facilitated check-ins for %s (%s)", conflictPairs(level), strings.Join(pairs, ", ")))
	}

	if dist[personality.Vision] > dist[personality.Expertise] {
		out = append(out, "Ground the team's vision in execution by involving Expertise types in planning")
	}

	if avg := r.AverageCompatibility; avg != nil {
		switch {
		case *avg < 0.70:
			out = append(out, "Team synergy could be improved through a better type distribution")
		case *avg > 0.85:
			out = append(out, "Excellent team dynamics, keep it up")
		}
	}
	return out
}

func communicationTips(r Report, level compat.Level) []Tip {
	dist := r.DimensionDistribution
	var tips []Tip
	if dist[personality.Vision] > dist[personality.Expertise] {
		tips = append(tips, Tip{
			Title:  "Balance Vision with Execution",
			Advice: "Pair big-picture discussions with concrete plans and owners so ideas turn into results.",
		})
	}
	if dist[personality.Innovation] > dist[personality.Expertise] {
		tips = append(tips, Tip{
			Title:  "Ground Innovation in Reality",
			Advice: "Test new ideas against data and feasibility before committing resources.",
		})
	}
	if dist[personality.Collaboration] > 0 {
		tips = append(tips, Tip{
			Title:  "Leverage Relationship Strengths",
			Advice: "Let Collaboration types facilitate meetings and keep everyone connected.",
		})
	}
	if len(r.PotentialConflicts) > 0 {
		tips = append(tips, Tip{
			Title:  "Address Potential Conflicts Proactively",
			Advice: "Hold facilitated check-ins for " + conflictPairs(level) + " and agree on working norms early.",
		})
	}
	return append(tips, Tip{
		Title:  "Regular Team Retrospectives",
		Advice: "Reflect together on what works and adjust roles as the team evolves.",
	})
}
