package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hugo/internal/compat"
	"hugo/internal/culture"
	"hugo/internal/personality"
	"hugo/internal/recommend"
	"hugo/internal/store"
	"hugo/internal/store/eventlog"
	"hugo/internal/store/model"
	"hugo/internal/team"
)

// Compatibility is one resolved pair lookup.
type Compatibility struct {
	A personality.TypeCode `json:"a"`
	B personality.TypeCode `json:"b"`
	compat.Entry
}

func (s *Service) Compatibility(a, b string) (Compatibility, error) {
	codeA, err := personality.ParseTypeCode(a)
	if err != nil {
		return Compatibility{}, invalid(err)
	}
	codeB, err := personality.ParseTypeCode(b)
	if err != nil {
		return Compatibility{}, invalid(err)
	}
	return Compatibility{A: codeA, B: codeB, Entry: s.matrix.Lookup(codeA, codeB)}, nil
}

// TeamReport is an analysis together with whether it came from the cache.
type TeamReport struct {
	Fingerprint string      `json:"fingerprint"`
	Cached      bool        `json:"cached"`
	Report      team.Report `json:"report"`
}

// AnalyzeTeam validates the roster and returns its synergy report.
func (s *Service) AnalyzeTeam(ctx context.Context, types []string) (TeamReport, error) {
	codes, err := personality.ParseTypeCodes(types)
	if err != nil {
		return TeamReport{}, invalid(err)
	}
	return s.analyze(ctx, "", codes), nil
}

// analyze caches reports by the roster in member order: conflicts and the
// advice naming them refer to members by position.
func (s *Service) analyze(ctx context.Context, teamID string, codes []personality.TypeCode) TeamReport {
	key := team.Fingerprint(codes)
	roster := rosterKey(codes)
	now := timeNow()
	if report, ok := s.reports.Get(roster, now); ok {
		s.metrics.ReportCache(true)
		return TeamReport{Fingerprint: key, Cached: true, Report: report}
	}
	s.metrics.ReportCache(false)
	report := s.analyzer.Analyze(codes)
	s.reports.Set(roster, report, now)
	s.metrics.TeamAnalyzed(string(report.SynergyLabel), report.TotalMembers)
	subject := teamID
	if subject == "" {
		subject = key
	}
	s.record(ctx, eventlog.KindTeamAnalyzed, subject, map[string]any{
		"fingerprint":   key,
		"members":       report.TotalMembers,
		"synergy_score": report.SynergyScore,
		"synergy_label": report.SynergyLabel,
		"conflicts":     len(report.PotentialConflicts),
	})
	return TeamReport{Fingerprint: key, Report: report}
}

func rosterKey(codes []personality.TypeCode) string {
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = string(c)
	}
	return strings.Join(parts, ",")
}

// PreviewTeam estimates synergy for a provisional roster. An empty mode uses
// the configured default.
func (s *Service) PreviewTeam(types []string, mode string) (team.Preview, error) {
	codes, err := personality.ParseTypeCodes(types)
	if err != nil {
		return team.Preview{}, invalid(err)
	}
	if strings.TrimSpace(mode) == "" {
		return s.analyzer.Preview(codes), nil
	}
	m, ok := team.ParsePreviewMode(mode)
	if !ok {
		return team.Preview{}, invalid(fmt.Errorf("unknown preview mode %q", mode))
	}
	return s.analyzer.PreviewWith(codes, m), nil
}

// MemberInput names a team member either by a stored profile or by a bare
// type code.
type MemberInput struct {
	ProfileID   string `json:"profile_id,omitempty"`
	Type        string `json:"type,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Country     string `json:"country,omitempty"`
}

type CreateTeamRequest struct {
	Name        string        `json:"name"`
	ProjectType string        `json:"project_type,omitempty"`
	Members     []MemberInput `json:"members"`
}

// TeamView is a stored team with its resolved roster.
type TeamView struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	ProjectType recommend.ProjectType `json:"project_type,omitempty"`
	Members     []recommend.Member    `json:"members"`
	CreatedAt   time.Time             `json:"created_at"`
}

// Types returns the roster as type codes.
func (v TeamView) Types() []personality.TypeCode {
	out := make([]personality.TypeCode, len(v.Members))
	for i, m := range v.Members {
		out[i] = m.Type
	}
	return out
}

// CreateTeam resolves every member to a type code (profile members take the
// final type of that profile) and stores the team in one transaction.
func (s *Service) CreateTeam(ctx context.Context, req CreateTeamRequest) (TeamView, error) {
	if err := s.requireStore(); err != nil {
		return TeamView{}, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return TeamView{}, invalid(fmt.Errorf("team name is required"))
	}
	var project recommend.ProjectType
	if strings.TrimSpace(req.ProjectType) != "" {
		p, err := recommend.ParseProjectType(req.ProjectType)
		if err != nil {
			return TeamView{}, invalid(err)
		}
		project = p
	}

	uow, err := s.store.Begin(ctx)
	if err != nil {
		return TeamView{}, err
	}
	defer func() {
		if uow != nil {
			_ = uow.Rollback()
		}
	}()

	rows := make([]model.TeamMemberModel, 0, len(req.Members))
	for i, in := range req.Members {
		row, err := s.resolveMember(ctx, uow.Profiles(), in)
		if err != nil {
			return TeamView{}, fmt.Errorf("member %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	teamRow := model.TeamModel{
		ID:          s.newID(),
		Name:        name,
		ProjectType: string(project),
		CreatedAt:   timeNow().UTC(),
	}
	if err := uow.Teams().Insert(ctx, &teamRow, rows); err != nil {
		return TeamView{}, fmt.Errorf("save team: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return TeamView{}, err
	}
	uow = nil
	return teamView(teamRow, rows), nil
}

func (s *Service) resolveMember(ctx context.Context, profiles store.ProfileRepository, in MemberInput) (model.TeamMemberModel, error) {
	row := model.TeamMemberModel{
		ProfileID:   strings.TrimSpace(in.ProfileID),
		DisplayName: strings.TrimSpace(in.DisplayName),
	}
	if code := strings.TrimSpace(in.Country); code != "" {
		c, err := culture.Lookup(code)
		if err != nil {
			return row, invalid(err)
		}
		row.Country = c.Code
	}
	if row.ProfileID != "" {
		found, err := profiles.FindByID(ctx, row.ProfileID)
		if err != nil {
			return row, err
		}
		row.TypeCode = found.FinalType
		if row.DisplayName == "" {
			row.DisplayName = found.Name
		}
		if row.Country == "" {
			row.Country = found.Country
		}
		return row, nil
	}
	code, err := personality.ParseTypeCode(in.Type)
	if err != nil {
		return row, invalid(err)
	}
	row.TypeCode = string(code)
	return row, nil
}

func (s *Service) GetTeam(ctx context.Context, id string) (TeamView, error) {
	if err := s.requireStore(); err != nil {
		return TeamView{}, err
	}
	id = strings.TrimSpace(id)
	row, err := s.store.Teams().FindByID(ctx, id)
	if err != nil {
		return TeamView{}, err
	}
	members, err := s.store.Teams().Members(ctx, id)
	if err != nil {
		return TeamView{}, err
	}
	return teamView(*row, members), nil
}

// StoredTeamReport analyzes a stored team, served from the cache when the
// same roster was analyzed recently.
func (s *Service) StoredTeamReport(ctx context.Context, id string) (TeamView, TeamReport, error) {
	view, err := s.GetTeam(ctx, id)
	if err != nil {
		return TeamView{}, TeamReport{}, err
	}
	return view, s.analyze(ctx, view.ID, view.Types()), nil
}

func teamView(row model.TeamModel, members []model.TeamMemberModel) TeamView {
	view := TeamView{
		ID:          row.ID,
		Name:        row.Name,
		ProjectType: recommend.ProjectType(row.ProjectType),
		Members:     make([]recommend.Member, 0, len(members)),
		CreatedAt:   row.CreatedAt.UTC(),
	}
	for _, m := range members {
		view.Members = append(view.Members, recommend.Member{
			ID:      m.ProfileID,
			Name:    m.DisplayName,
			Type:    personality.TypeCode(m.TypeCode),
			Country: m.Country,
		})
	}
	return view
}

type RecommendRequest struct {
	Team        []recommend.Member `json:"team"`
	Candidates  []recommend.Member `json:"candidates"`
	ProjectType string             `json:"project_type"`
	Size        string             `json:"size"`
	TopN        int                `json:"top_n"`
}

type RecommendResult struct {
	ProjectType recommend.ProjectType  `json:"project_type"`
	Size        recommend.SizeCategory `json:"size"`
	Current     recommend.Scores       `json:"current"`
	Insights    recommend.Insights     `json:"insights"`
	Ranked      []recommend.Ranked     `json:"ranked"`
}

// Recommend scores the current team and ranks candidates by the predicted
// total with each one added.
func (s *Service) Recommend(req RecommendRequest) (RecommendResult, error) {
	project := recommend.ProjectBalanced
	if strings.TrimSpace(req.ProjectType) != "" {
		p, err := recommend.ParseProjectType(req.ProjectType)
		if err != nil {
			return RecommendResult{}, invalid(err)
		}
		project = p
	}
	size := recommend.SizeMedium
	if strings.TrimSpace(req.Size) != "" {
		sz, err := recommend.ParseSizeCategory(req.Size)
		if err != nil {
			return RecommendResult{}, invalid(err)
		}
		size = sz
	}
	teamMembers, err := normalizeMembers(req.Team)
	if err != nil {
		return RecommendResult{}, invalid(fmt.Errorf("team: %w", err))
	}
	candidates, err := normalizeMembers(req.Candidates)
	if err != nil {
		return RecommendResult{}, invalid(fmt.Errorf("candidates: %w", err))
	}
	current := s.engine.Score(teamMembers, project, size)
	return RecommendResult{
		ProjectType: project,
		Size:        size,
		Current:     current,
		Insights:    s.engine.Insights(teamMembers, current),
		Ranked:      s.engine.RankCandidates(teamMembers, candidates, project, size, req.TopN),
	}, nil
}

func normalizeMembers(in []recommend.Member) ([]recommend.Member, error) {
	out := make([]recommend.Member, len(in))
	for i, m := range in {
		code, err := personality.ParseTypeCode(string(m.Type))
		if err != nil {
			return nil, fmt.Errorf("member %d: %w", i, err)
		}
		m.Type = code
		if c := strings.TrimSpace(m.Country); c != "" {
			country, err := culture.Lookup(c)
			if err != nil {
				return nil, fmt.Errorf("member %d: %w", i, err)
			}
			m.Country = country.Code
		}
		out[i] = m
	}
	return out, nil
}
