package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"hugo/internal/lexicon"
	"hugo/internal/metrics"
	"hugo/internal/personality"
	"hugo/internal/profile"
	"hugo/internal/recommend"
	"hugo/internal/session"
	"hugo/internal/store"
	"hugo/internal/store/eventlog"
	"hugo/internal/store/gormstore"
	"hugo/internal/store/model"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEventLog struct {
	mock.Mock
}

func (m *MockEventLog) Append(ctx context.Context, kind eventlog.Kind, subjectID string, payload any) (eventlog.Event, error) {
	args := m.Called(ctx, kind, subjectID, payload)
	return args.Get(0).(eventlog.Event), args.Error(1)
}

func (m *MockEventLog) List(ctx context.Context, kind eventlog.Kind, limit int) ([]eventlog.Event, error) {
	args := m.Called(ctx, kind, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]eventlog.Event), args.Error(1)
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newService(t *testing.T, withStore bool, opts ...Option) *Service {
	t.Helper()
	bank, err := lexicon.Default()
	require.NoError(t, err)
	all := []Option{WithIDGenerator(sequentialIDs())}
	if withStore {
		st, err := gormstore.NewGormStore(filepath.Join(t.TempDir(), "hugo.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = st.Close() })
		all = append(all, WithStore(st))
	}
	all = append(all, opts...)
	svc, err := New(lexicon.NewStaticLoader(bank), nil, nil, nil, all...)
	require.NoError(t, err)
	return svc
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func visionRequest(respondent string) OpenTextRequest {
	return OpenTextRequest{
		Respondent:       store.Respondent{ID: respondent, Name: " Ada ", Email: "Ada@Example.org", Country: "dk"},
		DimensionAnswers: repeat("Meine Vision ist langfristig.", 12),
		TypeAnswers:      repeat("Ich plane systematisch, Schritt für Schritt.", 3),
	}
}

func TestClassifyTextStoresProfile(t *testing.T) {
	ctx := context.Background()
	events := new(MockEventLog)
	events.On("Append", mock.Anything, eventlog.KindProfileCompleted, "id-1", mock.Anything).
		Return(eventlog.Event{ID: "e-1"}, nil).Once()
	m := metrics.New()
	svc := newService(t, true, WithEventLog(events), WithMetrics(m))

	view, err := svc.ClassifyText(ctx, visionRequest("r-1"))
	require.NoError(t, err)
	assert.Equal(t, "id-1", view.Profile.ID)
	assert.Equal(t, personality.TypeCode("V2"), view.Profile.FinalType)
	assert.Equal(t, store.Respondent{ID: "r-1", Name: "Ada", Email: "ada@example.org", Country: "DK"}, view.Respondent)
	events.AssertExpectations(t)

	stored, err := svc.Profile(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, view.Profile.FinalType, stored.Profile.FinalType)
	assert.Equal(t, view.Respondent, stored.Respondent)

	latest, err := svc.LatestProfile(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, "id-1", latest.Profile.ID)

	_, err = svc.Profile(ctx, "nope")
	assert.True(t, errors.Is(err, store.ErrNotFound))

	series, err := testutil.GatherAndCount(m.Registry(), "hugo_assessment_completed_total")
	require.NoError(t, err)
	assert.Equal(t, 1, series)
}

func TestScoreLikertValidation(t *testing.T) {
	svc := newService(t, false)
	_, err := svc.ScoreLikert(context.Background(), LikertRequest{Answers: map[string]int{"q1": 9}, AllowPartial: true})
	require.Error(t, err)
	assert.True(t, IsInvalidInput(err))
	assert.True(t, errors.Is(err, profile.ErrLikertOutOfRange))

	_, err = svc.ScoreLikert(context.Background(), LikertRequest{Respondent: store.Respondent{Country: "XX"}})
	assert.True(t, IsInvalidInput(err))

	answers := map[string]int{}
	for i := 1; i <= 36; i++ {
		answers[fmt.Sprintf("q%d", i)] = 1
	}
	answers["q4"], answers["q5"], answers["q6"] = 5, 5, 5
	view, err := svc.ScoreLikert(context.Background(), LikertRequest{Answers: answers})
	require.NoError(t, err)
	assert.Equal(t, personality.TypeCode("V2"), view.Profile.FinalType)
	assert.Equal(t, view.Profile.ID, view.Profile.RespondentID, "anonymous respondents get the profile id")
	assert.True(t, svc.LikertProgress(answers).Complete)
}

func TestStoreDisabled(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, false)
	assert.False(t, svc.StoreEnabled())

	_, err := svc.ClassifyText(ctx, visionRequest(""))
	assert.NoError(t, err)

	_, err = svc.Profile(ctx, "id-1")
	assert.True(t, errors.Is(err, ErrStoreDisabled))
	_, err = svc.StartSession(ctx, "en")
	assert.True(t, errors.Is(err, ErrStoreDisabled))
	_, err = svc.CreateTeam(ctx, CreateTeamRequest{Name: "x"})
	assert.True(t, errors.Is(err, ErrStoreDisabled))

	events, err := svc.Events(ctx, "", 10)
	assert.NoError(t, err)
	assert.Nil(t, events)
}

func TestSessionFlow(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, true)

	step, err := svc.StartSession(ctx, "en")
	require.NoError(t, err)
	id := step.Session.ID
	assert.Equal(t, session.StateWelcome, step.Reply.State)
	assert.Equal(t, personality.English, step.Session.Language)

	for _, input := range []string{"hello", "Ada"} {
		step, err = svc.AdvanceSession(ctx, id, input)
		require.NoError(t, err)
	}
	assert.Equal(t, session.StateEmail, step.Session.State)

	step, err = svc.AdvanceSession(ctx, id, "not-an-email")
	require.Error(t, err)
	assert.True(t, IsInvalidInput(err))
	assert.True(t, errors.Is(err, session.ErrInvalidEmail))
	assert.Equal(t, session.StateEmail, step.Reply.State)

	reloaded, err := svc.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, session.StateEmail, reloaded.Session.State)

	_, err = svc.AdvanceSession(ctx, id, "ada@example.org")
	require.NoError(t, err)
	_, err = svc.AdvanceSession(ctx, id, "se")
	require.NoError(t, err)
	for i := 0; i < 12; i++ {
		_, err = svc.AdvanceSession(ctx, id, "Meine Vision ist langfristig.")
		require.NoError(t, err)
	}
	for i := 0; i < 3; i++ {
		step, err = svc.AdvanceSession(ctx, id, "Ich plane systematisch, Schritt für Schritt.")
		require.NoError(t, err)
	}
	assert.True(t, step.Reply.Done)
	require.NotNil(t, step.Session.Profile)
	assert.Equal(t, personality.TypeCode("V2"), step.Session.Profile.FinalType)
	assert.Equal(t, step.Progress.Total, step.Progress.Answered)

	latest, err := svc.LatestProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, step.Session.Profile.ID, latest.Profile.ID)
	assert.Equal(t, "SE", latest.Respondent.Country)

	_, err = svc.AdvanceSession(ctx, id, "more")
	assert.True(t, errors.Is(err, session.ErrSessionComplete))

	_, err = svc.GetSession(ctx, "missing")
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

var errSessionSave = errors.New("session save failed")

// brokenSessionSaves fails session saves made inside a transaction while
// fail is set.
type brokenSessionSaves struct {
	store.Store
	fail *bool
}

func (b brokenSessionSaves) Begin(ctx context.Context) (store.UnitOfWork, error) {
	uow, err := b.Store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return brokenSessionUnit{UnitOfWork: uow, fail: b.fail}, nil
}

type brokenSessionUnit struct {
	store.UnitOfWork
	fail *bool
}

func (u brokenSessionUnit) Sessions() store.SessionRepository {
	return brokenSessionRepo{SessionRepository: u.UnitOfWork.Sessions(), fail: u.fail}
}

type brokenSessionRepo struct {
	store.SessionRepository
	fail *bool
}

func (r brokenSessionRepo) Save(ctx context.Context, row *model.SessionModel) error {
	if *r.fail {
		return errSessionSave
	}
	return r.SessionRepository.Save(ctx, row)
}

func TestSessionCompletionIsAtomic(t *testing.T) {
	ctx := context.Background()
	st, err := gormstore.NewGormStore(filepath.Join(t.TempDir(), "hugo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	fail := true
	svc := newService(t, false, WithStore(brokenSessionSaves{Store: st, fail: &fail}))

	step, err := svc.StartSession(ctx, "de")
	require.NoError(t, err)
	id := step.Session.ID
	for _, input := range []string{"hallo", "Ada", "ada@example.org", "de"} {
		_, err = svc.AdvanceSession(ctx, id, input)
		require.NoError(t, err)
	}
	for i := 0; i < 12; i++ {
		_, err = svc.AdvanceSession(ctx, id, "Meine Vision ist langfristig.")
		require.NoError(t, err)
	}
	for i := 0; i < 2; i++ {
		_, err = svc.AdvanceSession(ctx, id, "Ich plane systematisch, Schritt für Schritt.")
		require.NoError(t, err)
	}

	_, err = svc.AdvanceSession(ctx, id, "Ich plane systematisch, Schritt für Schritt.")
	require.ErrorIs(t, err, errSessionSave)
	_, err = svc.LatestProfile(ctx, id)
	assert.True(t, errors.Is(err, store.ErrNotFound), "no profile without its session")
	stored, err := svc.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, session.StateType, stored.Session.State)
	assert.Nil(t, stored.Session.Profile)

	fail = false
	step, err = svc.AdvanceSession(ctx, id, "Ich plane systematisch, Schritt für Schritt.")
	require.NoError(t, err)
	require.NotNil(t, step.Session.Profile)
	latest, err := svc.LatestProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, step.Session.Profile.ID, latest.Profile.ID)
}

func TestAnalyzeTeamCache(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	prev := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = prev })

	events := new(MockEventLog)
	events.On("Append", mock.Anything, eventlog.KindTeamAnalyzed, "C2,E2,I1,V1", mock.Anything).
		Return(eventlog.Event{}, nil).Twice()
	svc := newService(t, false, WithEventLog(events), WithReportCache(4, time.Minute))

	first, err := svc.AnalyzeTeam(context.Background(), []string{"v1", "I1", "E2", "C2"})
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, "C2,E2,I1,V1", first.Fingerprint)

	second, err := svc.AnalyzeTeam(context.Background(), []string{"V1", "i1", "E2", "C2"})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Report, second.Report)

	now = now.Add(2 * time.Minute)
	third, err := svc.AnalyzeTeam(context.Background(), []string{"V1", "I1", "E2", "C2"})
	require.NoError(t, err)
	assert.False(t, third.Cached, "expired entries are recomputed")
	events.AssertExpectations(t)

	_, err = svc.AnalyzeTeam(context.Background(), []string{"V1", "X9"})
	assert.True(t, errors.Is(err, personality.ErrInvalidTypeCode))
	assert.True(t, IsInvalidInput(err))
}

func TestAnalyzeTeamCacheKeepsMemberOrder(t *testing.T) {
	svc := newService(t, false, WithReportCache(8, time.Minute))
	for _, roster := range [][]string{
		{"I1", "E2", "C1"},
		{"C1", "E2", "I1"},
		{"C1", "E2", "I1"},
	} {
		got, err := svc.AnalyzeTeam(context.Background(), roster)
		require.NoError(t, err)
		assert.Equal(t, "C1,E2,I1", got.Fingerprint)
		require.NotEmpty(t, got.Report.PotentialConflicts, roster)
		for _, c := range got.Report.PotentialConflicts {
			assert.Equal(t, roster[c.Members[0]], string(c.A), roster)
			assert.Equal(t, roster[c.Members[1]], string(c.B), roster)
		}
	}

	again, err := svc.AnalyzeTeam(context.Background(), []string{"I1", "E2", "C1"})
	require.NoError(t, err)
	assert.True(t, again.Cached)
	assert.Contains(t, again.Report.Recommendations, "Schedule facilitated check-ins for low-compatibility pairs (I1-E2)")
}

func TestPreviewTeam(t *testing.T) {
	svc := newService(t, false)
	p, err := svc.PreviewTeam([]string{"V1", "I1", "E1"}, "")
	require.NoError(t, err)
	assert.False(t, p.Approximate)
	assert.InDelta(t, 0.75*0.5*0.9+0.1, p.Score, 1e-9)

	p, err = svc.PreviewTeam([]string{"V1"}, "approximate")
	require.NoError(t, err)
	assert.True(t, p.Approximate)

	_, err = svc.PreviewTeam([]string{"V1"}, "random")
	assert.True(t, IsInvalidInput(err))
}

func TestCreateTeamResolvesProfiles(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, true, WithReportCache(8, time.Minute))

	view, err := svc.ClassifyText(ctx, visionRequest("r-1"))
	require.NoError(t, err)

	created, err := svc.CreateTeam(ctx, CreateTeamRequest{
		Name:        " Platform ",
		ProjectType: "innovation",
		Members: []MemberInput{
			{ProfileID: view.Profile.ID},
			{Type: "e2", DisplayName: "Ben", Country: "us"},
			{Type: "C1", DisplayName: "Cleo"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Platform", created.Name)
	assert.Equal(t, recommend.ProjectInnovation, created.ProjectType)
	require.Len(t, created.Members, 3)
	assert.Equal(t, personality.TypeCode("V2"), created.Members[0].Type)
	assert.Equal(t, "Ada", created.Members[0].Name)
	assert.Equal(t, "DK", created.Members[0].Country)
	assert.Equal(t, "US", created.Members[1].Country)

	got, err := svc.GetTeam(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Types(), got.Types())

	_, report, err := svc.StoredTeamReport(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Report.TotalMembers)
	_, again, err := svc.StoredTeamReport(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, again.Cached)
}

func TestCreateTeamRejects(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, true)

	_, err := svc.CreateTeam(ctx, CreateTeamRequest{Name: " "})
	assert.True(t, IsInvalidInput(err))

	_, err = svc.CreateTeam(ctx, CreateTeamRequest{Name: "x", ProjectType: "moonshot"})
	assert.True(t, IsInvalidInput(err))

	_, err = svc.CreateTeam(ctx, CreateTeamRequest{Name: "x", Members: []MemberInput{{Type: "V1"}, {Type: "Z1"}}})
	assert.True(t, errors.Is(err, personality.ErrInvalidTypeCode))

	_, err = svc.CreateTeam(ctx, CreateTeamRequest{Name: "x", Members: []MemberInput{{ProfileID: "ghost"}}})
	assert.True(t, errors.Is(err, store.ErrNotFound))

	_, err = svc.GetTeam(ctx, "id-1")
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestCompatibility(t *testing.T) {
	svc := newService(t, false)
	c, err := svc.Compatibility("c1", "C2")
	require.NoError(t, err)
	assert.Equal(t, personality.TypeCode("C1"), c.A)
	assert.Equal(t, 0.95, c.Score)

	_, err = svc.Compatibility("C1", "")
	assert.True(t, IsInvalidInput(err))
}

func TestRecommend(t *testing.T) {
	svc := newService(t, false)
	res, err := svc.Recommend(RecommendRequest{
		Team:       []recommend.Member{{Type: "v1"}, {Type: "V2"}, {Type: "I1"}},
		Candidates: []recommend.Member{{ID: "a", Type: "V3"}, {ID: "b", Type: "E1"}, {ID: "c", Type: "C2"}},
		TopN:       2,
	})
	require.NoError(t, err)
	assert.Equal(t, recommend.ProjectBalanced, res.ProjectType)
	assert.Equal(t, recommend.SizeMedium, res.Size)
	require.Len(t, res.Ranked, 2)
	assert.NotEqual(t, "a", res.Ranked[0].Candidate.ID)
	assert.True(t, res.Ranked[0].FillsGap)

	_, err = svc.Recommend(RecommendRequest{Team: []recommend.Member{{Type: "V1", Country: "ZZ"}}})
	assert.True(t, IsInvalidInput(err))
	_, err = svc.Recommend(RecommendRequest{Size: "huge"})
	assert.True(t, IsInvalidInput(err))
}

func TestNewRequiresBank(t *testing.T) {
	_, err := New(lexicon.NewStaticLoader(nil), nil, nil, nil)
	assert.Error(t, err)
}
