package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hugo/internal/culture"
	"hugo/internal/lexicon"
	"hugo/internal/logger"
	"hugo/internal/personality"
	"hugo/internal/profile"
	"hugo/internal/store"
	"hugo/internal/store/eventlog"
)

// OpenTextRequest carries one complete free-text assessment.
type OpenTextRequest struct {
	Respondent       store.Respondent
	DimensionAnswers []string
	TypeAnswers      []string
}

// LikertRequest carries answers to the fixed statement battery.
type LikertRequest struct {
	Respondent   store.Respondent
	Answers      map[string]int
	AllowPartial bool
}

// ProfileView is a stored profile together with its respondent.
type ProfileView struct {
	Profile    profile.Profile  `json:"profile"`
	Respondent store.Respondent `json:"respondent"`
}

func (s *Service) ClassifyText(ctx context.Context, req OpenTextRequest) (ProfileView, error) {
	who, err := normalizeRespondent(req.Respondent)
	if err != nil {
		return ProfileView{}, err
	}
	scorer, err := profile.ScoreOpenText(s.Bank(), req.DimensionAnswers, req.TypeAnswers)
	if err != nil {
		return ProfileView{}, invalid(err)
	}
	p, err := profile.Build(scorer)
	if err != nil {
		return ProfileView{}, invalid(err)
	}
	return s.complete(ctx, p, who)
}

func (s *Service) ScoreLikert(ctx context.Context, req LikertRequest) (ProfileView, error) {
	who, err := normalizeRespondent(req.Respondent)
	if err != nil {
		return ProfileView{}, err
	}
	p, err := profile.Build(profile.LikertScorer{
		Battery:      s.Bank().Likert,
		Answers:      req.Answers,
		AllowPartial: req.AllowPartial,
	})
	if err != nil {
		return ProfileView{}, invalid(err)
	}
	return s.complete(ctx, p, who)
}

// LikertProgress reports how far answers get through the active battery.
func (s *Service) LikertProgress(answers map[string]int) profile.LikertProgress {
	return profile.Progress(s.Bank().Likert, answers)
}

// complete assigns ids, stores the profile when persistence is on and
// records the completion.
func (s *Service) complete(ctx context.Context, p profile.Profile, who store.Respondent) (ProfileView, error) {
	p, who = s.identify(p, who)
	if s.store != nil {
		row, err := store.NewProfileModel(p, who)
		if err != nil {
			return ProfileView{}, err
		}
		if err := s.store.Profiles().Insert(ctx, &row); err != nil {
			return ProfileView{}, fmt.Errorf("save profile %s: %w", p.ID, err)
		}
	}
	s.completed(ctx, p, who)
	return ProfileView{Profile: p, Respondent: who}, nil
}

// identify gives p a fresh id and ties it to the respondent, who defaults
// to the profile id itself.
func (s *Service) identify(p profile.Profile, who store.Respondent) (profile.Profile, store.Respondent) {
	p.ID = s.newID()
	if who.ID == "" {
		who.ID = p.ID
	}
	p.RespondentID = who.ID
	return p, who
}

// completed records a stored profile. Call it only once the profile is
// committed.
func (s *Service) completed(ctx context.Context, p profile.Profile, who store.Respondent) {
	s.metrics.AssessmentCompleted(string(p.Modality), string(p.FinalType), p.Confidence.LowConfidence)
	s.record(ctx, eventlog.KindProfileCompleted, p.ID, map[string]any{
		"respondent_id":     who.ID,
		"modality":          p.Modality,
		"final_type":        p.FinalType,
		"primary_dimension": p.PrimaryDimension,
		"low_confidence":    p.Confidence.LowConfidence,
	})
	if p.Confidence.LowConfidence {
		logger.Infof("[assessment] low confidence profile id=%s reason=%s", p.ID, p.Confidence.Reason)
	}
}

func (s *Service) Profile(ctx context.Context, id string) (ProfileView, error) {
	if err := s.requireStore(); err != nil {
		return ProfileView{}, err
	}
	row, err := s.store.Profiles().FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return ProfileView{}, err
	}
	p, who, err := store.ProfileFromModel(*row)
	if err != nil {
		return ProfileView{}, err
	}
	return ProfileView{Profile: p, Respondent: who}, nil
}

// LatestProfile returns the newest profile of a respondent.
func (s *Service) LatestProfile(ctx context.Context, respondentID string) (ProfileView, error) {
	if err := s.requireStore(); err != nil {
		return ProfileView{}, err
	}
	row, err := s.store.Profiles().LatestByRespondent(ctx, strings.TrimSpace(respondentID))
	if err != nil {
		return ProfileView{}, err
	}
	p, who, err := store.ProfileFromModel(*row)
	if err != nil {
		return ProfileView{}, err
	}
	return ProfileView{Profile: p, Respondent: who}, nil
}

func normalizeRespondent(who store.Respondent) (store.Respondent, error) {
	who.ID = strings.TrimSpace(who.ID)
	who.Name = strings.TrimSpace(who.Name)
	who.Email = strings.ToLower(strings.TrimSpace(who.Email))
	if code := strings.TrimSpace(who.Country); code != "" {
		c, err := culture.Lookup(code)
		if err != nil {
			return store.Respondent{}, invalid(err)
		}
		who.Country = c.Code
	}
	return who, nil
}

// IsInvalidInput reports whether err is something the caller can correct.
func IsInvalidInput(err error) bool {
	for _, target := range []error{
		ErrInvalidInput,
		personality.ErrInvalidTypeCode,
		personality.ErrInvalidDimension,
		culture.ErrUnknownCountry,
		lexicon.ErrUnknownQuestion,
		profile.ErrIncompleteAnswers,
		profile.ErrLikertOutOfRange,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
