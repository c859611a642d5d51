package store

import (
	"encoding/json"
	"fmt"
	"time"

	"hugo/internal/personality"
	"hugo/internal/profile"
	"hugo/internal/session"
	"hugo/internal/store/model"
)

// Respondent is who a stored profile belongs to.
type Respondent struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Country string `json:"country,omitempty"`
}

type profileScores struct {
	Dimensions personality.DimensionScores `json:"dimensions"`
	Types      personality.TypeScores      `json:"types"`
	TopTypes   []profile.RankedType        `json:"top_types"`
}

// NewProfileModel flattens a profile into its table row. The profile must
// already carry an id.
func NewProfileModel(p profile.Profile, who Respondent) (model.ProfileModel, error) {
	if p.ID == "" {
		return model.ProfileModel{}, fmt.Errorf("profile id is required")
	}
	scores, err := json.Marshal(profileScores{Dimensions: p.DimensionScores, Types: p.TypeScores, TopTypes: p.TopTypes})
	if err != nil {
		return model.ProfileModel{}, fmt.Errorf("encode scores: %w", err)
	}
	var pct []byte
	if len(p.Percentages) > 0 {
		if pct, err = json.Marshal(p.Percentages); err != nil {
			return model.ProfileModel{}, fmt.Errorf("encode percentages: %w", err)
		}
	}
	conf, err := json.Marshal(p.Confidence)
	if err != nil {
		return model.ProfileModel{}, fmt.Errorf("encode confidence: %w", err)
	}
	respondent := who.ID
	if respondent == "" {
		respondent = p.RespondentID
	}
	return model.ProfileModel{
		ID:               p.ID,
		RespondentID:     respondent,
		Name:             who.Name,
		Email:            who.Email,
		Country:          who.Country,
		Modality:         string(p.Modality),
		PrimaryDimension: string(p.PrimaryDimension),
		FinalType:        string(p.FinalType),
		ScoresJSON:       scores,
		PercentagesJSON:  pct,
		ConfidenceJSON:   conf,
		CompletedAtUnix:  p.CompletedAt.UnixMilli(),
		CreatedAtUnix:    time.Now().UnixMilli(),
	}, nil
}

// ProfileFromModel rebuilds the profile and its respondent from a row.
func ProfileFromModel(m model.ProfileModel) (profile.Profile, Respondent, error) {
	var scores profileScores
	if len(m.ScoresJSON) > 0 {
		if err := json.Unmarshal(m.ScoresJSON, &scores); err != nil {
			return profile.Profile{}, Respondent{}, fmt.Errorf("decode scores of %s: %w", m.ID, err)
		}
	}
	var pct map[personality.TypeCode]int
	if len(m.PercentagesJSON) > 0 {
		if err := json.Unmarshal(m.PercentagesJSON, &pct); err != nil {
			return profile.Profile{}, Respondent{}, fmt.Errorf("decode percentages of %s: %w", m.ID, err)
		}
	}
	var conf profile.Confidence
	if len(m.ConfidenceJSON) > 0 {
		if err := json.Unmarshal(m.ConfidenceJSON, &conf); err != nil {
			return profile.Profile{}, Respondent{}, fmt.Errorf("decode confidence of %s: %w", m.ID, err)
		}
	}
	p := profile.Profile{
		ID:               m.ID,
		RespondentID:     m.RespondentID,
		Modality:         profile.Modality(m.Modality),
		PrimaryDimension: personality.Dimension(m.PrimaryDimension),
		FinalType:        personality.TypeCode(m.FinalType),
		DimensionScores:  scores.Dimensions,
		TypeScores:       scores.Types,
		Percentages:      pct,
		TopTypes:         scores.TopTypes,
		Confidence:       conf,
		CompletedAt:      time.UnixMilli(m.CompletedAtUnix).UTC(),
	}
	who := Respondent{ID: m.RespondentID, Name: m.Name, Email: m.Email, Country: m.Country}
	return p, who, nil
}

// NewSessionModel stores the complete session value as its context column.
func NewSessionModel(s session.Session) (model.SessionModel, error) {
	if s.ID == "" {
		return model.SessionModel{}, fmt.Errorf("session id is required")
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return model.SessionModel{}, fmt.Errorf("encode session %s: %w", s.ID, err)
	}
	m := model.SessionModel{
		ID:            s.ID,
		State:         string(s.State),
		Language:      string(s.Language),
		ContextJSON:   raw,
		CreatedAtUnix: s.CreatedAt.UnixMilli(),
		UpdatedAtUnix: s.UpdatedAt.UnixMilli(),
	}
	if s.Profile != nil {
		m.ProfileID = s.Profile.ID
	}
	return m, nil
}

// SessionFromModel decodes the context column back into a session.
func SessionFromModel(m model.SessionModel) (session.Session, error) {
	var s session.Session
	if err := json.Unmarshal(m.ContextJSON, &s); err != nil {
		return session.Session{}, fmt.Errorf("decode session %s: %w", m.ID, err)
	}
	return s, nil
}
