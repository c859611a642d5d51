// Package session drives the chat assessment as an explicit state machine.
// A Session is a plain value: Advance takes one and returns the next, so a
// session can be stored, resumed or replayed without any UI.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"hugo/internal/classifier"
	"hugo/internal/culture"
	"hugo/internal/lexicon"
	"hugo/internal/personality"
	"hugo/internal/profile"
)

var (
	ErrSessionComplete = errors.New("session already complete")
	ErrEmptyInput      = errors.New("empty input")
	ErrInvalidEmail    = errors.New("invalid email address")
)

var timeNow = time.Now

// State is the current step. Transitions only move forward.
type State string

const (
	StateWelcome   State = "welcome"
	StateName      State = "name"
	StateEmail     State = "email"
	StateCountry   State = "country"
	StateDimension State = "dimension"
	StateType      State = "type"
	StateComplete  State = "complete"
)

// Session is the full context of one chat assessment. Index is the position
// inside the dimension or type phase.
type Session struct {
	ID              string                      `json:"id"`
	Language        personality.Language        `json:"language"`
	State           State                       `json:"state"`
	Index           int                         `json:"index"`
	Name            string                      `json:"name,omitempty"`
	Email           string                      `json:"email,omitempty"`
	Country         string                      `json:"country,omitempty"`
	DimensionScores personality.DimensionScores `json:"dimension_scores"`
	TypeScores      personality.TypeScores      `json:"type_scores,omitempty"`
	Dimension       personality.Dimension       `json:"dimension,omitempty"`
	DimensionHits   int                         `json:"dimension_hits"`
	TypeHits        int                         `json:"type_hits"`
	Profile         *profile.Profile            `json:"profile,omitempty"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

// Reply is what the respondent sees after a step.
type Reply struct {
	Prompt     string `json:"prompt"`
	State      State  `json:"state"`
	QuestionID string `json:"question_id,omitempty"`
	Done       bool   `json:"done"`
}

// New starts a session in the welcome state.
func New(id string, lang personality.Language) Session {
	now := timeNow().UTC()
	return Session{
		ID:              id,
		Language:        lang,
		State:           StateWelcome,
		DimensionScores: personality.NewDimensionScores(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Current renders the prompt for the state s is in.
func Current(bank *lexicon.Bank, s Session) Reply {
	r := Reply{State: s.State, Done: s.State == StateComplete}
	p := bank.Session
	switch s.State {
	case StateWelcome:
		r.Prompt = p.Welcome.In(s.Language)
	case StateName:
		r.Prompt = p.AskName.In(s.Language)
	case StateEmail:
		r.Prompt = p.AskEmail.In(s.Language)
	case StateCountry:
		r.Prompt = p.AskCountry.In(s.Language)
	case StateDimension:
		if s.Index < len(bank.DimensionQuestions) {
			q := bank.DimensionQuestions[s.Index]
			r.Prompt, r.QuestionID = q.Prompt(s.Language), q.ID
		}
	case StateType:
		if qs := bank.TypeQuestionsFor(s.Dimension); s.Index < len(qs) {
			r.Prompt, r.QuestionID = qs[s.Index].Prompt(s.Language), qs[s.Index].ID
		}
	case StateComplete:
		r.Prompt = p.Complete.In(s.Language)
	}
	return r
}

// Advance feeds one input into s. On a user-correctable error the returned
// session is s unchanged and the reply re-prompts; on ErrSessionComplete
// nothing changes either.
func Advance(bank *lexicon.Bank, s Session, input string) (Session, Reply, error) {
	if bank == nil {
		return s, Reply{State: s.State}, fmt.Errorf("nil question bank")
	}
	if s.State == StateComplete {
		return s, Current(bank, s), ErrSessionComplete
	}
	text := strings.TrimSpace(input)
	next := s
	next.UpdatedAt = timeNow().UTC()

	switch s.State {
	case StateWelcome:
		next.State = StateName

	case StateName:
		if text == "" {
			return s, reprompt(bank, s, msgEmpty), ErrEmptyInput
		}
		next.Name = text
		next.State = StateEmail

	case StateEmail:
		if !validEmail(text) {
			return s, reprompt(bank, s, msgEmail), fmt.Errorf("%w: %q", ErrInvalidEmail, text)
		}
		next.Email = strings.ToLower(text)
		next.State = StateCountry

	case StateCountry:
		c, err := culture.Lookup(text)
		if err != nil {
			return s, reprompt(bank, s, msgCountry), err
		}
		next.Country = c.Code
		next.State = StateDimension
		next.Index = 0

	case StateDimension:
		if text == "" {
			return s, reprompt(bank, s, msgEmpty), ErrEmptyInput
		}
		if s.Index >= len(bank.DimensionQuestions) {
			return s, Current(bank, s), fmt.Errorf("dimension question %d not in bank %s", s.Index, bank.Version)
		}
		q := bank.DimensionQuestions[s.Index]
		partial, hits := classifier.ScoreDimension(text, q)
		next.DimensionScores = s.DimensionScores.Add(partial)
		next.DimensionHits += hits
		next.Index++
		if next.Index >= len(bank.DimensionQuestions) {
			next.Dimension = classifier.SelectDimension(next.DimensionScores)
			next.TypeScores = personality.NewTypeScores(personality.TypesOf(next.Dimension))
			next.State = StateType
			next.Index = 0
		}

	case StateType:
		if text == "" {
			return s, reprompt(bank, s, msgEmpty), ErrEmptyInput
		}
		qs := bank.TypeQuestionsFor(s.Dimension)
		if s.Index >= len(qs) {
			return s, Current(bank, s), fmt.Errorf("type question %d not in bank %s", s.Index, bank.Version)
		}
		partial, hits := classifier.ScoreType(text, qs[s.Index], s.Dimension)
		next.TypeScores = s.TypeScores.Add(partial)
		next.TypeHits += hits
		next.Index++
		if next.Index >= len(qs) {
			p, err := profile.Build(profile.OpenTextScorer{
				Dimensions:    next.DimensionScores,
				Types:         next.TypeScores,
				DimensionHits: next.DimensionHits,
				TypeHits:      next.TypeHits,
			})
			if err != nil {
				return s, Current(bank, s), fmt.Errorf("build profile: %w", err)
			}
			next.Profile = &p
			next.State = StateComplete
			next.Index = 0
		}

	default:
		return s, Reply{State: s.State}, fmt.Errorf("unknown session state %q", s.State)
	}
	return next, Current(bank, next), nil
}

// Progress counts answered questions across both classification phases.
type Progress struct {
	Answered int   `json:"answered"`
	Total    int   `json:"total"`
	State    State `json:"state"`
}

func (s Session) Progress(bank *lexicon.Bank) Progress {
	dims := len(bank.DimensionQuestions)
	p := Progress{Total: dims + bank.TypeQuestionCount(), State: s.State}
	switch s.State {
	case StateDimension:
		p.Answered = s.Index
	case StateType:
		p.Answered = dims + s.Index
	case StateComplete:
		p.Answered = p.Total
	}
	return p
}

func validEmail(v string) bool {
	at := strings.Index(v, "@")
	if at <= 0 || strings.ContainsAny(v, " \t") {
		return false
	}
	domain := v[at+1:]
	dot := strings.LastIndex(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

const (
	msgEmpty   = "empty"
	msgEmail   = "email"
	msgCountry = "country"
)

var corrections = map[string]personality.Localized{
	msgEmpty: {
		personality.German:  "Bitte gib eine Antwort ein.",
		personality.English: "Please enter an answer.",
		personality.Danish:  "Skriv venligst et svar.",
	},
	msgEmail: {
		personality.German:  "Das sieht nicht nach einer gültigen E-Mail-Adresse aus.",
		personality.English: "That does not look like a valid email address.",
		personality.Danish:  "Det ligner ikke en gyldig e-mailadresse.",
	},
	msgCountry: {
		personality.German:  "Diesen Ländercode kenne ich nicht.",
		personality.English: "I do not know that country code.",
		personality.Danish:  "Den landekode kender jeg ikke.",
	},
}

func reprompt(bank *lexicon.Bank, s Session, kind string) Reply {
	r := Current(bank, s)
	r.Prompt = corrections[kind].In(s.Language) + " " + r.Prompt
	return r
}
