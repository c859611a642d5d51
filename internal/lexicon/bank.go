// Package lexicon owns the question bank: the free-text questions with their
// keyword tables, the Likert statement battery and the session prompts. A
// Bank is immutable after loading and safe to share across sessions.
package lexicon

import (
	"errors"
	"fmt"

	"hugo/internal/personality"
)

var ErrUnknownQuestion = errors.New("unknown question")

// Phase tells which classifier stage a question feeds.
type Phase string

const (
	PhaseDimension Phase = "dimension"
	PhaseType      Phase = "type"
)

// Question is a free-text prompt. Keywords are keyed by dimension name for
// dimension questions and by type code for type questions; every keyword is
// lower-case.
type Question struct {
	ID        string                  `json:"id"`
	Phase     Phase                   `json:"phase"`
	Dimension personality.Dimension   `json:"dimension,omitempty"`
	Text      personality.Localized   `json:"text"`
	Focus     []personality.Dimension `json:"focus,omitempty"`
	Keywords  map[string][]string     `json:"-"`
}

// DimensionKeywords returns the trigger words for d.
func (q Question) DimensionKeywords(d personality.Dimension) []string {
	return q.Keywords[string(d)]
}

// TypeKeywords returns the trigger words for t.
func (q Question) TypeKeywords(t personality.TypeCode) []string {
	return q.Keywords[string(t)]
}

// HasFocus reports whether d receives the focus bonus on this question.
func (q Question) HasFocus(d personality.Dimension) bool {
	for _, f := range q.Focus {
		if f == d {
			return true
		}
	}
	return false
}

// Prompt returns the question text in lang.
func (q Question) Prompt(lang personality.Language) string {
	return q.Text.In(lang)
}

// LikertStatement is one fixed statement rated on the answer scale.
type LikertStatement struct {
	ID   string                `json:"id"`
	Type personality.TypeCode  `json:"type"`
	Text personality.Localized `json:"text"`
}

// ScalePoint is one labelled value of the Likert scale.
type ScalePoint struct {
	Value int                   `json:"value"`
	Label personality.Localized `json:"label"`
}

// Likert is the fixed-answer battery.
type Likert struct {
	Scale      []ScalePoint      `json:"scale"`
	Statements []LikertStatement `json:"statements"`
}

// MinValue and MaxValue bound the scale.
func (l Likert) MinValue() int {
	if len(l.Scale) == 0 {
		return 1
	}
	return l.Scale[0].Value
}

func (l Likert) MaxValue() int {
	if len(l.Scale) == 0 {
		return 5
	}
	return l.Scale[len(l.Scale)-1].Value
}

// SessionPrompts are the fixed lines of the chat flow around the questions.
type SessionPrompts struct {
	Welcome    personality.Localized `json:"welcome"`
	AskName    personality.Localized `json:"ask_name"`
	AskEmail   personality.Localized `json:"ask_email"`
	AskCountry personality.Localized `json:"ask_country"`
	Complete   personality.Localized `json:"complete"`
}

// Bank is the complete read-only question bank.
type Bank struct {
	Version            string
	DimensionQuestions []Question
	TypeQuestions      map[personality.Dimension][]Question
	Likert             Likert
	Session            SessionPrompts

	byID        map[string]Question
	statementBy map[string]LikertStatement
}

// Question finds any free-text question by id.
func (b *Bank) Question(id string) (Question, error) {
	if b == nil {
		return Question{}, fmt.Errorf("%w: %s", ErrUnknownQuestion, id)
	}
	q, ok := b.byID[id]
	if !ok {
		return Question{}, fmt.Errorf("%w: %s", ErrUnknownQuestion, id)
	}
	return q, nil
}

// TypeQuestionsFor returns the sub-type questions of d in order.
func (b *Bank) TypeQuestionsFor(d personality.Dimension) []Question {
	if b == nil {
		return nil
	}
	return b.TypeQuestions[d]
}

// Statement finds a Likert statement by id.
func (b *Bank) Statement(id string) (LikertStatement, error) {
	if b == nil {
		return LikertStatement{}, fmt.Errorf("%w: %s", ErrUnknownQuestion, id)
	}
	s, ok := b.statementBy[id]
	if !ok {
		return LikertStatement{}, fmt.Errorf("%w: %s", ErrUnknownQuestion, id)
	}
	return s, nil
}

// TypeQuestionCount is the length of the type phase; every dimension carries
// the same number of questions.
func (b *Bank) TypeQuestionCount() int {
	if b == nil {
		return 0
	}
	return len(b.TypeQuestions[personality.Vision])
}

func (b *Bank) index() {
	b.byID = make(map[string]Question)
	for _, q := range b.DimensionQuestions {
		b.byID[q.ID] = q
	}
	for _, qs := range b.TypeQuestions {
		for _, q := range qs {
			b.byID[q.ID] = q
		}
	}
	b.statementBy = make(map[string]LikertStatement, len(b.Likert.Statements))
	for _, s := range b.Likert.Statements {
		b.statementBy[s.ID] = s
	}
}
