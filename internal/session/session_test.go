package session

import (
	"errors"
	"testing"
	"time"

	"hugo/internal/culture"
	"hugo/internal/lexicon"
	"hugo/internal/personality"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*lexicon.Bank, time.Time) {
	t.Helper()
	fixed := time.Date(2025, 5, 4, 10, 30, 0, 0, time.UTC)
	prev := timeNow
	timeNow = func() time.Time { return fixed }
	t.Cleanup(func() { timeNow = prev })
	bank, err := lexicon.Default()
	require.NoError(t, err)
	return bank, fixed
}

func mustAdvance(t *testing.T, bank *lexicon.Bank, s Session, input string) (Session, Reply) {
	t.Helper()
	next, reply, err := Advance(bank, s, input)
	require.NoError(t, err)
	return next, reply
}

func TestFullChatFlow(t *testing.T) {
	bank, fixed := setup(t)
	s := New("s1", personality.English)
	assert.Equal(t, StateWelcome, s.State)
	assert.Equal(t, bank.Session.Welcome.In(personality.English), Current(bank, s).Prompt)

	s, r := mustAdvance(t, bank, s, "hi")
	assert.Equal(t, StateName, r.State)
	assert.Equal(t, "What is your name?", r.Prompt)

	s, _ = mustAdvance(t, bank, s, "  Ada ")
	s, _ = mustAdvance(t, bank, s, "Ada@Example.org")
	s, r = mustAdvance(t, bank, s, "dk")
	assert.Equal(t, "Ada", s.Name)
	assert.Equal(t, "ada@example.org", s.Email)
	assert.Equal(t, "DK", s.Country)
	assert.Equal(t, StateDimension, r.State)
	assert.Equal(t, "d01", r.QuestionID)
	assert.Equal(t, Progress{Answered: 0, Total: 15, State: StateDimension}, s.Progress(bank))

	for i := 0; i < 12; i++ {
		s, r = mustAdvance(t, bank, s, "Meine Vision ist langfristig.")
	}
	assert.Equal(t, StateType, r.State)
	assert.Equal(t, personality.Vision, s.Dimension)
	assert.Equal(t, 12, s.Progress(bank).Answered)
	assert.Equal(t, bank.TypeQuestionsFor(personality.Vision)[0].ID, r.QuestionID)

	for i := 0; i < 3; i++ {
		s, r = mustAdvance(t, bank, s, "Ich plane systematisch, Schritt für Schritt.")
	}
	assert.True(t, r.Done)
	assert.Equal(t, StateComplete, s.State)
	require.NotNil(t, s.Profile)
	assert.Equal(t, personality.TypeCode("V2"), s.Profile.FinalType)
	assert.False(t, s.Profile.Confidence.LowConfidence)
	assert.Equal(t, 15, s.Progress(bank).Answered)
	assert.Equal(t, fixed, s.UpdatedAt)

	after, r2, err := Advance(bank, s, "more?")
	assert.True(t, errors.Is(err, ErrSessionComplete))
	assert.Equal(t, s, after)
	assert.True(t, r2.Done)
}

func TestCorrectableInputKeepsState(t *testing.T) {
	bank, _ := setup(t)
	s := New("s2", personality.German)
	s, _ = mustAdvance(t, bank, s, "")

	cases := []struct {
		state State
		input string
		want  error
	}{
		{StateName, "   ", ErrEmptyInput},
	}
	for _, tc := range cases {
		next, r, err := Advance(bank, s, tc.input)
		assert.True(t, errors.Is(err, tc.want))
		assert.Equal(t, s, next)
		assert.Equal(t, tc.state, r.State)
		assert.Contains(t, r.Prompt, "Bitte gib eine Antwort ein.")
	}

	s, _ = mustAdvance(t, bank, s, "Bo")
	for _, bad := range []string{"bo", "bo@", "@x.de", "bo@host", "b o@x.de", "a@b.", "a@.b"} {
		next, r, err := Advance(bank, s, bad)
		assert.True(t, errors.Is(err, ErrInvalidEmail), bad)
		assert.Equal(t, StateEmail, next.State)
		assert.Contains(t, r.Prompt, bank.Session.AskEmail.In(personality.German))
	}

	s, _ = mustAdvance(t, bank, s, "bo@x.de")
	next, r, err := Advance(bank, s, "Atlantis")
	assert.True(t, errors.Is(err, culture.ErrUnknownCountry))
	assert.Equal(t, s, next)
	assert.Contains(t, r.Prompt, "Ländercode")

	s, _ = mustAdvance(t, bank, s, "de")
	next, _, err = Advance(bank, s, "")
	assert.True(t, errors.Is(err, ErrEmptyInput))
	assert.Equal(t, 0, next.Index)
}

func TestAdvanceDoesNotMutateInput(t *testing.T) {
	bank, _ := setup(t)
	s := New("s3", personality.English)
	for _, in := range []string{"", "Cy", "cy@x.io", "US"} {
		s, _ = mustAdvance(t, bank, s, in)
	}
	before := s.DimensionScores.Clone()
	next, _ := mustAdvance(t, bank, s, "team gemeinsam netzwerk")
	assert.Equal(t, before, s.DimensionScores)
	assert.Equal(t, 1, next.Index)
	assert.Equal(t, 0, s.Index)
	assert.GreaterOrEqual(t, next.DimensionScores.Total(), s.DimensionScores.Total())
}

func TestNoSignalCompletesWithLowConfidence(t *testing.T) {
	bank, _ := setup(t)
	s := New("s4", personality.Danish)
	for _, in := range []string{"", "Di", "di@x.dk", "DK"} {
		s, _ = mustAdvance(t, bank, s, in)
	}
	for i := 0; i < 15; i++ {
		s, _ = mustAdvance(t, bank, s, "-")
	}
	require.Equal(t, StateComplete, s.State)
	require.NotNil(t, s.Profile)
	assert.True(t, s.Profile.Confidence.LowConfidence)
	assert.Equal(t, s.Dimension, s.Profile.FinalType.Dimension())
}

func TestAdvanceNilBank(t *testing.T) {
	_, _, err := Advance(nil, New("x", personality.English), "hi")
	assert.Error(t, err)
}
