package api

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"hugo/internal/personality"
	"hugo/internal/store"

	"github.com/tidwall/gjson"
)

type respondentPayload struct {
	RespondentID string `json:"respondent_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Country      string `json:"country"`
}

func (p respondentPayload) respondent() store.Respondent {
	return store.Respondent{ID: p.RespondentID, Name: p.Name, Email: p.Email, Country: p.Country}
}

type classifyRequest struct {
	respondentPayload
	DimensionAnswers []string `json:"dimension_answers"`
	TypeAnswers      []string `json:"type_answers"`
}

type teamTypesRequest struct {
	Types []string `json:"types"`
	Mode  string   `json:"mode"`
}

type sessionCreateRequest struct {
	Language string `json:"language"`
}

type sessionInputRequest struct {
	Text string `json:"text"`
}

type questionView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type scaleView struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

type typeView struct {
	Code      personality.TypeCode  `json:"code"`
	Dimension personality.Dimension `json:"dimension"`
	Name      string                `json:"name"`
}

var errAnswersMissing = errors.New(`"answers" must be an object or an array`)

// likertPayload reads the loosely shaped Likert body. Answers may be an
// object {"q1": 5} or a list [{"id": "q1", "value": 5}]; values may be
// numbers or numeric strings.
type likertPayload struct {
	respondentPayload
	AllowPartial bool
	Answers      map[string]int
}

func parseLikertPayload(raw []byte) (likertPayload, error) {
	if !gjson.ValidBytes(raw) {
		return likertPayload{}, errors.New("invalid JSON body")
	}
	doc := gjson.ParseBytes(raw)
	out := likertPayload{
		respondentPayload: respondentPayload{
			RespondentID: doc.Get("respondent_id").String(),
			Name:         doc.Get("name").String(),
			Email:        doc.Get("email").String(),
			Country:      doc.Get("country").String(),
		},
		AllowPartial: doc.Get("allow_partial").Bool(),
		Answers:      map[string]int{},
	}
	answers := doc.Get("answers")
	var err error
	switch {
	case answers.IsObject():
		answers.ForEach(func(key, value gjson.Result) bool {
			err = out.add(key.String(), value)
			return err == nil
		})
	case answers.IsArray():
		for i, item := range answers.Array() {
			id := item.Get("id")
			if !id.Exists() {
				id = item.Get("question_id")
			}
			if id.String() == "" {
				return likertPayload{}, fmt.Errorf("answers[%d]: missing id", i)
			}
			if err = out.add(id.String(), item.Get("value")); err != nil {
				break
			}
		}
	default:
		return likertPayload{}, errAnswersMissing
	}
	if err != nil {
		return likertPayload{}, err
	}
	return out, nil
}

func (p *likertPayload) add(id string, value gjson.Result) error {
	id = strings.TrimSpace(id)
	if _, dup := p.Answers[id]; dup {
		return fmt.Errorf("answer %s given twice", id)
	}
	var v int
	switch value.Type {
	case gjson.Number:
		if value.Num != math.Trunc(value.Num) {
			return fmt.Errorf("answer %s must be a whole number", id)
		}
		v = int(value.Num)
	case gjson.String:
		n, err := strconv.Atoi(strings.TrimSpace(value.Str))
		if err != nil {
			return fmt.Errorf("answer %s must be a whole number", id)
		}
		v = n
	default:
		return fmt.Errorf("answer %s must be a whole number", id)
	}
	p.Answers[id] = v
	return nil
}
