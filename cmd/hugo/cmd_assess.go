package main

import (
	"fmt"

	"hugo/internal/service"
	"hugo/internal/store"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type respondentFile struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Email   string `yaml:"email"`
	Country string `yaml:"country"`
}

func (r respondentFile) toStore() store.Respondent {
	return store.Respondent{ID: r.ID, Name: r.Name, Email: r.Email, Country: r.Country}
}

// openTextFile is the answers file for "hugo classify". JSON works too.
type openTextFile struct {
	Respondent       respondentFile `yaml:"respondent"`
	DimensionAnswers []string       `yaml:"dimension_answers"`
	TypeAnswers      []string       `yaml:"type_answers"`
}

type likertFile struct {
	Respondent   respondentFile `yaml:"respondent"`
	Answers      map[string]int `yaml:"answers"`
	AllowPartial bool           `yaml:"allow_partial"`
}

var classifyCmd = &cobra.Command{
	Use:   "classify <answers.yaml|->",
	Short: "Classify free-text answers into a type",
	Long: `Read a YAML or JSON file with dimension_answers (12 entries) and
type_answers (3 entries, for the winning dimension) and print the profile.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readInput(args[0])
		if err != nil {
			return err
		}
		var in openTextFile
		if err := yaml.Unmarshal(raw, &in); err != nil {
			return fmt.Errorf("parse answers: %w", err)
		}
		a, _, err := openApp()
		if err != nil {
			return err
		}
		defer closeApp(a)
		view, err := a.Service().ClassifyText(cmd.Context(), service.OpenTextRequest{
			Respondent:       in.Respondent.toStore(),
			DimensionAnswers: in.DimensionAnswers,
			TypeAnswers:      in.TypeAnswers,
		})
		if err != nil {
			return err
		}
		return printProfile(view)
	},
}

var likertCmd = &cobra.Command{
	Use:   "likert <answers.yaml|->",
	Short: "Score a 36-statement Likert battery",
	Long: `Read a YAML or JSON file with an answers map (statement id to 1..5) and
print the profile. Set allow_partial to score an unfinished battery.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readInput(args[0])
		if err != nil {
			return err
		}
		var in likertFile
		if err := yaml.Unmarshal(raw, &in); err != nil {
			return fmt.Errorf("parse answers: %w", err)
		}
		a, _, err := openApp()
		if err != nil {
			return err
		}
		defer closeApp(a)
		svc := a.Service()
		if !in.AllowPartial {
			if p := svc.LikertProgress(in.Answers); !p.Complete {
				return fmt.Errorf("%d of %d statements answered; set allow_partial to score anyway", p.Answered, p.Total)
			}
		}
		view, err := svc.ScoreLikert(cmd.Context(), service.LikertRequest{
			Respondent:   in.Respondent.toStore(),
			Answers:      in.Answers,
			AllowPartial: in.AllowPartial,
		})
		if err != nil {
			return err
		}
		return printProfile(view)
	},
}
