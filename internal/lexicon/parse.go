package lexicon

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"hugo/internal/personality"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed default_bank.yaml
var defaultBankYAML []byte

//go:embed schema.json
var bankSchemaJSON string

type fileQuestion struct {
	ID       string              `yaml:"id"`
	Focus    []string            `yaml:"focus"`
	Text     map[string]string   `yaml:"text"`
	Keywords map[string][]string `yaml:"keywords"`
}

type fileStatement struct {
	ID   string            `yaml:"id"`
	Type string            `yaml:"type"`
	Text map[string]string `yaml:"text"`
}

type fileScalePoint struct {
	Value int               `yaml:"value"`
	Label map[string]string `yaml:"label"`
}

type fileLikert struct {
	Scale      []fileScalePoint `yaml:"scale"`
	Statements []fileStatement  `yaml:"statements"`
}

type fileSession struct {
	Welcome    map[string]string `yaml:"welcome"`
	AskName    map[string]string `yaml:"ask_name"`
	AskEmail   map[string]string `yaml:"ask_email"`
	AskCountry map[string]string `yaml:"ask_country"`
	Complete   map[string]string `yaml:"complete"`
}

type fileBank struct {
	Version            string                    `yaml:"version"`
	DimensionQuestions []fileQuestion            `yaml:"dimension_questions"`
	TypeQuestions      map[string][]fileQuestion `yaml:"type_questions"`
	Likert             fileLikert                `yaml:"likert"`
	Session            fileSession               `yaml:"session"`
}

var (
	schemaOnce     sync.Once
	schemaCompiled *jsonschema.Schema
	schemaErr      error

	defaultOnce sync.Once
	defaultBank *Bank
	defaultErr  error
)

// Default returns the embedded question bank. The result is shared and must
// not be mutated.
func Default() (*Bank, error) {
	defaultOnce.Do(func() {
		defaultBank, defaultErr = Parse(defaultBankYAML)
		if defaultErr != nil {
			defaultErr = fmt.Errorf("embedded question bank: %w", defaultErr)
		}
	})
	return defaultBank, defaultErr
}

// LoadFile reads and validates a bank from a YAML file.
func LoadFile(path string) (*Bank, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank failed: %w", err)
	}
	bank, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("question bank %s: %w", path, err)
	}
	return bank, nil
}

// Parse validates raw YAML against the bank schema and builds a Bank.
func Parse(raw []byte) (*Bank, error) {
	if err := validateSchema(raw); err != nil {
		return nil, err
	}
	var fb fileBank
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&fb); err != nil {
		return nil, fmt.Errorf("parse question bank failed: %w", err)
	}
	return buildBank(fb)
}

func compileBankSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("bank.json", strings.NewReader(bankSchemaJSON)); err != nil {
			schemaErr = err
			return
		}
		schemaCompiled, schemaErr = compiler.Compile("bank.json")
	})
	return schemaCompiled, schemaErr
}

func validateSchema(raw []byte) error {
	schema, err := compileBankSchema()
	if err != nil {
		return fmt.Errorf("compile bank schema failed: %w", err)
	}
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse question bank failed: %w", err)
	}
	// round-trip through JSON so numbers and maps have the shapes the
	// validator expects
	buf, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("question bank is not JSON compatible: %w", err)
	}
	var normalized any
	if err := json.Unmarshal(buf, &normalized); err != nil {
		return err
	}
	if err := schema.Validate(normalized); err != nil {
		return fmt.Errorf("question bank schema: %w", err)
	}
	return nil
}

func buildBank(fb fileBank) (*Bank, error) {
	bank := &Bank{
		Version:       strings.TrimSpace(fb.Version),
		TypeQuestions: make(map[personality.Dimension][]Question, len(personality.Dimensions)),
	}
	seen := make(map[string]bool)
	for i, fq := range fb.DimensionQuestions {
		q, err := buildDimensionQuestion(fq)
		if err != nil {
			return nil, fmt.Errorf("dimension_questions[%d]: %w", i, err)
		}
		if seen[q.ID] {
			return nil, fmt.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = true
		bank.DimensionQuestions = append(bank.DimensionQuestions, q)
	}

	typeCount := -1
	for _, d := range personality.Dimensions {
		list := fb.TypeQuestions[d.Letter()]
		if typeCount >= 0 && len(list) != typeCount {
			return nil, fmt.Errorf("type_questions.%s has %d questions, expected %d", d.Letter(), len(list), typeCount)
		}
		typeCount = len(list)
		for i, fq := range list {
			q, err := buildTypeQuestion(d, fq)
			if err != nil {
				return nil, fmt.Errorf("type_questions.%s[%d]: %w", d.Letter(), i, err)
			}
			if seen[q.ID] {
				return nil, fmt.Errorf("duplicate question id %q", q.ID)
			}
			seen[q.ID] = true
			bank.TypeQuestions[d] = append(bank.TypeQuestions[d], q)
		}
	}

	likert, err := buildLikert(fb.Likert)
	if err != nil {
		return nil, err
	}
	bank.Likert = likert
	bank.Session = SessionPrompts{
		Welcome:    localized(fb.Session.Welcome),
		AskName:    localized(fb.Session.AskName),
		AskEmail:   localized(fb.Session.AskEmail),
		AskCountry: localized(fb.Session.AskCountry),
		Complete:   localized(fb.Session.Complete),
	}
	bank.index()
	return bank, nil
}

func buildDimensionQuestion(fq fileQuestion) (Question, error) {
	q := Question{
		ID:       strings.TrimSpace(fq.ID),
		Phase:    PhaseDimension,
		Text:     localized(fq.Text),
		Keywords: make(map[string][]string, len(fq.Keywords)),
	}
	for _, raw := range fq.Focus {
		d, err := personality.ParseDimension(raw)
		if err != nil {
			return Question{}, err
		}
		if !q.HasFocus(d) {
			q.Focus = append(q.Focus, d)
		}
	}
	for key, words := range fq.Keywords {
		d, err := personality.ParseDimension(key)
		if err != nil {
			return Question{}, err
		}
		q.Keywords[string(d)] = normalizeKeywords(words)
	}
	return q, nil
}

func buildTypeQuestion(d personality.Dimension, fq fileQuestion) (Question, error) {
	if len(fq.Focus) > 0 {
		return Question{}, fmt.Errorf("type question %q cannot carry focus", fq.ID)
	}
	q := Question{
		ID:        strings.TrimSpace(fq.ID),
		Phase:     PhaseType,
		Dimension: d,
		Text:      localized(fq.Text),
		Keywords:  make(map[string][]string, len(fq.Keywords)),
	}
	for key, words := range fq.Keywords {
		code, err := personality.ParseTypeCode(key)
		if err != nil {
			return Question{}, err
		}
		if code.Dimension() != d {
			return Question{}, fmt.Errorf("type %s does not belong to dimension %s", code, d)
		}
		q.Keywords[string(code)] = normalizeKeywords(words)
	}
	return q, nil
}

func buildLikert(fl fileLikert) (Likert, error) {
	var out Likert
	for i, p := range fl.Scale {
		if i > 0 && p.Value <= fl.Scale[i-1].Value {
			return Likert{}, fmt.Errorf("likert.scale must be strictly ascending")
		}
		out.Scale = append(out.Scale, ScalePoint{Value: p.Value, Label: localized(p.Label)})
	}
	seen := make(map[string]bool, len(fl.Statements))
	perType := make(map[personality.TypeCode]int)
	for i, fs := range fl.Statements {
		code, err := personality.ParseTypeCode(fs.Type)
		if err != nil {
			return Likert{}, fmt.Errorf("likert.statements[%d]: %w", i, err)
		}
		id := strings.TrimSpace(fs.ID)
		if seen[id] {
			return Likert{}, fmt.Errorf("duplicate statement id %q", id)
		}
		seen[id] = true
		perType[code]++
		out.Statements = append(out.Statements, LikertStatement{ID: id, Type: code, Text: localized(fs.Text)})
	}
	if len(out.Statements) > 0 {
		var uneven []string
		for _, code := range personality.Types {
			if perType[code] != perType[personality.Types[0]] {
				uneven = append(uneven, string(code))
			}
		}
		if len(uneven) > 0 {
			sort.Strings(uneven)
			return Likert{}, fmt.Errorf("likert statements must cover every type equally (uneven: %s)", strings.Join(uneven, ","))
		}
	}
	return out, nil
}

func localized(src map[string]string) personality.Localized {
	if len(src) == 0 {
		return nil
	}
	out := make(personality.Localized, len(src))
	for k, v := range src {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out[personality.Language(strings.ToLower(strings.TrimSpace(k)))] = v
	}
	return out
}

func normalizeKeywords(words []string) []string {
	if len(words) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		norm := strings.ToLower(strings.TrimSpace(w))
		if norm == "" {
			continue
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, norm)
	}
	return out
}
