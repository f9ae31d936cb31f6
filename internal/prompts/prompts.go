// Package prompts holds the completion prompt templates used by extraction and
// the QA pipeline. Defaults are built in; a YAML file may override any of them.
package prompts

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// Affirmative is the token a yes/no classification reply must contain to count as "yes".
// Every classification template asks for 是 或 否.
const Affirmative = "是"

// Data carries the values a template can reference.
type Data struct {
	Text      string // window text (extraction)
	Question  string // user input
	Candidate string // stored FAQ question (relevance)
	Context   string // formatted Q/A context block (answer)
}

// File is the YAML layout of a prompt overrides file. Empty fields keep the default.
type File struct {
	Extraction          string `yaml:"extraction"`
	IsQuestion          string `yaml:"is_question"`
	IsCalculation       string `yaml:"is_calculation"`
	Chitchat            string `yaml:"chitchat"`
	CalculationFallback string `yaml:"calculation_fallback"`
	Relevance           string `yaml:"relevance"`
	Answer              string `yaml:"answer"`
}

// Set is a parsed, validated collection of prompt templates.
type Set struct {
	extraction          *template.Template
	isQuestion          *template.Template
	isCalculation       *template.Template
	chitchat            *template.Template
	calculationFallback *template.Template
	relevance           *template.Template
	answer              *template.Template
}

// entry lists each template with the fields it must reference.
type entry struct {
	name     string
	text     string
	dst      **template.Template
	requires []string
}

// Default returns the built-in prompt set.
func Default() *Set {
	s, err := build(File{})
	if err != nil {
		panic(fmt.Sprintf("prompts: built-in templates invalid: %v", err))
	}
	return s
}

// Load reads overrides from a YAML file at path. An empty path returns Default().
func Load(path string) (*Set, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse prompts file: %w", err)
	}

	return build(f)
}

func build(f File) (*Set, error) {
	s := &Set{}
	entries := []entry{
		{"extraction", or(f.Extraction, defaultExtraction), &s.extraction, []string{"Text"}},
		{"is_question", or(f.IsQuestion, defaultIsQuestion), &s.isQuestion, []string{"Question"}},
		{"is_calculation", or(f.IsCalculation, defaultIsCalculation), &s.isCalculation, []string{"Question"}},
		{"chitchat", or(f.Chitchat, defaultChitchat), &s.chitchat, []string{"Question"}},
		{"calculation_fallback", or(f.CalculationFallback, defaultCalculationFallback), &s.calculationFallback, []string{"Question"}},
		{"relevance", or(f.Relevance, defaultRelevance), &s.relevance, []string{"Question", "Candidate"}},
		{"answer", or(f.Answer, defaultAnswer), &s.answer, []string{"Question", "Context"}},
	}

	var errs []error
	for _, sp := range entries {
		tmpl, err := template.New(sp.name).Option("missingkey=error").Parse(sp.text)
		if err != nil {
			errs = append(errs, fmt.Errorf("template %s: %w", sp.name, err))
			continue
		}
		if err := checkFields(tmpl, sp.requires); err != nil {
			errs = append(errs, fmt.Errorf("template %s: %w", sp.name, err))
			continue
		}
		*sp.dst = tmpl
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return s, nil
}

// checkFields renders tmpl with marker values and fails if a required field is not used.
func checkFields(tmpl *template.Template, requires []string) error {
	probe := Data{
		Text:      "\x00text\x00",
		Question:  "\x00question\x00",
		Candidate: "\x00candidate\x00",
		Context:   "\x00context\x00",
	}
	markers := map[string]string{
		"Text":      probe.Text,
		"Question":  probe.Question,
		"Candidate": probe.Candidate,
		"Context":   probe.Context,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, probe); err != nil {
		return err
	}
	out := buf.String()
	for _, field := range requires {
		if !strings.Contains(out, markers[field]) {
			return fmt.Errorf("missing required field {{.%s}}", field)
		}
	}
	return nil
}

func or(override, def string) string {
	if strings.TrimSpace(override) != "" {
		return override
	}
	return def
}

func render(tmpl *template.Template, data Data) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// Extraction renders the FAQ extraction prompt for one window of text.
func (s *Set) Extraction(text string) (string, error) {
	return render(s.extraction, Data{Text: text})
}

// IsQuestion renders the question classification prompt.
func (s *Set) IsQuestion(question string) (string, error) {
	return render(s.isQuestion, Data{Question: question})
}

// IsCalculation renders the calculation classification prompt.
func (s *Set) IsCalculation(question string) (string, error) {
	return render(s.isCalculation, Data{Question: question})
}

// Chitchat renders the conversational reply prompt.
func (s *Set) Chitchat(question string) (string, error) {
	return render(s.chitchat, Data{Question: question})
}

// CalculationFallback renders the prompt used when local evaluation fails.
func (s *Set) CalculationFallback(question string) (string, error) {
	return render(s.calculationFallback, Data{Question: question})
}

// Relevance renders the yes/no relevance check of one retrieved pair.
func (s *Set) Relevance(question, candidate string) (string, error) {
	return render(s.relevance, Data{Question: question, Candidate: candidate})
}

// Answer renders the answer synthesis prompt.
func (s *Set) Answer(question, context string) (string, error) {
	return render(s.answer, Data{Question: question, Context: context})
}

// IsAffirmative reports whether a classification reply means "yes".
func IsAffirmative(reply string) bool {
	return strings.Contains(reply, Affirmative)
}
