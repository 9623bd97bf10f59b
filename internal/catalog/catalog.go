package catalog

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

// Placeholders substituted in a language command before compilation.
const (
	OutputPlaceholder = "%OUTPUT%"
	InputPlaceholder  = "%INPUT%"
)

// Problem types select how a case's output is compared with its answer.
const (
	TypeStrict   = "strict"
	TypeStandard = "standard"
)

// Case is one input/answer pair of a problem.
type Case struct {
	Score      float64 `toml:"score" json:"score"`
	InputFile  string  `toml:"input_file" json:"input_file"`
	AnswerFile string  `toml:"answer_file" json:"answer_file"`
	// TimeLimit is in microseconds, 0 disables it.
	TimeLimit uint64 `toml:"time_limit" json:"time_limit"`
	// MemoryLimit is in bytes, 0 disables it.
	MemoryLimit uint64 `toml:"memory_limit" json:"memory_limit"`
}

func (c Case) TimeLimitDuration() time.Duration {
	return time.Duration(c.TimeLimit) * time.Microsecond
}

type Problem struct {
	ID    uint32 `toml:"id" json:"id"`
	Name  string `toml:"name" json:"name"`
	Type  string `toml:"type" json:"type"`
	Cases []Case `toml:"cases" json:"cases"`
}

func (p Problem) Clone() Problem {
	p.Cases = append([]Case(nil), p.Cases...)
	return p
}

// CompareMode returns the effective comparison mode, defaulting to strict.
func (p Problem) CompareMode() string {
	if p.Type == "" {
		return TypeStrict
	}
	return p.Type
}

type Language struct {
	Name     string   `toml:"name" json:"name"`
	FileName string   `toml:"file_name" json:"file_name"`
	Command  []string `toml:"command" json:"command"`
}

func (l Language) Clone() Language {
	l.Command = append([]string(nil), l.Command...)
	return l
}

// SourceExt is the extension of the language's source file name, including the dot.
func (l Language) SourceExt() string {
	return filepath.Ext(l.FileName)
}

// BuildCommand substitutes the placeholders in every command token.
func (l Language) BuildCommand(output, input string) []string {
	r := strings.NewReplacer(OutputPlaceholder, output, InputPlaceholder, input)
	argv := make([]string, len(l.Command))
	for i, tok := range l.Command {
		argv[i] = r.Replace(tok)
	}
	return argv
}

// Catalog is the read-only set of problems and languages jobs are graded against.
// Lookups return copies.
type Catalog struct {
	problems  []Problem
	languages []Language
}

func New(problems []Problem, languages []Language) (*Catalog, error) {
	c := &Catalog{
		problems:  make([]Problem, 0, len(problems)),
		languages: make([]Language, 0, len(languages)),
	}

	ids := mapset.NewThreadUnsafeSet[uint32]()
	for _, p := range problems {
		if !ids.Add(p.ID) {
			return nil, fmt.Errorf("duplicate problem id %d", p.ID)
		}
		switch p.CompareMode() {
		case TypeStrict, TypeStandard:
		default:
			return nil, fmt.Errorf("problem %d: unsupported type %q", p.ID, p.Type)
		}
		for i, cs := range p.Cases {
			if cs.InputFile == "" || cs.AnswerFile == "" {
				return nil, fmt.Errorf("problem %d case %d: input_file and answer_file are required", p.ID, i)
			}
		}
		c.problems = append(c.problems, p.Clone())
	}

	names := mapset.NewThreadUnsafeSet[string]()
	for _, l := range languages {
		if l.Name == "" {
			return nil, fmt.Errorf("language name must not be empty")
		}
		if !names.Add(l.Name) {
			return nil, fmt.Errorf("duplicate language %q", l.Name)
		}
		if err := validateCommand(l.Command); err != nil {
			return nil, fmt.Errorf("language %q: %w", l.Name, err)
		}
		c.languages = append(c.languages, l.Clone())
	}

	return c, nil
}

func validateCommand(cmd []string) error {
	if len(cmd) == 0 {
		return fmt.Errorf("command is empty")
	}
	joined := strings.Join(cmd, " ")
	if !strings.Contains(joined, OutputPlaceholder) {
		return fmt.Errorf("command does not reference %s", OutputPlaceholder)
	}
	if !strings.Contains(joined, InputPlaceholder) {
		return fmt.Errorf("command does not reference %s", InputPlaceholder)
	}
	return nil
}

func (c *Catalog) Problem(id uint32) (Problem, bool) {
	for _, p := range c.problems {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return Problem{}, false
}

func (c *Catalog) Language(name string) (Language, bool) {
	for _, l := range c.languages {
		if l.Name == name {
			return l.Clone(), true
		}
	}
	return Language{}, false
}

func (c *Catalog) Problems() []Problem {
	res := make([]Problem, len(c.problems))
	for i, p := range c.problems {
		res[i] = p.Clone()
	}
	return res
}

func (c *Catalog) Languages() []Language {
	res := make([]Language, len(c.languages))
	for i, l := range c.languages {
		res[i] = l.Clone()
	}
	return res
}
