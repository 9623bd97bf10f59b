package behave

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/programme-lv/judger/api"
	"github.com/programme-lv/judger/internal/catalog"
	"github.com/programme-lv/judger/internal/statuses"
)

// SpecCase is a single case in the behaviour file, with inline content.
type SpecCase struct {
	In          string  `toml:"in"`
	Ans         string  `toml:"ans"`
	Score       float64 `toml:"score"`
	TimeLimit   uint64  `toml:"time_limit"`
	MemoryLimit uint64  `toml:"memory_limit"`
}

// SpecExpect describes the expected overall result and per-case verdicts.
type SpecExpect struct {
	Result string   `toml:"result"`
	Cases  []string `toml:"cases"`
}

type fileScenario struct {
	Description string     `toml:"description"`
	Language    string     `toml:"language"`
	Type        string     `toml:"type"`
	Code        string     `toml:"code"`
	Cases       []SpecCase `toml:"cases"`
	Expect      SpecExpect `toml:"expect"`
}

type fileRoot struct {
	Languages []catalog.Language `toml:"languages"`
	Scenarios []fileScenario     `toml:"scenarios"`
}

// Scenario is a runnable entry converted from TOML.
type Scenario struct {
	Name     string
	Language catalog.Language
	Type     string
	Code     string
	Cases    []SpecCase

	Result statuses.Verdict
	// Verdicts is nil when the file does not list per-case verdicts.
	Verdicts []statuses.Verdict
}

// default time limit of a case in microseconds
const defaultTimeLimit = 2_000_000

// Parse reads a behaviour TOML file and converts it to runnable scenarios.
func Parse(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read behaviour file: %w", err)
	}
	var root fileRoot
	if err := toml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	// validates the languages the same way a config file would
	langs, err := catalog.New(nil, root.Languages)
	if err != nil {
		return nil, fmt.Errorf("invalid languages in %s: %w", path, err)
	}

	res := make([]Scenario, 0, len(root.Scenarios))
	for _, s := range root.Scenarios {
		lang, ok := langs.Language(s.Language)
		if !ok {
			return nil, fmt.Errorf("scenario %q: unknown language %q", s.Description, s.Language)
		}
		if len(s.Cases) == 0 {
			return nil, fmt.Errorf("scenario %q has no cases", s.Description)
		}

		result, err := api.ParseVerdict(s.Expect.Result)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", s.Description, err)
		}
		var verdicts []statuses.Verdict
		for _, name := range s.Expect.Cases {
			v, err := api.ParseVerdict(name)
			if err != nil {
				return nil, fmt.Errorf("scenario %q: %w", s.Description, err)
			}
			verdicts = append(verdicts, v)
		}
		if verdicts != nil && result != statuses.CompilationError && len(verdicts) != len(s.Cases) {
			return nil, fmt.Errorf("scenario %q expects %d verdicts for %d cases",
				s.Description, len(verdicts), len(s.Cases))
		}

		cases := append([]SpecCase(nil), s.Cases...)
		for i := range cases {
			if cases[i].TimeLimit == 0 {
				cases[i].TimeLimit = defaultTimeLimit
			}
		}

		res = append(res, Scenario{
			Name:     s.Description,
			Language: lang,
			Type:     s.Type,
			Code:     s.Code,
			Cases:    cases,
			Result:   result,
			Verdicts: verdicts,
		})
	}
	return res, nil
}
