package catalog

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

type Health int

const (
	HealthOK Health = iota
	HealthWarning
	HealthError
)

// Finding is one row of a catalog health report.
type Finding struct {
	Unit    string
	Health  Health
	Message string
}

// Check verifies that every case file is readable and that every language's
// first command token resolves on PATH.
func (c *Catalog) Check() []Finding {
	res := make([]Finding, 0)

	for _, p := range c.problems {
		unit := fmt.Sprintf("problem %d (%s)", p.ID, p.Name)
		if len(p.Cases) == 0 {
			res = append(res, Finding{Unit: unit, Health: HealthWarning, Message: "no cases defined"})
			continue
		}
		missing := make([]string, 0)
		for _, cs := range p.Cases {
			for _, path := range []string{cs.InputFile, cs.AnswerFile} {
				if _, err := os.Stat(path); err != nil {
					missing = append(missing, path)
				}
			}
		}
		if len(missing) > 0 {
			res = append(res, Finding{
				Unit:    unit,
				Health:  HealthError,
				Message: "missing case files: " + strings.Join(missing, ", "),
			})
			continue
		}
		res = append(res, Finding{Unit: unit, Health: HealthOK, Message: fmt.Sprintf("%d cases", len(p.Cases))})
	}

	for _, l := range c.languages {
		unit := "language " + l.Name
		bin := l.Command[0]
		if strings.Contains(bin, OutputPlaceholder) || strings.Contains(bin, InputPlaceholder) {
			res = append(res, Finding{Unit: unit, Health: HealthWarning, Message: "command starts with a placeholder"})
			continue
		}
		path, err := exec.LookPath(bin)
		if err != nil {
			res = append(res, Finding{Unit: unit, Health: HealthError, Message: err.Error()})
			continue
		}
		res = append(res, Finding{Unit: unit, Health: HealthOK, Message: path})
	}

	return res
}
