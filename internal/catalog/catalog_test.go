package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/programme-lv/judger/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rustLang() catalog.Language {
	return catalog.Language{
		Name:     "Rust",
		FileName: "main.rs",
		Command:  []string{"rustc", "-C", "opt-level=2", "-o", "%OUTPUT%", "%INPUT%"},
	}
}

func TestBuildCommandSubstitutesPlaceholders(t *testing.T) {
	lang := catalog.Language{
		Name:     "sh",
		FileName: "main.sh",
		Command:  []string{"/bin/sh", "-c", "cp %INPUT% %OUTPUT% && chmod +x %OUTPUT%"},
	}
	argv := lang.BuildCommand("out/7", "src/7.sh")
	assert.Equal(t, []string{"/bin/sh", "-c", "cp src/7.sh out/7 && chmod +x out/7"}, argv)
	// the template itself is untouched
	assert.Equal(t, "cp %INPUT% %OUTPUT% && chmod +x %OUTPUT%", lang.Command[2])
	assert.Equal(t, ".sh", lang.SourceExt())
}

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := catalog.New([]catalog.Problem{{ID: 1}, {ID: 1}}, nil)
	require.Error(t, err)

	_, err = catalog.New(nil, []catalog.Language{rustLang(), rustLang()})
	require.Error(t, err)
}

func TestNewRejectsBadCommands(t *testing.T) {
	lang := rustLang()
	lang.Command = []string{"rustc", "%INPUT%"}
	_, err := catalog.New(nil, []catalog.Language{lang})
	require.Error(t, err)

	lang.Command = nil
	_, err = catalog.New(nil, []catalog.Language{lang})
	require.Error(t, err)
}

func TestNewRejectsUnknownProblemType(t *testing.T) {
	_, err := catalog.New([]catalog.Problem{{ID: 3, Type: "spj"}}, nil)
	require.Error(t, err)
}

func TestLookupsReturnCopies(t *testing.T) {
	c, err := catalog.New(
		[]catalog.Problem{{ID: 0, Name: "aplusb", Cases: []catalog.Case{{InputFile: "1.in", AnswerFile: "1.ans", TimeLimit: 1000}}}},
		[]catalog.Language{rustLang()},
	)
	require.NoError(t, err)

	p, ok := c.Problem(0)
	require.True(t, ok)
	assert.Equal(t, catalog.TypeStrict, p.CompareMode())
	p.Cases[0].InputFile = "changed"

	again, _ := c.Problem(0)
	assert.Equal(t, "1.in", again.Cases[0].InputFile)

	l, ok := c.Language("Rust")
	require.True(t, ok)
	l.Command[0] = "gcc"
	again2, _ := c.Language("Rust")
	assert.Equal(t, "rustc", again2.Command[0])

	_, ok = c.Problem(42)
	assert.False(t, ok)
	_, ok = c.Language("Go")
	assert.False(t, ok)
}

func TestCheckReportsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "1.in")
	require.NoError(t, os.WriteFile(in, []byte("1\n"), 0644))

	c, err := catalog.New(
		[]catalog.Problem{{ID: 1, Name: "echo", Cases: []catalog.Case{{InputFile: in, AnswerFile: filepath.Join(dir, "1.ans")}}}},
		[]catalog.Language{{Name: "sh", FileName: "main.sh", Command: []string{"sh", "-c", "cp %INPUT% %OUTPUT%"}}},
	)
	require.NoError(t, err)

	findings := c.Check()
	require.Len(t, findings, 2)
	assert.Equal(t, catalog.HealthError, findings[0].Health)
	assert.Contains(t, findings[0].Message, "1.ans")
	assert.Equal(t, catalog.HealthOK, findings[1].Health)
}
