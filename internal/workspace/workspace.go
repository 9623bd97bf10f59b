package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
)

// Workspace allocates per-job scratch files under <root>/problem/<problem_id>/.
type Workspace struct {
	root string
}

func New(root string) (*Workspace, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root %s: %w", root, err)
	}
	return &Workspace{root: abs}, nil
}

func (w *Workspace) Root() string {
	return w.root
}

// Paths are the scratch files of one job run.
type Paths struct {
	Source   string
	Artifact string
	// Capture receives the stdout of the case being graded.
	Capture string
}

func (p Paths) All() []string {
	return []string{p.Source, p.Artifact, p.Capture}
}

// Paths derives the scratch paths of a job. Distinct (problem, job) pairs never collide.
func (w *Workspace) Paths(problemID, jobID uint32, sourceExt string) Paths {
	dir := filepath.Join(w.root, "problem", strconv.FormatUint(uint64(problemID), 10))
	id := strconv.FormatUint(uint64(jobID), 10)
	return Paths{
		Source:   filepath.Join(dir, "source", id+sourceExt),
		Artifact: filepath.Join(dir, "output", id),
		Capture:  filepath.Join(dir, "input", id+".txt"),
	}
}

// Ensure creates every missing parent directory of path.
func Ensure(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	return nil
}

// WriteSource creates or truncates path and writes code verbatim.
func WriteSource(path string, code []byte) error {
	if err := Ensure(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, code, 0644); err != nil {
		return fmt.Errorf("failed to write source file %s: %w", path, err)
	}
	return nil
}

// Cleanup removes every scratch file. Files that do not exist are skipped.
func Cleanup(p Paths) error {
	var errs []error
	for _, path := range p.All() {
		err := os.Remove(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
