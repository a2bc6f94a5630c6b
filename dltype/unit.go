// Package dltype runs every phase of type checking over a Datalog program:
// loading it, building the environment of its declared types, inferring
// the types of its arguments and resolving overloaded operators, and reporting type errors.
package dltype

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"
	"testing/fstest"

	"github.com/cottand/dltype/frontend/ast"
	"github.com/cottand/dltype/frontend/ilerr"
	"github.com/cottand/dltype/frontend/infer"
	"github.com/cottand/dltype/frontend/types"
	"github.com/cottand/dltype/internal/log"
	"github.com/cottand/dltype/loader"
)

var unitLogger = log.DefaultLogger.With("section", "unit")

// Unit is a single Datalog program, loaded from one file and type-checked as a whole
type Unit struct {
	name     string
	lines    []string
	program  *ast.Program
	env      *types.Environment
	analysis *infer.Analysis
	errors   *ilerr.Errors
}

type readFileDirFS interface {
	fs.ReadFileFS
	fs.ReadDirFS
}

type UnitLoadSettings struct {
	// Dir is the path of the folder in the filesystem where the program is located
	// the default is `.`
	Dir string
	// File is the name of the program inside Dir.
	// When empty, the YAML file found in Dir is used
	File string
	// Config is passed on to the type analysis.
	// The zero Config uses the defaults of infer.DefaultConfig
	Config infer.Config
}

func isProgramFile(name string) bool {
	ext := path.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}

// findProgram picks the YAML file of dir when settings do not name one
func findProgram(dir readFileDirFS, settings UnitLoadSettings) (string, error) {
	if settings.File != "" {
		return settings.File, nil
	}
	entries, err := dir.ReadDir(settings.Dir)
	if err != nil {
		return "", fmt.Errorf("read dir %s: %w", settings.Dir, err)
	}
	var candidates []string
	for _, entry := range entries {
		if !entry.IsDir() && isProgramFile(entry.Name()) {
			candidates = append(candidates, entry.Name())
		}
	}
	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("no YAML program found in %s", settings.Dir)
	case 1:
		return candidates[0], nil
	}
	slices.Sort(candidates)
	unitLogger.Warn("multiple programs found, but a unit is a single file - using the first one", "candidates", candidates)
	return candidates[0], nil
}

// LoadUnit loads, analyses and checks the program found in dir.
//
// Problems in the program itself end up in Unit.Errors. The returned error is only
// non-nil when the program could not be read, or the analysis failed to converge.
func LoadUnit(dir readFileDirFS, settings UnitLoadSettings) (*Unit, error) {
	if settings.Dir == "" {
		settings.Dir = "."
	}
	file, err := findProgram(dir, settings)
	if err != nil {
		return nil, err
	}
	data, err := dir.ReadFile(path.Join(settings.Dir, file))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}

	unit := &Unit{
		name:  file,
		lines: strings.Split(string(data), "\n"),
	}

	// load phase
	program, loadErrors, err := loader.Load(bytes.NewReader(data))
	unit.errors = unit.errors.Merge(loadErrors)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", file, err)
	}
	unit.program = program

	// declarations phase
	env, envErrors := types.NewEnvironment(program)
	unit.errors = unit.errors.Merge(envErrors)
	unit.env = env

	// inference phase
	unit.analysis = infer.New(program, env, settings.Config)
	if err := unit.analysis.Run(); err != nil {
		return unit, fmt.Errorf("analyse %s: %w", file, err)
	}

	// check phase
	unit.errors = unit.errors.Merge(infer.Check(unit.analysis))
	unitLogger.Debug("checked unit", "name", unit.name, "iterations", unit.analysis.Iterations(), "errors", unit.errors)
	return unit, nil
}

// NewUnitFromBytes does all passes end-to-end for a single file named name, meant for testing
func NewUnitFromBytes(data []byte, name string) (*Unit, *ilerr.Errors, error) {
	return NewUnitFromBytesWithConfig(data, name, infer.Config{})
}

func NewUnitFromBytesWithConfig(data []byte, name string, config infer.Config) (*Unit, *ilerr.Errors, error) {
	filesystem := fstest.MapFS{
		name: &fstest.MapFile{
			Data: data,
		},
	}
	unit, err := LoadUnit(filesystem, UnitLoadSettings{File: name, Config: config})
	if unit == nil {
		return nil, nil, err
	}
	return unit, unit.errors, err
}

func (u *Unit) Name() string { return u.name }

// Line returns the nth line of the source of the unit, counting from 1
func (u *Unit) Line(n int) (string, bool) {
	if n < 1 || n > len(u.lines) {
		return "", false
	}
	return u.lines[n-1], true
}

func (u *Unit) Program() *ast.Program { return u.program }

func (u *Unit) Environment() *types.Environment { return u.env }

func (u *Unit) Analysis() *infer.Analysis { return u.analysis }

func (u *Unit) Errors() *ilerr.Errors { return u.errors }

// FormattedErrors renders every error of the unit with its source line, ordered by location
func (u *Unit) FormattedErrors() []string {
	sorted := u.errors.Sorted()
	formatted := make([]string, len(sorted))
	for i, err := range sorted {
		formatted[i] = ilerr.FormatWithCodeAndSource(err, u)
	}
	return formatted
}

// DisplayTypes returns every clause of the unit, annotated with the types of its arguments
func (u *Unit) DisplayTypes() string {
	sb := strings.Builder{}
	for _, clause := range u.program.Clauses {
		sb.WriteString(u.analysis.Annotate(clause))
	}
	return sb.String()
}

// WriteReport writes the full analysis report, which includes the solver trace
// when the unit was analysed in debug mode
func (u *Unit) WriteReport(w io.Writer) error {
	return u.analysis.Print(w)
}
