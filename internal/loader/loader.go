// Package loader reads Markov algorithm definitions from CUE files.
//
// An algorithm file declares one or more algorithms under the
// "algorithm" field, each with an ordered list of rule statements and
// an optional initial input:
//
//	algorithm: "binary-increment": {
//		rules: ["1 -> 0", "0 ->. 1", "! ->. 1"]
//		input: "110"
//	}
//
// Loading uses the CUE Go API directly (no CLI subprocess) and
// compiles each statement through the rule package, so malformed rules
// are reported with the CUE position of the offending list element.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/markov/internal/rule"
	"github.com/roach88/markov/internal/ruleset"
)

// LoadMode controls how errors are handled during loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// Infrastructure error codes (E001-E009). Statement validation codes
// (E1xx) come from the rule package.
const (
	ErrCodeGeneric      = "E001" // generic/unknown error
	ErrCodeScanError    = "E002" // directory scan error
	ErrCodeNoFiles      = "E003" // no CUE files found
	ErrCodeLoadFailed   = "E004" // CUE load failed
	ErrCodeNotFound     = "E005" // path not found
	ErrCodeBuildFailed  = "E006" // CUE build failed
	ErrCodeBadAlgorithm = "E007" // algorithm field missing or malformed
)

// Algorithm is a compiled algorithm definition: an ordered ruleset plus
// the input context the file declares (possibly empty).
type Algorithm struct {
	Name  string
	Input string
	Rules *ruleset.Ruleset
}

// LoadResult contains the algorithms compiled from a directory.
type LoadResult struct {
	Algorithms []Algorithm
	FileCount  int // number of CUE files found
}

// LoadError is an error that occurred during loading, carrying a CUE
// source position when one is available.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Load compiles all algorithm definitions found at path, which may be
// a single CUE file or a directory scanned recursively.
// In LoadModeFailFast it returns on the first error; in
// LoadModeCollectAll it gathers every error and still returns whatever
// compiled cleanly.
func Load(path string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("algorithms path not found: %s", path)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing algorithms path: %v", err)}}
	}

	var cueFiles []string
	dir := path
	if info.IsDir() {
		cueFiles, err = FindCUEFiles(path)
		if err != nil {
			return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
		}
		if len(cueFiles) == 0 {
			return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", path)}}
		}
	} else {
		if filepath.Ext(path) != ".cue" {
			return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("not a CUE file: %s", path)}}
		}
		cueFiles = []string{path}
		dir = filepath.Dir(path)
	}

	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	// Name the files explicitly: algorithm files carry no package
	// clause, so loading "." would find no instance.
	instances := load.Instances(cueFiles, cfg)
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	result := &LoadResult{FileCount: len(cueFiles)}
	var errs []error

	algorithmsVal := value.LookupPath(cue.ParsePath("algorithm"))
	if !algorithmsVal.Exists() {
		errs = append(errs, &LoadError{Code: ErrCodeBadAlgorithm, Message: "no \"algorithm\" field found in CUE files"})
		return result, errs
	}

	iter, iterErr := algorithmsVal.Fields()
	if iterErr != nil {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating algorithms: %v", iterErr)})
		return result, errs
	}

	for iter.Next() {
		algorithm, compileErrs := CompileAlgorithm(iter.Label(), iter.Value())
		if len(compileErrs) > 0 {
			errs = append(errs, compileErrs...)
			if mode == LoadModeFailFast {
				return result, errs
			}
			continue
		}
		result.Algorithms = append(result.Algorithms, *algorithm)
	}

	if len(result.Algorithms) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeBadAlgorithm, Message: "no algorithms found"})
	}

	return result, errs
}

// CompileAlgorithm parses one algorithm struct: a required "rules" list
// of statement strings compiled in order, and an optional "input"
// string.
func CompileAlgorithm(name string, v cue.Value) (*Algorithm, []error) {
	if err := v.Err(); err != nil {
		return nil, []error{&LoadError{
			Code:    ErrCodeBadAlgorithm,
			Message: fmt.Sprintf("algorithm %q: %v", name, err),
			Pos:     v.Pos(),
		}}
	}

	var errs []error
	algorithm := &Algorithm{Name: name, Rules: ruleset.New()}

	rulesVal := v.LookupPath(cue.ParsePath("rules"))
	if !rulesVal.Exists() {
		return nil, []error{&LoadError{
			Code:    ErrCodeBadAlgorithm,
			Message: fmt.Sprintf("algorithm %q: \"rules\" list is required", name),
			Pos:     v.Pos(),
		}}
	}

	list, err := rulesVal.List()
	if err != nil {
		return nil, []error{&LoadError{
			Code:    ErrCodeBadAlgorithm,
			Message: fmt.Sprintf("algorithm %q: \"rules\" must be a list of statement strings", name),
			Pos:     rulesVal.Pos(),
		}}
	}

	for i := 0; list.Next(); i++ {
		statement, err := list.Value().String()
		if err != nil {
			errs = append(errs, &LoadError{
				Code:    ErrCodeBadAlgorithm,
				Message: fmt.Sprintf("algorithm %q: rules[%d] must be a string", name, i),
				Pos:     list.Value().Pos(),
			})
			continue
		}

		compiled, err := rule.Compile(statement)
		if err != nil {
			errs = append(errs, convertCompileError(err, name, i, list.Value().Pos()))
			continue
		}
		algorithm.Rules.Add(compiled)
	}

	inputVal := v.LookupPath(cue.ParsePath("input"))
	if inputVal.Exists() {
		input, err := inputVal.String()
		if err != nil {
			errs = append(errs, &LoadError{
				Code:    ErrCodeBadAlgorithm,
				Message: fmt.Sprintf("algorithm %q: \"input\" must be a string", name),
				Pos:     inputVal.Pos(),
			})
		} else {
			algorithm.Input = input
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return algorithm, nil
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError turns a rule compilation failure into a LoadError
// at the CUE position of the offending list element, preserving the
// rule package's validation code.
func convertCompileError(err error, algorithm string, index int, pos token.Pos) *LoadError {
	code := ErrCodeGeneric
	message := err.Error()

	var ce *rule.CompileError
	if errors.As(err, &ce) {
		code = ce.Code
		message = fmt.Sprintf("algorithm %q: rules[%d]: %s: %q", algorithm, index, ce.Message, ce.Statement)
	}

	return &LoadError{Code: code, Message: message, Pos: pos}
}
