// Package outcome defines the result model shared by every build step:
// typed step failures, stage-level aggregation, and the helpers used to
// inspect them. A step that returns a nil error succeeded; a failing step
// returns a *StepError carrying the failure kind and its context.
package outcome

import (
	"errors"
	"fmt"
)

// Kind classifies a step failure.
type Kind string

const (
	KindFile     Kind = "file"     // OS-level I/O failure (permission, missing path, stat).
	KindConfig   Kind = "config"   // Malformed or missing project configuration.
	KindTemplate Kind = "template" // Template compile or render failure.
	KindContent  Kind = "content"  // Malformed content item.
)

// StepError is the failure outcome of a single build step.
type StepError struct {
	Kind Kind
	Path string // File or directory the step was working on.
	Line int    // 1-based line number when known, 0 otherwise.
	Err  error
}

func (e *StepError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s error: %s:%d: %v", e.Kind, e.Path, e.Line, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// FileError wraps an OS-level failure for the given path.
func FileError(path string, err error) *StepError {
	return &StepError{Kind: KindFile, Path: path, Err: err}
}

// ConfigError wraps a project configuration failure.
func ConfigError(path string, err error) *StepError {
	return &StepError{Kind: KindConfig, Path: path, Err: err}
}

// TemplateError wraps a template failure. line may be 0 when unknown.
func TemplateError(path string, line int, err error) *StepError {
	return &StepError{Kind: KindTemplate, Path: path, Line: line, Err: err}
}

// ContentError wraps a content parse failure. line may be 0 when unknown.
func ContentError(path string, line int, err error) *StepError {
	return &StepError{Kind: KindContent, Path: path, Line: line, Err: err}
}

// KindOf returns the failure kind buried anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var se *StepError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return "", false
}
