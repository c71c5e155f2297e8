// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package diag carries the diagnostics the compiler reports while
// analyzing a program.
package diag

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/ospc-org/ospc/build/source"
)

// Severity classifies how a diagnostic affects compilation.
type Severity int

const (
	// Error diagnostics make compilation fail.
	Error Severity = iota
	// Warning diagnostics report suspect but legal constructs.
	Warning
	// PerfWarning diagnostics report constructs that compile to
	// needlessly slow code on the target.
	PerfWarning
)

// String returns the severity the way diagnostics print it.
func (s Severity) String() string {
	switch s {
	case Error:
		return "Error"
	case Warning:
		return "Warning"
	case PerfWarning:
		return "Performance Warning"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// Diagnostic is a message attached to a position in the source.
// It implements error so that diagnostics can flow through error
// accumulators unchanged.
type Diagnostic struct {
	sev Severity
	pos source.Pos
	err error
}

// Errorf returns a new error diagnostic at a position.
func Errorf(pos source.Pos, format string, a ...any) *Diagnostic {
	return &Diagnostic{sev: Error, pos: pos, err: errors.Errorf(format, a...)}
}

// Warningf returns a new warning diagnostic at a position.
func Warningf(pos source.Pos, format string, a ...any) *Diagnostic {
	return &Diagnostic{sev: Warning, pos: pos, err: errors.Errorf(format, a...)}
}

// PerfWarningf returns a new performance warning diagnostic at a position.
func PerfWarningf(pos source.Pos, format string, a ...any) *Diagnostic {
	return &Diagnostic{sev: PerfWarning, pos: pos, err: errors.Errorf(format, a...)}
}

// Severity returns how the diagnostic affects compilation.
func (d *Diagnostic) Severity() Severity {
	return d.sev
}

// Pos returns the source range the diagnostic points at.
func (d *Diagnostic) Pos() source.Pos {
	return d.pos
}

// Err returns the underlying message as an error.
func (d *Diagnostic) Err() error {
	return d.err
}

// Error returns the diagnostic as a single line.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.pos, d.sev, d.err.Error())
}

// Unwrap the underlying error.
func (d *Diagnostic) Unwrap() error {
	return d.err
}

type internalError struct {
	err error
}

// Internalf returns an error describing a condition that indicates a
// bug in the compiler rather than in the program being compiled.
func Internalf(format string, a ...any) error {
	return &internalError{err: errors.Errorf(format, a...)}
}

// Error returns a string description of the error.
func (e *internalError) Error() string {
	return fmt.Sprintf("internal compiler error. This is a bug. Please report it. Error:\n%+v", e.err)
}

// Unwrap the underlying error.
func (e *internalError) Unwrap() error {
	return e.err
}

// IsInternal reports whether err was produced by Internalf.
func IsInternal(err error) bool {
	var ie *internalError
	return errors.As(err, &ie)
}
