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

package diag

import (
	"strings"

	"go.uber.org/multierr"
)

// Sink receives the diagnostics that analysis emits. Analysis reports
// every problem it finds and keeps going; the sink decides what to do
// with them.
type Sink interface {
	Report(*Diagnostic)
}

// Bag is a Sink that accumulates diagnostics in the order they were
// reported.
type Bag struct {
	diags []*Diagnostic
	errs  int
}

var _ Sink = (*Bag)(nil)

// Report adds a diagnostic to the bag.
func (b *Bag) Report(d *Diagnostic) {
	b.diags = append(b.diags, d)
	if d.Severity() == Error {
		b.errs++
	}
}

// Diagnostics returns all diagnostics reported so far.
func (b *Bag) Diagnostics() []*Diagnostic {
	return b.diags
}

// Empty returns true if no diagnostic has been reported.
func (b *Bag) Empty() bool {
	return len(b.diags) == 0
}

// ErrorCount returns the number of error diagnostics reported so far.
// Warnings do not count.
func (b *Bag) ErrorCount() int {
	return b.errs
}

// ToError combines the error diagnostics into a single error, or
// returns nil when only warnings were reported.
func (b *Bag) ToError() error {
	if b == nil || b.errs == 0 {
		return nil
	}
	var err error
	for _, d := range b.diags {
		if d.Severity() != Error {
			continue
		}
		err = multierr.Append(err, d)
	}
	return err
}

// String returns all diagnostics, one per line.
func (b *Bag) String() string {
	lines := make([]string, len(b.diags))
	for i, d := range b.diags {
		lines[i] = d.Error()
	}
	return strings.Join(lines, "\n")
}
