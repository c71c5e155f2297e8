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

// Package source locates compiler entities in the files they were
// parsed from.
package source

import "fmt"

// Pos is a range of source text: a file name plus inclusive start and
// end line/column coordinates. The zero value is an unknown location.
type Pos struct {
	File      string
	FirstLine int
	FirstCol  int
	LastLine  int
	LastCol   int
}

// New returns a position covering a single point.
func New(file string, line, col int) Pos {
	return Pos{
		File:      file,
		FirstLine: line,
		FirstCol:  col,
		LastLine:  line,
		LastCol:   col,
	}
}

// Valid reports whether the position refers to an actual location.
func (p Pos) Valid() bool {
	return p.File != "" && p.FirstLine > 0
}

// String formats the start of the range the way diagnostics print it.
func (p Pos) String() string {
	if !p.Valid() {
		return "-"
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.FirstLine, p.FirstCol)
}

// Union returns the smallest range covering both p and q. If either
// position is invalid, the other one is returned.
func Union(p, q Pos) Pos {
	if !p.Valid() {
		return q
	}
	if !q.Valid() {
		return p
	}
	r := p
	if q.FirstLine < r.FirstLine || (q.FirstLine == r.FirstLine && q.FirstCol < r.FirstCol) {
		r.FirstLine, r.FirstCol = q.FirstLine, q.FirstCol
	}
	if q.LastLine > r.LastLine || (q.LastLine == r.LastLine && q.LastCol > r.LastCol) {
		r.LastLine, r.LastCol = q.LastLine, q.LastCol
	}
	return r
}
