// Copyright (c) 2011 Florian Weimer. All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are
// met:
//
// * Redistributions of source code must retain the above copyright
//   notice, this list of conditions and the following disclaimer.
//
// * Redistributions in binary form must reproduce the above copyright
//   notice, this list of conditions and the following disclaimer in the
//   documentation and/or other materials provided with the distribution.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
// "AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
// LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
// A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
// OWNER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
// SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
// LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
// DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
// THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
// (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
// OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

// Package backtrack is a pure Go backend of the engine contract, built on
// github.com/dlclark/regexp2. It is the default engine when cgo is not
// available.
//
// regexp2 reports positions in runes; Exec converts them back to byte
// offsets of the subject. Character classes are always Unicode aware,
// engine.Unicode is accepted and changes nothing. Ungreedy mode and the
// NotBOL, NotEOL and NotEmpty exec flags have no regexp2 counterpart and
// are rejected with engine.ErrUnsupportedFlags.
package backtrack

import (
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"unsafe"

	"github.com/dlclark/regexp2"
	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/GRbit/go-pattern/engine"
)

// Name is the registry name of the engine.
const Name = "backtrack"

var (
	// ErrMatch wraps a failure reported by regexp2 while matching.
	ErrMatch = errors.NewKind("regexp2 match failed")
	// ErrForeignOptimized is returned when Exec gets an optimized form.
	ErrForeignOptimized = errors.NewKind("optimized form of type %T does not belong to backtrack")
)

func init() {
	engine.Register(Engine{})
}

// Engine compiles patterns with regexp2.
type Engine struct{}

// Name implements engine.Engine.
func (Engine) Name() string { return Name }

// Compile implements engine.Engine.
func (Engine) Compile(expr string, flags engine.Flags) (engine.Program, error) {
	if flags.Has(engine.Ungreedy) {
		return nil, engine.ErrUnsupportedFlags.New(Name, engine.Ungreedy)
	}

	var opts regexp2.RegexOptions
	if flags.Has(engine.IgnoreCase) {
		opts |= regexp2.IgnoreCase
	}
	if flags.Has(engine.Multiline) {
		opts |= regexp2.Multiline
	}
	if flags.Has(engine.DotAll) {
		opts |= regexp2.Singleline
	}
	if flags.Has(engine.Extended) {
		opts |= regexp2.IgnorePatternWhitespace
	}

	re, err := regexp2.Compile(expr, opts)
	if err != nil {
		return nil, &engine.CompileError{
			Expr:    expr,
			Message: strings.TrimPrefix(err.Error(), "error parsing regexp: "),
			Offset:  -1,
		}
	}

	p := &program{re: re, numbers: re.GetGroupNumbers()}
	p.slots = make(map[int]int, len(p.numbers))
	for slot, num := range p.numbers {
		p.slots[num] = slot
	}

	return p, nil
}

// program keeps the group numbers of the pattern in slot order: slot i of
// the raw offsets holds group numbers[i]. Explicitly numbered groups make
// regexp2 numbers sparse, slots are always dense.
//
// last holds the rune form of the most recent subject, so that the
// successive Exec calls of one scan convert the subject only once.
type program struct {
	re      *regexp2.Regexp
	numbers []int
	slots   map[int]int
	last    atomic.Pointer[runeSubject]
}

// runeSubject is a subject as regexp2 sees it. offs[i] is the byte offset
// of rune i; offs[len(runes)] is the subject length.
type runeSubject struct {
	s     string
	runes []rune
	offs  []int
}

func newRuneSubject(s string) *runeSubject {
	rs := &runeSubject{
		s:     s,
		runes: make([]rune, 0, len(s)),
		offs:  make([]int, 0, len(s)+1),
	}
	for i, r := range s {
		rs.runes = append(rs.runes, r)
		rs.offs = append(rs.offs, i)
	}
	rs.offs = append(rs.offs, len(s))

	return rs
}

// same reports whether s is the very string rs was built from. Strings are
// immutable and rs keeps its own alive, so equal data pointers and lengths
// mean equal contents.
func (rs *runeSubject) same(s string) bool {
	return len(rs.s) == len(s) && unsafe.StringData(rs.s) == unsafe.StringData(s)
}

// runeIndex maps a byte offset to a rune index, or -1 when the offset
// falls inside a multi-byte sequence.
func (rs *runeSubject) runeIndex(offset int) int {
	i := sort.SearchInts(rs.offs, offset)
	if i == len(rs.offs) || rs.offs[i] != offset {
		return -1
	}

	return i
}

func (p *program) subject(s string) *runeSubject {
	if rs := p.last.Load(); rs != nil && rs.same(s) {
		return rs
	}

	rs := newRuneSubject(s)
	p.last.Store(rs)

	return rs
}

// CaptureCount implements engine.Program.
func (p *program) CaptureCount() int {
	return len(p.numbers) - 1
}

// Names implements engine.Program.
func (p *program) Names() ([]engine.CaptureName, error) {
	var names []engine.CaptureName

	for _, name := range p.re.GetGroupNames() {
		if _, err := strconv.Atoi(name); err == nil {
			continue
		}

		slot, ok := p.slots[p.re.GroupNumberFromName(name)]
		if !ok {
			continue
		}
		names = append(names, engine.CaptureName{Name: name, Index: slot})
	}

	return names, nil
}

// Optimize implements engine.Program. regexp2 has no separate optimized
// form.
func (p *program) Optimize() (engine.Optimized, error) {
	return nil, nil
}

// Exec implements engine.Program.
func (p *program) Exec(opt engine.Optimized, subject string, offset int, flags engine.Flags) ([]int, error) {
	if opt != nil {
		return nil, ErrForeignOptimized.New(opt)
	}
	if unsupported := flags.Exec() &^ engine.Anchored; unsupported != 0 {
		return nil, engine.ErrUnsupportedFlags.New(Name, unsupported)
	}

	rs := p.subject(subject)

	start := rs.runeIndex(offset)
	if start < 0 {
		return nil, nil
	}

	m, err := p.re.FindRunesMatchStartingAt(rs.runes, start)
	if err != nil {
		return nil, ErrMatch.Wrap(err)
	}
	if m == nil {
		return nil, nil
	}
	offs := rs.offs

	// The leftmost match is tried at offset first, so an anchored match
	// exists exactly when the leftmost one starts there.
	if flags.Has(engine.Anchored) && m.Index != start {
		return nil, nil
	}

	out := make([]int, 2*len(p.numbers))
	for slot, num := range p.numbers {
		g := m.GroupByNumber(num)
		if g == nil || len(g.Captures) == 0 {
			out[2*slot], out[2*slot+1] = -1, -1
			continue
		}
		out[2*slot] = offs[g.Index]
		out[2*slot+1] = offs[g.Index+g.Length]
	}

	return out, nil
}
