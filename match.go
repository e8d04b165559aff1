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

package pattern

import (
	"fmt"
)

// Span is a byte range [Start, End) of the subject.
type Span struct {
	Start, End int
}

// Unmatched is the span of a group that did not take part in the match.
var Unmatched = Span{Start: -1, End: -1}

// Matched reports whether the group took part in the match.
func (s Span) Matched() bool {
	return s.Start >= 0
}

// Empty reports a zero-length span.
func (s Span) Empty() bool {
	return s.Start == s.End
}

// Match is one successful match. It keeps the subject and stays valid
// after the Pattern that produced it is gone.
type Match struct {
	subject string
	spans   []Span
	names   NameTable
}

// Subject returns the searched string.
func (m *Match) Subject() string {
	return m.subject
}

// Len returns the number of spans: the capture groups plus group 0.
func (m *Match) Len() int {
	return len(m.spans)
}

// Span returns the span of group i, or Unmatched if there is no such group.
func (m *Match) Span(i int) Span {
	if i < 0 || i >= len(m.spans) {
		return Unmatched
	}

	return m.spans[i]
}

// Spans returns a copy of all spans, group 0 first.
func (m *Match) Spans() []Span {
	return append([]Span(nil), m.spans...)
}

// Start returns the start of the whole match.
func (m *Match) Start() int {
	return m.spans[0].Start
}

// End returns the end of the whole match.
func (m *Match) End() int {
	return m.spans[0].End
}

// Group returns the text of group i. ok is false for groups that did not
// take part in the match.
func (m *Match) Group(i int) (text string, ok bool) {
	s := m.Span(i)
	if !s.Matched() {
		return "", false
	}

	return m.subject[s.Start:s.End], true
}

// Groups returns the text of groups 1..n, with def standing in for groups
// that did not match.
func (m *Match) Groups(def string) []string {
	out := make([]string, 0, len(m.spans)-1)
	for i := 1; i < len(m.spans); i++ {
		text, ok := m.Group(i)
		if !ok {
			text = def
		}
		out = append(out, text)
	}

	return out
}

// Named returns the text of the group called name.
func (m *Match) Named(name string) (string, bool) {
	i, ok := m.names.Index(name)
	if !ok {
		return "", false
	}

	return m.Group(i)
}

// Names returns the named groups of the pattern that produced m.
func (m *Match) Names() NameTable {
	return m.names
}

func (m *Match) String() string {
	text, _ := m.Group(0)
	return text
}

// MatchAt searches subject starting at byte offset, which must lie in
// 0..len(subject). Text before offset stays visible to lookbehind and
// \b. A nil Match means no match. \K inside a lookaround assertion is not
// supported.
func (c *Compiled) MatchAt(subject string, offset int, flags Flags) (*Match, error) {
	if err := validateFlags(flags); err != nil {
		return nil, err
	}
	if offset < 0 || offset > len(subject) {
		return nil, ErrValue.New(fmt.Sprintf("offset %d outside subject of length %d", offset, len(subject)))
	}

	return c.matchAt(subject, offset, flags)
}

// Search finds the first match anywhere in subject.
func (c *Compiled) Search(subject string, flags Flags) (*Match, error) {
	return c.MatchAt(subject, 0, flags)
}

// Match matches only at the start of subject.
func (c *Compiled) Match(subject string, flags Flags) (*Match, error) {
	return c.MatchAt(subject, 0, flags|Anchored)
}

func (c *Compiled) matchAt(subject string, offset int, flags Flags) (*Match, error) {
	raw, err := c.prog.Exec(c.optimized(), subject, offset, flags.Exec())
	if err != nil {
		return nil, engineError(err, "exec")
	}
	if raw == nil {
		return nil, nil
	}

	return c.decode(subject, offset, raw)
}

// decode turns the engine's offset pairs into spans, checking that they
// describe ranges of subject. Matches whose reported start lies after
// their end or before offset are rejected with ErrReference; PCRE produces
// them only for \K inside lookaround, which this package does not support.
func (c *Compiled) decode(subject string, offset int, raw []int) (*Match, error) {
	n := c.groups + 1
	if len(raw) != 2*n {
		return nil, ErrReference.New(fmt.Sprintf(
			"engine %s returned %d offsets for %d groups", c.engine, len(raw), c.groups))
	}

	spans := make([]Span, n)
	for i := range spans {
		s, e := raw[2*i], raw[2*i+1]
		switch {
		case s < 0 && e < 0 && i > 0:
			spans[i] = Unmatched
		case s < 0 || e < s || e > len(subject):
			return nil, ErrReference.New(fmt.Sprintf(
				"engine %s returned span [%d,%d) for group %d of a %d byte subject",
				c.engine, s, e, i, len(subject)))
		default:
			spans[i] = Span{Start: s, End: e}
		}
	}
	if spans[0].Start < offset {
		return nil, ErrReference.New(fmt.Sprintf(
			"engine %s matched at %d before offset %d", c.engine, spans[0].Start, offset))
	}

	return &Match{subject: subject, spans: spans, names: c.names}, nil
}
