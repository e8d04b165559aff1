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
	"iter"
	"unicode/utf8"
)

// All yields the successive non-overlapping matches in subject. After an
// empty match the search resumes one code point further on, so the
// sequence always ends. An error ends the sequence.
func (c *Compiled) All(subject string, flags Flags) iter.Seq2[*Match, error] {
	return c.AllAt(subject, 0, flags)
}

// AllAt is All starting the first search at byte offset.
func (c *Compiled) AllAt(subject string, offset int, flags Flags) iter.Seq2[*Match, error] {
	return func(yield func(*Match, error) bool) {
		if err := validateFlags(flags); err != nil {
			yield(nil, err)
			return
		}
		if offset < 0 || offset > len(subject) {
			yield(nil, ErrValue.New(fmt.Sprintf("offset %d outside subject of length %d", offset, len(subject))))
			return
		}

		for cursor := offset; cursor < len(subject); {
			m, err := c.matchAt(subject, cursor, flags)
			if err != nil {
				yield(nil, err)
				return
			}
			if m == nil || !yield(m, nil) {
				return
			}
			cursor = advance(subject, m.spans[0])
		}
	}
}

// FindAll returns every match All yields.
func (c *Compiled) FindAll(subject string, flags Flags) ([]*Match, error) {
	var out []*Match
	for m, err := range c.All(subject, flags) {
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	return out, nil
}

// advance returns where the search following whole resumes.
func advance(subject string, whole Span) int {
	if !whole.Empty() {
		return whole.End
	}
	if whole.End >= len(subject) {
		return len(subject) + 1
	}

	_, size := utf8.DecodeRuneInString(subject[whole.End:])

	return whole.End + size
}

// All compiles the pattern and yields its matches in subject.
func (p *Pattern) All(subject string, flags Flags) iter.Seq2[*Match, error] {
	return func(yield func(*Match, error) bool) {
		c, err := p.Compile(flags)
		if err != nil {
			yield(nil, err)
			return
		}
		c.All(subject, flags)(yield)
	}
}

// FindAll returns every match of the pattern in subject.
func (p *Pattern) FindAll(subject string, flags Flags) ([]*Match, error) {
	c, err := p.Compile(flags)
	if err != nil {
		return nil, err
	}

	return c.FindAll(subject, flags)
}
