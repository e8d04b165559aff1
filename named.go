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

// WholeMatchKey is the ByName entry holding the whole match.
const WholeMatchKey = "$_"

// ByName maps each named group that took part in m to its text, plus
// WholeMatchKey to the whole match. m must come from c.
func (c *Compiled) ByName(m *Match) (map[string]string, error) {
	if m == nil {
		return nil, ErrReference.New("nil match")
	}
	if len(m.spans) != c.groups+1 {
		return nil, ErrRuntime.New(fmt.Sprintf(
			"match has %d groups, pattern %q has %d", len(m.spans)-1, c.expr, c.groups))
	}

	whole, ok := m.Group(0)
	if !ok {
		return nil, ErrRuntime.New("match without a whole match span")
	}

	out := make(map[string]string, c.names.Len()+1)
	out[WholeMatchKey] = whole

	for _, name := range c.names.names {
		if text, ok := m.Group(c.names.index[name]); ok {
			out[name] = text
		}
	}

	return out, nil
}

// SearchByName searches subject and returns ByName of the first match.
// The map is empty when nothing matches.
func (c *Compiled) SearchByName(subject string, flags Flags) (map[string]string, error) {
	m, err := c.Search(subject, flags)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return map[string]string{}, nil
	}

	return c.ByName(m)
}

// SearchByName compiles the pattern and returns the named groups of its
// first match in subject.
func (p *Pattern) SearchByName(subject string, flags Flags) (map[string]string, error) {
	c, err := p.Compile(flags)
	if err != nil {
		return nil, err
	}

	return c.SearchByName(subject, flags)
}
