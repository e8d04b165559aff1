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
	"strconv"
	"strings"
)

// Replacer computes the replacement text for a match.
type Replacer func(m *Match) (string, error)

// Substitute replaces up to maxCount matches in subject with the literal
// text repl. maxCount 0 replaces every match.
func (c *Compiled) Substitute(subject, repl string, maxCount int, flags Flags) (string, error) {
	out, _, err := c.SubstituteFunc(subject, func(*Match) (string, error) {
		return repl, nil
	}, maxCount, flags)

	return out, err
}

// SubstituteFunc replaces up to maxCount matches in subject with what
// repl returns for each of them and reports how many were replaced.
// maxCount 0 replaces every match. An error from repl is returned as is.
func (c *Compiled) SubstituteFunc(subject string, repl Replacer, maxCount int, flags Flags) (string, int, error) {
	if maxCount < 0 {
		return "", 0, ErrValue.New("negative count " + strconv.Itoa(maxCount))
	}

	var b strings.Builder
	last, n := 0, 0

	for m, err := range c.All(subject, flags) {
		if err != nil {
			return "", 0, err
		}

		text, err := repl(m)
		if err != nil {
			return "", 0, err
		}

		whole := m.spans[0]
		b.WriteString(subject[last:whole.Start])
		b.WriteString(text)
		last = whole.End
		n++

		if maxCount > 0 && n >= maxCount {
			break
		}
	}

	if n == 0 {
		return subject, 0, nil
	}
	b.WriteString(subject[last:])

	return b.String(), n, nil
}

// Substitute compiles the pattern and replaces up to maxCount matches in
// subject with repl.
func (p *Pattern) Substitute(subject, repl string, maxCount int, flags Flags) (string, error) {
	c, err := p.Compile(flags)
	if err != nil {
		return "", err
	}

	return c.Substitute(subject, repl, maxCount, flags)
}

// SubstituteFunc compiles the pattern and replaces up to maxCount matches
// in subject with what repl returns.
func (p *Pattern) SubstituteFunc(subject string, repl Replacer, maxCount int, flags Flags) (string, int, error) {
	c, err := p.Compile(flags)
	if err != nil {
		return "", 0, err
	}

	return c.SubstituteFunc(subject, repl, maxCount, flags)
}
