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
)

// Split cuts subject around the matches of c, at most maxSplit times
// (0 for no limit). The text of every capture group that took part in a
// match follows the piece before it. The rest of subject after the last
// cut is always the final piece, even when empty.
func (c *Compiled) Split(subject string, maxSplit int, flags Flags) ([]string, error) {
	if maxSplit < 0 {
		return nil, ErrValue.New("negative split count " + strconv.Itoa(maxSplit))
	}

	var pieces []string
	last, n := 0, 0

	for m, err := range c.All(subject, flags) {
		if err != nil {
			return nil, err
		}

		whole := m.spans[0]
		pieces = append(pieces, subject[last:whole.Start])
		for i := 1; i < len(m.spans); i++ {
			if text, ok := m.Group(i); ok {
				pieces = append(pieces, text)
			}
		}
		last = whole.End
		n++

		if maxSplit > 0 && n >= maxSplit {
			break
		}
	}

	return append(pieces, subject[last:]), nil
}

// Split compiles the pattern and cuts subject around its matches.
func (p *Pattern) Split(subject string, maxSplit int, flags Flags) ([]string, error) {
	c, err := p.Compile(flags)
	if err != nil {
		return nil, err
	}

	return c.Split(subject, maxSplit, flags)
}
