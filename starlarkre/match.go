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

package starlarkre

import (
	"fmt"

	"go.starlark.net/starlark"

	pattern "github.com/GRbit/go-pattern"
)

// Match is a successful match as a Starlark value. Groups are addressed
// by index or by name.
type Match struct {
	match   *pattern.Match
	pattern *Pattern
}

var (
	_ starlark.Value    = (*Match)(nil)
	_ starlark.HasAttrs = (*Match)(nil)
	_ starlark.Mapping  = (*Match)(nil)
)

func (m *Match) String() string {
	return fmt.Sprintf("<re.Match object; span=(%d, %d), match=%s>",
		m.match.Start(), m.match.End(), starlark.String(m.match.String()))
}

func (m *Match) Type() string         { return "re.Match" }
func (m *Match) Freeze()              {}
func (m *Match) Truth() starlark.Bool { return true }

func (m *Match) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: %s", m.Type())
}

var matchMethods = map[string]*starlark.Builtin{
	"group":     starlark.NewBuiltin("group", matchGroup),
	"groups":    starlark.NewBuiltin("groups", matchGroups),
	"groupdict": starlark.NewBuiltin("groupdict", matchGroupDict),
	"span":      starlark.NewBuiltin("span", matchSpan),
	"start":     starlark.NewBuiltin("start", matchSpan),
	"end":       starlark.NewBuiltin("end", matchSpan),
}

var matchMembers = map[string]func(m *Match) starlark.Value{
	"string": func(m *Match) starlark.Value { return starlark.String(m.match.Subject()) },
	"re":     func(m *Match) starlark.Value { return m.pattern },
}

func (m *Match) Attr(name string) (starlark.Value, error) {
	if b, ok := matchMethods[name]; ok {
		return b.BindReceiver(m), nil
	}
	if f, ok := matchMembers[name]; ok {
		return f(m), nil
	}

	return nil, nil
}

func (m *Match) AttrNames() []string {
	members := make([]string, 0, len(matchMembers))
	for name := range matchMembers {
		members = append(members, name)
	}

	return builtinAttrNames(matchMethods, members)
}

// Get makes m[g] the same as m.group(g).
func (m *Match) Get(k starlark.Value) (starlark.Value, bool, error) {
	v, err := m.group(k)
	if err != nil {
		return nil, false, err
	}

	return v, true, nil
}

func (m *Match) index(g starlark.Value) (int, error) {
	switch g := g.(type) {
	case starlark.Int:
		i, err := starlark.AsInt32(g)
		if err != nil || i < 0 || i >= m.match.Len() {
			return 0, ErrNoGroup.New(g.String())
		}
		return i, nil
	case starlark.String:
		i, ok := m.match.Names().Index(string(g))
		if !ok {
			return 0, ErrNoGroup.New(g.String())
		}
		return i, nil
	}

	return 0, ErrNoGroup.New(g.String())
}

func (m *Match) group(g starlark.Value) (starlark.Value, error) {
	i, err := m.index(g)
	if err != nil {
		return nil, err
	}

	text, ok := m.match.Group(i)
	if !ok {
		return starlark.None, nil
	}

	return starlark.String(text), nil
}

func matchGroup(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("%s: unexpected keyword arguments", b.Name())
	}

	m := b.Receiver().(*Match)
	if len(args) == 0 {
		args = starlark.Tuple{starlark.MakeInt(0)}
	}

	out := make(starlark.Tuple, len(args))
	for i, g := range args {
		v, err := m.group(g)
		if err != nil {
			return nil, wrap(b, err)
		}
		out[i] = v
	}

	if len(out) == 1 {
		return out[0], nil
	}

	return out, nil
}

func matchGroups(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var def starlark.Value = starlark.None
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "default?", &def); err != nil {
		return nil, err
	}

	m := b.Receiver().(*Match)
	out := make(starlark.Tuple, 0, m.match.Len()-1)
	for i := 1; i < m.match.Len(); i++ {
		if text, ok := m.match.Group(i); ok {
			out = append(out, starlark.String(text))
		} else {
			out = append(out, def)
		}
	}

	return out, nil
}

func matchGroupDict(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var def starlark.Value = starlark.None
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "default?", &def); err != nil {
		return nil, err
	}

	m := b.Receiver().(*Match)
	names := m.match.Names()

	d := starlark.NewDict(names.Len())
	for _, name := range names.Names() {
		var v starlark.Value = def
		if text, ok := m.match.Named(name); ok {
			v = starlark.String(text)
		}
		if err := d.SetKey(starlark.String(name), v); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// matchSpan serves span, start and end.
func matchSpan(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var g starlark.Value = starlark.MakeInt(0)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "group?", &g); err != nil {
		return nil, err
	}

	m := b.Receiver().(*Match)
	i, err := m.index(g)
	if err != nil {
		return nil, wrap(b, err)
	}

	span := m.match.Span(i)
	switch b.Name() {
	case "start":
		return starlark.MakeInt(span.Start), nil
	case "end":
		return starlark.MakeInt(span.End), nil
	}

	return starlark.Tuple{starlark.MakeInt(span.Start), starlark.MakeInt(span.End)}, nil
}
