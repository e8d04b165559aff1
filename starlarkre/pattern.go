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

// Pattern is a compiled pattern as a Starlark value.
type Pattern struct {
	source   *pattern.Pattern
	compiled *pattern.Compiled
	flags    pattern.Flags
}

var (
	_ starlark.Value    = (*Pattern)(nil)
	_ starlark.HasAttrs = (*Pattern)(nil)
)

func (p *Pattern) String() string {
	if p.flags == 0 {
		return fmt.Sprintf("re.compile(%s)", starlark.String(p.source.Expr()))
	}

	return fmt.Sprintf("re.compile(%s, %s)", starlark.String(p.source.Expr()), p.flags)
}

func (p *Pattern) Type() string          { return "re.Pattern" }
func (p *Pattern) Freeze()               {}
func (p *Pattern) Truth() starlark.Bool  { return true }
func (p *Pattern) Hash() (uint32, error) { return starlark.String(p.source.Expr()).Hash() }

var patternMethods = map[string]*starlark.Builtin{
	"search":   starlark.NewBuiltin("search", patternSearch),
	"match":    starlark.NewBuiltin("match", patternSearch),
	"findall":  starlark.NewBuiltin("findall", patternFindall),
	"finditer": starlark.NewBuiltin("finditer", patternFindall),
	"split":    starlark.NewBuiltin("split", patternSplit),
	"sub":      starlark.NewBuiltin("sub", patternSub),
	"subn":     starlark.NewBuiltin("subn", patternSub),
}

var patternMembers = map[string]func(p *Pattern) starlark.Value{
	"pattern": func(p *Pattern) starlark.Value { return starlark.String(p.source.Expr()) },
	"flags":   func(p *Pattern) starlark.Value { return flagValue(p.flags) },
	"groups":  func(p *Pattern) starlark.Value { return starlark.MakeInt(p.compiled.Groups()) },
	"groupindex": func(p *Pattern) starlark.Value {
		names := p.compiled.Names()
		d := starlark.NewDict(names.Len())
		for _, name := range names.Names() {
			i, _ := names.Index(name)
			_ = d.SetKey(starlark.String(name), starlark.MakeInt(i))
		}
		return d
	},
}

func (p *Pattern) Attr(name string) (starlark.Value, error) {
	if b, ok := patternMethods[name]; ok {
		return b.BindReceiver(p), nil
	}
	if f, ok := patternMembers[name]; ok {
		return f(p), nil
	}

	return nil, nil
}

func (p *Pattern) AttrNames() []string {
	members := make([]string, 0, len(patternMembers))
	for name := range patternMembers {
		members = append(members, name)
	}

	return builtinAttrNames(patternMethods, members)
}

// search serves both search and match.
func patternSearch(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		s   string
		pos int
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "string", &s, "pos?", &pos); err != nil {
		return nil, err
	}

	var extra pattern.Flags
	if b.Name() == "match" {
		extra = pattern.Anchored
	}

	v, err := b.Receiver().(*Pattern).search(s, pos, extra)
	if err != nil {
		return nil, wrap(b, err)
	}

	return v, nil
}

func patternFindall(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		s   string
		pos int
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "string", &s, "pos?", &pos); err != nil {
		return nil, err
	}

	v, err := b.Receiver().(*Pattern).findall(s, pos, b.Name() == "finditer")
	if err != nil {
		return nil, wrap(b, err)
	}

	return v, nil
}

func patternSplit(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		s        string
		maxSplit int
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "string", &s, "maxsplit?", &maxSplit); err != nil {
		return nil, err
	}

	v, err := b.Receiver().(*Pattern).split(s, maxSplit)
	if err != nil {
		return nil, wrap(b, err)
	}

	return v, nil
}

func patternSub(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		repl  starlark.Value
		s     string
		count int
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "repl", &repl, "string", &s, "count?", &count); err != nil {
		return nil, err
	}

	v, err := b.Receiver().(*Pattern).sub(thread, repl, s, count, b.Name() == "subn")
	if err != nil {
		return nil, wrap(b, err)
	}

	return v, nil
}

func (p *Pattern) search(s string, pos int, extra pattern.Flags) (starlark.Value, error) {
	m, err := p.compiled.MatchAt(s, clamp(pos, len(s)), p.flags|extra)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return starlark.None, nil
	}

	return &Match{match: m, pattern: p}, nil
}

// findall returns match values when asMatches is set. Otherwise each
// element is the whole match for patterns without groups, the group text
// for patterns with one group and a tuple of group texts beyond that.
func (p *Pattern) findall(s string, pos int, asMatches bool) (starlark.Value, error) {
	var out []starlark.Value

	for m, err := range p.compiled.AllAt(s, clamp(pos, len(s)), p.flags) {
		if err != nil {
			return nil, err
		}
		if asMatches {
			out = append(out, &Match{match: m, pattern: p})
			continue
		}

		switch m.Len() {
		case 1:
			out = append(out, starlark.String(m.String()))
		case 2:
			text, _ := m.Group(1)
			out = append(out, starlark.String(text))
		default:
			groups := m.Groups("")
			t := make(starlark.Tuple, len(groups))
			for i, g := range groups {
				t[i] = starlark.String(g)
			}
			out = append(out, t)
		}
	}

	return starlark.NewList(out), nil
}

func (p *Pattern) split(s string, maxSplit int) (starlark.Value, error) {
	pieces, err := p.compiled.Split(s, maxSplit, p.flags)
	if err != nil {
		return nil, err
	}

	out := make([]starlark.Value, len(pieces))
	for i, piece := range pieces {
		out[i] = starlark.String(piece)
	}

	return starlark.NewList(out), nil
}

func (p *Pattern) sub(thread *starlark.Thread, repl starlark.Value, s string, count int, withCount bool) (starlark.Value, error) {
	r, err := p.replacer(thread, repl)
	if err != nil {
		return nil, err
	}

	out, n, err := p.compiled.SubstituteFunc(s, r, count, p.flags)
	if err != nil {
		return nil, err
	}

	if withCount {
		return starlark.Tuple{starlark.String(out), starlark.MakeInt(n)}, nil
	}

	return starlark.String(out), nil
}

func (p *Pattern) replacer(thread *starlark.Thread, repl starlark.Value) (pattern.Replacer, error) {
	switch repl := repl.(type) {
	case starlark.String:
		text := string(repl)
		return func(*pattern.Match) (string, error) { return text, nil }, nil
	case starlark.Callable:
		return func(m *pattern.Match) (string, error) {
			v, err := starlark.Call(thread, repl, starlark.Tuple{&Match{match: m, pattern: p}}, nil)
			if err != nil {
				return "", err
			}
			text, ok := starlark.AsString(v)
			if !ok {
				return "", ErrReplacement.New(v.Type())
			}
			return text, nil
		}, nil
	}

	return nil, ErrReplacement.New(repl.Type())
}
