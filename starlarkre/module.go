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

// Package starlarkre exposes patterns to Starlark scripts as an "re" module.
//
//	re.compile(pattern, flags=0)
//	re.search(pattern, string, flags=0)
//	re.match(pattern, string, flags=0)
//	re.findall(pattern, string, flags=0)
//	re.finditer(pattern, string, flags=0)
//	re.split(pattern, string, maxsplit=0, flags=0)
//	re.sub(pattern, repl, string, count=0, flags=0)
//	re.subn(pattern, repl, string, count=0, flags=0)
//	re.escape(string)
//	re.purge()
//
// pattern is a string or a compiled pattern. repl is a literal string or
// a function receiving the match and returning a string. Offsets are byte
// offsets. Patterns compile through a pattern.Cache.
package starlarkre

import (
	"fmt"
	"sort"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	errors "gopkg.in/src-d/go-errors.v1"

	pattern "github.com/GRbit/go-pattern"
)

var (
	// ErrNoGroup is a group reference naming no group of the pattern.
	ErrNoGroup = errors.NewKind("no such group: %s")
	// ErrCompiledFlags is a flags argument given with a compiled pattern.
	ErrCompiledFlags = errors.NewKind("cannot process flags argument with a compiled pattern")
	// ErrBadFlags is a flags argument outside the compile flags.
	ErrBadFlags = errors.NewKind("invalid flags %d")
	// ErrReplacement is a repl argument or result that is not a string.
	ErrReplacement = errors.NewKind("replacement must be a string, got %s")
)

type module struct {
	cache *pattern.Cache
}

// NewModule returns the "re" module compiling through cache. A nil cache
// is replaced by one built from pattern.DefaultConfig.
func NewModule(cache *pattern.Cache) *starlarkstruct.Module {
	if cache == nil {
		var err error
		if cache, err = pattern.NewCache(nil); err != nil {
			panic(err)
		}
	}

	m := &module{cache: cache}

	return &starlarkstruct.Module{
		Name: "re",
		Members: starlark.StringDict{
			"I":          flagValue(pattern.IgnoreCase),
			"IGNORECASE": flagValue(pattern.IgnoreCase),
			"U":          flagValue(pattern.Unicode),
			"UNICODE":    flagValue(pattern.Unicode),
			"M":          flagValue(pattern.Multiline),
			"MULTILINE":  flagValue(pattern.Multiline),
			"S":          flagValue(pattern.DotAll),
			"DOTALL":     flagValue(pattern.DotAll),
			"X":          flagValue(pattern.Extended),
			"VERBOSE":    flagValue(pattern.Extended),

			"compile":  starlark.NewBuiltin("compile", m.compile),
			"search":   starlark.NewBuiltin("search", m.search),
			"match":    starlark.NewBuiltin("match", m.search),
			"findall":  starlark.NewBuiltin("findall", m.findall),
			"finditer": starlark.NewBuiltin("finditer", m.findall),
			"split":    starlark.NewBuiltin("split", m.split),
			"sub":      starlark.NewBuiltin("sub", m.sub),
			"subn":     starlark.NewBuiltin("subn", m.sub),
			"escape":   starlark.NewBuiltin("escape", escape),
			"purge":    starlark.NewBuiltin("purge", m.purge),
		},
	}
}

func flagValue(f pattern.Flags) starlark.Int {
	return starlark.MakeUint64(uint64(f))
}

// patternParam accepts a pattern string or a compiled Pattern.
type patternParam struct {
	expr     string
	compiled *Pattern
}

func (p *patternParam) Unpack(v starlark.Value) error {
	switch v := v.(type) {
	case starlark.String:
		p.expr = string(v)
	case *Pattern:
		p.compiled = v
	default:
		return fmt.Errorf("got %s, want string or Pattern", v.Type())
	}

	return nil
}

func (m *module) pattern(p patternParam, flags int) (*Pattern, error) {
	if p.compiled != nil {
		if flags != 0 {
			return nil, ErrCompiledFlags.New()
		}
		return p.compiled, nil
	}

	if flags < 0 || pattern.Flags(flags)&^compileMask != 0 {
		return nil, ErrBadFlags.New(flags)
	}

	f := m.cache.Flags(pattern.Flags(flags))
	src := m.cache.Get(p.expr)

	c, err := src.Compile(f)
	if err != nil {
		return nil, err
	}

	return &Pattern{source: src, compiled: c, flags: f}, nil
}

const compileMask = pattern.IgnoreCase | pattern.Unicode | pattern.Multiline |
	pattern.DotAll | pattern.Extended | pattern.Ungreedy

func wrap(b *starlark.Builtin, err error) error {
	return fmt.Errorf("%s: %w", b.Name(), err)
}

func (m *module) compile(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		pat   patternParam
		flags int
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pattern", &pat, "flags?", &flags); err != nil {
		return nil, err
	}

	p, err := m.pattern(pat, flags)
	if err != nil {
		return nil, wrap(b, err)
	}

	return p, nil
}

// search serves both search and match.
func (m *module) search(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		pat   patternParam
		s     string
		flags int
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pattern", &pat, "string", &s, "flags?", &flags); err != nil {
		return nil, err
	}

	p, err := m.pattern(pat, flags)
	if err != nil {
		return nil, wrap(b, err)
	}

	var extra pattern.Flags
	if b.Name() == "match" {
		extra = pattern.Anchored
	}

	v, err := p.search(s, 0, extra)
	if err != nil {
		return nil, wrap(b, err)
	}

	return v, nil
}

// findall serves both findall and finditer.
func (m *module) findall(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		pat   patternParam
		s     string
		flags int
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pattern", &pat, "string", &s, "flags?", &flags); err != nil {
		return nil, err
	}

	p, err := m.pattern(pat, flags)
	if err != nil {
		return nil, wrap(b, err)
	}

	v, err := p.findall(s, 0, b.Name() == "finditer")
	if err != nil {
		return nil, wrap(b, err)
	}

	return v, nil
}

func (m *module) split(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		pat             patternParam
		s               string
		maxSplit, flags int
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"pattern", &pat, "string", &s, "maxsplit?", &maxSplit, "flags?", &flags); err != nil {
		return nil, err
	}

	p, err := m.pattern(pat, flags)
	if err != nil {
		return nil, wrap(b, err)
	}

	v, err := p.split(s, maxSplit)
	if err != nil {
		return nil, wrap(b, err)
	}

	return v, nil
}

// sub serves both sub and subn.
func (m *module) sub(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		pat          patternParam
		repl         starlark.Value
		s            string
		count, flags int
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"pattern", &pat, "repl", &repl, "string", &s, "count?", &count, "flags?", &flags); err != nil {
		return nil, err
	}

	p, err := m.pattern(pat, flags)
	if err != nil {
		return nil, wrap(b, err)
	}

	v, err := p.sub(thread, repl, s, count, b.Name() == "subn")
	if err != nil {
		return nil, wrap(b, err)
	}

	return v, nil
}

func (m *module) purge(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	m.cache.Purge()

	return starlark.None, nil
}

func escape(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var s string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "string", &s); err != nil {
		return nil, err
	}

	return starlark.String(pattern.Escape(s)), nil
}

func builtinAttrNames(methods map[string]*starlark.Builtin, members []string) []string {
	names := make([]string, 0, len(methods)+len(members))
	for name := range methods {
		names = append(names, name)
	}
	names = append(names, members...)
	sort.Strings(names)

	return names
}

func clamp(pos, length int) int {
	return max(0, min(pos, length))
}
