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
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/GRbit/go-pattern/engine"
)

// Compiled is a pattern compiled for one set of compile flags. It is
// safe for concurrent use.
type Compiled struct {
	expr   string
	engine string
	flags  Flags
	prog   engine.Program
	groups int
	names  NameTable
	log    logrus.FieldLogger

	optMu   sync.Mutex
	optDone bool
	opt     engine.Optimized
	optErr  error
}

func compile(eng engine.Engine, expr string, flags Flags, log logrus.FieldLogger) (*Compiled, error) {
	prog, err := eng.Compile(expr, flags)
	if err != nil {
		if ce, ok := err.(*engine.CompileError); ok {
			return nil, ErrSyntax.Wrap(ce, expr)
		}
		return nil, engineError(err, "compile")
	}

	groups := prog.CaptureCount()
	if groups < 0 {
		return nil, ErrRuntime.New(fmt.Sprintf("engine %s reported %d groups", eng.Name(), groups))
	}

	raw, err := prog.Names()
	if err != nil {
		return nil, engineError(err, "name table")
	}

	names, err := newNameTable(raw, groups)
	if err != nil {
		return nil, err
	}

	fields := logrus.Fields{
		"pattern": expr,
		"engine":  eng.Name(),
		"flags":   flags.String(),
		"groups":  groups,
	}
	if s, ok := prog.(interface{ Size() int }); ok {
		fields["size"] = s.Size()
	}
	log.WithFields(fields).Debug("pattern compiled")

	return &Compiled{
		expr:   expr,
		engine: eng.Name(),
		flags:  flags,
		prog:   prog,
		groups: groups,
		names:  names,
		log:    log,
	}, nil
}

// Expr returns the expression text.
func (c *Compiled) Expr() string {
	return c.expr
}

// Flags returns the compile flags.
func (c *Compiled) Flags() Flags {
	return c.flags
}

// Groups returns the number of capture groups, not counting group 0.
func (c *Compiled) Groups() int {
	return c.groups
}

// Names returns the named groups.
func (c *Compiled) Names() NameTable {
	return c.names
}

// Optimize builds the optimized form once. Later calls return the first
// outcome.
func (c *Compiled) Optimize() error {
	c.optMu.Lock()
	defer c.optMu.Unlock()

	if c.optDone {
		return c.optErr
	}
	c.optDone = true

	opt, err := c.prog.Optimize()
	if err != nil {
		c.optErr = engineError(err, "optimize")
		return c.optErr
	}
	c.opt = opt

	c.log.WithFields(logrus.Fields{
		"pattern":   c.expr,
		"engine":    c.engine,
		"optimized": opt != nil,
	}).Debug("pattern optimized")

	return nil
}

// Optimized reports whether an optimized form is in use.
func (c *Compiled) Optimized() bool {
	return c.optimized() != nil
}

func (c *Compiled) optimized() engine.Optimized {
	c.optMu.Lock()
	defer c.optMu.Unlock()

	return c.opt
}

// NameTable maps capture group names to group indices. Every index lies
// in 1..Groups and names are unique.
type NameTable struct {
	index map[string]int
	names []string
}

func newNameTable(raw []engine.CaptureName, groups int) (NameTable, error) {
	t := NameTable{index: make(map[string]int, len(raw))}
	seen := make(map[int]string, len(raw))

	for _, n := range raw {
		if n.Index < 1 || n.Index > groups {
			return NameTable{}, ErrRuntime.New(fmt.Sprintf(
				"group %q has index %d outside 1..%d", n.Name, n.Index, groups))
		}
		if _, dup := t.index[n.Name]; dup {
			return NameTable{}, ErrValue.New(fmt.Sprintf("duplicate group name %q", n.Name))
		}
		if other, dup := seen[n.Index]; dup {
			return NameTable{}, ErrRuntime.New(fmt.Sprintf(
				"groups %q and %q share index %d", other, n.Name, n.Index))
		}
		t.index[n.Name] = n.Index
		seen[n.Index] = n.Name
		t.names = append(t.names, n.Name)
	}

	sort.Slice(t.names, func(i, j int) bool {
		return t.index[t.names[i]] < t.index[t.names[j]]
	})

	return t, nil
}

// Index returns the group index of name.
func (t NameTable) Index(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Names returns the group names ordered by index.
func (t NameTable) Names() []string {
	return append([]string(nil), t.names...)
}

// Len returns the number of named groups.
func (t NameTable) Len() int {
	return len(t.names)
}
