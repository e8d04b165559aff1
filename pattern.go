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

// Package pattern is a regular expression layer over pluggable engines.
//
// A Pattern holds expression text and compiles it lazily, once per set of
// compile flags, the first time an operation needs it. Operations return
// byte offsets into the subject; a missing match is a nil *Match, never an
// error. Repeated searches (FindAll, Substitute, Split) always advance, so
// patterns that can match the empty string terminate.
//
// The engine is libpcre when cgo is available and a pure Go backtracking
// engine otherwise; see the engine package.
package pattern

import (
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/GRbit/go-pattern/engine"
)

// Pattern is a regular expression and its lazily compiled forms.
//
// Copies of a Pattern share compiled forms. Set replaces the expression
// and drops them for the receiver only.
type Pattern struct {
	expr     string
	engine   engine.Engine
	optimize bool
	log      logrus.FieldLogger
	state    *state
}

type state struct {
	mu       sync.Mutex
	compiled map[Flags]result
}

type result struct {
	c   *Compiled
	err error
}

func newState() *state {
	return &state{compiled: make(map[Flags]result)}
}

// Option configures a Pattern.
type Option func(*Pattern)

// WithEngine selects the engine. The default is DefaultEngine.
func WithEngine(e engine.Engine) Option {
	return func(p *Pattern) {
		p.engine = e
	}
}

// WithOptimize builds the optimized form right after each compile.
// Optimization failures are logged and the pattern stays usable.
func WithOptimize() Option {
	return func(p *Pattern) {
		p.optimize = true
	}
}

// WithLogger sets the logger compile and optimize events go to.
func WithLogger(l logrus.FieldLogger) Option {
	return func(p *Pattern) {
		p.log = l
	}
}

// New returns an uncompiled Pattern for expr.
func New(expr string, opts ...Option) *Pattern {
	p := &Pattern{
		expr:  expr,
		log:   logrus.StandardLogger(),
		state: newState(),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Compile returns a Pattern already compiled with flags.
func Compile(expr string, flags Flags, opts ...Option) (*Pattern, error) {
	p := New(expr, opts...)
	if _, err := p.Compile(flags); err != nil {
		return nil, err
	}

	return p, nil
}

// MustCompile is Compile that panics on error.
func MustCompile(expr string, flags Flags, opts ...Option) *Pattern {
	p, err := Compile(expr, flags, opts...)
	if err != nil {
		panic(err)
	}

	return p
}

// Set replaces the expression. Compiled forms held by other copies of
// the Pattern are left alone.
func (p *Pattern) Set(expr string) {
	p.expr = expr
	p.state = newState()
}

// Expr returns the expression text.
func (p *Pattern) Expr() string {
	return p.expr
}

func (p *Pattern) String() string {
	return p.expr
}

// Repr describes the pattern for diagnostics.
func (p *Pattern) Repr() string {
	if p.expr == "" {
		return "<Pattern>"
	}

	return "<Pattern: " + strconv.Quote(p.expr) + ">"
}

// Engine returns the engine the pattern compiles with.
func (p *Pattern) Engine() engine.Engine {
	if p.engine == nil {
		return DefaultEngine()
	}

	return p.engine
}

// Compile compiles the pattern for the compile bits of flags, or returns
// the form compiled earlier. Failures are remembered too.
func (p *Pattern) Compile(flags Flags) (*Compiled, error) {
	if err := validateFlags(flags); err != nil {
		return nil, err
	}
	if p.expr == "" {
		return nil, ErrValue.New("empty pattern")
	}
	if p.state == nil {
		p.state = newState()
	}

	key := flags.Compile()
	st := p.state

	st.mu.Lock()
	defer st.mu.Unlock()

	if r, ok := st.compiled[key]; ok {
		return r.c, r.err
	}

	c, err := compile(p.Engine(), p.expr, key, p.logger())
	st.compiled[key] = result{c: c, err: err}

	if err == nil && p.optimize {
		if err := c.Optimize(); err != nil {
			p.logger().WithError(err).WithField("pattern", p.expr).
				Warn("optimize failed, matching without optimized form")
		}
	}

	return c, err
}

// Optimize compiles the pattern if needed and builds its optimized form.
func (p *Pattern) Optimize(flags Flags) error {
	c, err := p.Compile(flags)
	if err != nil {
		return err
	}

	return c.Optimize()
}

// MatchAt searches subject from byte offset. See Compiled.MatchAt.
func (p *Pattern) MatchAt(subject string, offset int, flags Flags) (*Match, error) {
	c, err := p.Compile(flags)
	if err != nil {
		return nil, err
	}

	return c.MatchAt(subject, offset, flags)
}

// Search finds the first match anywhere in subject.
func (p *Pattern) Search(subject string, flags Flags) (*Match, error) {
	return p.MatchAt(subject, 0, flags)
}

// Match matches only at the start of subject.
func (p *Pattern) Match(subject string, flags Flags) (*Match, error) {
	return p.MatchAt(subject, 0, flags|Anchored)
}

func (p *Pattern) logger() logrus.FieldLogger {
	if p.log == nil {
		return logrus.StandardLogger()
	}

	return p.log
}
