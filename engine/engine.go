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

// Package engine defines the contract between the pattern layer and the
// regular expression engines executing it.
//
// An Engine turns pattern text into a Program. A Program reports its
// capture layout, may build an optional optimized form, and executes
// against a subject from a byte offset, returning raw capture offsets.
// Backends live in sub-packages and register themselves by name.
package engine

import (
	"fmt"
	"sort"
	"sync"

	errors "gopkg.in/src-d/go-errors.v1"
)

// Engine compiles pattern text.
type Engine interface {
	// Name is the registry name of the engine.
	Name() string

	// Compile compiles expr with the compile-time part of flags. Syntax
	// problems are reported as *CompileError.
	Compile(expr string, flags Flags) (Program, error)
}

// Program is a compiled pattern. Programs are immutable and safe for
// concurrent use.
type Program interface {
	// CaptureCount is the number of capture groups declared by the pattern.
	CaptureCount() int

	// Names returns the named groups of the pattern.
	Names() ([]CaptureName, error)

	// Optimize builds an optimized form of the program. A nil Optimized
	// with a nil error means the engine had nothing to add.
	Optimize() (Optimized, error)

	// Exec matches subject starting at byte offset. opt is nil or a value
	// returned by Optimize on the same program. On success the result
	// holds 2*(CaptureCount()+1) offsets, -1 for groups that did not
	// participate. A nil result with a nil error means no match.
	Exec(opt Optimized, subject string, offset int, flags Flags) ([]int, error)
}

// Optimized is the engine specific optimized form of a Program.
type Optimized interface{}

// CaptureName maps a group name to its 1-based group index.
type CaptureName struct {
	Name  string
	Index int
}

// CompileError reports a pattern the engine refused to compile.
type CompileError struct {
	Expr    string
	Message string
	Offset  int // byte offset of the error in Expr, -1 when unknown
}

func (e *CompileError) Error() string {
	if e.Offset < 0 {
		return e.Message
	}

	return fmt.Sprintf("%s at offset %d", e.Message, e.Offset)
}

// ErrUnsupportedFlags is returned by engines for flags they cannot honour.
var ErrUnsupportedFlags = errors.NewKind("engine %s does not support %s")

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Engine)
)

// Register makes an engine available by name. It panics if Register is
// called twice with the same name.
func Register(e Engine) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, dup := registry[e.Name()]; dup {
		panic("engine: Register called twice for engine " + e.Name())
	}
	registry[e.Name()] = e
}

// Lookup returns the engine registered under name.
func Lookup(name string) (Engine, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	e, ok := registry[name]

	return e, ok
}

// Engines returns the sorted names of the registered engines.
func Engines() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
